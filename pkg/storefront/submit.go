package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmed8601/kahramana-site/pkg/cart"
	"github.com/ahmed8601/kahramana-site/pkg/checkout"
	"github.com/ahmed8601/kahramana-site/pkg/models"
	"github.com/ahmed8601/kahramana-site/pkg/tracking"

	"go.uber.org/zap"
)

// Phase is the state of the order submission machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseFailed
	PhaseSubmitting
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseValidating:
		return "VALIDATING"
	case PhaseFailed:
		return "FAILED"
	case PhaseSubmitting:
		return "SUBMITTING"
	case PhaseSubmitted:
		return "SUBMITTED"
	default:
		return "UNKNOWN"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Submission is the outcome of one Submit call.
type Submission struct {
	Phase    Phase
	Link     string
	Progress tracking.Progress
}

// Submit validates the order, builds the message and hands the link to
// opener. Only after opener succeeds is the session reset: cart emptied,
// form cleared and closed, and a new progress display started. Any failure
// leaves the cart untouched and is also stored as the form error.
func (c *Controller) Submit(ctx context.Context, opener Opener) (Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.formError = ""
	c.transition(PhaseValidating)

	summary := c.cart.Derive(c.catalog)
	if err := checkout.Validate(summary.Lines, c.customer, c.format.Destination); err != nil {
		return c.fail(err), err
	}

	c.transition(PhaseSubmitting)
	c.processing = true
	defer func() { c.processing = false }()

	link, err := c.send(ctx, summary, opener)
	if err != nil {
		c.log.Error("order submission failed", zap.Error(err))
		c.notify(msgPreparingError, models.ToastError)
		uerr := checkout.Unexpected(err)
		return c.fail(uerr), uerr
	}

	c.cart.Clear()
	c.customer = models.DefaultCustomer()
	c.cartOpen = false
	c.checkoutOpen = false
	progress := c.tracker.Start()
	c.notify(msgSent, models.ToastSuccess)
	c.store.Save(ctx, c.cart)
	c.transition(PhaseSubmitted)

	c.log.Info("order sent", zap.Int("order_id", progress.OrderID))
	return Submission{Phase: PhaseSubmitted, Link: link, Progress: progress}, nil
}

func (c *Controller) send(ctx context.Context, s cart.Summary, opener Opener) (link string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if opener == nil {
		return "", errors.New("no opener")
	}

	msg := checkout.BuildMessage(s.Lines, s.Total, c.customer, c.now(), c.format)
	link = checkout.BuildLink(c.format, msg)
	if err := opener.Open(ctx, link); err != nil {
		return "", err
	}
	return link, nil
}

// fail records err on the form and returns the machine to idle.
func (c *Controller) fail(err error) Submission {
	c.transition(PhaseFailed)
	var ce *checkout.Error
	if errors.As(err, &ce) {
		c.formError = ce.Message
	} else {
		c.formError = checkout.MsgUnexpected
	}
	c.transition(PhaseIdle)
	return Submission{Phase: PhaseFailed}
}

func (c *Controller) transition(to Phase) {
	c.log.Debug("submission transition", zap.Stringer("from", c.phase), zap.Stringer("to", to))
	c.phase = to
}
