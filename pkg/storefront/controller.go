// Package storefront owns the per-session application state: the cart, the
// checkout form, the UI flags and the order submission state machine.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ahmed8601/kahramana-site/pkg/cart"
	"github.com/ahmed8601/kahramana-site/pkg/catalog"
	"github.com/ahmed8601/kahramana-site/pkg/checkout"
	"github.com/ahmed8601/kahramana-site/pkg/models"
	"github.com/ahmed8601/kahramana-site/pkg/persistence"
	"github.com/ahmed8601/kahramana-site/pkg/tracking"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrUnknownItem is returned for item ids that are not on the menu.
var ErrUnknownItem = errors.New("storefront: unknown menu item")

// ToastTTL is how long a notification stays visible.
const ToastTTL = 2800 * time.Millisecond

const (
	msgAdded          = "تمت الإضافة للسلة ✅"
	msgSent           = "تم فتح واتساب لإرسال الطلب ✅"
	msgPreparingError = "حدث خطأ أثناء تجهيز الطلب"
)

// Opener hands the deep-link to whatever opens it.
type Opener interface {
	Open(ctx context.Context, link string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, link string) error

func (f OpenerFunc) Open(ctx context.Context, link string) error { return f(ctx, link) }

// Toast is a short-lived notification.
type Toast struct {
	Message   string           `json:"message"`
	Type      models.ToastType `json:"type"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Catalog     *catalog.Catalog
	Persistence *persistence.Adapter
	Tracker     *tracking.Tracker
	Format      checkout.Format
	Now         func() time.Time
	Log         *zap.Logger
}

// Controller is the only mutator of one session's state. Methods are safe
// for concurrent use and run one at a time.
type Controller struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	store   *persistence.Adapter
	tracker *tracking.Tracker
	format  checkout.Format
	now     func() time.Time
	log     *zap.Logger

	cart         *cart.Cart
	customer     models.CustomerInfo
	cartOpen     bool
	checkoutOpen bool
	formError    string
	processing   bool
	phase        Phase
	toast        *Toast
}

// New builds a controller and restores its cart. Saves start only after the
// restore has finished.
func New(ctx context.Context, d Deps) *Controller {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Tracker == nil {
		d.Tracker = tracking.New(tracking.RealScheduler, tracking.DefaultDelays)
	}
	c := &Controller{
		catalog:  d.Catalog,
		store:    d.Persistence,
		tracker:  d.Tracker,
		format:   d.Format,
		now:      d.Now,
		log:      d.Log,
		customer: models.DefaultCustomer(),
		phase:    PhaseIdle,
	}
	c.cart = c.store.Load(ctx)
	return c
}

// AddItem puts one more of id in the cart, opens the cart view and closes
// the checkout form.
func (c *Controller) AddItem(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.catalog.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	c.cart.Add(id)
	c.cartOpen = true
	c.checkoutOpen = false
	c.notify(msgAdded, models.ToastSuccess)
	c.cartChanged(ctx, false)
	return nil
}

// ChangeQuantity adds delta to the quantity of id; the entry is removed when
// the result is zero or less.
func (c *Controller) ChangeQuantity(ctx context.Context, id, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.catalog.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	wasFilled := c.cart.Len() > 0
	c.cart.ChangeQuantity(id, delta)
	c.cartChanged(ctx, wasFilled)
	return nil
}

// cartChanged keeps the checkout form closed for an empty cart, resets the
// form when the cart has just been emptied, and saves the snapshot.
func (c *Controller) cartChanged(ctx context.Context, wasFilled bool) {
	if c.cart.Len() == 0 {
		c.checkoutOpen = false
		if wasFilled {
			c.customer = models.DefaultCustomer()
		}
	}
	c.store.Save(ctx, c.cart)
}

// OpenCart shows the cart with the checkout form closed.
func (c *Controller) OpenCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartOpen = true
	c.checkoutOpen = false
}

// CloseCart hides the cart and the checkout form.
func (c *Controller) CloseCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartOpen = false
	c.checkoutOpen = false
}

// OpenCheckout shows the checkout form. It reports false, leaving the form
// closed, when the cart is empty.
func (c *Controller) OpenCheckout() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart.Len() == 0 {
		c.checkoutOpen = false
		return false
	}
	c.cartOpen = true
	c.checkoutOpen = true
	return true
}

// CloseCheckout returns from the form to the cart.
func (c *Controller) CloseCheckout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkoutOpen = false
}

// SetCustomer replaces the checkout form. An unknown payment method keeps
// the current one.
func (c *Controller) SetCustomer(info models.CustomerInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !info.Payment.Valid() {
		info.Payment = c.customer.Payment
	}
	c.customer = info
}

// Menu returns the items matching the category filter and search query.
func (c *Controller) Menu(category models.Category, query string) []models.MenuItem {
	return c.catalog.Filter(category, query)
}

// Featured returns the featured items.
func (c *Controller) Featured() []models.MenuItem {
	return c.catalog.Featured()
}

// DismissProgress clears the order progress display.
func (c *Controller) DismissProgress() {
	c.tracker.Dismiss()
}

// Progress returns the order progress display, if any.
func (c *Controller) Progress() (tracking.Progress, bool) {
	return c.tracker.Current()
}

func (c *Controller) notify(msg string, kind models.ToastType) {
	c.toast = &Toast{Message: msg, Type: kind, ExpiresAt: c.now().Add(ToastTTL)}
	c.log.Debug("toast", zap.String("type", string(kind)), zap.String("message", msg))
}

// View is everything the page renders for this session.
type View struct {
	Lines          []models.LineItem   `json:"lines"`
	Total          decimal.Decimal     `json:"total"`
	TotalFormatted string              `json:"totalFormatted"`
	Count          int                 `json:"count"`
	CartOpen       bool                `json:"cartOpen"`
	CheckoutOpen   bool                `json:"checkoutOpen"`
	Customer       models.CustomerInfo `json:"customer"`
	FormError      string              `json:"formError,omitempty"`
	Processing     bool                `json:"processing"`
	Phase          Phase               `json:"phase"`
	Toast          *Toast              `json:"toast,omitempty"`
	Progress       *tracking.Progress  `json:"progress,omitempty"`
}

// View derives the current view. Totals are recomputed on every call.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.cart.Derive(c.catalog)
	v := View{
		Lines:          s.Lines,
		Total:          s.Total,
		TotalFormatted: c.format.Amount(s.Total),
		Count:          s.Count,
		CartOpen:       c.cartOpen,
		CheckoutOpen:   c.checkoutOpen,
		Customer:       c.customer,
		FormError:      c.formError,
		Processing:     c.processing,
		Phase:          c.phase,
	}
	if c.toast != nil && c.now().Before(c.toast.ExpiresAt) {
		t := *c.toast
		v.Toast = &t
	}
	if p, ok := c.tracker.Current(); ok {
		v.Progress = &p
	}
	return v
}
