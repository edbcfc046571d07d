// Package tracking runs the cosmetic order progress shown after an order is
// sent. It has no connection to the restaurant and advances on fixed delays.
package tracking

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Stage enum
type Stage int

const (
	StageSent Stage = iota + 1
	StagePreparing
	StageOutForDelivery
)

func (s Stage) String() string {
	switch s {
	case StageSent:
		return "SENT"
	case StagePreparing:
		return "PREPARING"
	case StageOutForDelivery:
		return "OUT_FOR_DELIVERY"
	default:
		return "UNKNOWN"
	}
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Progress is the displayed order status.
type Progress struct {
	OrderID int   `json:"orderId"`
	Stage   Stage `json:"stage"`
	serial  uint64
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// RealScheduler schedules with time.AfterFunc.
var RealScheduler Scheduler = timeScheduler{}

// Delays configures when each later stage is reached, counted from Start.
type Delays struct {
	Preparing      time.Duration
	OutForDelivery time.Duration
}

// DefaultDelays are the delays used by the storefront.
var DefaultDelays = Delays{Preparing: 2500 * time.Millisecond, OutForDelivery: 6500 * time.Millisecond}

// Tracker holds at most one Progress. It is safe for concurrent use; its
// timers fire on their own goroutines.
type Tracker struct {
	mu      sync.Mutex
	current *Progress
	serial  uint64
	sched   Scheduler
	delays  Delays
	orderID func() int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithOrderIDs replaces the random order id source.
func WithOrderIDs(next func() int) Option {
	return func(t *Tracker) { t.orderID = next }
}

// New returns a tracker scheduling stage changes on sched.
func New(sched Scheduler, delays Delays, opts ...Option) *Tracker {
	if sched == nil {
		sched = RealScheduler
	}
	t := &Tracker{sched: sched, delays: delays, orderID: randomOrderID}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func randomOrderID() int {
	return 1000 + rand.IntN(9000)
}

// Start replaces any current progress with a new one at StageSent and
// schedules its two advances.
func (t *Tracker) Start() Progress {
	t.mu.Lock()
	t.serial++
	p := &Progress{OrderID: t.orderID(), Stage: StageSent, serial: t.serial}
	t.current = p
	t.mu.Unlock()

	serial := p.serial
	t.sched.AfterFunc(t.delays.Preparing, func() { t.advance(serial, StagePreparing) })
	t.sched.AfterFunc(t.delays.OutForDelivery, func() { t.advance(serial, StageOutForDelivery) })
	return *p
}

// advance moves the progress identified by serial to stage. It does nothing
// when that progress was dismissed or replaced, or is already at stage.
func (t *Tracker) advance(serial uint64, stage Stage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || t.current.serial != serial || t.current.Stage >= stage {
		return
	}
	t.current.Stage = stage
}

// Current returns the displayed progress, if any.
func (t *Tracker) Current() (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Progress{}, false
	}
	return *t.current, true
}

// Dismiss clears the display. Pending timers become no-ops.
func (t *Tracker) Dismiss() {
	t.mu.Lock()
	t.current = nil
	t.mu.Unlock()
}
