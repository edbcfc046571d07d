package tracking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pending struct {
	after time.Duration
	fn    func()
}

type fakeScheduler struct {
	pending []pending
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	f.pending = append(f.pending, pending{after: d, fn: fn})
}

// fire runs every pending callback scheduled with delay d.
func (f *fakeScheduler) fire(d time.Duration) {
	for _, p := range f.pending {
		if p.after == d {
			p.fn()
		}
	}
}

func fixedIDs(ids ...int) Option {
	i := 0
	return WithOrderIDs(func() int {
		id := ids[i%len(ids)]
		i++
		return id
	})
}

func TestStart_SchedulesBothStages(t *testing.T) {
	sched := &fakeScheduler{}
	tr := New(sched, DefaultDelays, fixedIDs(4321))

	p := tr.Start()

	assert.Equal(t, 4321, p.OrderID)
	assert.Equal(t, StageSent, p.Stage)
	require.Len(t, sched.pending, 2)
	assert.Equal(t, 2500*time.Millisecond, sched.pending[0].after)
	assert.Equal(t, 6500*time.Millisecond, sched.pending[1].after)
}

func TestAdvance_InOrder(t *testing.T) {
	sched := &fakeScheduler{}
	tr := New(sched, DefaultDelays)
	tr.Start()

	sched.fire(DefaultDelays.Preparing)
	cur, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, StagePreparing, cur.Stage)

	sched.fire(DefaultDelays.OutForDelivery)
	cur, _ = tr.Current()
	assert.Equal(t, StageOutForDelivery, cur.Stage)
}

func TestAdvance_LateTimerNeverGoesBack(t *testing.T) {
	sched := &fakeScheduler{}
	tr := New(sched, DefaultDelays)
	tr.Start()

	sched.fire(DefaultDelays.OutForDelivery)
	sched.fire(DefaultDelays.Preparing)

	cur, _ := tr.Current()
	assert.Equal(t, StageOutForDelivery, cur.Stage)
}

func TestDismiss_MakesTimersNoops(t *testing.T) {
	sched := &fakeScheduler{}
	tr := New(sched, DefaultDelays)
	tr.Start()

	tr.Dismiss()
	sched.fire(DefaultDelays.Preparing)
	sched.fire(DefaultDelays.OutForDelivery)

	_, ok := tr.Current()
	assert.False(t, ok)
}

func TestStart_ReplacesAndIgnoresStaleTimers(t *testing.T) {
	sched := &fakeScheduler{}
	tr := New(sched, DefaultDelays, fixedIDs(1111, 2222))
	tr.Start()
	first := sched.pending
	sched.pending = nil

	second := tr.Start()
	for _, p := range first {
		p.fn()
	}

	cur, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, second.OrderID, cur.OrderID)
	assert.Equal(t, StageSent, cur.Stage)
}

func TestRandomOrderID_FourDigits(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := randomOrderID()
		assert.GreaterOrEqual(t, id, 1000)
		assert.LessOrEqual(t, id, 9999)
	}
}

func TestRealScheduler_Fires(t *testing.T) {
	tr := New(nil, Delays{Preparing: time.Millisecond, OutForDelivery: 2 * time.Millisecond})
	tr.Start()

	assert.Eventually(t, func() bool {
		cur, ok := tr.Current()
		return ok && cur.Stage == StageOutForDelivery
	}, time.Second, 5*time.Millisecond)
}

func TestProgress_JSON(t *testing.T) {
	b, err := json.Marshal(Progress{OrderID: 1234, Stage: StagePreparing})

	require.NoError(t, err)
	assert.JSONEq(t, `{"orderId":1234,"stage":"PREPARING"}`, string(b))
}
