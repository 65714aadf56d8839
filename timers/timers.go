// Package timers provides a set of timers implemented with a single
// time.Timer.
//
// Pending timers are kept in a backlog ordered by ascending trigger
// time.  The internal time.Timer always waits for the head of that
// backlog.  When the head changes (because a sooner timer was added
// or the head was removed), the internal timer is re-armed.  This
// processing happens in one loop (Run), so it's designed for a few
// hundred pending timers, not many thousands.
//
// When a timer is triggered, its work is performed in a new
// goroutine, so it's okay for that work to block.
package timers

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrTooMany        = errors.New("too many")
	ErrIdExists       = errors.New("id exists")
	ErrNotRunning     = errors.New("not running")
	ErrAlreadyRunning = errors.New("already running")
)

const (
	notRunning = int64(iota)
	running
)

// Timer represents some work to be done in the future.
type Timer struct {
	// Id is a unique identifier across all timers managed by a
	// given Timers instance.
	Id string `json:"id"`

	// F is the work to be performed in the future.
	F func(context.Context, *Timer) `json:"-"`

	// At is the desired time to execute F.
	At time.Time `json:"at"`

	// Executed is written just before F is called.
	Executed time.Time `json:"executed"`
}

// Timers is a managed set of Timer instances.
//
// You need to Run the Timers before calling Add.
type Timers struct {
	Max   int  `json:"max"`
	Debug bool `json:"-"`

	sync.Mutex
	up      chan struct{}
	backlog []*Timer
	running int64
	ready   chan bool
}

// NewTimers makes a new instance with the given maximum number of
// pending timers.
func NewTimers(max int) *Timers {
	initial := max / 4
	if initial < 8 {
		initial = 8
	}
	return &Timers{
		Max:     max,
		up:      make(chan struct{}, 1),
		backlog: make([]*Timer, 0, initial),
		ready:   make(chan bool, 1),
	}
}

// Run processes timers in the current goroutine until the context
// is done.  This method must be running to use the Timers instance.
func (ts *Timers) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt64(&ts.running, notRunning, running) {
		return ErrAlreadyRunning
	}
	defer atomic.StoreInt64(&ts.running, notRunning)

	select {
	case ts.ready <- true:
	default:
	}

	var (
		timer *time.Timer
		fired <-chan time.Time
	)

	arm := func() {
		if timer != nil {
			timer.Stop()
			timer, fired = nil, nil
		}
		ts.Lock()
		if 0 < len(ts.backlog) {
			d := time.Until(ts.backlog[0].At)
			ts.debugf("arming for %s in %s", ts.backlog[0].Id, d)
			timer = time.NewTimer(d)
			fired = timer.C
		}
		ts.Unlock()
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-ts.up:
			arm()
		case <-fired:
			for _, t := range ts.due(time.Now()) {
				ts.debugf("timer %s firing", t.Id)
				t.Executed = time.Now()
				go t.F(ctx, t)
			}
			timer, fired = nil, nil
			arm()
		}
	}
}

// due removes and returns the timers that should have fired by now.
func (ts *Timers) due(now time.Time) []*Timer {
	ts.Lock()
	defer ts.Unlock()
	i := 0
	for i < len(ts.backlog) && !ts.backlog[i].At.After(now) {
		i++
	}
	acc := make([]*Timer, i)
	copy(acc, ts.backlog[:i])
	ts.backlog = append(ts.backlog[:0], ts.backlog[i:]...)
	return acc
}

// IsRunning reports whether the Run method is currently executing.
func (ts *Timers) IsRunning() bool {
	return atomic.LoadInt64(&ts.running) == running
}

// Wait waits up to the timeout for Run to start.
func (ts *Timers) Wait(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
		return false
	case <-ts.ready:
		return true
	}
}

// changed tells the loop that the head of the backlog changed.
func (ts *Timers) changed() {
	select {
	case ts.up <- struct{}{}:
	default:
	}
}

// Add adds the given timer to the Timers instance.
func (ts *Timers) Add(t *Timer) error {
	if !ts.IsRunning() {
		return ErrNotRunning
	}

	ts.Lock()
	defer ts.Unlock()

	if len(ts.backlog) == ts.Max {
		return ErrTooMany
	}
	for _, x := range ts.backlog {
		if x.Id == t.Id {
			return ErrIdExists
		}
	}

	i := sort.Search(len(ts.backlog), func(i int) bool {
		return ts.backlog[i].At.After(t.At)
	})
	ts.debugf("add %s at %d", t.Id, i)
	ts.backlog = append(ts.backlog, nil)
	copy(ts.backlog[i+1:], ts.backlog[i:])
	ts.backlog[i] = t
	if i == 0 {
		ts.changed()
	}
	return nil
}

// Schedule adds a timer with a fresh id to run f after d.
func (ts *Timers) Schedule(d time.Duration, f func(context.Context)) (string, error) {
	id := uuid.NewString()
	return id, ts.Add(&Timer{
		Id: id,
		At: time.Now().Add(d),
		F: func(ctx context.Context, _ *Timer) {
			f(ctx)
		},
	})
}

// Rem removes the given timer from the Timers instance.
func (ts *Timers) Rem(id string) error {
	if !ts.IsRunning() {
		return ErrNotRunning
	}

	ts.Lock()
	defer ts.Unlock()

	for i, t := range ts.backlog {
		if t.Id == id {
			ts.debugf("rem %s at %d", id, i)
			copy(ts.backlog[i:], ts.backlog[i+1:])
			ts.backlog[len(ts.backlog)-1] = nil
			ts.backlog = ts.backlog[:len(ts.backlog)-1]
			if i == 0 {
				ts.changed()
			}
			return nil
		}
	}
	return ErrNotFound
}

// Pending returns the number of timers that haven't fired.
func (ts *Timers) Pending() int {
	ts.Lock()
	defer ts.Unlock()
	return len(ts.backlog)
}

func (ts *Timers) debugf(format string, args ...interface{}) {
	if ts.Debug {
		log.Printf("debug timers "+format, args...)
	}
}
