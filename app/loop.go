package app

import (
	"context"
	"time"

	"github.com/Comcast/conduit/metrics"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/util"
)

// MaxSteps bounds the messages one input may cause before the rest
// are discarded.
var MaxSteps = 1000

// MaxHistory is how many pushed URLs History keeps.
const MaxHistory = 100

// item is a queued message or global message.
type item struct {
	msg Msg
	g   orders.GMsg
}

// posted is a message arriving from a command or a timer.
type posted struct {
	msg  Msg
	kind string
}

// effects are the Orders the loop gives to Update and Sink.
type effects struct {
	a   *App
	ctx context.Context
}

func (e *effects) Send(m Msg) {
	e.a.pending = append(e.a.pending, item{msg: m})
}

func (e *effects) Perform(c orders.Cmd[Msg]) {
	e.a.inflight++
	go func() {
		e.a.post(e.ctx, posted{msg: c(e.ctx, e.a.API), kind: "completion"})
	}()
}

func (e *effects) After(d time.Duration, m Msg) {
	e.a.after(e.ctx, d, m)
}

func (e *effects) Broadcast(g orders.GMsg) {
	e.a.pending = append(e.a.pending, item{g: g})
}

func (e *effects) PushURL(u string) {
	e.a.logf("push %s", u)
	e.a.url = u
	if len(e.a.history) == MaxHistory {
		e.a.history = append(e.a.history[:0], e.a.history[1:]...)
	}
	e.a.history = append(e.a.history, u)
}

func (a *App) post(ctx context.Context, p posted) {
	select {
	case a.posted <- p:
	case <-ctx.Done():
	}
}

func (a *App) after(ctx context.Context, d time.Duration, m Msg) {
	deliver := func(ctx context.Context) {
		a.post(ctx, posted{msg: m, kind: "timer"})
	}
	if a.Timers != nil && a.Timers.IsRunning() {
		_, err := a.Timers.Schedule(d, deliver)
		if err == nil {
			return
		}
		util.Errorf("app scheduling timer: %s", err)
	}
	time.AfterFunc(d, func() {
		deliver(ctx)
	})
}

// Process handles one input completely: the message itself and
// everything it enqueues, breadth first.
func (a *App) Process(ctx context.Context, msg Msg, kind string) {
	metrics.EventsProcessed.WithLabelValues(kind).Inc()
	e := &effects{
		a:   a,
		ctx: ctx,
	}
	a.pending = append(a.pending[:0], item{msg: msg})
	for steps := 0; 0 < len(a.pending); steps++ {
		if steps == MaxSteps {
			util.Errorf("app giving up after %d steps; %d pending", steps, len(a.pending))
			a.pending = a.pending[:0]
			return
		}
		it := a.pending[0]
		a.pending = a.pending[1:]
		if it.msg != nil {
			a.Update(ctx, it.msg, e)
		} else {
			a.Sink(ctx, it.g, e)
		}
	}
}

// Init restores the stored viewer and goes to the given URL.  An
// expired stored viewer is deleted and the session starts as a
// guest.
func (a *App) Init(ctx context.Context, url string) {
	v, err := a.Store.Load(ctx)
	if err != nil {
		util.Errorf("app loading viewer: %s", err)
		v = nil
	}
	if v != nil && v.Expired(a.Now()) {
		a.logf("stored token for %s expired", v.Username)
		if err := a.Store.Delete(ctx); err != nil {
			util.Errorf("app deleting viewer: %s", err)
		}
		v = nil
	}
	a.model = Redirect{session: session.FromViewer(v)}
	a.Process(ctx, URLChanged{URL: url}, "url")
}

func inputKind(msg Msg) string {
	switch msg.(type) {
	case URLChanged, RouteChanged:
		return "url"
	default:
		return "page"
	}
}

// Loop processes inputs and the results of the commands they start,
// one at a time, and sends a Snapshot to out after each.  The first
// Snapshot shows the state before any input.
//
// When in is closed, Loop keeps going until no command is in flight
// and then returns.  Otherwise it returns when ctx is done.
func (a *App) Loop(ctx context.Context, in <-chan Msg, out chan<- Snapshot) error {
	publish := func() bool {
		if out == nil {
			return true
		}
		select {
		case out <- a.Snapshot():
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !publish() {
		return nil
	}

	draining := false
	for {
		if draining && a.inflight == 0 {
			a.logf("input done")
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-in:
			if !ok {
				draining = true
				in = nil
				continue
			}
			a.Process(ctx, msg, inputKind(msg))
		case p := <-a.posted:
			if p.kind == "completion" {
				a.inflight--
			}
			a.Process(ctx, p.msg, p.kind)
		}
		if !publish() {
			return nil
		}
	}
}
