package orders

import (
	"context"
	"time"

	"github.com/Comcast/conduit/api"
)

// Delayed is a message given to After.
type Delayed[M any] struct {
	D   time.Duration
	Msg M
}

// Recorder is Orders that only remember what they were asked to do.
// Tests use it to drive page logic step by step.
type Recorder[M any] struct {
	Sent    []M
	Cmds    []Cmd[M]
	Later   []Delayed[M]
	Globals []GMsg
	URLs    []string
}

func (r *Recorder[M]) Send(m M) {
	r.Sent = append(r.Sent, m)
}

func (r *Recorder[M]) Perform(c Cmd[M]) {
	r.Cmds = append(r.Cmds, c)
}

func (r *Recorder[M]) After(d time.Duration, m M) {
	r.Later = append(r.Later, Delayed[M]{D: d, Msg: m})
}

func (r *Recorder[M]) Broadcast(g GMsg) {
	r.Globals = append(r.Globals, g)
}

func (r *Recorder[M]) PushURL(u string) {
	r.URLs = append(r.URLs, u)
}

// Run executes the pending commands in order and returns their
// messages.  The pending commands are cleared.
func (r *Recorder[M]) Run(ctx context.Context, c api.Conduit) []M {
	cmds := r.Cmds
	r.Cmds = nil
	acc := make([]M, 0, len(cmds))
	for _, cmd := range cmds {
		acc = append(acc, cmd(ctx, c))
	}
	return acc
}

// Reset forgets everything recorded.
func (r *Recorder[M]) Reset() {
	*r = Recorder[M]{}
}
