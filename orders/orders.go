/* Copyright 2021 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package orders is how page logic asks for effects.
//
// Page init, update and sink functions don't do I/O.  They receive
// an Orders and use it to enqueue messages, start commands, schedule
// a message for later, broadcast a global message to whatever page is
// active, or push a URL into history.  The application decides when
// and how those things happen.
//
// A page's Orders speak the page's message type.  Proxy lifts them
// into the application's message type (or a parent page's).
package orders

import (
	"context"
	"time"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
)

// Cmd is asynchronous work that ends with a message.
//
// Cmds run concurrently with the application loop, so they must not
// touch page models.
type Cmd[M any] func(ctx context.Context, c api.Conduit) M

// GMsg is a global message.  The application handles it and then
// hands it to the active page's sink.
type GMsg interface {
	gmsg()
}

// RoutePushed says a new URL was pushed into history.
type RoutePushed struct {
	Route route.Route
}

// SessionChanged carries the new Session after a login, logout or
// settings change.
type SessionChanged struct {
	Session session.Session
}

func (RoutePushed) gmsg()    {}
func (SessionChanged) gmsg() {}

// Orders accepts effects for messages of type M.
type Orders[M any] interface {
	// Send enqueues a message to be processed after the current
	// one.
	Send(M)

	// Perform starts a command.  Its result comes back as a
	// message.
	Perform(Cmd[M])

	// After delivers the message once d has elapsed.
	After(d time.Duration, msg M)

	// Broadcast enqueues a global message.
	Broadcast(GMsg)

	// PushURL records a new URL in history without processing it.
	PushURL(string)
}

type proxy[M, N any] struct {
	o Orders[N]
	f func(M) N
}

// Proxy gives Orders for M that wrap each message with f before
// passing it to o.
func Proxy[M, N any](o Orders[N], f func(M) N) Orders[M] {
	return &proxy[M, N]{
		o: o,
		f: f,
	}
}

func (p *proxy[M, N]) Send(m M) {
	p.o.Send(p.f(m))
}

func (p *proxy[M, N]) Perform(c Cmd[M]) {
	f := p.f
	p.o.Perform(func(ctx context.Context, conduit api.Conduit) N {
		return f(c(ctx, conduit))
	})
}

func (p *proxy[M, N]) After(d time.Duration, m M) {
	p.o.After(d, p.f(m))
}

func (p *proxy[M, N]) Broadcast(g GMsg) {
	p.o.Broadcast(g)
}

func (p *proxy[M, N]) PushURL(u string) {
	p.o.PushURL(u)
}

// GoTo navigates: it pushes the route's path into history and
// broadcasts RoutePushed so the application changes pages.
func GoTo[M any](o Orders[M], r route.Route) {
	o.PushURL(r.String())
	o.Broadcast(RoutePushed{Route: r})
}
