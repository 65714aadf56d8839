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

package sio

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Comcast/conduit/app"
	"github.com/Comcast/conduit/metrics"
	"github.com/Comcast/conduit/util"

	"github.com/gorilla/websocket"
)

// WebSocket is a Couplings for websocket clients.
//
// Every client's messages are inputs, and every snapshot goes to
// every client.  A client that connects gets the latest snapshot
// right away.
type WebSocket struct {
	// Listen is the address for the HTTP server.  Empty means
	// don't start one; use ServeWS with your own.
	Listen string

	upgrader websocket.Upgrader
	ctx      context.Context
	in       chan Input
	conns    sync.Map

	sync.Mutex
	last *app.Snapshot
}

func NewWebSocket(listen string) *WebSocket {
	return &WebSocket{
		Listen: listen,
		in:     make(chan Input),
	}
}

// Start starts the HTTP server if there's an address to listen on.
func (s *WebSocket) Start(ctx context.Context) error {
	s.ctx = ctx
	if s.Listen == "" {
		return nil
	}
	go func() {
		if err := Serve(ctx, s.Listen, Router(s.ServeWS)); err != nil {
			util.Errorf("websocket httpd: %s", err)
		}
	}()
	return nil
}

// IO returns the input channel and starts fanning out snapshots.
// The input channel is never closed.
func (s *WebSocket) IO(ctx context.Context) (<-chan Input, chan<- app.Snapshot, error) {
	out := make(chan app.Snapshot)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case x := <-out:
				s.Lock()
				s.last = &x
				s.Unlock()
				s.conns.Range(func(k, v interface{}) bool {
					c := v.(chan app.Snapshot)
					select {
					case c <- x:
					default:
						util.Errorf("websocket %v blocked", k)
					}
					return true
				})
			}
		}
	}()
	return s.in, out, nil
}

func (s *WebSocket) Stop(ctx context.Context) error {
	return nil
}

// ServeWS upgrades the request and serves the connection.
func (s *WebSocket) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := s.ctx
	if ctx == nil {
		ctx = r.Context()
	}

	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		util.Errorf("websocket upgrade: %s", err)
		return
	}
	defer c.Close()

	metrics.Connections.WithLabelValues("ws").Inc()
	defer metrics.Connections.WithLabelValues("ws").Dec()

	snapshots := make(chan app.Snapshot, 32)
	s.Lock()
	if s.last != nil {
		snapshots <- *s.last
	}
	s.Unlock()

	id := r.RemoteAddr + " " + c.RemoteAddr().String()
	s.conns.Store(id, snapshots)
	defer s.conns.Delete(id)

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case x := <-snapshots:
				js, err := json.Marshal(&x)
				if err != nil {
					util.Errorf("websocket marshal: %s", err)
					continue
				}
				if err = c.WriteMessage(websocket.TextMessage, js); err != nil {
					util.Errorf("websocket write: %s", err)
					return
				}
			}
		}
	}()

	for {
		_, bs, err := c.ReadMessage()
		if err != nil {
			util.Logf("websocket %s read: %s", id, err)
			return
		}
		var x Input
		if err := json.Unmarshal(bs, &x); err != nil {
			util.Errorf("websocket bad input: %s", err)
			continue
		}
		select {
		case <-ctx.Done():
			return
		case s.in <- x:
		}
	}
}
