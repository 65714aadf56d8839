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

	"github.com/Comcast/conduit/app"
	"github.com/Comcast/conduit/util"
)

// Couplings provide channels for input and snapshot output.
//
// For example, an implementation could couple the application to an
// MQTT broker.
type Couplings interface {
	// Start initializes the Couplings.
	Start(context.Context) error

	// IO returns the input and output channels.  The input
	// channel is closed when input ends.
	IO(context.Context) (<-chan Input, chan<- app.Snapshot, error)

	// Stop shuts down the Couplings.
	Stop(context.Context) error
}

// Run connects the application to the Couplings and runs its loop
// until the context is done.
//
// With haltOnEOF, the end of input stops the loop once the requests
// already made have completed.  Otherwise the loop keeps running
// without input.
func Run(ctx context.Context, a *app.App, c Couplings, haltOnEOF bool) error {
	if err := c.Start(ctx); err != nil {
		return err
	}
	inputs, out, err := c.IO(ctx)
	if err != nil {
		return err
	}

	msgs := make(chan app.Msg)
	go func() {
		for in := range inputs {
			msg, err := Decode(in)
			if err != nil {
				util.Errorf("%s", err)
				continue
			}
			select {
			case <-ctx.Done():
				return
			case msgs <- msg:
			}
		}
		util.Logf("sio input done")
		if haltOnEOF {
			close(msgs)
		}
	}()

	if err := a.Loop(ctx, msgs, out); err != nil {
		return err
	}
	return c.Stop(ctx)
}
