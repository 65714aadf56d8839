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
	"os"
	"time"

	"github.com/Comcast/conduit/app"
	"github.com/Comcast/conduit/metrics"

	"github.com/jsccast/yaml"
)

// Script is a Couplings that reads its inputs from a YAML file
// containing a list of Inputs.  Snapshots are printed.
//
//	- url: /login
//	- page: login
//	  event: field
//	  field: email
//	  value: homer@example.com
//	- wait: 1s
//	  page: login
//	  event: submit
type Script struct {
	Filename string

	// Pause is waited before each input without its own Wait.
	Pause time.Duration

	Printer

	inputs []Input
}

func NewScript(filename string) *Script {
	return &Script{
		Filename: filename,
		Printer: Printer{
			Out: os.Stdout,
		},
	}
}

// Start reads and parses the script.
func (s *Script) Start(ctx context.Context) error {
	bs, err := os.ReadFile(s.Filename)
	if err != nil {
		return err
	}
	if err := ParseScript(bs, &s.inputs); err != nil {
		return err
	}
	metrics.Connections.WithLabelValues("script").Set(1)
	return nil
}

// ParseScript parses YAML (or JSON) script source.
func ParseScript(src []byte, inputs *[]Input) error {
	return yaml.Unmarshal(src, inputs)
}

func (s *Script) IO(ctx context.Context) (<-chan Input, chan<- app.Snapshot, error) {
	in := make(chan Input)
	go func() {
		defer close(in)
		for _, x := range s.inputs {
			d := x.Wait
			if d == 0 {
				d = s.Pause
			}
			if 0 < d {
				t := time.NewTimer(d)
				select {
				case <-ctx.Done():
					t.Stop()
					return
				case <-t.C:
				}
			}
			select {
			case <-ctx.Done():
				return
			case in <- x:
			}
		}
	}()

	out := make(chan app.Snapshot)
	go s.consume(ctx, out)

	return in, out, nil
}

func (s *Script) Stop(ctx context.Context) error {
	metrics.Connections.WithLabelValues("script").Set(0)
	return nil
}
