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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Comcast/conduit/app"
	"github.com/Comcast/conduit/metrics"
	"github.com/Comcast/conduit/util"
)

// Printer writes snapshots as JSON lines.
type Printer struct {
	Out io.Writer

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// Tags prefixes tags indicating the type of output ("input",
	// "snapshot").
	Tags bool

	// PadTags adds some padding to tags.
	PadTags bool
}

func (p *Printer) printf(tag, format string, args ...interface{}) {
	if p.PadTags {
		tag = fmt.Sprintf("% 10s", tag)
	}
	if p.Tags {
		format = tag + " " + format
	}
	if p.Timestamps {
		ts := fmt.Sprintf("%-31s", time.Now().UTC().Format(time.RFC3339Nano))
		format = ts + " " + format
	}
	fmt.Fprintf(p.Out, format, args...)
}

// consume prints snapshots until the context is done.
func (p *Printer) consume(ctx context.Context, out <-chan app.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-out:
			p.printf("snapshot", "%s\n", util.JS(s))
		}
	}
}

// Stdio is a fairly simple Couplings that uses stdin for input and
// stdout for output.
type Stdio struct {
	// In is coupled to application input.
	In io.Reader

	Printer

	// EchoInput writes input lines (prepended with "input") to
	// the output.
	EchoInput bool
}

// NewStdio creates a new Stdio with In and Out initialized with
// os.Stdin and os.Stdout respectively.
func NewStdio() *Stdio {
	return &Stdio{
		In: os.Stdin,
		Printer: Printer{
			Out: os.Stdout,
		},
	}
}

// Start only counts the connection.
func (s *Stdio) Start(ctx context.Context) error {
	metrics.Connections.WithLabelValues("std").Set(1)
	return nil
}

// Stop uncounts the connection.  Every snapshot has been written by
// the time the application loop returns.
func (s *Stdio) Stop(ctx context.Context) error {
	metrics.Connections.WithLabelValues("std").Set(0)
	return nil
}

// IO returns channels for reading from stdin and writing to stdout.
//
// Blank lines and lines starting with '#' are skipped.  A line
// "quit" ends input like EOF does.
func (s *Stdio) IO(ctx context.Context) (<-chan Input, chan<- app.Snapshot, error) {
	in := make(chan Input)

	go func() {
		defer close(in)
		stdin := bufio.NewReader(s.In)
		for {
			line, err := stdin.ReadString('\n')
			if err != nil && err != io.EOF {
				util.Errorf("stdin %s", err)
				return
			}
			if strings.TrimSpace(line) == "quit" {
				return
			}
			if s.EchoInput && line != "" {
				s.printf("input", "%s", line)
			}
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "#") {
				var x Input
				if err := json.Unmarshal([]byte(trimmed), &x); err != nil {
					util.Errorf("bad input: %s", err)
				} else {
					select {
					case <-ctx.Done():
						return
					case in <- x:
					}
				}
			}
			if err == io.EOF {
				return
			}
		}
	}()

	out := make(chan app.Snapshot)
	go s.consume(ctx, out)

	return in, out, nil
}
