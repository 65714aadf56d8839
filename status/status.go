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

// Package status tracks a resource that's being fetched.
//
// A Status starts Loading.  If the slow-threshold message arrives
// before the result, it becomes LoadingSlowly so a spinner can be
// shown.  The result makes it Loaded or Failed.  A resolved Status
// never changes; fetching again means starting a new Status.
//
//	Loading ----> LoadingSlowly ----> Loaded | Failed
//	   \__________________________/
//
// Each Status remembers the id of the load that produced it.  The
// slow-threshold message and the result carry that id, so messages
// from an earlier load of the same resource are ignored.
package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Comcast/conduit/metrics"
	"github.com/Comcast/conduit/orders"

	"github.com/google/uuid"
)

// DefaultSlowThreshold is how long a load may take before it's
// considered slow.
const DefaultSlowThreshold = 500 * time.Millisecond

// SlowThreshold is the threshold Start uses.
var SlowThreshold = DefaultSlowThreshold

type Phase int

const (
	Loading Phase = iota
	LoadingSlowly
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case LoadingSlowly:
		return "loadingSlowly"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Status is the state of one resource.  The zero value is Loading
// with no load id.
type Status[T any] struct {
	phase Phase
	value T
	load  string
}

// NewLoading returns a Status that's waiting on the given load.
func NewLoading[T any](load string) Status[T] {
	metrics.StatusTransitions.WithLabelValues(Loading.String()).Inc()
	return Status[T]{
		load: load,
	}
}

// NewLoaded returns a resolved Status holding v.
func NewLoaded[T any](v T) Status[T] {
	metrics.StatusTransitions.WithLabelValues(Loaded.String()).Inc()
	return Status[T]{
		phase: Loaded,
		value: v,
	}
}

// NewFailed returns a resolved Status without a value.
func NewFailed[T any]() Status[T] {
	metrics.StatusTransitions.WithLabelValues(Failed.String()).Inc()
	return Status[T]{
		phase: Failed,
	}
}

func (s Status[T]) Phase() Phase {
	return s.phase
}

// Load returns the id of the load this Status is waiting on or was
// produced by.
func (s Status[T]) Load() string {
	return s.load
}

// Value returns the loaded value, if any.
func (s Status[T]) Value() (T, bool) {
	return s.value, s.phase == Loaded
}

func (s Status[T]) IsResolved() bool {
	return s.phase == Loaded || s.phase == Failed
}

func (s Status[T]) IsLoading() bool {
	return !s.IsResolved()
}

// Slow moves Loading to LoadingSlowly.  Any other Status is returned
// unchanged.
func (s Status[T]) Slow() Status[T] {
	if s.phase != Loading {
		return s
	}
	metrics.StatusTransitions.WithLabelValues(LoadingSlowly.String()).Inc()
	s.phase = LoadingSlowly
	return s
}

// SlowFor is Slow when the Status is waiting on the given load.
func (s Status[T]) SlowFor(load string) Status[T] {
	if s.load != load {
		return s
	}
	return s.Slow()
}

// Awaits reports whether a result from the given load should be
// applied to this Status.
func (s Status[T]) Awaits(load string) bool {
	return s.IsLoading() && s.load == load
}

// Resolve applies a result: Loaded on success, Failed otherwise.
// The load id is kept.
func (s Status[T]) Resolve(v T, err error) Status[T] {
	var acc Status[T]
	if err != nil {
		acc = NewFailed[T]()
	} else {
		acc = NewLoaded(v)
	}
	acc.load = s.load
	return acc
}

// Map converts a loaded value.  Other phases carry over.
func Map[T, U any](s Status[T], f func(T) U) Status[U] {
	acc := Status[U]{
		phase: s.phase,
		load:  s.load,
	}
	if s.phase == Loaded {
		acc.value = f(s.value)
	}
	return acc
}

// Update changes the loaded value in place.  Other phases are left
// alone.
func (s Status[T]) Update(f func(T) T) Status[T] {
	if s.phase == Loaded {
		s.value = f(s.value)
	}
	return s
}

// Start begins loading a resource.
//
// The Cmd made by fetch is performed right away, and slow's message
// is scheduled for SlowThreshold from now.  Both are given the new
// load's id.  The slow message isn't cancelled when the load
// finishes; by then SlowFor has no effect.
func Start[T, M any](o orders.Orders[M], slow func(load string) M, fetch func(load string) orders.Cmd[M]) Status[T] {
	load := uuid.NewString()
	o.Perform(fetch(load))
	o.After(SlowThreshold, slow(load))
	return NewLoading[T](load)
}

type statusJSON struct {
	Phase Phase       `json:"phase"`
	Value interface{} `json:"value,omitempty"`
}

func (s Status[T]) MarshalJSON() ([]byte, error) {
	js := statusJSON{
		Phase: s.phase,
	}
	if s.phase == Loaded {
		js.Value = s.value
	}
	return json.Marshal(js)
}
