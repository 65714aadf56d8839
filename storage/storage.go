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

// Package storage keeps the logged-in viewer across runs.
//
// The viewer is the only state the client persists.
package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/Comcast/conduit/session"
)

var ErrNotOpen = errors.New("storage not open")

// ViewerStore persists at most one viewer.
type ViewerStore interface {
	// Load returns the stored viewer or nil if there isn't one.
	Load(ctx context.Context) (*session.Viewer, error)

	Store(ctx context.Context, v *session.Viewer) error

	// Delete removes any stored viewer.  Deleting when nothing is
	// stored isn't an error.
	Delete(ctx context.Context) error
}

// MemStore keeps the viewer in memory.
type MemStore struct {
	sync.Mutex
	viewer *session.Viewer
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load(ctx context.Context) (*session.Viewer, error) {
	s.Lock()
	defer s.Unlock()
	if s.viewer == nil {
		return nil, nil
	}
	v := *s.viewer
	return &v, nil
}

func (s *MemStore) Store(ctx context.Context, v *session.Viewer) error {
	s.Lock()
	defer s.Unlock()
	if v == nil {
		s.viewer = nil
		return nil
	}
	x := *v
	s.viewer = &x
	return nil
}

func (s *MemStore) Delete(ctx context.Context) error {
	return s.Store(ctx, nil)
}

// NoopStore never remembers anything.
type NoopStore struct {
}

func (s *NoopStore) Load(ctx context.Context) (*session.Viewer, error) {
	return nil, nil
}

func (s *NoopStore) Store(ctx context.Context, v *session.Viewer) error {
	return nil
}

func (s *NoopStore) Delete(ctx context.Context) error {
	return nil
}
