package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/Comcast/conduit/session"
)

// JSONFile is a primitive store that writes the viewer as JSON to a
// file.
//
// Not glamorous or efficient.
type JSONFile struct {
	Filename string

	sync.Mutex
}

func NewJSONFile(filename string) *JSONFile {
	return &JSONFile{
		Filename: filename,
	}
}

func (s *JSONFile) Load(ctx context.Context) (*session.Viewer, error) {
	s.Lock()
	defer s.Unlock()
	js, err := os.ReadFile(s.Filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v *session.Viewer
	if err = json.Unmarshal(js, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *JSONFile) Store(ctx context.Context, v *session.Viewer) error {
	s.Lock()
	defer s.Unlock()
	js, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Filename, js, 0600)
}

func (s *JSONFile) Delete(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()
	if err := os.Remove(s.Filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
