// Package bolt is a ViewerStore backed by a BoltDB file.
package bolt

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/storage"
	"github.com/Comcast/conduit/util"

	bolt "go.etcd.io/bbolt"
)

var (
	bucket = []byte("conduit")
	key    = []byte("viewer")
)

type Storage struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
	}, nil
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0600, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrNotOpen
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("BoltDB Storage."+format, args...)
	}
}

func (s *Storage) Load(ctx context.Context) (*session.Viewer, error) {
	if s.db == nil {
		return nil, storage.ErrNotOpen
	}
	var v *session.Viewer
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		bs := b.Get(key)
		if bs == nil {
			return nil
		}
		return json.Unmarshal(bs, &v)
	})
	if err != nil {
		return nil, err
	}
	s.logf("Load %s", util.JS(v))
	return v, nil
}

func (s *Storage) Store(ctx context.Context, v *session.Viewer) error {
	if s.db == nil {
		return storage.ErrNotOpen
	}
	if v == nil {
		return s.Delete(ctx)
	}
	js, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.logf("Store %s", v.Username)
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return b.Put(key, js)
	})
}

func (s *Storage) Delete(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrNotOpen
	}
	s.logf("Delete")
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete(key)
	})
}
