package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpl(t *testing.T) {
	// Just confirm that this code compiles.
	var _ storage.ViewerStore = &Storage{}
}

func TestBasics(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "storage.db")

	s, err := NewStorage(filename)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err = s.Load(ctx)
	assert.Equal(t, storage.ErrNotOpen, err)

	require.NoError(t, s.Open(ctx))

	v, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)

	homer := &session.Viewer{Token: "t", Username: "homer"}
	require.NoError(t, s.Store(ctx, homer))
	require.NoError(t, s.Close(ctx))

	// Survives reopening.
	require.NoError(t, s.Open(ctx))
	v, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, homer, v)

	require.NoError(t, s.Delete(ctx))
	v, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, storage.ErrNotOpen, s.Close(ctx))
}
