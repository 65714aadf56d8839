package status

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	s := NewLoading[int]("a")
	assert.Equal(t, Loading, s.Phase())
	assert.False(t, s.IsResolved())

	s = s.Slow()
	assert.Equal(t, LoadingSlowly, s.Phase())

	// Slow again changes nothing.
	assert.Equal(t, s, s.Slow())

	s = s.Resolve(42, nil)
	v, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.True(t, s.IsResolved())

	// Late slow notification is a no-op.
	assert.Equal(t, s, s.Slow())
	assert.Equal(t, s, s.SlowFor("a"))
}

func TestFastPath(t *testing.T) {
	s := NewLoading[string]("a").Resolve("", errors.New("boom"))
	assert.Equal(t, Failed, s.Phase())
	_, ok := s.Value()
	assert.False(t, ok)
	assert.Equal(t, s, s.Slow())
}

func TestZeroIsLoading(t *testing.T) {
	var s Status[int]
	assert.Equal(t, Loading, s.Phase())
	assert.Equal(t, "", s.Load())
}

func TestSlowForOtherLoad(t *testing.T) {
	s := NewLoading[int]("new")
	assert.Equal(t, Loading, s.SlowFor("old").Phase())
	assert.Equal(t, LoadingSlowly, s.SlowFor("new").Phase())
}

func TestAwaits(t *testing.T) {
	s := NewLoading[int]("a")
	assert.True(t, s.Awaits("a"))
	assert.False(t, s.Awaits("b"))
	assert.False(t, s.Resolve(1, nil).Awaits("a"))
}

func TestMapAndUpdate(t *testing.T) {
	s := NewLoaded(2)
	u := Map(s, func(x int) string { return "two" })
	v, ok := u.Value()
	require.True(t, ok)
	assert.Equal(t, "two", v)

	assert.Equal(t, Loading, Map(NewLoading[int]("x"), func(x int) string { return "" }).Phase())

	s = s.Update(func(x int) int { return x * 10 })
	v2, _ := s.Value()
	assert.Equal(t, 20, v2)

	f := NewFailed[int]().Update(func(x int) int { return 1 })
	assert.Equal(t, Failed, f.Phase())
}

type msg struct {
	Slow bool
	Load string
	N    int
}

func TestStart(t *testing.T) {
	var r orders.Recorder[msg]
	s := Start[int](&r,
		func(load string) msg { return msg{Slow: true, Load: load} },
		func(load string) orders.Cmd[msg] {
			return func(ctx context.Context, c api.Conduit) msg {
				return msg{Load: load, N: 5}
			}
		})

	assert.Equal(t, Loading, s.Phase())
	require.NotEmpty(t, s.Load())

	require.Len(t, r.Later, 1)
	assert.Equal(t, SlowThreshold, r.Later[0].D)
	assert.Equal(t, msg{Slow: true, Load: s.Load()}, r.Later[0].Msg)

	got := r.Run(context.Background(), nil)
	require.Len(t, got, 1)
	assert.Equal(t, s.Load(), got[0].Load)

	// A second start gets a different id.
	s2 := Start[int](&r, func(load string) msg { return msg{} }, func(load string) orders.Cmd[msg] {
		return func(ctx context.Context, c api.Conduit) msg { return msg{} }
	})
	assert.NotEqual(t, s.Load(), s2.Load())
}

func TestMarshal(t *testing.T) {
	js, err := json.Marshal(NewLoaded([]int{1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"loaded","value":[1]}`, string(js))

	js, err = json.Marshal(NewLoading[int]("x").Slow())
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"loadingSlowly"}`, string(js))
}
