package sio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/api/apitest"
	"github.com/Comcast/conduit/app"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/form"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/storage"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdioInputs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewStdio()
	s.In = strings.NewReader(`# a comment

{"url":"/login"}
not json
{"page":"login","event":"submit"}
quit
{"url":"/never"}
`)
	in, _, err := s.IO(ctx)
	require.NoError(t, err)

	var got []Input
	for x := range in {
		got = append(got, x)
	}
	assert.Equal(t, []Input{
		{URL: "/login"},
		{Page: "login", Event: "submit"},
	}, got)
}

func TestParseScript(t *testing.T) {
	src := `
- url: /login
- page: login
  event: field
  field: email
  value: homer@example.com
- page: login
  event: submit
  wait: 1s
`
	var inputs []Input
	require.NoError(t, ParseScript([]byte(src), &inputs))
	assert.Equal(t, []Input{
		{URL: "/login"},
		{Page: "login", Event: "field", Field: "email", Value: "homer@example.com"},
		{Page: "login", Event: "submit", Wait: time.Second},
	}, inputs)
}

func TestWaitJSON(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"page":"login","event":"submit","wait":1000000000}`), &in))
	assert.Equal(t, time.Second, in.Wait)
}

// scripted is Couplings with canned inputs whose snapshots stay in
// the output channel.
type scripted struct {
	inputs []Input
	out    chan app.Snapshot
}

func (s *scripted) Start(context.Context) error { return nil }
func (s *scripted) Stop(context.Context) error  { return nil }

func (s *scripted) IO(ctx context.Context) (<-chan Input, chan<- app.Snapshot, error) {
	in := make(chan Input, len(s.inputs))
	for _, x := range s.inputs {
		in <- x
	}
	close(in)
	return in, s.out, nil
}

func TestRunLogin(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fake := &apitest.Fake{
		LoginF: func(es []form.Entry) (*session.Viewer, error) {
			return &session.Viewer{Token: "t", Username: "homer"}, nil
		},
		LoadTagsF: func() ([]entity.Tag, error) {
			return nil, nil
		},
		LoadFeedF: func(*session.Viewer, api.FeedQuery) (entity.PaginatedList[entity.Article], error) {
			return entity.PaginatedList[entity.Article]{PerPage: 10}, nil
		},
	}
	store := storage.NewMemStore()
	a := app.New(fake, store)
	a.Init(ctx, "/login")

	c := &scripted{
		inputs: []Input{
			{Page: "login", Event: "field", Field: "email", Value: "homer@example.com"},
			{Page: "login", Event: "field", Field: "password", Value: "donuts"},
			{Page: "nowhere"},
			{Page: "login", Event: "submit"},
		},
		out: make(chan app.Snapshot, 100),
	}
	require.NoError(t, Run(ctx, a, c, true))
	require.NoError(t, ctx.Err())
	close(c.out)

	var last app.Snapshot
	for s := range c.out {
		last = s
	}
	assert.Equal(t, "home", last.Page)
	assert.True(t, last.Viewer.IsViewer("homer"))

	v, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, entity.Username("homer"), v.Username)
}

func TestWebSocket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws := NewWebSocket("")
	require.NoError(t, ws.Start(ctx))
	in, out, err := ws.IO(ctx)
	require.NoError(t, err)

	srv := httptest.NewServer(Router(ws.ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"url":"/register"}`)))
	select {
	case x := <-in:
		assert.Equal(t, Input{URL: "/register"}, x)
	case <-time.After(2 * time.Second):
		t.Fatal("no input")
	}

	out <- app.Snapshot{Page: "register", Title: "Register - Conduit", Route: "/register"}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, bs, err := conn.ReadMessage()
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &got))
	assert.Equal(t, "register", got["page"])
	assert.Equal(t, "/register", got["route"])
	assert.Nil(t, got["viewer"])
}

func TestRouter(t *testing.T) {
	srv := httptest.NewServer(Router(nil))
	defer srv.Close()

	for path, want := range map[string]int{
		"/healthz": http.StatusOK,
		"/metrics": http.StatusOK,
		"/ws":      http.StatusNotFound,
	} {
		res, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, want, res.StatusCode, path)
	}
}
