package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/api/apitest"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/form"
	loginform "github.com/Comcast/conduit/form/login"
	"github.com/Comcast/conduit/metrics"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page/home"
	"github.com/Comcast/conduit/page/login"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/status"
	"github.com/Comcast/conduit/storage"
	"github.com/Comcast/conduit/timers"
	jsutil "github.com/Comcast/conduit/util/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var homer = &session.Viewer{Token: "t", Username: "homer"}

func newFake() *apitest.Fake {
	return &apitest.Fake{
		LoadTagsF: func() ([]entity.Tag, error) {
			return []entity.Tag{"dragons"}, nil
		},
		LoadFeedF: func(*session.Viewer, api.FeedQuery) (entity.PaginatedList[entity.Article], error) {
			return entity.PaginatedList[entity.Article]{PerPage: 10}, nil
		},
		LoginF: func(es []form.Entry) (*session.Viewer, error) {
			return homer, nil
		},
	}
}

// settle processes posted command results until none has arrived
// for a little while.
func settle(t *testing.T, ctx context.Context, a *App) {
	for {
		select {
		case p := <-a.posted:
			if p.kind == "completion" {
				a.inflight--
			}
			a.Process(ctx, p.msg, p.kind)
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

func TestRoutes(t *testing.T) {
	ctx := context.Background()
	for url, name := range map[string]string{
		"/":                "home",
		"/login":           "login",
		"/register":        "register",
		"/settings":        "settings",
		"/profile/marge":   "profile",
		"/article/dragons": "article",
		"/editor":          "editor",
		"/editor/dragons":  "editor",
		"/nope":            "notFound",
		"/profile":         "notFound",
	} {
		var r orders.Recorder[Msg]
		a := New(newFake(), nil)
		a.Update(ctx, URLChanged{URL: url}, &r)
		assert.Equal(t, name, a.Model().Name(), url)
		assert.Equal(t, url, a.Snapshot().Route, url)
	}
}

func TestVariantDetails(t *testing.T) {
	var (
		ctx = context.Background()
		r   orders.Recorder[Msg]
		a   = New(newFake(), nil)
	)
	a.Update(ctx, URLChanged{URL: "/profile/marge"}, &r)
	p, is := a.Model().(Profile)
	require.True(t, is)
	assert.Equal(t, entity.Username("marge"), p.Username)

	a.Update(ctx, URLChanged{URL: "/editor"}, &r)
	e, is := a.Model().(ArticleEditor)
	require.True(t, is)
	assert.Nil(t, e.Slug)

	a.Update(ctx, URLChanged{URL: "/editor/dragons"}, &r)
	e, is = a.Model().(ArticleEditor)
	require.True(t, is)
	require.NotNil(t, e.Slug)
	assert.Equal(t, entity.Slug("dragons"), *e.Slug)
}

func TestRootGoesHome(t *testing.T) {
	var r orders.Recorder[Msg]
	a := New(newFake(), nil)
	root := route.ToRoot()
	a.Update(context.Background(), RouteChanged{Route: &root}, &r)

	assert.Equal(t, "redirect", a.Model().Name())
	assert.Equal(t, []string{"/"}, r.URLs)
	assert.Equal(t, []orders.GMsg{orders.RoutePushed{Route: route.ToHome()}}, r.Globals)

	// RoutePushed comes back as RouteChanged.
	a.Sink(context.Background(), r.Globals[0], &r)
	home := route.ToHome()
	assert.Equal(t, []Msg{RouteChanged{Route: &home}}, r.Sent)
}

func TestStaleMessagesDropped(t *testing.T) {
	var (
		ctx = context.Background()
		r   orders.Recorder[Msg]
		a   = New(newFake(), nil)
	)
	a.Update(ctx, URLChanged{URL: "/login"}, &r)
	before := testutil.ToFloat64(metrics.StaleDrops.WithLabelValues("home"))

	a.Update(ctx, HomeMsg{Msg: home.TagClicked{Tag: "dragons"}}, &r)

	assert.Equal(t, "login", a.Model().Name())
	assert.Empty(t, r.Cmds)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StaleDrops.WithLabelValues("home")))
}

func TestNotFoundSessionChange(t *testing.T) {
	var (
		ctx   = context.Background()
		r     orders.Recorder[Msg]
		store = storage.NewMemStore()
		a     = New(newFake(), store)
	)
	a.Update(ctx, URLChanged{URL: "/nope"}, &r)
	a.Sink(ctx, orders.SessionChanged{Session: session.LoggedIn(homer)}, &r)

	assert.Equal(t, "redirect", a.Model().Name())
	assert.True(t, a.Model().Session().IsViewer("homer"))
	assert.Equal(t, []string{"/"}, r.URLs)

	v, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, homer, v)
}

func TestLogout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storage.NewMemStore()
	require.NoError(t, store.Store(ctx, homer))

	a := New(newFake(), store)
	a.Init(ctx, "/logout")

	assert.Equal(t, "home", a.Model().Name())
	assert.True(t, a.Model().Session().IsGuest())
	assert.Equal(t, []string{"/"}, a.History())

	v, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestLoginFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storage.NewMemStore()
	a := New(newFake(), store)
	a.Init(ctx, "/login")
	require.Equal(t, "login", a.Model().Name())
	assert.Equal(t, "Login - Conduit", a.Snapshot().Title)

	for _, f := range []loginform.Field{
		{Kind: loginform.Email, Val: "homer@example.com"},
		{Kind: loginform.Password, Val: "donuts"},
	} {
		a.Process(ctx, LoginMsg{Msg: login.FieldChanged{Field: f}}, "page")
	}
	a.Process(ctx, LoginMsg{Msg: login.Submitted{}}, "page")
	settle(t, ctx, a)

	assert.Equal(t, "home", a.Model().Name())
	assert.True(t, a.Model().Session().IsViewer("homer"))
	assert.Equal(t, []string{"/"}, a.History())

	v, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, homer, v)

	h := a.Model().(Home).Model
	assert.Equal(t, home.SelectedFeed{Kind: home.Your}, h.Selected())
	assert.Equal(t, status.Loaded, h.Tags().Phase())
}

func TestExpiredViewer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(-time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	store := storage.NewMemStore()
	require.NoError(t, store.Store(ctx, &session.Viewer{Token: token, Username: "homer"}))

	a := New(newFake(), store)
	a.Now = func() time.Time { return now }
	a.Init(ctx, "/")

	assert.True(t, a.Model().Session().IsGuest())
	v, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestLoopDrains(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		a   = New(newFake(), nil)
		in  = make(chan Msg, 1)
		out = make(chan Snapshot, 16)
	)
	in <- URLChanged{URL: "/"}
	close(in)

	require.NoError(t, a.Loop(ctx, in, out))
	require.NoError(t, ctx.Err())
	close(out)

	var last Snapshot
	n := 0
	for s := range out {
		last = s
		n++
	}
	// Initial, the URL, and two completions.
	assert.Equal(t, 4, n)
	assert.Equal(t, "home", last.Page)
	assert.Equal(t, "Conduit", last.Title)

	body, is := last.Body.(home.Snapshot)
	require.True(t, is)
	assert.Equal(t, status.Loaded, body.Tags.Phase())
	assert.Equal(t, status.Loaded, body.Feed.Phase())

	js := jsutil.Generic(last)
	for path, want := range map[string]interface{}{
		"page":               "home",
		"route":              "/",
		"viewer":             nil,
		"body.tags.phase":    "loaded",
		"body.tags.value.0":  "dragons",
		"body.feed.phase":    "loaded",
		"body.selected.kind": "global",
	} {
		got, err := jsutil.At(js, path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestTimersDeliver(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ts := timers.NewTimers(10)
	go ts.Run(ctx)
	require.True(t, ts.Wait(time.Second))

	a := New(newFake(), nil)
	a.Timers = ts
	a.after(ctx, 20*time.Millisecond, URLChanged{URL: "/login"})
	assert.Equal(t, 1, ts.Pending())

	select {
	case p := <-a.posted:
		assert.Equal(t, "timer", p.kind)
		assert.Equal(t, URLChanged{URL: "/login"}, p.msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timer didn't fire")
	}
	assert.Equal(t, 0, ts.Pending())
}

func TestHistoryBounded(t *testing.T) {
	a := New(newFake(), nil)
	e := &effects{a: a, ctx: context.Background()}
	for i := 0; i < MaxHistory+50; i++ {
		e.PushURL(fmt.Sprintf("/article/%d", i))
	}
	h := a.History()
	require.Len(t, h, MaxHistory)
	assert.Equal(t, "/article/50", h[0])
	assert.Equal(t, fmt.Sprintf("/article/%d", MaxHistory+49), h[MaxHistory-1])
}
