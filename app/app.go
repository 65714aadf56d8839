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

// Package app is the top of the client: it owns the active page,
// routes messages to it and runs the effects pages ask for.
//
// Messages for a page are delivered only while that page is active.
// A message for any other page is stale and dropped.  Changing the
// route replaces the page, and the new page takes over the Session
// from the old one.
package app

import (
	"context"
	"time"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/metrics"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page/article"
	"github.com/Comcast/conduit/page/editor"
	"github.com/Comcast/conduit/page/home"
	"github.com/Comcast/conduit/page/login"
	"github.com/Comcast/conduit/page/profile"
	"github.com/Comcast/conduit/page/register"
	"github.com/Comcast/conduit/page/settings"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/storage"
	"github.com/Comcast/conduit/timers"
	"github.com/Comcast/conduit/util"
)

type Msg interface {
	appMsg()
}

type (
	// URLChanged is a new location from outside: the initial URL or
	// one a user typed.
	URLChanged struct {
		URL string
	}

	// RouteChanged switches pages.  A nil Route means the URL
	// didn't decode.
	RouteChanged struct {
		Route *route.Route
	}

	HomeMsg struct {
		Msg home.Msg
	}

	SettingsMsg struct {
		Msg settings.Msg
	}

	LoginMsg struct {
		Msg login.Msg
	}

	RegisterMsg struct {
		Msg register.Msg
	}

	ProfileMsg struct {
		Msg profile.Msg
	}

	ArticleMsg struct {
		Msg article.Msg
	}

	EditorMsg struct {
		Msg editor.Msg
	}
)

func (URLChanged) appMsg()   {}
func (RouteChanged) appMsg() {}
func (HomeMsg) appMsg()      {}
func (SettingsMsg) appMsg()  {}
func (LoginMsg) appMsg()     {}
func (RegisterMsg) appMsg()  {}
func (ProfileMsg) appMsg()   {}
func (ArticleMsg) appMsg()   {}
func (EditorMsg) appMsg()    {}

func wrapHome(m home.Msg) Msg         { return HomeMsg{Msg: m} }
func wrapSettings(m settings.Msg) Msg { return SettingsMsg{Msg: m} }
func wrapLogin(m login.Msg) Msg       { return LoginMsg{Msg: m} }
func wrapRegister(m register.Msg) Msg { return RegisterMsg{Msg: m} }
func wrapProfile(m profile.Msg) Msg   { return ProfileMsg{Msg: m} }
func wrapArticle(m article.Msg) Msg   { return ArticleMsg{Msg: m} }
func wrapEditor(m editor.Msg) Msg     { return EditorMsg{Msg: m} }

// App holds the active page and what's needed to run its effects.
//
// All methods except Loop's own goroutines must be called from a
// single goroutine.
type App struct {
	API     api.Conduit
	Store   storage.ViewerStore
	Verbose bool

	// Timers, when running, schedules delayed messages.  Otherwise
	// a time.AfterFunc is used for each.
	Timers *timers.Timers

	// Now is the clock for checking stored tokens.
	Now func() time.Time

	model    Model
	url      string
	history  []string
	pending  []item
	posted   chan posted
	inflight int
}

// New makes an App showing Redirect to a guest.  A nil store keeps
// nothing.
func New(c api.Conduit, store storage.ViewerStore) *App {
	if store == nil {
		store = &storage.NoopStore{}
	}
	return &App{
		API:    c,
		Store:  store,
		Now:    time.Now,
		model:  Redirect{session: session.Guest()},
		posted: make(chan posted, 64),
	}
}

func (a *App) logf(format string, args ...interface{}) {
	if a.Verbose {
		util.Logf("app "+format, args...)
	}
}

// Model returns the active page.
func (a *App) Model() Model {
	return a.model
}

// History returns the last MaxHistory URLs pushed, oldest first.
func (a *App) History() []string {
	return a.history
}

func (a *App) Snapshot() Snapshot {
	return Snapshot{
		Page:   a.model.Name(),
		Title:  a.model.Title(),
		Route:  a.url,
		Viewer: a.model.Session(),
		Body:   a.model.Snapshot(),
	}
}

func (a *App) stale(page string) {
	a.logf("dropping stale %s message while on %s", page, a.model.Name())
	metrics.StaleDrops.WithLabelValues(page).Inc()
}

// Update handles one message.
func (a *App) Update(ctx context.Context, msg Msg, o orders.Orders[Msg]) {
	switch vv := msg.(type) {
	case URLChanged:
		a.url = vv.URL
		r, err := route.Parse(vv.URL)
		if err != nil {
			a.logf("%s", err)
			a.changeModelByRoute(ctx, nil, o)
			return
		}
		a.changeModelByRoute(ctx, &r, o)
	case RouteChanged:
		a.changeModelByRoute(ctx, vv.Route, o)
	case HomeMsg:
		m, is := a.model.(Home)
		if !is {
			a.stale("home")
			return
		}
		m.Model.Update(vv.Msg, orders.Proxy[home.Msg, Msg](o, wrapHome))
	case SettingsMsg:
		m, is := a.model.(Settings)
		if !is {
			a.stale("settings")
			return
		}
		m.Model.Update(vv.Msg, orders.Proxy[settings.Msg, Msg](o, wrapSettings))
	case LoginMsg:
		m, is := a.model.(Login)
		if !is {
			a.stale("login")
			return
		}
		m.Model.Update(vv.Msg, orders.Proxy[login.Msg, Msg](o, wrapLogin))
	case RegisterMsg:
		m, is := a.model.(Register)
		if !is {
			a.stale("register")
			return
		}
		m.Model.Update(vv.Msg, orders.Proxy[register.Msg, Msg](o, wrapRegister))
	case ProfileMsg:
		m, is := a.model.(Profile)
		if !is {
			a.stale("profile")
			return
		}
		m.Model.Update(vv.Msg, orders.Proxy[profile.Msg, Msg](o, wrapProfile))
	case ArticleMsg:
		m, is := a.model.(Article)
		if !is {
			a.stale("article")
			return
		}
		m.Model.Update(vv.Msg, orders.Proxy[article.Msg, Msg](o, wrapArticle))
	case EditorMsg:
		m, is := a.model.(ArticleEditor)
		if !is {
			a.stale("editor")
			return
		}
		m.Model.Update(vv.Msg, orders.Proxy[editor.Msg, Msg](o, wrapEditor))
	}
}

// changeModelByRoute replaces the page for the given route.  Root
// and Logout don't have pages of their own; they navigate Home.
func (a *App) changeModelByRoute(ctx context.Context, r *route.Route, o orders.Orders[Msg]) {
	s := a.model.Session()
	if r == nil {
		metrics.RouteChanges.WithLabelValues("notFound").Inc()
		a.model = NotFound{session: s}
		return
	}
	metrics.RouteChanges.WithLabelValues(r.Kind.String()).Inc()
	a.logf("route %s", r)

	switch r.Kind {
	case route.Root:
		orders.GoTo(o, route.ToHome())
	case route.Logout:
		if err := a.Store.Delete(ctx); err != nil {
			util.Errorf("app deleting stored viewer: %s", err)
		}
		// Redirect's sink navigates Home once the session changes.
		a.model = Redirect{session: s}
		o.Broadcast(orders.SessionChanged{Session: session.Guest()})
	case route.Home:
		a.model = Home{Model: home.Init(s, orders.Proxy[home.Msg, Msg](o, wrapHome))}
	case route.Settings:
		a.model = Settings{Model: settings.Init(s, orders.Proxy[settings.Msg, Msg](o, wrapSettings))}
	case route.Login:
		a.model = Login{Model: login.Init(s, orders.Proxy[login.Msg, Msg](o, wrapLogin))}
	case route.Register:
		a.model = Register{Model: register.Init(s, orders.Proxy[register.Msg, Msg](o, wrapRegister))}
	case route.Profile:
		a.model = Profile{
			Model:    profile.Init(s, r.Username, orders.Proxy[profile.Msg, Msg](o, wrapProfile)),
			Username: r.Username,
		}
	case route.Article:
		a.model = Article{Model: article.Init(s, r.Slug, orders.Proxy[article.Msg, Msg](o, wrapArticle))}
	case route.NewArticle:
		a.model = ArticleEditor{Model: editor.Init(s, nil, orders.Proxy[editor.Msg, Msg](o, wrapEditor))}
	case route.EditArticle:
		slug := r.Slug
		a.model = ArticleEditor{
			Model: editor.Init(s, &slug, orders.Proxy[editor.Msg, Msg](o, wrapEditor)),
			Slug:  &slug,
		}
	}
}

// Sink handles a global message and then hands it to the active
// page.
func (a *App) Sink(ctx context.Context, g orders.GMsg, o orders.Orders[Msg]) {
	switch vv := g.(type) {
	case orders.RoutePushed:
		r := vv.Route
		o.Send(RouteChanged{Route: &r})
	case orders.SessionChanged:
		if v := vv.Session.Viewer(); v != nil {
			if err := a.Store.Store(ctx, v); err != nil {
				util.Errorf("app storing viewer: %s", err)
			}
		}
	}

	switch m := a.model.(type) {
	case Redirect, NotFound:
		if sc, is := g.(orders.SessionChanged); is {
			a.model = Redirect{session: sc.Session}
			orders.GoTo(o, route.ToHome())
		}
	case Home:
		m.Model.Sink(g, orders.Proxy[home.Msg, Msg](o, wrapHome))
	case Settings:
		m.Model.Sink(g, orders.Proxy[settings.Msg, Msg](o, wrapSettings))
	case Login:
		m.Model.Sink(g, orders.Proxy[login.Msg, Msg](o, wrapLogin))
	case Register:
		m.Model.Sink(g, orders.Proxy[register.Msg, Msg](o, wrapRegister))
	case Profile:
		m.Model.Sink(g, orders.Proxy[profile.Msg, Msg](o, wrapProfile))
	case Article:
		m.Model.Sink(g, orders.Proxy[article.Msg, Msg](o, wrapArticle))
	case ArticleEditor:
		m.Model.Sink(g, orders.Proxy[editor.Msg, Msg](o, wrapEditor))
	}
}
