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

// Package profile shows an author along with their articles or the
// articles they favorited.
package profile

import (
	"context"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/page/feed"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/status"
)

const (
	DefaultTitlePrefix = "Profile"
	TitlePrefixForMe   = "My Profile"
)

// Tab selects the articles shown.
type Tab int

const (
	MyArticles Tab = iota
	FavoritedArticles
)

func (t Tab) String() string {
	if t == FavoritedArticles {
		return "favoritedArticles"
	}
	return "myArticles"
}

func (t Tab) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Model keeps the requested username alongside each status, so the
// page knows whose profile it is before (or without) the author
// loading.  The zero Model has the empty username.
type Model struct {
	session  session.Session
	username entity.Username
	errors   []string
	tab      Tab
	feedPage entity.PageNumber
	author   status.Status[entity.Author]
	feed     status.Status[*feed.Model]
}

func Init(s session.Session, username entity.Username, o orders.Orders[Msg]) *Model {
	m := &Model{
		session:  s,
		username: username,
		tab:      MyArticles,
		feedPage: 1,
	}
	viewer := s.Viewer()
	m.author = status.Start[entity.Author](o, slow, func(load string) orders.Cmd[Msg] {
		return func(ctx context.Context, c api.Conduit) Msg {
			a, err := c.LoadAuthor(ctx, viewer, username)
			return AuthorLoadCompleted{Load: load, Username: username, Author: a, Err: err}
		}
	})
	m.fetchFeed(o)
	return m
}

func slow(load string) Msg {
	return SlowLoadThresholdPassed{Load: load}
}

// Username is the loaded author's name, or the requested one while
// the author isn't loaded.
func (m *Model) Username() entity.Username {
	if a, ok := m.author.Value(); ok {
		return a.Username()
	}
	return m.username
}

// Query gives the request for the current tab and page.
func (m *Model) Query() api.FeedQuery {
	q := api.FeedQuery{
		Page: m.feedPage,
	}
	switch m.tab {
	case FavoritedArticles:
		q.Favorited = m.Username()
	default:
		q.Author = m.Username()
	}
	return q
}

func (m *Model) fetchFeed(o orders.Orders[Msg]) {
	var (
		viewer   = m.session.Viewer()
		username = m.Username()
		q        = m.Query()
	)
	m.feed = status.Start[*feed.Model](o, slow, func(load string) orders.Cmd[Msg] {
		return func(ctx context.Context, c api.Conduit) Msg {
			l, err := c.LoadFeed(ctx, viewer, q)
			return FeedLoadCompleted{Load: load, Username: username, Articles: l, Err: err}
		}
	})
}

func (m *Model) Session() session.Session {
	return m.session
}

func (m *Model) Author() status.Status[entity.Author] {
	return m.author
}

func (m *Model) Feed() status.Status[*feed.Model] {
	return m.feed
}

func (m *Model) Errors() []string {
	return m.errors
}

func (m *Model) Tab() Tab {
	return m.tab
}

type Msg interface {
	profileMsg()
}

type (
	DismissErrorsClicked struct{}
	FollowClicked        struct{}
	UnfollowClicked      struct{}

	TabClicked struct {
		Tab Tab
	}

	FeedPageClicked struct {
		Page entity.PageNumber
	}

	FollowChangeCompleted struct {
		Author entity.Author
		Err    error
	}

	// AuthorLoadCompleted carries the username that was requested
	// so a failure still knows whose profile it was.
	AuthorLoadCompleted struct {
		Load     string
		Username entity.Username
		Author   entity.Author
		Err      error
	}

	FeedLoadCompleted struct {
		Load     string
		Username entity.Username
		Articles entity.PaginatedList[entity.Article]
		Err      error
	}

	FeedMsg struct {
		Msg feed.Msg
	}

	SlowLoadThresholdPassed struct {
		Load string
	}
)

func (DismissErrorsClicked) profileMsg()    {}
func (FollowClicked) profileMsg()           {}
func (UnfollowClicked) profileMsg()         {}
func (TabClicked) profileMsg()              {}
func (FeedPageClicked) profileMsg()         {}
func (FollowChangeCompleted) profileMsg()   {}
func (AuthorLoadCompleted) profileMsg()     {}
func (FeedLoadCompleted) profileMsg()       {}
func (FeedMsg) profileMsg()                 {}
func (SlowLoadThresholdPassed) profileMsg() {}

func wrapFeed(msg feed.Msg) Msg {
	return FeedMsg{Msg: msg}
}

func (m *Model) follow(o orders.Orders[Msg], on bool) {
	var (
		viewer   = m.session.Viewer()
		username = m.Username()
	)
	if viewer == nil {
		page.LogErrors("profile", []string{"a guest can't follow " + string(username)})
		return
	}
	o.Perform(func(ctx context.Context, c api.Conduit) Msg {
		var (
			a   entity.Author
			err error
		)
		if on {
			a, err = c.Follow(ctx, viewer, username)
		} else {
			a, err = c.Unfollow(ctx, viewer, username)
		}
		return FollowChangeCompleted{Author: a, Err: err}
	})
}

func (m *Model) Update(msg Msg, o orders.Orders[Msg]) {
	switch vv := msg.(type) {
	case DismissErrorsClicked:
		m.errors = nil
	case FollowClicked:
		m.follow(o, true)
	case UnfollowClicked:
		m.follow(o, false)
	case TabClicked:
		m.tab = vv.Tab
		m.feedPage = 1
		m.fetchFeed(o)
	case FeedPageClicked:
		m.feedPage = vv.Page
		m.fetchFeed(o)
	case FollowChangeCompleted:
		if vv.Err != nil {
			m.errors = api.Messages(vv.Err)
			page.LogErrors("profile", m.errors)
			return
		}
		m.author = status.NewLoaded(vv.Author)
	case AuthorLoadCompleted:
		if !m.author.Awaits(vv.Load) {
			return
		}
		if vv.Err != nil {
			m.errors = api.Messages(vv.Err)
			page.LogErrors("profile", m.errors)
		}
		m.username = vv.Username
		m.author = m.author.Resolve(vv.Author, vv.Err)
	case FeedLoadCompleted:
		if !m.feed.Awaits(vv.Load) {
			return
		}
		if vv.Err != nil {
			m.errors = api.Messages(vv.Err)
			page.LogErrors("profile", m.errors)
		}
		m.feed = m.feed.Resolve(feed.Init(vv.Articles), vv.Err)
	case FeedMsg:
		f, loaded := m.feed.Value()
		if !loaded {
			page.LogErrors("profile", []string{"FeedMsg can be handled only if Status is Loaded"})
			return
		}
		f.Update(m.session.Viewer(), vv.Msg, orders.Proxy[feed.Msg, Msg](o, wrapFeed))
	case SlowLoadThresholdPassed:
		m.author = m.author.SlowFor(vv.Load)
		m.feed = m.feed.SlowFor(vv.Load)
	}
}

func (m *Model) Sink(g orders.GMsg, o orders.Orders[Msg]) {
	switch vv := g.(type) {
	case orders.SessionChanged:
		m.session = vv.Session
		orders.GoTo(o, route.ToHome())
	}
}

// TitlePrefix is "My Profile" for the viewer's own profile and
// names the author otherwise.  Until the author loads, only the
// viewer's own profile is recognized.
func (m *Model) TitlePrefix() string {
	a, loaded := m.author.Value()
	if !loaded {
		if m.session.IsViewer(m.username) {
			return TitlePrefixForMe
		}
		return DefaultTitlePrefix
	}
	if a.Relation == entity.IsViewer {
		return TitlePrefixForMe
	}
	return "Profile - " + string(a.Username())
}

func (m *Model) Title() string {
	return page.Title(m.TitlePrefix())
}

type Snapshot struct {
	Username entity.Username                `json:"username"`
	Errors   []string                       `json:"errors,omitempty"`
	Tab      Tab                            `json:"tab"`
	FeedPage entity.PageNumber              `json:"feedPage"`
	Author   status.Status[page.AuthorJSON] `json:"author"`
	Feed     status.Status[*feed.Model]     `json:"feed"`
}

func (m *Model) Snapshot() interface{} {
	return Snapshot{
		Username: m.Username(),
		Errors:   m.errors,
		Tab:      m.tab,
		FeedPage: m.feedPage,
		Author:   status.Map(m.author, page.Author),
		Feed:     m.feed,
	}
}
