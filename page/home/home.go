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

// Package home is the landing page: popular tags and an article
// feed.
package home

import (
	"context"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/page/feed"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/status"
)

// FeedKind says which articles the feed shows.
type FeedKind int

const (
	// Your is the viewer's feed: articles by followed authors.
	Your FeedKind = iota
	Global
	ByTag
)

func (k FeedKind) String() string {
	switch k {
	case Your:
		return "your"
	case ByTag:
		return "tag"
	default:
		return "global"
	}
}

func (k FeedKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SelectedFeed is the active tab.  Tag is only set for ByTag.
type SelectedFeed struct {
	Kind FeedKind   `json:"kind"`
	Tag  entity.Tag `json:"tag,omitempty"`
}

type Model struct {
	session  session.Session
	selected SelectedFeed
	feedPage entity.PageNumber
	tags     status.Status[[]entity.Tag]
	feed     status.Status[*feed.Model]
}

func Init(s session.Session, o orders.Orders[Msg]) *Model {
	m := &Model{
		session:  s,
		selected: SelectedFeed{Kind: Global},
		feedPage: 1,
	}
	if !s.IsGuest() {
		m.selected = SelectedFeed{Kind: Your}
	}
	m.tags = status.Start[[]entity.Tag](o, slow, fetchTags)
	m.fetchFeed(o)
	return m
}

func slow(load string) Msg {
	return SlowLoadThresholdPassed{Load: load}
}

func fetchTags(load string) orders.Cmd[Msg] {
	return func(ctx context.Context, c api.Conduit) Msg {
		tags, err := c.LoadTags(ctx)
		return TagsLoadCompleted{Load: load, Tags: tags, Err: err}
	}
}

// Query gives the request for the selected feed and page.
func (m *Model) Query() api.FeedQuery {
	q := api.FeedQuery{
		Page: m.feedPage,
	}
	switch m.selected.Kind {
	case Your:
		// A guest has no feed of their own.
		q.Feed = !m.session.IsGuest()
	case ByTag:
		q.Tag = m.selected.Tag
	}
	return q
}

// fetchFeed starts loading the feed for the current selection.  Any
// earlier load is superseded.
func (m *Model) fetchFeed(o orders.Orders[Msg]) {
	var (
		viewer = m.session.Viewer()
		q      = m.Query()
	)
	m.feed = status.Start[*feed.Model](o, slow, func(load string) orders.Cmd[Msg] {
		return func(ctx context.Context, c api.Conduit) Msg {
			l, err := c.LoadFeed(ctx, viewer, q)
			return FeedLoadCompleted{Load: load, Articles: l, Err: err}
		}
	})
}

func (m *Model) Session() session.Session {
	return m.session
}

func (m *Model) Selected() SelectedFeed {
	return m.selected
}

func (m *Model) FeedPage() entity.PageNumber {
	return m.feedPage
}

func (m *Model) Tags() status.Status[[]entity.Tag] {
	return m.tags
}

func (m *Model) Feed() status.Status[*feed.Model] {
	return m.feed
}

type Msg interface {
	homeMsg()
}

type (
	TagClicked struct {
		Tag entity.Tag
	}

	TabClicked struct {
		Feed SelectedFeed
	}

	FeedPageClicked struct {
		Page entity.PageNumber
	}

	FeedLoadCompleted struct {
		Load     string
		Articles entity.PaginatedList[entity.Article]
		Err      error
	}

	TagsLoadCompleted struct {
		Load string
		Tags []entity.Tag
		Err  error
	}

	FeedMsg struct {
		Msg feed.Msg
	}

	SlowLoadThresholdPassed struct {
		Load string
	}
)

func (TagClicked) homeMsg()              {}
func (TabClicked) homeMsg()              {}
func (FeedPageClicked) homeMsg()         {}
func (FeedLoadCompleted) homeMsg()       {}
func (TagsLoadCompleted) homeMsg()       {}
func (FeedMsg) homeMsg()                 {}
func (SlowLoadThresholdPassed) homeMsg() {}

func wrapFeed(msg feed.Msg) Msg {
	return FeedMsg{Msg: msg}
}

func (m *Model) Update(msg Msg, o orders.Orders[Msg]) {
	switch vv := msg.(type) {
	case TagClicked:
		m.selected = SelectedFeed{Kind: ByTag, Tag: vv.Tag}
		m.feedPage = 1
		m.fetchFeed(o)
	case TabClicked:
		m.selected = vv.Feed
		m.feedPage = 1
		m.fetchFeed(o)
	case FeedPageClicked:
		m.feedPage = vv.Page
		m.fetchFeed(o)
	case FeedLoadCompleted:
		if !m.feed.Awaits(vv.Load) {
			return
		}
		if vv.Err != nil {
			page.LogErrors("home feed", api.Messages(vv.Err))
		}
		m.feed = m.feed.Resolve(feed.Init(vv.Articles), vv.Err)
	case TagsLoadCompleted:
		if !m.tags.Awaits(vv.Load) {
			return
		}
		if vv.Err != nil {
			page.LogErrors("home tags", api.Messages(vv.Err))
		}
		m.tags = m.tags.Resolve(vv.Tags, vv.Err)
	case FeedMsg:
		f, loaded := m.feed.Value()
		if !loaded {
			page.LogErrors("home", []string{"FeedMsg can be handled only if Status is Loaded"})
			return
		}
		f.Update(m.session.Viewer(), vv.Msg, orders.Proxy[feed.Msg, Msg](o, wrapFeed))
	case SlowLoadThresholdPassed:
		m.feed = m.feed.SlowFor(vv.Load)
		m.tags = m.tags.SlowFor(vv.Load)
	}
}

func (m *Model) Sink(g orders.GMsg, o orders.Orders[Msg]) {
	switch vv := g.(type) {
	case orders.SessionChanged:
		m.session = vv.Session
	}
}

func (m *Model) Title() string {
	return page.AppName
}

type Snapshot struct {
	Selected SelectedFeed                `json:"selected"`
	FeedPage entity.PageNumber           `json:"feedPage"`
	Tags     status.Status[[]entity.Tag] `json:"tags"`
	Feed     status.Status[*feed.Model]  `json:"feed"`
}

func (m *Model) Snapshot() interface{} {
	return Snapshot{
		Selected: m.selected,
		FeedPage: m.feedPage,
		Tags:     m.tags,
		Feed:     m.feed,
	}
}
