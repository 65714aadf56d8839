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

// Package feed is the article list shared by the home and profile
// pages.
//
// The feed doesn't hold a session.  Its parent passes the current
// viewer to Update, so there's still only one live Session.
package feed

import (
	"context"
	"encoding/json"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/util"
)

type Model struct {
	errors   []string
	articles entity.PaginatedList[entity.Article]
}

func Init(articles entity.PaginatedList[entity.Article]) *Model {
	return &Model{
		articles: articles,
	}
}

func (m *Model) Articles() entity.PaginatedList[entity.Article] {
	return m.articles
}

func (m *Model) Errors() []string {
	return m.errors
}

type Msg interface {
	feedMsg()
}

type (
	DismissErrorsClicked struct{}

	// FavoriteClicked asks to favorite an article that isn't
	// favorited yet.
	FavoriteClicked struct {
		Slug entity.Slug
	}

	UnfavoriteClicked struct {
		Slug entity.Slug
	}

	FavoriteCompleted struct {
		Article entity.Article
		Err     error
	}
)

func (DismissErrorsClicked) feedMsg() {}
func (FavoriteClicked) feedMsg()      {}
func (UnfavoriteClicked) feedMsg()    {}
func (FavoriteCompleted) feedMsg()    {}

func (m *Model) Update(viewer *session.Viewer, msg Msg, o orders.Orders[Msg]) {
	switch vv := msg.(type) {
	case DismissErrorsClicked:
		m.errors = nil
	case FavoriteClicked:
		if viewer == nil {
			util.Logf("feed: guest can't favorite %s", vv.Slug)
			return
		}
		o.Perform(func(ctx context.Context, c api.Conduit) Msg {
			a, err := c.Favorite(ctx, viewer, vv.Slug)
			return FavoriteCompleted{Article: a, Err: err}
		})
	case UnfavoriteClicked:
		if viewer == nil {
			util.Logf("feed: guest can't unfavorite %s", vv.Slug)
			return
		}
		o.Perform(func(ctx context.Context, c api.Conduit) Msg {
			a, err := c.Unfavorite(ctx, viewer, vv.Slug)
			return FavoriteCompleted{Article: a, Err: err}
		})
	case FavoriteCompleted:
		if vv.Err != nil {
			m.errors = api.Messages(vv.Err)
			page.LogErrors("feed", m.errors)
			return
		}
		for i, a := range m.articles.Items {
			if a.Slug == vv.Article.Slug {
				m.articles.Items[i] = vv.Article
				break
			}
		}
	}
}

type Snapshot struct {
	Errors     []string                  `json:"errors,omitempty"`
	Articles   []page.ArticlePreviewJSON `json:"articles"`
	Total      int                       `json:"total"`
	TotalPages int                       `json:"totalPages"`
}

func (m *Model) Snapshot() Snapshot {
	acc := make([]page.ArticlePreviewJSON, 0, len(m.articles.Items))
	for _, a := range m.articles.Items {
		acc = append(acc, page.ArticlePreview(a))
	}
	return Snapshot{
		Errors:     m.errors,
		Articles:   acc,
		Total:      m.articles.Total,
		TotalPages: m.articles.TotalPages(),
	}
}

// MarshalJSON lets a loaded status of a feed appear in snapshots.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Snapshot())
}
