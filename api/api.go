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

// Package api is the network boundary: every request a page can
// make to the Conduit backend.
//
// Pages only see the Conduit interface.  Client implements it over
// HTTP.  Tests use fakes.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/form"
	"github.com/Comcast/conduit/session"
)

// DefaultBaseURL is the public demo backend.
const DefaultBaseURL = "https://conduit.productionready.io/api"

// Conduit is what pages can ask of the backend.
//
// The viewer is nil for a guest.  Entries come from a form.ValidForm
// and are sent in order.
type Conduit interface {
	Login(ctx context.Context, entries []form.Entry) (*session.Viewer, error)
	Register(ctx context.Context, entries []form.Entry) (*session.Viewer, error)

	LoadSettings(ctx context.Context, viewer *session.Viewer) (User, error)
	UpdateSettings(ctx context.Context, viewer *session.Viewer, entries []form.Entry) (*session.Viewer, error)

	LoadTags(ctx context.Context) ([]entity.Tag, error)
	LoadFeed(ctx context.Context, viewer *session.Viewer, q FeedQuery) (entity.PaginatedList[entity.Article], error)

	LoadArticle(ctx context.Context, viewer *session.Viewer, slug entity.Slug) (entity.Article, error)
	CreateArticle(ctx context.Context, viewer *session.Viewer, entries []form.Entry) (entity.Article, error)
	UpdateArticle(ctx context.Context, viewer *session.Viewer, slug entity.Slug, entries []form.Entry) (entity.Article, error)
	DeleteArticle(ctx context.Context, viewer *session.Viewer, slug entity.Slug) error
	Favorite(ctx context.Context, viewer *session.Viewer, slug entity.Slug) (entity.Article, error)
	Unfavorite(ctx context.Context, viewer *session.Viewer, slug entity.Slug) (entity.Article, error)

	LoadAuthor(ctx context.Context, viewer *session.Viewer, username entity.Username) (entity.Author, error)
	Follow(ctx context.Context, viewer *session.Viewer, username entity.Username) (entity.Author, error)
	Unfollow(ctx context.Context, viewer *session.Viewer, username entity.Username) (entity.Author, error)

	LoadComments(ctx context.Context, viewer *session.Viewer, slug entity.Slug) ([]entity.Comment, error)
	PostComment(ctx context.Context, viewer *session.Viewer, slug entity.Slug, body string) (entity.Comment, error)
	DeleteComment(ctx context.Context, viewer *session.Viewer, slug entity.Slug, id entity.CommentID) error
}

// User is the viewer's own account as the settings page edits it.
type User struct {
	Email    string          `json:"email"`
	Token    string          `json:"token"`
	Username entity.Username `json:"username"`
	Bio      string          `json:"bio"`
	Image    string          `json:"image"`
}

// Viewer gives the session viewer for this user.
func (u User) Viewer() *session.Viewer {
	return &session.Viewer{
		Token:    u.Token,
		Username: u.Username,
		Image:    entity.Avatar(u.Image),
	}
}

// FeedQuery selects a page of articles.
//
// Feed asks for the articles of authors the viewer follows.  Tag,
// Author and Favorited filter the global list.
type FeedQuery struct {
	Feed      bool
	Tag       entity.Tag
	Author    entity.Username
	Favorited entity.Username
	Page      entity.PageNumber
}

// Path gives the request path (relative to the base URL) with its
// query.
func (q FeedQuery) Path() string {
	path := "articles"
	if q.Feed {
		path += "/feed"
	}
	params := []string{
		fmt.Sprintf("limit=%d", entity.ArticlesPerPage),
		fmt.Sprintf("offset=%d", q.Page.Offset()),
	}
	if q.Tag != "" {
		params = append(params, "tag="+url.QueryEscape(string(q.Tag)))
	}
	if q.Author != "" {
		params = append(params, "author="+url.QueryEscape(string(q.Author)))
	}
	if q.Favorited != "" {
		params = append(params, "favorited="+url.QueryEscape(string(q.Favorited)))
	}
	return path + "?" + strings.Join(params, "&")
}

// Errors is a failed request, with messages ready to show.
type Errors struct {
	// StatusCode is zero when no response arrived.
	StatusCode int
	Messages   []string
}

func (e *Errors) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewErrors makes an Errors with the given messages.
func NewErrors(msgs ...string) *Errors {
	return &Errors{Messages: msgs}
}

// FieldErrors flattens a {"field":["msg",...]} map into "field msg"
// messages ordered by field.
func FieldErrors(fields map[string][]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	acc := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, msg := range fields[k] {
			acc = append(acc, k+" "+msg)
		}
	}
	return acc
}

// Messages gives the messages to show for err.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var e *Errors
	if errors.As(err, &e) {
		return e.Messages
	}
	return []string{err.Error()}
}
