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

// Package article shows one article with its comments.
package article

import (
	"context"
	"strings"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/status"
	"github.com/Comcast/conduit/util"
)

// DefaultTitlePrefix is used until the article arrives.
const DefaultTitlePrefix = "Article"

type Model struct {
	session     session.Session
	slug        entity.Slug
	errors      []string
	commentText string
	article     status.Status[entity.Article]
	comments    status.Status[[]entity.Comment]
}

func Init(s session.Session, slug entity.Slug, o orders.Orders[Msg]) *Model {
	viewer := s.Viewer()
	m := &Model{
		session: s,
		slug:    slug,
	}
	m.article = status.Start[entity.Article](o, slow, func(load string) orders.Cmd[Msg] {
		return func(ctx context.Context, c api.Conduit) Msg {
			a, err := c.LoadArticle(ctx, viewer, slug)
			return ArticleLoadCompleted{Load: load, Article: a, Err: err}
		}
	})
	m.comments = status.Start[[]entity.Comment](o, slow, func(load string) orders.Cmd[Msg] {
		return func(ctx context.Context, c api.Conduit) Msg {
			cs, err := c.LoadComments(ctx, viewer, slug)
			return CommentsLoadCompleted{Load: load, Comments: cs, Err: err}
		}
	})
	return m
}

func slow(load string) Msg {
	return SlowLoadThresholdPassed{Load: load}
}

func (m *Model) Session() session.Session {
	return m.session
}

func (m *Model) Slug() entity.Slug {
	return m.slug
}

func (m *Model) Errors() []string {
	return m.errors
}

func (m *Model) CommentText() string {
	return m.commentText
}

func (m *Model) Article() status.Status[entity.Article] {
	return m.article
}

func (m *Model) Comments() status.Status[[]entity.Comment] {
	return m.comments
}

type Msg interface {
	articleMsg()
}

type (
	DismissErrorsClicked struct{}
	FavoriteClicked      struct{}
	UnfavoriteClicked    struct{}
	FollowClicked        struct{}
	UnfollowClicked      struct{}
	PostCommentClicked   struct{}
	DeleteArticleClicked struct{}

	CommentChanged struct {
		Text string
	}

	DeleteCommentClicked struct {
		ID entity.CommentID
	}

	ArticleLoadCompleted struct {
		Load    string
		Article entity.Article
		Err     error
	}

	CommentsLoadCompleted struct {
		Load     string
		Comments []entity.Comment
		Err      error
	}

	FavoriteChangeCompleted struct {
		Article entity.Article
		Err     error
	}

	FollowChangeCompleted struct {
		Author entity.Author
		Err    error
	}

	CommentPosted struct {
		Comment entity.Comment
		Err     error
	}

	CommentDeleted struct {
		ID  entity.CommentID
		Err error
	}

	ArticleDeleted struct {
		Err error
	}

	SlowLoadThresholdPassed struct {
		Load string
	}
)

func (DismissErrorsClicked) articleMsg()    {}
func (FavoriteClicked) articleMsg()         {}
func (UnfavoriteClicked) articleMsg()       {}
func (FollowClicked) articleMsg()           {}
func (UnfollowClicked) articleMsg()         {}
func (PostCommentClicked) articleMsg()      {}
func (DeleteArticleClicked) articleMsg()    {}
func (CommentChanged) articleMsg()          {}
func (DeleteCommentClicked) articleMsg()    {}
func (ArticleLoadCompleted) articleMsg()    {}
func (CommentsLoadCompleted) articleMsg()   {}
func (FavoriteChangeCompleted) articleMsg() {}
func (FollowChangeCompleted) articleMsg()   {}
func (CommentPosted) articleMsg()           {}
func (CommentDeleted) articleMsg()          {}
func (ArticleDeleted) articleMsg()          {}
func (SlowLoadThresholdPassed) articleMsg() {}

// perform runs f for a logged-in viewer.  A guest's request is
// logged and dropped.
func (m *Model) perform(o orders.Orders[Msg], what string, f func(ctx context.Context, c api.Conduit, v *session.Viewer) Msg) {
	viewer := m.session.Viewer()
	if viewer == nil {
		util.Logf("article: guest can't %s %s", what, m.slug)
		return
	}
	o.Perform(func(ctx context.Context, c api.Conduit) Msg {
		return f(ctx, c, viewer)
	})
}

func (m *Model) fail(err error) {
	m.errors = api.Messages(err)
	page.LogErrors("article", m.errors)
}

func (m *Model) Update(msg Msg, o orders.Orders[Msg]) {
	slug := m.slug
	switch vv := msg.(type) {
	case DismissErrorsClicked:
		m.errors = nil
	case CommentChanged:
		m.commentText = vv.Text
	case FavoriteClicked, UnfavoriteClicked:
		_, on := vv.(FavoriteClicked)
		m.perform(o, "favorite", func(ctx context.Context, c api.Conduit, v *session.Viewer) Msg {
			var (
				a   entity.Article
				err error
			)
			if on {
				a, err = c.Favorite(ctx, v, slug)
			} else {
				a, err = c.Unfavorite(ctx, v, slug)
			}
			return FavoriteChangeCompleted{Article: a, Err: err}
		})
	case FollowClicked, UnfollowClicked:
		a, loaded := m.article.Value()
		if !loaded {
			return
		}
		var (
			_, on    = vv.(FollowClicked)
			username = a.Author.Username()
		)
		m.perform(o, "follow the author of", func(ctx context.Context, c api.Conduit, v *session.Viewer) Msg {
			var (
				au  entity.Author
				err error
			)
			if on {
				au, err = c.Follow(ctx, v, username)
			} else {
				au, err = c.Unfollow(ctx, v, username)
			}
			return FollowChangeCompleted{Author: au, Err: err}
		})
	case PostCommentClicked:
		body := strings.TrimSpace(m.commentText)
		if body == "" {
			m.errors = []string{"body can't be blank"}
			return
		}
		m.perform(o, "comment on", func(ctx context.Context, c api.Conduit, v *session.Viewer) Msg {
			cm, err := c.PostComment(ctx, v, slug, body)
			return CommentPosted{Comment: cm, Err: err}
		})
	case DeleteCommentClicked:
		id := vv.ID
		m.perform(o, "delete a comment on", func(ctx context.Context, c api.Conduit, v *session.Viewer) Msg {
			return CommentDeleted{ID: id, Err: c.DeleteComment(ctx, v, slug, id)}
		})
	case DeleteArticleClicked:
		m.perform(o, "delete", func(ctx context.Context, c api.Conduit, v *session.Viewer) Msg {
			return ArticleDeleted{Err: c.DeleteArticle(ctx, v, slug)}
		})
	case ArticleLoadCompleted:
		if !m.article.Awaits(vv.Load) {
			return
		}
		if vv.Err != nil {
			m.fail(vv.Err)
		}
		m.article = m.article.Resolve(vv.Article, vv.Err)
	case CommentsLoadCompleted:
		if !m.comments.Awaits(vv.Load) {
			return
		}
		if vv.Err != nil {
			m.fail(vv.Err)
		}
		m.comments = m.comments.Resolve(vv.Comments, vv.Err)
	case FavoriteChangeCompleted:
		if vv.Err != nil {
			m.fail(vv.Err)
			return
		}
		m.article = m.article.Update(func(entity.Article) entity.Article {
			return vv.Article
		})
	case FollowChangeCompleted:
		if vv.Err != nil {
			m.fail(vv.Err)
			return
		}
		m.article = m.article.Update(func(a entity.Article) entity.Article {
			a.Author = vv.Author
			return a
		})
	case CommentPosted:
		if vv.Err != nil {
			m.fail(vv.Err)
			return
		}
		m.commentText = ""
		m.comments = m.comments.Update(func(cs []entity.Comment) []entity.Comment {
			return append([]entity.Comment{vv.Comment}, cs...)
		})
	case CommentDeleted:
		if vv.Err != nil {
			m.fail(vv.Err)
			return
		}
		m.comments = m.comments.Update(func(cs []entity.Comment) []entity.Comment {
			acc := make([]entity.Comment, 0, len(cs))
			for _, c := range cs {
				if c.ID != vv.ID {
					acc = append(acc, c)
				}
			}
			return acc
		})
	case ArticleDeleted:
		if vv.Err != nil {
			m.fail(vv.Err)
			return
		}
		orders.GoTo(o, route.ToHome())
	case SlowLoadThresholdPassed:
		m.article = m.article.SlowFor(vv.Load)
		m.comments = m.comments.SlowFor(vv.Load)
	}
}

func (m *Model) Sink(g orders.GMsg, o orders.Orders[Msg]) {
	switch vv := g.(type) {
	case orders.SessionChanged:
		m.session = vv.Session
	}
}

func (m *Model) Title() string {
	if a, loaded := m.article.Value(); loaded {
		return page.Title(a.Title)
	}
	return page.Title(DefaultTitlePrefix)
}

// ArticleJSON is the full article with its rendered body.
type ArticleJSON struct {
	page.ArticlePreviewJSON
	BodyHTML  string `json:"bodyHtml"`
	CanModify bool   `json:"canModify"`
}

type CommentJSON struct {
	ID        entity.CommentID `json:"id"`
	BodyHTML  string           `json:"bodyHtml"`
	CreatedAt string           `json:"createdAt"`
	Author    page.AuthorJSON  `json:"author"`
	CanDelete bool             `json:"canDelete"`
}

type Snapshot struct {
	Errors      []string                     `json:"errors,omitempty"`
	CommentText string                       `json:"commentText"`
	Article     status.Status[ArticleJSON]   `json:"article"`
	Comments    status.Status[[]CommentJSON] `json:"comments"`
}

func (m *Model) Snapshot() interface{} {
	return Snapshot{
		Errors:      m.errors,
		CommentText: m.commentText,
		Article: status.Map(m.article, func(a entity.Article) ArticleJSON {
			return ArticleJSON{
				ArticlePreviewJSON: page.ArticlePreview(a),
				BodyHTML:           a.Body.HTML(),
				CanModify:          m.session.IsViewer(a.Author.Username()),
			}
		}),
		Comments: status.Map(m.comments, func(cs []entity.Comment) []CommentJSON {
			acc := make([]CommentJSON, 0, len(cs))
			for _, c := range cs {
				acc = append(acc, CommentJSON{
					ID:        c.ID,
					BodyHTML:  c.Body.HTML(),
					CreatedAt: entity.Timestamp(c.CreatedAt),
					Author:    page.Author(c.Author),
					CanDelete: m.session.IsViewer(c.Author.Username()),
				})
			}
			return acc
		}),
	}
}
