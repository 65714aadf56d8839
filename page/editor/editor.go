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

// Package editor writes a new article or edits an existing one.
package editor

import (
	"context"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/form"
	editorform "github.com/Comcast/conduit/form/editor"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/status"
)

const (
	TitlePrefixNew  = "New Article"
	TitlePrefixEdit = "Edit Article"
)

// Model edits the article with the given slug, or a new article when
// the slug is nil.
type Model struct {
	session  session.Session
	slug     *entity.Slug
	problems []form.Problem
	form     status.Status[editorform.Form]
}

func Init(s session.Session, slug *entity.Slug, o orders.Orders[Msg]) *Model {
	m := &Model{
		session: s,
		slug:    slug,
	}
	if slug == nil {
		m.form = status.NewLoaded(editorform.Default())
		return m
	}
	var (
		viewer = s.Viewer()
		want   = *slug
	)
	m.form = status.Start[editorform.Form](o, slow, func(load string) orders.Cmd[Msg] {
		return func(ctx context.Context, c api.Conduit) Msg {
			a, err := c.LoadArticle(ctx, viewer, want)
			return ArticleLoadCompleted{Load: load, Article: a, Err: err}
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

// Slug is nil for a new article.
func (m *Model) Slug() *entity.Slug {
	return m.slug
}

func (m *Model) Problems() []form.Problem {
	return m.problems
}

func (m *Model) Form() status.Status[editorform.Form] {
	return m.form
}

type Msg interface {
	editorMsg()
}

type (
	FieldChanged struct {
		Field editorform.Field
	}

	Submitted struct{}

	ArticleLoadCompleted struct {
		Load    string
		Article entity.Article
		Err     error
	}

	SaveCompleted struct {
		Article entity.Article
		Err     error
	}

	SlowLoadThresholdPassed struct {
		Load string
	}
)

func (FieldChanged) editorMsg()            {}
func (Submitted) editorMsg()               {}
func (ArticleLoadCompleted) editorMsg()    {}
func (SaveCompleted) editorMsg()           {}
func (SlowLoadThresholdPassed) editorMsg() {}

func (m *Model) save(o orders.Orders[Msg], entries []form.Entry) {
	viewer := m.session.Viewer()
	if m.slug == nil {
		o.Perform(func(ctx context.Context, c api.Conduit) Msg {
			a, err := c.CreateArticle(ctx, viewer, entries)
			return SaveCompleted{Article: a, Err: err}
		})
		return
	}
	slug := *m.slug
	o.Perform(func(ctx context.Context, c api.Conduit) Msg {
		a, err := c.UpdateArticle(ctx, viewer, slug, entries)
		return SaveCompleted{Article: a, Err: err}
	})
}

func (m *Model) Update(msg Msg, o orders.Orders[Msg]) {
	switch vv := msg.(type) {
	case FieldChanged:
		if m.form.Phase() != status.Loaded {
			page.LogErrors("editor", []string{"form isn't loaded yet"})
			return
		}
		m.form = m.form.Update(func(f editorform.Form) editorform.Form {
			return f.Upsert(vv.Field)
		})
	case Submitted:
		f, loaded := m.form.Value()
		if !loaded {
			page.LogErrors("editor", []string{"form isn't loaded yet"})
			return
		}
		valid, problems := f.Trim().Validate()
		m.problems = problems
		if problems != nil {
			return
		}
		m.save(o, valid.Entries())
	case ArticleLoadCompleted:
		if !m.form.Awaits(vv.Load) {
			return
		}
		if vv.Err != nil {
			msgs := api.Messages(vv.Err)
			page.LogErrors("editor", msgs)
			m.problems = form.ServerErrors(msgs)
		}
		m.form = m.form.Resolve(editorform.FromArticle(vv.Article), vv.Err)
	case SaveCompleted:
		if vv.Err != nil {
			msgs := api.Messages(vv.Err)
			page.LogErrors("editor", msgs)
			m.problems = form.ServerErrors(msgs)
			return
		}
		orders.GoTo(o, route.ToArticle(vv.Article.Slug))
	case SlowLoadThresholdPassed:
		m.form = m.form.SlowFor(vv.Load)
	}
}

func (m *Model) Sink(g orders.GMsg, o orders.Orders[Msg]) {
	switch vv := g.(type) {
	case orders.SessionChanged:
		m.session = vv.Session
		orders.GoTo(o, route.ToHome())
	}
}

func (m *Model) Title() string {
	if m.slug == nil {
		return page.Title(TitlePrefixNew)
	}
	return page.Title(TitlePrefixEdit)
}

type Snapshot struct {
	Slug     *entity.Slug                    `json:"slug,omitempty"`
	Problems []form.Problem                  `json:"problems,omitempty"`
	Form     status.Status[[]page.FieldJSON] `json:"form"`
}

func (m *Model) Snapshot() interface{} {
	return Snapshot{
		Slug:     m.slug,
		Problems: m.problems,
		Form:     status.Map(m.form, page.Fields[editorform.Field]),
	}
}
