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

// Package login is the sign-in page.
package login

import (
	"context"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/form"
	loginform "github.com/Comcast/conduit/form/login"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
)

const TitlePrefix = "Login"

type Model struct {
	session  session.Session
	problems []form.Problem
	form     loginform.Form
}

func Init(s session.Session, o orders.Orders[Msg]) *Model {
	return &Model{
		session: s,
		form:    loginform.Default(),
	}
}

func (m *Model) Session() session.Session {
	return m.session
}

func (m *Model) Problems() []form.Problem {
	return m.problems
}

func (m *Model) Form() loginform.Form {
	return m.form
}

type Msg interface {
	loginMsg()
}

type (
	FieldChanged struct {
		Field loginform.Field
	}

	Submitted struct{}

	LoginCompleted struct {
		Viewer *session.Viewer
		Err    error
	}
)

func (FieldChanged) loginMsg()   {}
func (Submitted) loginMsg()      {}
func (LoginCompleted) loginMsg() {}

func (m *Model) Update(msg Msg, o orders.Orders[Msg]) {
	switch vv := msg.(type) {
	case FieldChanged:
		m.form = m.form.Upsert(vv.Field)
	case Submitted:
		valid, problems := m.form.Trim().Validate()
		m.problems = problems
		if problems != nil {
			return
		}
		entries := valid.Entries()
		o.Perform(func(ctx context.Context, c api.Conduit) Msg {
			v, err := c.Login(ctx, entries)
			return LoginCompleted{Viewer: v, Err: err}
		})
	case LoginCompleted:
		if vv.Err != nil {
			msgs := api.Messages(vv.Err)
			page.LogErrors("login", msgs)
			m.problems = form.ServerErrors(msgs)
			return
		}
		o.Broadcast(orders.SessionChanged{Session: session.LoggedIn(vv.Viewer)})
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
	return page.Title(TitlePrefix)
}

type Snapshot struct {
	Problems []form.Problem   `json:"problems,omitempty"`
	Fields   []page.FieldJSON `json:"fields"`
}

func (m *Model) Snapshot() interface{} {
	return Snapshot{
		Problems: m.problems,
		Fields:   page.Fields(m.form),
	}
}
