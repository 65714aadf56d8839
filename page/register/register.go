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

// Package register is the sign-up page.
package register

import (
	"context"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/form"
	registerform "github.com/Comcast/conduit/form/register"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
)

const TitlePrefix = "Register"

type Model struct {
	session  session.Session
	problems []form.Problem
	form     registerform.Form
}

func Init(s session.Session, o orders.Orders[Msg]) *Model {
	return &Model{
		session: s,
		form:    registerform.Default(),
	}
}

func (m *Model) Session() session.Session {
	return m.session
}

func (m *Model) Problems() []form.Problem {
	return m.problems
}

func (m *Model) Form() registerform.Form {
	return m.form
}

type Msg interface {
	registerMsg()
}

type (
	FieldChanged struct {
		Field registerform.Field
	}

	Submitted struct{}

	// RegisterCompleted carries the new account's viewer.
	RegisterCompleted struct {
		Viewer *session.Viewer
		Err    error
	}
)

func (FieldChanged) registerMsg()      {}
func (Submitted) registerMsg()         {}
func (RegisterCompleted) registerMsg() {}

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
			v, err := c.Register(ctx, entries)
			return RegisterCompleted{Viewer: v, Err: err}
		})
	case RegisterCompleted:
		if vv.Err != nil {
			msgs := api.Messages(vv.Err)
			page.LogErrors("register", msgs)
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
