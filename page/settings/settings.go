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

// Package settings edits the viewer's account.
//
// The form starts out loading: it's filled from the server's copy of
// the account, never from the session, which only knows the
// username and image.
package settings

import (
	"context"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/form"
	settingsform "github.com/Comcast/conduit/form/settings"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/status"
)

const TitlePrefix = "Settings"

type Model struct {
	session  session.Session
	problems []form.Problem
	form     status.Status[settingsform.Form]
}

func Init(s session.Session, o orders.Orders[Msg]) *Model {
	viewer := s.Viewer()
	return &Model{
		session: s,
		form: status.Start[settingsform.Form](o, slow, func(load string) orders.Cmd[Msg] {
			return func(ctx context.Context, c api.Conduit) Msg {
				u, err := c.LoadSettings(ctx, viewer)
				return FormLoadCompleted{Load: load, User: u, Err: err}
			}
		}),
	}
}

func slow(load string) Msg {
	return SlowLoadThresholdPassed{Load: load}
}

func (m *Model) Session() session.Session {
	return m.session
}

func (m *Model) Problems() []form.Problem {
	return m.problems
}

func (m *Model) Form() status.Status[settingsform.Form] {
	return m.form
}

type Msg interface {
	settingsMsg()
}

type (
	FieldChanged struct {
		Field settingsform.Field
	}

	Submitted struct{}

	FormLoadCompleted struct {
		Load string
		User api.User
		Err  error
	}

	SaveCompleted struct {
		Viewer *session.Viewer
		Err    error
	}

	SlowLoadThresholdPassed struct {
		Load string
	}
)

func (FieldChanged) settingsMsg()            {}
func (Submitted) settingsMsg()               {}
func (FormLoadCompleted) settingsMsg()       {}
func (SaveCompleted) settingsMsg()           {}
func (SlowLoadThresholdPassed) settingsMsg() {}

func (m *Model) Update(msg Msg, o orders.Orders[Msg]) {
	switch vv := msg.(type) {
	case FieldChanged:
		if m.form.Phase() != status.Loaded {
			page.LogErrors("settings", []string{"form isn't loaded yet"})
			return
		}
		m.form = m.form.Update(func(f settingsform.Form) settingsform.Form {
			return f.Upsert(vv.Field)
		})
	case Submitted:
		f, loaded := m.form.Value()
		if !loaded {
			page.LogErrors("settings", []string{"form isn't loaded yet"})
			return
		}
		valid, problems := f.Trim().Validate()
		m.problems = problems
		if problems != nil {
			return
		}
		var (
			viewer  = m.session.Viewer()
			entries = valid.Entries()
		)
		o.Perform(func(ctx context.Context, c api.Conduit) Msg {
			v, err := c.UpdateSettings(ctx, viewer, entries)
			return SaveCompleted{Viewer: v, Err: err}
		})
	case FormLoadCompleted:
		if !m.form.Awaits(vv.Load) {
			return
		}
		if vv.Err != nil {
			msgs := api.Messages(vv.Err)
			page.LogErrors("settings", msgs)
			m.problems = form.ServerErrors(msgs)
		}
		u := vv.User
		m.form = m.form.Resolve(settingsform.FromValues(u.Image, string(u.Username), u.Bio, u.Email), vv.Err)
	case SaveCompleted:
		if vv.Err != nil {
			msgs := api.Messages(vv.Err)
			page.LogErrors("settings", msgs)
			m.problems = form.ServerErrors(msgs)
			return
		}
		o.Broadcast(orders.SessionChanged{Session: session.LoggedIn(vv.Viewer)})
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
	return page.Title(TitlePrefix)
}

type Snapshot struct {
	Problems []form.Problem                  `json:"problems,omitempty"`
	Form     status.Status[[]page.FieldJSON] `json:"form"`
}

func (m *Model) Snapshot() interface{} {
	return Snapshot{
		Problems: m.problems,
		Form:     status.Map(m.form, page.Fields[settingsform.Field]),
	}
}
