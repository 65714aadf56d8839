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

package app

import (
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/page/article"
	"github.com/Comcast/conduit/page/editor"
	"github.com/Comcast/conduit/page/home"
	"github.com/Comcast/conduit/page/login"
	"github.com/Comcast/conduit/page/profile"
	"github.com/Comcast/conduit/page/register"
	"github.com/Comcast/conduit/page/settings"
	"github.com/Comcast/conduit/session"
)

// Model is the active page.  Exactly one is live at a time, and it
// owns the Session.
type Model interface {
	Session() session.Session
	Title() string
	Snapshot() interface{}

	// Name identifies the variant in snapshots and metrics.
	Name() string
}

type (
	// Redirect is shown while the application decides where to
	// go, for example right after start or logout.
	Redirect struct {
		session session.Session
	}

	NotFound struct {
		session session.Session
	}

	Home struct {
		Model *home.Model
	}

	Settings struct {
		Model *settings.Model
	}

	Login struct {
		Model *login.Model
	}

	Register struct {
		Model *register.Model
	}

	// Profile remembers the username from the route.
	Profile struct {
		Model    *profile.Model
		Username entity.Username
	}

	Article struct {
		Model *article.Model
	}

	// ArticleEditor has a nil Slug for a new article.
	ArticleEditor struct {
		Model *editor.Model
		Slug  *entity.Slug
	}
)

func (m Redirect) Session() session.Session { return m.session }
func (m Redirect) Title() string            { return page.AppName }
func (m Redirect) Snapshot() interface{}    { return page.Empty{} }
func (m Redirect) Name() string             { return "redirect" }

func (m NotFound) Session() session.Session { return m.session }
func (m NotFound) Title() string            { return page.Title("Not Found") }
func (m NotFound) Snapshot() interface{}    { return page.Empty{} }
func (m NotFound) Name() string             { return "notFound" }

func (m Home) Session() session.Session { return m.Model.Session() }
func (m Home) Title() string            { return m.Model.Title() }
func (m Home) Snapshot() interface{}    { return m.Model.Snapshot() }
func (m Home) Name() string             { return "home" }

func (m Settings) Session() session.Session { return m.Model.Session() }
func (m Settings) Title() string            { return m.Model.Title() }
func (m Settings) Snapshot() interface{}    { return m.Model.Snapshot() }
func (m Settings) Name() string             { return "settings" }

func (m Login) Session() session.Session { return m.Model.Session() }
func (m Login) Title() string            { return m.Model.Title() }
func (m Login) Snapshot() interface{}    { return m.Model.Snapshot() }
func (m Login) Name() string             { return "login" }

func (m Register) Session() session.Session { return m.Model.Session() }
func (m Register) Title() string            { return m.Model.Title() }
func (m Register) Snapshot() interface{}    { return m.Model.Snapshot() }
func (m Register) Name() string             { return "register" }

func (m Profile) Session() session.Session { return m.Model.Session() }
func (m Profile) Title() string            { return m.Model.Title() }
func (m Profile) Snapshot() interface{}    { return m.Model.Snapshot() }
func (m Profile) Name() string             { return "profile" }

func (m Article) Session() session.Session { return m.Model.Session() }
func (m Article) Title() string            { return m.Model.Title() }
func (m Article) Snapshot() interface{}    { return m.Model.Snapshot() }
func (m Article) Name() string             { return "article" }

func (m ArticleEditor) Session() session.Session { return m.Model.Session() }
func (m ArticleEditor) Title() string            { return m.Model.Title() }
func (m ArticleEditor) Snapshot() interface{}    { return m.Model.Snapshot() }
func (m ArticleEditor) Name() string             { return "editor" }

// Snapshot is what couplings publish after each processed input.
type Snapshot struct {
	Page   string          `json:"page"`
	Title  string          `json:"title"`
	Route  string          `json:"route"`
	Viewer session.Session `json:"viewer"`
	Body   interface{}     `json:"body"`
}
