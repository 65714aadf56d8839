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

// Package session models who is using the client: a guest or a
// logged-in viewer.
//
// Exactly one Session is live at a time.  It moves from one page
// model into the next when the route changes, so pages hand it back
// through their Session method rather than sharing it.
package session

import (
	"time"

	"github.com/Comcast/conduit/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Viewer is the logged-in user along with the credentials the API
// wants.
type Viewer struct {
	Token    string          `json:"token"`
	Username entity.Username `json:"username"`
	Image    entity.Avatar   `json:"image,omitempty"`
}

// Expired reports whether the viewer's token carries an "exp" claim
// at or before now.
//
// The token isn't verified.  We can't verify it (no key), and the
// server has the last word anyway.  A token that isn't a JWT, or a
// JWT without "exp", never expires.
func (v *Viewer) Expired(now time.Time) bool {
	if v == nil || v.Token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(v.Token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// Session is either a guest (the zero value) or a logged-in viewer.
type Session struct {
	viewer *Viewer
}

// Guest returns the session of an anonymous user.
func Guest() Session {
	return Session{}
}

// LoggedIn returns the session for the given viewer.  A nil viewer
// gives a Guest.
func LoggedIn(v *Viewer) Session {
	return Session{viewer: v}
}

// FromViewer is LoggedIn under the name used when restoring a stored
// viewer.
func FromViewer(v *Viewer) Session {
	return LoggedIn(v)
}

// Viewer returns the logged-in viewer or nil for a guest.
func (s Session) Viewer() *Viewer {
	return s.viewer
}

func (s Session) IsGuest() bool {
	return s.viewer == nil
}

// Username returns the viewer's name and whether there is a viewer.
func (s Session) Username() (entity.Username, bool) {
	if s.viewer == nil {
		return "", false
	}
	return s.viewer.Username, true
}

// IsViewer reports whether u names the logged-in viewer.
func (s Session) IsViewer(u entity.Username) bool {
	return s.viewer != nil && s.viewer.Username == u
}

func (s Session) String() string {
	if s.viewer == nil {
		return "guest"
	}
	return "viewer " + string(s.viewer.Username)
}

func (s Session) MarshalJSON() ([]byte, error) {
	if s.viewer == nil {
		return []byte("null"), nil
	}
	return jsonViewer(s.viewer)
}
