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

// Package route maps URL paths to Routes and back.
//
// Encode is total.  Decode fails for paths the client doesn't know
// about, and the application turns such a failure into its NotFound
// page.
package route

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Comcast/conduit/entity"
)

// Kind is the variant of a Route.
type Kind int

const (
	Home Kind = iota
	Root
	Login
	Logout
	Register
	Settings
	Article
	Profile
	NewArticle
	EditArticle
)

var kindNames = []string{
	"home",
	"root",
	"login",
	"logout",
	"register",
	"settings",
	"article",
	"profile",
	"newArticle",
	"editArticle",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Route is a destination in the client.
//
// Slug is only meaningful for Article and EditArticle, and Username
// is only meaningful for Profile.
type Route struct {
	Kind     Kind            `json:"kind"`
	Slug     entity.Slug     `json:"slug,omitempty"`
	Username entity.Username `json:"username,omitempty"`
}

func ToHome() Route                     { return Route{Kind: Home} }
func ToRoot() Route                     { return Route{Kind: Root} }
func ToLogin() Route                    { return Route{Kind: Login} }
func ToLogout() Route                   { return Route{Kind: Logout} }
func ToRegister() Route                 { return Route{Kind: Register} }
func ToSettings() Route                 { return Route{Kind: Settings} }
func ToArticle(s entity.Slug) Route     { return Route{Kind: Article, Slug: s} }
func ToProfile(u entity.Username) Route { return Route{Kind: Profile, Username: u} }
func ToNewArticle() Route               { return Route{Kind: NewArticle} }
func ToEditArticle(s entity.Slug) Route { return Route{Kind: EditArticle, Slug: s} }

// DecodeError reports a path that doesn't name a Route.
type DecodeError struct {
	Path []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("no route for /%s", strings.Join(e.Path, "/"))
}

// Decode maps path segments to a Route.
func Decode(path []string) (Route, error) {
	var first, second string
	if 0 < len(path) {
		first = path[0]
	}
	if 1 < len(path) {
		second = path[1]
	}

	switch first {
	case "":
		if len(path) < 2 {
			return ToHome(), nil
		}
	case "login":
		return ToLogin(), nil
	case "logout":
		return ToLogout(), nil
	case "register":
		return ToRegister(), nil
	case "settings":
		return ToSettings(), nil
	case "profile":
		if second != "" {
			return ToProfile(entity.Username(second)), nil
		}
	case "article":
		if second != "" {
			return ToArticle(entity.Slug(second)), nil
		}
	case "editor":
		if second != "" {
			return ToEditArticle(entity.Slug(second)), nil
		}
		return ToNewArticle(), nil
	}

	return Route{}, &DecodeError{Path: path}
}

// Encode gives the path segments for a Route.
func Encode(r Route) []string {
	switch r.Kind {
	case Login:
		return []string{"login"}
	case Logout:
		return []string{"logout"}
	case Register:
		return []string{"register"}
	case Settings:
		return []string{"settings"}
	case Article:
		return []string{"article", string(r.Slug)}
	case Profile:
		return []string{"profile", string(r.Username)}
	case NewArticle:
		return []string{"editor"}
	case EditArticle:
		return []string{"editor", string(r.Slug)}
	default:
		return []string{}
	}
}

// String renders the Route as an absolute path.  Each segment is
// escaped, so Parse gives the Route back.
func (r Route) String() string {
	segs := Encode(r)
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return "/" + strings.Join(segs, "/")
}

// Segments splits a URL or a path into its path segments.  Query
// and fragment are ignored.  Segments are unescaped after splitting,
// so an escaped "/" stays inside its segment.
//
// A path starting with "//" is a path, not a host.
func Segments(rawURL string) ([]string, error) {
	parse := url.Parse
	if strings.HasPrefix(rawURL, "//") {
		parse = url.ParseRequestURI
	}
	u, err := parse(rawURL)
	if err != nil {
		return nil, err
	}
	p := strings.TrimPrefix(u.EscapedPath(), "/")
	if p == "" {
		return []string{}, nil
	}
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		if segs[i], err = url.PathUnescape(seg); err != nil {
			return nil, err
		}
	}
	return segs, nil
}

// Parse decodes the Route for the given URL or path.
func Parse(rawURL string) (Route, error) {
	path, err := Segments(rawURL)
	if err != nil {
		return Route{}, err
	}
	return Decode(path)
}
