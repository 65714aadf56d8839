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

// Package entity holds the values that pages fetch from the Conduit
// backend and hand to each other: articles, authors, comments, tags
// and the small identifier types around them.
package entity

import (
	"fmt"
	"time"

	md "github.com/russross/blackfriday/v2"
)

// DefaultAvatar is shown for profiles without an image.
const DefaultAvatar = "https://static.productionready.io/images/smiley-cyrus.jpg"

// ArticlesPerPage is the page size used for every article feed.
const ArticlesPerPage = 10

type Slug string

func (s Slug) String() string { return string(s) }

type Username string

func (u Username) String() string { return string(u) }

type Tag string

func (t Tag) String() string { return string(t) }

type CommentID string

// Avatar is an image URL that may be empty.
type Avatar string

// Src returns the URL to display, falling back to DefaultAvatar.
func (a Avatar) Src() string {
	if a == "" {
		return DefaultAvatar
	}
	return string(a)
}

// PageNumber is a 1-based page index.  The zero value is treated as
// the first page.
type PageNumber int

// Offset is the number of items preceding this page.
func (n PageNumber) Offset() int {
	if n < 1 {
		return 0
	}
	return (int(n) - 1) * ArticlesPerPage
}

// PaginatedList is one page of items along with the total count
// across all pages.
type PaginatedList[T any] struct {
	Items   []T `json:"items"`
	PerPage int `json:"perPage"`
	Total   int `json:"total"`
}

// TotalPages computes the number of pages needed for Total items.
func (l PaginatedList[T]) TotalPages() int {
	if l.PerPage <= 0 {
		return 0
	}
	return (l.Total + l.PerPage - 1) / l.PerPage
}

// Markdown is article or comment source text.
type Markdown string

// HTML renders the markdown.
func (m Markdown) HTML() string {
	return string(md.Run([]byte(m)))
}

// Profile is the public part of a user.
type Profile struct {
	Username Username `json:"username"`
	Bio      string   `json:"bio,omitempty"`
	Avatar   Avatar   `json:"image,omitempty"`
}

// Relation says how an author relates to the viewer.
type Relation int

const (
	NotFollowing Relation = iota
	Following
	IsViewer
)

func (r Relation) String() string {
	switch r {
	case Following:
		return "following"
	case IsViewer:
		return "viewer"
	default:
		return "notFollowing"
	}
}

func (r Relation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Relation) UnmarshalText(bs []byte) error {
	switch string(bs) {
	case "following":
		*r = Following
	case "viewer":
		*r = IsViewer
	case "notFollowing":
		*r = NotFollowing
	default:
		return fmt.Errorf("unknown relation %q", bs)
	}
	return nil
}

// Author is a Profile seen from the current viewer.
type Author struct {
	Relation Relation `json:"relation"`
	Profile  Profile  `json:"profile"`
}

func (a Author) Username() Username {
	return a.Profile.Username
}

// Article is a full article including its body.
type Article struct {
	Slug           Slug      `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           Markdown  `json:"body"`
	TagList        []Tag     `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	Author         Author    `json:"author"`
}

type Comment struct {
	ID        CommentID `json:"id"`
	Body      Markdown  `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    Author    `json:"author"`
}

// Timestamp formats t the way article and comment headers show it.
func Timestamp(t time.Time) string {
	return t.Format("January 2, 2006")
}
