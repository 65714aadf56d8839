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

// Package sio couples the application loop to the outside world.
//
// A coupling reads Inputs (from stdin, a script, websocket clients or
// an MQTT topic) and writes the Snapshot the application publishes
// after each one.  Inputs are JSON objects:
//
//	{"url":"/login"}
//	{"page":"login","event":"field","field":"email","value":"homer@example.com"}
//	{"page":"login","event":"submit"}
//	{"page":"home","event":"tag","value":"dragons"}
//	{"page":"article","event":"deleteComment","id":"42"}
package sio

import (
	"fmt"
	"time"

	"github.com/Comcast/conduit/app"
	"github.com/Comcast/conduit/entity"
	editorform "github.com/Comcast/conduit/form/editor"
	loginform "github.com/Comcast/conduit/form/login"
	registerform "github.com/Comcast/conduit/form/register"
	settingsform "github.com/Comcast/conduit/form/settings"
	"github.com/Comcast/conduit/page/article"
	"github.com/Comcast/conduit/page/editor"
	"github.com/Comcast/conduit/page/feed"
	"github.com/Comcast/conduit/page/home"
	"github.com/Comcast/conduit/page/login"
	"github.com/Comcast/conduit/page/profile"
	"github.com/Comcast/conduit/page/register"
	"github.com/Comcast/conduit/page/settings"
)

// Input is one user action.
type Input struct {
	// URL, when given, navigates and the other fields are
	// ignored.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	Page  string `json:"page,omitempty" yaml:"page,omitempty"`
	Event string `json:"event,omitempty" yaml:"event,omitempty"`

	// Field is a form field's key.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`

	// Value is a field value, a tag, a tab or comment text.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`

	// N is a feed page number.
	N int `json:"n,omitempty" yaml:"n,omitempty"`

	// Wait pauses a script before this input.  Other couplings
	// ignore it.  Scripts write it as a duration ("1s"); in JSON it's
	// a number of nanoseconds.
	Wait time.Duration `json:"wait,omitempty" yaml:"wait,omitempty"`
}

// InputError reports an Input that doesn't make a message.
type InputError struct {
	Input  Input
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("bad input (page %q, event %q): %s", e.Input.Page, e.Input.Event, e.Reason)
}

func bad(in Input, format string, args ...interface{}) error {
	return &InputError{
		Input:  in,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Decode makes the application message for an Input.
func Decode(in Input) (app.Msg, error) {
	if in.URL != "" {
		return app.URLChanged{URL: in.URL}, nil
	}
	switch in.Page {
	case "home":
		m, err := decodeHome(in)
		if err != nil {
			return nil, err
		}
		return app.HomeMsg{Msg: m}, nil
	case "profile":
		m, err := decodeProfile(in)
		if err != nil {
			return nil, err
		}
		return app.ProfileMsg{Msg: m}, nil
	case "article":
		m, err := decodeArticle(in)
		if err != nil {
			return nil, err
		}
		return app.ArticleMsg{Msg: m}, nil
	case "login":
		switch in.Event {
		case "field":
			f, ok := loginform.Parse(in.Field, in.Value)
			if !ok {
				return nil, bad(in, "unknown field %q", in.Field)
			}
			return app.LoginMsg{Msg: login.FieldChanged{Field: f}}, nil
		case "submit":
			return app.LoginMsg{Msg: login.Submitted{}}, nil
		}
	case "register":
		switch in.Event {
		case "field":
			f, ok := registerform.Parse(in.Field, in.Value)
			if !ok {
				return nil, bad(in, "unknown field %q", in.Field)
			}
			return app.RegisterMsg{Msg: register.FieldChanged{Field: f}}, nil
		case "submit":
			return app.RegisterMsg{Msg: register.Submitted{}}, nil
		}
	case "settings":
		switch in.Event {
		case "field":
			f, ok := settingsform.Parse(in.Field, in.Value)
			if !ok {
				return nil, bad(in, "unknown field %q", in.Field)
			}
			return app.SettingsMsg{Msg: settings.FieldChanged{Field: f}}, nil
		case "submit":
			return app.SettingsMsg{Msg: settings.Submitted{}}, nil
		}
	case "editor":
		switch in.Event {
		case "field":
			f, ok := editorform.Parse(in.Field, in.Value)
			if !ok {
				return nil, bad(in, "unknown field %q", in.Field)
			}
			return app.EditorMsg{Msg: editor.FieldChanged{Field: f}}, nil
		case "submit":
			return app.EditorMsg{Msg: editor.Submitted{}}, nil
		}
	default:
		return nil, bad(in, "unknown page")
	}
	return nil, bad(in, "unknown event")
}

// decodeFeed handles the events of the article list on the home and
// profile pages.
func decodeFeed(in Input) (feed.Msg, bool) {
	switch in.Event {
	case "favorite":
		return feed.FavoriteClicked{Slug: entity.Slug(in.Slug)}, true
	case "unfavorite":
		return feed.UnfavoriteClicked{Slug: entity.Slug(in.Slug)}, true
	case "dismissFeed":
		return feed.DismissErrorsClicked{}, true
	}
	return nil, false
}

func decodeHome(in Input) (home.Msg, error) {
	if m, ok := decodeFeed(in); ok {
		return home.FeedMsg{Msg: m}, nil
	}
	switch in.Event {
	case "dismiss":
		return home.FeedMsg{Msg: feed.DismissErrorsClicked{}}, nil
	case "tag":
		return home.TagClicked{Tag: entity.Tag(in.Value)}, nil
	case "tab":
		switch in.Value {
		case "your":
			return home.TabClicked{Feed: home.SelectedFeed{Kind: home.Your}}, nil
		case "global":
			return home.TabClicked{Feed: home.SelectedFeed{Kind: home.Global}}, nil
		}
		return nil, bad(in, "unknown tab %q", in.Value)
	case "feedPage":
		return home.FeedPageClicked{Page: entity.PageNumber(in.N)}, nil
	}
	return nil, bad(in, "unknown event")
}

func decodeProfile(in Input) (profile.Msg, error) {
	if m, ok := decodeFeed(in); ok {
		return profile.FeedMsg{Msg: m}, nil
	}
	switch in.Event {
	case "dismiss":
		return profile.DismissErrorsClicked{}, nil
	case "follow":
		return profile.FollowClicked{}, nil
	case "unfollow":
		return profile.UnfollowClicked{}, nil
	case "tab":
		switch in.Value {
		case profile.MyArticles.String():
			return profile.TabClicked{Tab: profile.MyArticles}, nil
		case profile.FavoritedArticles.String():
			return profile.TabClicked{Tab: profile.FavoritedArticles}, nil
		}
		return nil, bad(in, "unknown tab %q", in.Value)
	case "feedPage":
		return profile.FeedPageClicked{Page: entity.PageNumber(in.N)}, nil
	}
	return nil, bad(in, "unknown event")
}

func decodeArticle(in Input) (article.Msg, error) {
	switch in.Event {
	case "dismiss":
		return article.DismissErrorsClicked{}, nil
	case "favorite":
		return article.FavoriteClicked{}, nil
	case "unfavorite":
		return article.UnfavoriteClicked{}, nil
	case "follow":
		return article.FollowClicked{}, nil
	case "unfollow":
		return article.UnfollowClicked{}, nil
	case "comment":
		return article.CommentChanged{Text: in.Value}, nil
	case "postComment":
		return article.PostCommentClicked{}, nil
	case "deleteComment":
		if in.ID == "" {
			return nil, bad(in, "no id")
		}
		return article.DeleteCommentClicked{ID: entity.CommentID(in.ID)}, nil
	case "deleteArticle":
		return article.DeleteArticleClicked{}, nil
	}
	return nil, bad(in, "unknown event")
}
