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

// Package editor is the field set of the article editor.
package editor

import (
	"fmt"
	"strings"

	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/form"
)

type Kind int

const (
	Title Kind = iota
	Description
	Body
	Tags
)

var keys = []string{"title", "description", "body", "tags"}

// Key is the field's key.  A Kind outside the form gets a key
// that no field of the form has.
func (k Kind) Key() string {
	if k < 0 || int(k) >= len(keys) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return keys[k]
}

type Field struct {
	Kind Kind
	Val  string
}

type Form = form.Form[Field]

func Default() Form {
	return form.New(
		Field{Kind: Title},
		Field{Kind: Description},
		Field{Kind: Body},
		Field{Kind: Tags},
	)
}

// FromArticle makes a form to edit an existing article.  Tags are
// joined with spaces.
func FromArticle(a entity.Article) Form {
	tags := make([]string, 0, len(a.TagList))
	for _, t := range a.TagList {
		tags = append(tags, string(t))
	}
	return form.New(
		Field{Kind: Title, Val: a.Title},
		Field{Kind: Description, Val: a.Description},
		Field{Kind: Body, Val: string(a.Body)},
		Field{Kind: Tags, Val: strings.Join(tags, " ")},
	)
}

func Parse(key, value string) (Field, bool) {
	for i, k := range keys {
		if k == key {
			return Field{Kind: Kind(i), Val: value}, true
		}
	}
	return Field{}, false
}

func (f Field) Key() string   { return f.Kind.Key() }
func (f Field) Value() string { return f.Val }

func (f Field) WithValue(s string) Field {
	f.Val = s
	return f
}

func (f Field) Validate() *form.Problem {
	switch f.Kind {
	case Title, Body:
		return form.Required(f.Key(), f.Val)
	}
	return nil
}
