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

// Package settings is the field set of the account settings form.
//
// The password field is optional.  Empty means "keep the current
// password"; anything else has to be long enough.
package settings

import (
	"fmt"

	"github.com/Comcast/conduit/form"
)

type Kind int

const (
	Image Kind = iota
	Username
	Bio
	Email
	Password
)

var keys = []string{"image", "username", "bio", "email", "password"}

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

// Default returns the empty form.  The settings page normally builds
// its form with FromValues once the current user has been loaded.
func Default() Form {
	return FromValues("", "", "", "")
}

// FromValues makes a form from the current user.  The password is
// always empty.
func FromValues(image, username, bio, email string) Form {
	return form.New(
		Field{Kind: Image, Val: image},
		Field{Kind: Username, Val: username},
		Field{Kind: Bio, Val: bio},
		Field{Kind: Email, Val: email},
		Field{Kind: Password},
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
	case Username, Email:
		return form.Required(f.Key(), f.Val)
	case Password:
		if f.Val != "" && form.GraphemeCount(f.Val) < form.MinPasswordLength {
			return form.TooShort(f.Key())
		}
	}
	return nil
}
