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

// Package register is the field set of the sign-up form.
package register

import (
	"fmt"

	"github.com/Comcast/conduit/form"
)

type Kind int

const (
	Username Kind = iota
	Email
	Password
)

var keys = []string{"username", "email", "password"}

// Key is the field's key.  A Kind outside the form gets a key
// that no field of the form has.
func (k Kind) Key() string {
	if k < 0 || int(k) >= len(keys) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return keys[k]
}

// Field is one input of the sign-up form.
type Field struct {
	Kind Kind
	Val  string
}

type Form = form.Form[Field]

// Default returns the empty form with every field in order.
func Default() Form {
	return form.New(
		Field{Kind: Username},
		Field{Kind: Email},
		Field{Kind: Password},
	)
}

// Parse finds the field for the given key.
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
	case Password:
		return form.Password(f.Key(), f.Val)
	default:
		return form.Required(f.Key(), f.Val)
	}
}
