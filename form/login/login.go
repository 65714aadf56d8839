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

// Package login is the field set of the sign-in form.
//
// The password only has to be present.  Its length is the server's
// business here since older accounts may have shorter ones.
package login

import (
	"fmt"

	"github.com/Comcast/conduit/form"
)

type Kind int

const (
	Email Kind = iota
	Password
)

var keys = []string{"email", "password"}

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
		Field{Kind: Email},
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
	return form.Required(f.Key(), f.Val)
}
