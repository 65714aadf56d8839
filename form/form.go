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

// Package form provides the pipeline that user input goes through
// before it's sent anywhere:
//
//	Form -> TrimmedForm -> ValidForm
//
// A Form is an ordered set of fields keyed by Field.Key.  The order
// is the order in which fields were first added, and that order is
// preserved through trimming and validation, so Problems come back
// in field declaration order.
//
// Only a ValidForm can be turned into the entries that a request
// encodes.  Holding one means every field validated.
//
// The field sets for specific forms live in subpackages.
package form

import (
	"strings"

	"github.com/rivo/uniseg"
)

// MinPasswordLength is the minimum password length in grapheme
// clusters.
const MinPasswordLength = 8

// Field is the capability a form field provides.
//
// F is the concrete field type, so WithValue can return a copy of the
// field without losing its type.
type Field[F any] interface {
	Key() string
	Value() string
	WithValue(string) F
	Validate() *Problem
}

// Form is an ordered collection of fields.
//
// The zero value is an empty form ready to use.
type Form[F Field[F]] struct {
	keys   []string
	fields map[string]F
}

// New makes a Form with the given fields in the given order.
func New[F Field[F]](fields ...F) Form[F] {
	var f Form[F]
	for _, x := range fields {
		f = f.Upsert(x)
	}
	return f
}

// Upsert returns a form with the given field added or replaced.
//
// A replaced field keeps the position at which its key was first
// added.  The receiver isn't modified.
func (f Form[F]) Upsert(field F) Form[F] {
	key := field.Key()
	acc := Form[F]{
		keys:   f.keys,
		fields: make(map[string]F, len(f.fields)+1),
	}
	for k, v := range f.fields {
		acc.fields[k] = v
	}
	if _, have := f.fields[key]; !have {
		acc.keys = append(append(make([]string, 0, len(f.keys)+1), f.keys...), key)
	}
	acc.fields[key] = field
	return acc
}

// Fields returns the fields in order.
func (f Form[F]) Fields() []F {
	return fields(f.keys, f.fields)
}

// Get returns the field with the given key.
func (f Form[F]) Get(key string) (F, bool) {
	x, have := f.fields[key]
	return x, have
}

// Len returns the number of fields.
func (f Form[F]) Len() int {
	return len(f.keys)
}

// Trim removes leading and trailing whitespace from every field
// value.
func (f Form[F]) Trim() TrimmedForm[F] {
	acc := make(map[string]F, len(f.fields))
	for k, x := range f.fields {
		acc[k] = x.WithValue(strings.TrimSpace(x.Value()))
	}
	return TrimmedForm[F]{
		keys:   f.keys,
		fields: acc,
	}
}

// TrimmedForm is a Form whose values have been trimmed.
type TrimmedForm[F Field[F]] struct {
	keys   []string
	fields map[string]F
}

// Fields returns the fields in order.
func (f TrimmedForm[F]) Fields() []F {
	return fields(f.keys, f.fields)
}

// Validate runs every field's validation.
//
// If no field reports a problem, the result is a ValidForm and the
// problems are nil.  Otherwise the problems are returned in field
// order and the ValidForm is the zero value, which has no entries.
func (f TrimmedForm[F]) Validate() (ValidForm[F], []Problem) {
	var problems []Problem
	for _, x := range f.Fields() {
		if p := x.Validate(); p != nil {
			problems = append(problems, *p)
		}
	}
	if problems != nil {
		return ValidForm[F]{}, problems
	}
	return ValidForm[F]{
		keys:   f.keys,
		fields: f.fields,
	}, nil
}

// ValidForm is a TrimmedForm in which every field validated.
type ValidForm[F Field[F]] struct {
	keys   []string
	fields map[string]F
}

// Entry is a key and a value from a ValidForm.
type Entry struct {
	Key   string
	Value string
}

// Entries returns the key/value pairs in field order.
func (f ValidForm[F]) Entries() []Entry {
	acc := make([]Entry, 0, len(f.keys))
	for _, k := range f.keys {
		acc = append(acc, Entry{
			Key:   k,
			Value: f.fields[k].Value(),
		})
	}
	return acc
}

// Get returns the value for the given key, which is empty if the
// key isn't present.
func (f ValidForm[F]) Get(key string) string {
	x, have := f.fields[key]
	if !have {
		return ""
	}
	return x.Value()
}

func fields[F any](keys []string, m map[string]F) []F {
	acc := make([]F, 0, len(keys))
	for _, k := range keys {
		acc = append(acc, m[k])
	}
	return acc
}

// GraphemeCount returns the number of user-perceived characters in
// s.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
