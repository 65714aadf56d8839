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

// Package testutil helps tests look at snapshots the way a coupling
// sees them: as generic JSON.
package testutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Generic renders x as JSON and parses it back into maps, slices
// and scalars.  Panics if x can't be rendered.
func Generic(x interface{}) interface{} {
	bs, err := json.Marshal(x)
	if err != nil {
		panic(fmt.Errorf("testutil.Generic: %w for %#v", err, x))
	}
	return Dwimjs(bs)
}

// Dwimjs, when given a string or bytes, parses that data as JSON.
// When given anything else, just returns what's given.
//
// See https://en.wikipedia.org/wiki/DWIM.
func Dwimjs(x interface{}) interface{} {
	switch vv := x.(type) {
	case []byte:
		return Dwimjs(string(vv))
	case string:
		var v interface{}
		if err := json.Unmarshal([]byte(vv), &v); err != nil {
			panic(err)
		}
		return v
	default:
		return x
	}
}

// At follows a dotted path like "body.feed.articles.0.slug" into
// generic JSON.  Numeric steps index arrays.
func At(x interface{}, path string) (interface{}, error) {
	if path == "" {
		return x, nil
	}
	for _, step := range strings.Split(path, ".") {
		switch vv := x.(type) {
		case map[string]interface{}:
			y, have := vv[step]
			if !have {
				return nil, fmt.Errorf("no %q in %s", step, path)
			}
			x = y
		case []interface{}:
			i, err := strconv.Atoi(step)
			if err != nil {
				return nil, fmt.Errorf("bad index %q in %s", step, path)
			}
			if i < 0 || len(vv) <= i {
				return nil, fmt.Errorf("index %d out of range in %s", i, path)
			}
			x = vv[i]
		default:
			return nil, fmt.Errorf("can't step %q into %T in %s", step, x, path)
		}
	}
	return x, nil
}
