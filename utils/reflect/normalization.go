/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/config"
)

var (
	// ErrReflectNilType is returned by Normalize for a nil type.
	ErrReflectNilType = errors.New("mbean(reflect): nil reflect.Type provided")
	// ErrReflectTypeNotNamed is returned when no named type is reachable
	// within the unwrap budget, e.g. for func() or struct{ X int }.
	ErrReflectTypeNotNamed = errors.New("mbean(reflect): type has no name")
)

// Normalize strips containers from t until it reaches a named type, giving
// at most cfg.MaxUnwrap steps (config.DefaultMaxUnwrap when unset). This is
// how *Counter, []Counter and chan Counter all come to be named "Counter".
//
// Pointers, slices, arrays and channels step to their element. A map is
// named by its value type when that is named, else by its key type, else
// unwrapping continues through the value.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	budget := cfg.MaxUnwrap
	if budget <= 0 {
		budget = config.DefaultMaxUnwrap
	}
	for ; budget > 0; budget-- {
		var done bool
		if t, done = unwrapOnce(t); done {
			break
		}
	}
	if t == nil || t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}

// unwrapOnce returns the type one level inside t. done is set when t cannot
// be unwrapped further; next is then the final candidate.
func unwrapOnce(t reflect.Type) (next reflect.Type, done bool) {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
		return t.Elem(), false
	case reflect.Map:
		if v := t.Elem(); v.Name() != "" {
			return v, true
		}
		if k := t.Key(); k.Name() != "" {
			return k, true
		}
		return t.Elem(), false
	default:
		return t, true
	}
}
