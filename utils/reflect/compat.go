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
	"reflect"
)

// Equivalent reports whether a and b are the same type up to one level of
// pointer indirection (T and *T). This is the Go analogue of primitive and
// wrapper equivalence.
func Equivalent(a, b reflect.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a.Kind() == reflect.Ptr && a.Elem() == b {
		return true
	}
	return b.Kind() == reflect.Ptr && b.Elem() == a
}

// Compatible reports whether v may stand where a t is declared. nil is
// compatible with every type; otherwise v must be assignable to t, or
// Equivalent to it.
func Compatible(v any, t reflect.Type) bool {
	if t == nil || v == nil {
		return true
	}
	vt := reflect.TypeOf(v)
	if vt.AssignableTo(t) {
		return true
	}
	if Equivalent(vt, t) {
		return true
	}
	// *T where an interface implemented by T is declared.
	return vt.Kind() == reflect.Ptr && vt.Elem().AssignableTo(t)
}

// Value converts v into a reflect.Value of type t using the same rules as
// Compatible. ok is false when v cannot stand for t.
func Value(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		default:
			return reflect.Value{}, false
		}
	}
	rv := reflect.ValueOf(v)
	vt := rv.Type()
	switch {
	case vt.AssignableTo(t):
		return rv, true
	case vt.Kind() == reflect.Ptr && vt.Elem() == t:
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		return rv.Elem(), true
	case t.Kind() == reflect.Ptr && t.Elem() == vt:
		p := reflect.New(vt)
		p.Elem().Set(rv)
		return p, true
	case vt.Kind() == reflect.Ptr && !rv.IsNil() && vt.Elem().AssignableTo(t):
		return rv.Elem(), true
	}
	return reflect.Value{}, false
}
