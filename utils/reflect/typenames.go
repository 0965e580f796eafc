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
	"strings"
	"time"
)

var (
	anyType   = reflect.TypeFor[any]()
	errorType = reflect.TypeFor[error]()
)

// primitives maps built-in type names to their types. JMX spellings
// ("long", "java.lang.Integer", ...) are accepted as aliases so descriptors
// written for other agents keep resolving.
var primitives = map[string]reflect.Type{
	"bool":          reflect.TypeFor[bool](),
	"string":        reflect.TypeFor[string](),
	"int":           reflect.TypeFor[int](),
	"int8":          reflect.TypeFor[int8](),
	"int16":         reflect.TypeFor[int16](),
	"int32":         reflect.TypeFor[int32](),
	"int64":         reflect.TypeFor[int64](),
	"uint":          reflect.TypeFor[uint](),
	"uint8":         reflect.TypeFor[uint8](),
	"uint16":        reflect.TypeFor[uint16](),
	"uint32":        reflect.TypeFor[uint32](),
	"uint64":        reflect.TypeFor[uint64](),
	"uintptr":       reflect.TypeFor[uintptr](),
	"float32":       reflect.TypeFor[float32](),
	"float64":       reflect.TypeFor[float64](),
	"complex64":     reflect.TypeFor[complex64](),
	"complex128":    reflect.TypeFor[complex128](),
	"byte":          reflect.TypeFor[byte](),
	"rune":          reflect.TypeFor[rune](),
	"error":         errorType,
	"any":           anyType,
	"interface{}":   anyType,
	"time.Duration": reflect.TypeFor[time.Duration](),
	"time.Time":     reflect.TypeFor[time.Time](),

	"boolean":             reflect.TypeFor[bool](),
	"short":               reflect.TypeFor[int16](),
	"long":                reflect.TypeFor[int64](),
	"float":               reflect.TypeFor[float32](),
	"double":              reflect.TypeFor[float64](),
	"char":                reflect.TypeFor[rune](),
	"java.lang.Boolean":   reflect.TypeFor[bool](),
	"java.lang.Byte":      reflect.TypeFor[int8](),
	"java.lang.Short":     reflect.TypeFor[int16](),
	"java.lang.Integer":   reflect.TypeFor[int32](),
	"java.lang.Long":      reflect.TypeFor[int64](),
	"java.lang.Float":     reflect.TypeFor[float32](),
	"java.lang.Double":    reflect.TypeFor[float64](),
	"java.lang.Character": reflect.TypeFor[rune](),
	"java.lang.String":    reflect.TypeFor[string](),
	"java.lang.Object":    anyType,
}

// Primitive returns the built-in type spelled name.
func Primitive(name string) (reflect.Type, bool) {
	t, ok := primitives[strings.TrimSpace(name)]
	return t, ok
}

// ResolveName resolves a declared type name. Composite spellings "*T", "[]T"
// and "map[K]V" are built from their parts; named types are looked up in the
// primitive table first and then with find (which may be nil).
func ResolveName(name string, find func(string) (reflect.Type, bool)) (reflect.Type, bool) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, false
	case strings.HasPrefix(name, "*"):
		elem, ok := ResolveName(name[1:], find)
		if !ok {
			return nil, false
		}
		return reflect.PointerTo(elem), true
	case strings.HasPrefix(name, "[]"):
		elem, ok := ResolveName(name[2:], find)
		if !ok {
			return nil, false
		}
		return reflect.SliceOf(elem), true
	case strings.HasPrefix(name, "map["):
		end := closingBracket(name, 3)
		if end < 0 {
			return nil, false
		}
		key, ok := ResolveName(name[4:end], find)
		if !ok || !key.Comparable() {
			return nil, false
		}
		elem, ok := ResolveName(name[end+1:], find)
		if !ok {
			return nil, false
		}
		return reflect.MapOf(key, elem), true
	}
	if t, ok := primitives[name]; ok {
		return t, true
	}
	if find != nil {
		return find(name)
	}
	return nil, false
}

// closingBracket returns the index of the ']' matching the '[' at open.
func closingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
