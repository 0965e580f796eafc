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

package dispatch

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"dirpx.dev/mbean/apis"
)

var (
	// ErrEmptyName is returned when registering a handle without a name.
	ErrEmptyName = errors.New("mbean(dispatch): empty method name")
	// ErrNilFunc is returned when registering a nil function.
	ErrNilFunc = errors.New("mbean(dispatch): nil function")
	// ErrDuplicate is returned when a name and parameter list is registered twice.
	ErrDuplicate = errors.New("mbean(dispatch): duplicate method")
)

// Table is an explicitly populated apis.Dispatcher. Resources that do not
// want reflection over their method set embed or return one.
type Table struct {
	mu      sync.RWMutex
	handles map[string][]apis.Handle
}

var _ apis.Dispatcher = (*Table)(nil)

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{handles: make(map[string][]apis.Handle)}
}

// Register adds fn as method name taking params. Arguments are converted
// and checked before fn runs; panics and errors from fn are classified the
// same way as for introspected methods.
func (t *Table) Register(name string, params []reflect.Type, fn func(args []any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilFunc
	}
	params = append([]reflect.Type(nil), params...)

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, h := range t.handles[name] {
		if paramsMatch(h.Params, params, func(a, b reflect.Type) bool { return a == b }) {
			return ErrDuplicate
		}
	}
	t.handles[name] = append(t.handles[name], apis.Handle{
		Name:   name,
		Params: params,
		Call: func(args []any) (any, error) {
			return call(name, params, args, func(in []reflect.Value) (any, error) {
				conv := make([]any, len(in))
				for i, v := range in {
					conv[i] = v.Interface()
				}
				return fn(conv)
			})
		},
	})
	return nil
}

// Lookup finds name with params using the same matching as For.
func (t *Table) Lookup(name string, params []reflect.Type) (apis.Handle, bool) {
	t.mu.RLock()
	cands := t.handles[name]
	t.mu.RUnlock()
	return pick(cands, func(h apis.Handle) []reflect.Type { return h.Params }, params)
}

// Names returns the registered method names, sorted.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.handles))
	for n := range t.handles {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
