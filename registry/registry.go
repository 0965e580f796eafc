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

package registry

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/mbean/apis"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("mbean(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("mbean(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different name, or a name with a different type.
	ErrConflictingRegistration = errors.New("mbean(registry): conflicting type registration")
)

// New constructs an empty type Registry. Types are stored exactly as given:
// T and *T are distinct entries because they are distinct parameter types.
func New(_ apis.Config) apis.Registry {
	return &registry{}
}

// registry is a Registry backed by two sync.Maps (forward and reverse).
type registry struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// byType maps reflect.Type to registered name.
	byType sync.Map // map[reflect.Type]string
	// byName maps a registered name to its reflect.Type.
	byName sync.Map // map[string]reflect.Type
	// count tracks the number of registered entries.
	count int
}

// Register associates t with name. It is idempotent for the same (type,name) pair.
func (r *registry) Register(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	// Fast read path: idempotency / conflict check without locking.
	if done, err := r.check(t, name); done || err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if done, err := r.check(t, name); done || err != nil {
		return err
	}

	r.byType.Store(t, name)
	r.byName.Store(name, t)
	r.count++
	return nil
}

// check reports done=true when (t,name) is already registered.
func (r *registry) check(t reflect.Type, name string) (bool, error) {
	if old, ok := r.byType.Load(t); ok {
		if old.(string) == name {
			return true, nil
		}
		return false, ErrConflictingRegistration
	}
	if _, ok := r.byName.Load(name); ok {
		return false, ErrConflictingRegistration
	}
	return false, nil
}

// Lookup returns the name registered for t.
func (r *registry) Lookup(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	if v, ok := r.byType.Load(t); ok {
		return v.(string), true
	}
	return "", false
}

// Find returns the type registered under name.
func (r *registry) Find(name string) (reflect.Type, bool) {
	if v, ok := r.byName.Load(strings.TrimSpace(name)); ok {
		return v.(reflect.Type), true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.byType.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type: key.(reflect.Type),
			Name: value.(string),
		})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType.Clear()
	r.byName.Clear()
	r.count = 0
}
