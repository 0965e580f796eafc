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

package apis

import "reflect"

// Registry is a bidirectional table between Go types and declared type names.
// It backs signature resolution: a name found in an operation signature or an
// attribute type is looked up with Find, a value's type is named with Lookup.
type Registry interface {
	// Register associates t with a fixed name.
	// Re-registering the same pair is a no-op; any other overlap is a conflict.
	Register(t reflect.Type, name string) error
	// Lookup returns the name registered for t.
	Lookup(t reflect.Type) (name string, ok bool)
	// Find returns the type registered under name.
	Find(name string) (t reflect.Type, ok bool)
	// Entries returns a snapshot for diagnostics (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single registered (type, name) pair.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Name is the associated name.
	Name string
}
