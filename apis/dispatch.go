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

// Handle is a callable bound to a target, identified by name and parameter types.
type Handle struct {
	Name   string
	Params []reflect.Type
	// Call runs the handle. Argument mismatches, panics and errors returned
	// by the target are reported as *Error with the matching kind.
	Call func(args []any) (any, error)
}

// Dispatcher maps (name, parameter types) to handles.
// A managed resource may implement Dispatcher to replace introspection.
type Dispatcher interface {
	// Lookup returns the handle matching name and params.
	Lookup(name string, params []reflect.Type) (Handle, bool)
	// Names lists every dispatchable name.
	Names() []string
}

// Server is the registrar an engine is registered with.
type Server interface {
	// TypeRepository is the last-resort table for resolving type names.
	TypeRepository() Registry
}
