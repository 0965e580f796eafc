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

import (
	"reflect"
)

// Resolver names the class of a value or type.
// Typical chain: ClassNamer -> Registry -> Reflect.
type Resolver interface {
	// Resolve returns a class name for v, or "" if none can be determined.
	Resolve(v any, cfg Config) string

	// ResolveType returns a class name for t, or "" if none can be determined.
	ResolveType(t reflect.Type, cfg Config) string
}

// TargetResolver picks the object an operation is invoked on.
// Typical chain: TargetObject -> ClassFilter -> Builtin -> Resource.
type TargetResolver interface {
	// ResolveTarget returns the target for req or an error describing why
	// no target exists.
	ResolveTarget(req TargetRequest, cfg Config) (Target, error)
}

// ClassNamer lets a value report its own class name, bypassing reflection.
type ClassNamer interface {
	ClassName() string
}
