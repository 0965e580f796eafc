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

// Strategy is one link of a class-name Resolver chain.
type Strategy interface {
	// TryResolve attempts to name the class of v according to cfg.
	// It returns (name, true) if handled; otherwise ("", false) to fall through.
	TryResolve(v any, cfg Config) (name string, handled bool)

	// TryResolveType attempts to name the reflect.Type t.
	TryResolveType(t reflect.Type, cfg Config) (name string, handled bool)
}

// TargetStrategy is one link of a TargetResolver chain.
type TargetStrategy interface {
	// TryTarget returns handled=false to fall through to the next strategy.
	// A handled request yields either a target or an error; the chain stops.
	TryTarget(req TargetRequest, cfg Config) (t Target, handled bool, err error)
}

// TargetKind says where an operation target came from.
type TargetKind string

const (
	// TargetObjectKind is an object named by the "targetObject" descriptor field.
	TargetObjectKind TargetKind = "targetObject"
	// EngineKind is the engine itself (built-in operation).
	EngineKind TargetKind = "engine"
	// ResourceKind is the managed resource.
	ResourceKind TargetKind = "resource"
)

// TargetRequest describes one operation invocation for target selection.
type TargetRequest struct {
	// Method is the bare operation name.
	Method string
	// Class is the explicit class filter ("Class.method" prefix or the
	// descriptor "class" field). Empty means no filter.
	Class string
	// TargetObject is the descriptor "targetObject" value, nil when absent.
	TargetObject any
	// Engine is the dispatching engine and EngineClass its class name.
	Engine      any
	EngineClass string
	// Builtin reports whether Method names one of the engine's own methods.
	Builtin func(method string) bool
	// Resource is the managed resource, nil when none is set.
	Resource any
}

// Target is the resolved invocation target.
type Target struct {
	Object any
	Kind   TargetKind
}
