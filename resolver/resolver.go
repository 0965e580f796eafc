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


// Package resolver composes strategies into ordered chains: one that names
// the class of a value or type, and one that picks the object an operation
// is invoked on.
package resolver

import (
	"reflect"

	"dirpx.dev/mbean/apis"
)

// compact drops nil strategies and copies the rest, so a chain never
// aliases the caller's slice.
func compact[S comparable](in []S) []S {
	var zero S
	out := make([]S, 0, len(in))
	for _, s := range in {
		if s != zero {
			out = append(out, s)
		}
	}
	return out
}

// New returns a class-name resolver trying strategies in order. Nil
// strategies are ignored.
func New(strategies ...apis.Strategy) apis.Resolver {
	return nameChain(compact(strategies))
}

type nameChain []apis.Strategy

var _ apis.Resolver = nameChain(nil)

// Resolve returns the first name a strategy produces for v, or "".
func (c nameChain) Resolve(v any, cfg apis.Config) string {
	return c.first(func(s apis.Strategy) (string, bool) { return s.TryResolve(v, cfg) })
}

// ResolveType returns the first name a strategy produces for t, or "".
func (c nameChain) ResolveType(t reflect.Type, cfg apis.Config) string {
	if t == nil {
		return ""
	}
	return c.first(func(s apis.Strategy) (string, bool) { return s.TryResolveType(t, cfg) })
}

func (c nameChain) first(try func(apis.Strategy) (string, bool)) string {
	for _, s := range c {
		if name, ok := try(s); ok && name != "" {
			return name
		}
	}
	return ""
}
