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

package builder

import (
	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/registry"
	"dirpx.dev/mbean/resolver"
	"dirpx.dev/mbean/strategy"
)

// New creates and returns the default apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new type registry. Entries of preg, if any, are
// copied into it.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Type, e.Name)
		}
	}
	return nreg
}

// BuildResolver builds the class-name chain: ClassNamer, then reg, then reflection.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(),
	)
}

// BuildTargetResolver builds the operation target chain:
// targetObject, class filter, built-in engine method, managed resource.
func (b *builder) BuildTargetResolver(_ apis.Config, res apis.Resolver, _ any) apis.TargetResolver {
	return resolver.NewTarget(
		strategy.NewTargetObjectStrategy(),
		strategy.NewClassFilterStrategy(res),
		strategy.NewBuiltinStrategy(),
		strategy.NewResourceStrategy(),
	)
}
