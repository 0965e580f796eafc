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


package strategy

import (
	"reflect"

	"dirpx.dev/mbean/apis"
)

// NewRegistryStrategy returns a Strategy backed by the declared names in
// reg. Matching is exact: registering T does not name *T. A nil reg yields
// a strategy that never matches.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy { return declared{reg} }

type declared struct{ reg apis.Registry }

var _ apis.Strategy = declared{}

func (d declared) TryResolve(v any, cfg apis.Config) (string, bool) {
	return d.TryResolveType(reflect.TypeOf(v), cfg)
}

// TryResolveType reports the name t was registered under.
func (d declared) TryResolveType(t reflect.Type, _ apis.Config) (string, bool) {
	if t == nil || d.reg == nil {
		return "", false
	}
	return d.reg.Lookup(t)
}
