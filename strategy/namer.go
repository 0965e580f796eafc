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

// NewNamerStrategy returns a Strategy that asks a value for its own class
// name through apis.ClassNamer. Types alone are never named: a ClassNamer
// needs an instance to answer.
func NewNamerStrategy() apis.Strategy { return selfNamed{} }

type selfNamed struct{}

var _ apis.Strategy = selfNamed{}

func (selfNamed) TryResolve(v any, _ apis.Config) (string, bool) {
	n, ok := v.(apis.ClassNamer)
	if !ok {
		return "", false
	}
	name := n.ClassName()
	return name, name != ""
}

func (selfNamed) TryResolveType(reflect.Type, apis.Config) (string, bool) { return "", false }
