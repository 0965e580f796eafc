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
	"path"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/mbean/apis"
	uref "dirpx.dev/mbean/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that derives class names via
// reflection using utils/reflect.Normalize and memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback that computes "pkg.Type".
// It unwraps containers via Normalize and strips generic instantiation
// parameters. Built-in types keep their bare name ("int").
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects the config knobs that affect naming.
type cacheKey struct {
	t         reflect.Type
	maxUnwrap int16
}

// classNameCache caches class names by (type, maxUnwrap).
var classNameCache sync.Map // key: cacheKey, val: string

// TryResolve computes the class name for v's type.
func (reflectStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	name := byType(reflect.TypeOf(v), cfg)
	return name, name != ""
}

// TryResolveType computes the class name for t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	name := byType(t, cfg)
	return name, name != ""
}

// byType resolves the class name for t with memoization.
func byType(t reflect.Type, cfg apis.Config) string {
	key := cacheKey{t: t, maxUnwrap: int16(cfg.MaxUnwrap)}
	if v, ok := classNameCache.Load(key); ok {
		return v.(string)
	}

	base, err := uref.Normalize(t, cfg)
	if err != nil || base == nil {
		classNameCache.Store(key, "")
		return ""
	}

	name := stripTypeParams(base.Name())
	if p := base.PkgPath(); p != "" {
		name = path.Base(p) + "." + name
	}

	classNameCache.Store(key, name)
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// SimpleName returns the last dot-separated segment of a class name.
func SimpleName(class string) string {
	if i := strings.LastIndexByte(class, '.'); i >= 0 {
		return class[i+1:]
	}
	return class
}

// ClassMatches reports whether filter designates class. Either the full
// names are equal or their simple names are, so "RequiredModelMBean",
// "modelmbean.RequiredModelMBean" and a foreign qualified spelling all match.
func ClassMatches(filter, class string) bool {
	if filter == "" || class == "" {
		return false
	}
	return filter == class || SimpleName(filter) == SimpleName(class)
}
