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
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/mbean/apis"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type W[T any] struct{ V T }

func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{MaxUnwrap: 8}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestReflectStrategy_ByValue(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		val      any
		expected string
	}{
		{"plain struct", A{}, "strategy.A"},
		{"ptr", &A{}, "strategy.A"},
		{"slice", []A{}, "strategy.A"},
		{"array", [2]A{}, "strategy.A"},
		{"chan", make(chan A), "strategy.A"},
		{"map elem", map[string]A{}, "strategy.A"},
		{"builtin", 42, "int"},
		{"generic strips params", G[int]{}, "strategy.G"},
		{"wrapped generic", []W[G[int]]{}, "strategy.W"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolve(tc.val, cfg())
			if !ok {
				t.Fatalf("expected ok=true for %T", tc.val)
			}
			if got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}

	if _, ok := s.TryResolve(nil, cfg()); ok {
		t.Fatalf("nil value: expected ok=false")
	}
	if _, ok := s.TryResolve(struct{ X int }{}, cfg()); ok {
		t.Fatalf("anonymous struct: expected ok=false")
	}
}

func TestReflectStrategy_MaxUnwrap(t *testing.T) {
	s := NewReflectStrategy()

	type PP = **A
	tt := reflect.TypeOf((*PP)(nil)).Elem()

	if got, ok := s.TryResolveType(tt, cfg(func(c *apis.Config) { c.MaxUnwrap = 1 })); ok {
		t.Fatalf("MaxUnwrap=1: expected failed resolution, got %q", got)
	}
	if got, ok := s.TryResolveType(tt, cfg()); !ok || got != "strategy.A" {
		t.Fatalf("MaxUnwrap=8: got (%q,%v), want (strategy.A,true)", got, ok)
	}
}

func TestClassMatches(t *testing.T) {
	cases := []struct {
		filter, class string
		want          bool
	}{
		{"modelmbean.RequiredModelMBean", "modelmbean.RequiredModelMBean", true},
		{"RequiredModelMBean", "modelmbean.RequiredModelMBean", true},
		{"javax.management.modelmbean.RequiredModelMBean", "modelmbean.RequiredModelMBean", true},
		{"modelmbean.Other", "modelmbean.RequiredModelMBean", false},
		{"", "x.Y", false},
		{"x.Y", "", false},
	}
	for _, tc := range cases {
		if got := ClassMatches(tc.filter, tc.class); got != tc.want {
			t.Errorf("ClassMatches(%q,%q) = %v, want %v", tc.filter, tc.class, got, tc.want)
		}
	}
	if SimpleName("a.b.C") != "C" || SimpleName("C") != "C" {
		t.Fatalf("SimpleName mismatch")
	}
}

// Stresses the memoization and Normalize path under concurrency.
func TestReflectStrategy_Concurrent(t *testing.T) {
	s := NewReflectStrategy()
	conf := cfg()

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(W[G[int]]{}),
		reflect.TypeOf(0),
	}
	expect := []string{"strategy.A", "strategy.A", "strategy.A", "strategy.A", "strategy.G", "strategy.W", "int"}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				idx := i % len(types)
				got, ok := s.TryResolveType(types[idx], conf)
				if !ok || got != expect[idx] {
					errCh <- got
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent resolve mismatch: got=%q", e)
	}
}

func BenchmarkReflectStrategy_ByValue(b *testing.B) {
	s := NewReflectStrategy()
	values := []any{A{}, &A{}, []A{}, map[string]A{}, G[int]{}, 0}
	conf := cfg()
	for _, v := range values {
		s.TryResolve(v, conf)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.TryResolve(values[i%len(values)], conf)
	}
}
