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


package strategy_test

import (
	"reflect"
	"testing"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/strategy"
)

type valve struct{}

func (valve) ClassName() string { return "acme.Valve" }

type anonymous struct{}

func (anonymous) ClassName() string { return "" }

func TestNamerStrategy(t *testing.T) {
	s := strategy.NewNamerStrategy()

	cases := []struct {
		name   string
		in     any
		want   string
		wantOK bool
	}{
		{"value namer", valve{}, "acme.Valve", true},
		{"pointer namer", &valve{}, "acme.Valve", true},
		{"blank name falls through", anonymous{}, "", false},
		{"not a namer", 3.5, "", false},
		{"nil", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolve(tc.in, apis.Config{})
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("TryResolve(%v) = (%q,%v), want (%q,%v)", tc.in, got, ok, tc.want, tc.wantOK)
			}
		})
	}

	if got, ok := s.TryResolveType(reflect.TypeOf(valve{}), apis.Config{}); ok || got != "" {
		t.Fatalf("TryResolveType = (%q,%v), want no match without an instance", got, ok)
	}
}
