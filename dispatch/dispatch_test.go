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

package dispatch_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/dispatch"
)

type valve struct {
	open  bool
	level int
}

func (v *valve) Open() { v.open = true }
func (v *valve) Level() int { return v.level }
func (v *valve) SetLevel(n int) { v.level = n }
func (v *valve) Scale(f *float64) int { return int(float64(v.level) * *f) }
func (v *valve) Check() error { return errors.New("stuck") }
func (v *valve) Fetch() (string, error) { return "ok", nil }
func (v *valve) Boom() int { panic("kaboom") }
func (v *valve) Reflect() error { return fmt.Errorf("inner: %w", apis.ErrReflection) }
func (v *valve) Describe(s fmt.Stringer) string {
	return s.String()
}
func (v *valve) Sum(n ...int) int { return len(n) }
func (v *valve) Three() (int, int, int) { return 1, 2, 3 }
func (v *valve) hidden() {}

type label string

func (l label) String() string { return string(l) }

func types(vs ...any) []reflect.Type {
	out := make([]reflect.Type, len(vs))
	for i, v := range vs {
		out[i] = reflect.TypeOf(v)
	}
	return out
}

func TestForIntrospectsExportedMethods(t *testing.T) {
	d, err := dispatch.For(&valve{})
	require.NoError(t, err)
	names := d.Names()
	assert.Contains(t, names, "Open")
	assert.Contains(t, names, "SetLevel")
	assert.NotContains(t, names, "Sum", "variadic")
	assert.NotContains(t, names, "Three", "unsupported results")
	assert.NotContains(t, names, "hidden")

	_, err = dispatch.For(nil)
	assert.ErrorIs(t, err, dispatch.ErrNilTarget)
}

func TestCallShapes(t *testing.T) {
	v := &valve{level: 3}
	d, err := dispatch.For(v)
	require.NoError(t, err)

	h, ok := d.Lookup("SetLevel", types(0))
	require.True(t, ok)
	res, err := h.Call([]any{9})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 9, v.level)

	h, ok = d.Lookup("Level", nil)
	require.True(t, ok)
	res, err = h.Call(nil)
	require.NoError(t, err)
	assert.Equal(t, 9, res)

	h, _ = d.Lookup("Fetch", nil)
	res, err = h.Call(nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", res)

	h, _ = d.Lookup("Open", nil)
	_, err = h.Call(nil)
	require.NoError(t, err)
	assert.True(t, v.open)
}

func TestLookupMatching(t *testing.T) {
	d, err := dispatch.For(&valve{level: 4})
	require.NoError(t, err)

	_, ok := d.Lookup("SetLevel", types("x"))
	assert.False(t, ok, "wrong type")
	_, ok = d.Lookup("SetLevel", nil)
	assert.False(t, ok, "wrong arity")
	_, ok = d.Lookup("setLevel", types(0))
	assert.False(t, ok, "names are exact")

	// float64 stands for *float64.
	h, ok := d.Lookup("Scale", types(0.0))
	require.True(t, ok)
	res, err := h.Call([]any{2.0})
	require.NoError(t, err)
	assert.Equal(t, 8, res)

	// A concrete type stands for an interface it implements.
	h, ok = d.Lookup("Describe", types(label("")))
	require.True(t, ok)
	res, err = h.Call([]any{label("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hi", res)
}

func TestCallErrors(t *testing.T) {
	d, err := dispatch.For(&valve{})
	require.NoError(t, err)

	h, _ := d.Lookup("Check", nil)
	_, err = h.Call(nil)
	assert.ErrorIs(t, err, apis.ErrMBean)
	assert.ErrorContains(t, err, "stuck")

	h, _ = d.Lookup("Boom", nil)
	_, err = h.Call(nil)
	assert.ErrorIs(t, err, apis.ErrRuntimeError)

	h, _ = d.Lookup("Reflect", nil)
	_, err = h.Call(nil)
	assert.ErrorIs(t, err, apis.ErrReflection)
	assert.NotErrorIs(t, err, apis.ErrMBean)

	h, _ = d.Lookup("SetLevel", types(0))
	_, err = h.Call([]any{"x"})
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)
	_, err = h.Call(nil)
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)
}

func TestTable(t *testing.T) {
	tbl := dispatch.NewTable()
	require.NoError(t, tbl.Register("double", types(0), func(args []any) (any, error) {
		return args[0].(int) * 2, nil
	}))
	assert.ErrorIs(t, tbl.Register("double", types(0), func([]any) (any, error) { return nil, nil }), dispatch.ErrDuplicate)
	assert.ErrorIs(t, tbl.Register(" ", nil, func([]any) (any, error) { return nil, nil }), dispatch.ErrEmptyName)
	assert.ErrorIs(t, tbl.Register("x", nil, nil), dispatch.ErrNilFunc)

	// A Table is its own dispatcher.
	d, err := dispatch.For(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"double"}, d.Names())

	h, ok := d.Lookup("double", types(0))
	require.True(t, ok)
	res, err := h.Call([]any{21})
	require.NoError(t, err)
	assert.Equal(t, 42, res)

	_, err = h.Call([]any{"x"})
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)
}

func BenchmarkIntrospectedCall(b *testing.B) {
	d, _ := dispatch.For(&valve{level: 1})
	params := types(0)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h, _ := d.Lookup("SetLevel", params)
		_, _ = h.Call([]any{i})
	}
}
