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

package descriptor_test

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/descriptor"
)

func TestCaseInsensitiveKeys(t *testing.T) {
	d := descriptor.Empty()
	require.NoError(t, d.SetField("currencyTimeLimit", 5))

	for _, k := range []string{"currencyTimeLimit", "CURRENCYTIMELIMIT", "currencytimelimit", "CurrencyTimeLimit"} {
		v, err := d.FieldValue(k)
		require.NoError(t, err)
		assert.Equal(t, 5, v, k)
	}

	// A later write under another spelling keeps the first one.
	require.NoError(t, d.SetField("CURRENCYtimeLIMIT", 7))
	assert.Equal(t, []string{"currencyTimeLimit=(7)"}, d.Fields())
	assert.Equal(t, 1, d.Len())
}

func TestZeroAndNilDescriptors(t *testing.T) {
	var zero descriptor.Descriptor
	require.NoError(t, zero.SetField("displayName", "Level"))
	require.NoError(t, zero.SetFields([]string{"name"}, []any{"level"}))
	assert.Equal(t, []string{"displayName", "name"}, zero.FieldNames())
	zero.RemoveField("name")
	assert.Equal(t, 1, zero.Len())

	var nilDesc *descriptor.Descriptor
	assert.ErrorIs(t, nilDesc.SetField("name", "x"), apis.ErrIllegalArgument)
	assert.ErrorIs(t, nilDesc.SetFields([]string{"name"}, []any{"x"}), apis.ErrIllegalArgument)
	assert.NotPanics(t, func() { nilDesc.RemoveField("name") })
	_, ok := nilDesc.Lookup("name")
	assert.False(t, ok)
	assert.Zero(t, nilDesc.Len())
}

func TestFieldNamesSortedCaseInsensitively(t *testing.T) {
	d := descriptor.MustNew("b=1", "A=2", "c=3")
	assert.Equal(t, []string{"A", "b", "c"}, d.FieldNames())
	assert.Equal(t, []any{"2", "1", "3"}, d.FieldValues())
	assert.Equal(t, []any{"3", nil}, d.FieldValues("C", "missing"))
}

func TestNewTextual(t *testing.T) {
	d, err := descriptor.New("name=foo", "descriptorType=attribute", "value=")
	require.NoError(t, err)
	v, ok := d.Lookup("value")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Contains(t, d.Fields(), "value=")

	_, err = descriptor.New("novalue")
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)

	_, err = descriptor.New("=x")
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)
}

func TestVisibilityScenario(t *testing.T) {
	d, err := descriptor.New("name=foo", "descriptorType=attribute", "visibility=5")
	require.NoError(t, err)
	assert.False(t, d.IsValid())

	d, err = descriptor.New("name=foo", "descriptorType=attribute", "visibility=2")
	require.NoError(t, err)
	assert.True(t, d.IsValid())
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		name   string
		fields []string
		valid  bool
	}{
		{"empty", nil, false},
		{"missing type", []string{"name=x"}, false},
		{"missing name", []string{"descriptorType=attribute"}, false},
		{"minimal", []string{"name=x", "descriptorType=attribute"}, true},
		{"unknown field", []string{"name=x", "descriptorType=attribute", "anything=goes"}, true},
		{"severity high", []string{"name=x", "descriptorType=notification", "severity=7"}, false},
		{"severity zero", []string{"name=x", "descriptorType=notification", "severity=0"}, true},
		{"visibility garbage", []string{"name=x", "descriptorType=attribute", "visibility=high"}, false},
		{"persist policy any case", []string{"name=x", "descriptorType=mbean", "persistPolicy=noMOREoftenTHAN"}, true},
		{"persist policy unknown", []string{"name=x", "descriptorType=mbean", "persistPolicy=Sometimes"}, false},
		{"currency -1", []string{"name=x", "descriptorType=attribute", "currencyTimeLimit=-1"}, true},
		{"currency -2", []string{"name=x", "descriptorType=attribute", "currencyTimeLimit=-2"}, false},
		{"log t", []string{"name=x", "descriptorType=mbean", "log=T"}, true},
		{"log yes", []string{"name=x", "descriptorType=mbean", "log=yes"}, false},
		{"nil getMethod", []string{"name=x", "descriptorType=attribute", "getMethod="}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := descriptor.New(tc.fields...)
			require.NoError(t, err)
			assert.Equal(t, tc.valid, d.IsValid())
		})
	}
}

func TestSetFieldValidation(t *testing.T) {
	d := descriptor.Empty()

	err := d.SetField("", "x")
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)

	err = d.SetField("visibility", 9)
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)

	require.NoError(t, d.SetField("visibility", int64(4)))
	require.NoError(t, d.SetField("log", true))

	_, err = d.FieldValue("")
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)
}

func TestSetFieldsAllOrNothing(t *testing.T) {
	d := descriptor.Empty()
	err := d.SetFields([]string{"name", "severity"}, []any{"n", 42})
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)
	assert.Equal(t, 0, d.Len())

	err = d.SetFields([]string{"name"}, []any{"n", "extra"})
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)

	require.NoError(t, d.SetFields([]string{"name", "severity"}, []any{"n", 3}))
	assert.Equal(t, 2, d.Len())

	_, err = descriptor.NewWithValues([]string{"role"}, []any{42})
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)
}

func TestRemoveField(t *testing.T) {
	d := descriptor.MustNew("name=x", "extra=1")
	d.RemoveField("EXTRA")
	d.RemoveField("absent")
	d.RemoveField("")
	assert.Equal(t, []string{"name"}, d.FieldNames())
}

func TestCloneIsIndependent(t *testing.T) {
	inner := descriptor.MustNew("name=inner")
	d := descriptor.Empty()
	require.NoError(t, d.SetField("nested", inner))
	require.NoError(t, d.SetField("name", "outer"))

	c := d.Clone()
	require.True(t, c.Equal(d))

	require.NoError(t, c.SetField("name", "changed"))
	v, _ := d.Lookup("name")
	assert.Equal(t, "outer", v)

	nested, _ := c.Lookup("nested")
	require.NoError(t, nested.(*descriptor.Descriptor).SetField("name", "touched"))
	v, _ = inner.Lookup("name")
	assert.Equal(t, "inner", v)

	var nilDesc *descriptor.Descriptor
	assert.Nil(t, nilDesc.Clone())
}

func TestEqualAndHash(t *testing.T) {
	a := descriptor.Empty()
	require.NoError(t, a.SetFields([]string{"Name", "values", "n"}, []any{"x", []int{1, 2}, 3}))
	b := descriptor.Empty()
	require.NoError(t, b.SetFields([]string{"n", "VALUES", "name"}, []any{3, []int{1, 2}, "x"}))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	require.NoError(t, b.SetField("values", []int{1, 3}))
	assert.False(t, a.Equal(b))

	assert.False(t, a.Equal(nil))
	assert.True(t, a.Equal(a))
}

func TestStringRendering(t *testing.T) {
	d := descriptor.Empty()
	require.NoError(t, d.SetFields([]string{"name", "n"}, []any{"x", 3}))
	assert.Equal(t, "n=3, name=x", d.String())
	assert.Equal(t, []string{"n=(3)", "name=x"}, d.Fields())
}

func TestAsInt64(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{5, 5, true},
		{int8(-1), -1, true},
		{uint16(7), 7, true},
		{2.0, 2, true},
		{2.5, 0, false},
		{" 12 ", 12, true},
		{"x", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, ok := descriptor.AsInt64(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "%v", tc.in)
		}
	}
}

func TestConcurrentSetAndRead(t *testing.T) {
	d := descriptor.Empty()
	workers := runtime.GOMAXPROCS(0) * 2
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("Key%d", i%10)
				if w%2 == 0 {
					_ = d.SetField(key, i)
				} else {
					_, _ = d.FieldValue(key)
					_ = d.Fields()
				}
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 10, d.Len())
}
