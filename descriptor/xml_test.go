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
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/descriptor"
)

func TestXMLRoundTripStrings(t *testing.T) {
	d := descriptor.MustNew(
		"name=foo bar",
		"descriptorType=attribute",
		`quote="hi" <b> & co`,
		"ctl=a\tb\nc\rd\fe",
		"paren=(looks typed)",
	)
	s, err := d.ToXMLString()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "<Descriptor><field name="))
	assert.True(t, strings.HasSuffix(s, "</field></Descriptor>"))
	assert.NotContains(t, s, "foo bar")

	back, err := descriptor.Parse(s)
	require.NoError(t, err)
	assert.True(t, d.Equal(back), "got %v", back)
}

func TestXMLRoundTripTypedValues(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 30, 0, 5, time.UTC)
	d := descriptor.Empty()
	require.NoError(t, d.SetFields(
		[]string{"name", "descriptorType", "n", "small", "f", "ok", "ttl", "when", "nothing"},
		[]any{"x", "attribute", 42, int8(-3), 1.5, true, 3 * time.Second, when, nil},
	))
	require.NoError(t, d.SetField("nested", descriptor.MustNew("name=inner", "descriptorType=operation")))

	s, err := d.ToXMLString()
	require.NoError(t, err)
	assert.Contains(t, s, `value="(int/42)"`)
	assert.Contains(t, s, `value="(null)"`)

	back, err := descriptor.Parse(s)
	require.NoError(t, err)
	assert.True(t, d.Equal(back), "got %v", back)
}

func TestXMLUnsupportedValue(t *testing.T) {
	d := descriptor.Empty()
	require.NoError(t, d.SetField("obj", struct{ A int }{1}))
	_, err := d.ToXMLString()
	assert.ErrorIs(t, err, descriptor.ErrUnsupportedValue)
}

type celsius float64

func TestRegisterCodec(t *testing.T) {
	err := descriptor.RegisterCodec(descriptor.Codec{Tag: "bad"})
	assert.ErrorIs(t, err, descriptor.ErrInvalidCodec)

	require.NoError(t, descriptor.RegisterCodec(descriptor.Codec{
		Tag:    "celsius",
		Type:   reflect.TypeFor[celsius](),
		Encode: func(v any) (string, error) { return "21.5", nil },
		Decode: func(s string) (any, error) { return celsius(21.5), nil },
	}))

	d := descriptor.Empty()
	require.NoError(t, d.SetField("temp", celsius(21.5)))
	s, err := d.ToXMLString()
	require.NoError(t, err)

	back, err := descriptor.Parse(s)
	require.NoError(t, err)
	v, _ := back.Lookup("temp")
	assert.Equal(t, celsius(21.5), v)
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want map[string]any
		err  error
	}{
		{
			name: "case-insensitive tags and padding",
			in:   "  <DESCRIPTOR><FIELD NAME=\"a\" VALUE=\"1\"></FIELD></descriptor>\n",
			want: map[string]any{"a": "1"},
		},
		{
			name: "untagged parenthesized value",
			in:   `<Descriptor><field name="a" value="(plain)"></field></Descriptor>`,
			want: map[string]any{"a": "plain"},
		},
		{
			name: "jmx tag alias",
			in:   `<Descriptor><field name="a" value="(java.lang.Integer/7)"></field></Descriptor>`,
			want: map[string]any{"a": int32(7)},
		},
		{name: "no enclosing tags", in: `<field name="a" value="1"></field>`, err: apis.ErrXMLParse},
		{name: "unquoted value", in: `<Descriptor><field name="a" value=1></field></Descriptor>`, err: apis.ErrXMLParse},
		{name: "bad keyword", in: `<Descriptor><field id="a"></field></Descriptor>`, err: apis.ErrXMLParse},
		{name: "no keyword", in: `<Descriptor><field a></field></Descriptor>`, err: apis.ErrXMLParse},
		{name: "unknown entity", in: `<Descriptor><field name="a" value="&nbsp;"></field></Descriptor>`, err: apis.ErrXMLParse},
		{name: "missing semicolon", in: `<Descriptor><field name="a" value="&amp"></field></Descriptor>`, err: apis.ErrXMLParse},
		{name: "unknown tag", in: `<Descriptor><field name="a" value="(no.such.Type/1)"></field></Descriptor>`, err: apis.ErrXMLParse},
		{name: "bad number", in: `<Descriptor><field name="a" value="(int/x)"></field></Descriptor>`, err: apis.ErrXMLParse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := descriptor.Parse(tc.in)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tc.want), d.Len())
			for k, want := range tc.want {
				got, ok := d.Lookup(k)
				assert.True(t, ok, k)
				assert.Equal(t, want, got, k)
			}
		})
	}
}
