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

package descriptor

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"dirpx.dev/mbean/apis"
)

var (
	// ErrUnsupportedValue is returned when a value has no registered Codec.
	ErrUnsupportedValue = errors.New("mbean(descriptor): unsupported value type")
	// ErrInvalidCodec is returned by RegisterCodec for an incomplete Codec.
	ErrInvalidCodec = errors.New("mbean(descriptor): invalid codec")
)

// Codec converts values of one type to and from the text carried inside a
// "(tag/text)" field value.
type Codec struct {
	Tag    string
	Type   reflect.Type
	Encode func(v any) (string, error)
	Decode func(s string) (any, error)
}

var codecs = struct {
	mu     sync.RWMutex
	byTag  map[string]Codec
	byType map[reflect.Type]Codec
}{
	byTag:  make(map[string]Codec),
	byType: make(map[reflect.Type]Codec),
}

// tagAliases lets text written by JMX agents decode into Go types.
var tagAliases = map[string]string{
	"java.lang.String":  "string",
	"java.lang.Boolean": "bool",
	"java.lang.Byte":    "int8",
	"java.lang.Short":   "int16",
	"java.lang.Integer": "int32",
	"java.lang.Long":    "int64",
	"java.lang.Float":   "float32",
	"java.lang.Double":  "float64",
}

// RegisterCodec makes c available for encoding values of c.Type and for
// decoding text tagged c.Tag. A later registration replaces an earlier one
// for the same tag or type.
func RegisterCodec(c Codec) error {
	if c.Tag == "" || strings.ContainsAny(c.Tag, "/()") || c.Type == nil || c.Encode == nil || c.Decode == nil {
		return ErrInvalidCodec
	}
	codecs.mu.Lock()
	defer codecs.mu.Unlock()
	codecs.byTag[c.Tag] = c
	codecs.byType[c.Type] = c
	return nil
}

func codecForType(t reflect.Type) (Codec, bool) {
	codecs.mu.RLock()
	defer codecs.mu.RUnlock()
	c, ok := codecs.byType[t]
	return c, ok
}

func codecForTag(tag string) (Codec, bool) {
	if alias, ok := tagAliases[tag]; ok {
		tag = alias
	}
	codecs.mu.RLock()
	defer codecs.mu.RUnlock()
	c, ok := codecs.byTag[tag]
	return c, ok
}

// encodeValue returns the tag and text for v.
func encodeValue(v any) (string, string, error) {
	c, ok := codecForType(reflect.TypeOf(v))
	if !ok {
		return "", "", apis.Errorf(ErrUnsupportedValue, "descriptor.encode", "no codec for %T", v)
	}
	s, err := c.Encode(v)
	if err != nil {
		return "", "", apis.Wrap(ErrUnsupportedValue, "descriptor.encode", err, "encode %T", v)
	}
	return c.Tag, s, nil
}

func decodeValue(tag, text string) (any, error) {
	c, ok := codecForTag(tag)
	if !ok {
		return nil, apis.Errorf(apis.ErrXMLParse, "descriptor.parse", "unknown value type %q", tag)
	}
	v, err := c.Decode(text)
	if err != nil {
		return nil, apis.Wrap(apis.ErrXMLParse, "descriptor.parse", err, "decode %q as %s", text, tag)
	}
	return v, nil
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func intCodec[T signed](tag string, bits int) Codec {
	return Codec{
		Tag:    tag,
		Type:   reflect.TypeFor[T](),
		Encode: func(v any) (string, error) { return strconv.FormatInt(int64(v.(T)), 10), nil },
		Decode: func(s string) (any, error) {
			n, err := strconv.ParseInt(s, 10, bits)
			if err != nil {
				return nil, err
			}
			return T(n), nil
		},
	}
}

func uintCodec[T unsigned](tag string, bits int) Codec {
	return Codec{
		Tag:    tag,
		Type:   reflect.TypeFor[T](),
		Encode: func(v any) (string, error) { return strconv.FormatUint(uint64(v.(T)), 10), nil },
		Decode: func(s string) (any, error) {
			n, err := strconv.ParseUint(s, 10, bits)
			if err != nil {
				return nil, err
			}
			return T(n), nil
		},
	}
}

func floatCodec[T ~float32 | ~float64](tag string, bits int) Codec {
	return Codec{
		Tag:    tag,
		Type:   reflect.TypeFor[T](),
		Encode: func(v any) (string, error) { return strconv.FormatFloat(float64(v.(T)), 'g', -1, bits), nil },
		Decode: func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, bits)
			if err != nil {
				return nil, err
			}
			return T(f), nil
		},
	}
}

func init() {
	builtin := []Codec{
		{
			Tag:    "string",
			Type:   reflect.TypeFor[string](),
			Encode: func(v any) (string, error) { return v.(string), nil },
			Decode: func(s string) (any, error) { return s, nil },
		},
		{
			Tag:    "bool",
			Type:   reflect.TypeFor[bool](),
			Encode: func(v any) (string, error) { return strconv.FormatBool(v.(bool)), nil },
			Decode: func(s string) (any, error) { return strconv.ParseBool(s) },
		},
		intCodec[int]("int", strconv.IntSize),
		intCodec[int8]("int8", 8),
		intCodec[int16]("int16", 16),
		intCodec[int32]("int32", 32),
		intCodec[int64]("int64", 64),
		uintCodec[uint]("uint", strconv.IntSize),
		uintCodec[uint8]("uint8", 8),
		uintCodec[uint16]("uint16", 16),
		uintCodec[uint32]("uint32", 32),
		uintCodec[uint64]("uint64", 64),
		floatCodec[float32]("float32", 32),
		floatCodec[float64]("float64", 64),
		{
			Tag:    "duration",
			Type:   reflect.TypeFor[time.Duration](),
			Encode: func(v any) (string, error) { return v.(time.Duration).String(), nil },
			Decode: func(s string) (any, error) { return time.ParseDuration(s) },
		},
		{
			Tag:  "time",
			Type: reflect.TypeFor[time.Time](),
			Encode: func(v any) (string, error) {
				return v.(time.Time).Format(time.RFC3339Nano), nil
			},
			Decode: func(s string) (any, error) { return time.Parse(time.RFC3339Nano, s) },
		},
		{
			Tag:    "descriptor",
			Type:   reflect.TypeFor[*Descriptor](),
			Encode: func(v any) (string, error) { return v.(*Descriptor).ToXMLString() },
			Decode: func(s string) (any, error) { return Parse(s) },
		},
	}
	for _, c := range builtin {
		if err := RegisterCodec(c); err != nil {
			panic(err)
		}
	}
}
