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
	"fmt"
	"hash/maphash"
	"reflect"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"dirpx.dev/mbean/apis"
)

// Descriptor is a case-insensitive bag of named values attached to a
// management entity. Keys are compared after Unicode case folding; the
// spelling used when a field is first set is kept for enumeration.
//
// A Descriptor is safe for concurrent use. The zero value is an empty
// Descriptor; a nil *Descriptor reads as empty and rejects writes.
type Descriptor struct {
	mu     sync.RWMutex
	fields map[string]field // folded name -> field
}

type field struct {
	name  string
	value any
}

// fold returns the comparison key for a field name. A cases.Caser carries
// state, so one is created per call.
func fold(name string) string {
	return cases.Fold().String(name)
}

// Empty returns a Descriptor with no fields.
func Empty() *Descriptor {
	return &Descriptor{fields: make(map[string]field)}
}

// New builds a Descriptor from "name=value" strings. An empty value
// ("name=") stores nil. Values are stored as strings and are not checked
// against the well-known field rules; use IsValid to check the result.
func New(fields ...string) (*Descriptor, error) {
	d := Empty()
	for _, f := range fields {
		if f == "" {
			continue
		}
		eq := strings.IndexByte(f, '=')
		if eq < 0 {
			return nil, apis.Errorf(apis.ErrIllegalArgument, "descriptor.new",
				"field %q is not of the form name=value", f)
		}
		name := f[:eq]
		if name == "" {
			return nil, apis.Errorf(apis.ErrIllegalArgument, "descriptor.new",
				"field %q has an empty name", f)
		}
		var value any
		if v := f[eq+1:]; v != "" {
			value = v
		}
		d.put(name, value)
	}
	return d, nil
}

// NewWithValues builds a Descriptor from parallel name and value slices.
// Every pair is checked with the well-known field rules.
func NewWithValues(names []string, values []any) (*Descriptor, error) {
	d := Empty()
	if err := d.SetFields(names, values); err != nil {
		return nil, err
	}
	return d, nil
}

// MustNew is like New but panics on error.
func MustNew(fields ...string) *Descriptor {
	d, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return d
}

// put stores value under name without validation. Callers hold mu or own d.
func (d *Descriptor) put(name string, value any) {
	if d.fields == nil {
		d.fields = make(map[string]field)
	}
	key := fold(name)
	if old, ok := d.fields[key]; ok {
		name = old.name
	}
	d.fields[key] = field{name: name, value: value}
}

// FieldValue returns the value stored under name, or nil when absent.
func (d *Descriptor) FieldValue(name string) (any, error) {
	if name == "" {
		return nil, apis.Errorf(apis.ErrIllegalArgument, "descriptor.fieldValue", "empty field name")
	}
	v, _ := d.Lookup(name)
	return v, nil
}

// Lookup returns the value stored under name and whether the field exists.
func (d *Descriptor) Lookup(name string) (any, bool) {
	if d == nil {
		return nil, false
	}
	key := fold(name)
	d.mu.RLock()
	f, ok := d.fields[key]
	d.mu.RUnlock()
	return f.value, ok
}

// StringField returns the value of name when it is present and is a string.
func (d *Descriptor) StringField(name string) (string, bool) {
	v, ok := d.Lookup(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func errNilDescriptor(op string) error {
	return apis.Errorf(apis.ErrIllegalArgument, op, "nil descriptor")
}

// SetField stores value under name. A value that breaks the rule for a
// well-known field is rejected with ErrIllegalArgument.
func (d *Descriptor) SetField(name string, value any) error {
	if d == nil {
		return errNilDescriptor("descriptor.setField")
	}
	if name == "" {
		return apis.Errorf(apis.ErrIllegalArgument, "descriptor.setField", "empty field name")
	}
	if !ValidField(name, value) {
		return apis.Errorf(apis.ErrIllegalArgument, "descriptor.setField",
			"field %q has invalid value %v", name, value)
	}
	d.mu.Lock()
	d.put(name, value)
	d.mu.Unlock()
	return nil
}

// SetFields stores values under names. Either every pair is stored or,
// when one of them is rejected, none is.
func (d *Descriptor) SetFields(names []string, values []any) error {
	if d == nil {
		return errNilDescriptor("descriptor.setFields")
	}
	if len(names) != len(values) {
		return apis.Errorf(apis.ErrIllegalArgument, "descriptor.setFields",
			"%d names but %d values", len(names), len(values))
	}
	for i, name := range names {
		if name == "" {
			return apis.Errorf(apis.ErrIllegalArgument, "descriptor.setFields", "empty field name at %d", i)
		}
		if !ValidField(name, values[i]) {
			return apis.Errorf(apis.ErrIllegalArgument, "descriptor.setFields",
				"field %q has invalid value %v", name, values[i])
		}
	}
	d.mu.Lock()
	for i, name := range names {
		d.put(name, values[i])
	}
	d.mu.Unlock()
	return nil
}

// RemoveField deletes name. Removing an absent field is a no-op.
func (d *Descriptor) RemoveField(name string) {
	if d == nil || name == "" {
		return
	}
	key := fold(name)
	d.mu.Lock()
	delete(d.fields, key)
	d.mu.Unlock()
}

// Len reports the number of fields.
func (d *Descriptor) Len() int {
	if d == nil {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.fields)
}

// snapshot returns the fields sorted by folded name.
func (d *Descriptor) snapshot() []field {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]field, len(keys))
	for i, k := range keys {
		out[i] = d.fields[k]
	}
	d.mu.RUnlock()
	return out
}

// FieldNames returns the field names in case-insensitive order.
func (d *Descriptor) FieldNames() []string {
	snap := d.snapshot()
	out := make([]string, len(snap))
	for i, f := range snap {
		out[i] = f.name
	}
	return out
}

// Fields renders every field as "name=value". Nil values render as "name="
// and non-string values as "name=(value)".
func (d *Descriptor) Fields() []string {
	snap := d.snapshot()
	out := make([]string, len(snap))
	for i, f := range snap {
		switch v := f.value.(type) {
		case nil:
			out[i] = f.name + "="
		case string:
			out[i] = f.name + "=" + v
		default:
			out[i] = fmt.Sprintf("%s=(%v)", f.name, v)
		}
	}
	return out
}

// FieldValues returns the values of names, nil for absent ones. Without
// names it returns every value in FieldNames order.
func (d *Descriptor) FieldValues(names ...string) []any {
	if len(names) == 0 {
		snap := d.snapshot()
		out := make([]any, len(snap))
		for i, f := range snap {
			out[i] = f.value
		}
		return out
	}
	out := make([]any, len(names))
	for i, n := range names {
		if n == "" {
			continue
		}
		out[i], _ = d.Lookup(n)
	}
	return out
}

// Clone returns an independent copy. Nested descriptors are cloned; other
// values are shared.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	out := Empty()
	d.mu.RLock()
	for k, f := range d.fields {
		if nd, ok := f.value.(*Descriptor); ok {
			f.value = nd.Clone()
		}
		out.fields[k] = f
	}
	d.mu.RUnlock()
	return out
}

// Equal reports whether d and o hold the same fields. Names compare
// case-insensitively; values compare deeply.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil {
		return false
	}
	a, b := d.snapshot(), o.snapshot()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if fold(a[i].name) != fold(b[i].name) || !valueEqual(a[i].value, b[i].value) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if da, ok := a.(*Descriptor); ok {
		db, ok := b.(*Descriptor)
		return ok && da.Equal(db)
	}
	return reflect.DeepEqual(a, b)
}

var hashSeed = maphash.MakeSeed()

// Hash returns a hash consistent with Equal. It does not depend on field order.
func (d *Descriptor) Hash() uint64 {
	var sum uint64
	for _, f := range d.snapshot() {
		var h maphash.Hash
		h.SetSeed(hashSeed)
		h.WriteString(fold(f.name))
		h.WriteByte(0)
		h.WriteString(hashText(f.value))
		sum += h.Sum64()
	}
	return sum
}

// hashText renders v so that deeply equal values render identically.
func hashText(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case *Descriptor:
		return fmt.Sprintf("descriptor:%x", x.Hash())
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return fmt.Sprintf("%T:%v", v, rv)
}

// String renders the fields as a comma separated list of name=value pairs.
func (d *Descriptor) String() string {
	snap := d.snapshot()
	parts := make([]string, len(snap))
	for i, f := range snap {
		parts[i] = fmt.Sprintf("%s=%v", f.name, f.value)
	}
	return strings.Join(parts, ", ")
}
