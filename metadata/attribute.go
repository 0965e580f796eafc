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

package metadata

import (
	"fmt"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/descriptor"
)

var attributeRules = rules{op: "metadata.attribute", kind: KindAttribute}

// AttributeInfo describes one managed attribute.
type AttributeInfo struct {
	feature
	typ      string
	readable bool
	writable bool
	isIs     bool
}

// NewAttributeInfo describes attribute name of declared type typ. A nil
// descriptor is replaced by a default one. An "is" getter requires a
// boolean type.
func NewAttributeInfo(name, typ, description string, readable, writable, isIs bool, d *descriptor.Descriptor) (*AttributeInfo, error) {
	if err := requireName(attributeRules.op, name); err != nil {
		return nil, err
	}
	if isIs && typ != "bool" && typ != "boolean" && typ != "java.lang.Boolean" {
		return nil, apis.Errorf(apis.ErrIllegalArgument, attributeRules.op,
			"is-getter attribute %q must be boolean, not %q", name, typ)
	}
	a := &AttributeInfo{
		feature:  feature{name: name, description: description},
		typ:      typ,
		readable: readable,
		writable: writable,
		isIs:     isIs,
	}
	if err := a.SetDescriptor(d); err != nil {
		return nil, err
	}
	return a, nil
}

// Type returns the declared type name.
func (a *AttributeInfo) Type() string { return a.typ }

// IsReadable reports whether the attribute can be read.
func (a *AttributeInfo) IsReadable() bool { return a.readable }

// IsWritable reports whether the attribute can be written.
func (a *AttributeInfo) IsWritable() bool { return a.writable }

// IsIs reports whether the getter is an "is" getter.
func (a *AttributeInfo) IsIs() bool { return a.isIs }

// SetDescriptor validates, defaults and stores a copy of d.
func (a *AttributeInfo) SetDescriptor(d *descriptor.Descriptor) error {
	nd, err := attributeRules.prepare(a.name, d)
	if err != nil {
		return err
	}
	a.store(nd)
	return nil
}

// Clone returns an independent copy.
func (a *AttributeInfo) Clone() *AttributeInfo {
	if a == nil {
		return nil
	}
	return &AttributeInfo{
		feature:  feature{name: a.name, description: a.description, desc: a.Descriptor()},
		typ:      a.typ,
		readable: a.readable,
		writable: a.writable,
		isIs:     a.isIs,
	}
}

func (a *AttributeInfo) String() string {
	return fmt.Sprintf("AttributeInfo{name=%s, type=%s, description=%s, readable=%t, writable=%t, isIs=%t, descriptor={%v}}",
		a.name, a.typ, a.description, a.readable, a.writable, a.isIs, a.Descriptor())
}
