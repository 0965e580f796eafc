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
	"strings"
	"sync"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/descriptor"
)

// Descriptor types accepted by the name-based lookup protocol.
const (
	KindMBean        = "mbean"
	KindAttribute    = "attribute"
	KindOperation    = "operation"
	KindConstructor  = "constructor"
	KindNotification = "notification"
	KindAll          = "all"
)

// Operation roles.
const (
	RoleOperation   = "operation"
	RoleGetter      = "getter"
	RoleSetter      = "setter"
	RoleConstructor = "constructor"
)

// feature holds what every Info has in common: a name, a description and
// exactly one descriptor, which never leaves the feature uncopied.
type feature struct {
	name        string
	description string

	mu   sync.RWMutex
	desc *descriptor.Descriptor
}

// Name returns the feature name.
func (f *feature) Name() string { return f.name }

// Description returns the human readable description.
func (f *feature) Description() string { return f.description }

// Descriptor returns a copy of the feature's descriptor.
func (f *feature) Descriptor() *descriptor.Descriptor {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.desc.Clone()
}

func (f *feature) store(d *descriptor.Descriptor) {
	f.mu.Lock()
	f.desc = d
	f.mu.Unlock()
}

// rules describes how a descriptor is defaulted and checked for one kind
// of feature.
type rules struct {
	op       string
	kind     string // expected descriptorType
	defaults func(d *descriptor.Descriptor) error
	check    func(d *descriptor.Descriptor) error
}

// prepare copies in (or starts from scratch when in is nil), fills the
// defaults and validates the result for the feature called name.
func (r rules) prepare(name string, in *descriptor.Descriptor) (*descriptor.Descriptor, error) {
	var d *descriptor.Descriptor
	if in == nil {
		d = descriptor.Empty()
		if err := setIfAbsent(d, descriptor.Name, name); err != nil {
			return nil, err
		}
		if err := setIfAbsent(d, descriptor.DescriptorType, r.kind); err != nil {
			return nil, err
		}
	} else {
		d = in.Clone()
	}
	if err := setIfAbsent(d, descriptor.DisplayName, name); err != nil {
		return nil, err
	}
	if r.defaults != nil {
		if err := r.defaults(d); err != nil {
			return nil, err
		}
	}

	if !d.IsValid() {
		return nil, apis.Errorf(apis.ErrIllegalArgument, r.op, "invalid descriptor %v", d)
	}
	if got, _ := d.StringField(descriptor.Name); !strings.EqualFold(got, name) {
		return nil, apis.Errorf(apis.ErrIllegalArgument, r.op,
			"descriptor name %q does not match %q", got, name)
	}
	if got, _ := d.StringField(descriptor.DescriptorType); !strings.EqualFold(got, r.kind) {
		return nil, apis.Errorf(apis.ErrIllegalArgument, r.op,
			"descriptorType %q is not %q", got, r.kind)
	}
	if r.check != nil {
		if err := r.check(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func setIfAbsent(d *descriptor.Descriptor, name string, value any) error {
	if v, _ := d.Lookup(name); v != nil {
		return nil
	}
	return d.SetField(name, value)
}

func requireName(op, name string) error {
	if strings.TrimSpace(name) == "" {
		return apis.Errorf(apis.ErrIllegalArgument, op, "empty name")
	}
	return nil
}
