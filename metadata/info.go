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
	"strings"
	"sync"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/descriptor"
)

const opInfo = "metadata.modelMBeanInfo"

// ModelMBeanInfo aggregates everything known about one managed resource:
// its attributes, constructors, operations and notifications plus one
// MBean-level descriptor.
//
// The aggregate copies every member on the way in and on the way out.
// Member descriptors can be replaced through SetDescriptor; the member
// slices themselves are fixed at construction.
type ModelMBeanInfo struct {
	className   string
	description string

	mu            sync.RWMutex
	attributes    []*AttributeInfo
	constructors  []*ConstructorInfo
	operations    []*OperationInfo
	notifications []*NotificationInfo
	mbean         *descriptor.Descriptor
}

// NewModelMBeanInfo builds an aggregate for className. A nil mbean
// descriptor is replaced by a default one.
func NewModelMBeanInfo(
	className, description string,
	attributes []*AttributeInfo,
	constructors []*ConstructorInfo,
	operations []*OperationInfo,
	notifications []*NotificationInfo,
	mbean *descriptor.Descriptor,
) (*ModelMBeanInfo, error) {
	m := &ModelMBeanInfo{
		className:     className,
		description:   description,
		attributes:    cloneAll(attributes, (*AttributeInfo).Clone),
		constructors:  cloneAll(constructors, (*ConstructorInfo).Clone),
		operations:    cloneAll(operations, (*OperationInfo).Clone),
		notifications: cloneAll(notifications, (*NotificationInfo).Clone),
	}
	if err := m.SetMBeanDescriptor(mbean); err != nil {
		return nil, err
	}
	return m, nil
}

func cloneAll[T any](in []*T, clone func(*T) *T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, clone(v))
		}
	}
	return out
}

// ClassName returns the managed resource class name.
func (m *ModelMBeanInfo) ClassName() string { return m.className }

// Description returns the human readable description.
func (m *ModelMBeanInfo) Description() string { return m.description }

// Attributes returns copies of the attribute descriptions.
func (m *ModelMBeanInfo) Attributes() []*AttributeInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.attributes, (*AttributeInfo).Clone)
}

// Constructors returns copies of the constructor descriptions.
func (m *ModelMBeanInfo) Constructors() []*ConstructorInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.constructors, (*ConstructorInfo).Clone)
}

// Operations returns copies of the operation descriptions.
func (m *ModelMBeanInfo) Operations() []*OperationInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.operations, (*OperationInfo).Clone)
}

// Notifications returns copies of the notification descriptions.
func (m *ModelMBeanInfo) Notifications() []*NotificationInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.notifications, (*NotificationInfo).Clone)
}

// Attribute returns a copy of the attribute called name, or nil.
func (m *ModelMBeanInfo) Attribute(name string) *AttributeInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.attributes, name).Clone()
}

// Operation returns a copy of the operation called name, or nil.
func (m *ModelMBeanInfo) Operation(name string) *OperationInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.operations, name).Clone()
}

// Constructor returns a copy of the constructor called name, or nil.
func (m *ModelMBeanInfo) Constructor(name string) *ConstructorInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.constructors, name).Clone()
}

// Notification returns a copy of the notification called name, or nil.
func (m *ModelMBeanInfo) Notification(name string) *NotificationInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return find(m.notifications, name).Clone()
}

type named interface {
	Name() string
}

func find[T named](list []T, name string) T {
	var zero T
	for _, v := range list {
		if v.Name() == name {
			return v
		}
	}
	return zero
}

// MBeanDescriptor returns a copy of the MBean-level descriptor.
func (m *ModelMBeanInfo) MBeanDescriptor() *descriptor.Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mbean.Clone()
}

// SetMBeanDescriptor validates, defaults and stores a copy of d. Defaults
// are name and displayName set to the class name, persistPolicy=never,
// log=F and visibility=1.
func (m *ModelMBeanInfo) SetMBeanDescriptor(d *descriptor.Descriptor) error {
	nd, err := m.prepareMBean(d)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.mbean = nd
	m.mu.Unlock()
	return nil
}

func (m *ModelMBeanInfo) prepareMBean(in *descriptor.Descriptor) (*descriptor.Descriptor, error) {
	var d *descriptor.Descriptor
	if in == nil {
		d = descriptor.Empty()
		if m.className != "" {
			if err := setIfAbsent(d, descriptor.Name, m.className); err != nil {
				return nil, err
			}
		}
		if err := setIfAbsent(d, descriptor.DescriptorType, KindMBean); err != nil {
			return nil, err
		}
	} else {
		d = in.Clone()
	}
	for _, kv := range []struct {
		name  string
		value string
	}{
		{descriptor.DisplayName, m.className},
		{descriptor.PersistPolicy, "never"},
		{descriptor.Log, "F"},
		{descriptor.Visibility, "1"},
	} {
		if kv.value == "" {
			continue
		}
		if err := setIfAbsent(d, kv.name, kv.value); err != nil {
			return nil, err
		}
	}
	if !d.IsValid() {
		return nil, apis.Errorf(apis.ErrIllegalArgument, opInfo, "invalid MBean descriptor %v", d)
	}
	if t, _ := d.StringField(descriptor.DescriptorType); !strings.EqualFold(t, KindMBean) {
		return nil, apis.Errorf(apis.ErrIllegalArgument, opInfo, "descriptorType %q is not %q", t, KindMBean)
	}
	return d, nil
}

// Descriptors returns copies of the descriptors of one kind. An empty kind
// or "all" returns attributes, constructors, operations, notifications and
// then the MBean descriptor.
func (m *ModelMBeanInfo) Descriptors(kind string) ([]*descriptor.Descriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*descriptor.Descriptor
	all := kind == "" || strings.EqualFold(kind, KindAll)
	known := all
	if all || strings.EqualFold(kind, KindAttribute) {
		known = true
		for _, a := range m.attributes {
			out = append(out, a.Descriptor())
		}
	}
	if all || strings.EqualFold(kind, KindConstructor) {
		known = true
		for _, c := range m.constructors {
			out = append(out, c.Descriptor())
		}
	}
	if all || strings.EqualFold(kind, KindOperation) {
		known = true
		for _, o := range m.operations {
			out = append(out, o.Descriptor())
		}
	}
	if all || strings.EqualFold(kind, KindNotification) {
		known = true
		for _, n := range m.notifications {
			out = append(out, n.Descriptor())
		}
	}
	if all || strings.EqualFold(kind, KindMBean) {
		known = true
		out = append(out, m.mbean.Clone())
	}
	if !known {
		return nil, apis.Errorf(apis.ErrIllegalArgument, opInfo, "unknown descriptor type %q", kind)
	}
	return out, nil
}

// SetDescriptors applies each descriptor according to its own
// descriptorType. It stops at the first failure.
func (m *ModelMBeanInfo) SetDescriptors(list []*descriptor.Descriptor) error {
	for _, d := range list {
		if err := m.SetDescriptor(d, ""); err != nil {
			return err
		}
	}
	return nil
}

// Descriptor returns a copy of the descriptor of the member called name in
// the category kind. An empty kind searches attributes, operations,
// constructors and notifications in that order. A miss returns nil.
func (m *ModelMBeanInfo) Descriptor(name, kind string) (*descriptor.Descriptor, error) {
	if name == "" {
		return nil, apis.Errorf(apis.ErrIllegalArgument, opInfo, "empty descriptor name")
	}
	if strings.EqualFold(kind, KindMBean) {
		return m.MBeanDescriptor(), nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	search := []string{KindAttribute, KindOperation, KindConstructor, KindNotification}
	if kind != "" && !strings.EqualFold(kind, KindAll) {
		search = []string{strings.ToLower(kind)}
	}
	for _, k := range search {
		switch k {
		case KindAttribute:
			if a := find(m.attributes, name); a != nil {
				return a.Descriptor(), nil
			}
		case KindOperation:
			if o := find(m.operations, name); o != nil {
				return o.Descriptor(), nil
			}
		case KindConstructor:
			if c := find(m.constructors, name); c != nil {
				return c.Descriptor(), nil
			}
		case KindNotification:
			if n := find(m.notifications, name); n != nil {
				return n.Descriptor(), nil
			}
		default:
			return nil, apis.Errorf(apis.ErrIllegalArgument, opInfo, "unknown descriptor type %q", kind)
		}
	}
	return nil, nil
}

// SetDescriptor replaces the descriptor of the member named by d's name
// field in the category kind, or in d's own descriptorType when kind is
// empty. The member validates d.
func (m *ModelMBeanInfo) SetDescriptor(d *descriptor.Descriptor, kind string) error {
	if d == nil {
		return apis.Errorf(apis.ErrIllegalArgument, opInfo, "nil descriptor")
	}
	if kind == "" {
		kind, _ = d.StringField(descriptor.DescriptorType)
	}
	if strings.EqualFold(kind, KindMBean) {
		return m.SetMBeanDescriptor(d)
	}
	name, _ := d.StringField(descriptor.Name)
	if name == "" {
		return apis.Errorf(apis.ErrIllegalArgument, opInfo, "descriptor has no name")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var target interface {
		SetDescriptor(*descriptor.Descriptor) error
	}
	switch strings.ToLower(kind) {
	case KindAttribute:
		if a := find(m.attributes, name); a != nil {
			target = a
		}
	case KindOperation:
		// Constructors are described with descriptorType=operation too.
		if o := find(m.operations, name); o != nil {
			target = o
		} else if role, _ := d.StringField(descriptor.Role); strings.EqualFold(role, RoleConstructor) {
			if c := find(m.constructors, name); c != nil {
				target = c
			}
		}
	case KindConstructor:
		if c := find(m.constructors, name); c != nil {
			target = c
		}
	case KindNotification:
		if n := find(m.notifications, name); n != nil {
			target = n
		}
	default:
		return apis.Errorf(apis.ErrIllegalArgument, opInfo, "unknown descriptor type %q", kind)
	}
	if target == nil {
		return apis.Errorf(apis.ErrIllegalArgument, opInfo, "no %s named %q", kind, name)
	}
	return target.SetDescriptor(d)
}

// IsValid reports whether the MBean descriptor and every member descriptor
// are valid.
func (m *ModelMBeanInfo) IsValid() bool {
	all, err := m.Descriptors(KindAll)
	if err != nil {
		return false
	}
	for _, d := range all {
		if !d.IsValid() {
			return false
		}
	}
	return true
}

// Clone returns an independent deep copy.
func (m *ModelMBeanInfo) Clone() *ModelMBeanInfo {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &ModelMBeanInfo{
		className:     m.className,
		description:   m.description,
		attributes:    cloneAll(m.attributes, (*AttributeInfo).Clone),
		constructors:  cloneAll(m.constructors, (*ConstructorInfo).Clone),
		operations:    cloneAll(m.operations, (*OperationInfo).Clone),
		notifications: cloneAll(m.notifications, (*NotificationInfo).Clone),
		mbean:         m.mbean.Clone(),
	}
}

// WithNotifications returns a copy whose notifications are replaced by list.
func (m *ModelMBeanInfo) WithNotifications(list []*NotificationInfo) *ModelMBeanInfo {
	c := m.Clone()
	c.notifications = cloneAll(list, (*NotificationInfo).Clone)
	return c
}

func (m *ModelMBeanInfo) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("ModelMBeanInfo{className=%s, description=%s, attributes=%d, constructors=%d, operations=%d, notifications=%d, descriptor={%v}}",
		m.className, m.description, len(m.attributes), len(m.constructors), len(m.operations), len(m.notifications), m.mbean)
}
