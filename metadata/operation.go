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

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/descriptor"
)

// Impact classifies what an operation does.
type Impact int

const (
	// ImpactInfo operations only return information.
	ImpactInfo Impact = iota
	// ImpactAction operations change state.
	ImpactAction
	// ImpactActionInfo operations change state and return information.
	ImpactActionInfo
	// ImpactUnknown is used when the effect is not known.
	ImpactUnknown
)

var impactNames = [...]string{"INFO", "ACTION", "ACTION_INFO", "UNKNOWN"}

func (i Impact) String() string {
	if i < ImpactInfo || i > ImpactUnknown {
		return fmt.Sprintf("Impact(%d)", int(i))
	}
	return impactNames[i]
}

// ParseImpact parses one of INFO, ACTION, ACTION_INFO or UNKNOWN (any case).
func ParseImpact(s string) (Impact, error) {
	for i, n := range impactNames {
		if strings.EqualFold(s, n) {
			return Impact(i), nil
		}
	}
	return ImpactUnknown, apis.Errorf(apis.ErrIllegalArgument, "metadata.impact", "unknown impact %q", s)
}

// ParameterInfo describes one operation or constructor parameter.
type ParameterInfo struct {
	Name        string
	Type        string
	Description string
}

func (p ParameterInfo) String() string {
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

var operationRules = rules{
	op:   "metadata.operation",
	kind: KindOperation,
	defaults: func(d *descriptor.Descriptor) error {
		return setIfAbsent(d, descriptor.Role, RoleOperation)
	},
	check: func(d *descriptor.Descriptor) error {
		role, _ := d.StringField(descriptor.Role)
		for _, r := range []string{RoleOperation, RoleGetter, RoleSetter} {
			if strings.EqualFold(role, r) {
				return nil
			}
		}
		return apis.Errorf(apis.ErrIllegalArgument, "metadata.operation", "invalid role %q", role)
	},
}

// OperationInfo describes one managed operation.
type OperationInfo struct {
	feature
	params     []ParameterInfo
	returnType string
	impact     Impact
}

// NewOperationInfo describes operation name. A nil descriptor is replaced
// by a default one with role=operation.
func NewOperationInfo(name, description string, params []ParameterInfo, returnType string, impact Impact, d *descriptor.Descriptor) (*OperationInfo, error) {
	if err := requireName(operationRules.op, name); err != nil {
		return nil, err
	}
	if impact < ImpactInfo || impact > ImpactUnknown {
		return nil, apis.Errorf(apis.ErrIllegalArgument, operationRules.op, "invalid impact %d", int(impact))
	}
	o := &OperationInfo{
		feature:    feature{name: name, description: description},
		params:     append([]ParameterInfo(nil), params...),
		returnType: returnType,
		impact:     impact,
	}
	if err := o.SetDescriptor(d); err != nil {
		return nil, err
	}
	return o, nil
}

// Signature returns a copy of the parameter list.
func (o *OperationInfo) Signature() []ParameterInfo { return append([]ParameterInfo(nil), o.params...) }

// ReturnType returns the declared return type name.
func (o *OperationInfo) ReturnType() string { return o.returnType }

// Impact returns the operation impact.
func (o *OperationInfo) Impact() Impact { return o.impact }

// SetDescriptor validates, defaults and stores a copy of d.
func (o *OperationInfo) SetDescriptor(d *descriptor.Descriptor) error {
	nd, err := operationRules.prepare(o.name, d)
	if err != nil {
		return err
	}
	o.store(nd)
	return nil
}

// Clone returns an independent copy.
func (o *OperationInfo) Clone() *OperationInfo {
	if o == nil {
		return nil
	}
	return &OperationInfo{
		feature:    feature{name: o.name, description: o.description, desc: o.Descriptor()},
		params:     o.Signature(),
		returnType: o.returnType,
		impact:     o.impact,
	}
}

func (o *OperationInfo) String() string {
	return fmt.Sprintf("OperationInfo{name=%s, returnType=%s, signature=%v, impact=%s, description=%s, descriptor={%v}}",
		o.name, o.returnType, o.params, o.impact, o.description, o.Descriptor())
}

// Constructors carry descriptorType=operation with role=constructor.
var constructorRules = rules{
	op:   "metadata.constructor",
	kind: KindOperation,
	defaults: func(d *descriptor.Descriptor) error {
		return setIfAbsent(d, descriptor.Role, RoleConstructor)
	},
	check: func(d *descriptor.Descriptor) error {
		if role, _ := d.StringField(descriptor.Role); !strings.EqualFold(role, RoleConstructor) {
			return apis.Errorf(apis.ErrIllegalArgument, "metadata.constructor", "invalid role %q", role)
		}
		return nil
	},
}

// ConstructorInfo describes one way of creating the managed resource.
type ConstructorInfo struct {
	feature
	params []ParameterInfo
}

// NewConstructorInfo describes constructor name.
func NewConstructorInfo(name, description string, params []ParameterInfo, d *descriptor.Descriptor) (*ConstructorInfo, error) {
	if err := requireName(constructorRules.op, name); err != nil {
		return nil, err
	}
	c := &ConstructorInfo{
		feature: feature{name: name, description: description},
		params:  append([]ParameterInfo(nil), params...),
	}
	if err := c.SetDescriptor(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Signature returns a copy of the parameter list.
func (c *ConstructorInfo) Signature() []ParameterInfo { return append([]ParameterInfo(nil), c.params...) }

// SetDescriptor validates, defaults and stores a copy of d.
func (c *ConstructorInfo) SetDescriptor(d *descriptor.Descriptor) error {
	nd, err := constructorRules.prepare(c.name, d)
	if err != nil {
		return err
	}
	c.store(nd)
	return nil
}

// Clone returns an independent copy.
func (c *ConstructorInfo) Clone() *ConstructorInfo {
	if c == nil {
		return nil
	}
	return &ConstructorInfo{
		feature: feature{name: c.name, description: c.description, desc: c.Descriptor()},
		params:  c.Signature(),
	}
}

func (c *ConstructorInfo) String() string {
	return fmt.Sprintf("ConstructorInfo{name=%s, signature=%v, description=%s, descriptor={%v}}",
		c.name, c.params, c.description, c.Descriptor())
}
