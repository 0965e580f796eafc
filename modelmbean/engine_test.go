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


package modelmbean_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/metadata"
	"dirpx.dev/mbean/modelmbean"
	"dirpx.dev/mbean/registry"
)

func TestNew_DefaultInfo(t *testing.T) {
	m, err := modelmbean.New(nil)
	require.NoError(t, err)

	info := m.GetMBeanInfo()
	assert.Equal(t, "modelmbean.RequiredModelMBean", info.ClassName())
	assert.Equal(t, "Default ModelMBean", info.Description())
	assert.Empty(t, info.Attributes())
	assert.Len(t, info.Notifications(), 2)
	assert.False(t, m.IsRegistered())
}

func TestSetModelMBeanInfo_CopiesInput(t *testing.T) {
	info := newInfo(t, []*metadata.AttributeInfo{attr(t, "Mode", "string", true, true, "default=auto")}, nil, nil, nil)
	m := newEngine(t, info, nil)

	d, err := info.Descriptor("Mode", metadata.KindAttribute)
	require.NoError(t, err)
	require.NoError(t, d.SetField("default", "manual"))
	require.NoError(t, info.SetDescriptor(d, metadata.KindAttribute))

	v, err := m.GetAttribute("Mode")
	require.NoError(t, err)
	assert.Equal(t, "auto", v)
}

func TestLifecycle(t *testing.T) {
	res := &thermostat{}
	info := newInfo(t, nil, []*metadata.OperationInfo{op(t, "add", "int", ints("a", "b"))}, nil, nil)
	m := newEngine(t, info, res)

	_, err := m.PreRegister(fakeServer{}, "")
	assert.ErrorIs(t, err, apis.ErrIllegalArgument)

	name, err := m.PreRegister(fakeServer{}, "demo:type=Thermostat")
	require.NoError(t, err)
	assert.Equal(t, "demo:type=Thermostat", name)
	assert.False(t, m.IsRegistered())
	m.PostRegister(true)
	assert.True(t, m.IsRegistered())

	_, err = m.PreRegister(fakeServer{}, "demo:type=Other")
	assert.ErrorIs(t, err, apis.ErrIllegalState)
	assert.ErrorIs(t, m.SetModelMBeanInfo(info), apis.ErrIllegalState)
	assert.ErrorIs(t, m.SetManagedResource(res, modelmbean.ResourceTypeObjectReference), apis.ErrIllegalState)

	v, err := m.Invoke("add", []any{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	require.NoError(t, m.PreDeregister())
	m.PostDeregister()
	assert.False(t, m.IsRegistered())

	_, err = m.Invoke("add", []any{1, 2}, nil)
	assert.ErrorIs(t, err, apis.ErrInstanceNotFound)
	require.NoError(t, m.SetModelMBeanInfo(info))
}

func TestPostRegisterFailedForgetsName(t *testing.T) {
	m := newEngine(t, nil, nil)
	_, err := m.PreRegister(fakeServer{}, "demo:type=Thermostat")
	require.NoError(t, err)
	m.PostRegister(false)
	assert.False(t, m.IsRegistered())

	rec := &recorder{}
	_, err = m.AddNotificationListener(rec, nil, nil)
	require.NoError(t, err)
	require.NoError(t, m.SendText("hello"))
	assert.Equal(t, "modelmbean.RequiredModelMBean", rec.all()[0].Source)
}

func TestSetModelMBeanInfo_Errors(t *testing.T) {
	m := newEngine(t, nil, nil)
	assert.ErrorIs(t, m.SetModelMBeanInfo(nil), apis.ErrIllegalArgument)
}

func TestSetManagedResource_Errors(t *testing.T) {
	m := newEngine(t, nil, nil)
	assert.ErrorIs(t, m.SetManagedResource(nil, modelmbean.ResourceTypeObjectReference), apis.ErrIllegalArgument)
	assert.ErrorIs(t, m.SetManagedResource(&thermostat{}, "RMIReference"), apis.ErrInvalidTargetType)
	assert.NoError(t, m.SetManagedResource(&thermostat{}, "OBJECTREFERENCE"))
}

func TestPersistenceUnsupported(t *testing.T) {
	m := newEngine(t, nil, nil)
	for _, err := range []error{m.Load(), m.Store()} {
		assert.ErrorIs(t, err, apis.ErrMBean)
		assert.ErrorIs(t, err, apis.ErrServiceNotFound)
	}
}

func TestTypeResolution_Repositories(t *testing.T) {
	res := &thermostat{}
	ops := []*metadata.OperationInfo{op(t, "apply", "void", []metadata.ParameterInfo{{Name: "s", Type: "acme.Setting"}})}
	global := registry.New(apis.Config{})
	m := newEngine(t, newInfo(t, nil, ops, nil, nil), res, modelmbean.WithRepository(global))

	// The auto-registered resource name resolves without any repository.
	_, err := m.Invoke("apply", []any{setting{Key: "a", Value: "1"}}, []string{"modelmbean_test.setting"})
	require.NoError(t, err)

	_, err = m.Invoke("apply", []any{setting{Key: "b"}}, nil)
	assert.ErrorIs(t, err, apis.ErrReflection)

	serverRepo := registry.New(apis.Config{})
	require.NoError(t, serverRepo.Register(reflect.TypeFor[setting](), "acme.Setting"))
	_, err = m.PreRegister(fakeServer{repo: serverRepo}, "demo:type=Thermostat")
	require.NoError(t, err)
	_, err = m.Invoke("apply", []any{setting{Key: "b"}}, nil)
	require.NoError(t, err)
	m.PostRegister(false)

	require.NoError(t, global.Register(reflect.TypeFor[setting](), "acme.Setting"))
	_, err = m.Invoke("apply", []any{setting{Key: "c"}}, nil)
	require.NoError(t, err)

	assert.Len(t, res.applied, 3)
}
