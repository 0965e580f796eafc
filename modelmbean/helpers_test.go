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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/config"
	"dirpx.dev/mbean/descriptor"
	"dirpx.dev/mbean/metadata"
	"dirpx.dev/mbean/modelmbean"
	"dirpx.dev/mbean/notification"
)

var errBoom = errors.New("boom")

type setting struct{ Key, Value string }

// thermostat is the managed resource used across the engine tests.
type thermostat struct {
	mu      sync.Mutex
	fetches int
	level   int
	applied []setting
}

func (t *thermostat) FetchX() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetches++
	return 42
}

func (t *thermostat) Level() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.level
}

func (t *thermostat) SetLevel(v int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.level = v
}

func (t *thermostat) Add(a, b int) int { return a + b }

func (t *thermostat) Apply(s setting) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.applied = append(t.applied, s)
}

func (t *thermostat) Fail() error { return errBoom }

func (t *thermostat) Explode() { panic("overheated") }

func (t *thermostat) GetMBeanInfo() string { return "resource" }

func (t *thermostat) fetchCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetches
}

type override struct{}

func (override) GetMBeanInfo() string { return "override" }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeServer struct{ repo apis.Registry }

func (s fakeServer) TypeRepository() apis.Registry { return s.repo }

type recorder struct {
	mu  sync.Mutex
	got []*notification.Notification
}

func (r *recorder) HandleNotification(n *notification.Notification, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) all() []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*notification.Notification(nil), r.got...)
}

func attr(t testing.TB, name, typ string, readable, writable bool, fields ...string) *metadata.AttributeInfo {
	t.Helper()
	d := descriptor.MustNew(append([]string{"name=" + name, "descriptorType=attribute"}, fields...)...)
	a, err := metadata.NewAttributeInfo(name, typ, name+" attribute", readable, writable, false, d)
	require.NoError(t, err)
	return a
}

func op(t testing.TB, name, ret string, params []metadata.ParameterInfo, fields ...string) *metadata.OperationInfo {
	t.Helper()
	d := descriptor.MustNew(append([]string{"name=" + name, "descriptorType=operation", "role=operation"}, fields...)...)
	o, err := metadata.NewOperationInfo(name, name+" operation", params, ret, metadata.ImpactUnknown, d)
	require.NoError(t, err)
	return o
}

func ints(names ...string) []metadata.ParameterInfo {
	out := make([]metadata.ParameterInfo, len(names))
	for i, n := range names {
		out[i] = metadata.ParameterInfo{Name: n, Type: "int"}
	}
	return out
}

func newInfo(t testing.TB, attrs []*metadata.AttributeInfo, ops []*metadata.OperationInfo, notifs []*metadata.NotificationInfo, mbean *descriptor.Descriptor) *metadata.ModelMBeanInfo {
	t.Helper()
	info, err := metadata.NewModelMBeanInfo("Thermostat", "test thermostat", attrs, nil, ops, notifs, mbean)
	require.NoError(t, err)
	return info
}

func newEngine(t testing.TB, info *metadata.ModelMBeanInfo, resource any, opts ...modelmbean.Option) *modelmbean.RequiredModelMBean {
	t.Helper()
	opts = append([]modelmbean.Option{modelmbean.WithConfig(config.NewConfig(config.WithNotificationLogging(false)))}, opts...)
	m, err := modelmbean.New(info, opts...)
	require.NoError(t, err)
	if resource != nil {
		require.NoError(t, m.SetManagedResource(resource, modelmbean.ResourceTypeObjectReference))
	}
	return m
}
