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


// Package modelmbean implements RequiredModelMBean, a descriptor-driven
// engine that exposes an arbitrary Go value as a managed component.
//
// Attribute reads and writes and operation calls are routed through the
// engine's ModelMBeanInfo: descriptors name the getter, setter, target and
// cache policy of every member, and the engine resolves and calls the
// matching method on the managed resource, on an explicit target object
// or on itself.
package modelmbean

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/builder"
	"dirpx.dev/mbean/cache"
	"dirpx.dev/mbean/config"
	"dirpx.dev/mbean/dispatch"
	"dirpx.dev/mbean/metadata"
	"dirpx.dev/mbean/notification"
	"dirpx.dev/mbean/observability"
	uref "dirpx.dev/mbean/utils/reflect"
)

// ResourceTypeObjectReference is the only supported managed resource type.
const ResourceTypeObjectReference = "objectReference"

const (
	opGetAttribute = "getAttribute"
	opSetAttribute = "setAttribute"
	opInvoke       = "invoke"
	opSetInfo      = "setModelMBeanInfo"
	opSetResource  = "setManagedResource"
	opPreRegister  = "preRegister"
	opLoad         = "load"
	opStore        = "store"
	opSend         = "sendNotification"
	opAddListener  = "addNotificationListener"
)

const defaultDescription = "Default ModelMBean"

// Attribute is a named attribute value.
type Attribute struct {
	Name  string
	Value any
}

// RequiredModelMBean is the model MBean engine. It is safe for concurrent use.
//
// Member descriptors are read-mostly: SetDescriptors on the installed
// metadata while calls are in flight is not coordinated with dispatch.
type RequiredModelMBean struct {
	cfg     apis.Config
	logger  *zap.Logger
	clock   func() time.Time
	metrics *observability.Metrics

	types       apis.Registry
	names       apis.Resolver
	targets     apis.TargetResolver
	repository  apis.Registry
	engineClass string
	builtins    map[string]struct{}

	mu         sync.RWMutex
	info       *metadata.ModelMBeanInfo
	resource   any
	server     apis.Server
	objectName string
	registered bool

	cache           cache.Table
	defaultCurrency cache.Currency
	general         *notification.Broadcaster
	attrChange      *notification.Broadcaster
	seq             atomic.Int64
}

// New returns an unregistered engine. A nil info installs an empty default
// ModelMBeanInfo; otherwise info is validated and copied as by
// SetModelMBeanInfo. A malformed Config.DefaultCurrency is an
// ErrIllegalArgument.
func New(info *metadata.ModelMBeanInfo, opts ...Option) (*RequiredModelMBean, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	cfg := config.DefaultConfig()
	if o.cfg != nil {
		cfg = *o.cfg
	}
	b := o.builder
	if b == nil {
		b = builder.New()
	}
	clock := o.clock
	if clock == nil {
		clock = time.Now
	}
	logger := observability.WithComponent(o.logger, "modelmbean")
	var currency cache.Currency
	if err := currency.UnmarshalText([]byte(cfg.DefaultCurrency)); err != nil {
		return nil, apis.Wrap(apis.ErrIllegalArgument, "new", err, "default currency")
	}

	m := &RequiredModelMBean{
		cfg:             cfg,
		logger:          logger,
		clock:           clock,
		metrics:         o.metrics,
		repository:      o.repository,
		defaultCurrency: currency,
	}
	m.types = b.BuildRegistry(cfg, o.types, nil)
	m.names = b.BuildResolver(cfg, m.types, nil, nil)
	m.targets = b.BuildTargetResolver(cfg, m.names, nil)
	m.engineClass = m.names.Resolve(m, cfg)
	m.general = notification.NewBroadcaster("general", logger, o.metrics)
	m.attrChange = notification.NewBroadcaster("attribute", logger, o.metrics)

	d, err := dispatch.For(m)
	if err != nil {
		return nil, err
	}
	names := d.Names()
	m.builtins = make(map[string]struct{}, len(names))
	for _, n := range names {
		m.builtins[n] = struct{}{}
	}

	if info == nil {
		info, err = metadata.NewModelMBeanInfo(m.engineClass, defaultDescription, nil, nil, nil, nil, nil)
		if err != nil {
			return nil, err
		}
	}
	if err := m.SetModelMBeanInfo(info); err != nil {
		return nil, err
	}
	return m, nil
}

// SetModelMBeanInfo installs a copy of info and reseeds the cache from the
// descriptors' value and lastUpdatedTimeStamp fields.
func (m *RequiredModelMBean) SetModelMBeanInfo(info *metadata.ModelMBeanInfo) error {
	if info == nil {
		return apis.Errorf(apis.ErrIllegalArgument, opSetInfo, "nil ModelMBeanInfo")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registered {
		return apis.Errorf(apis.ErrIllegalState, opSetInfo, "engine is registered")
	}
	if !info.IsValid() {
		return apis.Errorf(apis.ErrIllegalArgument, opSetInfo, "invalid ModelMBeanInfo for %s", info.ClassName())
	}
	c := info.Clone()
	m.cache.Reset()
	seed(&m.cache, c)
	m.info = c
	m.logger.Debug("model mbean info installed", zap.String("class", c.ClassName()))
	return nil
}

// GetMBeanInfo returns a copy of the installed metadata whose notifications
// include the implicit GENERIC and ATTRIBUTE_CHANGE entries.
func (m *RequiredModelMBean) GetMBeanInfo() *metadata.ModelMBeanInfo {
	return m.snapshot().WithNotifications(m.GetNotificationInfo())
}

// SetManagedResource sets the object that operations are invoked on.
// typ must be "objectReference" (case-insensitive).
func (m *RequiredModelMBean) SetManagedResource(r any, typ string) error {
	if r == nil {
		return apis.Errorf(apis.ErrIllegalArgument, opSetResource, "nil managed resource")
	}
	if !strings.EqualFold(typ, ResourceTypeObjectReference) {
		return apis.Errorf(apis.ErrInvalidTargetType, opSetResource, "unsupported resource type %q", typ)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registered {
		return apis.Errorf(apis.ErrIllegalState, opSetResource, "engine is registered")
	}
	m.resource = r
	m.registerTypes(reflect.TypeOf(r))
	return nil
}

// registerTypes names the resource type and the named parameter types of
// its methods in the engine registry so that signatures can refer to them.
func (m *RequiredModelMBean) registerTypes(t reflect.Type) {
	m.registerType(t)
	for i := 0; i < t.NumMethod(); i++ {
		ft := t.Method(i).Type
		for j := 1; j < ft.NumIn(); j++ {
			m.registerType(ft.In(j))
		}
	}
}

func (m *RequiredModelMBean) registerType(t reflect.Type) {
	base, err := uref.Normalize(t, m.cfg)
	if err != nil || base == nil || base.PkgPath() == "" {
		return
	}
	name := m.names.ResolveType(base, m.cfg)
	if name == "" {
		return
	}
	if err := m.types.Register(base, name); err != nil {
		m.logger.Debug("type not registered", zap.String("type", name), zap.Error(err))
	}
}

// PreRegister records the registrar and the name the engine is registered
// under, and returns that name.
func (m *RequiredModelMBean) PreRegister(server apis.Server, name string) (string, error) {
	if name == "" {
		return "", apis.Errorf(apis.ErrIllegalArgument, opPreRegister, "empty object name")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registered {
		return "", apis.Errorf(apis.ErrIllegalState, opPreRegister, "engine is already registered as %q", m.objectName)
	}
	m.server = server
	m.objectName = name
	return name, nil
}

// PostRegister completes registration. A failed registration forgets the
// registrar recorded by PreRegister.
func (m *RequiredModelMBean) PostRegister(done bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if done {
		m.registered = true
		return
	}
	m.server = nil
	m.objectName = ""
}

// PreDeregister is a no-op.
func (m *RequiredModelMBean) PreDeregister() error {
	return nil
}

// PostDeregister drops the managed resource and the registrar.
func (m *RequiredModelMBean) PostDeregister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resource = nil
	m.server = nil
	m.objectName = ""
	m.registered = false
}

// IsRegistered reports whether PostRegister(true) ran since the last
// PostDeregister.
func (m *RequiredModelMBean) IsRegistered() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registered
}

// Load is not supported.
func (m *RequiredModelMBean) Load() error {
	return apis.Wrap(apis.ErrMBean, opLoad,
		apis.Errorf(apis.ErrServiceNotFound, opLoad, "persistence is not supported"), "")
}

// Store is not supported.
func (m *RequiredModelMBean) Store() error {
	return apis.Wrap(apis.ErrMBean, opStore,
		apis.Errorf(apis.ErrServiceNotFound, opStore, "persistence is not supported"), "")
}

func (m *RequiredModelMBean) snapshot() *metadata.ModelMBeanInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info
}

func (m *RequiredModelMBean) managedResource() any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resource
}

// source is the notification source: the registered name, or the engine
// class before registration.
func (m *RequiredModelMBean) source() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.objectName != "" {
		return m.objectName
	}
	return m.engineClass
}

// isBuiltin reports whether method names one of the engine's own methods.
func (m *RequiredModelMBean) isBuiltin(method string) bool {
	if _, ok := m.builtins[method]; ok {
		return true
	}
	if m.cfg.FoldMethodNames {
		_, ok := m.builtins[exported(method)]
		return ok
	}
	return false
}

// resolveType resolves a declared type name through the primitive table,
// the engine registry, the registrar's repository and the global repository.
func (m *RequiredModelMBean) resolveType(op, name string) (reflect.Type, error) {
	if t, ok := uref.ResolveName(name, m.findType); ok {
		return t, nil
	}
	return nil, apis.Errorf(apis.ErrReflection, op, "cannot resolve type %q", name)
}

func (m *RequiredModelMBean) findType(name string) (reflect.Type, bool) {
	if t, ok := m.types.Find(name); ok {
		return t, true
	}
	m.mu.RLock()
	server := m.server
	m.mu.RUnlock()
	if server != nil {
		if repo := server.TypeRepository(); repo != nil {
			if t, ok := repo.Find(name); ok {
				return t, true
			}
		}
	}
	if m.repository != nil {
		return m.repository.Find(name)
	}
	return nil, false
}

// exported returns name with its first letter upper-cased.
func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
