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


package modelmbean

import (
	"time"

	"go.uber.org/zap"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/cache"
	"dirpx.dev/mbean/descriptor"
	"dirpx.dev/mbean/metadata"
	uref "dirpx.dev/mbean/utils/reflect"
)

// oldValueUnknown stands for the previous value when it cannot be read.
const oldValueUnknown = "Unknown"

// seed loads cache entries from the value and lastUpdatedTimeStamp fields
// of attribute and operation descriptors.
func seed(t *cache.Table, info *metadata.ModelMBeanInfo) {
	for _, a := range info.Attributes() {
		seedEntry(t, cache.Key{Kind: metadata.KindAttribute, Name: a.Name()}, a.Descriptor())
	}
	for _, o := range info.Operations() {
		seedEntry(t, cache.Key{Kind: metadata.KindOperation, Name: o.Name()}, o.Descriptor())
	}
}

func seedEntry(t *cache.Table, k cache.Key, d *descriptor.Descriptor) {
	v, ok := d.Lookup(descriptor.Value)
	if !ok || v == nil {
		return
	}
	var at time.Time
	if raw, ok := d.Lookup(descriptor.LastUpdatedTimeStamp); ok {
		if ms, ok := descriptor.AsInt64(raw); ok {
			at = time.UnixMilli(ms)
		}
	}
	t.Entry(k).Store(v, at, nil)
}

// project mirrors a cache entry into the member descriptor.
func (m *RequiredModelMBean) project(info *metadata.ModelMBeanInfo, k cache.Key, v any, at time.Time, stamp bool) {
	d, err := info.Descriptor(k.Name, k.Kind)
	if err != nil || d == nil {
		return
	}
	if err := d.SetField(descriptor.Value, v); err != nil {
		m.logger.Debug("value not projected", zap.String(k.Kind, k.Name), zap.Error(err))
		return
	}
	if stamp {
		_ = d.SetField(descriptor.LastUpdatedTimeStamp, at.UnixMilli())
	}
	if err := info.SetDescriptor(d, k.Kind); err != nil {
		m.logger.Debug("value not projected", zap.String(k.Kind, k.Name), zap.Error(err))
	}
}

// evict returns a callback clearing the cached fields of a member descriptor.
func (m *RequiredModelMBean) evict(info *metadata.ModelMBeanInfo, k cache.Key) func() {
	return func() {
		d, err := info.Descriptor(k.Name, k.Kind)
		if err != nil || d == nil {
			return
		}
		d.RemoveField(descriptor.Value)
		d.RemoveField(descriptor.LastUpdatedTimeStamp)
		if err := info.SetDescriptor(d, k.Kind); err != nil {
			m.logger.Debug("cached value not cleared", zap.String(k.Kind, k.Name), zap.Error(err))
		}
	}
}

// currency resolves the cache rule for a member descriptor: its own
// currencyTimeLimit, then the MBean's, then the configured default.
func (m *RequiredModelMBean) currency(desc *descriptor.Descriptor, info *metadata.ModelMBeanInfo) cache.Currency {
	return cache.Resolve(desc, info.MBeanDescriptor()).Or(m.defaultCurrency)
}

// lookup consults the cache entry for k under cur and records the result.
func (m *RequiredModelMBean) lookup(info *metadata.ModelMBeanInfo, k cache.Key, cur cache.Currency) (*cache.Entry, any, bool) {
	e := m.cache.Entry(k)
	v, hit := e.Resolve(cur, m.clock(), m.evict(info, k))
	if cur.Policy != cache.Unset {
		m.metrics.RecordCacheLookup(k.Kind, hit)
	}
	return e, v, hit
}

// GetAttribute returns the current value of the attribute called name.
func (m *RequiredModelMBean) GetAttribute(name string) (v any, err error) {
	start := time.Now()
	defer func() { m.metrics.RecordDispatch(opGetAttribute, time.Since(start), err) }()

	if name == "" {
		return nil, apis.Errorf(apis.ErrIllegalArgument, opGetAttribute, "empty attribute name")
	}
	info := m.snapshot()
	attr := info.Attribute(name)
	if attr == nil || !attr.IsReadable() {
		return nil, apis.Errorf(apis.ErrAttributeNotFound, opGetAttribute, "no readable attribute %q", name)
	}
	desc := attr.Descriptor()
	cur := m.currency(desc, info)
	k := cache.Key{Kind: metadata.KindAttribute, Name: name}

	entry, v, hit := m.lookup(info, k, cur)
	if !hit {
		if getter, _ := desc.StringField(descriptor.GetMethod); getter != "" {
			v, err = m.Invoke(getter, nil, nil)
			if err != nil {
				return nil, err
			}
			if cur.Caches() {
				now := m.clock()
				entry.Store(v, now, func() { m.project(info, k, v, now, true) })
			}
		} else if stored, _, ok := entry.Value(); ok {
			v = stored
		} else {
			// An eviction during lookup cleared value in the installed
			// descriptor, not in desc.
			if fresh := info.Attribute(name); fresh != nil {
				desc = fresh.Descriptor()
			}
			v = fallbackValue(desc)
		}
	}

	if err := m.checkType(opGetAttribute, attr.Type(), v); err != nil {
		return nil, err
	}
	m.logger.Debug("attribute read", zap.String("attribute", name), zap.Bool("cached", hit))
	return v, nil
}

// fallbackValue is the descriptor value, then the descriptor default.
func fallbackValue(d *descriptor.Descriptor) any {
	if v, ok := d.Lookup(descriptor.Value); ok && v != nil {
		return v
	}
	v, _ := d.Lookup(descriptor.Default)
	return v
}

// checkType validates v against the declared type name. An unresolvable
// type passes unless StrictTypeCheck is set.
func (m *RequiredModelMBean) checkType(op, typ string, v any) error {
	if v == nil {
		return nil
	}
	t, err := m.resolveType(op, typ)
	if err != nil {
		if m.cfg.StrictTypeCheck {
			return apis.Wrap(apis.ErrInvalidAttributeValue, op, err, "")
		}
		m.logger.Debug("attribute type not checked", zap.String("type", typ))
		return nil
	}
	if !uref.Compatible(v, t) {
		return apis.Errorf(apis.ErrInvalidAttributeValue, op, "value of type %T is not a %s", v, typ)
	}
	return nil
}

// SetAttribute updates an attribute through its setMethod or, without
// one, in the cache. An attribute-change notification follows every
// successful update.
func (m *RequiredModelMBean) SetAttribute(attr Attribute) (err error) {
	start := time.Now()
	defer func() { m.metrics.RecordDispatch(opSetAttribute, time.Since(start), err) }()

	if attr.Name == "" {
		return apis.Errorf(apis.ErrIllegalArgument, opSetAttribute, "empty attribute name")
	}
	info := m.snapshot()
	ai := info.Attribute(attr.Name)
	if ai == nil || !ai.IsWritable() {
		return apis.Errorf(apis.ErrAttributeNotFound, opSetAttribute, "no writable attribute %q", attr.Name)
	}
	desc := ai.Descriptor()
	cur := m.currency(desc, info)
	setter, _ := desc.StringField(descriptor.SetMethod)
	getter, _ := desc.StringField(descriptor.GetMethod)

	if setter == "" && getter != "" && !cur.Caches() {
		return apis.Wrap(apis.ErrMBean, opSetAttribute,
			apis.Errorf(apis.ErrServiceNotFound, opSetAttribute,
				"attribute %q has a getMethod but neither a setMethod nor caching", attr.Name), "")
	}

	old := any(oldValueUnknown)
	if v, err := m.GetAttribute(attr.Name); err == nil {
		old = v
	}

	if setter != "" {
		if _, err := m.Invoke(setter, []any{attr.Value}, []string{ai.Type()}); err != nil {
			return err
		}
	} else if err := m.checkType(opSetAttribute, ai.Type(), attr.Value); err != nil {
		return err
	}

	if cur.Caches() || setter == "" {
		k := cache.Key{Kind: metadata.KindAttribute, Name: attr.Name}
		now := m.clock()
		stamp := cur.Caches()
		m.cache.Entry(k).Store(attr.Value, now, func() { m.project(info, k, attr.Value, now, stamp) })
	}

	if err := m.SendAttributeChange(Attribute{Name: attr.Name, Value: old}, attr); err != nil {
		m.logger.Warn("attribute change not sent", zap.String("attribute", attr.Name), zap.Error(err))
	}
	m.logger.Debug("attribute written", zap.String("attribute", attr.Name))
	return nil
}

// GetAttributes reads each named attribute. Attributes that cannot be read
// are left out of the result.
func (m *RequiredModelMBean) GetAttributes(names []string) []Attribute {
	out := make([]Attribute, 0, len(names))
	for _, n := range names {
		v, err := m.GetAttribute(n)
		if err != nil {
			m.logger.Warn("attribute skipped", zap.String("attribute", n), zap.Error(err))
			continue
		}
		out = append(out, Attribute{Name: n, Value: v})
	}
	return out
}

// SetAttributes writes each attribute and returns the ones that were set.
func (m *RequiredModelMBean) SetAttributes(attrs []Attribute) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		if err := m.SetAttribute(a); err != nil {
			m.logger.Warn("attribute skipped", zap.String("attribute", a.Name), zap.Error(err))
			continue
		}
		out = append(out, a)
	}
	return out
}
