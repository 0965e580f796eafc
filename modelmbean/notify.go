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
	"reflect"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/descriptor"
	"dirpx.dev/mbean/metadata"
	"dirpx.dev/mbean/notification"
)

// Names of the notifications every engine can emit.
const (
	NotificationGeneric         = "GENERIC"
	NotificationAttributeChange = "ATTRIBUTE_CHANGE"
)

const attributeChangeMessage = "AttributeChangeDetected"

var implicitNotifications = []struct {
	name, typ, description string
}{
	{NotificationGeneric, notification.TypeGeneric, "A text notification has been issued by the managed resource"},
	{NotificationAttributeChange, notification.TypeAttributeChange, "Signifies that an observed MBean attribute value has changed"},
}

// GetNotificationInfo returns the declared notifications preceded by the
// GENERIC and ATTRIBUTE_CHANGE entries that are not declared by name.
func (m *RequiredModelMBean) GetNotificationInfo() []*metadata.NotificationInfo {
	declared := m.snapshot().Notifications()
	out := make([]*metadata.NotificationInfo, 0, len(declared)+len(implicitNotifications))
	for _, in := range implicitNotifications {
		if slices.ContainsFunc(declared, func(n *metadata.NotificationInfo) bool { return n.Name() == in.name }) {
			continue
		}
		d := descriptor.MustNew(
			"name="+in.name,
			"descriptorType="+metadata.KindNotification,
			"log=T",
			"severity=6",
			"displayName="+in.typ,
		)
		n, err := metadata.NewNotificationInfo([]string{in.typ}, in.name, in.description, d)
		if err != nil {
			m.logger.Debug("implicit notification skipped", zap.String("notification", in.name), zap.Error(err))
			continue
		}
		out = append(out, n)
	}
	return append(out, declared...)
}

// AddNotificationListener registers l for every notification the engine
// sends. filter may be nil.
func (m *RequiredModelMBean) AddNotificationListener(l notification.Listener, filter notification.Filter, handback any) (uuid.UUID, error) {
	return m.general.AddListener(l, filter, handback)
}

// RemoveNotificationListener drops a registration made by AddNotificationListener.
func (m *RequiredModelMBean) RemoveNotificationListener(id uuid.UUID) error {
	return m.general.RemoveListener(id)
}

// AddAttributeChangeNotificationListener registers l for changes of attr,
// or of every attribute when attr is empty.
func (m *RequiredModelMBean) AddAttributeChangeNotificationListener(l notification.Listener, attr string, handback any) (uuid.UUID, error) {
	if l == nil {
		return uuid.Nil, apis.Errorf(apis.ErrIllegalArgument, opAddListener, "nil listener")
	}
	info := m.snapshot()
	filter := notification.NewAttributeChangeFilter()
	if attr == "" {
		for _, a := range info.Attributes() {
			filter.Enable(a.Name())
		}
	} else {
		if info.Attribute(attr) == nil {
			return uuid.Nil, apis.Errorf(apis.ErrIllegalArgument, opAddListener, "no attribute %q", attr)
		}
		filter.Enable(attr)
	}
	return m.attrChange.AddListener(l, filter, handback)
}

// RemoveAttributeChangeNotificationListener drops a registration made by
// AddAttributeChangeNotificationListener.
func (m *RequiredModelMBean) RemoveAttributeChangeNotificationListener(id uuid.UUID) error {
	return m.attrChange.RemoveListener(id)
}

// SendNotification logs n when its descriptor asks for it and delivers it
// to the general listeners. A nil source is replaced by the engine.
func (m *RequiredModelMBean) SendNotification(n *notification.Notification) error {
	if n == nil {
		return apis.Errorf(apis.ErrIllegalArgument, opSend, "nil notification")
	}
	if n.Source == nil {
		n.Source = m.source()
	}
	info := m.snapshot()
	m.logNotification(n, notificationDescriptor(info, n.Type), info.MBeanDescriptor())
	m.general.Send(n)
	return nil
}

// SendText sends a GENERIC notification carrying msg.
func (m *RequiredModelMBean) SendText(msg string) error {
	if msg == "" {
		return apis.Errorf(apis.ErrIllegalArgument, opSend, "empty notification text")
	}
	return m.SendNotification(notification.New(notification.TypeGeneric, m.source(), m.seq.Add(1), m.clock(), msg))
}

// SendAttributeChangeNotification delivers an attribute-change notification
// to the attribute-change listeners and then to the general listeners. Like
// SendNotification it is logged per the descriptor declared for its type.
func (m *RequiredModelMBean) SendAttributeChangeNotification(n *notification.Notification) error {
	if n == nil || n.Change == nil || n.Type != notification.TypeAttributeChange {
		return apis.Errorf(apis.ErrIllegalArgument, opSend, "not an attribute change notification")
	}
	if n.Source == nil {
		n.Source = m.source()
	}
	info := m.snapshot()
	m.logNotification(n, notificationDescriptor(info, n.Type), info.MBeanDescriptor())
	m.attrChange.Send(n)
	m.general.Send(n)
	return nil
}

// SendAttributeChange builds and sends the change from old to updated.
// Both must name the same attribute.
func (m *RequiredModelMBean) SendAttributeChange(old, updated Attribute) error {
	if old.Name == "" || old.Name != updated.Name {
		return apis.Errorf(apis.ErrIllegalArgument, opSend,
			"attribute names %q and %q do not match", old.Name, updated.Name)
	}
	typ := "unknown"
	switch {
	case updated.Value != nil:
		typ = m.names.ResolveType(reflect.TypeOf(updated.Value), m.cfg)
	case old.Value != nil:
		typ = m.names.ResolveType(reflect.TypeOf(old.Value), m.cfg)
	}
	n := notification.NewAttributeChange(m.source(), m.seq.Add(1), m.clock(), attributeChangeMessage,
		notification.AttributeChange{Name: updated.Name, Type: typ, OldValue: old.Value, NewValue: updated.Value})
	return m.SendAttributeChangeNotification(n)
}

// notificationDescriptor finds the declared notification named typ, or
// else the one carrying typ among its types.
func notificationDescriptor(info *metadata.ModelMBeanInfo, typ string) *descriptor.Descriptor {
	if d, err := info.Descriptor(typ, metadata.KindNotification); err == nil && d != nil {
		return d
	}
	for _, n := range info.Notifications() {
		if slices.Contains(n.Types(), typ) {
			return n.Descriptor()
		}
	}
	return nil
}

// logNotification appends n to the descriptor's logfile when logging is
// enabled. log and logfile fall back to the MBean descriptor.
func (m *RequiredModelMBean) logNotification(n *notification.Notification, d, mbean *descriptor.Descriptor) {
	if !m.cfg.NotificationLogging {
		return
	}
	raw, ok := d.Lookup(descriptor.Log)
	if !ok {
		raw, _ = mbean.Lookup(descriptor.Log)
	}
	if enabled, ok := descriptor.AsBool(raw); !ok || !enabled {
		return
	}
	path, _ := d.StringField(descriptor.LogFile)
	if path == "" {
		path, _ = mbean.StringField(descriptor.LogFile)
	}
	if path == "" {
		return
	}
	if err := notification.Append(path, n); err != nil {
		m.logger.Debug("notification not logged", zap.String("logfile", path), zap.Error(err))
	}
}
