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

	"dirpx.dev/mbean/descriptor"
)

// DefaultSeverity is applied to notification descriptors that have none.
const DefaultSeverity = 6

var notificationRules = rules{
	op:   "metadata.notification",
	kind: KindNotification,
	defaults: func(d *descriptor.Descriptor) error {
		return setIfAbsent(d, descriptor.Severity, DefaultSeverity)
	},
}

// NotificationInfo describes one notification emitted by the managed resource.
type NotificationInfo struct {
	feature
	types []string
}

// NewNotificationInfo describes notification name carrying the given types.
func NewNotificationInfo(types []string, name, description string, d *descriptor.Descriptor) (*NotificationInfo, error) {
	if err := requireName(notificationRules.op, name); err != nil {
		return nil, err
	}
	n := &NotificationInfo{
		feature: feature{name: name, description: description},
		types:   append([]string(nil), types...),
	}
	if err := n.SetDescriptor(d); err != nil {
		return nil, err
	}
	return n, nil
}

// Types returns a copy of the notification types.
func (n *NotificationInfo) Types() []string { return append([]string(nil), n.types...) }

// SetDescriptor validates, defaults and stores a copy of d.
func (n *NotificationInfo) SetDescriptor(d *descriptor.Descriptor) error {
	nd, err := notificationRules.prepare(n.name, d)
	if err != nil {
		return err
	}
	n.store(nd)
	return nil
}

// Clone returns an independent copy.
func (n *NotificationInfo) Clone() *NotificationInfo {
	if n == nil {
		return nil
	}
	return &NotificationInfo{
		feature: feature{name: n.name, description: n.description, desc: n.Descriptor()},
		types:   n.Types(),
	}
}

func (n *NotificationInfo) String() string {
	return fmt.Sprintf("NotificationInfo{name=%s, types=%v, description=%s, descriptor={%v}}",
		n.name, n.types, n.description, n.Descriptor())
}
