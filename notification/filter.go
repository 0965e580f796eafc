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

package notification

import (
	"sort"
	"strings"
	"sync"
)

// Listener receives notifications.
type Listener interface {
	HandleNotification(n *Notification, handback any)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(n *Notification, handback any)

// HandleNotification calls f.
func (f ListenerFunc) HandleNotification(n *Notification, handback any) { f(n, handback) }

// Filter decides whether a listener sees a notification.
type Filter interface {
	IsNotificationEnabled(n *Notification) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(n *Notification) bool

// IsNotificationEnabled calls f.
func (f FilterFunc) IsNotificationEnabled(n *Notification) bool { return f(n) }

// TypeFilter passes notifications whose type starts with one of its prefixes.
type TypeFilter []string

// IsNotificationEnabled implements Filter.
func (t TypeFilter) IsNotificationEnabled(n *Notification) bool {
	for _, p := range t {
		if strings.HasPrefix(n.Type, p) {
			return true
		}
	}
	return false
}

// AttributeChangeFilter passes attribute-change notifications for the
// attributes it has enabled.
type AttributeChangeFilter struct {
	mu      sync.RWMutex
	enabled map[string]struct{}
}

// NewAttributeChangeFilter enables names.
func NewAttributeChangeFilter(names ...string) *AttributeChangeFilter {
	f := &AttributeChangeFilter{enabled: make(map[string]struct{}, len(names))}
	for _, n := range names {
		f.enabled[n] = struct{}{}
	}
	return f
}

// Enable starts passing changes of name.
func (f *AttributeChangeFilter) Enable(name string) {
	f.mu.Lock()
	f.enabled[name] = struct{}{}
	f.mu.Unlock()
}

// Disable stops passing changes of name.
func (f *AttributeChangeFilter) Disable(name string) {
	f.mu.Lock()
	delete(f.enabled, name)
	f.mu.Unlock()
}

// DisableAll stops passing everything.
func (f *AttributeChangeFilter) DisableAll() {
	f.mu.Lock()
	clear(f.enabled)
	f.mu.Unlock()
}

// Enabled returns the enabled attribute names, sorted.
func (f *AttributeChangeFilter) Enabled() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.enabled))
	for n := range f.enabled {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IsNotificationEnabled implements Filter.
func (f *AttributeChangeFilter) IsNotificationEnabled(n *Notification) bool {
	if n.Type != TypeAttributeChange || n.Change == nil {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.enabled[n.Change.Name]
	return ok
}
