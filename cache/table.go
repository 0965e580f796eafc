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

package cache

import (
	"sync"
	"time"
)

// Key identifies a cached attribute or operation result.
type Key struct {
	Kind string
	Name string
}

// Table is a side-table of cache entries keyed by (kind, name). Each entry
// has its own lock; distinct entries never contend.
//
// The zero value is ready to use.
type Table struct {
	entries sync.Map // Key -> *Entry
}

// Entry returns the entry for k, creating it on first use.
func (t *Table) Entry(k Key) *Entry {
	if e, ok := t.entries.Load(k); ok {
		return e.(*Entry)
	}
	e, _ := t.entries.LoadOrStore(k, &Entry{})
	return e.(*Entry)
}

// Reset drops every entry.
func (t *Table) Reset() {
	t.entries.Clear()
}

// Entry is one cached value and the time it was last updated.
type Entry struct {
	mu      sync.Mutex
	value   any
	updated time.Time
	set     bool
}

// Resolve returns the stored value when it is valid under cur at now.
// When cur says the value must go (Never, or Timed and expired) the entry
// is cleared and evict, if non-nil, runs while the entry is locked.
func (e *Entry) Resolve(cur Currency, now time.Time, evict func()) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch cur.Policy {
	case Never:
		if e.set {
			e.clear()
			if evict != nil {
				evict()
			}
		}
		return nil, false
	case Forever:
		return e.value, e.set
	case Timed:
		if !e.set {
			return nil, false
		}
		if now.Before(e.updated.Add(cur.Limit)) {
			return e.value, true
		}
		e.clear()
		if evict != nil {
			evict()
		}
		return nil, false
	default:
		return nil, false
	}
}

// Store records v as updated at. commit, if non-nil, runs while the entry
// is still locked so that a projection of the entry can be kept in step.
func (e *Entry) Store(v any, at time.Time, commit func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value, e.updated, e.set = v, at, true
	if commit != nil {
		commit()
	}
}

// Value returns the stored value and its update time regardless of policy.
func (e *Entry) Value() (any, time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.updated, e.set
}

func (e *Entry) clear() {
	e.value, e.updated, e.set = nil, time.Time{}, false
}
