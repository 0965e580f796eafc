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

// Package notification carries notifications from an engine to its
// listeners and, optionally, to an append-only log file.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by the engine itself.
const (
	TypeGeneric         = "jmx.modelmbean.generic"
	TypeAttributeChange = "jmx.attribute.change"
)

// Notification is one event delivered to listeners.
type Notification struct {
	ID        uuid.UUID
	Type      string
	Source    any
	Sequence  int64
	Timestamp time.Time
	Message   string
	UserData  any
	// Change is set for TypeAttributeChange notifications.
	Change *AttributeChange
}

// AttributeChange describes an attribute update.
type AttributeChange struct {
	Name     string
	Type     string
	OldValue any
	NewValue any
}

// New returns a notification of typ stamped with a fresh ID.
func New(typ string, source any, seq int64, at time.Time, msg string) *Notification {
	return &Notification{
		ID:        uuid.New(),
		Type:      typ,
		Source:    source,
		Sequence:  seq,
		Timestamp: at,
		Message:   msg,
	}
}

// NewAttributeChange returns a TypeAttributeChange notification.
func NewAttributeChange(source any, seq int64, at time.Time, msg string, change AttributeChange) *Notification {
	n := New(TypeAttributeChange, source, seq, at, msg)
	n.Change = &change
	return n
}

// SourceName renders the notification source for logs.
func (n *Notification) SourceName() string {
	switch s := n.Source.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%T", s)
	}
}

func (n *Notification) String() string {
	if n.Change != nil {
		return fmt.Sprintf("%s[%d] %s: %s %v -> %v", n.Type, n.Sequence, n.Message, n.Change.Name, n.Change.OldValue, n.Change.NewValue)
	}
	return fmt.Sprintf("%s[%d] %s", n.Type, n.Sequence, n.Message)
}
