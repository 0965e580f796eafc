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
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/observability"
)

type registration struct {
	id       uuid.UUID
	listener Listener
	filter   Filter
	handback any
}

// Broadcaster fans notifications out to registered listeners. Listeners
// run on the sender's goroutine, outside the broadcaster's lock, in
// registration order.
type Broadcaster struct {
	channel string
	logger  *zap.Logger
	metrics *observability.Metrics

	mu   sync.RWMutex
	regs []registration
}

// NewBroadcaster returns a Broadcaster for channel. logger and metrics
// may be nil.
func NewBroadcaster(channel string, logger *zap.Logger, metrics *observability.Metrics) *Broadcaster {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Broadcaster{
		channel: channel,
		logger:  logger.With(zap.String("channel", channel)),
		metrics: metrics,
	}
}

// AddListener registers l with an optional filter and returns the
// registration ID.
func (b *Broadcaster) AddListener(l Listener, f Filter, handback any) (uuid.UUID, error) {
	if l == nil {
		return uuid.Nil, apis.Errorf(apis.ErrIllegalArgument, "notification.addListener", "nil listener")
	}
	id := uuid.New()
	b.mu.Lock()
	b.regs = append(b.regs, registration{id: id, listener: l, filter: f, handback: handback})
	b.mu.Unlock()
	return id, nil
}

// RemoveListener drops the registration id.
func (b *Broadcaster) RemoveListener(id uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.regs {
		if r.id == id {
			b.regs = append(b.regs[:i:i], b.regs[i+1:]...)
			return nil
		}
	}
	return apis.Errorf(apis.ErrListenerNotFound, "notification.removeListener", "no listener %s", id)
}

// Len reports the number of registrations.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.regs)
}

// Send delivers n to every listener whose filter accepts it. A panicking
// listener is logged and does not stop delivery.
func (b *Broadcaster) Send(n *Notification) {
	if n == nil {
		return
	}
	b.mu.RLock()
	regs := append([]registration(nil), b.regs...)
	b.mu.RUnlock()

	b.metrics.RecordNotification(b.channel)
	for _, r := range regs {
		if r.filter != nil && !r.filter.IsNotificationEnabled(n) {
			continue
		}
		b.deliver(r, n)
	}
}

func (b *Broadcaster) deliver(r registration, n *Notification) {
	defer func() {
		if p := recover(); p != nil {
			b.logger.Warn("notification listener panicked",
				zap.Stringer("listener", r.id),
				zap.String("type", n.Type),
				zap.Any("panic", p))
		}
	}()
	r.listener.HandleNotification(n, r.handback)
}
