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

package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace prefixes every metric name.
	Namespace = "mbean"

	statusSuccess = "success"
	statusError   = "error"

	// Cache lookup results.
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds the engine's prometheus collectors.
type Metrics struct {
	DispatchTotal     *prometheus.CounterVec
	DispatchDuration  *prometheus.HistogramVec
	CacheLookupsTotal *prometheus.CounterVec
	NotificationsSent *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "dispatch_total",
				Help:      "Total number of attribute and operation dispatches",
			},
			[]string{"op", "status"},
		),
		DispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of attribute and operation dispatches",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_lookups_total",
				Help:      "Total number of cache lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
		NotificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "notifications_sent_total",
				Help:      "Total number of notifications sent by channel",
			},
			[]string{"channel"},
		),
	}
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// DefaultMetrics returns the collectors registered with the default
// prometheus registry. They are created on first use.
func DefaultMetrics() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// RecordDispatch records one dispatch of op.
func (m *Metrics) RecordDispatch(op string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.DispatchTotal.WithLabelValues(op, status).Inc()
	m.DispatchDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit or miss for kind.
func (m *Metrics) RecordCacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

// RecordNotification records a notification sent on channel.
func (m *Metrics) RecordNotification(channel string) {
	if m == nil {
		return
	}
	m.NotificationsSent.WithLabelValues(channel).Inc()
}
