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
	"dirpx.dev/mbean/observability"
)

type options struct {
	cfg        *apis.Config
	logger     *zap.Logger
	clock      func() time.Time
	builder    apis.Builder
	types      apis.Registry
	repository apis.Registry
	metrics    *observability.Metrics
}

// Option configures a RequiredModelMBean.
type Option func(*options)

// WithConfig sets the dispatch configuration. The default is
// config.DefaultConfig().
func WithConfig(cfg apis.Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now for cache validity and notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithBuilder sets the builder used for the engine's type registry and
// resolver chains.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) { o.builder = b }
}

// WithTypes seeds the engine's own type registry with the entries of reg.
func WithTypes(reg apis.Registry) Option {
	return func(o *options) { o.types = reg }
}

// WithRepository sets the last-resort type repository consulted after the
// engine registry and the registrar's repository.
func WithRepository(reg apis.Registry) Option {
	return func(o *options) { o.repository = reg }
}

// WithMetrics sets the prometheus collectors. Without it nothing is recorded.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}
