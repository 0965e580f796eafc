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


package mbean

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/builder"
	"dirpx.dev/mbean/config"
	"dirpx.dev/mbean/metadata"
	"dirpx.dev/mbean/modelmbean"
	"dirpx.dev/mbean/observability"
)

func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New(), logger: observability.Nop()}
	s.repo = s.bld.BuildRegistry(s.cfg, nil, nil)
	s.res = s.bld.BuildResolver(s.cfg, s.repo, nil, nil)
	st.Store(s)
}

var (
	// ErrNilRepository is raised when a builder returns a nil repository.
	ErrNilRepository = errors.New("mbean: builder returned nil repository")
	// ErrNilResolver is raised when a builder returns a nil resolver.
	ErrNilResolver = errors.New("mbean: builder returned nil resolver")
)

// New creates an engine wired to the global snapshot: its Config, Builder,
// logger and type repository, plus the default prometheus collectors.
// opts are applied after the globals and may override them.
func New(info *metadata.ModelMBeanInfo, opts ...modelmbean.Option) (*modelmbean.RequiredModelMBean, error) {
	s := st.Load()
	base := []modelmbean.Option{
		modelmbean.WithConfig(s.cfg),
		modelmbean.WithBuilder(s.bld),
		modelmbean.WithRepository(s.repo),
		modelmbean.WithLogger(s.logger),
		modelmbean.WithMetrics(observability.DefaultMetrics()),
	}
	return modelmbean.New(info, append(base, opts...)...)
}

// ClassName names the class of v with the global resolver.
func ClassName(v any) string {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// ClassNameType names t with the global resolver.
func ClassNameType(t reflect.Type) string {
	s := st.Load()
	return s.res.ResolveType(t, s.cfg)
}

// RegisterType adds t to the global type repository under name. Engines
// consult the repository last when resolving signature type names.
func RegisterType(t reflect.Type, name string) error {
	return st.Load().repo.Register(t, name)
}

// LoadConfig reads configuration from path (see config.Load) and installs it.
func LoadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	SetConfig(cfg)
	return nil
}

// SetAll replaces the whole snapshot. Nil arguments keep the current
// component, except ext which is always replaced. A nil repo or res is
// rebuilt and left unpinned; a non-nil one is pinned.
func SetAll(cfg *apis.Config, ext any, repo apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	if cfg != nil {
		next.cfg = *cfg
	}
	if bld != nil {
		next.bld = bld
	}
	next.ext = ext
	next.repo, next.prepo = repo, repo != nil
	next.res, next.pres = res, res != nil
	if next.repo == nil {
		next.repo = next.bld.BuildRegistry(next.cfg, old.repo, next.ext)
	}
	if next.res == nil {
		next.res = next.bld.BuildResolver(next.cfg, next.repo, old.res, next.ext)
	}
	publish(&next)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig installs cfg and rebuilds the unpinned layers.
func SetConfig(cfg apis.Config) {
	update(func(s *state) { s.cfg = cfg }, true)
}

// Repository returns the global type repository.
func Repository() apis.Registry {
	return st.Load().repo
}

// SetRepository installs and pins repo. The resolver is rebuilt over it
// unless pinned. A nil repo is ignored.
func SetRepository(repo apis.Registry) {
	if repo == nil {
		return
	}
	update(func(s *state) { s.repo, s.prepo = repo, true }, true)
}

// Resolver returns the global class-name resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver installs and pins res. A nil res is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(func(s *state) { s.res, s.pres = res, true }, false)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder installs b and rebuilds the unpinned layers with it. A nil b
// is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(s *state) { s.bld = b }, true)
}

// Logger returns the logger handed to engines created by New.
func Logger() *zap.Logger {
	return st.Load().logger
}

// SetLogger sets the logger handed to engines created by New. A nil l
// restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = observability.Nop()
	}
	update(func(s *state) { s.logger = l }, false)
}

// SetExt replaces the extension value passed to the builder and rebuilds
// the unpinned layers.
func SetExt[T any](ext T) {
	update(func(s *state) { s.ext = ext }, true)
}

// ExtAs returns the extension value as a T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRepositoryPinned reports whether the repository is exempt from rebuilds.
func IsRepositoryPinned() bool {
	return st.Load().prepo
}

// PinRepository exempts the repository from rebuilds.
func PinRepository() {
	update(func(s *state) { s.prepo = true }, false)
}

// UnpinRepository lets the next rebuild replace the repository.
func UnpinRepository() {
	update(func(s *state) { s.prepo = false }, false)
}

// IsResolverPinned reports whether the resolver is exempt from rebuilds.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver exempts the resolver from rebuilds.
func PinResolver() {
	update(func(s *state) { s.pres = true }, false)
}

// UnpinResolver lets the next rebuild replace the resolver.
func UnpinResolver() {
	update(func(s *state) { s.pres = false }, false)
}

// update derives a snapshot from the current one with mutate applied and,
// when rebuild is set, rebuilds the unpinned layers before publishing.
func update(mutate func(*state), rebuild bool) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	mutate(&next)
	if rebuild {
		if !next.prepo {
			next.repo = next.bld.BuildRegistry(next.cfg, old.repo, next.ext)
		}
		if !next.pres {
			next.res = next.bld.BuildResolver(next.cfg, next.repo, old.res, next.ext)
		}
	}
	publish(&next)
}

// publish stores s. Callers hold buildMu.
func publish(s *state) {
	if s.repo == nil {
		panic(ErrNilRepository)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	st.Store(s)
}

// buildMu serializes writers so that no partially built snapshot is published.
var buildMu sync.Mutex

var st atomic.Pointer[state]

// state is an immutable snapshot. Writers copy it, change the copy and
// publish the copy.
type state struct {
	cfg    apis.Config
	ext    any
	repo   apis.Registry
	res    apis.Resolver
	bld    apis.Builder
	logger *zap.Logger
	// prepo and pres exempt repo and res from rebuilds.
	prepo bool
	pres  bool
}
