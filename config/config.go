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

package config

import (
	"dirpx.dev/mbean/apis"
)

const (
	// DefaultFoldMethodNames represents the default for FoldMethodNames.
	// Operation names are usually written lowerCamel while Go methods are exported.
	DefaultFoldMethodNames = true
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultStrictTypeCheck represents the default for StrictTypeCheck.
	DefaultStrictTypeCheck = false
	// DefaultNotificationLogging represents the default for NotificationLogging.
	DefaultNotificationLogging = true
)

// NewConfig returns DefaultConfig with opts applied in order.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	return cfg
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() apis.Config {
	return apis.Config{
		FoldMethodNames:     DefaultFoldMethodNames,
		MaxUnwrap:           DefaultMaxUnwrap,
		StrictTypeCheck:     DefaultStrictTypeCheck,
		NotificationLogging: DefaultNotificationLogging,
	}
}

// Option mutates a Config under construction.
type Option func(*apis.Config)

// WithFoldMethodNames toggles lowerCamel to exported method name folding.
func WithFoldMethodNames(fold bool) Option {
	return func(c *apis.Config) {
		c.FoldMethodNames = fold
	}
}

// WithMaxUnwrap sets MaxUnwrap. Negative values reset it to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithStrictTypeCheck toggles rejection of unresolvable attribute types.
func WithStrictTypeCheck(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictTypeCheck = strict
	}
}

// WithNotificationLogging toggles notification file logging.
func WithNotificationLogging(enabled bool) Option {
	return func(c *apis.Config) {
		c.NotificationLogging = enabled
	}
}

// WithDefaultCurrency sets the cache policy used when no descriptor
// carries currencyTimeLimit, e.g. "Timed(30s)".
func WithDefaultCurrency(policy string) Option {
	return func(c *apis.Config) {
		c.DefaultCurrency = policy
	}
}
