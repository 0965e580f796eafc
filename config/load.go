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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/cache"
)

// EnvPrefix prefixes environment overrides, e.g. MBEAN_STRICT_TYPE_CHECK.
const EnvPrefix = "MBEAN"

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("mbean(config): invalid configuration")

// File mirrors the on-disk layout of the configuration.
type File struct {
	FoldMethodNames     bool   `mapstructure:"fold_method_names"`
	MaxUnwrap           int    `mapstructure:"max_unwrap"`
	StrictTypeCheck     bool   `mapstructure:"strict_type_check"`
	NotificationLogging bool   `mapstructure:"notification_logging"`
	DefaultCurrency     string `mapstructure:"default_currency"`
}

// Validate checks value ranges.
func (f *File) Validate() error {
	if f.MaxUnwrap < 0 {
		return fmt.Errorf("%w: max_unwrap must be >= 0, got %d", ErrInvalidConfig, f.MaxUnwrap)
	}
	var c cache.Currency
	if err := c.UnmarshalText([]byte(f.DefaultCurrency)); err != nil {
		return fmt.Errorf("%w: default_currency: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Load reads the configuration from configPath (or ./mbean.yaml,
// ./config/mbean.yaml when empty), applies MBEAN_* environment overrides and
// returns the validated Config. A missing file is not an error.
func Load(configPath string) (apis.Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("mbean")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return apis.Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return apis.Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return apis.Config{}, err
	}

	return NewConfig(
		WithFoldMethodNames(f.FoldMethodNames),
		WithMaxUnwrap(f.MaxUnwrap),
		WithStrictTypeCheck(f.StrictTypeCheck),
		WithNotificationLogging(f.NotificationLogging),
		WithDefaultCurrency(f.DefaultCurrency),
	), nil
}

// setDefaults registers every key so environment overrides are visible to Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("fold_method_names", DefaultFoldMethodNames)
	v.SetDefault("max_unwrap", DefaultMaxUnwrap)
	v.SetDefault("strict_type_check", DefaultStrictTypeCheck)
	v.SetDefault("notification_logging", DefaultNotificationLogging)
	v.SetDefault("default_currency", "")
}
