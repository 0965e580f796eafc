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

// Package observability builds the zap loggers and prometheus metrics used
// by the engine.
package observability

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv overrides the log level chosen by NewLogger.
const LevelEnv = "MBEAN_LOG_LEVEL"

// NewLogger builds a logger for env, one of development, test, staging or
// production.
func NewLogger(env string) (*zap.Logger, error) {
	var config zap.Config

	switch env {
	case "development", "test":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "production", "staging":
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("invalid environment: %s (must be development, test, staging, or production)", env)
	}

	if lvl := os.Getenv(LevelEnv); lvl != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// WithComponent tags l with a component name. A nil l yields a Nop logger.
func WithComponent(l *zap.Logger, component string) *zap.Logger {
	if l == nil {
		l = Nop()
	}
	return l.With(zap.String("component", component))
}
