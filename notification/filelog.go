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
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Append writes n as one JSON line to the file at path. The file is opened
// in append mode and closed before Append returns.
func Append(path string, n *Notification) error {
	sink, closeSink, err := zap.Open(path)
	if err != nil {
		return fmt.Errorf("open notification log %q: %w", path, err)
	}
	defer closeSink()

	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, zapcore.InfoLevel)
	logger := zap.New(core)

	fields := []zap.Field{
		zap.Stringer("id", n.ID),
		zap.String("type", n.Type),
		zap.String("source", n.SourceName()),
		zap.Int64("sequence", n.Sequence),
		zap.Time("timestamp", n.Timestamp),
	}
	if n.Change != nil {
		fields = append(fields,
			zap.String("attribute", n.Change.Name),
			zap.String("attributeType", n.Change.Type),
			zap.String("oldValue", fmt.Sprint(n.Change.OldValue)),
			zap.String("newValue", fmt.Sprint(n.Change.NewValue)),
		)
	}
	logger.Info(n.Message, fields...)
	if err := logger.Sync(); err != nil {
		return fmt.Errorf("sync notification log %q: %w", path, err)
	}
	return nil
}
