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

package apis

// Config carries read-only dispatch knobs shared by engines, registries and strategies.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// FoldMethodNames lets a lowerCamel operation name ("getMBeanInfo") bind to
	// the exported Go method ("GetMBeanInfo") when no exact match exists.
	FoldMethodNames bool

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map)
	// when deriving class names from Go types.
	MaxUnwrap int

	// StrictTypeCheck rejects attribute values whose declared type name
	// cannot be resolved. When false such values bypass the type check.
	StrictTypeCheck bool

	// NotificationLogging enables appending notifications to the file named
	// by the "logfile" descriptor field when "log" is true.
	NotificationLogging bool

	// DefaultCurrency is the cache policy for attributes and operations
	// when neither their descriptor nor the MBean descriptor sets
	// currencyTimeLimit. It uses the text form "Never", "Forever" or
	// "Timed(30s)"; empty means no caching.
	DefaultCurrency string
}
