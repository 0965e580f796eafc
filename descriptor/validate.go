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

package descriptor

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Well-known field names.
const (
	Name                  = "name"
	DescriptorType        = "descriptorType"
	DisplayName           = "displayName"
	GetMethod             = "getMethod"
	SetMethod             = "setMethod"
	Role                  = "role"
	Class                 = "class"
	Visibility            = "visibility"
	Severity              = "severity"
	PersistPolicy         = "persistPolicy"
	PersistPeriod         = "persistPeriod"
	CurrencyTimeLimit     = "currencyTimeLimit"
	LastUpdatedTimeStamp  = "lastUpdatedTimeStamp"
	LastReturnedTimeStamp = "lastReturnedTimeStamp"
	Log                   = "log"
	LogFile               = "logfile"
	Value                 = "value"
	Default               = "default"
	TargetObject          = "targetObject"
	TargetType            = "targetType"
	Export                = "export"
)

var persistPolicies = []string{"OnUpdate", "OnTimer", "NoMoreOftenThan", "OnUnregister", "Always", "Never"}

// validators maps folded well-known names to their value rule.
var validators = map[string]func(any) bool{
	fold(Name):                  nonEmptyString,
	fold(DescriptorType):        nonEmptyString,
	fold(GetMethod):             isString,
	fold(SetMethod):             isString,
	fold(Role):                  isString,
	fold(Class):                 isString,
	fold(Visibility):            inRange(1, 4),
	fold(Severity):              inRange(0, 6),
	fold(PersistPolicy):         validPersistPolicy,
	fold(PersistPeriod):         atLeast(-1),
	fold(CurrencyTimeLimit):     atLeast(-1),
	fold(LastUpdatedTimeStamp):  atLeast(-1),
	fold(LastReturnedTimeStamp): atLeast(-1),
	fold(Log):                   validLog,
}

// ValidField reports whether value is acceptable for the field name.
// Unknown fields accept any value.
func ValidField(name string, value any) bool {
	if name == "" {
		return false
	}
	rule, ok := validators[fold(name)]
	if !ok {
		return true
	}
	return rule(value)
}

// IsValid reports whether d is non-empty, has a name and a descriptorType,
// and every well-known field holds an acceptable value.
func (d *Descriptor) IsValid() bool {
	snap := d.snapshot()
	if len(snap) == 0 {
		return false
	}
	if _, ok := d.Lookup(Name); !ok {
		return false
	}
	if _, ok := d.Lookup(DescriptorType); !ok {
		return false
	}
	for _, f := range snap {
		if !ValidField(f.name, f.value) {
			return false
		}
	}
	return true
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func inRange(lo, hi int64) func(any) bool {
	return func(v any) bool {
		n, ok := AsInt64(v)
		return ok && n >= lo && n <= hi
	}
}

func atLeast(lo int64) func(any) bool {
	return func(v any) bool {
		n, ok := AsInt64(v)
		return ok && n >= lo
	}
}

func validPersistPolicy(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, p := range persistPolicies {
		if strings.EqualFold(s, p) {
			return true
		}
	}
	return false
}

func validLog(v any) bool {
	_, ok := AsBool(v)
	return ok
}

// AsInt64 converts an integer, an integral float or a decimal string to int64.
func AsInt64(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return n, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// AsBool converts a bool or one of "t", "f", "true", "false" (any case).
func AsBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "t", "true":
			return true, true
		case "f", "false":
			return false, true
		}
	}
	return false, false
}
