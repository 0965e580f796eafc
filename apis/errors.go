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

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrIllegalArgument       = errors.New("illegal argument")
	ErrIllegalState          = errors.New("illegal state")
	ErrAttributeNotFound     = errors.New("attribute not found")
	ErrInvalidAttributeValue = errors.New("invalid attribute value")
	ErrServiceNotFound       = errors.New("service not found")
	ErrInstanceNotFound      = errors.New("instance not found")
	ErrInvalidTargetType     = errors.New("invalid target object type")
	ErrReflection            = errors.New("reflection failure")
	ErrXMLParse              = errors.New("descriptor parse failure")
	ErrListenerNotFound      = errors.New("listener not found")
)

var (
	// ErrMBean wraps an error returned by a managed resource method.
	ErrMBean = errors.New("managed resource failure")
	// ErrRuntimeError wraps a panic raised by a managed resource method.
	ErrRuntimeError = errors.New("managed resource runtime error")
)

// Error is the concrete error type carrying a kind, the failing operation
// and an optional cause. errors.Is matches both Kind and Err.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

// Error renders "mbean: op: kind: msg: cause", skipping empty parts.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("mbean")
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Kind != nil {
		b.WriteString(": ")
		b.WriteString(e.Kind.Error())
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Errorf builds an *Error of the given kind.
func Errorf(kind error, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around cause.
func Wrap(kind error, op string, cause error, format string, args ...any) error {
	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}
