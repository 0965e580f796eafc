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

// Package dispatch turns a target value into a table of callable method
// handles. Targets either implement apis.Dispatcher themselves or have
// their exported methods introspected once per type.
package dispatch

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"dirpx.dev/mbean/apis"
	uref "dirpx.dev/mbean/utils/reflect"
)

const opCall = "dispatch.call"

var (
	// ErrNilTarget is returned by For when the target is nil.
	ErrNilTarget = errors.New("mbean(dispatch): nil target")

	errorType = reflect.TypeFor[error]()
)

// shape is the result layout of a method.
type shape uint8

const (
	shapeNone     shape = iota // ()
	shapeValue                 // (T)
	shapeError                 // (error)
	shapeValueErr              // (T, error)
)

type method struct {
	name   string
	index  int
	params []reflect.Type
	shape  shape
}

// methodCache holds the introspected method set per dynamic type.
var methodCache sync.Map // reflect.Type -> []method

func methodsOf(t reflect.Type) []method {
	if v, ok := methodCache.Load(t); ok {
		return v.([]method)
	}
	var out []method
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !m.IsExported() || m.Type.IsVariadic() {
			continue
		}
		sh, ok := shapeOf(m.Type)
		if !ok {
			continue
		}
		params := make([]reflect.Type, 0, m.Type.NumIn()-1)
		for j := 1; j < m.Type.NumIn(); j++ {
			params = append(params, m.Type.In(j))
		}
		out = append(out, method{name: m.Name, index: i, params: params, shape: sh})
	}
	v, _ := methodCache.LoadOrStore(t, out)
	return v.([]method)
}

func shapeOf(ft reflect.Type) (shape, bool) {
	switch ft.NumOut() {
	case 0:
		return shapeNone, true
	case 1:
		if ft.Out(0) == errorType {
			return shapeError, true
		}
		return shapeValue, true
	case 2:
		if ft.Out(1) == errorType {
			return shapeValueErr, true
		}
	}
	return 0, false
}

// For returns the method table of target. A target implementing
// apis.Dispatcher is returned unchanged.
func For(target any) (apis.Dispatcher, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if d, ok := target.(apis.Dispatcher); ok {
		return d, nil
	}
	rv := reflect.ValueOf(target)
	return &reflected{v: rv, methods: methodsOf(rv.Type())}, nil
}

// reflected dispatches to the exported methods of one value.
type reflected struct {
	v       reflect.Value
	methods []method
}

var _ apis.Dispatcher = (*reflected)(nil)

func (r *reflected) Lookup(name string, params []reflect.Type) (apis.Handle, bool) {
	var candidates []method
	for _, m := range r.methods {
		if m.name == name {
			candidates = append(candidates, m)
		}
	}
	m, ok := pick(candidates, func(m method) []reflect.Type { return m.params }, params)
	if !ok {
		return apis.Handle{}, false
	}
	fn := r.v.Method(m.index)
	return apis.Handle{
		Name:   m.name,
		Params: m.params,
		Call: func(args []any) (any, error) {
			return call(m.name, m.params, args, func(in []reflect.Value) (any, error) {
				return results(m.shape, fn.Call(in))
			})
		},
	}, true
}

func (r *reflected) Names() []string {
	seen := make(map[string]struct{}, len(r.methods))
	out := make([]string, 0, len(r.methods))
	for _, m := range r.methods {
		if _, ok := seen[m.name]; ok {
			continue
		}
		seen[m.name] = struct{}{}
		out = append(out, m.name)
	}
	sort.Strings(out)
	return out
}

// pick chooses among same-named candidates: exact parameter types first,
// then pointer/value equivalence, then assignability.
func pick[T any](cands []T, paramsOf func(T) []reflect.Type, want []reflect.Type) (T, bool) {
	var zero T
	for _, match := range []func(decl, got reflect.Type) bool{
		func(decl, got reflect.Type) bool { return decl == got },
		uref.Equivalent,
		func(decl, got reflect.Type) bool { return got != nil && got.AssignableTo(decl) },
	} {
		for _, c := range cands {
			if paramsMatch(paramsOf(c), want, match) {
				return c, true
			}
		}
	}
	return zero, false
}

func paramsMatch(decl, want []reflect.Type, match func(decl, got reflect.Type) bool) bool {
	if len(decl) != len(want) {
		return false
	}
	for i := range decl {
		if !match(decl[i], want[i]) {
			return false
		}
	}
	return true
}

func results(sh shape, out []reflect.Value) (any, error) {
	switch sh {
	case shapeValue:
		return out[0].Interface(), nil
	case shapeError:
		err, _ := out[0].Interface().(error)
		return nil, err
	case shapeValueErr:
		err, _ := out[1].Interface().(error)
		return out[0].Interface(), err
	default:
		return nil, nil
	}
}

// call converts args to params, runs invoke and classifies what comes back:
// bad arguments are ErrIllegalArgument, a panic is ErrRuntimeError and an
// error from the target is ErrMBean unless it already carries ErrReflection.
func call(name string, params []reflect.Type, args []any, invoke func([]reflect.Value) (any, error)) (res any, err error) {
	if len(args) != len(params) {
		return nil, apis.Errorf(apis.ErrIllegalArgument, opCall,
			"%s takes %d arguments, got %d", name, len(params), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, ok := uref.Value(a, params[i])
		if !ok {
			return nil, apis.Errorf(apis.ErrIllegalArgument, opCall,
				"%s argument %d: %T is not a %s", name, i, a, params[i])
		}
		in[i] = v
	}

	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = apis.Wrap(apis.ErrRuntimeError, opCall, panicError(p), "%s panicked", name)
		}
	}()

	res, err = invoke(in)
	if err != nil {
		if errors.Is(err, apis.ErrReflection) {
			return nil, err
		}
		return nil, apis.Wrap(apis.ErrMBean, opCall, err, "%s failed", name)
	}
	return res, nil
}

func panicError(p any) error {
	if err, ok := p.(error); ok {
		return err
	}
	return fmt.Errorf("%v", p)
}
