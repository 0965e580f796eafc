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
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"

	"dirpx.dev/mbean/apis"
	"dirpx.dev/mbean/cache"
	"dirpx.dev/mbean/descriptor"
	"dirpx.dev/mbean/dispatch"
	"dirpx.dev/mbean/metadata"
)

// Invoke calls the operation opName with params. opName may carry a
// "Class." prefix selecting the target class and a trailing "(...)" which
// is ignored. signature lists the declared parameter type names; when it
// is empty the operation's own signature, or the argument types, are used.
func (m *RequiredModelMBean) Invoke(opName string, params []any, signature []string) (res any, err error) {
	start := time.Now()
	defer func() { m.metrics.RecordDispatch(opInvoke, time.Since(start), err) }()

	class, name := splitOperation(opName)
	if name == "" {
		return nil, apis.Errorf(apis.ErrIllegalArgument, opInvoke, "empty operation name")
	}
	info := m.snapshot()
	op := info.Operation(name)
	if op == nil {
		return nil, apis.Wrap(apis.ErrMBean, opInvoke,
			apis.Errorf(apis.ErrServiceNotFound, opInvoke, "operation %q is not defined", name), "")
	}
	desc := op.Descriptor()
	cur := m.currency(desc, info)
	k := cache.Key{Kind: metadata.KindOperation, Name: name}

	entry, v, hit := m.lookup(info, k, cur)
	if hit {
		m.logger.Debug("operation served from cache", zap.String("operation", name))
		return v, nil
	}

	if class == "" {
		class, _ = desc.StringField(descriptor.Class)
	}
	if tt, ok := desc.Lookup(descriptor.TargetType); ok && tt != nil {
		if s, _ := tt.(string); !strings.EqualFold(s, ResourceTypeObjectReference) {
			return nil, apis.Errorf(apis.ErrInvalidTargetType, opInvoke, "unsupported targetType %v for %q", tt, name)
		}
	}
	targetObject, _ := desc.Lookup(descriptor.TargetObject)

	target, err := m.targets.ResolveTarget(apis.TargetRequest{
		Method:       name,
		Class:        class,
		TargetObject: targetObject,
		Engine:       m,
		EngineClass:  m.engineClass,
		Builtin:      m.isBuiltin,
		Resource:     m.managedResource(),
	}, m.cfg)
	if err != nil {
		return nil, err
	}

	types, err := m.paramTypes(op, params, signature)
	if err != nil {
		return nil, err
	}
	d, err := dispatch.For(target.Object)
	if err != nil {
		return nil, apis.Wrap(apis.ErrInstanceNotFound, opInvoke, err, "")
	}
	h, ok := d.Lookup(name, types)
	if !ok && m.cfg.FoldMethodNames {
		h, ok = d.Lookup(exported(name), types)
	}
	if !ok {
		return nil, apis.Errorf(apis.ErrReflection, opInvoke, "method %s%v not found on %s target %T",
			name, types, target.Kind, target.Object)
	}

	m.logger.Debug("invoking operation",
		zap.String("operation", name),
		zap.String("method", h.Name),
		zap.String("target", string(target.Kind)))
	res, err = h.Call(params)
	if err != nil {
		return nil, err
	}
	if res != nil && cur.Caches() {
		now := m.clock()
		entry.Store(res, now, func() { m.project(info, k, res, now, true) })
	}
	return res, nil
}

// paramTypes resolves the parameter types used to select the method.
func (m *RequiredModelMBean) paramTypes(op *metadata.OperationInfo, params []any, signature []string) ([]reflect.Type, error) {
	if len(signature) == 0 && len(params) > 0 {
		if sig := op.Signature(); len(sig) == len(params) {
			signature = make([]string, len(sig))
			for i, p := range sig {
				signature[i] = p.Type
			}
		} else {
			out := make([]reflect.Type, len(params))
			for i, p := range params {
				if p == nil {
					return nil, apis.Errorf(apis.ErrIllegalArgument, opInvoke,
						"argument %d of %q is nil and no signature was given", i, op.Name())
				}
				out[i] = reflect.TypeOf(p)
			}
			return out, nil
		}
	}
	if len(signature) != len(params) {
		return nil, apis.Errorf(apis.ErrIllegalArgument, opInvoke,
			"%d arguments for a signature of %d types", len(params), len(signature))
	}
	out := make([]reflect.Type, len(signature))
	for i, s := range signature {
		t, err := m.resolveType(opInvoke, s)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// splitOperation splits "pkg.Class.method(args)" into "pkg.Class" and "method".
func splitOperation(opName string) (class, name string) {
	opName = strings.TrimSpace(opName)
	if i := strings.IndexByte(opName, '('); i >= 0 {
		opName = opName[:i]
	}
	if i := strings.LastIndexByte(opName, '.'); i >= 0 {
		return opName[:i], opName[i+1:]
	}
	return "", opName
}
