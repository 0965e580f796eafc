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

package strategy

import (
	"dirpx.dev/mbean/apis"
)

const opInvoke = "invoke"

// NewTargetObjectStrategy selects the descriptor "targetObject" when present.
func NewTargetObjectStrategy() apis.TargetStrategy {
	return targetObjectStrategy{}
}

type targetObjectStrategy struct{}

var _ apis.TargetStrategy = targetObjectStrategy{}

func (targetObjectStrategy) TryTarget(req apis.TargetRequest, _ apis.Config) (apis.Target, bool, error) {
	if req.TargetObject == nil {
		return apis.Target{}, false, nil
	}
	return apis.Target{Object: req.TargetObject, Kind: apis.TargetObjectKind}, true, nil
}

// NewClassFilterStrategy honours an explicit class filter. A filter naming
// the engine class selects the engine; any other filter must name the
// managed resource's class, as computed by res.
func NewClassFilterStrategy(res apis.Resolver) apis.TargetStrategy {
	return classFilterStrategy{res: res}
}

type classFilterStrategy struct {
	res apis.Resolver
}

var _ apis.TargetStrategy = classFilterStrategy{}

func (s classFilterStrategy) TryTarget(req apis.TargetRequest, cfg apis.Config) (apis.Target, bool, error) {
	if req.Class == "" {
		return apis.Target{}, false, nil
	}
	if ClassMatches(req.Class, req.EngineClass) {
		return apis.Target{Object: req.Engine, Kind: apis.EngineKind}, true, nil
	}
	if req.Resource == nil {
		return apis.Target{}, true, apis.Errorf(apis.ErrInstanceNotFound, opInvoke,
			"managed resource for class %q is not set", req.Class)
	}
	if s.res != nil {
		if class := s.res.Resolve(req.Resource, cfg); !ClassMatches(req.Class, class) {
			return apis.Target{}, true, apis.Errorf(apis.ErrReflection, opInvoke,
				"class %q does not match managed resource class %q", req.Class, class)
		}
	}
	return apis.Target{Object: req.Resource, Kind: apis.ResourceKind}, true, nil
}

// NewBuiltinStrategy selects the engine when the operation names one of its methods.
func NewBuiltinStrategy() apis.TargetStrategy {
	return builtinStrategy{}
}

type builtinStrategy struct{}

var _ apis.TargetStrategy = builtinStrategy{}

func (builtinStrategy) TryTarget(req apis.TargetRequest, _ apis.Config) (apis.Target, bool, error) {
	if req.Engine == nil || req.Builtin == nil || !req.Builtin(req.Method) {
		return apis.Target{}, false, nil
	}
	return apis.Target{Object: req.Engine, Kind: apis.EngineKind}, true, nil
}

// NewResourceStrategy is the terminal link: the managed resource, or
// ErrInstanceNotFound when none is set.
func NewResourceStrategy() apis.TargetStrategy {
	return resourceStrategy{}
}

type resourceStrategy struct{}

var _ apis.TargetStrategy = resourceStrategy{}

func (resourceStrategy) TryTarget(req apis.TargetRequest, _ apis.Config) (apis.Target, bool, error) {
	if req.Resource == nil {
		return apis.Target{}, true, apis.Errorf(apis.ErrInstanceNotFound, opInvoke,
			"managed resource is not set for operation %q", req.Method)
	}
	return apis.Target{Object: req.Resource, Kind: apis.ResourceKind}, true, nil
}
