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

package resolver

import (
	"dirpx.dev/mbean/apis"
)

// NewTarget returns a target resolver trying strategies in order. The
// first strategy that handles a request decides it. Nil strategies are
// ignored.
func NewTarget(strategies ...apis.TargetStrategy) apis.TargetResolver {
	return targetChain(compact(strategies))
}

type targetChain []apis.TargetStrategy

var _ apis.TargetResolver = targetChain(nil)

// ResolveTarget returns the decision of the first strategy that handles
// req. When none does the operation has no target.
func (c targetChain) ResolveTarget(req apis.TargetRequest, cfg apis.Config) (apis.Target, error) {
	for _, s := range c {
		if t, ok, err := s.TryTarget(req, cfg); ok {
			return t, err
		}
	}
	return apis.Target{}, apis.Errorf(apis.ErrInstanceNotFound, "invoke", "no target for operation %q", req.Method)
}
