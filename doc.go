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


// Package mbean exposes plain Go values as manageable components through a
// descriptor-driven model MBean engine.
//
// # Model
//
// A managed component is described by a metadata.ModelMBeanInfo: the
// attributes, operations, constructors and notifications it offers, each
// carrying a descriptor.Descriptor. Descriptors are case-insensitive field
// bags that tell the engine how to serve a member:
//
//   - getMethod / setMethod name the operations that read and write an
//     attribute;
//   - currencyTimeLimit controls how long a read value or operation result
//     stays cached (absent: no caching, negative: never, zero: forever,
//     N: N seconds);
//   - targetObject, targetType and class select the object an operation is
//     invoked on;
//   - log and logfile append notifications to a file.
//
// The engine itself lives in package modelmbean. It resolves operation
// targets with an ordered chain (targetObject, class filter, the engine's
// own methods, the managed resource), resolves signature type names through
// its type registry, the registrar's repository and the global repository,
// and calls methods through the dispatch package.
//
// # Global snapshot
//
// This package holds a read-mostly, process-wide snapshot:
//
//   - Config: dispatch knobs (method name folding, type checks, notification
//     logging).
//   - Repository: the last-resort type table engines consult when a
//     signature names a type they do not know.
//   - Resolver: names the class of a value or type ("pkg.Type"), used for
//     class filters and attribute-change type names.
//   - Builder: constructs repositories and resolvers for a Config.
//
// Reads load an atomic pointer and never lock:
//
//	name := mbean.ClassName(v)
//
// Writers (SetConfig, SetBuilder, SetExt, SetRepository, SetResolver,
// SetAll) take a short build lock, derive a new snapshot and publish it.
// SetRepository and SetResolver pin their layer: later rebuilds keep it
// until UnpinRepository or UnpinResolver.
//
// # Usage
//
//	_ = mbean.RegisterType(reflect.TypeFor[Reading](), "acme.Reading")
//
//	eng, err := mbean.New(info)
//	if err != nil {
//		return err
//	}
//	if err := eng.SetManagedResource(sensor, modelmbean.ResourceTypeObjectReference); err != nil {
//		return err
//	}
//	v, err := eng.GetAttribute("Temperature")
//
// New hands the snapshot's Config, Builder, Repository and logger to the
// engine together with the default prometheus collectors. Engines built
// with modelmbean.New directly carry only what their options say.
package mbean
