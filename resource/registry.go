// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resource

import (
	"context"
	"fmt"

	"github.com/kadirpekel/axiom/axerrors"
	"github.com/kadirpekel/axiom/registry"
)

// Registry is the per-agent resource registry: a name -> Handle map with
// capability-indexed lookup and bulk lifecycle operations.
type Registry struct {
	handles *registry.BaseRegistry[Handle]
}

// NewRegistry creates an empty resource registry.
func NewRegistry() *Registry {
	return &Registry{handles: registry.NewBaseRegistry[Handle]()}
}

// Register adds a handle under name.
func (r *Registry) Register(name string, h Handle) error {
	if h == nil {
		return axerrors.New(axerrors.InvalidArgument, "resource.Registry.Register", "handle cannot be nil")
	}
	if err := r.handles.Register(name, h); err != nil {
		return axerrors.Wrap(axerrors.InvalidArgument, "resource.Registry.Register", "register failed", err)
	}
	return nil
}

// Get returns the handle registered under name.
func (r *Registry) Get(name string) (Handle, bool) {
	return r.handles.Get(name)
}

// MustGet returns the handle registered under name, or a
// ResourceUnavailable error if no handle is registered under it. It
// checks presence only; whether the handle was initialized is not checked.
func (r *Registry) MustGet(name string) (Handle, error) {
	h, ok := r.handles.Get(name)
	if !ok {
		return nil, axerrors.New(axerrors.ResourceUnavailable, "resource.Registry.MustGet", fmt.Sprintf("resource %q not registered", name))
	}
	return h, nil
}

// ByCapability returns every registered handle with the given capability.
func (r *Registry) ByCapability(cap Capability) []Handle {
	var out []Handle
	for _, h := range r.handles.List() {
		if h.Capability() == cap {
			out = append(out, h)
		}
	}
	return out
}

// Names lists every registered resource name, sorted.
func (r *Registry) Names() []string {
	return r.handles.Names()
}

// InitializeAll calls Initialize on every registered handle, returning the
// first error encountered (if any), after attempting the rest.
func (r *Registry) InitializeAll(ctx context.Context) error {
	var firstErr error
	for _, name := range r.handles.Names() {
		h, _ := r.handles.Get(name)
		if err := h.Initialize(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("initialize %q: %w", name, err)
		}
	}
	return firstErr
}

// StopAndCleanupAll calls Stop then Cleanup on every registered handle.
// All handles are attempted even if earlier ones fail; the first error
// seen is returned once every handle has been given a chance to tear
// down, matching the "guaranteed teardown on all exit paths" contract in
// spec.md §3.
func (r *Registry) StopAndCleanupAll(ctx context.Context) error {
	var firstErr error
	for _, name := range r.handles.Names() {
		h, _ := r.handles.Get(name)
		if err := h.Stop(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop %q: %w", name, err)
		}
		if err := h.Cleanup(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cleanup %q: %w", name, err)
		}
	}
	return firstErr
}
