// Copyright 2025 frpcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package measure

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/frphmi/frpcore/pkg"
	"github.com/frphmi/frpcore/pkg/metrics"
)

// DefaultHandle addresses the accumulator behind the legacy entry points.
const DefaultHandle int64 = 0

// DefaultRegistry is the process wide registry used by the C entry points.
var DefaultRegistry = newRegistry(metrics.Accumulators)

type registryEntry struct {
	acc *Accumulator
	ctx context.Context
}

// Registry hands out independent accumulators addressed by integer handles. The default
// accumulator always exists and cannot be closed.
type Registry struct {
	lock         sync.RWMutex
	accumulators map[int64]*registryEntry
	lastHandle   *atomic.Int64
	gauge        prometheus.Gauge
}

func NewRegistry() *Registry {
	return newRegistry(nil)
}

func newRegistry(gauge prometheus.Gauge) *Registry {
	r := &Registry{
		accumulators: make(map[int64]*registryEntry),
		lastHandle:   atomic.NewInt64(DefaultHandle),
		gauge:        gauge,
	}
	ctx, _ := pkg.NewMeasureContextMeta(context.Background(), "", DefaultHandle)
	r.accumulators[DefaultHandle] = &registryEntry{acc: NewAccumulator(), ctx: ctx}
	r.updateGauge()
	return r
}

// SetStation renames the station the default accumulator logs under.
func (r *Registry) SetStation(station string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.accumulators[DefaultHandle].ctx, _ = pkg.NewMeasureContextMeta(context.Background(), station, DefaultHandle)
}

// Default returns the accumulator of DefaultHandle.
func (r *Registry) Default() *Accumulator {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.accumulators[DefaultHandle].acc
}

// Open creates a new empty accumulator and returns its handle.
func (r *Registry) Open(station string) int64 {
	handle := r.lastHandle.Inc()
	ctx, _ := pkg.NewMeasureContextMeta(context.Background(), station, handle)
	r.lock.Lock()
	r.accumulators[handle] = &registryEntry{acc: NewAccumulator(), ctx: ctx}
	r.lock.Unlock()
	r.updateGauge()
	return handle
}

// Get returns the accumulator of the handle.
func (r *Registry) Get(handle int64) (*Accumulator, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	entry, ok := r.accumulators[handle]
	if !ok {
		return nil, false
	}
	return entry.acc, true
}

// Context returns the logging context of the handle, context.Background for unknown handles.
func (r *Registry) Context(handle int64) context.Context {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if entry, ok := r.accumulators[handle]; ok {
		return entry.ctx
	}
	return context.Background()
}

// Close releases the accumulator of the handle.
func (r *Registry) Close(handle int64) error {
	if handle == DefaultHandle {
		return ErrDefaultHandle
	}
	r.lock.Lock()
	entry, ok := r.accumulators[handle]
	if ok {
		delete(r.accumulators, handle)
	}
	r.lock.Unlock()
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "handle %d", handle)
	}
	entry.acc.Reset()
	r.updateGauge()
	return nil
}

// Handles returns the open handles in ascending order, the default one included.
func (r *Registry) Handles() []int64 {
	r.lock.RLock()
	handles := make([]int64, 0, len(r.accumulators))
	for handle := range r.accumulators {
		handles = append(handles, handle)
	}
	r.lock.RUnlock()
	sort.Slice(handles, func(i, j int) bool {
		return handles[i] < handles[j]
	})
	return handles
}

// Len returns the number of open accumulators, the default one included.
func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.accumulators)
}

// CloseAll closes every handle and clears the default accumulator.
func (r *Registry) CloseAll() error {
	var err error
	for _, handle := range r.Handles() {
		if handle == DefaultHandle {
			continue
		}
		err = multierr.Append(err, r.Close(handle))
	}
	r.Default().Reset()
	return err
}

func (r *Registry) updateGauge() {
	if r.gauge == nil {
		return
	}
	r.gauge.Set(float64(r.Len()))
}
