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
	"sync"

	"github.com/frphmi/frpcore/pkg/metrics"
)

// Accumulator holds the outer and inner readings of the running scan, index-aligned by
// insertion order. It is safe for concurrent use.
type Accumulator struct {
	mu    sync.Mutex
	outer []float64
	inner []float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Init clears both sequences.
func (a *Accumulator) Init() {
	a.clear()
}

// Reset clears both sequences between two scans. It has the same effect as Init.
func (a *Accumulator) Reset() {
	a.clear()
}

func (a *Accumulator) clear() {
	a.mu.Lock()
	// drop the backing arrays, Reset is the only way to give the memory back
	a.outer = nil
	a.inner = nil
	a.mu.Unlock()
}

// AddSample appends one reading. The angle is accepted for forward compatibility and ignored.
// No validation is done, see Sample.Validate.
func (a *Accumulator) AddSample(angle, outer, inner float64) {
	_ = angle
	a.mu.Lock()
	a.outer = append(a.outer, outer)
	a.inner = append(a.inner, inner)
	a.mu.Unlock()
	metrics.ObserveSample()
}

func (a *Accumulator) Add(s Sample) {
	a.AddSample(s.Angle, s.Outer, s.Inner)
}

// Compute summarizes the accumulated readings into out without changing them.
// A nil out is reported with ErrNilResult and nothing else happens.
func (a *Accumulator) Compute(out *Result) error {
	if out == nil {
		metrics.ObserveCompute(metrics.StatusNilResult, 0, 0)
		return ErrNilResult
	}
	a.mu.Lock()
	outerAvg := average(a.outer)
	innerAvg := average(a.inner)
	a.mu.Unlock()

	*out = Result{
		OuterDiameterAvg: outerAvg,
		InnerDiameterAvg: innerAvg,
		RoundnessOuter:   PlaceholderRoundnessOuter,
		RoundnessInner:   PlaceholderRoundnessInner,
		Straightness:     PlaceholderStraightness,
		Concentricity:    PlaceholderConcentricity,
		Length:           PlaceholderLength,
		OKFlag:           PlaceholderOKFlag,
	}
	metrics.ObserveCompute(metrics.StatusOK, outerAvg, innerAvg)
	return nil
}

// Len returns the number of accumulated samples.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.outer)
}

func average(v []float64) float64 {
	if len(v) == 0 {
		return 0.0
	}
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}
