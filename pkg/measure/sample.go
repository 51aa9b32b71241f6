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

// Package measure accumulates the outer and inner diameter readings of a scan and summarizes them.
//
// Only the diameter averages are derived from the data. Roundness, straightness, concentricity,
// length and the verdict are fixed stand-ins until the real algorithms exist; see the
// Placeholder constants.
package measure

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrNilResult     = errors.New("result record is nil")
	ErrInvalidSample = errors.New("invalid sample")
	ErrUnknownHandle = errors.New("unknown accumulator handle")
	ErrDefaultHandle = errors.New("the default accumulator cannot be closed")
)

// Sample is one measurement event: the rotation angle in degrees and the diameters in mm.
type Sample struct {
	Angle float64 `json:"angle_deg"`
	Outer float64 `json:"outer_d_mm"`
	Inner float64 `json:"inner_d_mm"`
}

// Validate rejects values that cannot come from a probe. Any finite angle is accepted.
func (s Sample) Validate() error {
	if math.IsNaN(s.Angle) || math.IsInf(s.Angle, 0) {
		return errors.Wrapf(ErrInvalidSample, "angle %v", s.Angle)
	}
	if err := checkDiameter("outer diameter", s.Outer); err != nil {
		return err
	}
	return checkDiameter("inner diameter", s.Inner)
}

func checkDiameter(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return errors.Wrapf(ErrInvalidSample, "%s %v", name, v)
	}
	return nil
}
