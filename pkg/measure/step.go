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

// Step is a stage of the automatic measurement cycle.
type Step int

const (
	StepIdle Step = iota
	StepZeroProbe
	StepLocateEdge1
	StepLocateEdge2
	StepMoveToSection
	StepRotateMeasure
	StepNextSection
	StepFinished
	StepError
)

var stepLabels = map[Step]string{
	StepIdle:          "Idle",
	StepZeroProbe:     "Zero Probe",
	StepLocateEdge1:   "Locate Edge 1",
	StepLocateEdge2:   "Locate Edge 2",
	StepMoveToSection: "Move To Section",
	StepRotateMeasure: "Rotate & Acquire",
	StepNextSection:   "Next Section",
	StepFinished:      "Finished",
	StepError:         "Error",
}

// String returns the label shown to the operator.
func (s Step) String() string {
	if label, ok := stepLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// Terminal reports whether the cycle is over.
func (s Step) Terminal() bool {
	return s == StepFinished || s == StepError
}
