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
	"strconv"

	"github.com/pkg/errors"

	"github.com/frphmi/frpcore/pkg/util"
)

// Stand-ins for the metrics that are not implemented yet. They do not depend on the
// accumulated data and must not be read as measured values, see Implemented.
const (
	PlaceholderRoundnessOuter = 0.03
	PlaceholderRoundnessInner = 0.02
	PlaceholderStraightness   = 0.01
	PlaceholderConcentricity  = 0.05
	PlaceholderLength         = 1.8
	PlaceholderOKFlag         = OKFlagOK
)

const (
	OKFlagNG int32 = 0
	OKFlagOK int32 = 1
)

// ResultColumns are the headers of the result table, in field order.
var ResultColumns = []string{
	"Outer Ø Avg (mm)",
	"Inner Ø Avg (mm)",
	"Roundness OD (mm)",
	"Roundness ID (mm)",
	"Straightness (mm)",
	"Concentricity (mm)",
	"Length (m)",
	"OK?",
}

// ResultFields are the json names of the Result fields, in field order.
var ResultFields = []string{
	"outer_diameter_avg",
	"inner_diameter_avg",
	"roundness_outer",
	"roundness_inner",
	"straightness",
	"concentricity",
	"length",
	"ok_flag",
}

var placeholderFields = map[string]bool{
	"roundness_outer": true,
	"roundness_inner": true,
	"straightness":    true,
	"concentricity":   true,
	"length":          true,
	"ok_flag":         true,
}

// Implemented returns nil for the fields computed from the samples and util.ErrNotImplemented,
// wrapped with the field name, for the fields filled with a Placeholder* value.
func Implemented(field string) error {
	if placeholderFields[field] {
		return errors.Wrapf(util.ErrNotImplemented, "result field %s", field)
	}
	for _, f := range ResultFields {
		if f == field {
			return nil
		}
	}
	return errors.Errorf("unknown result field %q", field)
}

// Placeholders returns the json names of the fields holding stand-in values, in field order.
func Placeholders() []string {
	fields := make([]string, 0, len(placeholderFields))
	for _, field := range ResultFields {
		if errors.Is(Implemented(field), util.ErrNotImplemented) {
			fields = append(fields, field)
		}
	}
	return fields
}

// Result is the summary of one scan. The field order is the one of the C record.
type Result struct {
	OuterDiameterAvg float64 `json:"outer_diameter_avg"`
	InnerDiameterAvg float64 `json:"inner_diameter_avg"`
	RoundnessOuter   float64 `json:"roundness_outer"`
	RoundnessInner   float64 `json:"roundness_inner"`
	Straightness     float64 `json:"straightness"`
	Concentricity    float64 `json:"concentricity"`
	Length           float64 `json:"length"`
	OKFlag           int32   `json:"ok_flag"`
}

func (r *Result) Passed() bool {
	return r.OKFlag == OKFlagOK
}

// Verdict returns "OK" or "NG".
func (r *Result) Verdict() string {
	if r.Passed() {
		return "OK"
	}
	return "NG"
}

// Row renders the result as one line of the result table, three decimals per value.
func (r *Result) Row() []string {
	format := func(v float64) string {
		return strconv.FormatFloat(v, 'f', 3, 64)
	}
	return []string{
		format(r.OuterDiameterAvg),
		format(r.InnerDiameterAvg),
		format(r.RoundnessOuter),
		format(r.RoundnessInner),
		format(r.Straightness),
		format(r.Concentricity),
		format(r.Length),
		r.Verdict(),
	}
}
