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
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Source yields the samples of a scan. io.EOF ends the acquisition.
type Source interface {
	Next(ctx context.Context) (Sample, error)
}

// Nominal geometry of the simulated part.
const (
	SimulatedOuterNominal = 152.0
	SimulatedInnerNominal = 76.0
	SimulatedAngleStep    = 5.0
)

// SimulatedSource emulates a probe turning around a slightly oval part, used when no
// instrument is connected.
type SimulatedSource struct {
	rnd   *rand.Rand
	angle float64
}

func NewSimulatedSource(seed int64) *SimulatedSource {
	return &SimulatedSource{rnd: rand.New(rand.NewSource(seed))} //nolint:gosec
}

func (s *SimulatedSource) Next(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}
	s.angle = math.Mod(s.angle+SimulatedAngleStep, 360)
	rad := s.angle * math.Pi / 180
	return Sample{
		Angle: s.angle,
		Outer: SimulatedOuterNominal + 0.2*math.Sin(rad) + s.uniform(0.02),
		Inner: SimulatedInnerNominal + 0.05*math.Cos(rad) + s.uniform(0.01),
	}, nil
}

// uniform returns a value in [-limit, limit).
func (s *SimulatedSource) uniform(limit float64) float64 {
	return (s.rnd.Float64()*2 - 1) * limit
}

// CSVSource replays recorded samples, one "angle,outer,inner" row per sample. A leading
// header row is skipped.
type CSVSource struct {
	reader *csv.Reader
	line   int
}

func NewCSVSource(r io.Reader) *CSVSource {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	return &CSVSource{reader: reader}
}

func (s *CSVSource) Next(ctx context.Context) (Sample, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Sample{}, err
		}
		record, err := s.reader.Read()
		if err == io.EOF {
			return Sample{}, io.EOF
		}
		s.line++
		if err != nil {
			return Sample{}, errors.Wrapf(err, "read sample row %d", s.line)
		}
		values := make([]float64, len(record))
		var parseErr error
		for i, field := range record {
			if values[i], parseErr = strconv.ParseFloat(strings.TrimSpace(field), 64); parseErr != nil {
				break
			}
		}
		if parseErr != nil {
			if s.line == 1 {
				continue
			}
			return Sample{}, errors.Wrapf(parseErr, "parse sample row %d", s.line)
		}
		return Sample{Angle: values[0], Outer: values[1], Inner: values[2]}, nil
	}
}
