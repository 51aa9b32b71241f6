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
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/frphmi/frpcore/pkg/logger"
	"github.com/frphmi/frpcore/pkg/metrics"
)

// Scanner drives one automatic measurement cycle: it probes the part, acquires SamplesPerRev
// samples for each of the Sections and summarizes them.
type Scanner struct {
	Acc           *Accumulator
	Source        Source
	SamplesPerRev int
	Sections      int
	// Interval paces the acquisition, zero means as fast as the source allows.
	Interval time.Duration

	// OnStep is called on every step change, section is 1-based and 0 outside of sections.
	OnStep func(step Step, section int)
	// OnSample is called for every accepted sample.
	OnSample func(sample Sample)
}

// Run resets the accumulator and walks the cycle. A source returning io.EOF ends the
// acquisition early, the samples received so far are still summarized. Any other source
// error, SamplesPerRev invalid samples in a row or the cancellation of ctx stops the cycle
// at StepError.
func (s *Scanner) Run(ctx context.Context) (Result, error) {
	var result Result
	if s.Acc == nil || s.Source == nil {
		return result, errors.New("scanner needs an accumulator and a source")
	}
	if s.SamplesPerRev <= 0 || s.Sections <= 0 {
		return result, errors.Errorf("invalid scan layout: %d samples per revolution, %d sections", s.SamplesPerRev, s.Sections)
	}

	s.Acc.Reset()
	for _, step := range []Step{StepZeroProbe, StepLocateEdge1, StepLocateEdge2} {
		s.enter(ctx, step, 0)
	}

	exhausted := false
	for section := 1; section <= s.Sections && !exhausted; section++ {
		s.enter(ctx, StepMoveToSection, section)
		s.enter(ctx, StepRotateMeasure, section)
		acquired, rejected := 0, 0
		for acquired < s.SamplesPerRev {
			if err := s.wait(ctx); err != nil {
				return result, s.fail(ctx, section, errors.Wrapf(err, "scan canceled in section %d", section))
			}
			sample, err := s.Source.Next(ctx)
			if err == io.EOF {
				exhausted = true
				logger.Info(ctx, "source exhausted, section", section, "acquired", acquired)
				break
			}
			if err != nil {
				return result, s.fail(ctx, section, errors.Wrapf(err, "acquire sample %d of section %d", acquired+1, section))
			}
			if err = sample.Validate(); err != nil {
				metrics.SamplesRejected.Inc()
				logger.Warning(ctx, "INVALID_SAMPLE_ALARM", "section", section, "err", err)
				if rejected++; rejected >= s.SamplesPerRev {
					return result, s.fail(ctx, section, errors.Wrapf(err, "%d invalid samples in a row in section %d", rejected, section))
				}
				continue
			}
			s.Acc.Add(sample)
			acquired++
			rejected = 0
			if s.OnSample != nil {
				s.OnSample(sample)
			}
		}
		if section < s.Sections && !exhausted {
			s.enter(ctx, StepNextSection, section)
		}
	}

	s.enter(ctx, StepFinished, 0)
	if err := s.Acc.Compute(&result); err != nil {
		return result, err
	}
	logger.Info(ctx, "scan finished, samples", s.Acc.Len(), "outer avg", result.OuterDiameterAvg,
		"inner avg", result.InnerDiameterAvg, "verdict", result.Verdict())
	return result, nil
}

func (s *Scanner) enter(ctx context.Context, step Step, section int) {
	logger.Debug(ctx, "step", step, "section", section)
	if s.OnStep != nil {
		s.OnStep(step, section)
	}
}

func (s *Scanner) fail(ctx context.Context, section int, err error) error {
	s.enter(ctx, StepError, section)
	metrics.Computes.WithLabelValues(metrics.StatusScanFailed).Inc()
	logger.Error(ctx, "SCAN_FAIL_ALARM", "section", section, "err", err)
	return err
}

func (s *Scanner) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil || s.Interval <= 0 {
		return err
	}
	timer := time.NewTimer(s.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
