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

// Package metrics holds the self telemetry of frp_core. The collectors live in a private
// registry so that a host embedding several copies of the library never collides on the
// default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/paulbellamy/ratecounter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "frp"

// compute status label values.
const (
	StatusOK         = "ok"
	StatusNilResult  = "nil_result"
	StatusBadHandle  = "unknown_handle"
	StatusScanFailed = "scan_failed"
)

var (
	Registry = prometheus.NewRegistry()

	// sampleRate counts the samples added during the last second.
	sampleRate = ratecounter.NewRateCounter(time.Second)

	SamplesAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "samples_added_total",
		Help:      "Diameter samples appended to any accumulator.",
	})
	SamplesRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "samples_rejected_total",
		Help:      "Samples refused by the checked entry points.",
	})
	Computes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compute_total",
		Help:      "Compute requests by status.",
	}, []string{"status"})
	Accumulators = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "accumulators",
		Help:      "Open accumulators, the default one included.",
	})
	Alarms = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alarms_total",
		Help:      "Warnings and errors logged, by alarm type.",
	}, []string{"type"})
	LastOuterAvg = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_outer_diameter_avg_mm",
		Help:      "Outer diameter average of the last successful compute.",
	})
	LastInnerAvg = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_inner_diameter_avg_mm",
		Help:      "Inner diameter average of the last successful compute.",
	})
	SampleRate = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sample_rate_per_second",
		Help:      "Samples added during the last second.",
	}, func() float64 {
		return float64(sampleRate.Rate())
	})
)

func init() {
	Registry.MustRegister(
		SamplesAdded,
		SamplesRejected,
		Computes,
		Accumulators,
		Alarms,
		LastOuterAvg,
		LastInnerAvg,
		SampleRate,
		collectors.NewGoCollector(),
	)
}

// ObserveSample records one sample appended to an accumulator.
func ObserveSample() {
	SamplesAdded.Inc()
	sampleRate.Incr(1)
}

// ObserveCompute records a compute request. The averages are only taken into account for
// successful requests.
func ObserveCompute(status string, outerAvg, innerAvg float64) {
	Computes.WithLabelValues(status).Inc()
	if status == StatusOK {
		LastOuterAvg.Set(outerAvg)
		LastInnerAvg.Set(innerAvg)
	}
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(Registry, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
