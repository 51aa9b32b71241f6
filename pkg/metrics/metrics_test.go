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

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCompute(t *testing.T) {
	before := testutil.ToFloat64(Computes.WithLabelValues(StatusOK))
	ObserveCompute(StatusOK, 11, 8.5)
	assert.Equal(t, before+1, testutil.ToFloat64(Computes.WithLabelValues(StatusOK)))
	assert.Equal(t, 11.0, testutil.ToFloat64(LastOuterAvg))
	assert.Equal(t, 8.5, testutil.ToFloat64(LastInnerAvg))

	ObserveCompute(StatusNilResult, 99, 99)
	assert.Equal(t, 11.0, testutil.ToFloat64(LastOuterAvg))
	assert.Equal(t, 8.5, testutil.ToFloat64(LastInnerAvg))
}

func TestHandler(t *testing.T) {
	SamplesAdded.Add(2)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "frp_samples_added_total"))
	assert.True(t, strings.Contains(body, "frp_compute_total"))
}

func TestObserveSample(t *testing.T) {
	before := testutil.ToFloat64(SamplesAdded)
	for i := 0; i < 3; i++ {
		ObserveSample()
	}
	assert.Equal(t, before+3, testutil.ToFloat64(SamplesAdded))
	assert.GreaterOrEqual(t, testutil.ToFloat64(SampleRate), 3.0)
}
