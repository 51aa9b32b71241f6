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

package main

import (
	"unsafe"

	"github.com/frphmi/frpcore/pkg/measure"
)

/*
typedef struct FrpResult {
	double outer_diameter_avg;
	double inner_diameter_avg;
	double roundness_outer;
	double roundness_inner;
	double straightness;
	double concentricity;
	double length;
	int ok_flag;
} FrpResult;
*/
import "C" //nolint:typecheck

func copyResult(dst *C.FrpResult, src *measure.Result) {
	dst.outer_diameter_avg = C.double(src.OuterDiameterAvg)
	dst.inner_diameter_avg = C.double(src.InnerDiameterAvg)
	dst.roundness_outer = C.double(src.RoundnessOuter)
	dst.roundness_inner = C.double(src.RoundnessInner)
	dst.straightness = C.double(src.Straightness)
	dst.concentricity = C.double(src.Concentricity)
	dst.length = C.double(src.Length)
	dst.ok_flag = C.int(src.OKFlag)
}

func resultFromC(src *C.FrpResult) measure.Result {
	return measure.Result{
		OuterDiameterAvg: float64(src.outer_diameter_avg),
		InnerDiameterAvg: float64(src.inner_diameter_avg),
		RoundnessOuter:   float64(src.roundness_outer),
		RoundnessInner:   float64(src.roundness_inner),
		Straightness:     float64(src.straightness),
		Concentricity:    float64(src.concentricity),
		Length:           float64(src.length),
		OKFlag:           int32(src.ok_flag),
	}
}

// resultLayout reports the size of FrpResult and the offsets of its fields, in field order.
func resultLayout() (size uintptr, offsets []uintptr) {
	var r C.FrpResult
	return unsafe.Sizeof(r), []uintptr{
		unsafe.Offsetof(r.outer_diameter_avg),
		unsafe.Offsetof(r.inner_diameter_avg),
		unsafe.Offsetof(r.roundness_outer),
		unsafe.Offsetof(r.roundness_inner),
		unsafe.Offsetof(r.straightness),
		unsafe.Offsetof(r.concentricity),
		unsafe.Offsetof(r.length),
		unsafe.Offsetof(r.ok_flag),
	}
}

// copyThroughC copies src into a C record and back.
func copyThroughC(src measure.Result) measure.Result {
	var out C.FrpResult
	copyResult(&out, &src)
	return resultFromC(&out)
}

// legacyCycle drives the legacy entry points the way the C host does: frp_init, one
// frp_add_sample per sample, frp_compute(NULL), then frp_compute into a record.
func legacyCycle(samples []measure.Sample) measure.Result {
	frp_init()
	for _, sample := range samples {
		frp_add_sample(C.double(sample.Angle), C.double(sample.Outer), C.double(sample.Inner))
	}
	frp_compute(nil)
	var out C.FrpResult
	frp_compute(&out)
	return resultFromC(&out)
}

// checkedCompute calls frp_compute_v2, with a NULL record when withRecord is false.
func checkedCompute(withRecord bool) (int, measure.Result) {
	if !withRecord {
		return int(frp_compute_v2(nil)), measure.Result{}
	}
	var out C.FrpResult
	code := int(frp_compute_v2(&out))
	return code, resultFromC(&out)
}

// guard runs an entry point and turns a panic into codeInternal.
func guard(entry string, fn func() int) (code int) {
	defer recoverPanic(entry, &code)
	return fn()
}

func computeInto(handle int64, out *C.FrpResult) int {
	if out == nil {
		return abiCompute(handle, nil)
	}
	var result measure.Result
	code := abiCompute(handle, &result)
	if code == codeOK {
		copyResult(out, &result)
	}
	return code
}

func sampleOf(angle, outer, inner C.double) measure.Sample {
	return measure.Sample{Angle: float64(angle), Outer: float64(outer), Inner: float64(inner)}
}

//export frp_init
func frp_init() {
	defer recoverPanic("frp_init", nil)
	initLibrary("")
	registry.Default().Init()
}

// frp_init_v2 is frp_init with the global config passed as a json string. It returns 1 when the
// config could not be used and the defaults were taken.
//
//export frp_init_v2
func frp_init_v2(cfg *C.char) C.int {
	cfgStr := ""
	if cfg != nil {
		cfgStr = C.GoString(cfg)
	}
	return C.int(guard("frp_init_v2", func() int {
		code := initLibrary(cfgStr)
		registry.Default().Init()
		return code
	}))
}

//export frp_reset
func frp_reset() {
	defer recoverPanic("frp_reset", nil)
	registry.Default().Reset()
}

//export frp_add_sample
func frp_add_sample(angle, outer, inner C.double) {
	defer recoverPanic("frp_add_sample", nil)
	registry.Default().AddSample(float64(angle), float64(outer), float64(inner))
}

// frp_compute ignores a NULL result pointer.
//
//export frp_compute
func frp_compute(out *C.FrpResult) {
	_ = guard("frp_compute", func() int { return computeInto(measure.DefaultHandle, out) })
}

//export frp_compute_v2
func frp_compute_v2(out *C.FrpResult) C.int {
	return C.int(guard("frp_compute_v2", func() int { return computeInto(measure.DefaultHandle, out) }))
}

//export frp_add_sample_v2
func frp_add_sample_v2(angle, outer, inner C.double) C.int {
	return C.int(guard("frp_add_sample_v2", func() int {
		return abiAddSample(measure.DefaultHandle, sampleOf(angle, outer, inner), true)
	}))
}

// frp_open returns the handle of a new accumulator, or codeInternal on failure.
//
//export frp_open
func frp_open() C.longlong {
	var handle int64
	code := guard("frp_open", func() int {
		handle = abiOpen()
		return codeOK
	})
	if code != codeOK {
		return C.longlong(code)
	}
	return C.longlong(handle)
}

//export frp_close
func frp_close(handle C.longlong) C.int {
	return C.int(guard("frp_close", func() int { return abiClose(int64(handle)) }))
}

//export frp_reset_h
func frp_reset_h(handle C.longlong) C.int {
	return C.int(guard("frp_reset_h", func() int { return abiReset(int64(handle)) }))
}

//export frp_add_sample_h
func frp_add_sample_h(handle C.longlong, angle, outer, inner C.double) C.int {
	return C.int(guard("frp_add_sample_h", func() int {
		return abiAddSample(int64(handle), sampleOf(angle, outer, inner), true)
	}))
}

//export frp_compute_h
func frp_compute_h(handle C.longlong, out *C.FrpResult) C.int {
	return C.int(guard("frp_compute_h", func() int { return computeInto(int64(handle), out) }))
}

// frp_sample_count_h returns the number of samples of the handle, or -2 for unknown handles.
//
//export frp_sample_count_h
func frp_sample_count_h(handle C.longlong) C.int {
	return C.int(guard("frp_sample_count_h", func() int { return abiSampleCount(int64(handle)) }))
}

// frp_shutdown closes every opened handle and flushes the logs.
//
//export frp_shutdown
func frp_shutdown() C.int {
	return C.int(guard("frp_shutdown", abiShutdown))
}
