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
	"math"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func placeholdersOf(r Result) Result {
	r.OuterDiameterAvg = 0
	r.InnerDiameterAvg = 0
	return r
}

var expectedPlaceholders = Result{
	RoundnessOuter: 0.03,
	RoundnessInner: 0.02,
	Straightness:   0.01,
	Concentricity:  0.05,
	Length:         1.8,
	OKFlag:         1,
}

func TestAccumulator(t *testing.T) {
	Convey("Given a freshly initialized accumulator", t, func() {
		acc := NewAccumulator()
		acc.Init()

		Convey("Compute on the empty accumulator yields zero averages", func() {
			var res Result
			So(acc.Compute(&res), ShouldBeNil)
			So(res.OuterDiameterAvg, ShouldEqual, 0.0)
			So(res.InnerDiameterAvg, ShouldEqual, 0.0)
			So(placeholdersOf(res), ShouldResemble, expectedPlaceholders)
		})

		Convey("A single sample is its own average", func() {
			acc.AddSample(0, 10.0, 8.0)
			var res Result
			So(acc.Compute(&res), ShouldBeNil)
			So(res.OuterDiameterAvg, ShouldEqual, 10.0)
			So(res.InnerDiameterAvg, ShouldEqual, 8.0)
		})

		Convey("Two samples are averaged", func() {
			acc.AddSample(0, 10.0, 8.0)
			acc.AddSample(5, 12.0, 9.0)
			var res Result
			So(acc.Compute(&res), ShouldBeNil)
			So(res.OuterDiameterAvg, ShouldEqual, 11.0)
			So(res.InnerDiameterAvg, ShouldEqual, 8.5)
			So(placeholdersOf(res), ShouldResemble, expectedPlaceholders)
			So(acc.Len(), ShouldEqual, 2)
		})

		Convey("Compute does not consume the samples", func() {
			acc.AddSample(0, 10.0, 8.0)
			var first, second Result
			So(acc.Compute(&first), ShouldBeNil)
			So(acc.Compute(&second), ShouldBeNil)
			So(second, ShouldResemble, first)
			So(acc.Len(), ShouldEqual, 1)
		})

		Convey("Reset clears the samples", func() {
			acc.AddSample(0, 10.0, 8.0)
			acc.AddSample(0, 12.0, 9.0)
			acc.Reset()
			var res Result
			So(acc.Compute(&res), ShouldBeNil)
			So(res.OuterDiameterAvg, ShouldEqual, 0.0)
			So(res.InnerDiameterAvg, ShouldEqual, 0.0)
			So(acc.Len(), ShouldEqual, 0)
		})

		Convey("Init is idempotent", func() {
			acc.Init()
			acc.Init()
			So(acc.Len(), ShouldEqual, 0)
		})

		Convey("Compute with a nil record reports it and changes nothing", func() {
			acc.AddSample(0, 10.0, 8.0)
			So(acc.Compute(nil) == ErrNilResult, ShouldBeTrue)
			So(acc.Len(), ShouldEqual, 1)
			var res Result
			So(acc.Compute(&res), ShouldBeNil)
			So(res.OuterDiameterAvg, ShouldEqual, 10.0)
		})

		Convey("The angle never influences the result", func() {
			angles := []float64{-720, -1, 0, 359.9, 360, 1e9}
			other := NewAccumulator()
			for i, angle := range angles {
				acc.AddSample(angle, 10+float64(i), 8+float64(i))
				other.AddSample(0, 10+float64(i), 8+float64(i))
			}
			var res, ref Result
			So(acc.Compute(&res), ShouldBeNil)
			So(other.Compute(&ref), ShouldBeNil)
			So(res, ShouldResemble, ref)
		})

		Convey("Samples are not validated", func() {
			acc.AddSample(math.NaN(), -1, 2)
			So(acc.Len(), ShouldEqual, 1)
		})
	})
}

func TestAccumulatorMean(t *testing.T) {
	for n := 0; n <= 50; n++ {
		acc := NewAccumulator()
		sumOuter, sumInner := 0.0, 0.0
		for i := 0; i < n; i++ {
			outer := 150 + float64(i%7)*0.125
			inner := 75 + float64(i%5)*0.25
			acc.AddSample(float64(i), outer, inner)
			sumOuter += outer
			sumInner += inner
		}
		var res Result
		if err := acc.Compute(&res); err != nil {
			t.Fatal(err)
		}
		wantOuter, wantInner := 0.0, 0.0
		if n > 0 {
			wantOuter = sumOuter / float64(n)
			wantInner = sumInner / float64(n)
		}
		if res.OuterDiameterAvg != wantOuter || res.InnerDiameterAvg != wantInner {
			t.Errorf("n=%d: got (%v, %v), want (%v, %v)", n, res.OuterDiameterAvg, res.InnerDiameterAvg, wantOuter, wantInner)
		}
		if placeholdersOf(res) != expectedPlaceholders {
			t.Errorf("n=%d: placeholders changed: %+v", n, res)
		}
	}
}

func TestAccumulatorConcurrent(t *testing.T) {
	acc := NewAccumulator()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				acc.AddSample(float64(i), 10, 8)
				var res Result
				_ = acc.Compute(&res)
			}
		}()
	}
	wg.Wait()
	var res Result
	if err := acc.Compute(&res); err != nil {
		t.Fatal(err)
	}
	if acc.Len() != 800 || res.OuterDiameterAvg != 10 || res.InnerDiameterAvg != 8 {
		t.Errorf("unexpected state: len=%d result=%+v", acc.Len(), res)
	}
}
