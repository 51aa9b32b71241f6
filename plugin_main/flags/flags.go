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

package flags

import (
	"flag"

	"github.com/frphmi/frpcore/pkg/util"
)

// flags only used by the standalone runner.
var (
	InputFile  = flag.String("input-file", "", "replay samples from a csv file of angle,outer,inner rows instead of simulating them.")
	OutputFile = flag.String("output-file", "", "write the result as json to this file.")
	Seed       = flag.Int64("seed", 1, "seed of the simulated probe.")
	Realtime   = flag.Bool("realtime", false, "pace the acquisition with sample_interval_ms of the global config.")
	Hold       = flag.Bool("hold", false, "keep serving the http endpoints after the scan until interrupted.")
	Cpuprofile = flag.String("cpu-profile", "cpu.prof", "write cpu profile to file.")
	Memprofile = flag.String("mem-profile", "mem.prof", "write mem profile to file.")
)

// OverrideByEnv applies the FRP_* environment variables over the runner flags.
func OverrideByEnv() {
	_ = util.InitFromEnvString("FRP_INPUT_FILE", InputFile, *InputFile)
	_ = util.InitFromEnvString("FRP_OUTPUT_FILE", OutputFile, *OutputFile)
	_ = util.InitFromEnvInt64("FRP_SEED", Seed, *Seed)
	_ = util.InitFromEnvBool("FRP_REALTIME", Realtime, *Realtime)
	_ = util.InitFromEnvBool("FRP_HOLD", Hold, *Hold)
}
