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

// flags used to control frp_core.
var (
	GlobalConfig = flag.String("global", "./config/frp_hmi_config.json", "global config, json or yaml.")
	Station      = flag.String("station", "", "station name attached to the logs of the default accumulator.")
	HTTPFlag     = flag.Bool("http-flag", false, "export the http telemetry and control endpoints.")
	HTTPProfFlag = flag.Bool("prof-flag", false, "http pprof flag.")
	HTTPAddr     = flag.String("server", "", "http server address, overrides http_addr of the global config.")
)

func init() {
	OverrideByEnv()
}

// OverrideByEnv lets the host process control the library, which never sees command line flags
// when loaded as a shared object.
func OverrideByEnv() {
	_ = util.InitFromEnvString("FRP_GLOBAL_CONFIG", GlobalConfig, *GlobalConfig)
	_ = util.InitFromEnvString("FRP_STATION", Station, *Station)
	_ = util.InitFromEnvBool("FRP_HTTP_FLAG", HTTPFlag, *HTTPFlag)
	_ = util.InitFromEnvBool("FRP_PROF_FLAG", HTTPProfFlag, *HTTPProfFlag)
	_ = util.InitFromEnvString("FRP_HTTP_ADDR", HTTPAddr, *HTTPAddr)
}
