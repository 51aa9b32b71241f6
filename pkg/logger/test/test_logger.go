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

// Package test initializes the test logger for the packages importing it.
package test

import (
	"os"
	"path/filepath"

	"github.com/frphmi/frpcore/pkg/config"
	"github.com/frphmi/frpcore/pkg/logger"
)

// init keeps the test logs out of the package directory.
func init() {
	if dir, err := os.MkdirTemp("", "frp_test_logger"); err == nil {
		config.FrpGlobalConfig.LogDir = filepath.Join(dir, "log") + string(filepath.Separator)
		config.FrpGlobalConfig.ConfDir = filepath.Join(dir, "conf")
	}
	logger.InitTestLogger(logger.OptionOpenMemoryReceiver)
}
