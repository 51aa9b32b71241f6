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

package logger

import (
	"strconv"

	"github.com/cihub/seelog"

	"github.com/frphmi/frpcore/pkg/util"
)

// Environment variables read when the matching logger flag is not set, the host process of the
// shared library never passes command line flags.
const (
	EnvLevelName   = "FRP_LOGGER_LEVEL"
	EnvConsoleName = "FRP_LOGGER_CONSOLE"
	EnvRetainName  = "FRP_LOGGER_RETAIN"
	EnvMemoryName  = "FRP_LOGGER_MEMORY"
)

// settings decide the seelog config generated when no config file is retained.
type settings struct {
	level   string
	console bool
	sync    bool
	retain  bool
	memory  bool
}

// ConfigOption changes one logger setting. Flags and FRP_LOGGER_* variables win over options.
type ConfigOption func(*settings)

var defaultProductionOptions = []ConfigOption{
	OptionOffConsole,
	OptionAsyncLogger,
	OptionInfoLevel,
	OptionRetainConfig,
	OptionOffMemoryReceiver,
}

var defaultTestOptions = []ConfigOption{
	OptionOpenConsole,
	OptionSyncLogger,
	OptionInfoLevel,
	OptionOverrideConfig,
	OptionOffMemoryReceiver,
}

func OptionOffConsole(s *settings) { s.console = false }
func OptionOpenConsole(s *settings) { s.console = true }
func OptionOffMemoryReceiver(s *settings) { s.memory = false }
func OptionOpenMemoryReceiver(s *settings) { s.memory = true }
func OptionSyncLogger(s *settings) { s.sync = true }
func OptionAsyncLogger(s *settings) { s.sync = false }
func OptionDebugLevel(s *settings) { s.level = seelog.DebugStr }
func OptionInfoLevel(s *settings) { s.level = seelog.InfoStr }
func OptionWarnLevel(s *settings) { s.level = seelog.WarnStr }
func OptionErrorLevel(s *settings) { s.level = seelog.ErrorStr }

// OptionOverrideConfig regenerates the config file on every init.
func OptionOverrideConfig(s *settings) { s.retain = false }

// OptionRetainConfig keeps an existing config file, so that an operator can edit it.
func OptionRetainConfig(s *settings) { s.retain = true }

func newSettings(groups ...[]ConfigOption) settings {
	var s settings
	for _, options := range groups {
		for _, option := range options {
			option(&s)
		}
	}
	s.applyOverrides()
	return s
}

// applyOverrides applies the logger flags, or the FRP_LOGGER_* variables for the unset ones.
// Invalid values are ignored.
func (s *settings) applyOverrides() {
	if level := overrideValue(loggerLevel, EnvLevelName); level != "" {
		if _, found := seelog.LogLevelFromString(level); found {
			s.level = level
		}
	}
	if console, err := strconv.ParseBool(overrideValue(loggerConsole, EnvConsoleName)); err == nil {
		s.console = console
	}
	if retain, err := strconv.ParseBool(overrideValue(loggerRetain, EnvRetainName)); err == nil {
		s.retain = retain
	}
	if memory, err := strconv.ParseBool(overrideValue(loggerMemory, EnvMemoryName)); err == nil {
		s.memory = memory
	}
}

func overrideValue(flagValue *string, env string) string {
	if *flagValue != "" {
		return *flagValue
	}
	var value string
	_ = util.InitFromEnvString(env, &value, "")
	return value
}

func (s *settings) pattern() string {
	if s.sync {
		return syncPattern
	}
	return asyncPattern
}
