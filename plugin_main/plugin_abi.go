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
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/frphmi/frpcore/pkg/config"
	"github.com/frphmi/frpcore/pkg/flags"
	"github.com/frphmi/frpcore/pkg/logger"
	"github.com/frphmi/frpcore/pkg/measure"
	"github.com/frphmi/frpcore/pkg/metrics"
)

// status codes of the checked entry points.
const (
	codeOK            = 0
	codeNilResult     = -1
	codeUnknownHandle = -2
	codeInvalidSample = -3
	codeInternal      = -4
)

var initOnce sync.Once

// registry backs every entry point, tests swap it.
var registry = measure.DefaultRegistry

// initLibrary loads the global config, the logger and the http server. Only the first call does
// the work, the later ones return 0.
func initLibrary(cfgStr string) int {
	rst := 0
	initOnce.Do(func() {
		err := loadGlobalConfig(cfgStr)
		logger.Init()
		if err != nil {
			logger.Error(context.Background(), "CONFIG_LOAD_ALARM", "load global config error, use default, err", err)
			rst = 1
		}
		registry.SetStation(*flags.Station)
		InitHTTPServer()
		logger.Info(context.Background(), "init frp_core, version", config.BaseVersion,
			"samples per rev", config.FrpGlobalConfig.SamplesPerRev, "plc", fmt.Sprintf("%s:%d", config.FrpGlobalConfig.PLCIP, config.FrpGlobalConfig.PLCPort))
	})
	return rst
}

// loadGlobalConfig parses cfgStr when it looks like a json object, otherwise reads the file named
// by the global flag. The defaults are kept on any error.
func loadGlobalConfig(cfgStr string) error {
	var cfg config.GlobalConfig
	var err error
	if len(cfgStr) >= 2 {
		cfg, err = config.ParseConfig([]byte(cfgStr), config.FormatJSON)
	} else {
		cfg, err = config.LoadConfig(*flags.GlobalConfig)
	}
	if err == nil {
		err = errors.Wrap(cfg.Validate(), "validate global config")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "load global config error", err)
		cfg = config.NewGlobalConfig()
	}
	if *flags.HTTPAddr != "" {
		cfg.HTTPAddr = *flags.HTTPAddr
	}
	config.FrpGlobalConfig = cfg
	return err
}

// recoverPanic keeps a panic from crossing the C boundary.
func recoverPanic(entry string, code *int) {
	if err := recover(); err != nil {
		trace := make([]byte, 2048)
		trace = trace[:runtime.Stack(trace, false)]
		logger.Error(context.Background(), "FRP_RUNTIME_ALARM", "entry", entry, "panicked", err, "stack", string(trace))
		if code != nil {
			*code = codeInternal
		}
	}
}

func abiAddSample(handle int64, sample measure.Sample, checked bool) int {
	acc, ok := registry.Get(handle)
	if !ok {
		logger.Warning(context.Background(), "UNKNOWN_HANDLE_ALARM", "add sample, handle", handle)
		return codeUnknownHandle
	}
	if checked {
		if err := sample.Validate(); err != nil {
			metrics.SamplesRejected.Inc()
			logger.Warning(registry.Context(handle), "INVALID_SAMPLE_ALARM", "err", err)
			return codeInvalidSample
		}
	}
	acc.Add(sample)
	if logger.DebugFlag() {
		logger.Debug(registry.Context(handle), "angle", sample.Angle, "outer", sample.Outer, "inner", sample.Inner)
	}
	return codeOK
}

func abiCompute(handle int64, out *measure.Result) int {
	acc, ok := registry.Get(handle)
	if !ok {
		metrics.ObserveCompute(metrics.StatusBadHandle, 0, 0)
		logger.Warning(context.Background(), "UNKNOWN_HANDLE_ALARM", "compute, handle", handle)
		return codeUnknownHandle
	}
	if err := acc.Compute(out); err != nil {
		logger.Debug(registry.Context(handle), "compute skipped", err)
		return codeNilResult
	}
	logger.Debug(registry.Context(handle), "computed, samples", acc.Len(), "outer avg", out.OuterDiameterAvg, "inner avg", out.InnerDiameterAvg)
	return codeOK
}

func abiReset(handle int64) int {
	acc, ok := registry.Get(handle)
	if !ok {
		return codeUnknownHandle
	}
	acc.Reset()
	logger.Debug(registry.Context(handle), "reset", "")
	return codeOK
}

func abiOpen() int64 {
	handle := registry.Open(*flags.Station)
	logger.Info(registry.Context(handle), "open accumulator", handle)
	return handle
}

func abiClose(handle int64) int {
	ctx := registry.Context(handle)
	if err := registry.Close(handle); err != nil {
		logger.Warning(ctx, "CLOSE_HANDLE_ALARM", "err", err)
		if errors.Is(err, measure.ErrUnknownHandle) {
			return codeUnknownHandle
		}
		return codeInternal
	}
	logger.Info(ctx, "close accumulator", handle)
	return codeOK
}

func abiSampleCount(handle int64) int {
	acc, ok := registry.Get(handle)
	if !ok {
		return codeUnknownHandle
	}
	return acc.Len()
}

func abiShutdown() int {
	code := codeOK
	if err := registry.CloseAll(); err != nil {
		logger.Error(context.Background(), "SHUTDOWN_ALARM", "close accumulators error", err)
		code = codeInternal
	}
	logger.Info(context.Background(), "shutdown", "done")
	logger.Flush()
	return code
}
