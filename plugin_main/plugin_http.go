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
	"io"
	"net/http"
	_ "net/http/pprof" //nolint
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"sort"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/frphmi/frpcore/pkg"
	"github.com/frphmi/frpcore/pkg/config"
	"github.com/frphmi/frpcore/pkg/flags"
	"github.com/frphmi/frpcore/pkg/logger"
	"github.com/frphmi/frpcore/pkg/measure"
	"github.com/frphmi/frpcore/pkg/metrics"
	"github.com/frphmi/frpcore/pkg/util"
	mainflags "github.com/frphmi/frpcore/plugin_main/flags"
)

var (
	handlers    = make(map[string]*handler) // contains the whole export http.HandlerFunc.
	controlLock sync.Mutex                  // the control handlers should be invoked in order.
	once        sync.Once
)

// handler wraps the http.HandlerFunc with description.
type handler struct {
	handlerFunc http.HandlerFunc
	description string
}

type resultResponse struct {
	Handle       int64          `json:"handle"`
	Samples      int            `json:"samples"`
	Verdict      string         `json:"verdict"`
	Result       measure.Result `json:"result"`
	Placeholders []string       `json:"placeholders"`
}

// HelpServer lists the exported handlers.
func HelpServer(w http.ResponseWriter, req *http.Request) {
	paths := make([]string, 0, len(handlers))
	for path := range handlers {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	_, _ = io.WriteString(w, "frp_core "+config.BaseVersion+"\n")
	for _, path := range paths {
		_, _ = io.WriteString(w, "\t"+path+"\t"+handlers[path].description+"\n")
	}
	if *flags.HTTPProfFlag {
		_, _ = io.WriteString(w, "\t/debug/pprof/goroutine?debug=1\n\t/debug/pprof/heap?debug=1\n")
	}
}

// handleFromQuery reads the optional handle query parameter, the default accumulator is used when absent.
func handleFromQuery(w http.ResponseWriter, req *http.Request) (int64, bool) {
	value := req.URL.Query().Get("handle")
	if value == "" {
		return measure.DefaultHandle, true
	}
	handle, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("invalid handle"))
		return 0, false
	}
	return handle, true
}

// HandleResult computes the accumulator and answers the result as json.
func HandleResult(w http.ResponseWriter, req *http.Request) {
	handle, ok := handleFromQuery(w, req)
	if !ok {
		return
	}
	var resp resultResponse
	if code := abiCompute(handle, &resp.Result); code != codeOK {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("unknown handle"))
		return
	}
	resp.Handle = handle
	resp.Samples = abiSampleCount(handle)
	resp.Verdict = resp.Result.Verdict()
	resp.Placeholders = measure.Placeholders()
	bytes, err := jsoniter.Marshal(&resp)
	if err != nil {
		logger.Error(context.Background(), "HTTP_RESULT_ALARM", "marshal error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(bytes)
}

// HandleReset clears the accumulator, only POST is accepted.
func HandleReset(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	handle, ok := handleFromQuery(w, req)
	if !ok {
		return
	}
	controlLock.Lock()
	defer controlLock.Unlock()
	if abiReset(handle) != codeOK {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("unknown handle"))
		return
	}
	logger.Info(registry.Context(handle), "reset by http", req.RemoteAddr)
	w.WriteHeader(http.StatusOK)
}

// HandleAlarms drains the recorded alarms of the process and of every open accumulator.
func HandleAlarms(w http.ResponseWriter, req *http.Request) {
	records := util.GlobalAlarm.Drain()
	for _, handle := range registry.Handles() {
		if meta, ok := registry.Context(handle).Value(pkg.MeasureMeta).(*pkg.MeasureContextMeta); ok {
			records = append(records, meta.GetAlarm().Drain()...)
		}
	}
	bytes, err := jsoniter.Marshal(records)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(bytes)
}

// HandleLogs answers the latest lines of the memory log receiver, ?lines=N, default all kept lines.
// The receiver is enabled by -logger-memory or FRP_LOGGER_MEMORY.
func HandleLogs(w http.ResponseWriter, req *http.Request) {
	lines := 0
	if value := req.URL.Query().Get("lines"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("invalid lines"))
			return
		}
		lines = n
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, line := range logger.RecentMemoryLogs(lines) {
		_, _ = io.WriteString(w, line)
	}
}

// HandleForceGC trigger force GC.
func HandleForceGC(w http.ResponseWriter, req *http.Request) {
	logger.Info(context.Background(), "GC begin")
	runtime.GC()
	logger.Info(context.Background(), "GC done")
	debug.FreeOSMemory()
	logger.Info(context.Background(), "Free os memory done")
}

// HandleMem dump the memory info at once.
func HandleMem(w http.ResponseWriter, req *http.Request) {
	DumpMemInfo(0)
}

// HandleCPU dump the CPU info in 30 seconds.
func HandleCPU(w http.ResponseWriter, req *http.Request) {
	DumpCPUInfo(30)
}

// DumpCPUInfo dump the cpu profile info with the given seconds.
func DumpCPUInfo(seconds int) {
	f, err := os.Create(*mainflags.Cpuprofile)
	if err != nil {
		return
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	if err := pprof.StartCPUProfile(f); err != nil {
		return
	}
	time.Sleep((time.Duration)(seconds) * time.Second)
	pprof.StopCPUProfile()
}

// DumpMemInfo dump the mem profile info after the given seconds.
func DumpMemInfo(seconds int) {
	time.Sleep((time.Duration)(seconds) * time.Second)

	f, err := os.Create(*mainflags.Memprofile)
	if err != nil {
		return
	}
	_ = pprof.WriteHeapProfile(f)
	_ = f.Close()
}

func registerHandlers() {
	handlers["/metrics"] = &handler{handlerFunc: metrics.Handler().ServeHTTP, description: "prometheus metrics"}
	handlers["/result"] = &handler{handlerFunc: HandleResult, description: "compute an accumulator, ?handle=N, default 0"}
	handlers["/reset"] = &handler{handlerFunc: HandleReset, description: "POST, reset an accumulator, ?handle=N, default 0"}
	handlers["/alarms"] = &handler{handlerFunc: HandleAlarms, description: "drain the recorded alarms"}
	handlers["/logs"] = &handler{handlerFunc: HandleLogs, description: "recent in-memory logs, ?lines=N"}
	handlers["/forcegc"] = &handler{handlerFunc: HandleForceGC, description: "force gc"}
	if *flags.HTTPProfFlag {
		handlers["/mem"] = &handler{handlerFunc: HandleMem, description: "dump mem info"}
		handlers["/cpu"] = &handler{handlerFunc: HandleCPU, description: "dump cpu info, 30 seconds"}
		runtime.SetBlockProfileRate(1)
	}
	handlers["/"] = &handler{handlerFunc: HelpServer, description: "handlers help description"}
	handlers["/help"] = &handler{handlerFunc: HelpServer, description: "handlers help description"}
}

func newServeMux() *http.ServeMux {
	var mux *http.ServeMux
	if *flags.HTTPProfFlag {
		// bound the handlers exported by `net/http/pprof`
		mux = http.DefaultServeMux
	} else {
		mux = http.NewServeMux()
	}
	for path, handler := range handlers {
		mux.HandleFunc(path, handler.handlerFunc)
	}
	return mux
}

// InitHTTPServer starts the telemetry server when the http flag is set. When the prof flag is
// also set the handlers of `net/http/pprof` are served too.
func InitHTTPServer() {
	once.Do(func() {
		if !*flags.HTTPFlag {
			return
		}
		registerHandlers()
		mux := newServeMux()
		addr := config.FrpGlobalConfig.HTTPAddr
		go func() {
			logger.Info(context.Background(), "start http server for frp_core telemetry, addr", addr)
			logger.Error(context.Background(), "INIT_HTTP_SERVER_ALARM", "err", http.ListenAndServe(addr, mux)) //nolint
		}()
	})
}
