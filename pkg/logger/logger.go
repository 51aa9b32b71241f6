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
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cihub/seelog"
	"go.uber.org/atomic"

	"github.com/frphmi/frpcore/pkg"
	"github.com/frphmi/frpcore/pkg/config"
	"github.com/frphmi/frpcore/pkg/metrics"
	"github.com/frphmi/frpcore/pkg/util"
)

// seelog template
const (
	asyncPattern = `
<seelog type="asynctimer" asyncinterval="500000" minlevel="%s" >
 <outputs formatid="common">
	 <rollingfile type="size" filename="%s%s" maxsize="2097152" maxrolls="10"/>
	 %s
     %s
 </outputs>
 <formats>
	 <format id="common" format="%%Date %%Time [%%LEV] [%%File:%%Line] [%%FuncShort] %%Msg%%n" />
 </formats>
</seelog>
`
	syncPattern = `
<seelog type="sync" minlevel="%s" >
 <outputs formatid="common">
	 <rollingfile type="size" filename="%s%s" maxsize="2097152" maxrolls="10"/>
	 %s
	 %s
 </outputs>
 <formats>
	 <format id="common" format="%%Date %%Time [%%LEV] [%%File:%%Line] [%%FuncShort] %%Msg%%n" />
 </formats>
</seelog>
`
)

const (
	FlagLevelName   = "logger-level"
	FlagConsoleName = "logger-console"
	FlagRetainName  = "logger-retain"
	FlagMemoryName  = "logger-memory"

	LogFileName    = "frp_core.LOG"
	ConfigFileName = "frp_logger.xml"
)

// frpLogger is a global logger instance shared by every accumulator of the process.
// When having MeasureContextMeta in the context.Context, the meta header would be appended to
// the log. Logs at warn level or above are also recorded as alarms.
var frpLogger = seelog.Disabled

// Flags are only used by the standalone runner and tests, because frp_core is usually driven by C.
var (
	loggerLevel   = flag.String(FlagLevelName, "", "debug flag")
	loggerConsole = flag.String(FlagConsoleName, "", "debug flag")
	loggerRetain  = flag.String(FlagRetainName, "", "debug flag")
	loggerMemory  = flag.String(FlagMemoryName, "", "keep the recent logs in memory for the /logs endpoint")
)

var (
	current   settings
	alarmFlag bool
	debugFlag = atomic.NewBool(false)

	once sync.Once
)

func Init() {
	once.Do(func() {
		initNormalLogger()
	})
}

func InitTestLogger(options ...ConfigOption) {
	once.Do(func() {
		initTestLogger(options...)
	})
}

// initNormalLogger extracted from Init method for unit test.
func initNormalLogger() {
	alarmFlag = true
	current = newSettings(defaultProductionOptions)
	setLogConf(configPath())
}

// initTestLogger extracted from Init method for unit test.
func initTestLogger(options ...ConfigOption) {
	alarmFlag = false
	current = newSettings(defaultTestOptions, options)
	setLogConf(configPath())
}

func configPath() string {
	return filepath.Join(config.FrpGlobalConfig.ConfDir, ConfigFileName)
}

func Debug(ctx context.Context, kvPairs ...interface{}) {
	if !DebugFlag() {
		return
	}
	meta, ok := metaFrom(ctx)
	if ok {
		frpLogger.Debug(meta.LoggerHeader(), generateLog(kvPairs...))
	} else {
		frpLogger.Debug(generateLog(kvPairs...))
	}
}

func Debugf(ctx context.Context, format string, params ...interface{}) {
	if !DebugFlag() {
		return
	}
	meta, ok := metaFrom(ctx)
	if ok {
		frpLogger.Debugf(meta.LoggerHeader()+format, params...)
	} else {
		frpLogger.Debugf(format, params...)
	}
}

func Info(ctx context.Context, kvPairs ...interface{}) {
	meta, ok := metaFrom(ctx)
	if ok {
		frpLogger.Info(meta.LoggerHeader(), generateLog(kvPairs...))
	} else {
		frpLogger.Info(generateLog(kvPairs...))
	}
}

func Infof(ctx context.Context, format string, params ...interface{}) {
	meta, ok := metaFrom(ctx)
	if ok {
		frpLogger.Infof(meta.LoggerHeader()+format, params...)
	} else {
		frpLogger.Infof(format, params...)
	}
}

func Warning(ctx context.Context, alarmType string, kvPairs ...interface{}) {
	msg := generateLog(kvPairs...)
	meta, ok := metaFrom(ctx)
	if ok {
		_ = frpLogger.Warn(meta.LoggerHeader(), "AlarmType:", alarmType, "\t", msg)
	} else {
		_ = frpLogger.Warn("AlarmType:", alarmType, "\t", msg)
	}
	recordAlarm(meta, alarmType, msg)
}

func Warningf(ctx context.Context, alarmType string, format string, params ...interface{}) {
	msg := fmt.Sprintf(format, params...)
	meta, ok := metaFrom(ctx)
	if ok {
		_ = frpLogger.Warn(meta.LoggerHeader(), "AlarmType:", alarmType, "\t", msg)
	} else {
		_ = frpLogger.Warn("AlarmType:", alarmType, "\t", msg)
	}
	recordAlarm(meta, alarmType, msg)
}

func Error(ctx context.Context, alarmType string, kvPairs ...interface{}) {
	msg := generateLog(kvPairs...)
	meta, ok := metaFrom(ctx)
	if ok {
		_ = frpLogger.Error(meta.LoggerHeader(), "AlarmType:", alarmType, "\t", msg)
	} else {
		_ = frpLogger.Error("AlarmType:", alarmType, "\t", msg)
	}
	recordAlarm(meta, alarmType, msg)
}

func Errorf(ctx context.Context, alarmType string, format string, params ...interface{}) {
	msg := fmt.Sprintf(format, params...)
	meta, ok := metaFrom(ctx)
	if ok {
		_ = frpLogger.Error(meta.LoggerHeader(), "AlarmType:", alarmType, "\t", msg)
	} else {
		_ = frpLogger.Error("AlarmType:", alarmType, "\t", msg)
	}
	recordAlarm(meta, alarmType, msg)
}

// Flush logs to the output when using async logger.
func Flush() {
	frpLogger.Flush()
}

// Close the logger.
func Close() {
	frpLogger.Close()
}

// DebugFlag returns true when debug level is opening.
func DebugFlag() bool {
	return debugFlag.Load()
}

func metaFrom(ctx context.Context) (*pkg.MeasureContextMeta, bool) {
	if ctx == nil {
		return nil, false
	}
	meta, ok := ctx.Value(pkg.MeasureMeta).(*pkg.MeasureContextMeta)
	return meta, ok
}

// maxAlarmMessageLen bounds the message kept per alarm type.
const maxAlarmMessageLen = 1024

func recordAlarm(meta *pkg.MeasureContextMeta, alarmType, msg string) {
	if len(alarmType) == 0 {
		return
	}
	msg = util.CutString(msg, maxAlarmMessageLen)
	metrics.Alarms.WithLabelValues(alarmType).Inc()
	if !alarmFlag {
		return
	}
	if meta != nil {
		meta.RecordAlarm(alarmType, msg)
	} else {
		util.GlobalAlarm.Record(alarmType, msg)
	}
}

func setLogConf(logConfig string) {
	path := filepath.Clean(logConfig)
	if !current.retain {
		_ = os.Remove(path)
	}
	debugFlag.Store(false)
	frpLogger = seelog.Disabled
	if _, err := os.Stat(path); err != nil {
		if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			fmt.Fprintln(os.Stderr, "create logger config dir error", err)
			return
		}
		logConfigContent := generateDefaultConfig()
		_ = os.WriteFile(path, []byte(logConfigContent), 0o600)
	}
	logger, err := seelog.LoggerFromConfigAsFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger error", err)
		return
	}
	if err := logger.SetAdditionalStackDepth(1); err != nil {
		fmt.Fprintf(os.Stderr, "cannot set logger stack depth: %v\n", err)
		return
	}
	frpLogger = logger
	dat, _ := os.ReadFile(path)
	if strings.Contains(string(dat), "minlevel=\"debug\"") {
		debugFlag.Store(true)
	}
}

func generateLog(kvPairs ...interface{}) string {
	var logString = ""
	pairLen := len(kvPairs) / 2
	for i := 0; i < pairLen; i++ {
		logString += fmt.Sprintf("%v:%v\t", kvPairs[i<<1], kvPairs[i<<1+1])
	}
	if len(kvPairs)&0x01 != 0 {
		logString += fmt.Sprintf("%v:\t", kvPairs[len(kvPairs)-1])
	}
	return logString
}

func generateDefaultConfig() string {
	consoleStr := ""
	if current.console {
		consoleStr = "<console/>"
	}
	memoryStr := ""
	if current.memory {
		memoryStr = "<custom name=\"memory\" />"
	}
	return fmt.Sprintf(current.pattern(), current.level, config.FrpGlobalConfig.LogDir, LogFileName, consoleStr, memoryStr)
}
