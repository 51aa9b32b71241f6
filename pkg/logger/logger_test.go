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
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frphmi/frpcore/pkg"
	"github.com/frphmi/frpcore/pkg/config"
	"github.com/frphmi/frpcore/pkg/metrics"
	"github.com/frphmi/frpcore/pkg/util"
)

var mu sync.Mutex

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "frp_logger")
	if err != nil {
		panic(err)
	}
	config.FrpGlobalConfig.LogDir = dir + "/log/"
	config.FrpGlobalConfig.ConfDir = dir + "/conf/"
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func clean() {
	_ = os.Remove(filepath.Join(config.FrpGlobalConfig.ConfDir, ConfigFileName))
	_ = os.Remove(filepath.Join(config.FrpGlobalConfig.LogDir, LogFileName))
}

func readLog(index int) string {
	bytes, _ := os.ReadFile(filepath.Join(config.FrpGlobalConfig.LogDir, LogFileName))
	logs := strings.Split(string(bytes), "\n")
	if index > len(logs)-1 {
		return ""
	}
	return logs[index]
}

func excludeFlag() {
	_ = flag.Set(FlagLevelName, "xxx")
	_ = flag.Set(FlagConsoleName, "xxx")
	_ = flag.Set(FlagRetainName, "xxx")
	_ = flag.Set(FlagMemoryName, "xxx")
}

func Test_generateLog(t *testing.T) {
	mu.Lock()
	defer mu.Unlock()
	type args struct {
		kvPairs []interface{}
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "empty",
			args: args{},
			want: "",
		},
		{
			name: "odd number",
			args: args{kvPairs: []interface{}{"a", "b", "c"}},
			want: "a:b\tc:\t",
		},
		{
			name: "even number",
			args: args{kvPairs: []interface{}{"outer", 10.5, "inner", 8}},
			want: "outer:10.5\tinner:8\t",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generateLog(tt.args.kvPairs...); got != tt.want {
				t.Errorf("generateLog() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_generateDefaultConfig(t *testing.T) {
	mu.Lock()
	defer mu.Unlock()
	defer excludeFlag()
	excludeFlag()
	tests := []struct {
		name       string
		want       string
		flagSetter func()
	}{
		{
			name:       "production",
			want:       fmt.Sprintf(asyncPattern, "info", config.FrpGlobalConfig.LogDir, LogFileName, "", ""),
			flagSetter: func() {},
		},
		{
			name: "debug-level",
			want: fmt.Sprintf(asyncPattern, "debug", config.FrpGlobalConfig.LogDir, LogFileName, "", ""),
			flagSetter: func() {
				_ = flag.Set(FlagLevelName, "debug")
			},
		},
		{
			name: "wrong-level",
			want: fmt.Sprintf(asyncPattern, "info", config.FrpGlobalConfig.LogDir, LogFileName, "", ""),
			flagSetter: func() {
				_ = flag.Set(FlagLevelName, "debug111")
			},
		},
		{
			name: "open-console",
			want: fmt.Sprintf(asyncPattern, "info", config.FrpGlobalConfig.LogDir, LogFileName, "<console/>", ""),
			flagSetter: func() {
				_ = flag.Set(FlagConsoleName, "true")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			excludeFlag()
			tt.flagSetter()
			clean()
			initNormalLogger()
			assert.Equal(t, tt.want, generateDefaultConfig())
		})
	}
}

func TestLoggerHeader(t *testing.T) {
	mu.Lock()
	defer mu.Unlock()
	excludeFlag()
	clean()
	initTestLogger(OptionOffConsole)
	ctx, _ := pkg.NewMeasureContextMeta(context.Background(), "line-a", 3)
	Info(ctx, "samples", 180)
	line := readLog(0)
	assert.True(t, strings.Contains(line, "[line-a,#3]"), line)
	assert.True(t, strings.Contains(line, "samples:180"), line)

	Infof(context.Background(), "no header %d", 1)
	assert.False(t, strings.Contains(readLog(1), "#3"))
}

func TestAlarmRecord(t *testing.T) {
	mu.Lock()
	defer mu.Unlock()
	excludeFlag()
	clean()
	initTestLogger(OptionOffConsole)
	alarmFlag = true
	defer func() {
		alarmFlag = false
	}()

	ctx, meta := pkg.NewMeasureContextMeta(context.Background(), "", 7)
	before := testutil.ToFloat64(metrics.Alarms.WithLabelValues("TEST_ALARM"))
	Warning(ctx, "TEST_ALARM", "outer", -1)
	Errorf(ctx, "TEST_ALARM", "bad sample %d", 2)
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.Alarms.WithLabelValues("TEST_ALARM")))

	records := meta.GetAlarm().Drain()
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].Count)
	assert.Equal(t, "bad sample 2", records[0].Message)

	util.GlobalAlarm.Drain()
	Error(context.Background(), "GLOBAL_TEST_ALARM", "err", "x")
	records = util.GlobalAlarm.Drain()
	require.Len(t, records, 1)
	assert.Equal(t, "GLOBAL_TEST_ALARM", records[0].Type)

	Warning(ctx, "LONG_TEST_ALARM", "dump", strings.Repeat("x", 4*maxAlarmMessageLen))
	records = meta.GetAlarm().Drain()
	require.Len(t, records, 1)
	assert.Len(t, records[0].Message, maxAlarmMessageLen)
}

func TestMemoryReceiver(t *testing.T) {
	mu.Lock()
	defer mu.Unlock()
	excludeFlag()
	clean()
	ClearMemoryLog()
	initTestLogger(OptionOffConsole, OptionOpenMemoryReceiver)
	Info(context.Background(), "a", "b")
	assert.Equal(t, 1, GetMemoryLogCount())
	msg, ok := ReadMemoryLog(1)
	assert.True(t, ok)
	assert.True(t, strings.Contains(msg, "a:b"), msg)
	_, ok = ReadMemoryLog(2)
	assert.False(t, ok)
}

func TestMemoryRing(t *testing.T) {
	ring := &memoryRing{}
	assert.Empty(t, ring.recent(5))
	for i := 1; i <= maxLines+10; i++ {
		ring.append(fmt.Sprintf("line%d", i))
	}
	assert.Equal(t, maxLines+10, ring.count())

	_, ok := ring.read(10)
	assert.False(t, ok, "overwritten line")
	msg, ok := ring.read(11)
	assert.True(t, ok)
	assert.Equal(t, "line11", msg)
	msg, ok = ring.read(maxLines + 10)
	assert.True(t, ok)
	assert.Equal(t, fmt.Sprintf("line%d", maxLines+10), msg)
	_, ok = ring.read(maxLines + 11)
	assert.False(t, ok)

	assert.Equal(t, []string{fmt.Sprintf("line%d", maxLines+9), fmt.Sprintf("line%d", maxLines+10)}, ring.recent(2))
	all := ring.recent(0)
	require.Len(t, all, maxLines)
	assert.Equal(t, "line11", all[0])

	ring.reset()
	assert.Equal(t, 0, ring.count())
	assert.Empty(t, ring.recent(0))
}
