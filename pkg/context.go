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

package pkg

import (
	"context"
	"strconv"

	"github.com/frphmi/frpcore/pkg/util"
)

const MeasureMeta MeasureMetaKey = "MeasureContextMeta"

// MeasureContextMeta is used to store metadata of one accumulator and would be
// propagated within context.Context, so that logs can be attributed to it.
type MeasureContextMeta struct {
	handle       int64
	station      string
	loggerHeader string
	alarm        *util.Alarm
}

type MeasureMetaKey string

// NewMeasureContextMeta create a MeasureContextMeta instance for the accumulator handle.
func NewMeasureContextMeta(parent context.Context, station string, handle int64) (context.Context, *MeasureContextMeta) {
	if parent == nil {
		parent = context.Background()
	}
	meta := &MeasureContextMeta{
		handle:  handle,
		station: station,
		alarm:   new(util.Alarm),
	}
	if len(station) == 0 {
		meta.loggerHeader = "[#" + strconv.FormatInt(handle, 10) + "]\t"
	} else {
		meta.loggerHeader = "[" + station + ",#" + strconv.FormatInt(handle, 10) + "]\t"
	}
	meta.alarm.Init(station)
	ctx := context.WithValue(parent, MeasureMeta, meta)
	return ctx, meta
}

func (c *MeasureContextMeta) LoggerHeader() string {
	return c.loggerHeader
}

func (c *MeasureContextMeta) GetHandle() int64 {
	return c.handle
}

func (c *MeasureContextMeta) GetStation() string {
	return c.station
}

func (c *MeasureContextMeta) GetAlarm() *util.Alarm {
	return c.alarm
}

func (c *MeasureContextMeta) RecordAlarm(alarmType, msg string) {
	if c.alarm == nil {
		return
	}
	c.alarm.Record(alarmType, msg)
}
