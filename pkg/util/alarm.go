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

package util

import (
	"sort"
	"sync"
)

// GlobalAlarm collects the alarms raised by the logger outside of any accumulator context.
var GlobalAlarm *Alarm

type AlarmItem struct {
	Message string
	Count   int
}

// AlarmRecord is a flattened AlarmItem, used when the alarms are exported.
type AlarmRecord struct {
	Source  string `json:"source"`
	Type    string `json:"alarm_type"`
	Count   int    `json:"alarm_count"`
	Message string `json:"alarm_message"`
}

type Alarm struct {
	mu       sync.Mutex
	AlarmMap map[string]*AlarmItem
	Source   string
}

func (p *Alarm) Init(source string) {
	p.mu.Lock()
	p.AlarmMap = make(map[string]*AlarmItem)
	p.Source = source
	p.mu.Unlock()
}

func (p *Alarm) Record(alarmType, message string) {
	// donot record empty alarmType
	if len(alarmType) == 0 {
		return
	}
	p.mu.Lock()
	if p.AlarmMap == nil {
		p.AlarmMap = make(map[string]*AlarmItem)
	}
	alarmItem, existFlag := p.AlarmMap[alarmType]
	if !existFlag {
		alarmItem = &AlarmItem{}
		p.AlarmMap[alarmType] = alarmItem
	}
	alarmItem.Message = message
	alarmItem.Count++
	p.mu.Unlock()
}

// Drain returns the recorded alarms sorted by type and clears their counters.
func (p *Alarm) Drain() []AlarmRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	records := make([]AlarmRecord, 0, len(p.AlarmMap))
	for alarmType, item := range p.AlarmMap {
		if item.Count == 0 {
			continue
		}
		records = append(records, AlarmRecord{
			Source:  p.Source,
			Type:    alarmType,
			Count:   item.Count,
			Message: item.Message,
		})
		// clear after export
		item.Count = 0
		item.Message = ""
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Type < records[j].Type
	})
	return records
}

func init() {
	GlobalAlarm = new(Alarm)
	GlobalAlarm.Init("frp_core")
}
