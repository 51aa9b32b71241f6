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
	"sync"

	"github.com/cihub/seelog"
)

const maxLines = 1000

// memoryRing keeps the last maxLines messages of the "memory" receiver. The lines outlive the
// seelog logger that wrote them, a logger re-init only appends.
type memoryRing struct {
	lock  sync.RWMutex
	lines [maxLines]string
	total int
}

var memoryLogs = &memoryRing{}

func (r *memoryRing) append(msg string) {
	r.lock.Lock()
	r.lines[r.total%maxLines] = msg
	r.total++
	r.lock.Unlock()
}

// read returns the 1-based line, only the last maxLines lines are kept.
func (r *memoryRing) read(line int) (string, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if line <= 0 || line > r.total || line <= r.total-maxLines {
		return "", false
	}
	return r.lines[(line-1)%maxLines], true
}

// recent returns up to n kept lines, oldest first.
func (r *memoryRing) recent(n int) []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	kept := r.total
	if kept > maxLines {
		kept = maxLines
	}
	if n <= 0 || n > kept {
		n = kept
	}
	lines := make([]string, 0, n)
	for i := r.total - n; i < r.total; i++ {
		lines = append(lines, r.lines[i%maxLines])
	}
	return lines
}

func (r *memoryRing) reset() {
	r.lock.Lock()
	r.lines = [maxLines]string{}
	r.total = 0
	r.lock.Unlock()
}

func (r *memoryRing) count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.total
}

// ReadMemoryLog returns the 1-based line received by the memory receiver.
func ReadMemoryLog(line int) (msg string, ok bool) {
	return memoryLogs.read(line)
}

// RecentMemoryLogs returns up to n of the latest lines, oldest first. n <= 0 returns all kept lines.
func RecentMemoryLogs(n int) []string {
	return memoryLogs.recent(n)
}

func ClearMemoryLog() {
	memoryLogs.reset()
}

// GetMemoryLogCount returns the number of lines received, of which only the last maxLines are kept.
func GetMemoryLogCount() int {
	return memoryLogs.count()
}

// MemoryWriter is the seelog custom receiver registered as "memory".
type MemoryWriter struct{}

func (m *MemoryWriter) ReceiveMessage(message string, level seelog.LogLevel, context seelog.LogContextInterface) error {
	memoryLogs.append(message)
	return nil
}

func (m *MemoryWriter) AfterParse(initArgs seelog.CustomReceiverInitArgs) error {
	return nil
}

func (m *MemoryWriter) Flush() {}

func (m *MemoryWriter) Close() error {
	return nil
}

func init() {
	seelog.RegisterReceiver("memory", new(MemoryWriter))
}
