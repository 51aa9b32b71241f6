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
	"errors"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNotImplemented marks values that are stand-ins for a computation that does not exist yet.
	ErrNotImplemented = errors.New("not implemented yet")
	ErrInvalidEnvType = errors.New("invalid env type")
)

func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// CutString cuts the string to at most maxLen bytes.
func CutString(val string, maxLen int) string {
	if len(val) < maxLen {
		return val
	}
	return val[0:maxLen]
}

func InitFromEnvBool(key string, value *bool, defaultValue bool) error {
	if envValue := os.Getenv(key); len(envValue) > 0 {
		lowErVal := strings.ToLower(envValue)
		if strings.HasPrefix(lowErVal, "y") || strings.HasPrefix(lowErVal, "t") || strings.HasPrefix(lowErVal, "on") || strings.HasPrefix(lowErVal, "ok") {
			*value = true
		} else {
			*value = false
		}
		return nil
	}
	*value = defaultValue
	return nil
}

func InitFromEnvInt64(key string, value *int64, defaultValue int64) error {
	if envValue := os.Getenv(key); len(envValue) > 0 {
		if val, err := strconv.ParseInt(envValue, 10, 64); err == nil {
			*value = val
			return nil
		}
		*value = defaultValue
		return ErrInvalidEnvType
	}
	*value = defaultValue
	return nil
}

func InitFromEnvString(key string, value *string, defaultValue string) error {
	if envValue := os.Getenv(key); len(envValue) > 0 {
		*value = envValue
		return nil
	}
	*value = defaultValue
	return nil
}
