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

package config

import (
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FormatOf guesses the config format from the file extension, JSON by default.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadConfig reads the config file and merges it over the defaults. A missing file is not an
// error. When the file cannot be read or parsed the defaults are returned together with the error.
func LoadConfig(path string) (GlobalConfig, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return NewGlobalConfig(), nil
		}
		return NewGlobalConfig(), errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := ParseConfig(content, FormatOf(path))
	if err != nil {
		return NewGlobalConfig(), errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// ParseConfig merges the serialized config over the defaults.
func ParseConfig(content []byte, format string) (GlobalConfig, error) {
	cfg := NewGlobalConfig()
	if len(strings.TrimSpace(string(content))) == 0 {
		return cfg, nil
	}
	values := make(map[string]interface{})
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(content, &values)
	default:
		err = json.Unmarshal(content, &values)
	}
	if err != nil {
		return NewGlobalConfig(), errors.Wrap(err, "unmarshal "+format)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return NewGlobalConfig(), err
	}
	if err = decoder.Decode(values); err != nil {
		return NewGlobalConfig(), errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// SaveConfig writes the config as indented JSON or YAML, creating the directory when needed.
func SaveConfig(path string, cfg GlobalConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	var content []byte
	var err error
	switch FormatOf(path) {
	case FormatYAML:
		content, err = yaml.Marshal(&cfg)
	default:
		content, err = json.MarshalIndent(&cfg, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrapf(os.WriteFile(filepath.Clean(path), content, 0o600), "write config %s", path)
}
