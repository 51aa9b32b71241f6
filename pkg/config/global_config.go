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
	"fmt"

	"go.uber.org/multierr"
)

// GlobalConfig represents the global configuration of frp_core and its host.
type GlobalConfig struct {
	// Address of the motion controller. Only carried for the host application.
	PLCIP   string `json:"plc_ip" yaml:"plc_ip" mapstructure:"plc_ip"`
	PLCPort int    `json:"plc_port" yaml:"plc_port" mapstructure:"plc_port"`
	// Samples acquired during one revolution of a section.
	SamplesPerRev int `json:"samples_per_rev" yaml:"samples_per_rev" mapstructure:"samples_per_rev"`
	// Number of sections measured in one automatic cycle.
	Sections         int `json:"sections" yaml:"sections" mapstructure:"sections"`
	SampleIntervalMs int `json:"sample_interval_ms" yaml:"sample_interval_ms" mapstructure:"sample_interval_ms"`
	// Directory to store frp_core log.
	LogDir string `json:"log_dir" yaml:"log_dir" mapstructure:"log_dir"`
	// Directory to store the generated logger configuration.
	ConfDir  string            `json:"conf_dir" yaml:"conf_dir" mapstructure:"conf_dir"`
	HTTPAddr string            `json:"http_addr" yaml:"http_addr" mapstructure:"http_addr"`
	Tags     map[string]string `json:"tags,omitempty" yaml:"tags,omitempty" mapstructure:"tags"`
}

// FrpGlobalConfig is the singleton instance of GlobalConfig.
var FrpGlobalConfig = NewGlobalConfig()

var BaseVersion = "0.1.0" // will be overwritten through ldflags at compile time

// NewGlobalConfig returns the default configuration.
func NewGlobalConfig() (cfg GlobalConfig) {
	cfg = GlobalConfig{
		PLCIP:            "192.168.0.10",
		PLCPort:          502,
		SamplesPerRev:    180,
		Sections:         1,
		SampleIntervalMs: 50,
		LogDir:           "./log/",
		ConfDir:          "./conf/",
		HTTPAddr:         ":18690",
	}
	return
}

// Validate checks every field and reports all problems at once.
func (c *GlobalConfig) Validate() error {
	var err error
	if c.SamplesPerRev <= 0 {
		err = multierr.Append(err, fmt.Errorf("samples_per_rev must be positive, got %d", c.SamplesPerRev))
	}
	if c.Sections <= 0 {
		err = multierr.Append(err, fmt.Errorf("sections must be positive, got %d", c.Sections))
	}
	if c.SampleIntervalMs < 0 {
		err = multierr.Append(err, fmt.Errorf("sample_interval_ms must not be negative, got %d", c.SampleIntervalMs))
	}
	if c.PLCPort <= 0 || c.PLCPort > 65535 {
		err = multierr.Append(err, fmt.Errorf("plc_port out of range: %d", c.PLCPort))
	}
	if c.LogDir == "" {
		err = multierr.Append(err, fmt.Errorf("log_dir must not be empty"))
	}
	return err
}
