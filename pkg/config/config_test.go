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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "frp_hmi_config.json"))
	require.NoError(t, err)
	assert.Equal(t, NewGlobalConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frp_hmi_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"plc_ip":"10.0.0.2","samples_per_rev":72,"tags":{"line":"A"}}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", cfg.PLCIP)
	assert.Equal(t, 72, cfg.SamplesPerRev)
	assert.Equal(t, 502, cfg.PLCPort)
	assert.Equal(t, 1, cfg.Sections)
	assert.Equal(t, map[string]string{"line": "A"}, cfg.Tags)
}

func TestLoadConfigWeakTypes(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"plc_port":"503","sections":3}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 503, cfg.PLCPort)
	assert.Equal(t, 3, cfg.Sections)
}

func TestLoadConfigInvalidFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"plc_ip":`), 0o600))

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Equal(t, NewGlobalConfig(), cfg)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("samples_per_rev: 360\nsections: 2\nhttp_addr: \":9000\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 360, cfg.SamplesPerRev)
	assert.Equal(t, 2, cfg.Sections)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig([]byte("  "), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, NewGlobalConfig(), cfg)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	for _, name := range []string{"config/frp.json", "config/frp.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := NewGlobalConfig()
			cfg.SamplesPerRev = 90
			cfg.PLCIP = "172.16.1.1"
			require.NoError(t, SaveConfig(path, cfg))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := NewGlobalConfig()
	assert.NoError(t, cfg.Validate())

	cfg.SamplesPerRev = 0
	cfg.Sections = -1
	cfg.PLCPort = 70000
	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
}
