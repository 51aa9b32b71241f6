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
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/frphmi/frpcore/pkg/config"
	"github.com/frphmi/frpcore/pkg/util"
)

// this tool generates the global config of frp_core with the default values
// usage: configgen -out ./config/frp_hmi_config.json -set plc_ip=192.168.0.20 -set sections=3

var outFile = flag.String("out", "./config/frp_hmi_config.json", "generated config file, the extension chooses json or yaml")
var force = flag.Bool("force", false, "overwrite an existing config file")

type setFlags []string

func (s *setFlags) String() string {
	return strings.Join(*s, ",")
}

func (s *setFlags) Set(value string) error {
	*s = append(*s, value)
	return nil
}

var overrides setFlags

func main() {
	flag.Var(&overrides, "set", "key=value override of one config field, repeatable")
	flag.Parse()

	if err := generate(*outFile, overrides, *force); err != nil {
		fmt.Println("failed to generate config, err:", err)
		os.Exit(1)
	}
	fmt.Println("generate file:", *outFile)
}

// generate writes the defaults with the key=value overrides applied, the result is validated
// before anything is written.
func generate(path string, sets []string, overwrite bool) error {
	exists, err := util.PathExists(path)
	if err != nil {
		return errors.Wrap(err, "check output file")
	}
	if exists && !overwrite {
		return errors.Errorf("%s already exists, use -force to overwrite", path)
	}
	cfg, err := applyOverrides(sets)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return config.SaveConfig(filepath.Clean(path), cfg)
}

// applyOverrides feeds the overrides through the yaml decoder so that values are typed the same
// way as in a config file.
func applyOverrides(sets []string) (config.GlobalConfig, error) {
	var content strings.Builder
	for _, set := range sets {
		kv := strings.SplitN(set, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return config.GlobalConfig{}, errors.Errorf("invalid override %q, want key=value", set)
		}
		fmt.Fprintf(&content, "%s: %s\n", strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1]))
	}
	return config.ParseConfig([]byte(content.String()), config.FormatYAML)
}
