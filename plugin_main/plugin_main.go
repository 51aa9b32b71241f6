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
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/frphmi/frpcore/pkg/config"
	"github.com/frphmi/frpcore/pkg/flags"
	"github.com/frphmi/frpcore/pkg/logger"
	"github.com/frphmi/frpcore/pkg/measure"
	"github.com/frphmi/frpcore/pkg/signals"
	mainflags "github.com/frphmi/frpcore/plugin_main/flags"
)

// main runs one measurement cycle in pure GO.
func main() {
	mainflags.OverrideByEnv()
	flag.Parse()
	defer logger.Flush()
	fmt.Println("cpu num:", runtime.NumCPU(), " GOMAXPROCS:", runtime.GOMAXPROCS(0))
	fmt.Printf("load config %s\n", *flags.GlobalConfig)
	if initLibrary("") != 0 {
		fmt.Println("global config unusable, defaults are used")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := signals.SetupSignalHandler()
	go func() {
		<-stop
		cancel()
	}()

	source, closer, err := openSource(*mainflags.InputFile, *mainflags.Seed)
	if err != nil {
		logger.Error(ctx, "OPEN_SOURCE_ALARM", "err", err)
		os.Exit(1)
	}
	defer closer()

	result, err := runScan(ctx, newScanner(registry.Default(), source, config.FrpGlobalConfig, *mainflags.Realtime), os.Stdout)
	if err != nil {
		fmt.Println("scan failed:", err)
		os.Exit(1)
	}
	if *mainflags.OutputFile != "" {
		if err = writeResultFile(*mainflags.OutputFile, &result); err != nil {
			logger.Error(ctx, "WRITE_RESULT_ALARM", "err", err)
		}
	}
	if *mainflags.Hold && *flags.HTTPFlag {
		logger.Info(ctx, "########################## hold on, serving", config.FrpGlobalConfig.HTTPAddr)
		<-ctx.Done()
	}
	logger.Info(ctx, "########################## exit process done ##########################")
}

// openSource returns the csv replay of path, or the simulated probe when path is empty.
func openSource(path string, seed int64) (measure.Source, func(), error) {
	if path == "" {
		return measure.NewSimulatedSource(seed), func() {}, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, errors.Wrap(err, "open input file")
	}
	return measure.NewCSVSource(f), func() {
		_ = f.Close()
	}, nil
}

func newScanner(acc *measure.Accumulator, source measure.Source, cfg config.GlobalConfig, realtime bool) *measure.Scanner {
	scanner := &measure.Scanner{
		Acc:           acc,
		Source:        source,
		SamplesPerRev: cfg.SamplesPerRev,
		Sections:      cfg.Sections,
	}
	if realtime {
		scanner.Interval = time.Duration(cfg.SampleIntervalMs) * time.Millisecond
	}
	return scanner
}

// runScan runs the scanner, reporting every step and the final result table to w.
func runScan(ctx context.Context, scanner *measure.Scanner, w io.Writer) (measure.Result, error) {
	scanner.OnStep = func(step measure.Step, section int) {
		if section > 0 {
			fmt.Fprintf(w, "step: %s (section %d)\n", step, section)
		} else {
			fmt.Fprintf(w, "step: %s\n", step)
		}
	}
	result, err := scanner.Run(ctx)
	if err != nil {
		return result, err
	}
	printResult(w, &result)
	return result, nil
}

func printResult(w io.Writer, result *measure.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(measure.ResultColumns, "\t"))
	fmt.Fprintln(tw, strings.Join(result.Row(), "\t"))
	_ = tw.Flush()
	fmt.Fprintln(w, "placeholder values:", strings.Join(measure.Placeholders(), ", "))
}

func writeResultFile(path string, result *measure.Result) error {
	bytes, err := jsoniter.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal result")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err = os.MkdirAll(dir, 0750); err != nil {
			return errors.Wrap(err, "create output dir")
		}
	}
	return errors.Wrap(os.WriteFile(path, bytes, 0600), "write result file")
}
