// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/blinklabs-io/mpbdump/block"
	"github.com/blinklabs-io/mpbdump/cbor"
	"github.com/blinklabs-io/mpbdump/pipeline"
	"github.com/blinklabs-io/mpbdump/report"
)

type globalFlags struct {
	flagset     *flag.FlagSet
	configFile  string
	strict      bool
	maxDepth    int
	windowWords int
	logLevel    string
	dumpWords   bool
	format      string
	outFile     string
	listTags    bool
	jobs        int
}

func newGlobalFlags(name string, output io.Writer) *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(name, flag.ContinueOnError),
	}
	f.flagset.SetOutput(output)
	f.flagset.StringVar(
		&f.configFile,
		"config",
		"",
		"path to a TOML config file",
	)
	f.flagset.BoolVar(
		&f.strict,
		"strict",
		false,
		"treat unexpected values of provisional constants as errors",
	)
	f.flagset.IntVar(
		&f.maxDepth,
		"max-depth",
		block.DefaultMaxDepth,
		"maximum container nesting depth",
	)
	f.flagset.IntVar(
		&f.windowWords,
		"window",
		report.DefaultRadius,
		"number of words to show on each side of a decode failure",
	)
	f.flagset.StringVar(
		&f.logLevel,
		"log-level",
		"warn",
		"log level (debug, info, warn, error)",
	)
	f.flagset.BoolVar(&f.dumpWords, "dump", false, "dump every word of the file before decoding")
	f.flagset.StringVar(
		&f.format,
		"format",
		formatText,
		"output format (text or cbor)",
	)
	f.flagset.StringVar(
		&f.outFile,
		"out",
		"",
		"write output to this file instead of stdout",
	)
	f.flagset.BoolVar(&f.listTags, "tags", false, "list the known block tags and exit")
	f.flagset.IntVar(
		&f.jobs,
		"jobs",
		runtime.NumCPU(),
		"number of files decoded in parallel when several files are given",
	)
	return f
}

// config merges the config file, if any, with the flags given on the command line.
// Flags win over the file
func (f *globalFlags) config() (config, error) {
	cfg := defaultConfig()
	if f.configFile != "" {
		var err error
		cfg, err = loadConfig(f.configFile)
		if err != nil {
			return config{}, err
		}
	}
	var err error
	f.flagset.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "strict":
			cfg.Strict = f.strict
		case "max-depth":
			cfg.MaxDepth = f.maxDepth
		case "window":
			cfg.WindowWords = f.windowWords
		case "log-level":
			var level slog.Level
			level, err = parseLogLevel(f.logLevel)
			cfg.LogLevel = level
		case "dump":
			cfg.DumpWords = f.dumpWords
		case "format":
			cfg.Format = f.format
		case "jobs":
			cfg.Jobs = f.jobs
		}
	})
	if err != nil {
		return config{}, err
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	f := newGlobalFlags(args[0], stderr)
	if err := f.flagset.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if f.listTags {
		if err := writeTags(stdout); err != nil {
			fmt.Fprintf(stderr, "failed to write tags: %s\n", err)
			return 1
		}
		return 0
	}
	if f.flagset.NArg() < 1 {
		fmt.Fprintf(stderr, "Usage: %s [options] <file> [file...]\n", args[0])
		f.flagset.PrintDefaults()
		return 1
	}
	cfg, err := f.config()
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %s\n", err)
		return 1
	}
	logger := slog.New(
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}),
	)

	out := stdout
	if f.outFile != "" {
		outFile, err := os.Create(f.outFile)
		if err != nil {
			fmt.Fprintf(stderr, "failed to create output file: %s\n", err)
			return 1
		}
		defer outFile.Close()
		out = outFile
	}

	if f.flagset.NArg() > 1 {
		return runBatch(f.flagset.Args(), cfg, logger, out, stderr)
	}

	path := f.flagset.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read file: %s\n", err)
		return 1
	}
	logger.Debug(
		"loaded file",
		"component", "main",
		"path", path,
		"size", len(data),
	)

	// The word dump is text and would corrupt CBOR output
	if cfg.DumpWords && cfg.Format == formatText {
		if err := report.DumpWords(out, data); err != nil {
			fmt.Fprintf(stderr, "failed to write dump: %s\n", err)
			return 1
		}
	}

	res, decodeErr := block.Decode(data, cfg.decodeOptions(logger)...)
	if decodeErr != nil {
		logger.Error(
			"decode failed",
			"component", "main",
			"path", path,
			"error", decodeErr,
		)
	}
	if err := writeResult(out, cfg, data, res, decodeErr); err != nil {
		fmt.Fprintf(stderr, "failed to write output: %s\n", err)
		return 1
	}
	if decodeErr != nil {
		return 1
	}
	return 0
}

// runBatch decodes several files in parallel and writes the results in argument order
func runBatch(paths []string, cfg config, logger *slog.Logger, out io.Writer, stderr io.Writer) int {
	items, stats, err := pipeline.Run(
		context.Background(),
		paths,
		pipeline.WithDecodeWorkers(cfg.Jobs),
		pipeline.WithDecodeOptions(cfg.decodeOptions(logger)...),
		pipeline.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(stderr, "failed to decode files: %s\n", err)
		return 1
	}
	for _, item := range items {
		if cfg.Format == formatText {
			fmt.Fprintf(out, "==> %s <==\n", item.Path())
		}
		if loadErr := item.LoadError(); loadErr != nil {
			logger.Error(
				"failed to read file",
				"component", "main",
				"path", item.Path(),
				"error", loadErr,
			)
			if cfg.Format == formatText {
				fmt.Fprintf(out, "%s\n", loadErr)
			}
			continue
		}
		if cfg.DumpWords && cfg.Format == formatText {
			if err := report.DumpWords(out, item.Data()); err != nil {
				fmt.Fprintf(stderr, "failed to write dump: %s\n", err)
				return 1
			}
		}
		if decodeErr := item.DecodeError(); decodeErr != nil {
			logger.Error(
				"decode failed",
				"component", "main",
				"path", item.Path(),
				"error", decodeErr,
			)
		}
		if err := writeResult(out, cfg, item.Data(), item.Result(), item.DecodeError()); err != nil {
			fmt.Fprintf(stderr, "failed to write output: %s\n", err)
			return 1
		}
	}
	logger.Info(
		"decoded files",
		"component", "main",
		"files", stats.FilesSubmitted,
		"failed", stats.Failed(),
		"blocks", stats.BlocksDecoded,
		"bytes", stats.BytesLoaded,
		"elapsed", stats.Elapsed,
	)
	if stats.Failed() > 0 {
		return 1
	}
	return 0
}

func writeResult(w io.Writer, cfg config, data []byte, res *block.Result, decodeErr error) error {
	if cfg.Format == formatCbor {
		cborData, err := cbor.Export(res, decodeErr)
		if err != nil {
			return err
		}
		_, err = w.Write(cborData)
		return err
	}
	if res != nil {
		if err := report.WriteTree(w, res.Blocks); err != nil {
			return err
		}
	}
	if decodeErr != nil {
		return report.WriteFailure(w, data, decodeErr, cfg.WindowWords)
	}
	return nil
}

func writeTags(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, tag := range block.Tags() {
		desc, err := block.Lookup(tag)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tag, desc.Rule, desc.Label)
	}
	return tw.Flush()
}
