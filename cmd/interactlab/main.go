// Command interactlab generates the synthetic interaction dataset, fits a
// linear model to it and reports which columns the model relies on.
//
//	interactlab -config experiment.hcl -out results -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/YuminosukeSato/interactlab/config"
	"github.com/YuminosukeSato/interactlab/pkg/errors"
	"github.com/YuminosukeSato/interactlab/pkg/log"
)

// exitError carries the process exit code for usage errors.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 1
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			code = exitErr.code
		}
		os.Exit(code)
	}
}

// run parses args, loads the config and runs one experiment.
// Results go to stdout, logs to stderr.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("interactlab", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stderr, `interactlab - synthetic interaction dataset experiments

Usage:
  interactlab [options]

Options:
`)
		flags.PrintDefaults()
	}

	configPath := flags.String("config", "", "Path to an HCL experiment file. Defaults are used when empty.")
	logLevel := flags.String("log-level", "", "Override the log level: debug, info, warn or error.")
	outDir := flags.String("out", "", "Override the output directory.")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &exitError{code: 2, msg: err.Error()}
	}
	if flags.NArg() > 0 {
		return &exitError{code: 2, msg: fmt.Sprintf("unexpected arguments: %v", flags.Args())}
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := log.SetupLogger(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		logger.Info("config loaded", log.ConfigPathKey, cfg.Path)
	}

	if err := runExperiment(ctx, cfg, logger, stdout); err != nil {
		logger.Error("experiment failed", err)
		return err
	}
	return nil
}
