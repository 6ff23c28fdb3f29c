package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/evalcard/internal/config"
	"github.com/dshills/evalcard/internal/logging"
	"github.com/dshills/evalcard/internal/registry"
)

// Exit codes.
const (
	exitCodeError     = 1
	exitCodeFailOn    = 2
	exitCodeBadInput  = 3
	exitCodeAPIError  = 4
	exitCodeBadOutput = 5
)

// exitError carries a process exit code alongside the error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitCodeError
}

// app is the state shared by every command, filled in by the root
// command's pre-run hook.
type app struct {
	configPath string
	root       string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	reg    *registry.Registry
}

func main() {
	root := newRootCmd(&app{})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "evalcard",
		Short:         "Build, score, migrate and inspect AI evaluation cards",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "config file")
	root.PersistentFlags().StringVar(&a.root, "root", "", "project root holding the record directories")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newMigrateCmd(a),
		newValidateCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newBuildCmd(a),
		newRescoreCmd(a),
		newExportCmd(a),
		newCategoriesCmd(a),
		newReviewCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return withCode(exitCodeBadInput, err)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return withCode(exitCodeBadInput, err)
	}
	if cmd.Flags().Changed("root") {
		cfg.Root = a.root
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(a.verbose)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	if a.reg == nil {
		a.reg = registry.Default()
	}
	a.logger.Debug("config loaded",
		zap.String("config", a.configPath),
		zap.String("root", cfg.Root),
		zap.Strings("dirs", cfg.Dirs))
	return nil
}

// writeOut writes b to the command's stdout.
func writeOut(cmd *cobra.Command, b []byte) error {
	_, err := cmd.OutOrStdout().Write(b)
	return err
}
