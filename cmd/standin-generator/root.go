package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"standin-generator/internal/config"
	"standin-generator/internal/driver"
)

// errDiagnostics reports that diagnostics were already printed.
var errDiagnostics = errors.New("generation reported errors")

// app holds what every command shares.
type app struct {
	configFile string
	dir        string
	logLevel   string
	jsonLog    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "standin-generator",
		Short: "Generate stand-in implementations of Go interfaces",
		Long: `standin-generator generates stand-in types for the target type sets
requested through standin.Of, Of2, Of3 and functions marked with
//standin:generator. Every member of a stand-in forwards its invocation to a
behavior pipeline configured at runtime.

Configuration is read from standin.yaml in the working directory and from
STANDIN_* environment variables.

Examples:
  standin-generator gen ./...             # Generate stand-ins for every package
  standin-generator gen --watch ./...     # Regenerate on source changes
  standin-generator check ./...           # Validate requests without writing files
  standin-generator inspect example.com/calc.Calculator`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default: standin.yaml in the working directory)")
	flags.StringVarP(&a.dir, "dir", "C", "", "working directory")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&a.jsonLog, "json-log", false, "log as JSON")

	cmd.AddCommand(newGenCmd(a), newCheckCmd(a), newInspectCmd(a))

	return cmd
}

// init loads the configuration and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	var err error

	if a.configFile != "" {
		a.cfg, err = config.LoadFile(a.configFile)
	} else {
		a.cfg, err = config.Load(a.workDir())
	}

	if err != nil {
		return err
	}

	level := a.cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}

	a.logger, err = newLogger(level, a.jsonLog, cmd.ErrOrStderr())

	return err
}

func (a *app) workDir() string {
	if a.dir != "" {
		return a.dir
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	return wd
}

// driver returns a driver scanning patterns, or the configured patterns
// when none are given.
func (a *app) driver(patterns []string) *driver.Driver {
	if len(patterns) > 0 {
		a.cfg.Patterns = patterns
	}

	return driver.New(a.cfg, a.dir, a.logger)
}
