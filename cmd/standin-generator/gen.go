package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"standin-generator/internal/driver"
)

func newGenCmd(a *app) *cobra.Command {
	var (
		o      overrides
		dryRun bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "gen [patterns...]",
		Short: "Generate stand-ins for the requests found in packages",
		Long: `Generate stand-ins for every generator call in the packages matching the
patterns (default: the configured patterns, "./..." unless set).

Invalid target type sets are reported as diagnostics at their call site; the
other stand-ins are still generated. The command fails when any diagnostic is
an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			o.apply(cmd, a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			d := a.driver(args)

			dirs, err := generate(ctx, d, cmd.OutOrStdout(), cmd.ErrOrStderr(), dryRun)
			if !watch {
				return err
			}

			if err != nil && dirs == nil {
				return err
			}

			return watchAndGenerate(ctx, d, dirs, cmd.OutOrStdout(), cmd.ErrOrStderr(), dryRun)
		},
	}

	flags := cmd.Flags()
	o.register(flags)
	flags.StringVarP(&o.output, "output", "o", "", "output directory")
	flags.StringVarP(&o.pkg, "package", "p", "", "package clause of generated files")
	flags.IntVarP(&o.jobs, "jobs", "j", 0, "parallel synthesis jobs (0: one per candidate)")
	flags.BoolVar(&o.callBase, "call-base", false, "default base members to the embedded implementation")
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "print generated sources instead of writing them")
	flags.BoolVarP(&watch, "watch", "w", false, "regenerate when sources change")

	return cmd
}

// generate runs one generation and returns the watched source directories.
func generate(ctx context.Context, d *driver.Driver, stdout, stderr io.Writer, dryRun bool) ([]string, error) {
	res, err := d.Generate(ctx)
	if err != nil {
		return nil, err
	}

	failed := printDiagnostics(stderr, res.Report.Diagnostics)

	if dryRun {
		for _, f := range res.Files {
			fmt.Fprintf(stdout, "// === %s ===\n%s\n", f.Filename, f.Content)
		}
	} else if err := d.Write(res); err != nil {
		return res.Dirs, err
	}

	fmt.Fprintf(stderr, "%s %d stand-ins, %d duplicate requests\n",
		okColor.Sprint("generated"), len(res.Files), res.Report.Skipped)

	if failed {
		return res.Dirs, errDiagnostics
	}

	return res.Dirs, nil
}

func watchAndGenerate(ctx context.Context, d *driver.Driver, dirs []string, stdout, stderr io.Writer, dryRun bool) error {
	rebuild := make(chan struct{}, 1)

	w, err := driver.NewWatcher(dirs, 0, func() {
		select {
		case rebuild <- struct{}{}:
		default:
		}
	}, d.Logger)
	if err != nil {
		return err
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			d.Logger.Error("watcher stopped", zap.Error(err))
		}
	}()

	d.Logger.Info("watching for changes", zap.Int("dirs", len(dirs)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuild:
			if _, err := generate(ctx, d, stdout, stderr, dryRun); err != nil && !errors.Is(err, errDiagnostics) {
				d.Logger.Error("generation failed", zap.Error(err))
			}
		}
	}
}
