package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"standin-generator/internal/plan"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		o       overrides
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Validate stand-in requests without generating code",
		Long: `Compose every requested target type set and report diagnostics, without
generating or writing files. Use it in CI to catch invalid requests early.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.apply(cmd, a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			p, err := a.driver(args).Plan(cmd.Context())
			if err != nil {
				return err
			}

			if verbose {
				fmt.Fprint(cmd.OutOrStdout(), plan.FormatReport(p))
			}

			if printDiagnostics(cmd.ErrOrStderr(), p.Diagnostics) {
				return errDiagnostics
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s %d stand-ins\n", okColor.Sprint("ok"), len(p.StandIns))

			return nil
		},
	}

	o.register(cmd.Flags())
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the composed members of every stand-in")

	return cmd
}
