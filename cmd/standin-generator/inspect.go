package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"standin-generator/internal/plan"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		o        overrides
		patterns []string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "inspect <type>[,<type>...]...",
		Short: "Show the members a stand-in for a target type set would have",
		Long: `Compose the target type sets given as arguments and print their members.
Each argument is one set of comma separated type expressions, e.g.

  standin-generator inspect example.com/calc.CalculatorBase,example.com/calc.Named
  standin-generator inspect 'example.com/calc.Memory[int]' --format yaml

The packages declaring the types must be reachable from the loaded patterns.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.apply(cmd, a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			sets := make([][]string, len(args))
			for i, arg := range args {
				sets[i] = splitTargets(arg)
			}

			p, err := a.driver(patterns).Inspect(cmd.Context(), sets...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch format {
			case "text":
				fmt.Fprint(out, plan.FormatReport(p))
			case "yaml":
				data, err := plan.ExportYAML(p)
				if err != nil {
					return errors.Wrap(err, "export plan")
				}

				fmt.Fprint(out, string(data))
			case "dump":
				spew.Fdump(out, p)
			default:
				return errors.Newf("unknown format %q (text, yaml, dump)", format)
			}

			if printDiagnostics(cmd.ErrOrStderr(), p.Diagnostics) {
				return errDiagnostics
			}

			return nil
		},
	}

	o.register(cmd.Flags())
	cmd.Flags().StringSliceVar(&patterns, "patterns", nil, "packages to load (default: the configured patterns)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, yaml, dump)")

	return cmd
}

// splitTargets splits a comma separated target list, ignoring commas inside
// type argument brackets.
func splitTargets(arg string) []string {
	var (
		out   []string
		depth int
		start int
	)

	for i, c := range arg {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(arg[start:i]))
				start = i + 1
			}
		}
	}

	return append(out, strings.TrimSpace(arg[start:]))
}
