package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"standin-generator/internal/config"
)

// overrides are command flags that replace configured values when set.
type overrides struct {
	naming   string
	suffix   string
	output   string
	pkg      string
	jobs     int
	callBase bool
}

// register adds the flags shared by every command that names stand-ins.
func (o *overrides) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.naming, "naming", "", "naming convention (simple, hashed)")
	flags.StringVar(&o.suffix, "suffix", "", "suffix of generated type names")
}

// apply copies the flags the user set into cfg.
func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("naming") {
		cfg.Naming = o.naming
	}

	if flags.Changed("suffix") {
		cfg.Suffix = o.suffix
	}

	if flags.Changed("output") {
		cfg.Output = o.output
	}

	if flags.Changed("package") {
		cfg.Package = o.pkg
	}

	if flags.Changed("jobs") {
		cfg.Jobs = o.jobs
	}

	if flags.Changed("call-base") {
		cfg.CallBase = o.callBase
	}
}
