// Package main provides the CLI entrypoint for standin-generator.
//
// standin-generator is a Go codegen tool that:
//   - Finds calls to generator functions (standin.Of and friends) in Go packages
//   - Composes the members each requested target type set must implement
//   - Generates stand-in types whose members delegate to a behavior pipeline
//   - Reports invalid target sets as coded diagnostics at the call site
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "standin-generator:", err)

			if hints := errors.GetAllHints(err); len(hints) > 0 {
				for _, h := range hints {
					fmt.Fprintln(os.Stderr, "hint:", h)
				}
			}
		}

		os.Exit(1)
	}
}
