package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"standin-generator/internal/diagnostic"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	codeColor    = color.New(color.Faint)
	okColor      = color.New(color.FgGreen)
)

// printDiagnostics writes every diagnostic, errors first, and reports
// whether any error was printed.
func printDiagnostics(w io.Writer, diags diagnostic.Diagnostics) bool {
	for _, d := range diags.Errors {
		printDiagnostic(w, errorColor, d)
	}

	for _, d := range diags.Warnings {
		printDiagnostic(w, warningColor, d)
	}

	for _, d := range diags.Infos {
		printDiagnostic(w, infoColor, d)
	}

	return diags.HasErrors()
}

func printDiagnostic(w io.Writer, c *color.Color, d diagnostic.Diagnostic) {
	if d.Position != "" {
		fmt.Fprintf(w, "%s: ", d.Position)
	}

	fmt.Fprintf(w, "%s %s %s", c.Sprint(d.Severity.String()+":"), codeColor.Sprint(d.Code), d.Message)

	if title, ok := diagnostic.Titles[d.Code]; ok && title != d.Message {
		fmt.Fprintf(w, " %s", codeColor.Sprintf("(%s)", title))
	}

	fmt.Fprintln(w)

	for _, s := range d.Suggestions {
		fmt.Fprintf(w, "    suggestion: %s\n", s)
	}
}
