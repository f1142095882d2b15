package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"standin-generator/internal/diagnostic"
	"standin-generator/internal/plan"
)

const (
	calculatorPath = "standin-generator/examples/calculator"
	usagePath      = "standin-generator/examples/calculator/usage"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	color.NoColor = true

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestGen_DryRun(t *testing.T) {
	stdout, stderr, err := run(t, "gen", "--dry-run", "--log-level", "error", usagePath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "// === calculator_stand_in.go ===")
	assert.Contains(t, stdout, "// === named_counter_stand_in.go ===")
	assert.Contains(t, stdout, "package standins")
	assert.Contains(t, stderr, "generated 4 stand-ins, 1 duplicate requests")
}

func TestGen_Flags(t *testing.T) {
	stdout, _, err := run(t, "gen", "-n", "--log-level", "error", "--naming", "hashed", "--package", "fakes", usagePath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "package fakes")
	assert.Regexp(t, `// === calculator_stand_in_[0-9a-f]{8}\.go ===`, stdout)
}

func TestGen_InvalidNaming(t *testing.T) {
	_, _, err := run(t, "gen", "-n", "--naming", "fancy", usagePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown naming convention")
}

func TestCheck(t *testing.T) {
	stdout, stderr, err := run(t, "check", "-v", "--log-level", "error", usagePath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "=== CalculatorStandIn")
	assert.Contains(t, stderr, "ok 4 stand-ins")
}

func TestInspect_Text(t *testing.T) {
	stdout, _, err := run(t, "inspect", "--log-level", "error", "--patterns", usagePath,
		calculatorPath+".Named,"+calculatorPath+".Counter")
	require.NoError(t, err)

	assert.Contains(t, stdout, "=== NamedCounterStandIn")
	assert.Contains(t, stdout, "view of "+calculatorPath+".Counter")
}

func TestInspect_YAML(t *testing.T) {
	stdout, _, err := run(t, "inspect", "--log-level", "error", "--patterns", usagePath, "--format", "yaml",
		calculatorPath+".Calculator")
	require.NoError(t, err)

	var p plan.Plan
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &p))
	require.Len(t, p.StandIns, 1)
	assert.Len(t, p.StandIns[0].Members, 8)
}

func TestInspect_Rejected(t *testing.T) {
	_, stderr, err := run(t, "inspect", "--log-level", "error", "--patterns", usagePath,
		calculatorPath+".Named,"+calculatorPath+".CalculatorBase")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stderr, "error: ST001")
}

func TestInspect_UnknownFormat(t *testing.T) {
	_, _, err := run(t, "inspect", "--log-level", "error", "--patterns", usagePath, "-f", "xml", calculatorPath+".Named")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestSplitTargets(t *testing.T) {
	assert.Equal(t, []string{"a.B"}, splitTargets("a.B"))
	assert.Equal(t, []string{"a.B", "error"}, splitTargets("a.B, error"))
	assert.Equal(t, []string{"a.Pair[int, string]", "a.C"}, splitTargets("a.Pair[int, string],a.C"))
}

func TestPrintDiagnostics(t *testing.T) {
	color.NoColor = true

	var diags diagnostic.Diagnostics
	diags.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticError,
		Code:        diagnostic.CodeNameCollision,
		Message:     "name X is already used",
		Position:    "a.go:1:2",
		Suggestions: []string{"use the hashed naming convention"},
	})
	diags.AddWarning("ST999", "just a warning", "", "")

	var buf bytes.Buffer
	assert.True(t, printDiagnostics(&buf, diags))
	assert.Equal(t,
		"a.go:1:2: error: ST010 name X is already used (Different target type sets map to the same name)\n"+
			"    suggestion: use the hashed naming convention\n"+
			"warning: ST999 just a warning\n",
		buf.String())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	_, err := newLogger("loud", false, &buf)
	require.Error(t, err)

	logger, err := newLogger("info", true, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
