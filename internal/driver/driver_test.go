package driver

import (
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"standin-generator/internal/config"
	"standin-generator/internal/gen"
)

const (
	calculatorPath = "standin-generator/examples/calculator"
	usagePath      = "standin-generator/examples/calculator/usage"
)

func newDriver(t *testing.T) *Driver {
	t.Helper()

	cfg := config.Default()
	cfg.Patterns = []string{usagePath}
	cfg.Output = t.TempDir()
	cfg.Jobs = 2

	return New(cfg, "", nil)
}

func TestDriver_Generate(t *testing.T) {
	d := newDriver(t)

	res, err := d.Generate(context.Background())
	require.NoError(t, err)

	report := res.Report
	assert.Empty(t, report.Diagnostics.Errors)
	assert.Equal(t, 1, report.Skipped)

	var names []string
	for _, f := range res.Files {
		names = append(names, f.Filename)
	}

	assert.Equal(t, []string{
		"calculator_stand_in.go",
		"calculator_named_stand_in.go",
		"named_stand_in.go",
		"named_counter_stand_in.go",
	}, names)

	for _, f := range res.Files {
		assert.True(t, strings.HasPrefix(string(f.Content), gen.Header), f.Filename)

		_, err := parser.ParseFile(token.NewFileSet(), f.Filename, f.Content, parser.AllErrors)
		assert.NoError(t, err, f.Filename)
	}

	require.NotEmpty(t, res.Dirs)
	assert.Equal(t, "usage", filepath.Base(res.Dirs[0]))

	require.NoError(t, d.Write(res))

	for _, name := range names {
		assert.FileExists(t, filepath.Join(d.OutputDir(), name))
	}
}

func TestDriver_GenerateFileSuffix(t *testing.T) {
	d := newDriver(t)
	d.Config.FileSuffix = "_test"
	d.Config.Package = "usage_test"

	res, err := d.Generate(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.Files)
	assert.Equal(t, "calculator_stand_in_test.go", res.Files[0].Filename)
	assert.Contains(t, string(res.Files[0].Content), "package usage_test")
}

func TestDriver_ExplicitTargets(t *testing.T) {
	d := newDriver(t)
	d.Config.Targets = [][]string{{calculatorPath + ".Counter"}}

	prog, err := d.Load(context.Background())
	require.NoError(t, err)

	candidates, err := d.Candidates(prog)
	require.NoError(t, err)
	require.Len(t, candidates, 6)

	last := candidates[5]
	assert.Equal(t, "calculator.Counter", last.Targets.String())
	assert.Equal(t, "standin.yaml: targets[0]", last.Position)

	d.Config.Targets = [][]string{{calculatorPath + ".Missing"}}
	_, err = d.Candidates(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "targets[0]")
}

func TestDriver_Plan(t *testing.T) {
	d := newDriver(t)

	p, err := d.Plan(context.Background())
	require.NoError(t, err)
	require.Len(t, p.StandIns, 4)

	calc, ok := p.Find("CalculatorStandIn")
	require.True(t, ok)
	assert.Len(t, calc.Positions, 2)
	assert.Len(t, calc.Members, 8)
}

func TestDriver_Inspect(t *testing.T) {
	d := newDriver(t)

	p, err := d.Inspect(context.Background(), []string{calculatorPath + ".CalculatorBase", calculatorPath + ".Named"})
	require.NoError(t, err)
	require.Len(t, p.StandIns, 1)

	si := p.StandIns[0]
	assert.Equal(t, "CalculatorBaseNamedStandIn", si.Name)
	require.True(t, si.Valid)

	byName := make(map[string]bool)
	for _, m := range si.Members {
		byName[m.Name] = m.FromBase
	}

	assert.Equal(t, map[string]bool{"Add": true, "Name": true}, byName)

	_, err = d.Inspect(context.Background(), []string{"example.com/nowhere.Type"})
	require.Error(t, err)
}

func TestDriver_InvalidNaming(t *testing.T) {
	d := newDriver(t)
	d.Config.Naming = "fancy"

	_, err := d.Context(context.Background())
	require.Error(t, err)
}

func TestDriver_OutputDir(t *testing.T) {
	cfg := config.Default()
	cfg.Output = "fakes"

	assert.Equal(t, "fakes", New(cfg, "", nil).OutputDir())
	assert.Equal(t, filepath.Join("proj", "fakes"), New(cfg, "proj", nil).OutputDir())

	cfg.Output = string(os.PathSeparator) + "abs"
	assert.Equal(t, cfg.Output, New(cfg, "proj", nil).OutputDir())
}
