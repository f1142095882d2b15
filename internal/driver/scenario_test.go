package driver

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"standin-generator/internal/config"
)

// scenarioTest runs the generated stand-ins from inside their own package.
const scenarioTest = `package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"standin-generator/examples/calculator"
	"standin-generator/standin"
)

func TestCalculator_RefOutWriteBack(t *testing.T) {
	calc := standin.Of[calculator.Calculator](
		standin.Func(standin.Named("TryParse"), func(inv *standin.Invocation, _ standin.Next) *standin.Result {
			inv.Arguments.Set("x", 42)
			inv.Arguments.Set("n", 7)

			return inv.Return(true)
		}),
	)

	x := 1
	n, ok := calc.TryParse("42", &x)

	assert.True(t, ok)
	assert.Equal(t, 7, n)
	assert.Equal(t, 42, x)
}

func TestCalculator_DefaultsKeepRef(t *testing.T) {
	calc := standin.Of[calculator.Calculator]()

	x := 3
	n, ok := calc.TryParse("3", &x)

	assert.False(t, ok)
	assert.Zero(t, n)
	assert.Equal(t, 3, x)
}

func TestCalculator_BehaviorOrder(t *testing.T) {
	var order []string

	step := func(name string) standin.Behavior {
		return standin.Func(nil, func(inv *standin.Invocation, next standin.Next) *standin.Result {
			order = append(order, name)
			return next(inv)
		})
	}

	calc := standin.Of2[calculator.Calculator, calculator.Named](step("first"), step("second"), standin.Returns("Add", 5))

	assert.Equal(t, 5, calc.Add(2, 2))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestViews_ConflictingMembers(t *testing.T) {
	named := standin.Of2[calculator.Named, calculator.Counter](
		standin.Func(standin.Named("Name"), func(inv *standin.Invocation, _ standin.Next) *standin.Result {
			if inv.Member.Owner == "standin-generator/examples/calculator.Counter" {
				return inv.Return(3)
			}

			return inv.Return("calc")
		}),
	)

	assert.Equal(t, "calc", named.Name())

	view, ok := named.(namedCounterStandInNamedView)
	if assert.True(t, ok) {
		assert.Equal(t, 3, view.AsCounter().Name())
	}
}

func TestBase_CallsEmbeddedImplementation(t *testing.T) {
	calc := NewCalculatorBaseNamedStandIn()
	assert.Equal(t, 5, calc.Add(2, 3))
	assert.Equal(t, "base", calc.Name())

	calc.StandInPipeline().Add(standin.Returns("Add", 10))
	assert.Equal(t, 10, calc.Add(2, 3))
}
`

// TestDriver_GeneratedCodeBuildsAndRuns generates the calculator stand-ins
// into a package inside the module, type-checks it and runs scenarioTest
// against it.
func TestDriver_GeneratedCodeBuildsAndRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("builds generated code")
	}

	dir, err := os.MkdirTemp(".", "scenario")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	dir, err = filepath.Abs(dir)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Patterns = []string{usagePath}
	cfg.Output = dir
	cfg.Package = "scenario"
	cfg.PkgPath = "standin-generator/internal/driver/" + filepath.Base(dir)
	cfg.CallBase = true
	cfg.Targets = [][]string{{calculatorPath + ".CalculatorBase", calculatorPath + ".Named"}}

	d := New(cfg, "", nil)

	res, err := d.Generate(t.Context())
	require.NoError(t, err)
	require.Empty(t, res.Report.Diagnostics.Errors)
	require.NoError(t, d.Write(res))

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  dir,
	}, ".")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	for _, e := range pkgs[0].Errors {
		t.Errorf("generated package: %s", e)
	}

	require.False(t, t.Failed())

	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go command not available")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenario_test.go"), []byte(scenarioTest), 0o644))

	cmd := exec.CommandContext(t.Context(), goBin, "test", "-count=1", ".")
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}
