package gen

import (
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"standin-generator/internal/model"
	"standin-generator/internal/synth"
	"standin-generator/internal/typetest"
)

const calcSrc = `package calc

type Calculator interface {
	Add(x, y int) int
	TryParse(s string, x *int) (n int, ok bool)
	Mode() string
	SetMode(string)
	Reset()
}

type Named interface{ Name() string }

type Labeled interface{ Name() int }

type Store interface{ Get(reflect int) string }

type Base struct{}

func (b *Base) Add(x, y int) int { return x + y }

func (b *Base) Scale(factor float64, values ...float64) []float64 { return values }
`

func loadCalc(t *testing.T) *typetest.Package {
	t.Helper()
	return typetest.Check(t, "example.com/calc", calcSrc)
}

func newContext(callBase bool) *synth.Context {
	return synth.NewContext(context.Background(), synth.Options{
		Package:  "calcstub",
		PkgPath:  "example.com/calcstub",
		CallBase: callBase,
	})
}

// generate runs set through the default Go pipeline and returns the source.
func generate(t *testing.T, set model.TargetTypeSet, ctx *synth.Context, cfg GeneratorConfig) string {
	t.Helper()

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	gt, err := p.Synthesize(set, ctx)
	require.NoError(t, err)

	src, err := p.Emit(gt, ctx)
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "out.go", src, parser.ParseComments)
	require.NoError(t, err, "generated source:\n%s", src)

	return string(src)
}

func TestGenerate_Interface(t *testing.T) {
	pkg := loadCalc(t)

	src := generate(t, pkg.Set(t, "Calculator"), newContext(false), DefaultGeneratorConfig())

	assert.True(t, strings.HasPrefix(src, Header+"\n"), src)
	assert.Contains(t, src, "package calcstub")
	assert.Contains(t, src, `"example.com/calc"`)
	assert.Contains(t, src, `"reflect"`)
	assert.Contains(t, src, `"standin-generator/standin"`)
	assert.Contains(t, src, "import (\n\t\"reflect\"\n\n\t\"example.com/calc\"\n\t\"standin-generator/standin\"\n)")

	assert.Contains(t, src, "type CalculatorStandIn struct {")
	assert.Contains(t, src, "func NewCalculatorStandIn(behaviors ...standin.Behavior) *CalculatorStandIn {")
	assert.Contains(t, src, "func (s *CalculatorStandIn) StandInPipeline() *standin.Pipeline {")
	assert.NotContains(t, src, "StandInView")
	assert.NotContains(t, src, "not implemented")

	assert.Contains(t, src, "func (si *CalculatorStandIn) TryParse(s string, x *int) (n int, ok bool) {")
	assert.Contains(t, src, `result := si.pipeline.Execute(standin.NewInvocation(si, calculatorStandInMembers[4], `+
		`standin.In("s", s), standin.Ref("x", x), standin.Out[int]("n")))`)
	assert.Contains(t, src, `standin.WriteRef(result, "x", x)`)
	assert.Contains(t, src, `return standin.Output[int](result, "n"), standin.Return[bool](result)`)

	assert.Contains(t, src, "func (s *CalculatorStandIn) SetMode(p0 string) {")
	assert.Contains(t, src, `s.pipeline.Execute(standin.NewInvocation(s, calculatorStandInMembers[3], standin.In("p0", p0)))`)
	assert.Contains(t, src, "func (s *CalculatorStandIn) Reset() {\n\ts.pipeline.Execute(standin.NewInvocation(s, calculatorStandInMembers[2]))\n}")

	assert.Contains(t, src, "var calculatorStandInMembers = []*standin.Member{")
	assert.Contains(t, src, `{Name: "Mode", Kind: standin.KindProperty, Accessor: standin.AccessorGet, Property: "Mode", `+
		`Owner: "example.com/calc.Calculator", Return: reflect.TypeFor[string]()}`)
	assert.Contains(t, src, `{Name: "x", Type: reflect.TypeFor[int](), Direction: standin.DirectionRef}`)
	assert.Contains(t, src, "func(behaviors ...standin.Behavior) standin.StandIn {")
	assert.Contains(t, src, "}, reflect.TypeFor[calc.Calculator]())")
}

func TestGenerate_QualifiedViews(t *testing.T) {
	pkg := loadCalc(t)

	src := generate(t, pkg.Set(t, "Named", "Labeled"), newContext(false), DefaultGeneratorConfig())

	assert.Contains(t, src, "type namedLabeledStandInNamedView struct{ *NamedLabeledStandIn }")
	assert.Contains(t, src, "type namedLabeledStandInLabeledView struct{ *NamedLabeledStandIn }")
	assert.Contains(t, src, "func (s *NamedLabeledStandIn) AsNamed() calc.Named {")
	assert.Contains(t, src, "func (s *NamedLabeledStandIn) AsLabeled() calc.Labeled {")
	assert.Contains(t, src, "func (s *NamedLabeledStandIn) StandInView(t reflect.Type) (any, bool) {")
	assert.Contains(t, src, "case reflect.TypeFor[calc.Labeled]():")

	assert.Contains(t, src, "func (s namedLabeledStandInNamedView) Name() string {")
	assert.Contains(t, src, "func (s namedLabeledStandInLabeledView) Name() int {")
	assert.Contains(t, src, "s.NamedLabeledStandIn.pipeline.Execute(standin.NewInvocation(s.NamedLabeledStandIn, namedLabeledStandInMembers[1]))")
	assert.Contains(t, src, `Owner: "example.com/calc.Labeled", Qualified: true`)
}

func TestGenerate_BaseTypeWithCallBase(t *testing.T) {
	pkg := loadCalc(t)

	src := generate(t, pkg.Set(t, "Base", "Calculator"), newContext(true), DefaultGeneratorConfig())

	assert.Contains(t, src, "\tcalc.Base\n")
	assert.Equal(t, 1, strings.Count(src, ") Add(x int, y int) int {"), src)
	assert.Contains(t, src, ".WithDefault(func(inv *standin.Invocation) *standin.Result {")
	assert.Contains(t, src, `ret := s.Base.Add(standin.Value[int](inv, "x"), standin.Value[int](inv, "y"))`)
	assert.Contains(t, src, `ret := s.Base.Scale(standin.Value[float64](inv, "factor"), standin.Value[[]float64](inv, "values")...)`)
	assert.Contains(t, src, "return inv.Return(ret)")
	assert.Contains(t, src, "func (s *BaseCalculatorStandIn) Scale(factor float64, values ...float64) []float64 {")
	assert.Contains(t, src, "}, reflect.TypeFor[calc.Base](), reflect.TypeFor[calc.Calculator]())")
}

func TestGenerate_BaseTypeWithoutCallBase(t *testing.T) {
	pkg := loadCalc(t)

	src := generate(t, pkg.Set(t, "Base"), newContext(false), DefaultGeneratorConfig())

	assert.NotContains(t, src, "WithDefault")
	assert.Contains(t, src, "type BaseStandIn struct {")
}

func TestGenerate_ParameterShadowingImport(t *testing.T) {
	pkg := loadCalc(t)

	src := generate(t, pkg.Set(t, "Store"), newContext(false), DefaultGeneratorConfig())

	assert.Contains(t, src, "func (s *StoreStandIn) Get(reflect1 int) string {")
	assert.Contains(t, src, `standin.In("reflect", reflect1)`)
	assert.Contains(t, src, `{Name: "reflect", Type: reflect.TypeFor[int](), Direction: standin.DirectionIn}`)
}

func TestGenerate_ExplicitScaffoldStageMatchesDefault(t *testing.T) {
	pkg := loadCalc(t)
	set := pkg.Set(t, "Base", "Calculator", "Labeled")

	fallback := generate(t, set, newContext(true), DefaultGeneratorConfig())

	cfg := DefaultGeneratorConfig()
	cfg.Stages[synth.Scaffold.String()] = []string{"scaffold"}

	explicit := generate(t, set, newContext(true), cfg)

	assert.Equal(t, fallback, explicit)
}

func TestGenerate_Deterministic(t *testing.T) {
	pkg := loadCalc(t)
	set := pkg.Set(t, "Calculator", "Labeled")

	first := generate(t, set, newContext(false), DefaultGeneratorConfig())
	for range 3 {
		assert.Equal(t, first, generate(t, set, newContext(false), DefaultGeneratorConfig()))
	}
}

func TestGenerate_WithoutPrepareStage(t *testing.T) {
	pkg := loadCalc(t)

	cfg := DefaultGeneratorConfig()
	delete(cfg.Stages, synth.Prepare.String())

	src := generate(t, pkg.Set(t, "Calculator"), newContext(false), cfg)
	assert.Contains(t, src, `"standin-generator/standin"`)
	assert.Contains(t, src, `"example.com/calc"`)
}

func TestRun_WritesArtifacts(t *testing.T) {
	pkg := loadCalc(t)

	p, err := NewPipeline(DefaultGeneratorConfig())
	require.NoError(t, err)

	report, err := p.Run(newContext(false), []synth.Candidate{
		{Targets: pkg.Set(t, "Calculator")},
		{Targets: pkg.Set(t, "Named")},
		{Targets: pkg.Set(t, "Calculator")},
	}, 2)
	require.NoError(t, err)
	require.True(t, report.Diagnostics.IsValid(), spew.Sdump(report.Diagnostics))
	require.Len(t, report.Artifacts, 2)

	dir := t.TempDir()
	require.NoError(t, WriteFiles(FilesOf(report.Artifacts, "_test"), dir))

	content, err := os.ReadFile(filepath.Join(dir, "calculator_stand_in_test.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "CalculatorStandIn")

	_, err = os.Stat(filepath.Join(dir, "named_stand_in_test.go"))
	assert.NoError(t, err)
}

func TestNewStage(t *testing.T) {
	stage, err := NewStage("delegate", synth.Rewrite)
	require.NoError(t, err)
	assert.Equal(t, "delegate", synth.StageName(stage))

	_, err = NewStage("delegate", synth.Fixup)
	assert.Error(t, err)

	_, err = NewStage("minify", synth.Fixup)
	assert.ErrorContains(t, err, "minify")

	_, err = NewPipeline(GeneratorConfig{Stages: map[string][]string{"compile": {"imports"}}})
	assert.ErrorContains(t, err, "compile")
}

func TestGeneratedHeader_Idempotent(t *testing.T) {
	f, err := NewFile([]byte("package x\n"), "example.com/x", RuntimePath)
	require.NoError(t, err)

	gt := &synth.GeneratedType{Name: "XStandIn", Syntax: f}

	for range 2 {
		gt, err = GeneratedHeader{}.Process(gt, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, strings.Count(string(f.Src), Header))
}

func TestFixupImports_DropsUnused(t *testing.T) {
	f, err := NewFile([]byte(`package x

import (
	"os"
	"fmt"
	str "strings"
)

var _ = fmt.Sprint
`), "example.com/x", RuntimePath)
	require.NoError(t, err)

	_, err = FixupImports{}.Process(&synth.GeneratedType{Syntax: f}, nil)
	require.NoError(t, err)

	src := string(f.Src)
	assert.Contains(t, src, "import (\n\t\"fmt\"\n)")
	assert.NotContains(t, src, `"os"`)
	assert.NotContains(t, src, `"strings"`)
}

func TestFixupImports_GroupsStandardLibraryFirst(t *testing.T) {
	f, err := NewFile([]byte(`package x

import "standin-generator/standin"

import (
	"github.com/cockroachdb/errors"
	"reflect"
	"example.com/other"
	"fmt"
)

var (
	_ = standin.Of[any]
	_ = errors.New
	_ = reflect.TypeFor[int]
	_ = other.Value
	_ = fmt.Sprint
)
`), "example.com/x", RuntimePath)
	require.NoError(t, err)

	_, err = FixupImports{}.Process(&synth.GeneratedType{Syntax: f}, nil)
	require.NoError(t, err)

	assert.Contains(t, string(f.Src), `import (
	"fmt"
	"reflect"

	"example.com/other"
	"github.com/cockroachdb/errors"
	"standin-generator/standin"
)`)
	assert.Equal(t, 1, strings.Count(string(f.Src), "import"))
}

func TestStages_RejectForeignPayload(t *testing.T) {
	_, err := Delegate{}.Process(&synth.GeneratedType{Name: "X", Syntax: "not a file"}, newContext(false))
	assert.ErrorIs(t, err, synth.ErrNotApplicable)
}

func TestFactory_EmitWritesDebugSidecar(t *testing.T) {
	f, err := NewFile([]byte("package x\n"), "example.com/x", RuntimePath)
	require.NoError(t, err)

	f.Src = []byte("package x\n\nfunc {")

	dir := t.TempDir()

	_, err = Factory{DebugDir: dir}.Emit(&synth.GeneratedType{Name: "ThingStandIn", Syntax: f}, nil)
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "thing_stand_in.unformatted.go"))
	assert.NoError(t, err)
}

func TestImports_Aliases(t *testing.T) {
	im := NewImports("example.com/self")
	im.Reserve("inv")

	assert.Equal(t, "", im.Add("example.com/self", "self"))
	assert.Equal(t, "errors", im.Add("errors", "errors"))
	assert.Equal(t, "errors2", im.Add("github.com/cockroachdb/errors", "errors"))
	assert.Equal(t, "errors", im.Add("errors", "errors"))
	assert.Equal(t, "inv2", im.Add("example.com/inv", "inv"))
	assert.Equal(t, []string{"errors", "example.com/inv", "github.com/cockroachdb/errors"}, im.Paths())
	assert.True(t, im.Taken("errors2"))
}
