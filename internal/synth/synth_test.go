package synth

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"standin-generator/internal/diagnostic"
	"standin-generator/internal/model"
	"standin-generator/internal/typetest"
)

const fake Language = "fake"

const shopSrc = `package shop

type Cart interface {
	Add(sku string, qty int)
	Total() int
}

type Clock interface{ Now() int64 }

type Catalog struct{}

func (c *Catalog) Find(sku string) int { return 0 }

type Inventory struct{}
`

// trace is the payload of the fake language: the names of the stages run.
type trace []string

type factory struct{}

func (factory) Language() Language { return fake }

func (factory) Create(gt *GeneratedType, ctx *Context) (any, error) {
	return trace{"create:" + gt.Name}, nil
}

func (factory) Emit(gt *GeneratedType, ctx *Context) ([]byte, error) {
	return []byte(strings.Join(gt.Syntax.(trace), "\n")), nil
}

type stage struct {
	name  string
	phase Phase
	langs []Language
	err   error
	calls *atomic.Int32
}

func (s stage) Name() string          { return s.name }
func (s stage) Phase() Phase          { return s.phase }
func (s stage) Languages() []Language { return s.langs }

func (s stage) Process(gt *GeneratedType, ctx *Context) (*GeneratedType, error) {
	if s.calls != nil {
		s.calls.Add(1)
	}

	if s.err != nil {
		return nil, s.err
	}

	next := *gt
	next.Syntax = append(append(trace{}, gt.Syntax.(trace)...), s.name)

	return &next, nil
}

type scaffolder struct{ err error }

func (s scaffolder) Scaffold(name string, gt *GeneratedType, ctx *Context) (*GeneratedType, error) {
	if s.err != nil {
		return nil, s.err
	}

	gt.Syntax = append(gt.Syntax.(trace), "default-scaffold:"+name)

	return gt, nil
}

func newStage(name string, phase Phase) stage {
	return stage{name: name, phase: phase, langs: []Language{fake}}
}

func newContext() *Context {
	ctx := NewContext(context.Background(), Options{Package: "shop"})
	ctx.Language = fake

	return ctx
}

func loadShop(t *testing.T) *typetest.Package {
	t.Helper()
	return typetest.Check(t, "example.com/shop", shopSrc)
}

func syntaxOf(gt *GeneratedType) []string {
	return []string(gt.Syntax.(trace))
}

func TestPipeline_PhaseThenRegistrationOrder(t *testing.T) {
	pkg := loadShop(t)

	p := NewPipeline().SetFactory(factory{}).Register(
		newStage("fixup-1", Fixup),
		newStage("rewrite-1", Rewrite),
		newStage("prepare-1", Prepare),
		newStage("scaffold-1", Scaffold),
		newStage("rewrite-2", Rewrite),
		newStage("prepare-2", Prepare),
	)

	gt, err := p.Synthesize(pkg.Set(t, "Cart"), newContext())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"create:CartStandIn",
		"prepare-1", "prepare-2", "scaffold-1", "rewrite-1", "rewrite-2", "fixup-1",
	}, syntaxOf(gt))
	assert.Len(t, gt.Members, 2)
}

func TestPipeline_DefaultScaffoldFallback(t *testing.T) {
	pkg := loadShop(t)

	p := NewPipeline().
		SetFactory(factory{}).
		SetScaffolder(fake, scaffolder{}).
		Register(newStage("prepare", Prepare), newStage("rewrite", Rewrite))

	gt, err := p.Synthesize(pkg.Set(t, "Cart"), newContext())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"create:CartStandIn", "prepare", "default-scaffold:CartStandIn", "rewrite",
	}, syntaxOf(gt))
}

func TestPipeline_RegisteredScaffoldReplacesDefault(t *testing.T) {
	pkg := loadShop(t)

	p := NewPipeline().
		SetFactory(factory{}).
		SetScaffolder(fake, scaffolder{}).
		Register(newStage("custom-scaffold", Scaffold))

	gt, err := p.Synthesize(pkg.Set(t, "Cart"), newContext())
	require.NoError(t, err)
	assert.Equal(t, []string{"create:CartStandIn", "custom-scaffold"}, syntaxOf(gt))
}

func TestPipeline_MissingScaffolderIsFatal(t *testing.T) {
	pkg := loadShop(t)

	p := NewPipeline().SetFactory(factory{})

	_, err := p.Synthesize(pkg.Set(t, "Cart"), newContext())
	require.Error(t, err)

	var ge *GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, Scaffold, ge.Phase)
}

func TestPipeline_LanguageFilter(t *testing.T) {
	pkg := loadShop(t)

	other := newStage("other-language", Prepare)
	other.langs = []Language{"cobol"}

	p := NewPipeline().SetFactory(factory{}).Register(other, newStage("scaffold", Scaffold))

	gt, err := p.Synthesize(pkg.Set(t, "Cart"), newContext())
	require.NoError(t, err)
	assert.NotContains(t, syntaxOf(gt), "other-language")
	assert.Len(t, p.Stages(fake), 1)
}

func TestPipeline_NotApplicableLeavesPayload(t *testing.T) {
	pkg := loadShop(t)

	skip := newStage("skip", Rewrite)
	skip.err = errors.Wrap(ErrNotApplicable, "no members")

	p := NewPipeline().SetFactory(factory{}).Register(newStage("scaffold", Scaffold), skip, newStage("fixup", Fixup))

	gt, err := p.Synthesize(pkg.Set(t, "Cart"), newContext())
	require.NoError(t, err)
	assert.Equal(t, []string{"create:CartStandIn", "scaffold", "fixup"}, syntaxOf(gt))
}

func TestPipeline_StageFailureAbortsType(t *testing.T) {
	pkg := loadShop(t)

	var after atomic.Int32

	broken := newStage("broken", Rewrite)
	broken.err = errors.New("boom")

	later := newStage("later", Fixup)
	later.calls = &after

	p := NewPipeline().SetFactory(factory{}).Register(newStage("scaffold", Scaffold), broken, later)

	gt, err := p.Synthesize(pkg.Set(t, "Cart"), newContext())
	require.Error(t, err)
	assert.Nil(t, gt)
	assert.Zero(t, after.Load())

	var ge *GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "broken", ge.Stage)
	assert.Equal(t, Rewrite, ge.Phase)
	assert.Equal(t, diagnostic.CodeGenerationFailed, ge.Diagnostic(pkg.Set(t, "Cart")).Code)
	assert.Contains(t, err.Error(), "boom")
}

func TestRun_DedupEmitsOnce(t *testing.T) {
	pkg := loadShop(t)

	var calls atomic.Int32

	counted := newStage("scaffold", Scaffold)
	counted.calls = &calls

	p := NewPipeline().SetFactory(factory{}).Register(counted)

	candidates := []Candidate{
		{Targets: pkg.Set(t, "Cart")},
		{Targets: pkg.Set(t, "Cart", "Clock")},
		{Targets: pkg.Set(t, "Cart")},
		{Targets: pkg.Set(t, "Cart")},
	}

	report, err := p.Run(newContext(), candidates, 4)
	require.NoError(t, err)

	require.Len(t, report.Artifacts, 2)
	assert.Equal(t, "CartStandIn", report.Artifacts[0].Name)
	assert.Equal(t, "CartClockStandIn", report.Artifacts[1].Name)
	assert.Equal(t, "cart_stand_in.go", report.Artifacts[0].FileName)
	assert.Equal(t, 2, report.Skipped)
	assert.EqualValues(t, 2, calls.Load())
	assert.True(t, report.Diagnostics.IsValid())
}

func TestRun_FailuresStayWithTheirCandidate(t *testing.T) {
	pkg := loadShop(t)

	p := NewPipeline().SetFactory(factory{}).Register(newStage("scaffold", Scaffold))

	candidates := []Candidate{
		{Targets: pkg.Set(t, "Cart", "Catalog"), Position: "shop_test.go:3:1"},
		{Targets: pkg.Set(t, "Clock")},
		{Targets: pkg.Set(t, "Catalog", "Inventory")},
	}

	report, err := p.Run(newContext(), candidates, 1)
	require.NoError(t, err)

	require.Len(t, report.Artifacts, 1)
	assert.Equal(t, "ClockStandIn", report.Artifacts[0].Name)

	require.Len(t, report.Diagnostics.Errors, 2)
	assert.Equal(t, diagnostic.CodeBaseTypeNotFirst, report.Diagnostics.Errors[0].Code)
	assert.Equal(t, "shop_test.go:3:1", report.Diagnostics.Errors[0].Position)
	assert.Equal(t, diagnostic.CodeDuplicateBaseType, report.Diagnostics.Errors[1].Code)
}

func TestRun_NameCollision(t *testing.T) {
	a := typetest.Check(t, "example.com/a", "package a\n\ntype Thing interface{ Do() }\n")
	b := typetest.Check(t, "example.com/b", "package b\n\ntype Thing interface{ Do() }\n")

	p := NewPipeline().SetFactory(factory{}).Register(newStage("scaffold", Scaffold))

	report, err := p.Run(newContext(), []Candidate{
		{Targets: a.Set(t, "Thing")},
		{Targets: b.Set(t, "Thing")},
	}, 0)
	require.NoError(t, err)

	require.Len(t, report.Artifacts, 1)
	assert.Equal(t, []string{diagnostic.CodeNameCollision}, report.Diagnostics.Codes())
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	pkg := loadShop(t)

	p := NewPipeline().SetFactory(factory{}).Register(newStage("scaffold", Scaffold), newStage("fixup", Fixup))

	var candidates []Candidate
	for _, names := range [][]string{{"Cart"}, {"Clock"}, {"Cart", "Clock"}, {"Clock", "Cart"}, {"Catalog", "Cart"}} {
		candidates = append(candidates, Candidate{Targets: pkg.Set(t, names...)})
	}

	sequential, err := p.Run(newContext(), candidates, 1)
	require.NoError(t, err)

	parallel, err := p.Run(newContext(), candidates, 8)
	require.NoError(t, err)

	require.Len(t, parallel.Artifacts, len(sequential.Artifacts))

	for i := range sequential.Artifacts {
		assert.Equal(t, sequential.Artifacts[i].Name, parallel.Artifacts[i].Name)
		assert.Equal(t, string(sequential.Artifacts[i].Source), string(parallel.Artifacts[i].Source))
	}
}

func TestRun_CancelledBeforeEmission(t *testing.T) {
	pkg := loadShop(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sctx := newContext()
	sctx.Ctx = ctx

	p := NewPipeline().SetFactory(factory{}).Register(newStage("scaffold", Scaffold))

	report, err := p.Run(sctx, []Candidate{{Targets: pkg.Set(t, "Cart")}}, 1)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDedup_Concurrent(t *testing.T) {
	d := NewDedup()

	var (
		wg    sync.WaitGroup
		first atomic.Int32
	)

	for range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ok, err := d.Claim("CartStandIn", "example.com/shop.Cart")
			assert.NoError(t, err)

			if ok {
				first.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.EqualValues(t, 1, first.Load())
	assert.Equal(t, 1, d.Len())

	_, err := d.Claim("CartStandIn", "example.com/other.Cart")
	assert.Error(t, err)
}

func TestPhase_String(t *testing.T) {
	for _, p := range Phases {
		parsed, ok := ParsePhase(p.String())
		require.True(t, ok)
		assert.Equal(t, p, parsed)
	}

	_, ok := ParsePhase("compile")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestGeneratedType_Targets(t *testing.T) {
	pkg := loadShop(t)
	set := pkg.Set(t, "Catalog", "Cart")

	p := NewPipeline().SetFactory(factory{}).Register(newStage("scaffold", Scaffold))

	gt, err := p.Synthesize(set, newContext())
	require.NoError(t, err)

	assert.Equal(t, set.Key(), gt.Targets.Key())
	assert.Equal(t, model.TargetTypeSet(set).String(), "shop.Catalog, shop.Cart")

	var names []string
	for _, m := range gt.Members {
		names = append(names, m.Name)
	}

	assert.Equal(t, []string{"Find", "Add", "Total"}, names)
}
