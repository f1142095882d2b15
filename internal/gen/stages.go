package gen

import (
	"go/ast"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/ast/astutil"

	"standin-generator/internal/synth"
)

// Header is the first line of every generated file.
const Header = "// Code generated by standin-generator. DO NOT EDIT."

// fileOf returns the Go payload of gt.
func fileOf(gt *synth.GeneratedType) (*File, error) {
	f, ok := gt.Syntax.(*File)
	if !ok || f == nil {
		return nil, errors.Wrapf(synth.ErrNotApplicable, "payload of %s is %T, not a Go file", gt.Name, gt.Syntax)
	}

	return f, nil
}

// DefaultImports imports the runtime, package reflect, the packages declaring
// the target types and every package mentioned by member signatures.
type DefaultImports struct{}

func (DefaultImports) Name() string                { return "imports" }
func (DefaultImports) Languages() []synth.Language { return []synth.Language{synth.Go} }
func (DefaultImports) Phase() synth.Phase          { return synth.Prepare }

// Process implements synth.Processor.
func (DefaultImports) Process(gt *synth.GeneratedType, _ *synth.Context) (*synth.GeneratedType, error) {
	f, err := fileOf(gt)
	if err != nil {
		return nil, err
	}

	f.Runtime()
	f.Reflect()

	for _, pkg := range gt.Targets.Packages() {
		f.Imports.Add(pkg.Path(), pkg.Name())
	}

	for _, m := range gt.Members {
		for _, p := range m.Params {
			f.Imports.Type(p.Type)
		}

		if !m.IsVoid() {
			f.Imports.Type(m.Return)
		}
	}

	if err := f.EnsureImports(); err != nil {
		return nil, err
	}

	return gt, nil
}

// GeneratedHeader marks the file as generated so tools skip it.
type GeneratedHeader struct{}

func (GeneratedHeader) Name() string                { return "header" }
func (GeneratedHeader) Languages() []synth.Language { return []synth.Language{synth.Go} }
func (GeneratedHeader) Phase() synth.Phase          { return synth.Fixup }

// Process implements synth.Processor.
func (GeneratedHeader) Process(gt *synth.GeneratedType, _ *synth.Context) (*synth.GeneratedType, error) {
	f, err := fileOf(gt)
	if err != nil {
		return nil, err
	}

	if ast.IsGenerated(f.AST) {
		return gt, nil
	}

	if err := f.Prepend([]byte(Header + "\n\n")); err != nil {
		return nil, err
	}

	return gt, nil
}

// FixupImports drops unused imports and sorts the rest.
type FixupImports struct{}

func (FixupImports) Name() string                { return "fiximports" }
func (FixupImports) Languages() []synth.Language { return []synth.Language{synth.Go} }
func (FixupImports) Phase() synth.Phase          { return synth.Fixup }

// Process implements synth.Processor.
func (FixupImports) Process(gt *synth.GeneratedType, _ *synth.Context) (*synth.GeneratedType, error) {
	f, err := fileOf(gt)
	if err != nil {
		return nil, err
	}

	for _, spec := range append([]*ast.ImportSpec(nil), f.AST.Imports...) {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "import %s", spec.Path.Value)
		}

		if astutil.UsesImport(f.AST, path) {
			continue
		}

		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		}

		astutil.DeleteNamedImport(f.Fset, f.AST, name, path)
	}

	ast.SortImports(f.Fset, f.AST)

	if err := f.Sync(); err != nil {
		return nil, err
	}

	if err := groupImports(f); err != nil {
		return nil, err
	}

	return gt, nil
}

// groupImports merges the import declarations into one block holding the
// standard library packages first and the others after a blank line.
func groupImports(f *File) error {
	var decls []*ast.GenDecl

	for _, decl := range f.AST.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			decls = append(decls, gd)
		}
	}

	if len(decls) == 0 {
		return nil
	}

	var std, other []*ast.ImportSpec

	for _, spec := range f.AST.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return errors.Wrapf(err, "import %s", spec.Path.Value)
		}

		if f.isStdlib(path) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}

	var sb strings.Builder

	sb.WriteString("import (\n")

	for i, group := range [][]*ast.ImportSpec{std, other} {
		if i > 0 && len(std) > 0 && len(other) > 0 {
			sb.WriteString("\n")
		}

		sort.SliceStable(group, func(a, b int) bool { return group[a].Path.Value < group[b].Path.Value })

		for _, spec := range group {
			sb.WriteString("\t")

			if spec.Name != nil {
				sb.WriteString(spec.Name.Name + " ")
			}

			sb.WriteString(spec.Path.Value + "\n")
		}
	}

	sb.WriteString(")")

	edits := []Edit{{Pos: decls[0].Pos(), End: decls[0].End(), Text: sb.String()}}
	for _, decl := range decls[1:] {
		edits = append(edits, Edit{Pos: decl.Pos(), End: decl.End()})
	}

	return f.Apply(edits)
}

// isStdlib reports whether path names a standard library package: its first
// element has no dot and is not the first element of the runtime or output
// package path, which belong to the generating module.
func (f *File) isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	if strings.Contains(first, ".") {
		return false
	}

	for _, own := range []string{f.RuntimePath, f.Imports.self} {
		if prefix, _, _ := strings.Cut(own, "/"); prefix == first {
			return false
		}
	}

	return true
}

// stageFactories maps stage names usable in configuration to constructors.
var stageFactories = map[string]func() synth.Processor{
	"imports":    func() synth.Processor { return DefaultImports{} },
	"scaffold":   func() synth.Processor { return ScaffoldStage{} },
	"delegate":   func() synth.Processor { return Delegate{} },
	"header":     func() synth.Processor { return GeneratedHeader{} },
	"fiximports": func() synth.Processor { return FixupImports{} },
}

// StageNames returns the names of the built-in stages.
func StageNames() []string {
	return []string{"imports", "scaffold", "delegate", "header", "fiximports"}
}

// DefaultStages returns the stage names registered per phase by default.
// No Scaffold stage is listed, so the default Scaffolder runs.
func DefaultStages() map[string][]string {
	return map[string][]string{
		synth.Prepare.String(): {"imports"},
		synth.Rewrite.String(): {"delegate"},
		synth.Fixup.String():   {"header", "fiximports"},
	}
}

// NewStage returns the built-in stage registered under name, checking that
// it runs in the given phase.
func NewStage(name string, phase synth.Phase) (synth.Processor, error) {
	factory, ok := stageFactories[name]
	if !ok {
		return nil, errors.WithHint(
			errors.Newf("unknown stage %q", name),
			"known stages: "+strings.Join(StageNames(), ", "))
	}

	stage := factory()
	if stage.Phase() != phase {
		return nil, errors.Newf("stage %q runs in phase %s, not %s", name, stage.Phase(), phase)
	}

	return stage, nil
}

// NewPipeline builds the Go synthesis pipeline from per-phase stage names.
// A nil map selects DefaultStages.
func NewPipeline(cfg GeneratorConfig) (*synth.Pipeline, error) {
	stages := cfg.Stages
	if stages == nil {
		stages = DefaultStages()
	}

	for key := range stages {
		if _, ok := synth.ParsePhase(key); !ok {
			return nil, errors.Newf("unknown phase %q", key)
		}
	}

	p := synth.NewPipeline().
		SetFactory(Factory{RuntimePath: cfg.runtimePath(), DebugDir: cfg.DebugDir}).
		SetScaffolder(synth.Go, Scaffolder{})

	for _, phase := range synth.Phases {
		for _, name := range stages[phase.String()] {
			stage, err := NewStage(name, phase)
			if err != nil {
				return nil, err
			}

			p.Register(stage)
		}
	}

	return p, nil
}
