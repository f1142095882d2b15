package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"standin-generator/internal/model"
	"standin-generator/internal/synth"
)

// Directive marks a function declaration as a generator function.
const Directive = "//standin:generator"

// DefaultMarkers are the generator functions of the runtime package.
var DefaultMarkers = []string{
	"standin-generator/standin.Of",
	"standin-generator/standin.Of2",
	"standin-generator/standin.Of3",
}

// Site is one instantiation of a generator function.
type Site struct {
	Pos     token.Position
	Marker  string
	Targets model.TargetTypeSet
}

// Directives returns the full names of the functions in files declared
// with the generator directive.
func Directives(files []*ast.File, info *types.Info) []string {
	var names []string

	for _, f := range files {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv != nil || !hasDirective(fd.Doc) {
				continue
			}

			if fn, ok := info.Defs[fd.Name].(*types.Func); ok {
				names = append(names, fn.FullName())
			}
		}
	}

	return names
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}

	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == Directive {
			return true
		}
	}

	return false
}

// Discover returns the instantiations of the marker functions recorded in
// info. Instantiations whose type arguments are still type parameters are
// forwarding calls inside other generators and are skipped. Sites are sorted
// by position.
func Discover(fset *token.FileSet, info *types.Info, markers []string) []Site {
	var sites []Site

	for ident, inst := range info.Instances {
		fn, ok := info.Uses[ident].(*types.Func)
		if !ok {
			continue
		}

		name := fn.Origin().FullName()
		if !slices.Contains(markers, name) {
			continue
		}

		args := make([]types.Type, inst.TypeArgs.Len())
		open := false

		for i := range args {
			args[i] = inst.TypeArgs.At(i)
			open = open || hasTypeParam(args[i])
		}

		if open {
			continue
		}

		sites = append(sites, Site{
			Pos:     fset.Position(ident.Pos()),
			Marker:  name,
			Targets: model.NewTargetTypeSet(args...),
		})
	}

	slices.SortFunc(sites, compareSites)

	return sites
}

func compareSites(a, b Site) int {
	if c := strings.Compare(a.Pos.Filename, b.Pos.Filename); c != 0 {
		return c
	}

	if a.Pos.Line != b.Pos.Line {
		return a.Pos.Line - b.Pos.Line
	}

	return a.Pos.Column - b.Pos.Column
}

// hasTypeParam reports whether t mentions a type parameter.
func hasTypeParam(t types.Type) bool {
	switch t := t.(type) {
	case *types.TypeParam:
		return true
	case *types.Named:
		args := t.TypeArgs()
		for i := range args.Len() {
			if hasTypeParam(args.At(i)) {
				return true
			}
		}
	case *types.Alias:
		return hasTypeParam(types.Unalias(t))
	case *types.Pointer:
		return hasTypeParam(t.Elem())
	case *types.Slice:
		return hasTypeParam(t.Elem())
	case *types.Array:
		return hasTypeParam(t.Elem())
	case *types.Chan:
		return hasTypeParam(t.Elem())
	case *types.Map:
		return hasTypeParam(t.Key()) || hasTypeParam(t.Elem())
	}

	return false
}

// DiscoverCandidates returns one candidate per generator instantiation in
// the loaded packages. The generator functions are markers plus every
// function carrying the directive. Test variants of a package repeat its
// files, so sites are reported once.
func (p *Program) DiscoverCandidates(markers []string) []synth.Candidate {
	all := slices.Clone(markers)
	for _, pkg := range p.Packages {
		all = append(all, Directives(pkg.Syntax, pkg.TypesInfo)...)
	}

	var sites []Site

	seen := make(map[string]bool)

	for _, pkg := range p.Packages {
		for _, s := range Discover(p.Fset, pkg.TypesInfo, all) {
			key := s.Pos.String() + "|" + s.Targets.Key()
			if seen[key] {
				continue
			}

			seen[key] = true

			sites = append(sites, s)
		}
	}

	slices.SortFunc(sites, compareSites)

	return Candidates(sites)
}

// Candidates converts sites to synthesis candidates, keeping their order.
func Candidates(sites []Site) []synth.Candidate {
	out := make([]synth.Candidate, len(sites))
	for i, s := range sites {
		out[i] = synth.Candidate{Targets: s.Targets, Position: s.Pos.String()}
	}

	return out
}
