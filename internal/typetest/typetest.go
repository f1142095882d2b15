// Package typetest type-checks Go source held in strings for tests.
package typetest

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"

	"standin-generator/internal/model"
)

// Package is a type-checked source package.
type Package struct {
	Fset *token.FileSet
	File *ast.File
	Pkg  *types.Package
	Info *types.Info
}

// Check parses and type-checks src as the package at path.
func Check(t testing.TB, path, src string) *Package {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path+".go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{
		Types:     make(map[ast.Expr]types.TypeAndValue),
		Defs:      make(map[*ast.Ident]types.Object),
		Uses:      make(map[*ast.Ident]types.Object),
		Instances: make(map[*ast.Ident]types.Instance),
	}

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check(path, fset, []*ast.File{file}, info)
	require.NoError(t, err)

	return &Package{Fset: fset, File: file, Pkg: pkg, Info: info}
}

// Type returns the package-level type name.
func (p *Package) Type(t testing.TB, name string) types.Type {
	t.Helper()

	obj, ok := p.Pkg.Scope().Lookup(name).(*types.TypeName)
	require.True(t, ok, "type %s not declared", name)

	return obj.Type()
}

// Local returns a type declared inside a function body.
func (p *Package) Local(t testing.TB, name string) types.Type {
	t.Helper()

	for ident, obj := range p.Info.Defs {
		tn, ok := obj.(*types.TypeName)
		if ok && ident.Name == name && tn.Parent() != p.Pkg.Scope() {
			return tn.Type()
		}
	}

	require.Failf(t, "local type not found", "%s", name)

	return nil
}

// Instantiate instantiates the generic package-level type name with args.
func (p *Package) Instantiate(t testing.TB, name string, args ...types.Type) types.Type {
	t.Helper()

	inst, err := types.Instantiate(nil, p.Type(t, name), args, true)
	require.NoError(t, err)

	return inst
}

// Set builds a target type set from package-level type names.
func (p *Package) Set(t testing.TB, names ...string) model.TargetTypeSet {
	t.Helper()

	ts := make([]types.Type, len(names))
	for i, name := range names {
		ts[i] = p.Type(t, name)
	}

	return model.NewTargetTypeSet(ts...)
}

// Int returns the predeclared int type.
func Int() types.Type {
	return types.Typ[types.Int]
}
