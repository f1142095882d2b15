package model_test

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"standin-generator/internal/model"
	"standin-generator/internal/typetest"
)

const parserSrc = `package parse

type Parser interface {
	Try(s string, x *int) (y int, ok bool)
	Split(sep string, parts ...string) []string
	Reset()
	Pair() (int, error)
	Get(r0 int) (int, bool)
	Swap(_ string, p0 int, _ string) (r1 string, _ int, _ bool)
}

type Base struct{}

type Alias = Parser
`

func method(t *testing.T, pkg *typetest.Package, typeName, name string) *types.Func {
	t.Helper()

	iface := pkg.Type(t, typeName).Underlying().(*types.Interface)
	for i := range iface.NumMethods() {
		if iface.Method(i).Name() == name {
			return iface.Method(i)
		}
	}

	require.Failf(t, "method not found", "%s.%s", typeName, name)

	return nil
}

func TestNewSignature_Directions(t *testing.T) {
	pkg := typetest.Check(t, "example.com/parse", parserSrc)

	sig := model.NewSignature(method(t, pkg, "Parser", "Try"))
	require.Len(t, sig.Params, 3)

	assert.Equal(t, model.DirectionIn, sig.Params[0].Direction)
	assert.Equal(t, model.DirectionRef, sig.Params[1].Direction)
	assert.True(t, types.Identical(types.Typ[types.Int], sig.Params[1].SlotType()))
	assert.Equal(t, model.DirectionOut, sig.Params[2].Direction)
	assert.Equal(t, "y", sig.Params[2].Name)

	assert.Len(t, sig.Inputs(), 2)
	assert.Len(t, sig.Outputs(), 1)
	assert.Len(t, sig.Refs(), 1)
	assert.Equal(t, "ok", sig.ReturnName)
	assert.True(t, sig.NamedResults)
	assert.Equal(t, "Try(s string, x *int) (y int, ok bool)", sig.String())
}

func TestNewSignature_FallbackNamesAreUnique(t *testing.T) {
	pkg := typetest.Check(t, "example.com/parse", parserSrc)

	get := model.NewSignature(method(t, pkg, "Parser", "Get"))
	require.Len(t, get.Params, 2)
	assert.Equal(t, "r0", get.Params[0].Name)
	assert.Equal(t, "r0_1", get.Params[1].Name)

	swap := model.NewSignature(method(t, pkg, "Parser", "Swap"))

	names := make(map[string]bool)
	for _, p := range swap.Params {
		assert.False(t, names[p.Name], "slot %s repeated in %v", p.Name, swap.Params)
		names[p.Name] = true
	}

	assert.Len(t, names, 5)
	assert.Equal(t, "p0_1", swap.Params[0].Name)
	assert.Equal(t, "p0", swap.Params[1].Name)
}

func TestNewSignature_VariadicAndVoid(t *testing.T) {
	pkg := typetest.Check(t, "example.com/parse", parserSrc)

	split := model.NewSignature(method(t, pkg, "Parser", "Split"))
	assert.True(t, split.Variadic())
	assert.True(t, split.Params[1].Variadic)
	assert.Equal(t, "Split(sep string, parts ...string) []string", split.String())

	reset := model.NewSignature(method(t, pkg, "Parser", "Reset"))
	assert.True(t, reset.IsVoid())
	assert.Empty(t, reset.ResultList(nil))

	pair := model.NewSignature(method(t, pkg, "Parser", "Pair"))
	require.Len(t, pair.Outputs(), 1)
	assert.Equal(t, "r0", pair.Outputs()[0].Name)
	assert.Equal(t, "(int, error)", pair.ResultList(func(p *types.Package) string { return p.Name() }))
}

func TestSignature_Identical(t *testing.T) {
	a := typetest.Check(t, "example.com/a", "package a\n\ntype I interface{ Name(x int) string }\n")
	b := typetest.Check(t, "example.com/b", "package b\n\ntype I interface{ Name(y int) string }\n")
	c := typetest.Check(t, "example.com/c", "package c\n\ntype I interface{ Name(y int) int }\n")

	sa := model.NewSignature(method(t, a, "I", "Name"))
	sb := model.NewSignature(method(t, b, "I", "Name"))
	sc := model.NewSignature(method(t, c, "I", "Name"))

	assert.True(t, sa.Identical(sb))
	assert.False(t, sa.Identical(sc))
}

func TestTargetTypeSet(t *testing.T) {
	pkg := typetest.Check(t, "example.com/parse", parserSrc)

	set := pkg.Set(t, "Base", "Parser")
	assert.Equal(t, "example.com/parse.Base,example.com/parse.Parser", set.Key())
	assert.Equal(t, "parse.Base, parse.Parser", set.String())

	base, ok := set.Base()
	require.True(t, ok)
	assert.Equal(t, "Base", base.Name())
	assert.Len(t, set.Interfaces(), 1)
	require.Len(t, set.Packages(), 1)
	assert.Equal(t, "example.com/parse", set.Packages()[0].Path())

	_, ok = pkg.Set(t, "Parser").Base()
	assert.False(t, ok)
}

func TestTargetType_AliasResolved(t *testing.T) {
	pkg := typetest.Check(t, "example.com/parse", parserSrc)

	alias := model.NewTargetType(pkg.Type(t, "Alias"))
	parser := model.NewTargetType(pkg.Type(t, "Parser"))

	assert.True(t, alias.Equal(parser))
	assert.Equal(t, "Parser", alias.Name())
	assert.Equal(t, parser.ID(), alias.ID())
}

func TestGeneratedMember_Exported(t *testing.T) {
	pkg := typetest.Check(t, "example.com/parse", parserSrc)

	member := model.GeneratedMember{Signature: model.NewSignature(method(t, pkg, "Parser", "Reset"))}
	assert.True(t, member.Exported())

	member.Name = "reset"
	assert.False(t, member.Exported())
}
