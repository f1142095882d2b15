package model

import (
	"go/types"
	"strings"
)

// TargetType is one base or interface type of a generation request.
type TargetType struct {
	Type types.Type
}

// NewTargetType wraps t, resolving aliases to the aliased type.
func NewTargetType(t types.Type) TargetType {
	if t != nil {
		t = types.Unalias(t)
	}

	return TargetType{Type: t}
}

// Named returns the defined type, or false for unnamed types.
func (t TargetType) Named() (*types.Named, bool) {
	named, ok := t.Type.(*types.Named)
	return named, ok
}

// Obj returns the type name object, or nil for unnamed types.
func (t TargetType) Obj() *types.TypeName {
	if named, ok := t.Named(); ok {
		return named.Obj()
	}

	return nil
}

// PkgPath returns the import path of the declaring package ("" for universe types).
func (t TargetType) PkgPath() string {
	if obj := t.Obj(); obj != nil && obj.Pkg() != nil {
		return obj.Pkg().Path()
	}

	return ""
}

// Name returns the declared type name without package or type arguments.
func (t TargetType) Name() string {
	if obj := t.Obj(); obj != nil {
		return obj.Name()
	}

	if t.Type == nil {
		return ""
	}

	return t.Type.String()
}

// TypeArgs returns the instantiation arguments of a generic type.
func (t TargetType) TypeArgs() []types.Type {
	named, ok := t.Named()
	if !ok || named.TypeArgs() == nil {
		return nil
	}

	args := make([]types.Type, named.TypeArgs().Len())
	for i := range args {
		args[i] = named.TypeArgs().At(i)
	}

	return args
}

// IsInterface reports whether the type is an interface.
func (t TargetType) IsInterface() bool {
	return t.Type != nil && types.IsInterface(t.Type)
}

// ID returns the canonical identity, e.g. "example.com/calc.Memory[int]".
func (t TargetType) ID() string {
	if t.Type == nil {
		return "<nil>"
	}

	return types.TypeString(t.Type, func(p *types.Package) string { return p.Path() })
}

// String returns the package-qualified display name, e.g. "calc.Memory[int]".
func (t TargetType) String() string {
	if t.Type == nil {
		return "<nil>"
	}

	return types.TypeString(t.Type, func(p *types.Package) string { return p.Name() })
}

// Equal reports whether both refer to the identical type.
func (t TargetType) Equal(o TargetType) bool {
	if t.Type == nil || o.Type == nil {
		return t.Type == o.Type
	}

	return types.Identical(t.Type, o.Type)
}

// TargetTypeSet is the ordered combination of target types of one request.
// When present, the base type occupies position 0.
type TargetTypeSet []TargetType

// NewTargetTypeSet builds a set from go/types types, preserving order.
func NewTargetTypeSet(ts ...types.Type) TargetTypeSet {
	set := make(TargetTypeSet, len(ts))
	for i, t := range ts {
		set[i] = NewTargetType(t)
	}

	return set
}

// Key returns the canonical, order-preserving identity of the set.
func (s TargetTypeSet) Key() string {
	ids := make([]string, len(s))
	for i, t := range s {
		ids[i] = t.ID()
	}

	return strings.Join(ids, ",")
}

// String returns the display names joined by ", ".
func (s TargetTypeSet) String() string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.String()
	}

	return strings.Join(names, ", ")
}

// Base returns the base type when the first element is not an interface.
func (s TargetTypeSet) Base() (TargetType, bool) {
	if len(s) == 0 || s[0].IsInterface() {
		return TargetType{}, false
	}

	return s[0], true
}

// Interfaces returns the interface types in order.
func (s TargetTypeSet) Interfaces() []TargetType {
	var out []TargetType

	for _, t := range s {
		if t.IsInterface() {
			out = append(out, t)
		}
	}

	return out
}

// Packages returns the distinct packages declaring the target types, in order.
func (s TargetTypeSet) Packages() []*types.Package {
	seen := make(map[string]bool)

	var out []*types.Package

	for _, t := range s {
		obj := t.Obj()
		if obj == nil || obj.Pkg() == nil || seen[obj.Pkg().Path()] {
			continue
		}

		seen[obj.Pkg().Path()] = true

		out = append(out, obj.Pkg())
	}

	return out
}
