package model

import (
	"fmt"
	"go/types"
	"strings"
)

// Parameter is one slot of a member signature.
type Parameter struct {
	// Name is the declared name, or a positional name for unnamed slots.
	Name string
	// Type is the declared type; for ref parameters the pointer type.
	Type types.Type
	// Direction is the passing mode.
	Direction Direction
	// Variadic is set for the trailing ...T parameter (Type is []T).
	Variadic bool
}

// SlotType returns the type of the value carried through an invocation.
func (p Parameter) SlotType() types.Type {
	if p.Direction == DirectionRef {
		return p.Type.(*types.Pointer).Elem()
	}

	return p.Type
}

// Signature describes a member independently of the type declaring it.
type Signature struct {
	Name     string
	Kind     Kind
	Accessor Accessor
	// Property is the property, indexer or event name; empty for plain methods.
	Property string
	// Params lists inputs and refs in declaration order, then out slots.
	Params []Parameter
	// Return is the type of the last result, nil for void members.
	Return types.Type
	// NamedResults is set when the declaration names its results.
	NamedResults bool
	// ReturnName is the declared name of the last result, if any.
	ReturnName string
	// Sig is the underlying go/types signature.
	Sig *types.Signature
}

// NewSignature derives a plain-method signature from a go/types method.
func NewSignature(fn *types.Func) Signature {
	sig := fn.Type().(*types.Signature)

	s := Signature{
		Name: fn.Name(),
		Sig:  sig,
	}

	params := sig.Params()
	results := sig.Results()
	taken := declaredNames(params, results)

	for i := range params.Len() {
		v := params.At(i)

		p := Parameter{
			Name:      slotName(v.Name(), "p", i, taken),
			Type:      v.Type(),
			Direction: DirectionIn,
			Variadic:  sig.Variadic() && i == params.Len()-1,
		}

		if isRef(v.Type()) {
			p.Direction = DirectionRef
		}

		s.Params = append(s.Params, p)
	}

	if results.Len() == 0 {
		return s
	}

	s.NamedResults = results.At(0).Name() != ""

	for i := range results.Len() - 1 {
		v := results.At(i)
		s.Params = append(s.Params, Parameter{
			Name:      slotName(v.Name(), "r", i, taken),
			Type:      v.Type(),
			Direction: DirectionOut,
		})
	}

	last := results.At(results.Len() - 1)
	s.Return = last.Type()

	if last.Name() != "_" {
		s.ReturnName = last.Name()
	}

	return s
}

// declaredNames collects the non-blank parameter and result names.
func declaredNames(tuples ...*types.Tuple) map[string]bool {
	names := make(map[string]bool)

	for _, tuple := range tuples {
		for i := range tuple.Len() {
			if name := tuple.At(i).Name(); name != "" && name != "_" {
				names[name] = true
			}
		}
	}

	return names
}

// slotName replaces blank and missing names with positional ones that
// clash with no name in taken. Slots are keyed by name at run time, so
// every slot of a member needs its own.
func slotName(name, prefix string, i int, taken map[string]bool) string {
	if name != "" && name != "_" {
		return name
	}

	candidate := fmt.Sprintf("%s%d", prefix, i)
	for n := 1; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s%d_%d", prefix, i, n)
	}

	taken[candidate] = true

	return candidate
}

// isRef reports whether t is a pointer to a type with a basic underlying type.
func isRef(t types.Type) bool {
	ptr, ok := types.Unalias(t).(*types.Pointer)
	if !ok {
		return false
	}

	_, basic := ptr.Elem().Underlying().(*types.Basic)

	return basic
}

// IsVoid reports whether the member has no return value.
func (s Signature) IsVoid() bool {
	return s.Return == nil
}

// Variadic reports whether the last input is variadic.
func (s Signature) Variadic() bool {
	return s.Sig != nil && s.Sig.Variadic()
}

// Inputs returns the by-value and ref parameters in declaration order.
func (s Signature) Inputs() []Parameter {
	var out []Parameter

	for _, p := range s.Params {
		if p.Direction != DirectionOut {
			out = append(out, p)
		}
	}

	return out
}

// Outputs returns the out slots in declaration order.
func (s Signature) Outputs() []Parameter {
	var out []Parameter

	for _, p := range s.Params {
		if p.Direction == DirectionOut {
			out = append(out, p)
		}
	}

	return out
}

// Refs returns the ref parameters in declaration order.
func (s Signature) Refs() []Parameter {
	var out []Parameter

	for _, p := range s.Params {
		if p.Direction == DirectionRef {
			out = append(out, p)
		}
	}

	return out
}

// Identical reports structural equality: same name and identical parameter
// and result types. Parameter names and receivers are ignored.
func (s Signature) Identical(o Signature) bool {
	if s.Name != o.Name {
		return false
	}

	if s.Sig == nil || o.Sig == nil {
		return s.Sig == o.Sig
	}

	return types.Identical(s.Sig, o.Sig)
}

// String returns a readable form, e.g. "Try(x *int) (y int, ok bool)".
func (s Signature) String() string {
	return s.Format(func(p *types.Package) string { return p.Name() })
}

// Format renders the signature with the given package qualifier.
func (s Signature) Format(q types.Qualifier) string {
	var sb strings.Builder

	sb.WriteString(s.Name)
	sb.WriteString(s.ParamList(q))

	if results := s.ResultList(q); results != "" {
		sb.WriteString(" ")
		sb.WriteString(results)
	}

	return sb.String()
}

// ParamList renders "(a int, b ...string)".
func (s Signature) ParamList(q types.Qualifier) string {
	var parts []string

	for _, p := range s.Inputs() {
		typ := types.TypeString(p.Type, q)
		if p.Variadic {
			typ = "..." + types.TypeString(p.Type.(*types.Slice).Elem(), q)
		}

		parts = append(parts, p.Name+" "+typ)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// ResultList renders the result list, e.g. "int" or "(y int, ok bool)".
// It is empty for void members.
func (s Signature) ResultList(q types.Qualifier) string {
	if s.IsVoid() {
		return ""
	}

	outs := s.Outputs()
	if !s.NamedResults && len(outs) == 0 {
		return types.TypeString(s.Return, q)
	}

	var parts []string

	for _, p := range outs {
		parts = append(parts, s.resultEntry(p.Name, p.Type, q))
	}

	parts = append(parts, s.resultEntry(s.returnSlot(), s.Return, q))

	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Signature) resultEntry(name string, t types.Type, q types.Qualifier) string {
	if !s.NamedResults {
		return types.TypeString(t, q)
	}

	return name + " " + types.TypeString(t, q)
}

func (s Signature) returnSlot() string {
	if s.ReturnName != "" {
		return s.ReturnName
	}

	return fmt.Sprintf("r%d", len(s.Outputs()))
}
