package standin

import (
	"reflect"
	"strings"
)

//go:generate go tool stringer -type=Kind,Accessor,Direction -output=enum_string.go

// Kind is the kind of an intercepted member.
type Kind int

const (
	KindMethod   Kind = iota // plain method
	KindProperty             // X() T paired with SetX(T)
	KindIndexer              // X(k) T paired with SetX(k, T)
	KindEvent                // AddX(h) paired with RemoveX(h)
)

// Accessor identifies which half of a property, indexer or event a method is.
type Accessor int

const (
	AccessorInvoke Accessor = iota // plain method call
	AccessorGet
	AccessorSet
	AccessorAdd
	AccessorRemove
)

// Direction is the passing mode of a parameter.
type Direction int

const (
	DirectionIn  Direction = iota // by value
	DirectionRef                  // *T of a basic type, written back after the call
	DirectionOut                  // any result but the last
)

// Param describes one parameter slot of a member.
// For ref parameters Type is the pointed-to type, which is the type of the slot.
type Param struct {
	Name      string
	Type      reflect.Type
	Direction Direction
}

// Member describes one intercepted member of a stand-in.
type Member struct {
	// Name is the Go method name.
	Name string
	// Kind and Accessor classify the method.
	Kind     Kind
	Accessor Accessor
	// Property is the property, indexer or event name (empty for plain methods).
	Property string
	// Owner is the identity of the target type the member implements.
	Owner string
	// Qualified is set for members implemented on a per-interface view.
	Qualified bool
	// Params lists input and ref parameters in declaration order, followed by out slots.
	Params []Param
	// Return is the type of the last result, nil for methods without results.
	Return reflect.Type
	// Variadic reports whether the last input parameter is variadic.
	Variadic bool
}

// IsVoid reports whether the member has no return value.
func (m *Member) IsVoid() bool {
	return m.Return == nil
}

// Param returns the parameter with the given name.
func (m *Member) Param(name string) (Param, bool) {
	for _, p := range m.Params {
		if p.Name == name {
			return p, true
		}
	}

	return Param{}, false
}

// String returns a readable signature, e.g. "Try(x *int) (y int, bool)".
func (m *Member) String() string {
	var sb strings.Builder

	sb.WriteString(m.Name)
	sb.WriteString("(")

	var outs []string

	first := true

	for _, p := range m.Params {
		if p.Direction == DirectionOut {
			outs = append(outs, p.Name+" "+typeName(p.Type))
			continue
		}

		if !first {
			sb.WriteString(", ")
		}

		first = false

		sb.WriteString(p.Name)
		sb.WriteString(" ")

		if p.Direction == DirectionRef {
			sb.WriteString("*")
		}

		sb.WriteString(typeName(p.Type))
	}

	sb.WriteString(")")

	if m.Return != nil {
		outs = append(outs, typeName(m.Return))
	}

	switch len(outs) {
	case 0:
	case 1:
		sb.WriteString(" " + outs[0])
	default:
		sb.WriteString(" (" + strings.Join(outs, ", ") + ")")
	}

	return sb.String()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "any"
	}

	return t.String()
}
