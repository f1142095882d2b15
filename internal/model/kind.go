package model

import "standin-generator/internal/common"

// Kind is the closed set of member kinds a stand-in implements.
type Kind int

const (
	KindMethod   Kind = iota // plain method
	KindProperty             // X() T paired with SetX(T)
	KindIndexer              // X(k) T paired with SetX(k, T)
	KindEvent                // AddX(h) paired with RemoveX(h)
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	case KindIndexer:
		return "indexer"
	case KindEvent:
		return "event"
	default:
		return common.UnknownStr
	}
}

// Accessor identifies the role of a method within a property, indexer or event.
type Accessor int

const (
	AccessorInvoke Accessor = iota
	AccessorGet
	AccessorSet
	AccessorAdd
	AccessorRemove
)

// String returns a human-readable representation of the Accessor.
func (a Accessor) String() string {
	switch a {
	case AccessorInvoke:
		return "invoke"
	case AccessorGet:
		return "get"
	case AccessorSet:
		return "set"
	case AccessorAdd:
		return "add"
	case AccessorRemove:
		return "remove"
	default:
		return common.UnknownStr
	}
}

// Direction is the passing mode of a parameter.
type Direction int

const (
	DirectionIn  Direction = iota // passed by value
	DirectionRef                  // *B with a basic underlying B, written back after the call
	DirectionOut                  // every result but the last
)

// String returns a human-readable representation of the Direction.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionRef:
		return "ref"
	case DirectionOut:
		return "out"
	default:
		return common.UnknownStr
	}
}
