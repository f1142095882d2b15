package model

import (
	"go/token"
	"go/types"
)

// GeneratedMember is a member the stand-in must implement.
type GeneratedMember struct {
	Signature

	// Method is the authoritative go/types method.
	Method *types.Func
	// Provenance is the target type owning the authoritative declaration.
	Provenance TargetType
	// Implements lists every target type the member satisfies, in input order.
	Implements []TargetType
	// Origin is the type that declares the method, which differs from
	// Provenance for embedded interfaces and promoted base methods.
	Origin string
	// FromBase is set for members overriding a base type method.
	FromBase bool
	// Abstract is set for base members promoted from an embedded interface,
	// which have no implementation to fall back to.
	Abstract bool
	// Qualified is set when the member is implemented on a per-interface view
	// because another target declares an incompatible member with the same name.
	Qualified bool
}

// Exported reports whether the member name is exported.
func (m GeneratedMember) Exported() bool {
	return token.IsExported(m.Name)
}

// Implementers returns the identities of Implements.
func (m GeneratedMember) Implementers() []string {
	ids := make([]string, len(m.Implements))
	for i, t := range m.Implements {
		ids[i] = t.ID()
	}

	return ids
}
