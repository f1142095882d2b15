package compose

import (
	"go/types"
	"strings"

	"standin-generator/internal/model"
)

// classify marks accessor pairs as properties, indexers and events.
// Only members sharing provenance and qualification are paired.
//
//   - X() T with SetX(T) is a property X.
//   - X(k...) T with SetX(k..., T) is an indexer X.
//   - AddX(h) with RemoveX(h) is an event X.
func classify(members []model.GeneratedMember) {
	type groupKey struct {
		owner     string
		qualified bool
	}

	index := make(map[groupKey]map[string]int)

	for i, m := range members {
		key := groupKey{m.Provenance.ID(), m.Qualified}
		if index[key] == nil {
			index[key] = make(map[string]int)
		}

		index[key][m.Name] = i
	}

	for i := range members {
		m := &members[i]
		if m.Kind != model.KindMethod {
			continue
		}

		names := index[groupKey{m.Provenance.ID(), m.Qualified}]

		switch {
		case strings.HasPrefix(m.Name, "Set") && len(m.Name) > len("Set"):
			prop := strings.TrimPrefix(m.Name, "Set")

			j, ok := names[prop]
			if !ok || members[j].Kind != model.KindMethod {
				continue
			}

			if kind, ok := accessorPair(members[j].Signature, m.Signature); ok {
				markAccessor(&members[j], kind, model.AccessorGet, prop)
				markAccessor(m, kind, model.AccessorSet, prop)
			}
		case strings.HasPrefix(m.Name, "Add") && len(m.Name) > len("Add"):
			event := strings.TrimPrefix(m.Name, "Add")

			j, ok := names["Remove"+event]
			if !ok || members[j].Kind != model.KindMethod {
				continue
			}

			if eventPair(m.Signature, members[j].Signature) {
				markAccessor(m, model.KindEvent, model.AccessorAdd, event)
				markAccessor(&members[j], model.KindEvent, model.AccessorRemove, event)
			}
		}
	}
}

func markAccessor(m *model.GeneratedMember, kind model.Kind, accessor model.Accessor, name string) {
	m.Kind = kind
	m.Accessor = accessor
	m.Property = name
}

// accessorPair reports whether getter and setter form a property or an indexer.
func accessorPair(getter, setter model.Signature) (model.Kind, bool) {
	if !plainInputs(getter) || !plainInputs(setter) || getter.IsVoid() || !setter.IsVoid() {
		return model.KindMethod, false
	}

	gin, sin := getter.Inputs(), setter.Inputs()
	if len(sin) != len(gin)+1 {
		return model.KindMethod, false
	}

	for i, p := range gin {
		if !types.Identical(p.Type, sin[i].Type) {
			return model.KindMethod, false
		}
	}

	if !types.Identical(getter.Return, sin[len(sin)-1].Type) {
		return model.KindMethod, false
	}

	if len(gin) == 0 {
		return model.KindProperty, true
	}

	return model.KindIndexer, true
}

func eventPair(add, remove model.Signature) bool {
	if !add.IsVoid() || !remove.IsVoid() || !plainInputs(add) || !plainInputs(remove) {
		return false
	}

	ain, rin := add.Inputs(), remove.Inputs()

	return len(ain) == 1 && len(rin) == 1 && types.Identical(ain[0].Type, rin[0].Type)
}

// plainInputs reports whether every parameter is passed by value and the
// member has no out slots or variadic tail.
func plainInputs(s model.Signature) bool {
	if s.Variadic() || len(s.Outputs()) > 0 {
		return false
	}

	for _, p := range s.Inputs() {
		if p.Direction != model.DirectionIn {
			return false
		}
	}

	return true
}
