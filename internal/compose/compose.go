package compose

import (
	"standin-generator/internal/model"
)

// entry is one member contribution of one target type.
type entry struct {
	pos    int
	target model.TargetType
	cand   candidate
	sig    model.Signature
}

// resolution describes what to emit for an entry.
type resolution struct {
	emit       bool
	qualified  bool
	implements []model.TargetType
}

// Compose validates set and returns the members the stand-in must implement,
// in order of first appearance: target types in input order, and each
// type's methods in go/types order. The first rule violation is returned
// as a *CompositionError.
//
// Members sharing a name are resolved as follows. A base type member wins:
// interface members identical to it collapse into it and the others are
// implemented on per-interface views. Without a base member, a single
// distinct signature yields one member implementing every owner, while
// several distinct signatures qualify every one of them.
func (c Composer) Compose(set model.TargetTypeSet) ([]model.GeneratedMember, error) {
	if errs := c.Validate(set); len(errs) > 0 {
		return nil, errs[0]
	}

	entries, byName := c.collect(set)
	plan := make([]resolution, len(entries))

	for _, group := range byName {
		resolveGroup(entries, group, plan)
	}

	members := make([]model.GeneratedMember, 0, len(entries))

	for i, e := range entries {
		r := plan[i]
		if !r.emit {
			continue
		}

		fromBase := !e.target.IsInterface()
		members = append(members, model.GeneratedMember{
			Signature:  e.sig,
			Method:     e.cand.fn,
			Provenance: e.target,
			Implements: r.implements,
			Origin:     e.cand.origin,
			FromBase:   fromBase,
			Abstract:   fromBase && e.cand.abstract,
			Qualified:  r.qualified,
		})
	}

	classify(members)

	return members, nil
}

// collect lists the member contributions of every target and groups their
// indices by member name.
func (c Composer) collect(set model.TargetTypeSet) ([]entry, map[string][]int) {
	var entries []entry

	byName := make(map[string][]int)

	for pos, t := range set {
		for _, cand := range c.emitted(t) {
			byName[cand.fn.Name()] = append(byName[cand.fn.Name()], len(entries))
			entries = append(entries, entry{
				pos:    pos,
				target: t,
				cand:   cand,
				sig:    model.NewSignature(cand.fn),
			})
		}
	}

	return entries, byName
}

// resolveGroup fills plan for the entries sharing one name. group holds
// entry indices in input order.
func resolveGroup(entries []entry, group []int, plan []resolution) {
	if len(group) == 1 {
		i := group[0]
		plan[i] = resolution{emit: true, implements: []model.TargetType{entries[i].target}}

		return
	}

	if base := entries[group[0]]; !base.target.IsInterface() {
		r := resolution{emit: true, implements: []model.TargetType{base.target}}

		for _, i := range group[1:] {
			if entries[i].sig.Identical(base.sig) {
				r.implements = append(r.implements, entries[i].target)
				continue
			}

			plan[i] = qualifiedResolution(entries[i])
		}

		plan[group[0]] = r

		return
	}

	first := entries[group[0]]
	for _, i := range group[1:] {
		if !entries[i].sig.Identical(first.sig) {
			for _, j := range group {
				plan[j] = qualifiedResolution(entries[j])
			}

			return
		}
	}

	r := resolution{emit: true}
	for _, i := range group {
		r.implements = append(r.implements, entries[i].target)
	}

	plan[group[0]] = r
}

func qualifiedResolution(e entry) resolution {
	return resolution{emit: true, qualified: true, implements: []model.TargetType{e.target}}
}
