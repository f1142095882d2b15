package plan

import (
	"fmt"
	"go/types"

	"standin-generator/internal/compose"
	"standin-generator/internal/diagnostic"
	"standin-generator/internal/model"
	"standin-generator/internal/naming"
	"standin-generator/internal/synth"
)

// Build composes every distinct target set of candidates, in candidate order.
func Build(candidates []synth.Candidate, conv naming.Convention, composer compose.Composer) *Plan {
	if conv == nil {
		conv = naming.Simple{}
	}

	plan := &Plan{StandIns: []StandIn{}}
	owners := make(map[string]string)
	index := make(map[string]int)

	for _, c := range candidates {
		name := conv.Name(c.Targets)
		key := c.Targets.Key()

		if owner, ok := owners[name]; ok {
			if owner != key {
				plan.Diagnostics.Add(diagnostic.Diagnostic{
					Severity:    diagnostic.DiagnosticError,
					Code:        diagnostic.CodeNameCollision,
					Message:     fmt.Sprintf("name %s is already used by target set [%s]", name, owner),
					TargetSet:   c.Targets.String(),
					Position:    c.Position,
					Suggestions: []string{"use the hashed naming convention"},
				})

				continue
			}

			si := &plan.StandIns[index[name]]
			si.Positions = append(si.Positions, c.Position)

			continue
		}

		owners[name] = key
		index[name] = len(plan.StandIns)
		plan.StandIns = append(plan.StandIns, plan.standIn(name, c, composer))
	}

	return plan
}

func (p *Plan) standIn(name string, c synth.Candidate, composer compose.Composer) StandIn {
	si := StandIn{
		Name:     name,
		FileName: naming.FileName(name),
		Targets:  targetIDs(c.Targets),
	}

	if c.Position != "" {
		si.Positions = []string{c.Position}
	}

	members, err := composer.Compose(c.Targets)
	if err != nil {
		for _, v := range composer.Validate(c.Targets) {
			d := v.Diagnostic(c.Targets)
			d.Position = c.Position
			p.Diagnostics.Add(d)
		}

		return si
	}

	si.Valid = true
	si.Members = make([]Member, len(members))

	for i, m := range members {
		si.Members[i] = memberOf(m)
	}

	return si
}

func targetIDs(set model.TargetTypeSet) []string {
	ids := make([]string, len(set))
	for i, t := range set {
		ids[i] = t.ID()
	}

	return ids
}

func memberOf(m model.GeneratedMember) Member {
	out := Member{
		Name:       m.Name,
		Signature:  m.Format(func(p *types.Package) string { return p.Name() }),
		Kind:       m.Kind.String(),
		Property:   m.Property,
		Owner:      m.Provenance.ID(),
		Implements: m.Implementers(),
		FromBase:   m.FromBase,
		Abstract:   m.Abstract,
		Qualified:  m.Qualified,
	}

	if m.Kind != model.KindMethod {
		out.Accessor = m.Accessor.String()
	}

	return out
}
