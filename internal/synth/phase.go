package synth

import "standin-generator/internal/common"

// Phase orders the stages of a synthesis pipeline.
type Phase int

const (
	// Prepare injects scaffolding needed before structural synthesis, such as imports.
	Prepare Phase = iota
	// Scaffold produces the type skeleton with stub member bodies.
	Scaffold
	// Rewrite replaces stub bodies with delegation to the behavior pipeline.
	Rewrite
	// Fixup finishes the payload without changing signatures or behavior.
	Fixup
)

// Phases lists every phase in execution order.
var Phases = []Phase{Prepare, Scaffold, Rewrite, Fixup}

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Prepare:
		return "prepare"
	case Scaffold:
		return "scaffold"
	case Rewrite:
		return "rewrite"
	case Fixup:
		return "fixup"
	default:
		return common.UnknownStr
	}
}

// ParsePhase parses a phase name as returned by String.
func ParsePhase(s string) (Phase, bool) {
	for _, p := range Phases {
		if p.String() == s {
			return p, true
		}
	}

	return 0, false
}

// Language identifies a target language of the generated source.
type Language string

// Go is the only language with built-in stages.
const Go Language = "go"
