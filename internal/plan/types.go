package plan

import "standin-generator/internal/diagnostic"

// Plan is the composition outcome of a run.
type Plan struct {
	StandIns    []StandIn              `yaml:"standIns"`
	Diagnostics diagnostic.Diagnostics `yaml:"-"`
}

// StandIn is one distinct stand-in type.
type StandIn struct {
	Name     string   `yaml:"name"`
	FileName string   `yaml:"file"`
	Targets  []string `yaml:"targets"`
	// Positions lists every request site of the target set, in candidate order.
	Positions []string `yaml:"positions,omitempty"`
	// Valid is false when composition failed; Members is empty then.
	Valid   bool     `yaml:"valid"`
	Members []Member `yaml:"members,omitempty"`
}

// Member describes one composed member.
type Member struct {
	Name       string   `yaml:"name"`
	Signature  string   `yaml:"signature"`
	Kind       string   `yaml:"kind"`
	Accessor   string   `yaml:"accessor,omitempty"`
	Property   string   `yaml:"property,omitempty"`
	Owner      string   `yaml:"owner"`
	Implements []string `yaml:"implements,flow"`
	FromBase   bool     `yaml:"fromBase,omitempty"`
	Abstract   bool     `yaml:"abstract,omitempty"`
	Qualified  bool     `yaml:"qualified,omitempty"`
}

// Find returns the stand-in with the given name.
func (p *Plan) Find(name string) (*StandIn, bool) {
	for i := range p.StandIns {
		if p.StandIns[i].Name == name {
			return &p.StandIns[i], true
		}
	}

	return nil, false
}
