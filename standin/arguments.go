package standin

// Arg is one named argument slot of an invocation.
type Arg struct {
	Name      string
	Direction Direction
	Value     any
}

// In creates a by-value argument.
func In(name string, value any) Arg {
	return Arg{Name: name, Direction: DirectionIn, Value: value}
}

// Ref creates a ref argument holding the current value behind p.
// A nil pointer yields the zero value of T.
func Ref[T any](name string, p *T) Arg {
	var value T
	if p != nil {
		value = *p
	}

	return Arg{Name: name, Direction: DirectionRef, Value: value}
}

// Out creates an out argument initialized to the zero value of T.
func Out[T any](name string) Arg {
	var value T

	return Arg{Name: name, Direction: DirectionOut, Value: value}
}

// Arguments is an ordered collection of named argument slots.
// Every slot is independently settable by name.
type Arguments struct {
	items []Arg
	index map[string]int
}

// NewArguments creates an argument collection preserving the given order.
func NewArguments(args ...Arg) *Arguments {
	a := &Arguments{
		items: make([]Arg, len(args)),
		index: make(map[string]int, len(args)),
	}

	copy(a.items, args)

	for i, arg := range a.items {
		a.index[arg.Name] = i
	}

	return a
}

// Len returns the number of slots.
func (a *Arguments) Len() int {
	if a == nil {
		return 0
	}

	return len(a.items)
}

// At returns the slot at position i.
func (a *Arguments) At(i int) Arg {
	return a.items[i]
}

// Get returns the value of the named slot.
func (a *Arguments) Get(name string) (any, bool) {
	if a == nil {
		return nil, false
	}

	i, ok := a.index[name]
	if !ok {
		return nil, false
	}

	return a.items[i].Value, true
}

// Set replaces the value of the named slot. It reports false for unknown names.
func (a *Arguments) Set(name string, value any) bool {
	if a == nil {
		return false
	}

	i, ok := a.index[name]
	if !ok {
		return false
	}

	a.items[i].Value = value

	return true
}

// Names returns the slot names in order.
func (a *Arguments) Names() []string {
	names := make([]string, 0, a.Len())
	for i := range a.Len() {
		names = append(names, a.items[i].Name)
	}

	return names
}

// Values returns the slot values in order.
func (a *Arguments) Values() []any {
	values := make([]any, 0, a.Len())
	for i := range a.Len() {
		values = append(values, a.items[i].Value)
	}

	return values
}

// Inputs returns the values of the by-value and ref slots, in order.
func (a *Arguments) Inputs() []any {
	var values []any

	for i := range a.Len() {
		if a.items[i].Direction != DirectionOut {
			values = append(values, a.items[i].Value)
		}
	}

	return values
}

// Clone returns an independent copy.
func (a *Arguments) Clone() *Arguments {
	if a == nil {
		return NewArguments()
	}

	return NewArguments(a.items...)
}

// Outputs returns a copy holding only the ref and out slots.
func (a *Arguments) Outputs() *Arguments {
	var outs []Arg

	for i := range a.Len() {
		if a.items[i].Direction != DirectionIn {
			outs = append(outs, a.items[i])
		}
	}

	return NewArguments(outs...)
}
