package standin

import "reflect"

// DefaultFunc synthesizes the result of an invocation no behavior produced.
type DefaultFunc func(inv *Invocation) *Result

// Invocation describes one call to an intercepted member.
type Invocation struct {
	// Target is the stand-in receiving the call.
	Target any
	// Member is the descriptor of the called member.
	Member *Member
	// Arguments holds the input, ref and out slots.
	Arguments *Arguments

	defaults DefaultFunc
}

// NewInvocation creates the descriptor for a call to member on target.
func NewInvocation(target any, member *Member, args ...Arg) *Invocation {
	return &Invocation{
		Target:    target,
		Member:    member,
		Arguments: NewArguments(args...),
	}
}

// WithDefault replaces the default-result synthesizer and returns inv.
func (inv *Invocation) WithDefault(fn DefaultFunc) *Invocation {
	inv.defaults = fn

	return inv
}

// Default runs the default-result synthesizer. Without a custom one it
// produces zero values for the return value and keeps ref/out slots as they are.
func (inv *Invocation) Default() *Result {
	if inv.defaults != nil {
		if r := inv.defaults(inv); r != nil {
			return r
		}
	}

	return ZeroResult(inv)
}

// Return creates a handled result with the given return value and the
// current ref/out slots.
func (inv *Invocation) Return(value any) *Result {
	return &Result{
		ReturnValue: value,
		Outputs:     inv.Arguments.Outputs(),
		Handled:     true,
	}
}

// Void creates a handled result for members without a return value.
func (inv *Invocation) Void() *Result {
	return inv.Return(nil)
}

// ZeroResult produces the zero value of the member's return type and copies
// the ref/out slots unchanged. Nil interfaces, pointers, slices and maps come
// back as nil.
func ZeroResult(inv *Invocation) *Result {
	var ret any
	if inv.Member != nil && inv.Member.Return != nil {
		ret = reflect.Zero(inv.Member.Return).Interface()
	}

	return &Result{
		ReturnValue: ret,
		Outputs:     inv.Arguments.Outputs(),
	}
}

// Value returns the named argument slot of inv converted to T.
// Missing slots yield the zero value.
func Value[T any](inv *Invocation, name string) T {
	v, _ := inv.Arguments.Get(name)

	return coerce[T](v)
}
