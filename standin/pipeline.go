package standin

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Next continues an invocation with the remaining applicable behaviors.
type Next func(inv *Invocation) *Result

// Behavior is an interceptor participating in the invocation chain.
//
// Invoke may inspect or modify the invocation, produce a result itself or
// delegate to next. Returning nil delegates as well: the result of the last
// call to next is used, or the rest of the chain runs if next was not called.
type Behavior interface {
	AppliesTo(m *Member) bool
	Invoke(inv *Invocation, next Next) *Result
}

// Pipeline is the ordered behavior list attached to a stand-in instance.
//
// Execution traverses an immutable snapshot of the list, so concurrent calls
// are safe. Mutations are serialized and published as a new snapshot; callers
// that need a consistent view across several mutations should finish
// configuring the pipeline before it is shared.
type Pipeline struct {
	mu        sync.Mutex
	behaviors atomic.Pointer[[]Behavior]
}

// NewPipeline creates a pipeline running the given behaviors in order.
func NewPipeline(behaviors ...Behavior) *Pipeline {
	p := &Pipeline{}
	p.publish(append([]Behavior(nil), behaviors...))

	return p
}

func (p *Pipeline) publish(list []Behavior) {
	p.behaviors.Store(&list)
}

func (p *Pipeline) snapshot() []Behavior {
	if p == nil {
		return nil
	}

	if list := p.behaviors.Load(); list != nil {
		return *list
	}

	return nil
}

// Behaviors returns a copy of the registered behaviors in order.
func (p *Pipeline) Behaviors() []Behavior {
	return append([]Behavior(nil), p.snapshot()...)
}

// Len returns the number of registered behaviors.
func (p *Pipeline) Len() int {
	return len(p.snapshot())
}

// Add appends behaviors to the end of the list.
func (p *Pipeline) Add(behaviors ...Behavior) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := append(p.Behaviors(), behaviors...)
	p.publish(next)

	return p
}

// Insert places b at position i, clamped to the list bounds.
func (p *Pipeline) Insert(i int, b Behavior) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.snapshot()
	i = max(0, min(i, len(current)))

	next := make([]Behavior, 0, len(current)+1)
	next = append(next, current[:i]...)
	next = append(next, b)
	next = append(next, current[i:]...)
	p.publish(next)

	return p
}

// RemoveAt removes the behavior at position i.
func (p *Pipeline) RemoveAt(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.snapshot()
	if i < 0 || i >= len(current) {
		return false
	}

	next := make([]Behavior, 0, len(current)-1)
	next = append(next, current[:i]...)
	next = append(next, current[i+1:]...)
	p.publish(next)

	return true
}

// Remove removes the first behavior equal to b. Behaviors whose dynamic type
// is not comparable can only be removed by position.
func (p *Pipeline) Remove(b Behavior) bool {
	if b == nil || !reflect.TypeOf(b).Comparable() {
		return false
	}

	for i, existing := range p.snapshot() {
		if reflect.TypeOf(existing).Comparable() && existing == b {
			return p.RemoveAt(i)
		}
	}

	return false
}

// Clear removes every behavior.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.publish(nil)
}

// Execute runs inv through the applicable behaviors in registration order.
// When none of them produces a result the invocation's default synthesizer
// does, and the result is reported as not handled. A nil pipeline has no
// behaviors.
func (p *Pipeline) Execute(inv *Invocation) *Result {
	c := chain{behaviors: p.snapshot()}

	return c.invoke(inv, 0)
}

type chain struct {
	behaviors []Behavior
}

func (c chain) invoke(inv *Invocation, from int) *Result {
	for i := from; i < len(c.behaviors); i++ {
		b := c.behaviors[i]
		if !b.AppliesTo(inv.Member) {
			continue
		}

		var (
			called bool
			rest   *Result
		)

		next := func(inv *Invocation) *Result {
			called = true
			rest = c.invoke(inv, i+1)

			return rest
		}

		if r := b.Invoke(inv, next); r != nil {
			return r
		}

		if called {
			return rest
		}

		return next(inv)
	}

	r := inv.Default()
	r.Handled = false

	return r
}
