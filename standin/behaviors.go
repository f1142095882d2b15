package standin

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// funcBehavior adapts plain functions to Behavior.
type funcBehavior struct {
	applies func(m *Member) bool
	invoke  func(inv *Invocation, next Next) *Result
}

func (f *funcBehavior) AppliesTo(m *Member) bool {
	if f.applies == nil {
		return true
	}

	return f.applies(m)
}

func (f *funcBehavior) Invoke(inv *Invocation, next Next) *Result {
	return f.invoke(inv, next)
}

// Func creates a behavior from functions. A nil applies matches every member.
func Func(applies func(m *Member) bool, invoke func(inv *Invocation, next Next) *Result) Behavior {
	return &funcBehavior{applies: applies, invoke: invoke}
}

// Named matches members by method name.
func Named(name string) func(m *Member) bool {
	return func(m *Member) bool {
		return m.Name == name
	}
}

// Returns answers every call to the named member with value.
func Returns(name string, value any) Behavior {
	return Func(Named(name), func(inv *Invocation, _ Next) *Result {
		return inv.Return(value)
	})
}

// DefaultValue produces zero-value results for every member. It marks the
// result as handled, unlike the pipeline's implicit fallback.
func DefaultValue() Behavior {
	return Func(nil, func(inv *Invocation, _ Next) *Result {
		r := inv.Default()
		r.Handled = true

		return r
	})
}

// Call is one invocation observed by a Recorder.
type Call struct {
	Invocation *Invocation
	Result     *Result
}

// Recorder records every invocation passing through it, after the rest of the
// chain has produced the result.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// AppliesTo matches every member.
func (r *Recorder) AppliesTo(*Member) bool { return true }

// Invoke delegates and records the outcome.
func (r *Recorder) Invoke(inv *Invocation, next Next) *Result {
	res := next(inv)

	r.mu.Lock()
	r.calls = append(r.calls, Call{Invocation: inv, Result: res})
	r.mu.Unlock()

	return res
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Call(nil), r.calls...)
}

// Count returns how many calls reached the named member.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0

	for _, c := range r.calls {
		if c.Invocation.Member.Name == name {
			n++
		}
	}

	return n
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

// PropertyStore remembers values assigned through property and indexer
// setters and answers the matching getters. Getters for values never set fall
// through to the rest of the chain.
type PropertyStore struct {
	mu     sync.Mutex
	values map[string]any
}

// NewPropertyStore creates an empty PropertyStore.
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{values: make(map[string]any)}
}

// AppliesTo matches property and indexer accessors.
func (s *PropertyStore) AppliesTo(m *Member) bool {
	return m.Kind == KindProperty || m.Kind == KindIndexer
}

// Invoke stores on set and answers on get.
func (s *PropertyStore) Invoke(inv *Invocation, next Next) *Result {
	inputs := inv.Arguments.Inputs()

	switch inv.Member.Accessor {
	case AccessorSet:
		if len(inputs) == 0 {
			return next(inv)
		}

		key := propertyKey(inv.Member.Property, inputs[:len(inputs)-1])

		s.mu.Lock()
		s.values[key] = inputs[len(inputs)-1]
		s.mu.Unlock()

		return inv.Void()

	case AccessorGet:
		key := propertyKey(inv.Member.Property, inputs)

		s.mu.Lock()
		v, ok := s.values[key]
		s.mu.Unlock()

		if ok {
			return inv.Return(v)
		}
	}

	return next(inv)
}

// Value returns the stored value of a property, or of an indexer entry when
// index values are given.
func (s *PropertyStore) Value(property string, index ...any) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[propertyKey(property, index)]

	return v, ok
}

func propertyKey(property string, index []any) string {
	if len(index) == 0 {
		return property
	}

	return fmt.Sprintf("%s%v", property, index)
}

// EventStore keeps the handlers subscribed through event accessors so tests
// can raise them.
type EventStore struct {
	mu       sync.Mutex
	handlers map[string][]any
}

// NewEventStore creates an empty EventStore.
func NewEventStore() *EventStore {
	return &EventStore{handlers: make(map[string][]any)}
}

// AppliesTo matches event accessors.
func (s *EventStore) AppliesTo(m *Member) bool {
	return m.Kind == KindEvent
}

// Invoke adds or removes the handler argument.
func (s *EventStore) Invoke(inv *Invocation, next Next) *Result {
	inputs := inv.Arguments.Inputs()
	if len(inputs) != 1 {
		return next(inv)
	}

	event := inv.Member.Property
	handler := inputs[0]

	s.mu.Lock()
	defer s.mu.Unlock()

	switch inv.Member.Accessor {
	case AccessorAdd:
		s.handlers[event] = append(s.handlers[event], handler)
	case AccessorRemove:
		list := s.handlers[event]
		for i, h := range list {
			if sameHandler(h, handler) {
				s.handlers[event] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	default:
		return next(inv)
	}

	return inv.Void()
}

// Handlers returns the handlers currently subscribed to event.
func (s *EventStore) Handlers(event string) []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]any(nil), s.handlers[event]...)
}

// Raise calls every function handler of event with args.
func (s *EventStore) Raise(event string, args ...any) {
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}

	for _, h := range s.Handlers(event) {
		fn := reflect.ValueOf(h)
		if fn.Kind() == reflect.Func && !fn.IsNil() {
			fn.Call(in)
		}
	}
}

func sameHandler(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}

	if va.IsValid() && vb.IsValid() && va.Type() == vb.Type() && va.Type().Comparable() {
		return a == b
	}

	return false
}

// Logging logs every invocation and its result at debug level. A nil logger
// discards the entries.
func Logging(logger *zap.Logger) Behavior {
	if logger == nil {
		logger = zap.NewNop()
	}

	return Func(nil, func(inv *Invocation, next Next) *Result {
		res := next(inv)

		logger.Debug("stand-in invocation",
			zap.String("member", inv.Member.String()),
			zap.String("owner", inv.Member.Owner),
			zap.Any("args", inv.Arguments.Inputs()),
			zap.Any("return", res.ReturnValue),
			zap.Bool("handled", res.Handled),
		)

		return res
	})
}
