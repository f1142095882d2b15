package standin

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrNotGenerated is returned when no stand-in was generated for a target type list.
var ErrNotGenerated = errors.New("standin: stand-in not generated")

// StandIn is implemented by every generated stand-in. It exposes the ordered
// behavior pipeline of the instance for inspection and mutation.
type StandIn interface {
	StandInPipeline() *Pipeline
}

// Viewer is implemented by stand-ins that satisfy some target interfaces
// only through qualified views.
type Viewer interface {
	StandInView(t reflect.Type) (any, bool)
}

// Factory creates a stand-in seeded with behaviors.
type Factory func(behaviors ...Behavior) StandIn

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: make(map[string]Factory)}

// Register makes factory available for the ordered target types. Generated
// code calls it from init.
func Register(factory Factory, types ...reflect.Type) {
	registry.Lock()
	defer registry.Unlock()

	registry.factories[Key(types...)] = factory
}

// Key returns the registry key of an ordered target type list.
func Key(types ...reflect.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = TypeID(t)
	}

	return strings.Join(parts, ",")
}

// TypeID returns "import/path.Name" for named types and the type string otherwise.
func TypeID(t reflect.Type) string {
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}

// New creates a stand-in for the ordered target types.
func New(types []reflect.Type, behaviors ...Behavior) (StandIn, error) {
	registry.RLock()
	factory, ok := registry.factories[Key(types...)]
	registry.RUnlock()

	if !ok {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNotGenerated, "[%s]", Key(types...)),
			"run standin-generator on the package calling standin.Of")
	}

	return factory(behaviors...), nil
}

// Of creates a stand-in for interface T.
//
//standin:generator
func Of[T any](behaviors ...Behavior) T {
	return create[T]([]reflect.Type{reflect.TypeFor[T]()}, behaviors)
}

// Of2 creates a stand-in implementing T and U, returned as T.
//
//standin:generator
func Of2[T, U any](behaviors ...Behavior) T {
	return create[T]([]reflect.Type{reflect.TypeFor[T](), reflect.TypeFor[U]()}, behaviors)
}

// Of3 creates a stand-in implementing T, U and V, returned as T.
//
//standin:generator
func Of3[T, U, V any](behaviors ...Behavior) T {
	return create[T]([]reflect.Type{reflect.TypeFor[T](), reflect.TypeFor[U](), reflect.TypeFor[V]()}, behaviors)
}

func create[T any](types []reflect.Type, behaviors []Behavior) T {
	s, err := New(types, behaviors...)
	if err != nil {
		panic(err)
	}

	if v, ok := s.(T); ok {
		return v
	}

	if viewer, ok := s.(Viewer); ok {
		if v, ok := viewer.StandInView(reflect.TypeFor[T]()); ok {
			if t, ok := v.(T); ok {
				return t
			}
		}
	}

	panic(fmt.Sprintf("standin: %T does not implement %s; use the generated constructor", s, reflect.TypeFor[T]()))
}

// PipelineOf returns the pipeline of a stand-in, or nil for other values.
func PipelineOf(v any) *Pipeline {
	if s, ok := v.(StandIn); ok {
		return s.StandInPipeline()
	}

	return nil
}
