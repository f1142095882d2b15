package standin

import (
	"fmt"
	"reflect"
)

// Result is the outcome of running an invocation through a pipeline.
type Result struct {
	// ReturnValue is the value for the last result (nil for void members).
	ReturnValue any
	// Outputs holds the ref and out slots to write back.
	Outputs *Arguments
	// Handled reports whether a behavior produced the result.
	Handled bool
}

// Return converts the result's return value to T.
func Return[T any](r *Result) T {
	if r == nil {
		var zero T
		return zero
	}

	return coerce[T](r.ReturnValue)
}

// Output converts the named out slot to T. Missing slots yield the zero value.
func Output[T any](r *Result, name string) T {
	if r == nil {
		var zero T
		return zero
	}

	v, _ := r.Outputs.Get(name)

	return coerce[T](v)
}

// WriteRef stores the named ref slot through p. Nil pointers are left alone.
func WriteRef[T any](r *Result, name string, p *T) {
	if r == nil || p == nil {
		return
	}

	if v, ok := r.Outputs.Get(name); ok {
		*p = coerce[T](v)
	}
}

// coerce casts v to T, converting between numeric kinds and named types
// sharing an underlying type. Anything else panics.
func coerce[T any](v any) T {
	var zero T
	if v == nil {
		return zero
	}

	if t, ok := v.(T); ok {
		return t
	}

	target := reflect.TypeFor[T]()
	value := reflect.ValueOf(v)

	if convertible(value.Type(), target) {
		return value.Convert(target).Interface().(T)
	}

	panic(fmt.Sprintf("standin: cannot use %T as %s", v, target))
}

func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}

	if from.Kind() == to.Kind() {
		return true
	}

	return isNumber(from.Kind()) && isNumber(to.Kind())
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
