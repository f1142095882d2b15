// Package standin is the runtime support imported by generated stand-in types.
//
// Every member of a generated stand-in describes its call as an Invocation and
// hands it to the Pipeline owned by the instance. The pipeline runs the
// registered behaviors in order and falls back to a default result when none
// of them produces one.
//
// Key types:
//   - Member: descriptor of one intercepted member (kind, accessor, parameters)
//   - Invocation: per-call descriptor (receiver, member, argument slots)
//   - Result: return value, ref/out outputs and whether a behavior handled the call
//   - Behavior: interceptor participating in the chain
//   - Pipeline: ordered behavior list attached to a stand-in instance
//
// Generated code registers a factory per target type set, so tests can obtain
// instances through Of, Of2, Of3 or New without naming the generated type.
package standin
