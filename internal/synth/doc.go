// Package synth runs the phased synthesis pipeline that turns a target type
// set into a generated stand-in type.
//
// A pipeline run proceeds as follows:
//   - compose the member set and derive the stand-in name
//   - create the empty payload with the language's SyntaxFactory
//   - run the Prepare, Scaffold, Rewrite and Fixup stages in phase order,
//     then registration order
//   - fall back to the language's Scaffolder when no Scaffold stage is registered
//   - emit the payload as source
//
// Run processes independent target sets in parallel and emits each distinct
// stand-in name exactly once.
package synth
