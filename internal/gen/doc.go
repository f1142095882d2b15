// Package gen is the Go language backend of the synthesis pipeline.
//
// Generation approach uses text/template + go/format for readable,
// deterministic Go code. The payload of a generated type is a *File holding
// the source and its parsed AST; stages edit the source and reparse.
//
// Stages:
//   - imports (prepare): imports the runtime and the target packages
//   - scaffold: struct embedding the base type, constructor, pipeline
//     accessor, per-interface views and panicking stub members
//   - delegate (rewrite): member bodies forwarding to the behavior pipeline,
//     the member table and the factory registration
//   - header, fiximports (fixup): generated-code header and unused import removal
package gen
