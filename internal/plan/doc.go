// Package plan builds the composition plan of a run without emitting source.
//
// Planning pipeline:
//  1. Name every candidate with the naming convention
//  2. Collapse candidates with identical target type sets, report sets whose
//     names collide
//  3. Compose the members of every distinct set, reporting every rule
//     violation as a diagnostic
//
// The plan backs the check and inspect commands and can be exported as YAML
// or formatted as a human-readable report.
package plan
