// Package diagnostic provides structured errors and warnings for the
// stand-in generator.
//
// Every composition or synthesis failure is reported as a Diagnostic with a
// stable code at the candidate's declaration site instead of aborting the run.
//
// Codes:
//   - ST001..ST005: target type set validation (base position, sealed, nested, pointers)
//   - ST006..ST009: additional validation (duplicates, open generics, access, reserved names)
//   - ST010..ST012: run-level failures (name collisions, unresolved types, failed stages)
package diagnostic
