// Package model describes the members a stand-in must implement.
//
// Values are built from go/types symbols and are immutable once created.
//
// Key types:
//   - TargetType / TargetTypeSet: the ordered base and interface types of one request
//   - Signature: kind, accessor, parameters with direction and return type of a member
//   - GeneratedMember: a signature plus its provenance and qualification
package model
