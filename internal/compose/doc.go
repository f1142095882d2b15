// Package compose resolves the members a stand-in must implement.
//
// Compose is a pure function of the ordered target type set:
//   - Validate rejects sets the generator cannot serve, with a specific error kind
//   - the base type contributes the exported methods of its pointer method set
//   - interfaces contribute every declared or embedded method
//   - structurally identical members collapse into one
//   - base members win over compatible interface members
//   - incompatible members sharing a name become qualified, one per interface
//   - getter/setter and add/remove pairs are classified as properties,
//     indexers and events
//
// Input order is the tie-break for provenance and member order.
package compose
