// Package naming derives stand-in type and file names from target type sets.
//
// Names are a pure, order-sensitive function of the ordered target types:
// swapping two interfaces yields a different name. Callers that want one
// stand-in per unordered combination must supply a canonical order.
package naming
