// Package driver runs the generator end to end: it loads packages, discovers
// candidates, synthesizes stand-ins in parallel and writes them, as
// configured by internal/config. The CLI is a thin layer over it.
package driver
