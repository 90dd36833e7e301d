// Package types defines the public data model of dirkit: the Archive
// interface, the records it produces, typed errors, open options, limits,
// and diagnostics.
//
// The reader itself lives in internal/reader; construct archives through
// pkg/director.
//
// Design goals:
//   - Every read re-derives its structures from the archive bytes.
//   - Returned payloads are copies and outlive the archive.
//   - Paranoid bounds checking; never panic on malformed input.
//   - Typed errors with stable categories; isolated resource failures are
//     reported as diagnostics instead of failing the whole read.
package types
