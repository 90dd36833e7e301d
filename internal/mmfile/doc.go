// Package mmfile loads archive files for the reader. On unix the file is
// mapped read-only; elsewhere it is read into memory. Either way the caller
// gets the bytes plus a release function that must be called once the bytes
// are no longer referenced.
package mmfile
