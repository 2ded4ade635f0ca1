// Package repository stores and loads seat assignments.  Two stores share
// the same record shape: a line-oriented text file and a MySQL table.
// The sentinel errors below let callers tell a damaged store apart from
// an I/O failure.
package repository

import "errors"

// ErrMalformedRecord is returned when a persisted record cannot be
// parsed or cannot be written in the line format.
var ErrMalformedRecord = errors.New("malformed record")

// ErrConflict is returned when a save cannot replace the stored set,
// for example when the table row count does not match what was written.
var ErrConflict = errors.New("conflict")
