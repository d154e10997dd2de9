package db

import "errors"

var (
	// ErrKeyNotFound is returned when a document or value does not exist.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrIndexNotFound is returned by searches against a missing FT index.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists is returned when FT.CREATE races another creator.
	ErrIndexExists = errors.New("db: index already exists")
)

// Command names recorded on Error.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpJSONSet     = "JSON.SET"
	OpJSONGet     = "JSON.GET"
	OpGet         = "GET"
	OpSet         = "SET"
)

// Error records which command failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
