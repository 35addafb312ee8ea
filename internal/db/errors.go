package db

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by Get for a missing key.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrEmptyPrefix guards Purge against wiping the whole keyspace.
	ErrEmptyPrefix = errors.New("db: purge prefix is empty")
)

// Command names used as Error.Op.
const (
	OpPing   = "PING"
	OpGet    = "GET"
	OpSet    = "SET"
	OpScan   = "SCAN"
	OpUnlink = "UNLINK"
)

// Error carries the failed command.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }
