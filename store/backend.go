// Package store implements the insertion controller: it validates a new
// document's placement against the existing key space, shreds it, and
// commits the resulting entries and updated metadata atomically against a
// narrow ordered key/value backend.
package store

import "golang.org/x/xerrors"

// ErrBackend wraps a failure reported by the underlying key/value engine.
var ErrBackend = xerrors.New("store: backend error")

// ErrKeyNotFound is returned by Backend.Get when no value is stored for a key.
var ErrKeyNotFound = xerrors.New("store: key not found")

// Backend is the narrow ordered key/value surface the insertion controller
// depends on. It mirrors the handful of hive.go kvstore.KVStore methods this
// package actually calls, so that callers may supply a direct hive.go
// adapter, an in-memory test double, or any other ordered store without this
// package importing the full hive.go interface.
type Backend interface {
	// Get returns the value stored at key, or ErrKeyNotFound.
	Get(key []byte) ([]byte, error)
	// Iterate calls fn for every key sharing prefix, in ascending
	// lexicographic key order, until fn returns false or the range is
	// exhausted.
	Iterate(prefix []byte, fn func(key, value []byte) bool) error
	// Batched opens a new write batch.
	Batched() (Batch, error)
}

// Batch accumulates writes for atomic commit.
type Batch interface {
	Set(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}
