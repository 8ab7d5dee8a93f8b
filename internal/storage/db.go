// Package storage provides key-value abstractions for the ledger: a
// database interface with memory and badger backends, atomic batches,
// key namespacing, staged transactions and append-only vectors.
package storage

import "errors"

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// KV is the read/write surface shared by databases, namespaces and
// transactions.
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
}

// DB is a KV that owns its resources.
type DB interface {
	KV
	Close() error
}

// Batch collects writes and applies them atomically on Commit.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// Batcher is implemented by databases that support atomic batches.
type Batcher interface {
	NewBatch() Batch
}

// batchOp is a single buffered batch write. A nil value means delete.
type batchOp struct {
	key   []byte
	value []byte
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
