package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrTxnClosed is returned when a committed or discarded Txn is used.
var ErrTxnClosed = errors.New("transaction closed")

// Txn stages writes over a DB. Reads see staged writes first; nothing
// reaches the database until Commit, which applies every staged write
// through one atomic Batch.
//
// A Txn is not safe for concurrent use.
type Txn struct {
	db     DB
	staged map[string][]byte // nil value marks a delete
	closed bool
}

// NewTxn opens a transaction over db. db must implement Batcher.
func NewTxn(db DB) (*Txn, error) {
	if _, ok := db.(Batcher); !ok {
		return nil, fmt.Errorf("storage: %T does not support batches", db)
	}
	return &Txn{db: db, staged: make(map[string][]byte)}, nil
}

// Get returns the staged value for key, falling back to the database.
func (t *Txn) Get(key []byte) ([]byte, error) {
	if t.closed {
		return nil, ErrTxnClosed
	}
	if v, ok := t.staged[string(key)]; ok {
		if v == nil {
			return nil, ErrKeyNotFound
		}
		return cloneBytes(v), nil
	}
	return t.db.Get(key)
}

// Put stages a write.
func (t *Txn) Put(key, value []byte) error {
	if t.closed {
		return ErrTxnClosed
	}
	if value == nil {
		value = []byte{}
	}
	t.staged[string(key)] = cloneBytes(value)
	return nil
}

// Delete stages a delete.
func (t *Txn) Delete(key []byte) error {
	if t.closed {
		return ErrTxnClosed
	}
	t.staged[string(key)] = nil
	return nil
}

// Has checks staged writes, then the database.
func (t *Txn) Has(key []byte) (bool, error) {
	if t.closed {
		return false, ErrTxnClosed
	}
	if v, ok := t.staged[string(key)]; ok {
		return v != nil, nil
	}
	return t.db.Has(key)
}

// ForEach iterates over the merged view of the database and staged
// writes, in key order.
func (t *Txn) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	if t.closed {
		return ErrTxnClosed
	}
	merged := make(map[string][]byte)
	err := t.db.ForEach(prefix, func(key, value []byte) error {
		merged[string(key)] = cloneBytes(value)
		return nil
	})
	if err != nil {
		return err
	}
	p := string(prefix)
	for k, v := range t.staged {
		if !strings.HasPrefix(k, p) {
			continue
		}
		if v == nil {
			delete(merged, k)
		} else {
			merged[k] = cloneBytes(v)
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), merged[k]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of staged writes and deletes.
func (t *Txn) Len() int {
	return len(t.staged)
}

// Commit applies all staged writes atomically and closes the Txn.
func (t *Txn) Commit() error {
	if t.closed {
		return ErrTxnClosed
	}
	t.closed = true
	if len(t.staged) == 0 {
		return nil
	}

	keys := make([]string, 0, len(t.staged))
	for k := range t.staged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	batch := t.db.(Batcher).NewBatch()
	for _, k := range keys {
		var err error
		if v := t.staged[k]; v == nil {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v)
		}
		if err != nil {
			return fmt.Errorf("stage %q: %w", k, err)
		}
	}
	t.staged = nil
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit txn: %w", err)
	}
	return nil
}

// Discard drops all staged writes. It is safe to call after Commit.
func (t *Txn) Discard() {
	t.closed = true
	t.staged = nil
}
