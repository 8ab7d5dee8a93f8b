package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Vector is an append-only list stored under a key prefix. The length
// lives at the prefix itself and element i at prefix || uint64be(i).
type Vector struct {
	kv     KV
	prefix []byte
}

// NewVector returns the vector stored under prefix in kv.
func NewVector(kv KV, prefix []byte) *Vector {
	return &Vector{kv: kv, prefix: cloneBytes(prefix)}
}

func (v *Vector) elemKey(i uint64) []byte {
	key := make([]byte, len(v.prefix)+8)
	copy(key, v.prefix)
	binary.BigEndian.PutUint64(key[len(v.prefix):], i)
	return key
}

// Len returns the number of elements. A vector that was never written
// has length zero.
func (v *Vector) Len() (uint64, error) {
	raw, err := v.kv.Get(v.prefix)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("vector len: %w", err)
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("vector len: corrupt length record (%d bytes)", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// Get returns element i.
func (v *Vector) Get(i uint64) ([]byte, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	if i >= n {
		return nil, fmt.Errorf("vector index %d out of range [0,%d)", i, n)
	}
	val, err := v.kv.Get(v.elemKey(i))
	if err != nil {
		return nil, fmt.Errorf("vector get %d: %w", i, err)
	}
	return val, nil
}

// Push appends value and returns its index.
func (v *Vector) Push(value []byte) (uint64, error) {
	n, err := v.Len()
	if err != nil {
		return 0, err
	}
	if err := v.kv.Put(v.elemKey(n), value); err != nil {
		return 0, fmt.Errorf("vector push: %w", err)
	}
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], n+1)
	if err := v.kv.Put(v.prefix, lenBuf[:]); err != nil {
		return 0, fmt.Errorf("vector push: %w", err)
	}
	return n, nil
}

// Each calls fn for every element in insertion order.
func (v *Vector) Each(fn func(i uint64, value []byte) error) error {
	n, err := v.Len()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		val, err := v.kv.Get(v.elemKey(i))
		if err != nil {
			return fmt.Errorf("vector get %d: %w", i, err)
		}
		if err := fn(i, val); err != nil {
			return err
		}
	}
	return nil
}

// Strings returns all elements as strings, in insertion order.
func (v *Vector) Strings() ([]string, error) {
	var out []string
	err := v.Each(func(_ uint64, value []byte) error {
		out = append(out, string(value))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// JoinKey builds a key from a tag and a sequence of parts. Each part is
// length-prefixed so distinct part lists never produce the same key.
func JoinKey(tag string, parts ...string) []byte {
	size := len(tag)
	for _, p := range parts {
		size += 4 + len(p)
	}
	key := make([]byte, 0, size)
	key = append(key, tag...)
	for _, p := range parts {
		key = binary.BigEndian.AppendUint32(key, uint32(len(p)))
		key = append(key, p...)
	}
	return key
}
