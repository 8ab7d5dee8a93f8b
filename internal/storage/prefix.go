package storage

// PrefixKV wraps a KV and prepends a fixed prefix to all keys.
// This isolates ledger and bank data within one transaction or database.
type PrefixKV struct {
	inner  KV
	prefix []byte
}

// NewPrefixKV creates a PrefixKV wrapping inner with the given prefix.
func NewPrefixKV(inner KV, prefix []byte) *PrefixKV {
	return &PrefixKV{inner: inner, prefix: cloneBytes(prefix)}
}

func (p *PrefixKV) prefixed(key []byte) []byte {
	out := make([]byte, len(p.prefix)+len(key))
	copy(out, p.prefix)
	copy(out[len(p.prefix):], key)
	return out
}

// Get retrieves a value by key.
func (p *PrefixKV) Get(key []byte) ([]byte, error) {
	return p.inner.Get(p.prefixed(key))
}

// Put stores a key-value pair.
func (p *PrefixKV) Put(key, value []byte) error {
	return p.inner.Put(p.prefixed(key), value)
}

// Delete removes a key.
func (p *PrefixKV) Delete(key []byte) error {
	return p.inner.Delete(p.prefixed(key))
}

// Has checks if a key exists.
func (p *PrefixKV) Has(key []byte) (bool, error) {
	return p.inner.Has(p.prefixed(key))
}

// ForEach iterates over keys with the given prefix inside the namespace.
// The callback receives keys with the namespace prefix stripped.
func (p *PrefixKV) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return p.inner.ForEach(p.prefixed(prefix), func(key, value []byte) error {
		return fn(key[len(p.prefix):], value)
	})
}
