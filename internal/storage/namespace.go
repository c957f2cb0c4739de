package storage

// Namespace wraps a DB so every key lives under a fixed component
// prefix. The ledger, registry, and archive share one database; each
// store wraps it in its own namespace so their key schemes cannot
// collide.
type Namespace struct {
	db     DB
	prefix []byte
}

// NewNamespace wraps db under the named component prefix.
func NewNamespace(db DB, component string) *Namespace {
	return &Namespace{db: db, prefix: append([]byte(component), '/')}
}

// key returns k qualified with the namespace prefix.
func (n *Namespace) key(k []byte) []byte {
	out := make([]byte, 0, len(n.prefix)+len(k))
	out = append(out, n.prefix...)
	return append(out, k...)
}

// Get retrieves a value by key.
func (n *Namespace) Get(key []byte) ([]byte, error) {
	return n.db.Get(n.key(key))
}

// Put stores a key-value pair.
func (n *Namespace) Put(key, value []byte) error {
	return n.db.Put(n.key(key), value)
}

// Delete removes a key.
func (n *Namespace) Delete(key []byte) error {
	return n.db.Delete(n.key(key))
}

// Has checks if a key exists.
func (n *Namespace) Has(key []byte) (bool, error) {
	return n.db.Has(n.key(key))
}

// ForEach iterates over all keys under prefix within the namespace.
// The callback sees keys with the namespace stripped, so stores keep
// their own key layout regardless of which namespace they run in.
func (n *Namespace) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return n.db.ForEach(n.key(prefix), func(key, value []byte) error {
		return fn(key[len(n.prefix):], value)
	})
}

// Close is a no-op; the namespace does not own the underlying DB.
func (n *Namespace) Close() error {
	return nil
}
