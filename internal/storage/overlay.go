package storage

import "strings"

// Overlay stages writes on top of a base DB. Reads fall through to the
// base for keys the overlay has not touched. Commit applies the staged
// writes to the base in one batch; discarding the overlay instead
// leaves the base unchanged. An Overlay is not safe for concurrent use.
type Overlay struct {
	base    DB
	writes  map[string][]byte
	deletes map[string]struct{}
}

// NewOverlay creates an empty overlay on top of base.
func NewOverlay(base DB) *Overlay {
	return &Overlay{
		base:    base,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

// Get retrieves a value by key, preferring staged writes.
func (o *Overlay) Get(key []byte) ([]byte, error) {
	k := string(key)
	if _, ok := o.deletes[k]; ok {
		return nil, ErrKeyNotFound
	}
	if v, ok := o.writes[k]; ok {
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	}
	return o.base.Get(key)
}

// Put stages a key-value pair.
func (o *Overlay) Put(key, value []byte) error {
	k := string(key)
	delete(o.deletes, k)
	v := make([]byte, len(value))
	copy(v, value)
	o.writes[k] = v
	return nil
}

// Delete stages the removal of a key.
func (o *Overlay) Delete(key []byte) error {
	k := string(key)
	delete(o.writes, k)
	o.deletes[k] = struct{}{}
	return nil
}

// Has checks if a key exists, accounting for staged writes.
func (o *Overlay) Has(key []byte) (bool, error) {
	k := string(key)
	if _, ok := o.deletes[k]; ok {
		return false, nil
	}
	if _, ok := o.writes[k]; ok {
		return true, nil
	}
	return o.base.Has(key)
}

// ForEach iterates over the merged view of base and staged writes.
func (o *Overlay) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	err := o.base.ForEach(prefix, func(key, value []byte) error {
		k := string(key)
		if _, ok := o.deletes[k]; ok {
			return nil
		}
		if _, ok := o.writes[k]; ok {
			// Staged write shadows the base value; emitted below.
			return nil
		}
		return fn(key, value)
	})
	if err != nil {
		return err
	}

	p := string(prefix)
	for k, v := range o.writes {
		if !strings.HasPrefix(k, p) {
			continue
		}
		val := make([]byte, len(v))
		copy(val, v)
		if err := fn([]byte(k), val); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the number of staged operations.
func (o *Overlay) Size() int {
	return len(o.writes) + len(o.deletes)
}

// Commit applies the staged writes to the base, atomically when the
// base supports batching. The overlay is empty afterwards.
func (o *Overlay) Commit() error {
	if batcher, ok := o.base.(Batcher); ok {
		batch := batcher.NewBatch()
		for k, v := range o.writes {
			if err := batch.Put([]byte(k), v); err != nil {
				return err
			}
		}
		for k := range o.deletes {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
		}
		if err := batch.Commit(); err != nil {
			return err
		}
	} else {
		for k, v := range o.writes {
			if err := o.base.Put([]byte(k), v); err != nil {
				return err
			}
		}
		for k := range o.deletes {
			if err := o.base.Delete([]byte(k)); err != nil {
				return err
			}
		}
	}

	o.writes = make(map[string][]byte)
	o.deletes = make(map[string]struct{})
	return nil
}

// Close discards all staged writes. The base stays open.
func (o *Overlay) Close() error {
	o.writes = make(map[string][]byte)
	o.deletes = make(map[string]struct{})
	return nil
}
