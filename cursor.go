package hashtable

// Cursor is a position in a map's iteration order: either a live record or
// the end of the sequence. It is a small comparable value; cursors from the
// same map compare equal exactly when they sit on the same record (or both
// at the end), so `m.Find(k) == m.End()` tests absence.
//
// A cursor holds an arena index, not a pointer, so unrelated inserts,
// deletes and capacity growth leave it valid and on the same record. Only
// deleting the record the cursor sits on, or Clear, invalidates it; using
// an invalidated cursor is undefined and may observe a reused slot.
type Cursor[K comparable, V any] struct {
	m   *Map[K, V]
	idx int32
}

// First returns a cursor on the most recently inserted record, or End()
// when the map is empty.
func (m *Map[K, V]) First() Cursor[K, V] {
	if m.size == 0 {
		return m.End()
	}
	return Cursor[K, V]{m: m, idx: m.head}
}

// End returns the cursor one past the last record. It is the sentinel
// Find returns for absent keys and Next returns when the walk is done; it
// has no record and must not be dereferenced.
func (m *Map[K, V]) End() Cursor[K, V] {
	return Cursor[K, V]{m: m, idx: noIdx}
}

// Find returns a cursor on the record for key, or End() when absent.
func (m *Map[K, V]) Find(key K) Cursor[K, V] {
	return Cursor[K, V]{m: m, idx: m.lookup(key)}
}

// Valid reports whether the cursor sits on a record.
func (c Cursor[K, V]) Valid() bool {
	return c.m != nil && c.idx != noIdx
}

func (c Cursor[K, V]) rec() *record[K, V] {
	if !c.Valid() {
		panic("hashtable: dereference of invalid cursor")
	}
	return &c.m.records[c.idx]
}

// Next returns the cursor on the next record in iteration order, which is
// the next older insertion. It panics at the end of the sequence.
func (c Cursor[K, V]) Next() Cursor[K, V] {
	return Cursor[K, V]{m: c.m, idx: c.rec().next}
}

// Key returns the record's key.
func (c Cursor[K, V]) Key() K {
	return c.rec().key
}

// Value returns the record's value.
func (c Cursor[K, V]) Value() V {
	return c.rec().value
}

// SetValue overwrites the record's value in place; later lookups of the
// key observe it. The key itself is immutable for the record's lifetime.
func (c Cursor[K, V]) SetValue(value V) {
	c.rec().value = value
}
