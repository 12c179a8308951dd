package hashtable

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrKeyNotFound is returned by At for keys that have no record.
var ErrKeyNotFound = errors.New("hashtable: key not found")

const (
	// minCapacity is the bucket count a table starts with on first use.
	minCapacity = 1

	// noIdx marks a missing record index: list ends, an exhausted free
	// list, the end cursor.
	noIdx int32 = -1
)

// record is one arena slot: a key-value pair threaded through the
// insertion-order list. Freed slots reuse next as the free-list link and
// hold zeroed keys and values so the arena retains no references.
type record[K comparable, V any] struct {
	key   K
	value V
	prev  int32
	next  int32
}

// Map is a hash table that buckets keys by separate chaining and keeps
// records in insertion order, most recently inserted first.
//
// Records live in a contiguous arena and are addressed by index, not by
// pointer: the bucket chains, the insertion-order links and cursors all
// hold arena indices, so growing the arena or rebuilding the bucket index
// never moves or invalidates a record. Freed slots are recycled through a
// free list before the arena grows.
//
// Key features of hashtable.Map:
//   - Implements zero-value usability for convenient initialization
//   - Provides lazy initialization for better performance
//   - Defaults to Go's built-in hash function, customizable on creation
//   - Insert never overwrites a resident value; Ref inserts the zero
//     value on first access, like indexing a Go map does
//   - Iteration order is defined and stable: most recently inserted first
//   - Includes functional extensions such as LoadOrStore, LoadAndDelete,
//     Cursor, Clone, ToMap/FromMap, Grow and Stats
//
// The bucket count is always a power of two, starting at 1, and doubles
// whenever the record count reaches it, rebucketing every record by its
// recomputed hash. It never decreases; Clear keeps it.
//
// A Map must not be copied after first use: use Clone or CloneTo.
//
// Map is not safe for concurrent use. A Map shared between goroutines
// needs external locking for writes; read-only access needs none.
type Map[K comparable, V any] struct {
	noCopy noCopy

	hash HashFunc[K]

	// records is the arena. Indices, not pointers, are the long-lived
	// references: they survive append reallocation and bucket rebuilds.
	records []record[K, V]

	// buckets is the index: len(buckets) is the capacity, a power of
	// two, so hash&(len-1) is exactly hash%len. Chains are unordered
	// sets of arena indices.
	buckets [][]int32

	head    int32 // most recently inserted record, noIdx when empty
	free    int32 // first free arena slot, noIdx when none
	size    int
	growths uint32
}

// Entry is a key-value pair for bulk construction.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// NewMap creates a new Map instance. Direct initialization is also
// supported: the zero value is an empty map ready to use.
//
// Parameters:
//   - WithCapacity option for initial capacity
//   - WithHasher option for a custom hash function
func NewMap[K comparable, V any](options ...func(*MapConfig)) *Map[K, V] {
	m := &Map[K, V]{}
	m.configure(options)
	return m
}

// NewMapFromEntries creates a Map holding the given entries, inserted in
// order. When a key occurs more than once, the first occurrence wins and
// later duplicates are skipped.
func NewMapFromEntries[K comparable, V any](entries []Entry[K, V], options ...func(*MapConfig)) *Map[K, V] {
	m := NewMap[K, V](options...)
	m.Grow(len(entries))
	for i := range entries {
		m.insert(entries[i].Key, entries[i].Value)
	}
	return m
}

// NewMapFromSeq creates a Map from a key-value sequence, with the same
// first-wins semantics as NewMapFromEntries. Any iter.Seq2[K, V] value can
// be passed directly on Go 1.23 and later.
func NewMapFromSeq[K comparable, V any](seq func(yield func(K, V) bool), options ...func(*MapConfig)) *Map[K, V] {
	m := NewMap[K, V](options...)
	seq(func(key K, value V) bool {
		m.insert(key, value)
		return true
	})
	return m
}

// initSlow allocates the bucket index and fixes the hash function. Called
// once, on construction or on the first mutating use of a zero-value Map.
func (m *Map[K, V]) initSlow(capacity int) {
	if m.hash == nil {
		m.hash = defaultHasher[K]()
	}
	if capacity < minCapacity {
		capacity = minCapacity
	}
	m.buckets = make([][]int32, capacity)
	m.head = noIdx
	m.free = noIdx
}

func (m *Map[K, V]) bucketOf(key K) int {
	return int(m.hash(key) & uint64(len(m.buckets)-1))
}

// lookup returns the arena index of the record for key, or noIdx.
func (m *Map[K, V]) lookup(key K) int32 {
	if m.size == 0 {
		return noIdx
	}
	for _, idx := range m.buckets[m.bucketOf(key)] {
		if m.records[idx].key == key {
			return idx
		}
	}
	return noIdx
}

// alloc places a record in a free arena slot, appending one if none is
// free, and links it at the head of the insertion-order list.
func (m *Map[K, V]) alloc(key K, value V) int32 {
	var idx int32
	r := record[K, V]{key: key, value: value, prev: noIdx, next: m.head}
	if m.free != noIdx {
		idx = m.free
		m.free = m.records[idx].next
		m.records[idx] = r
	} else {
		idx = int32(len(m.records))
		m.records = append(m.records, r)
	}
	if m.head != noIdx {
		m.records[m.head].prev = idx
	}
	m.head = idx
	return idx
}

// insert is the write primitive behind Insert, LoadOrStore, Ref and the
// bulk constructors: it stores value under key unless a record already
// exists, and reports the record's index and whether it was created.
func (m *Map[K, V]) insert(key K, value V) (int32, bool) {
	if m.buckets == nil {
		m.initSlow(minCapacity)
	}
	b := m.bucketOf(key)
	for _, idx := range m.buckets[b] {
		if m.records[idx].key == key {
			return idx, false
		}
	}
	idx := m.alloc(key, value)
	m.size++
	if m.size >= len(m.buckets) {
		m.rehash(len(m.buckets) << 1)
	} else {
		m.buckets[b] = append(m.buckets[b], idx)
	}
	return idx, true
}

// rehash rebuilds the bucket index at the given capacity, rebucketing
// every record by a hash recomputed from its key. The arena, the record
// order and all record indices are untouched.
func (m *Map[K, V]) rehash(capacity int) {
	buckets := make([][]int32, capacity)
	mask := uint64(capacity - 1)
	for idx := m.head; idx != noIdx; idx = m.records[idx].next {
		b := m.hash(m.records[idx].key) & mask
		buckets[b] = append(buckets[b], idx)
	}
	m.buckets = buckets
	m.growths++
}

// unlink removes r from the insertion-order list, fixing its neighbors.
func (m *Map[K, V]) unlink(r *record[K, V]) {
	if r.prev != noIdx {
		m.records[r.prev].next = r.next
	} else {
		m.head = r.next
	}
	if r.next != noIdx {
		m.records[r.next].prev = r.prev
	}
}

// Load returns the value stored for key. The ok result reports whether a
// record was present.
func (m *Map[K, V]) Load(key K) (value V, ok bool) {
	idx := m.lookup(key)
	if idx == noIdx {
		return
	}
	return m.records[idx].value, true
}

// HasKey reports whether key has a record.
func (m *Map[K, V]) HasKey(key K) bool {
	return m.lookup(key) != noIdx
}

// At returns the value stored for key, or ErrKeyNotFound when absent. It
// is the checked, never-inserting counterpart of Ref.
func (m *Map[K, V]) At(key K) (V, error) {
	idx := m.lookup(key)
	if idx == noIdx {
		var zero V
		return zero, ErrKeyNotFound
	}
	return m.records[idx].value, nil
}

// Insert stores value under key if no record exists yet. A resident value
// is never overwritten.
//
// Parameters:
//   - key: the key to insert
//   - value: the value to store if key has no record
//
// Returns:
//   - inserted: true if a record was created, false if key was present
func (m *Map[K, V]) Insert(key K, value V) bool {
	_, inserted := m.insert(key, value)
	return inserted
}

// LoadOrStore returns the existing value for the key if present.
// Otherwise, it stores and returns the given value. The loaded result is
// true if the value was loaded, false if stored.
func (m *Map[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	idx, inserted := m.insert(key, value)
	return m.records[idx].value, !inserted
}

// Ref returns a pointer to the value stored for key, inserting a record
// with the zero value first when the key is absent. Reads and writes
// through the pointer are seen by all later lookups.
//
// The pointer stays valid until the next insert into the map, which may
// grow the arena and relocate values; erasing other keys does not move it.
func (m *Map[K, V]) Ref(key K) *V {
	var zero V
	idx, _ := m.insert(key, zero)
	return &m.records[idx].value
}

// Delete removes the record for key. Absent keys are a no-op.
func (m *Map[K, V]) Delete(key K) {
	m.LoadAndDelete(key)
}

// LoadAndDelete deletes the record for key, returning the previous value
// if any. The loaded result reports whether the key was present.
func (m *Map[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	if m.size == 0 {
		return
	}
	b := m.bucketOf(key)
	chain := m.buckets[b]
	for i, idx := range chain {
		r := &m.records[idx]
		if r.key != key {
			continue
		}
		// Chains are unordered, so swap-remove erases in O(1) once found.
		chain[i] = chain[len(chain)-1]
		m.buckets[b] = chain[:len(chain)-1]
		m.unlink(r)
		value = r.value
		*r = record[K, V]{prev: noIdx, next: m.free}
		m.free = idx
		m.size--
		return value, true
	}
	return
}

// Clear removes all records. The bucket capacity is kept, so a cleared map
// reinserts without growing; the arena is released to the collector.
func (m *Map[K, V]) Clear() {
	if m.buckets == nil {
		return
	}
	for i := range m.buckets {
		m.buckets[i] = nil
	}
	m.records = nil
	m.head = noIdx
	m.free = noIdx
	m.size = 0
}

// Size returns the number of records in the map.
// This is an O(1) operation.
func (m *Map[K, V]) Size() int {
	return m.size
}

// IsZero reports whether the map holds no records.
func (m *Map[K, V]) IsZero() bool {
	return m.size == 0
}

// Capacity returns the current bucket count: 0 before first use, then a
// power of two that doubles on growth and never decreases.
func (m *Map[K, V]) Capacity() int {
	return len(m.buckets)
}

// Hasher returns the hash function the map buckets with, fixing the
// default if none was configured yet.
func (m *Map[K, V]) Hasher() HashFunc[K] {
	if m.hash == nil {
		m.hash = defaultHasher[K]()
	}
	return m.hash
}

// Grow pre-allocates bucket capacity for sizeAdd additional records, so
// inserting that many more keys triggers no intermediate rehash. The
// capacity never shrinks back. If sizeAdd is zero or negative, the call is
// ignored.
func (m *Map[K, V]) Grow(sizeAdd int) {
	if sizeAdd <= 0 {
		return
	}
	// Growth triggers the moment size reaches capacity, so the target
	// stays strictly above the final size.
	target := nextPowOf2(m.size + sizeAdd + 1)
	if m.buckets == nil {
		m.initSlow(target)
		return
	}
	if target > len(m.buckets) {
		m.rehash(target)
	}
}

// Range calls yield for each record, most recently inserted first, until
// yield returns false.
//
// The record yield currently holds may be deleted from inside yield; any
// other mutation must wait until the walk ends.
func (m *Map[K, V]) Range(yield func(key K, value V) bool) {
	if m.size == 0 {
		return
	}
	for idx := m.head; idx != noIdx; {
		r := &m.records[idx]
		key, value, next := r.key, r.value, r.next
		if !yield(key, value) {
			return
		}
		idx = next
	}
}

// All returns an iterator over the map in Range order, usable directly in
// a for-range statement on Go 1.23 and later.
func (m *Map[K, V]) All() func(yield func(K, V) bool) {
	return m.Range
}

// Keys returns an iterator over the keys, in Range order.
func (m *Map[K, V]) Keys() func(yield func(K) bool) {
	return func(yield func(K) bool) {
		m.Range(func(key K, _ V) bool {
			return yield(key)
		})
	}
}

// Values returns an iterator over the values, in Range order.
func (m *Map[K, V]) Values() func(yield func(V) bool) {
	return func(yield func(V) bool) {
		m.Range(func(_ K, value V) bool {
			return yield(value)
		})
	}
}

// ToMap collects all records into a map[K]V.
func (m *Map[K, V]) ToMap() map[K]V {
	a := make(map[K]V, m.size)
	m.Range(func(key K, value V) bool {
		a[key] = value
		return true
	})
	return a
}

// FromMap inserts key-value pairs from a standard Go map. Keys already
// present keep their resident values.
func (m *Map[K, V]) FromMap(source map[K]V) {
	if len(source) == 0 {
		return
	}
	m.Grow(len(source))
	for k, v := range source {
		m.insert(k, v)
	}
}

// Clone returns an independent copy of the map: same records, same
// iteration order, same hash function. Mutating either side never touches
// the other.
func (m *Map[K, V]) Clone() *Map[K, V] {
	clone := &Map[K, V]{}
	m.CloneTo(clone)
	return clone
}

// CloneTo replaces dst's contents with a copy of m, adopting m's hash
// function and capacity. Cloning a map onto itself leaves it unchanged.
func (m *Map[K, V]) CloneTo(dst *Map[K, V]) {
	if m == dst {
		return
	}
	dst.hash = m.hash
	dst.records = nil
	dst.buckets = nil
	if len(m.records) > 0 {
		dst.records = make([]record[K, V], len(m.records))
		copy(dst.records, m.records)
	}
	if m.buckets != nil {
		dst.buckets = make([][]int32, len(m.buckets))
		for i, chain := range m.buckets {
			if len(chain) > 0 {
				dst.buckets[i] = append([]int32(nil), chain...)
			}
		}
	}
	dst.head = m.head
	dst.free = m.free
	dst.size = m.size
	dst.growths = m.growths
}

// String implements fmt.Stringer, printing records in Range order.
func (m *Map[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("Map[")
	first := true
	m.Range(func(key K, value V) bool {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%v:%v", key, value)
		return true
	})
	sb.WriteByte(']')
	return sb.String()
}

// Stats returns statistics for the Map. It is an O(N) operation, meant
// for diagnostics or debugging purposes.
func (m *Map[K, V]) Stats() *MapStats {
	stats := &MapStats{
		Capacity:     len(m.buckets),
		Size:         m.size,
		ArenaLen:     len(m.records),
		FreeSlots:    len(m.records) - m.size,
		TotalGrowths: m.growths,
	}
	if m.buckets == nil {
		return stats
	}
	stats.MinChain = math.MaxInt
	for _, chain := range m.buckets {
		if len(chain) == 0 {
			stats.EmptyBuckets++
		}
		if len(chain) < stats.MinChain {
			stats.MinChain = len(chain)
		}
		if len(chain) > stats.MaxChain {
			stats.MaxChain = len(chain)
		}
	}
	return stats
}

// MapStats is Map statistics.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Capacity is the bucket count.
	Capacity int
	// Size is the number of live records.
	Size int
	// EmptyBuckets is the number of buckets that hold no records.
	EmptyBuckets int
	// MinChain is the shortest bucket chain length.
	MinChain int
	// MaxChain is the longest bucket chain length.
	MaxChain int
	// ArenaLen is the record arena length: live records plus free slots.
	ArenaLen int
	// FreeSlots is the number of arena slots awaiting reuse.
	FreeSlots int
	// TotalGrowths is the number of times the bucket index was rebuilt
	// at a larger capacity.
	TotalGrowths uint32
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Capacity:     %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("Size:         %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("EmptyBuckets: %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("MinChain:     %d\n", s.MinChain))
	sb.WriteString(fmt.Sprintf("MaxChain:     %d\n", s.MaxChain))
	sb.WriteString(fmt.Sprintf("ArenaLen:     %d\n", s.ArenaLen))
	sb.WriteString(fmt.Sprintf("FreeSlots:    %d\n", s.FreeSlots))
	sb.WriteString(fmt.Sprintf("TotalGrowths: %d\n", s.TotalGrowths))
	sb.WriteString("}\n")
	return sb.String()
}
