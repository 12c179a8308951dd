package hashtable

// MapConfig defines configurable options for Map initialization.
type MapConfig struct {
	// hasher holds a custom hash function for keys, type-erased so one
	// config type serves every key type. If nil, the built-in hash
	// function will be used.
	hasher any

	// capacity provides an estimate of the expected number of entries.
	// It is used to pre-allocate the bucket index, reducing rehashes
	// during initial population. If zero or negative, the default
	// minimum capacity will be used. The actual capacity is rounded up
	// to a power of 2.
	capacity int
}

// WithCapacity configures a new Map instance with capacity enough to hold
// cap entries without growing. The capacity is treated as the minimal
// capacity, meaning that the bucket index will never shrink to a smaller
// capacity. If cap is zero or negative, the value is ignored.
func WithCapacity(cap int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.capacity = cap
	}
}

// WithHasher sets a custom key hashing function for the map. It decides
// bucket placement for the lifetime of the map and must be deterministic:
// equal keys must keep hashing equal.
//
// The option must be built for the map's key type; a mismatch panics on
// construction.
//
// Usage:
//
//	// Deterministic bucketing across runs
//	m := NewMap[string, int](WithHasher(StringHasher(42)))
//
//	// Custom hasher for a struct key
//	m := NewMap[Point, string](WithHasher(func(p Point) uint64 {
//		return uint64(p.X)<<32 | uint64(uint32(p.Y))
//	}))
//
// Use cases:
//   - Reproducible layouts and deterministic tests
//   - Case-insensitive or normalized key hashing
//   - Performance tuning for known key distributions
func WithHasher[K comparable](hasher HashFunc[K]) func(*MapConfig) {
	return func(c *MapConfig) {
		if hasher != nil {
			c.hasher = hasher
		}
	}
}

// configure applies construction options and allocates the bucket index.
func (m *Map[K, V]) configure(options []func(*MapConfig)) {
	var cfg MapConfig
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.hasher != nil {
		hasher, ok := cfg.hasher.(HashFunc[K])
		if !ok {
			panic("hashtable: WithHasher option does not match the map key type")
		}
		m.hash = hasher
	}
	capacity := minCapacity
	if cfg.capacity > 0 {
		// Strictly above the hint: growth triggers when size reaches
		// capacity, so holding cap entries needs cap+1 buckets.
		capacity = nextPowOf2(cfg.capacity + 1)
	}
	m.initSlow(capacity)
}
