package hashtable

import (
	"github.com/dolthub/maphash"
	"github.com/spaolacci/murmur3"
)

// HashFunc computes the 64-bit hash a key buckets by. Bucket selection is
// hash(key) mod capacity, recomputed from the key on every use, so the
// function must stay deterministic while the map holds records: equal keys
// hash equal. It does not need to be collision-free; chains absorb
// collisions at O(chain) cost.
type HashFunc[K comparable] func(key K) uint64

// defaultHasher returns a HashFunc backed by the runtime's native hash for
// K, randomly seeded per map like the built-in map is per process.
func defaultHasher[K comparable]() HashFunc[K] {
	hasher := maphash.NewHasher[K]()
	return hasher.Hash
}

// StringHasher returns a deterministic HashFunc for string keys: murmur3
// with the given seed. Unlike the default hasher, equal seeds produce equal
// hashes across maps, processes and runs, so bucket layouts are
// reproducible.
func StringHasher(seed uint32) HashFunc[string] {
	return func(key string) uint64 {
		return murmur3.Sum64WithSeed([]byte(key), seed)
	}
}
