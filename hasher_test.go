package hashtable

import (
	"reflect"
	"strconv"
	"testing"
)

func TestStringHasherDeterministic(t *testing.T) {
	a := StringHasher(42)
	b := StringHasher(42)
	for _, key := range []string{"", "a", "foobar", "longer key with spaces"} {
		if a(key) != b(key) {
			t.Fatalf("equal seeds must hash %q equal", key)
		}
	}
	c := StringHasher(43)
	diff := 0
	for _, key := range testData {
		if a(key) != c(key) {
			diff++
		}
	}
	if diff == 0 {
		t.Fatal("different seeds were expected to change hashes")
	}
}

func TestStringHasherReproducibleLayout(t *testing.T) {
	build := func() *Map[string, int] {
		m := NewMap[string, int](WithHasher(StringHasher(42)))
		for i := 0; i < 500; i++ {
			m.Insert(strconv.Itoa(i), i)
		}
		return m
	}
	// The same seed and insert sequence produce identical bucket layouts.
	s1, s2 := build().Stats(), build().Stats()
	if !reflect.DeepEqual(s1, s2) {
		t.Fatalf("layouts diverged:\n%svs\n%s", s1.ToString(), s2.ToString())
	}
}

func TestDefaultHasherDistribution(t *testing.T) {
	const numEntries = 1000
	m := NewMap[int, int]()
	for i := 0; i < numEntries; i++ {
		m.Insert(i, i)
	}
	stats := m.Stats()
	// The runtime hash spreads sequential keys well; a long chain means
	// bucket selection is broken.
	if stats.MaxChain > 32 {
		t.Fatalf("max chain of %d is far beyond a sane distribution", stats.MaxChain)
	}
	if stats.EmptyBuckets == stats.Capacity {
		t.Fatal("records landed nowhere")
	}
}

func TestDefaultHasherEqualKeysEqualHash(t *testing.T) {
	h := defaultHasher[string]()
	if h("foo") != h("foo") {
		t.Fatal("equal keys must hash equal")
	}
	hp := defaultHasher[point]()
	if hp(point{1, 2}) != hp(point{1, 2}) {
		t.Fatal("equal struct keys must hash equal")
	}
}
