package benchmark

import (
	"runtime"
	"testing"

	"github.com/alphadose/haxmap"
	"github.com/llxisdsh/pb"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zhangyunhao116/skipmap"

	hashtable "github.com/ProfessorLayton322/hash-table"
)

func Test_MemoryFootprint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping memory test in short mode")
	}

	const numItems = 1000

	{
		var m1, m2 runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&m1)

		m := hashtable.NewMap[int, int]()

		for i := range numItems {
			m.Insert(i, i)
		}

		runtime.ReadMemStats(&m2)

		peak := max(int64(m2.Alloc)-int64(m1.Alloc), 0)

		t.Logf("hashtable_Map memory usage: %d bytes, items: %d", peak, m.Size())
	}

	{
		var m1, m2 runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&m1)

		m := hashtable.NewMap[int, int](hashtable.WithCapacity(numItems))

		for i := range numItems {
			m.Insert(i, i)
		}

		runtime.ReadMemStats(&m2)

		peak := max(int64(m2.Alloc)-int64(m1.Alloc), 0)

		t.Logf(
			"hashtable_Map_presized memory usage: %d bytes, items: %d",
			peak,
			m.Size(),
		)
	}

	{
		var m1, m2 runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&m1)

		m := make(map[int]int)

		for i := range numItems {
			m[i] = i
		}

		runtime.ReadMemStats(&m2)
		peak := max(int64(m2.Alloc)-int64(m1.Alloc), 0)

		t.Logf("map memory usage: %d bytes, items: %d", peak, len(m))
	}

	{
		var m1, m2 runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&m1)

		m := pb.NewMapOf[int, int]()

		for i := range numItems {
			m.Store(i, i)
		}

		runtime.ReadMemStats(&m2)

		peak := max(int64(m2.Alloc)-int64(m1.Alloc), 0)

		t.Logf("pb_MapOf memory usage: %d bytes, items: %d", peak, m.Size())
	}

	{
		var m1, m2 runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&m1)

		m := xsync.NewMap[int, int]()

		for i := range numItems {
			m.Store(i, i)
		}

		runtime.ReadMemStats(&m2)
		peak := max(int64(m2.Alloc)-int64(m1.Alloc), 0)

		t.Logf("xsync_MapV4 memory usage: %d bytes, items: %d", peak, m.Size())
	}

	{
		var m1, m2 runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&m1)

		m := haxmap.New[int, int]()

		for i := range numItems {
			m.Set(i, i)
		}

		runtime.ReadMemStats(&m2)
		peak := max(int64(m2.Alloc)-int64(m1.Alloc), 0)

		t.Logf("haxmap memory usage: %d bytes, items: %d", peak, m.Len())
	}

	{
		var m1, m2 runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&m1)

		m := skipmap.New[int, int]()

		for i := range numItems {
			m.Store(i, i)
		}

		runtime.ReadMemStats(&m2)
		peak := max(int64(m2.Alloc)-int64(m1.Alloc), 0)

		t.Logf("skipmap memory usage: %d bytes, items: %d", peak, m.Len())
	}
}
