// Package chd implements a CHD (Compress, Hash and Displace) perfect-hash
// dictionary: a read-only mapping from unique string keys to values of any
// type, built once and offering exact-match lookup in O(1) worst case.
//
// Grounded on dnv/vista/sdk/ChdDictionary.inl and ChdDictionary.cpp: the
// bucket-sort-and-displace construction, the seed mixing function, and the
// negative-sentinel encoding for singleton buckets are all reproduced
// byte-for-byte from that reference.
package chd

import (
	"sort"

	"github.com/333fps/vista-sdk/pkg/viserr"
)

// seedSearchBudgetFactor bounds the seed search: construction fails once a
// bucket's seed search exceeds tableSize * seedSearchBudgetFactor attempts.
const seedSearchBudgetFactor = 100

// Entry is one (key, value) input to Dictionary construction.
type Entry[V any] struct {
	Key   string
	Value V
}

type slot[V any] struct {
	key   string
	value V
	used  bool
}

// Dictionary is an immutable perfect-hash map from string to V.
type Dictionary[V any] struct {
	table []slot[V]
	seeds []int64
	size  uint32 // table size N, a power of two
}

// BuildStats reports seed-search effort per multi-item bucket, for metrics.
type BuildStats struct {
	SeedIterationsPerBucket []int
}

// New constructs a Dictionary from a set of entries. Entries must be
// non-empty, have non-empty keys, and have unique keys.
func New[V any](entries []Entry[V]) (*Dictionary[V], *BuildStats, error) {
	if len(entries) == 0 {
		return nil, nil, viserr.New(viserr.InvalidInput, "chd: no entries supplied")
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			return nil, nil, viserr.New(viserr.InvalidInput, "chd: empty key is not permitted")
		}
		if _, dup := seen[e.Key]; dup {
			return nil, nil, viserr.Newf(viserr.InvalidInput, "chd: duplicate key %q", e.Key)
		}
		seen[e.Key] = struct{}{}
	}

	n := tableSize(len(entries))

	type keyHash struct {
		key  string
		val  V
		hash uint32
	}
	buckets := make(map[uint32][]keyHash, n)
	for _, e := range entries {
		h := hashBytes(e.Key)
		idx := h & (n - 1)
		buckets[idx] = append(buckets[idx], keyHash{key: e.Key, val: e.Value, hash: h})
	}

	bucketIndices := make([]uint32, 0, len(buckets))
	for idx := range buckets {
		bucketIndices = append(bucketIndices, idx)
	}
	sort.Slice(bucketIndices, func(i, j int) bool {
		si, sj := len(buckets[bucketIndices[i]]), len(buckets[bucketIndices[j]])
		if si != sj {
			return si > sj
		}
		return bucketIndices[i] < bucketIndices[j]
	})

	table := make([]slot[V], n)
	seeds := make([]int64, n)
	stats := &BuildStats{}

	var singletons []uint32

	budget := int64(n) * seedSearchBudgetFactor

	for _, idx := range bucketIndices {
		items := buckets[idx]
		if len(items) == 1 {
			singletons = append(singletons, idx)
			continue
		}

		found := false
		var iterations int
		for s := int64(1); s <= budget; s++ {
			iterations++
			taken := make(map[uint32]struct{}, len(items))
			collision := false
			for _, item := range items {
				final := mix(s, item.hash, n)
				if _, occupied := taken[final]; occupied || table[final].used {
					collision = true
					break
				}
				taken[final] = struct{}{}
			}
			if collision {
				continue
			}

			for _, item := range items {
				final := mix(s, item.hash, n)
				table[final] = slot[V]{key: item.key, value: item.val, used: true}
			}
			seeds[idx] = s
			found = true
			break
		}
		stats.SeedIterationsPerBucket = append(stats.SeedIterationsPerBucket, iterations)

		if !found {
			return nil, nil, viserr.Newf(viserr.ConstructionFailure,
				"chd: seed search exceeded budget of %d for bucket %d (%d keys)", budget, idx, len(items))
		}
	}

	freeSlot := 0
	for _, idx := range singletons {
		for freeSlot < int(n) && table[freeSlot].used {
			freeSlot++
		}
		if freeSlot >= int(n) {
			return nil, nil, viserr.New(viserr.ConstructionFailure, "chd: no free slot remaining for singleton bucket")
		}
		item := buckets[idx][0]
		table[freeSlot] = slot[V]{key: item.key, value: item.val, used: true}
		seeds[idx] = -(int64(freeSlot) + 1)
		freeSlot++
	}

	return &Dictionary[V]{table: table, seeds: seeds, size: n}, stats, nil
}

// Get returns the value for key, or a KeyNotFound error.
func (d *Dictionary[V]) Get(key string) (V, error) {
	v, ok := d.TryGet(key)
	if !ok {
		var zero V
		return zero, viserr.Newf(viserr.KeyNotFound, "chd: key %q not found", key)
	}
	return v, nil
}

// TryGet returns the value for key and whether it was found.
func (d *Dictionary[V]) TryGet(key string) (V, bool) {
	var zero V
	if key == "" || d.size == 0 {
		return zero, false
	}
	h := hashBytes(key)
	idx0 := h & (d.size - 1)
	s := d.seeds[idx0]

	var final uint32
	if s < 0 {
		final = uint32(-s - 1)
	} else {
		final = mix(s, h, d.size)
	}

	e := d.table[final]
	if !e.used || e.key != key {
		return zero, false
	}
	return e.value, true
}

// Len returns the number of occupied slots (i.e. the number of entries).
func (d *Dictionary[V]) Len() int {
	n := 0
	for _, s := range d.table {
		if s.used {
			n++
		}
	}
	return n
}

// All calls fn for every (key, value) pair in internal slot order, skipping
// empty slots. The order is stable across runs of an identical input but is
// otherwise an implementation detail of the table layout.
func (d *Dictionary[V]) All(fn func(key string, value V) bool) {
	for _, s := range d.table {
		if !s.used {
			continue
		}
		if !fn(s.key, s.value) {
			return
		}
	}
}

// tableSize returns N = 2 * nextPow2(n), a power of two >= 2n.
func tableSize(n int) uint32 {
	p := uint32(1)
	for p < uint32(n) {
		p <<= 1
	}
	return p * 2
}

// mix is the CHD seed-mixing function: deterministic across implementations.
func mix(seed int64, h uint32, n uint32) uint32 {
	x := uint32(seed) + h
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	return uint32((uint64(x) * 0x2545F4914F6CDD1D) & uint64(n-1))
}
