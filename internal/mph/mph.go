// Package mph builds and queries a minimal perfect hash table over a
// finite, known-in-advance set of byte-string keys.
//
// The construction follows the classic "hash, displace, and compress"
// shape (Belazzougui/Botelho/Dietzfelbinger-style CHD): keys are bucketed
// by a first-level hash, buckets are placed into the final table largest
// first, and each bucket searches for a displacement seed that avoids
// every slot already claimed by an earlier bucket. No library in the
// reference set implements minimal perfect hashing, so this is original
// code behind the narrow Build/Hash interface the caller expects.
package mph

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// maxSeedAttempts bounds how many displacement seeds a single bucket may
// try before the whole table is rebuilt at a larger size.
const maxSeedAttempts = 1 << 16

// maxGrowAttempts bounds how many times the table size may be scaled up
// after a run of failed displacements.
const maxGrowAttempts = 8

// avgBucketLoad is the target average number of keys per intermediate
// bucket; smaller values shrink the seed table at the cost of a larger
// final table.
const avgBucketLoad = 4

// Table is a built minimal perfect hash over a fixed key set.
type Table struct {
	buckets uint32   // BucketsNumber, m
	rows    uint32   // number of intermediate buckets, r
	seeds   []uint32 // displacement seed per intermediate bucket
}

// Build constructs a Table over keys. Keys must be distinct; behavior for
// duplicate keys is undefined (the caller is expected to de-duplicate,
// which the n-gram accumulator already guarantees by construction).
func Build(keys [][]byte) (*Table, error) {
	n := len(keys)
	if n == 0 {
		return &Table{buckets: 0, rows: 0, seeds: nil}, nil
	}

	m := uint32(n)
	for attempt := 0; attempt < maxGrowAttempts; attempt++ {
		t, ok := tryBuild(keys, m)
		if ok {
			return t, nil
		}
		m = m + m/2 + 1
	}
	return nil, fmt.Errorf("mph: failed to build table for %d keys after %d grow attempts", n, maxGrowAttempts)
}

func tryBuild(keys [][]byte, m uint32) (*Table, bool) {
	n := uint32(len(keys))
	r := n/avgBucketLoad + 1

	rowOf := make([]uint32, n)
	rowSize := make([]uint32, r)
	for i, k := range keys {
		row := uint32(xxhash.Sum64(k) % uint64(r))
		rowOf[i] = row
		rowSize[row]++
	}

	rowKeys := make([][]int, r)
	for i, row := range rowOf {
		rowKeys[row] = append(rowKeys[row], i)
	}

	order := make([]uint32, r)
	for i := range order {
		order[i] = uint32(i)
	}
	sort.Slice(order, func(a, b int) bool {
		return len(rowKeys[order[a]]) > len(rowKeys[order[b]])
	})

	occupied := make([]bool, m)
	seeds := make([]uint32, r)
	positions := make([]uint32, 0, avgBucketLoad*2)

	for _, row := range order {
		members := rowKeys[row]
		if len(members) == 0 {
			continue
		}

		found := false
		for seed := uint32(0); seed < maxSeedAttempts; seed++ {
			positions = positions[:0]
			ok := true
			for _, idx := range members {
				pos := displace(keys[idx], seed, m)
				if occupied[pos] {
					ok = false
					break
				}
				dup := false
				for _, p := range positions {
					if p == pos {
						dup = true
						break
					}
				}
				if dup {
					ok = false
					break
				}
				positions = append(positions, pos)
			}
			if ok {
				for _, pos := range positions {
					occupied[pos] = true
				}
				seeds[row] = seed
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}

	return &Table{buckets: m, rows: r, seeds: seeds}, true
}

// displace computes the candidate slot for key under displacement seed.
func displace(key []byte, seed uint32, m uint32) uint32 {
	var seedBytes [4]byte
	binary.LittleEndian.PutUint32(seedBytes[:], seed)
	d := xxhash.New()
	d.Write(key)
	d.Write(seedBytes[:])
	return uint32(d.Sum64() % uint64(m))
}

// Hash returns key's bucket. For keys in the set Build was called with,
// this is unique and within [0, BucketsNumber). For any other key it
// returns some value in range with no further guarantee — the caller's
// fingerprint is what detects a foreign key.
func (t *Table) Hash(key []byte) uint32 {
	if t.rows == 0 {
		return 0
	}
	row := uint32(xxhash.Sum64(key) % uint64(t.rows))
	seed := t.seeds[row]
	return displace(key, seed, t.buckets)
}

// BucketsNumber returns m, the size of the table's addressable range.
func (t *Table) BucketsNumber() uint32 {
	return t.buckets
}

// MarshalBinary encodes the table's seed structure for embedding in the
// model file's opaque perfect-hash block.
func (t *Table) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8+4*len(t.seeds))
	binary.LittleEndian.PutUint32(buf[0:4], t.buckets)
	binary.LittleEndian.PutUint32(buf[4:8], t.rows)
	for i, s := range t.seeds {
		binary.LittleEndian.PutUint32(buf[8+4*i:12+4*i], s)
	}
	return buf, nil
}

// UnmarshalBinary decodes a table previously written by MarshalBinary.
func (t *Table) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("mph: truncated table header (%d bytes)", len(data))
	}
	buckets := binary.LittleEndian.Uint32(data[0:4])
	rows := binary.LittleEndian.Uint32(data[4:8])
	want := 8 + 4*int(rows)
	if len(data) < want {
		return fmt.Errorf("mph: truncated table body: have %d bytes, want %d", len(data), want)
	}
	seeds := make([]uint32, rows)
	for i := range seeds {
		seeds[i] = binary.LittleEndian.Uint32(data[8+4*i : 12+4*i])
	}
	t.buckets = buckets
	t.rows = rows
	t.seeds = seeds
	return nil
}
