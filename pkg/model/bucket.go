package model

import (
	"sync"

	"github.com/spellcore/langmodel/internal/binio"
	"github.com/spellcore/langmodel/internal/codec"
	"github.com/spellcore/langmodel/internal/mph"
)

// bucket is a single (fingerprint, packed count) cell of the table, 4
// bytes regardless of the arity of the key that filled it.
type bucket struct {
	fingerprint uint16
	packed      uint16
}

// buckets is the fixed-size table addressed by the perfect hash.
type buckets struct {
	ph    *mph.Table
	cells []bucket
}

// keyBufPool hands out per-call scratch buffers for key serialization so
// that concurrent readers never share mutable state, per the design's
// concurrency note (no package-level static buffer).
var keyBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 128)
		return &b
	},
}

func getKeyBuf() *[]byte {
	return keyBufPool.Get().(*[]byte)
}

func putKeyBuf(b *[]byte) {
	keyBufPool.Put(b)
}

// fill writes one key's (fingerprint, packed count) into the bucket its
// perfect hash addresses. Every key must have been part of the set the
// table was built over; a bucket out of range is an internal invariant
// violation and panics, matching the design's "assert" on the training
// path.
func (bt *buckets) fill(key []byte, count uint64) {
	idx := bt.ph.Hash(key)
	if idx >= uint32(len(bt.cells)) {
		panic("model: perfect hash returned an out-of-range bucket during fill")
	}
	bt.cells[idx] = bucket{
		fingerprint: codec.Fingerprint(key),
		packed:      codec.PackCount(count),
	}
}

// lookup returns the estimated count for key, or 0 when the fingerprint
// stored in key's bucket does not match key's own. A foreign key whose
// fingerprint happens to match the occupant's gets that bucket's count;
// the scorer's C2 > C1 and C3 > C2 guards are what catch that case.
func (bt *buckets) lookup(key []byte) uint64 {
	if bt.ph == nil || len(bt.cells) == 0 {
		return 0
	}
	idx := bt.ph.Hash(key)
	if idx >= uint32(len(bt.cells)) {
		return 0
	}
	cell := bt.cells[idx]
	if cell.fingerprint != codec.Fingerprint(key) {
		return 0
	}
	return codec.UnpackCount(cell.packed)
}

// marshalBinary encodes the table as `vec<(u16,u16)> length-prefixed`.
func (bt *buckets) marshalBinary() []byte {
	buf := make([]byte, 0, 8+4*len(bt.cells))
	buf = binio.AppendUint64(buf, uint64(len(bt.cells)))
	for _, c := range bt.cells {
		buf = binio.AppendUint16(buf, c.fingerprint)
		buf = binio.AppendUint16(buf, c.packed)
	}
	return buf
}

func unmarshalBuckets(data []byte) (*buckets, []byte, error) {
	n, data, err := binio.ReadUint64(data)
	if err != nil {
		return nil, nil, err
	}
	cells := make([]bucket, n)
	for i := range cells {
		var fp, pk uint16
		fp, data, err = binio.ReadUint16(data)
		if err != nil {
			return nil, nil, err
		}
		pk, data, err = binio.ReadUint16(data)
		if err != nil {
			return nil, nil, err
		}
		cells[i] = bucket{fingerprint: fp, packed: pk}
	}
	return &buckets{cells: cells}, data, nil
}
