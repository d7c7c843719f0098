// Package vocab implements the bidirectional word span <-> id mapping
// used by the n-gram store (C4 in the design).
package vocab

import (
	"github.com/spellcore/langmodel/internal/binio"
	"github.com/spellcore/langmodel/internal/codec"
)

// UnknownID is the sentinel id for words absent from a vocabulary.
const UnknownID = codec.UnknownWordID

// Vocabulary is a bidirectional mapping between words and dense integer
// ids assigned in insertion order. The reverse side is never compacted:
// once a slot is allocated it is valid until the vocabulary is discarded,
// even if the corresponding forward entry is later pruned.
type Vocabulary struct {
	forward map[string]uint32
	reverse []string
}

// New returns an empty vocabulary.
func New() *Vocabulary {
	return &Vocabulary{forward: make(map[string]uint32)}
}

// GetOrCreateID returns word's id, assigning the next id in sequence the
// first time word is seen. Idempotent on repeated calls with the same
// content.
func (v *Vocabulary) GetOrCreateID(word string) uint32 {
	if id, ok := v.forward[word]; ok {
		return id
	}
	id := uint32(len(v.reverse))
	v.forward[word] = id
	v.reverse = append(v.reverse, word)
	return id
}

// GetIDNoCreate returns word's id, or UnknownID if word was never seen (or
// has since been pruned).
func (v *Vocabulary) GetIDNoCreate(word string) uint32 {
	if id, ok := v.forward[word]; ok {
		return id
	}
	return UnknownID
}

// GetWord returns the word for id, or "" if id is out of range.
func (v *Vocabulary) GetWord(id uint32) string {
	if id >= uint32(len(v.reverse)) {
		return ""
	}
	return v.reverse[id]
}

// LastWordID returns the number of ids ever assigned; valid ids are
// [0, LastWordID).
func (v *Vocabulary) LastWordID() uint32 {
	return uint32(len(v.reverse))
}

// PadReverseTo grows the reverse table to n slots if it is currently
// shorter, leaving new slots as "" (unreachable from the forward map).
// Used when reloading a vocabulary whose highest-numbered word was
// pruned before it was dumped: the persisted LastWordID still counts
// that id, so the reverse side must keep the slot even though nothing
// in the forward map claims it.
func (v *Vocabulary) PadReverseTo(n uint32) {
	if uint32(len(v.reverse)) >= n {
		return
	}
	grown := make([]string, n)
	copy(grown, v.reverse)
	v.reverse = grown
}

// Size returns the number of words currently reachable from the forward
// map (post-pruning vocabulary size).
func (v *Vocabulary) Size() int {
	return len(v.forward)
}

// Prune removes every forward entry whose id fails keep. The reverse
// table is left untouched — ids already handed out remain valid for any
// caller still holding them (e.g. the bucket table built before pruning).
func (v *Vocabulary) Prune(keep func(id uint32) bool) {
	for word, id := range v.forward {
		if !keep(id) {
			delete(v.forward, word)
		}
	}
}

// Words returns the words of the forward map (without their ids), in
// Go's randomized map iteration order — callers that need a stable order
// (e.g. vocab dump) must sort or otherwise not depend on repeatability
// across runs, matching the reference implementation's own unordered-map
// iteration.
func (v *Vocabulary) Words() []string {
	words := make([]string, 0, len(v.forward))
	for w := range v.forward {
		words = append(words, w)
	}
	return words
}

// ForEach calls fn once per forward entry.
func (v *Vocabulary) ForEach(fn func(word string, id uint32)) {
	for w, id := range v.forward {
		fn(w, id)
	}
}

// MarshalBinary encodes the forward map as a length-prefixed sequence of
// (length-prefixed word, id) pairs, matching the model file's
// `WordToId : map<wstring, u32> length-prefixed` field.
func (v *Vocabulary) MarshalBinary() ([]byte, error) {
	size := 8
	for w := range v.forward {
		size += 8 + len(w) + 4
	}
	buf := make([]byte, 0, size)
	buf = binio.AppendUint64(buf, uint64(len(v.forward)))
	for w, id := range v.forward {
		buf = binio.AppendBytesLP(buf, []byte(w))
		buf = binio.AppendUint32(buf, id)
	}
	return buf, nil
}

// UnmarshalBinary decodes a vocabulary previously written by
// MarshalBinary and rebuilds the reverse table from the forward entries
// alone, sized to one past the largest surviving id. Slots of ids pruned
// before Dump hold "", and ids above the largest surviving one are not
// covered; PadReverseTo restores the full LastWordID length.
func (v *Vocabulary) UnmarshalBinary(data []byte) (rest []byte, err error) {
	n, data, err := binio.ReadUint64(data)
	if err != nil {
		return nil, err
	}
	forward := make(map[string]uint32, n)
	maxID := uint32(0)
	for i := uint64(0); i < n; i++ {
		var wordBytes []byte
		wordBytes, data, err = binio.ReadBytesLP(data)
		if err != nil {
			return nil, err
		}
		var id uint32
		id, data, err = binio.ReadUint32(data)
		if err != nil {
			return nil, err
		}
		word := string(wordBytes)
		forward[word] = id
		if id+1 > maxID {
			maxID = id + 1
		}
	}
	v.forward = forward
	v.reverse = make([]string, maxID)
	for w, id := range forward {
		v.reverse[id] = w
	}
	return data, nil
}
