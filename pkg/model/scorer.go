package model

import (
	"math"

	"github.com/spellcore/langmodel/internal/codec"
	"github.com/spellcore/langmodel/pkg/vocab"
)

// gram1Count returns the trained count for a unigram, 0 for UNK.
func (m *Model) gram1Count(w uint32) uint64 {
	if w == vocab.UnknownID {
		return 0
	}
	bp := getKeyBuf()
	defer putKeyBuf(bp)
	key := codec.EncodeGram1((*bp)[:0], w)
	return m.buckets.lookup(key)
}

// gram2Count returns the trained count for a bigram, 0 if either word is
// UNK.
func (m *Model) gram2Count(w1, w2 uint32) uint64 {
	if w1 == vocab.UnknownID || w2 == vocab.UnknownID {
		return 0
	}
	bp := getKeyBuf()
	defer putKeyBuf(bp)
	key := codec.EncodeGram2((*bp)[:0], w1, w2)
	return m.buckets.lookup(key)
}

// gram3Count returns the trained count for a trigram, 0 if any word is
// UNK.
func (m *Model) gram3Count(w1, w2, w3 uint32) uint64 {
	if w1 == vocab.UnknownID || w2 == vocab.UnknownID || w3 == vocab.UnknownID {
		return 0
	}
	bp := getKeyBuf()
	defer putKeyBuf(bp)
	key := codec.EncodeGram3((*bp)[:0], w1, w2, w3)
	return m.buckets.lookup(key)
}

func (m *Model) gram1Prob(x uint32) float64 {
	c := float64(m.gram1Count(x)) + m.K
	return c / (float64(m.TotalWords) + float64(m.VocabSize))
}

func (m *Model) gram2Prob(x, y uint32) float64 {
	c1 := float64(m.gram1Count(x))
	c2 := float64(m.gram2Count(x, y))
	if c2 > c1 {
		c2 = 0
	}
	return (c2 + m.K) / (c1 + float64(m.TotalWords))
}

func (m *Model) gram3Prob(x, y, z uint32) float64 {
	c2 := float64(m.gram2Count(x, y))
	c3 := float64(m.gram3Count(x, y, z))
	if c3 > c2 {
		c3 = 0
	}
	return (c3 + m.K) / (c2 + float64(m.TotalWords))
}

// scoreIDs is the pure trigram-interpolation scorer (C7): a sentence's
// score is the sum, over each of n trigram windows produced by appending
// two UNK sentinels, of log P1 + log P2 + log P3. Reproduces the
// reference behavior of exactly n windows for an n-word sentence,
// including the one- and two-word corner cases.
func scoreIDs(m *Model, ids []uint32) float64 {
	if len(ids) == 0 {
		return -math.MaxFloat64
	}
	s := make([]uint32, len(ids)+2)
	copy(s, ids)
	s[len(s)-2] = vocab.UnknownID
	s[len(s)-1] = vocab.UnknownID

	result := 0.0
	for i := 0; i < len(s)-2; i++ {
		result += math.Log(m.gram1Prob(s[i]))
		result += math.Log(m.gram2Prob(s[i], s[i+1]))
		result += math.Log(m.gram3Prob(s[i], s[i+1], s[i+2]))
	}
	return result
}
