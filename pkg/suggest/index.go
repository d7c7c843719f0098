// Package suggest implements the candidate-ranking bridge (C15): it turns
// a trained model's vocabulary into a searchable index of known words and
// uses it, together with the model's own trigram scorer, to correct
// out-of-vocabulary tokens in a sentence.
package suggest

import (
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/spellcore/langmodel/pkg/model"
)

// CandidateIndex wraps a patricia trie of every vocabulary word, keyed by
// the word itself and carrying its trained unigram count as a coarse
// popularity signal, searched for nearest-neighbor (edit-distance)
// candidates rather than by prefix. Results are memoized in an LRU cache
// since the same misspelling tends to recur across a document or a
// server's request stream.
type CandidateIndex struct {
	trie  *patricia.Trie
	cache *nearCache
}

// BuildCandidateIndex indexes every word currently reachable in m's
// vocabulary.
func BuildCandidateIndex(m *model.Model) *CandidateIndex {
	trie := patricia.NewTrie()
	m.Vocabulary().ForEach(func(word string, id uint32) {
		trie.Insert(patricia.Prefix(word), m.GetWordCount(id))
	})
	return &CandidateIndex{trie: trie, cache: newNearCache(defaultCacheSize)}
}

type scoredWord struct {
	word string
	freq uint64
	dist int
}

// Near returns up to limit vocabulary words within maxEdits edit distance
// of word, closest first and ties broken by trained frequency.
func (idx *CandidateIndex) Near(word string, maxEdits, limit int) []string {
	if maxEdits <= 0 {
		maxEdits = 1
	}
	if cached, ok := idx.cache.get(word, maxEdits); ok {
		if limit > 0 && len(cached) > limit {
			return cached[:limit]
		}
		return cached
	}

	var candidates []scoredWord
	lowerWord := strings.ToLower(word)
	seen := map[string]bool{lowerWord: true}
	idx.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		candidateWord := string(prefix)
		lowerCandidate := strings.ToLower(candidateWord)
		if seen[lowerCandidate] {
			return nil
		}
		seen[lowerCandidate] = true
		dist, ok := damerauLevenshtein(word, candidateWord, maxEdits)
		if !ok {
			return nil
		}
		freq, _ := item.(uint64)
		candidates = append(candidates, scoredWord{word: candidateWord, freq: freq, dist: dist})
		return nil
	})

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].freq > candidates[j].freq
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.word
	}
	idx.cache.put(word, maxEdits, out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
