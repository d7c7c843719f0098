package suggest

import (
	"math"
	"strings"

	"github.com/spellcore/langmodel/internal/utils"
	"github.com/spellcore/langmodel/pkg/model"
	"github.com/spellcore/langmodel/pkg/vocab"
)

// Candidate is one scored correction of an input sentence.
type Candidate struct {
	Sentence string
	Score    float64
}

// Corrector walks a sentence's out-of-vocabulary tokens, substitutes
// nearby known words from a CandidateIndex, and re-ranks the result with
// the model's own trigram Score — the spell-correction search that sits
// above the scored core, wired to a concrete instance for a runnable
// end-to-end pipeline.
type Corrector struct {
	model         *model.Model
	index         *CandidateIndex
	maxCandidates int
}

// NewCorrector builds a corrector over m's vocabulary. maxCandidates
// bounds how many near-neighbor words are tried per out-of-vocabulary
// token before the best-scoring substitution is kept.
func NewCorrector(m *model.Model, maxCandidates int) *Corrector {
	if maxCandidates <= 0 {
		maxCandidates = 8
	}
	return &Corrector{
		model:         m,
		index:         BuildCandidateIndex(m),
		maxCandidates: maxCandidates,
	}
}

// Correct tokenizes sentence, replaces each out-of-vocabulary word with
// the substitution (within maxEdits edit operations) that maximizes the
// resulting sentence's Score, and returns the corrected sentence and the
// unmodified original, best first.
func (c *Corrector) Correct(sentence string, maxEdits int) []Candidate {
	sentences := c.model.Tokenize(sentence)
	if len(sentences) == 0 {
		return nil
	}

	original := sentences[0]
	corrected := append([]string(nil), original...)

	for i, w := range original {
		if utils.SkipCorrection(w) {
			continue
		}
		if c.model.GetIDNoCreate(w) != vocab.UnknownID {
			continue
		}

		lower, capInfo := utils.ProcessCapitals(w)
		near := c.index.Near(lower, maxEdits, c.maxCandidates)
		if len(near) == 0 {
			continue
		}

		bestWord := ""
		bestScore := math.Inf(-1)
		trial := append([]string(nil), corrected...)
		for _, cand := range near {
			trial[i] = cand
			if s := c.model.ScoreWords(trial); s > bestScore {
				bestScore = s
				bestWord = cand
			}
		}
		if bestWord != "" {
			corrected[i] = utils.ApplyCapitals(bestWord, capInfo)
		}
	}

	originalScore := c.model.ScoreWords(original)
	correctedScore := c.model.ScoreWords(corrected)

	results := []Candidate{{Sentence: strings.Join(corrected, " "), Score: correctedScore}}
	if strings.Join(corrected, " ") != strings.Join(original, " ") {
		results = append(results, Candidate{Sentence: strings.Join(original, " "), Score: originalScore})
		if originalScore > correctedScore {
			results[0], results[1] = results[1], results[0]
		}
	}
	return results
}
