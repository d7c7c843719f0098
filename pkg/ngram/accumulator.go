package ngram

// Accumulator streams tokenized sentences (as word ids) and produces
// exact counts for every observed 1/2/3-gram, plus the total number of
// words seen. No sentence-boundary padding is inserted here — the
// boundary effect is modeled at scoring time via the trailing UNK trick.
type Accumulator struct {
	Grams1     map[Gram1]uint64
	Grams2     map[Gram2]uint64
	Grams3     map[Gram3]uint64
	TotalWords uint64
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{
		Grams1: make(map[Gram1]uint64),
		Grams2: make(map[Gram2]uint64),
		Grams3: make(map[Gram3]uint64),
	}
}

// AddSentence folds one sentence's word ids into the running counts.
func (a *Accumulator) AddSentence(ids []uint32) {
	for _, w := range ids {
		a.Grams1[Gram1{w}]++
		a.TotalWords++
	}
	for i := 0; i+1 < len(ids); i++ {
		a.Grams2[Gram2{ids[i], ids[i+1]}]++
	}
	for i := 0; i+2 < len(ids); i++ {
		a.Grams3[Gram3{ids[i], ids[i+1], ids[i+2]}]++
	}
}

// PruneLowFrequency removes every gram entry with count < minFreq from
// all three maps and returns the set of word ids whose unigram entry was
// removed, so the caller can drop them from the vocabulary too.
func (a *Accumulator) PruneLowFrequency(minFreq uint64) (removedWords map[uint32]bool) {
	removedWords = make(map[uint32]bool)
	if minFreq <= 1 {
		return removedWords
	}
	for k, c := range a.Grams1 {
		if c < minFreq {
			removedWords[k.W1] = true
			delete(a.Grams1, k)
		}
	}
	for k, c := range a.Grams2 {
		if c < minFreq {
			delete(a.Grams2, k)
		}
	}
	for k, c := range a.Grams3 {
		if c < minFreq {
			delete(a.Grams3, k)
		}
	}
	return removedWords
}
