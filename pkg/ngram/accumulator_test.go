package ngram

import "testing"

func TestAddSentenceCounts(t *testing.T) {
	a := New()
	a.AddSentence([]uint32{1, 2, 3})

	if a.TotalWords != 3 {
		t.Fatalf("TotalWords = %d, want 3", a.TotalWords)
	}
	if a.Grams1[Gram1{1}] != 1 {
		t.Fatalf("unigram count for 1 = %d, want 1", a.Grams1[Gram1{1}])
	}
	if a.Grams2[Gram2{1, 2}] != 1 {
		t.Fatalf("bigram (1,2) count = %d, want 1", a.Grams2[Gram2{1, 2}])
	}
	if a.Grams3[Gram3{1, 2, 3}] != 1 {
		t.Fatalf("trigram (1,2,3) count = %d, want 1", a.Grams3[Gram3{1, 2, 3}])
	}
}

func TestAddSentenceNoBoundaryPadding(t *testing.T) {
	a := New()
	a.AddSentence([]uint32{1, 2})
	if len(a.Grams3) != 0 {
		t.Fatalf("a 2-word sentence must not synthesize any trigram, got %d", len(a.Grams3))
	}
}

// TestPruneLowFrequency exercises the "the cat sat on the mat" scenario:
// with minWordFreq=2 only "the" (id 0, seen twice) survives.
func TestPruneLowFrequency(t *testing.T) {
	a := New()
	// the=0 cat=1 sat=2 on=3 the=0 mat=4
	a.AddSentence([]uint32{0, 1, 2, 3, 0, 4})

	removed := a.PruneLowFrequency(2)

	if removed[0] {
		t.Fatalf("word 0 (\"the\", freq 2) should not be removed")
	}
	for _, w := range []uint32{1, 2, 3, 4} {
		if !removed[w] {
			t.Fatalf("word %d (freq 1) should have been removed", w)
		}
	}
	if len(a.Grams2) != 0 {
		t.Fatalf("all bigrams should be below threshold, got %d survivors", len(a.Grams2))
	}
	if len(a.Grams3) != 0 {
		t.Fatalf("all trigrams should be below threshold, got %d survivors", len(a.Grams3))
	}
}

func TestPruneLowFrequencyNoop(t *testing.T) {
	a := New()
	a.AddSentence([]uint32{1, 2, 3})
	removed := a.PruneLowFrequency(1)
	if len(removed) != 0 {
		t.Fatalf("minFreq<=1 must not remove anything, got %d removed", len(removed))
	}
}
