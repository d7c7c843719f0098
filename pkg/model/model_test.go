package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spellcore/langmodel/pkg/vocab"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func testAlphabet(t *testing.T, dir string) string {
	return writeFile(t, dir, "alphabet.txt", "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\nm\nn\no\np\nq\nr\ns\nt\nu\nv\nw\nx\ny\nz\n.\n")
}

func TestTrainRejectsEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	alphabet := testAlphabet(t, dir)
	corpus := writeFile(t, dir, "corpus.txt", "123 456 789")

	m := New()
	if err := m.Train(corpus, alphabet, 0); err == nil {
		t.Fatalf("Train on a corpus with no alphabet words should fail")
	}
}

func TestTrainScoreFavorsSeenTrigram(t *testing.T) {
	dir := t.TempDir()
	alphabet := testAlphabet(t, dir)
	corpus := writeFile(t, dir, "corpus.txt", "the cat sat on the mat. the cat sat on the rug.")

	m := New()
	if err := m.Train(corpus, alphabet, 0); err != nil {
		t.Fatalf("Train: %v", err)
	}

	seen := m.Score("the cat sat")
	unseen := m.Score("cat mat the")
	if seen <= unseen {
		t.Fatalf("Score(seen)=%f should exceed Score(unseen)=%f", seen, unseen)
	}
}

func TestTrainPruneScenario(t *testing.T) {
	dir := t.TempDir()
	alphabet := testAlphabet(t, dir)
	corpus := writeFile(t, dir, "corpus.txt", "the cat sat on the mat")

	m := New()
	if err := m.Train(corpus, alphabet, 2); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if m.VocabSize != 1 {
		t.Fatalf("VocabSize = %d, want 1 (only \"the\" survives frequency 2)", m.VocabSize)
	}
	if m.GetIDNoCreate("the") == vocab.UnknownID {
		t.Fatalf("\"the\" should survive pruning")
	}
	if m.GetIDNoCreate("cat") != vocab.UnknownID {
		t.Fatalf("\"cat\" should have been pruned")
	}
}

func TestDumpLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	alphabet := testAlphabet(t, dir)
	corpus := writeFile(t, dir, "corpus.txt", "the cat sat on the mat. the dog ran fast.")
	modelPath := filepath.Join(dir, "model.bin")

	m := New()
	if err := m.Train(corpus, alphabet, 0); err != nil {
		t.Fatalf("Train: %v", err)
	}
	wantScore := m.Score("the cat sat")
	wantChecksum := m.GetCheckSum()

	if err := m.Dump(modelPath); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	loaded := New()
	if err := loaded.Load(modelPath); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := loaded.Score("the cat sat"); got != wantScore {
		t.Fatalf("Score after load = %f, want %f", got, wantScore)
	}
	if loaded.GetCheckSum() != wantChecksum {
		t.Fatalf("checksum mismatch after load: %d != %d", loaded.GetCheckSum(), wantChecksum)
	}
	if loaded.VocabSize != m.VocabSize {
		t.Fatalf("VocabSize mismatch after load: %d != %d", loaded.VocabSize, m.VocabSize)
	}
	if loaded.LastWordID != m.LastWordID {
		t.Fatalf("LastWordID mismatch after load: %d != %d", loaded.LastWordID, m.LastWordID)
	}
}

// TestDumpLoadRoundTripPrunedHighID exercises the case where the
// highest-numbered vocabulary word is pruned before Dump: the reverse
// table's natural size shrinks below LastWordID, so a reloaded model must
// pad it back out rather than reject or misreport ids above its shrunken
// length.
func TestDumpLoadRoundTripPrunedHighID(t *testing.T) {
	dir := t.TempDir()
	alphabet := testAlphabet(t, dir)
	// "zzz" only occurs once, so a minWordFreq of 2 prunes it; if it also
	// happens to be the last word assigned an id, LastWordID will point
	// past the end of the surviving forward map.
	corpus := writeFile(t, dir, "corpus.txt", "the cat sat on the mat the dog ran fast the cat sat zzz")
	modelPath := filepath.Join(dir, "model.bin")

	m := New()
	if err := m.Train(corpus, alphabet, 2); err != nil {
		t.Fatalf("Train: %v", err)
	}
	wantLastWordID := m.LastWordID

	if err := m.Dump(modelPath); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	loaded := New()
	if err := loaded.Load(modelPath); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.LastWordID != wantLastWordID {
		t.Fatalf("LastWordID mismatch after load: %d != %d", loaded.LastWordID, wantLastWordID)
	}
	if loaded.Vocabulary().LastWordID() < wantLastWordID {
		t.Fatalf("reverse table shorter than LastWordID after load: %d < %d",
			loaded.Vocabulary().LastWordID(), wantLastWordID)
	}
}

func TestLoadRejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	junk := writeFile(t, dir, "junk.bin", "not a model file at all, just some text padding")

	m := New()
	if err := m.Load(junk); err == nil {
		t.Fatalf("Load should reject a file without the model magic header")
	}
	if m.VocabSize != 0 {
		t.Fatalf("a rejected load must leave the model cleared")
	}
}

func TestFinetuneVocabIntersects(t *testing.T) {
	dir := t.TempDir()
	alphabet := testAlphabet(t, dir)
	corpus := writeFile(t, dir, "corpus.txt", "the cat sat on the mat")
	finetune := writeFile(t, dir, "finetune.txt", "the cat")

	m := New()
	if err := m.Train(corpus, alphabet, 0); err != nil {
		t.Fatalf("Train: %v", err)
	}
	before := m.VocabSize

	if err := m.FinetuneVocab(finetune, alphabet); err != nil {
		t.Fatalf("FinetuneVocab: %v", err)
	}

	if m.VocabSize >= before {
		t.Fatalf("finetune should shrink the vocabulary: before=%d after=%d", before, m.VocabSize)
	}
	if m.GetIDNoCreate("the") == vocab.UnknownID {
		t.Fatalf("\"the\" appears in the finetune corpus and should survive")
	}
	if m.GetIDNoCreate("mat") != vocab.UnknownID {
		t.Fatalf("\"mat\" is absent from the finetune corpus and should be pruned")
	}
}

func TestDumpVocabWritesParallelFiles(t *testing.T) {
	dir := t.TempDir()
	alphabet := testAlphabet(t, dir)
	corpus := writeFile(t, dir, "corpus.txt", "the cat sat")
	wordsPath := filepath.Join(dir, "words.csv")
	freqsPath := filepath.Join(dir, "freqs.csv")

	m := New()
	if err := m.Train(corpus, alphabet, 0); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if err := m.DumpVocab(wordsPath, freqsPath); err != nil {
		t.Fatalf("DumpVocab: %v", err)
	}

	words, err := os.ReadFile(wordsPath)
	if err != nil {
		t.Fatalf("read words file: %v", err)
	}
	freqs, err := os.ReadFile(freqsPath)
	if err != nil {
		t.Fatalf("read freqs file: %v", err)
	}
	if len(words) == 0 || len(freqs) == 0 {
		t.Fatalf("expected non-empty vocab dump files")
	}
}

func TestScoreUnknownWordDegrades(t *testing.T) {
	dir := t.TempDir()
	alphabet := testAlphabet(t, dir)
	corpus := writeFile(t, dir, "corpus.txt", "the cat sat on the mat")

	m := New()
	if err := m.Train(corpus, alphabet, 0); err != nil {
		t.Fatalf("Train: %v", err)
	}

	known := m.Score("the cat sat")
	withUnknown := m.Score("the zzzzz sat")
	if withUnknown >= known {
		t.Fatalf("a sentence containing an OOV word should score no higher than an all-known one")
	}
}
