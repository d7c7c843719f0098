package tokenizer

import "testing"

func newTestTokenizer() *Tokenizer {
	tok := New()
	tok.SetAlphabet(NewAlphabetFromRunes([]rune("abcdefghijklmnopqrstuvwxyz.!?")))
	return tok
}

func TestProcessSplitsSentences(t *testing.T) {
	tok := newTestTokenizer()
	got := tok.Process("The cat sat. The dog ran!")
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2: %v", len(got), got)
	}
	if len(got[0]) != 3 || got[0][0] != "the" {
		t.Fatalf("first sentence = %v, want lowercase [the cat sat]", got[0])
	}
	if len(got[1]) != 3 || got[1][2] != "ran" {
		t.Fatalf("second sentence = %v, want [the dog ran]", got[1])
	}
}

func TestProcessNoTrailingTerminator(t *testing.T) {
	tok := newTestTokenizer()
	got := tok.Process("just one sentence")
	if len(got) != 1 {
		t.Fatalf("got %d sentences, want 1", len(got))
	}
}

func TestProcessNonAlphabetSeparates(t *testing.T) {
	tok := newTestTokenizer()
	got := tok.Process("hi123there")
	if len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("digits should split words: got %v", got)
	}
}

func TestProcessNoAlphabetLoaded(t *testing.T) {
	tok := New()
	if got := tok.Process("anything"); got != nil {
		t.Fatalf("Process with no alphabet loaded should return nil, got %v", got)
	}
}

func TestClearDropsAlphabet(t *testing.T) {
	tok := newTestTokenizer()
	tok.Clear()
	if tok.Alphabet() != nil {
		t.Fatalf("Clear did not drop the alphabet")
	}
}
