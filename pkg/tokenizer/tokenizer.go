package tokenizer

import "strings"

// Tokenizer turns raw text into sentences of lowercased word spans, using
// a loaded Alphabet to decide word runes from separators.
type Tokenizer struct {
	alphabet *Alphabet
}

// New returns a tokenizer with no alphabet loaded; Process returns no
// sentences until LoadAlphabet succeeds.
func New() *Tokenizer {
	return &Tokenizer{}
}

// LoadAlphabet loads the alphabet used by subsequent Process calls.
func (t *Tokenizer) LoadAlphabet(path string) error {
	a, err := LoadAlphabet(path)
	if err != nil {
		return err
	}
	t.alphabet = a
	return nil
}

// SetAlphabet installs an already-built alphabet directly, used when
// reconstructing a tokenizer from a model file's embedded rune set.
func (t *Tokenizer) SetAlphabet(a *Alphabet) {
	t.alphabet = a
}

// Clear releases the loaded alphabet, returning the tokenizer to its
// zero state.
func (t *Tokenizer) Clear() {
	t.alphabet = nil
}

// Alphabet returns the currently loaded alphabet, or nil.
func (t *Tokenizer) Alphabet() *Alphabet {
	return t.alphabet
}

// Process lowercases text and splits it into sentences of word spans.
// Any rune outside the alphabet ends the current word; a terminator rune
// additionally ends the current sentence. Returns nil if no alphabet is
// loaded or text yields no words.
func (t *Tokenizer) Process(text string) [][]string {
	if t.alphabet == nil {
		return nil
	}
	text = strings.ToLower(text)

	var sentences [][]string
	var sentence []string
	var word strings.Builder

	flushWord := func() {
		if word.Len() > 0 {
			sentence = append(sentence, word.String())
			word.Reset()
		}
	}
	flushSentence := func() {
		flushWord()
		if len(sentence) > 0 {
			sentences = append(sentences, sentence)
			sentence = nil
		}
	}

	for _, r := range text {
		switch {
		case t.alphabet.IsTerminator(r):
			flushSentence()
		case t.alphabet.Contains(r):
			word.WriteRune(r)
		default:
			flushWord()
		}
	}
	flushSentence()

	return sentences
}
