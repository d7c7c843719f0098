// Package tokenizer implements the alphabet-driven text-to-sentences
// pass (C11). The core scoring/storage design in pkg/model treats
// tokenization as an external pure function; this package supplies one
// concrete, minimal implementation so the pipeline is runnable end to
// end.
package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Alphabet is the set of runes a tokenizer treats as word characters.
// Everything else is a separator. If any of '.', '!', '?' is present in
// the alphabet it acts as a hard sentence terminator and is never part of
// a word.
type Alphabet struct {
	runes       map[rune]bool
	terminators map[rune]bool
}

// LoadAlphabet reads one allowed rune per line from path. Blank lines and
// lines starting with '#' are ignored. Lines with more than one rune
// register only their first rune, matching the reference tool's
// single-character-per-line convention.
func LoadAlphabet(path string) (*Alphabet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: open alphabet %s: %w", path, err)
	}
	defer f.Close()

	a := &Alphabet{runes: make(map[rune]bool), terminators: make(map[rune]bool)}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, r := range line {
			a.runes[r] = true
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tokenizer: read alphabet %s: %w", path, err)
	}
	if len(a.runes) == 0 {
		return nil, fmt.Errorf("tokenizer: alphabet %s is empty", path)
	}
	for _, r := range []rune{'.', '!', '?'} {
		if a.runes[r] {
			a.terminators[r] = true
		}
	}
	return a, nil
}

// NewAlphabetFromRunes builds an alphabet directly from a rune set,
// bypassing the on-disk format. Used to reconstruct a tokenizer's
// alphabet from a model file's embedded copy.
func NewAlphabetFromRunes(runes []rune) *Alphabet {
	a := &Alphabet{runes: make(map[rune]bool, len(runes)), terminators: make(map[rune]bool)}
	for _, r := range runes {
		a.runes[r] = true
	}
	for _, r := range []rune{'.', '!', '?'} {
		if a.runes[r] {
			a.terminators[r] = true
		}
	}
	return a
}

// Runes returns the alphabet's word runes in no particular order.
func (a *Alphabet) Runes() []rune {
	runes := make([]rune, 0, len(a.runes))
	for r := range a.runes {
		runes = append(runes, r)
	}
	return runes
}

// Contains reports whether r is a word rune under this alphabet.
func (a *Alphabet) Contains(r rune) bool {
	return a.runes[r]
}

// IsTerminator reports whether r is a hard sentence terminator.
func (a *Alphabet) IsTerminator(r rune) bool {
	return a.terminators[r]
}
