// Package model implements the model container (C8): it orchestrates
// training, persistence and scoring of a trigram language model over the
// compact perfect-hash bucket store, and the vocabulary finetune
// operation (C9).
package model

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spellcore/langmodel/internal/binio"
	"github.com/spellcore/langmodel/internal/codec"
	"github.com/spellcore/langmodel/internal/mph"
	"github.com/spellcore/langmodel/pkg/ngram"
	"github.com/spellcore/langmodel/pkg/tokenizer"
	"github.com/spellcore/langmodel/pkg/vocab"
)

const (
	// magic is the fixed 64-bit header/trailer constant of the model
	// file format.
	magic uint64 = 0x4A414D53_4C4D3031 // "JAMSLM01" in ASCII bytes
	// formatVersion is the payload layout version.
	formatVersion uint16 = 1
	// DefaultK is the additive smoothing constant used when a caller
	// doesn't override it via config.
	DefaultK = 1.0
)

// Model is the trained (or loaded) language model. The zero value is not
// ready for use — call New.
type Model struct {
	K          float64
	TotalWords uint64
	VocabSize  uint64
	LastWordID uint32
	CheckSum   uint64

	vocab   *vocab.Vocabulary
	tok     *tokenizer.Tokenizer
	ph      *mph.Table
	buckets *buckets
}

// New returns an empty model, ready for Train or Load.
func New() *Model {
	return &Model{
		K:     DefaultK,
		vocab: vocab.New(),
		tok:   tokenizer.New(),
	}
}

// Clear resets the model to its empty state, releasing the vocabulary,
// bucket table, perfect hash and counters.
func (m *Model) Clear() {
	m.K = DefaultK
	m.TotalWords = 0
	m.VocabSize = 0
	m.LastWordID = 0
	m.CheckSum = 0
	m.vocab = vocab.New()
	m.tok.Clear()
	m.ph = nil
	m.buckets = nil
}

// GetIDNoCreate exposes the vocabulary's read-only id lookup, used by
// callers (e.g. the corrector) that need to test vocabulary membership
// without mutating it.
func (m *Model) GetIDNoCreate(word string) uint32 {
	return m.vocab.GetIDNoCreate(word)
}

// GetWord exposes the vocabulary's reverse lookup.
func (m *Model) GetWord(id uint32) string {
	return m.vocab.GetWord(id)
}

// GetWordCount returns the trained unigram count for id, looked up
// through the lossy bucket table exactly like the scorer does.
func (m *Model) GetWordCount(id uint32) uint64 {
	return m.gram1Count(id)
}

// GetCheckSum returns the training-run digest.
func (m *Model) GetCheckSum() uint64 {
	return m.CheckSum
}

// Vocabulary exposes the underlying vocabulary for read access by
// higher-level packages (e.g. the candidate index).
func (m *Model) Vocabulary() *vocab.Vocabulary {
	return m.vocab
}

// Tokenize exposes the model's own alphabet-driven tokenizer to callers
// that need to split text the same way training and scoring do (e.g. the
// corrector).
func (m *Model) Tokenize(text string) [][]string {
	return m.tok.Process(text)
}

// Train builds a fresh model from corpusPath's text, using alphabetPath
// to drive tokenization, pruning any word or n-gram observed fewer than
// minWordFreq times (minWordFreq <= 1 disables pruning). On any failure
// the model is left completely unchanged — all intermediate state lives
// in this call's frame.
func (m *Model) Train(corpusPath, alphabetPath string, minWordFreq int) error {
	trainStart := time.Now().UnixMilli()

	tok := tokenizer.New()
	if err := tok.LoadAlphabet(alphabetPath); err != nil {
		log.Errorf("model: failed to load alphabet: %v", err)
		return fmt.Errorf("model: load alphabet: %w", err)
	}

	raw, err := os.ReadFile(corpusPath)
	if err != nil {
		log.Errorf("model: failed to open corpus %s: %v", corpusPath, err)
		return fmt.Errorf("model: open corpus: %w", err)
	}

	sentences := tok.Process(string(raw))
	if len(sentences) == 0 {
		log.Errorf("model: no sentences produced from %s", corpusPath)
		return fmt.Errorf("model: empty corpus")
	}

	v := vocab.New()
	acc := ngram.New()
	for _, words := range sentences {
		ids := make([]uint32, len(words))
		for j, w := range words {
			ids[j] = v.GetOrCreateID(w)
		}
		acc.AddSentence(ids)
	}

	if minWordFreq > 1 {
		log.Debugf("model: pruning words/n-grams with frequency < %d", minWordFreq)
		removed := acc.PruneLowFrequency(uint64(minWordFreq))
		v.Prune(func(id uint32) bool { return !removed[id] })
		log.Debugf("model: removed %d words below frequency threshold", len(removed))
	}

	vocabSize := uint64(v.Size())

	keys := make([][]byte, 0, len(acc.Grams1)+len(acc.Grams2)+len(acc.Grams3))
	for k := range acc.Grams1 {
		keys = append(keys, codec.EncodeGram1(nil, k.W1))
	}
	for k := range acc.Grams2 {
		keys = append(keys, codec.EncodeGram2(nil, k.W1, k.W2))
	}
	for k := range acc.Grams3 {
		keys = append(keys, codec.EncodeGram3(nil, k.W1, k.W2, k.W3))
	}

	log.Debugf("model: building perfect hash over %d keys", len(keys))
	ph, err := mph.Build(keys)
	if err != nil {
		log.Errorf("model: perfect hash build failed: %v", err)
		return fmt.Errorf("model: build perfect hash: %w", err)
	}

	bt := &buckets{ph: ph, cells: make([]bucket, ph.BucketsNumber())}
	for k, c := range acc.Grams1 {
		bt.fill(codec.EncodeGram1(nil, k.W1), c)
	}
	for k, c := range acc.Grams2 {
		bt.fill(codec.EncodeGram2(nil, k.W1, k.W2), c)
	}
	for k, c := range acc.Grams3 {
		bt.fill(codec.EncodeGram3(nil, k.W1, k.W2, k.W3), c)
	}

	checkSum := computeCheckSum(trainStart, len(acc.Grams1), len(acc.Grams2), len(acc.Grams3),
		int(ph.BucketsNumber()), len(raw), len(sentences))

	// Commit: only now do we overwrite the receiver's fields.
	m.K = DefaultK
	m.vocab = v
	m.tok = tok
	m.TotalWords = acc.TotalWords
	m.VocabSize = vocabSize
	m.LastWordID = v.LastWordID()
	m.CheckSum = checkSum
	m.ph = ph
	m.buckets = bt

	log.Infof("model: trained on %d sentences, vocab=%d, buckets=%d", len(sentences), vocabSize, ph.BucketsNumber())
	return nil
}

// SetK overrides the additive smoothing constant, e.g. from config.
func (m *Model) SetK(k float64) {
	m.K = k
}

// Score returns the trigram log-probability of text, tokenized with the
// model's own alphabet. Never fails: ill-formed input degrades to the
// sentinel minimum finite double.
func (m *Model) Score(text string) float64 {
	sentences := m.tok.Process(text)
	var words []string
	for _, s := range sentences {
		words = append(words, s...)
	}
	return m.ScoreWords(words)
}

// ScoreWords scores an already-tokenized flat word sequence.
func (m *Model) ScoreWords(words []string) float64 {
	ids := make([]uint32, len(words))
	for i, w := range words {
		ids[i] = m.vocab.GetIDNoCreate(w)
	}
	return scoreIDs(m, ids)
}

// FinetuneVocab intersects the current vocabulary with the words observed
// in corpusPath (tokenized with alphabetPath), dropping every vocabulary
// word not present in the finetune corpus. The perfect hash and bucket
// table are not rebuilt — pruned words simply route through the UNK
// short-circuit from now on, and retained words keep their stored counts.
// VocabSize is recomputed, and since it is part of the unigram
// denominator, scores after finetuning generally differ from before.
func (m *Model) FinetuneVocab(corpusPath, alphabetPath string) error {
	tok := tokenizer.New()
	if err := tok.LoadAlphabet(alphabetPath); err != nil {
		log.Errorf("model: finetune: failed to load alphabet: %v", err)
		return fmt.Errorf("model: finetune load alphabet: %w", err)
	}

	raw, err := os.ReadFile(corpusPath)
	if err != nil {
		log.Errorf("model: finetune: failed to open corpus %s: %v", corpusPath, err)
		return fmt.Errorf("model: finetune open corpus: %w", err)
	}

	sentences := tok.Process(string(raw))
	if len(sentences) == 0 {
		log.Errorf("model: finetune: empty vocab file input")
		return fmt.Errorf("model: finetune empty corpus")
	}

	observed := make(map[string]bool)
	for _, s := range sentences {
		for _, w := range s {
			observed[w] = true
		}
	}

	m.vocab.Prune(func(id uint32) bool {
		return observed[m.vocab.GetWord(id)]
	})
	m.VocabSize = uint64(m.vocab.Size())
	log.Infof("model: finetuned vocab size = %d", m.VocabSize)
	return nil
}

// DumpVocab writes the forward vocabulary as two parallel comma-separated
// streams: wordsPath gets "word," per entry, freqsPath gets "count," in
// the same iteration order.
func (m *Model) DumpVocab(wordsPath, freqsPath string) error {
	type entry struct {
		word string
		id   uint32
	}
	entries := make([]entry, 0, m.vocab.Size())
	m.vocab.ForEach(func(word string, id uint32) {
		entries = append(entries, entry{word, id})
	})

	wordsFile, err := os.Create(wordsPath)
	if err != nil {
		log.Errorf("model: dump_vocab: failed to create %s: %v", wordsPath, err)
		return fmt.Errorf("model: create vocab file: %w", err)
	}
	defer wordsFile.Close()

	freqsFile, err := os.Create(freqsPath)
	if err != nil {
		log.Errorf("model: dump_vocab: failed to create %s: %v", freqsPath, err)
		return fmt.Errorf("model: create freq file: %w", err)
	}
	defer freqsFile.Close()

	for _, e := range entries {
		if _, err := fmt.Fprintf(wordsFile, "%s,", e.word); err != nil {
			return fmt.Errorf("model: write vocab file: %w", err)
		}
		if _, err := fmt.Fprintf(freqsFile, "%d,", m.gram1Count(e.id)); err != nil {
			return fmt.Errorf("model: write freq file: %w", err)
		}
	}
	return nil
}

func computeCheckSum(trainStart int64, g1, g2, g3, buckets, inputBytes, sentenceCount int) uint64 {
	buf := make([]byte, 0, 56)
	buf = binio.AppendUint64(buf, uint64(trainStart))
	buf = binio.AppendUint64(buf, uint64(g1))
	buf = binio.AppendUint64(buf, uint64(g2))
	buf = binio.AppendUint64(buf, uint64(g3))
	buf = binio.AppendUint64(buf, uint64(buckets))
	buf = binio.AppendUint64(buf, uint64(inputBytes))
	buf = binio.AppendUint64(buf, uint64(sentenceCount))
	return codec.Checksum64(buf)
}
