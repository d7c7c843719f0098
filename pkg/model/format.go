package model

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/spellcore/langmodel/internal/binio"
	"github.com/spellcore/langmodel/internal/mph"
	"github.com/spellcore/langmodel/pkg/tokenizer"
	"github.com/spellcore/langmodel/pkg/vocab"
)

// Dump serializes the model to path as: magic/version header, tokenizer
// alphabet, K, vocabulary, counters, perfect-hash block, bucket table,
// trailing magic. The header and trailer let Load reject a foreign or
// truncated file, which leaves the receiver cleared.
func (m *Model) Dump(path string) error {
	if m.buckets == nil || m.ph == nil {
		log.Errorf("model: dump: model has not been trained")
		return fmt.Errorf("model: dump: model has not been trained")
	}

	buf := make([]byte, 0, 4096)
	buf = binio.AppendUint64(buf, magic)
	buf = binio.AppendUint16(buf, formatVersion)

	var alphabetRunes []rune
	if a := m.tok.Alphabet(); a != nil {
		alphabetRunes = a.Runes()
	}
	buf = binio.AppendUint64(buf, uint64(len(alphabetRunes)))
	for _, r := range alphabetRunes {
		buf = binio.AppendUint32(buf, uint32(r))
	}

	buf = binio.AppendFloat64(buf, m.K)

	vocabBytes, err := m.vocab.MarshalBinary()
	if err != nil {
		log.Errorf("model: dump: vocabulary encode failed: %v", err)
		return fmt.Errorf("model: dump: encode vocabulary: %w", err)
	}
	buf = binio.AppendBytesLP(buf, vocabBytes)

	buf = binio.AppendUint32(buf, m.LastWordID)
	buf = binio.AppendUint64(buf, m.TotalWords)
	buf = binio.AppendUint64(buf, m.VocabSize)
	buf = binio.AppendUint64(buf, m.CheckSum)

	phBytes, err := m.ph.MarshalBinary()
	if err != nil {
		log.Errorf("model: dump: perfect hash encode failed: %v", err)
		return fmt.Errorf("model: dump: encode perfect hash: %w", err)
	}
	buf = binio.AppendBytesLP(buf, phBytes)

	buf = binio.AppendBytesLP(buf, m.buckets.marshalBinary())

	buf = binio.AppendUint64(buf, magic)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		log.Errorf("model: dump: write %s failed: %v", path, err)
		return fmt.Errorf("model: dump: write %s: %w", path, err)
	}
	return nil
}

// Load reads a model previously written by Dump. On any format error the
// receiver is left cleared, matching the design's "no partial state
// after a rejected load" rule.
func (m *Model) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("model: load: open %s failed: %v", path, err)
		return fmt.Errorf("model: load: open %s: %w", path, err)
	}

	if err := m.loadFrom(data); err != nil {
		log.Errorf("model: load: %s is not a valid model file: %v", path, err)
		m.Clear()
		return fmt.Errorf("model: load: %s: %w", path, err)
	}
	return nil
}

func (m *Model) loadFrom(data []byte) error {
	gotMagic, data, err := binio.ReadUint64(data)
	if err != nil {
		return err
	}
	if gotMagic != magic {
		return fmt.Errorf("bad header magic")
	}

	version, data, err := binio.ReadUint16(data)
	if err != nil {
		return err
	}
	if version != formatVersion {
		return fmt.Errorf("unsupported format version %d", version)
	}

	runeCount, data, err := binio.ReadUint64(data)
	if err != nil {
		return err
	}
	runes := make([]rune, runeCount)
	for i := range runes {
		var v uint32
		v, data, err = binio.ReadUint32(data)
		if err != nil {
			return err
		}
		runes[i] = rune(v)
	}

	k, data, err := binio.ReadFloat64(data)
	if err != nil {
		return err
	}

	vocabBytes, data, err := binio.ReadBytesLP(data)
	if err != nil {
		return err
	}
	v := vocab.New()
	if _, err := v.UnmarshalBinary(vocabBytes); err != nil {
		return fmt.Errorf("decode vocabulary: %w", err)
	}

	lastWordID, data, err := binio.ReadUint32(data)
	if err != nil {
		return err
	}
	// A pruned word can leave the reverse table one or more slots short
	// of LastWordID; pad it back out so every id below LastWordID
	// resolves (possibly to "" for a pruned id), per the model's
	// reverse-side-never-shrinks invariant.
	v.PadReverseTo(lastWordID)

	totalWords, data, err := binio.ReadUint64(data)
	if err != nil {
		return err
	}
	vocabSize, data, err := binio.ReadUint64(data)
	if err != nil {
		return err
	}
	checkSum, data, err := binio.ReadUint64(data)
	if err != nil {
		return err
	}

	phBytes, data, err := binio.ReadBytesLP(data)
	if err != nil {
		return err
	}
	ph := &mph.Table{}
	if err := ph.UnmarshalBinary(phBytes); err != nil {
		return fmt.Errorf("decode perfect hash: %w", err)
	}

	bucketBytes, data, err := binio.ReadBytesLP(data)
	if err != nil {
		return err
	}
	bt, _, err := unmarshalBuckets(bucketBytes)
	if err != nil {
		return fmt.Errorf("decode buckets: %w", err)
	}
	bt.ph = ph

	trailerMagic, _, err := binio.ReadUint64(data)
	if err != nil {
		return err
	}
	if trailerMagic != magic {
		return fmt.Errorf("bad trailer magic")
	}

	tok := tokenizer.New()
	if len(runes) > 0 {
		tok.SetAlphabet(tokenizer.NewAlphabetFromRunes(runes))
	}

	m.K = k
	m.vocab = v
	m.tok = tok
	m.TotalWords = totalWords
	m.VocabSize = vocabSize
	m.LastWordID = lastWordID
	m.CheckSum = checkSum
	m.ph = ph
	m.buckets = bt
	return nil
}
