// Package cli handles interactive stdin testing loops for the score and
// correct subcommands: it reads lines from stdin and scores or corrects
// each one.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spellcore/langmodel/pkg/model"
	"github.com/spellcore/langmodel/pkg/suggest"
)

// Mode selects what a ReplHandler does with each line of input.
type Mode int

const (
	// ModeScore prints the trigram score of each input line.
	ModeScore Mode = iota
	// ModeCorrect prints the best correction of each input line.
	ModeCorrect
)

// ReplHandler reads lines from stdin and either scores or corrects them,
// printing results with human-readable formatting.
type ReplHandler struct {
	model        *model.Model
	corrector    *suggest.Corrector
	mode         Mode
	requestCount int
}

// NewReplHandler builds a handler for mode over m. corrector may be nil
// when mode is ModeScore.
func NewReplHandler(m *model.Model, corrector *suggest.Corrector, mode Mode) *ReplHandler {
	return &ReplHandler{model: m, corrector: corrector, mode: mode}
}

// Start begins the interface loop, reading lines from stdin until EOF or
// a read error, which is returned to the caller (io.EOF included).
func (h *ReplHandler) Start() error {
	log.Print("langmodel CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a sentence and press Enter (Ctrl+C to exit):")

	for {
		line, err := reader.ReadString('\n')
		text := strings.TrimSpace(line)
		if text != "" {
			h.handleLine(text)
		}
		if err != nil {
			return err
		}
	}
}

func (h *ReplHandler) handleLine(text string) {
	h.requestCount++
	start := time.Now()

	switch h.mode {
	case ModeScore:
		score := h.model.Score(text)
		log.Printf("score(%q) = %f  [%v]", text, score, time.Since(start))
	case ModeCorrect:
		candidates := h.corrector.Correct(text, 2)
		if len(candidates) == 0 {
			log.Warnf("no correction produced for %q", text)
			return
		}
		best := candidates[0]
		if best.Sentence == text {
			fmt.Printf("%s  (unchanged, score=%f)\n", text, best.Score)
		} else {
			fmt.Printf("%s -> %s  (score=%f)\n", text, best.Sentence, best.Score)
		}
		log.Debugf("correct(%q) took %v", text, time.Since(start))
	}
}
