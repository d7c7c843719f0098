/*
Package main implements the langmodel CLI application.

langmodel trains, scores and corrects text with a trigram language model
backed by a minimal-perfect-hash bucket store (see pkg/model). It can
operate as a msgpack IPC server for integration with an editor or search
front-end, or as a set of subcommands for training and testing models
from the command line.

# Usage

Train a model from a corpus and alphabet:

	langmodel train alphabet.txt corpus.txt model.bin
	langmodel train alphabet.txt corpus.txt model.bin 5

Score sentences read from stdin:

	langmodel score model.bin

Interactively correct sentences read from stdin:

	langmodel correct model.bin

Correct every line of a file in one pass:

	langmodel fix model.bin in.txt out.txt

Dump the trained vocabulary to two parallel CSV-like files:

	langmodel dump_vocab model.bin vocab.txt freq.txt

Intersect a model's vocabulary with a new corpus's words:

	langmodel finetune_vocab model.bin alphabet.txt corpus.txt out.bin

Run the msgpack IPC server, reading requests from stdin:

	langmodel serve model.bin

# Configuration

The serve subcommand reads its smoothing constant and candidate limit
from a TOML file, auto-created with defaults on its first run; the other
subcommands do not read this file and use the built-in defaults shown
here:

	[model]
	smoothing_k = 1.0
	min_word_freq = 1
	alphabet_path = "alphabet.txt"

	[server]
	max_candidates = 8
	edit_distance_limit = 2

	[cli]
	default_limit = 5

# Exit codes

Every subcommand exits 0 on success and 42 on any failure, including
usage errors.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/spellcore/langmodel/internal/cli"
	"github.com/spellcore/langmodel/pkg/config"
	"github.com/spellcore/langmodel/pkg/model"
	"github.com/spellcore/langmodel/pkg/server"
	"github.com/spellcore/langmodel/pkg/suggest"
)

const (
	Version = "0.1.0"
	AppName = "langmodel"
	gh      = "https://github.com/spellcore/langmodel"
)

// exitFailure is the exit code for any failure, including usage errors.
const exitFailure = 42

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main dispatches to the requested subcommand. main() does not implement
// subcommand logic itself and only manages the flow.
func main() {
	sigHandler()

	if len(os.Args) < 2 {
		usage()
		os.Exit(exitFailure)
	}

	switch os.Args[1] {
	case "-version", "--version":
		printVersion()
		os.Exit(0)
	case "-h", "-help", "--help":
		usage()
		os.Exit(0)
	}

	verb := os.Args[1]
	rest := os.Args[2:]

	var code int
	switch verb {
	case "train":
		code = runTrain(rest)
	case "score":
		code = runScore(rest)
	case "correct":
		code = runCorrect(rest)
	case "fix":
		code = runFix(rest)
	case "dump_vocab":
		code = runDumpVocab(rest)
	case "finetune_vocab":
		code = runFinetuneVocab(rest)
	case "serve":
		code = runServe(rest)
	default:
		fmt.Fprintf(os.Stderr, "langmodel: unknown command %q\n", verb)
		usage()
		code = exitFailure
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: langmodel <command> [args]")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  train          alphabet dataset out.bin [minFreq]")
	fmt.Fprintln(os.Stderr, "  score          model.bin                (reads stdin lines)")
	fmt.Fprintln(os.Stderr, "  correct        model.bin                (reads stdin lines)")
	fmt.Fprintln(os.Stderr, "  fix            model.bin in.txt out.txt")
	fmt.Fprintln(os.Stderr, "  dump_vocab     model.bin vocab.txt freq.txt")
	fmt.Fprintln(os.Stderr, "  finetune_vocab model.bin alphabet vocab.txt out.bin")
	fmt.Fprintln(os.Stderr, "  serve          model.bin                (msgpack IPC over stdio)")
	fmt.Fprintln(os.Stderr, "flags: -d enables debug logging, -version prints the version banner")
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"}).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ langmodel ] trigram scoring and correction over a perfect-hash store")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h for available commands")
	logger.Print("Github Repo", "gh", gh)
}

// setDebug toggles log verbosity from a -d flag shared by every
// subcommand, popping it out of args if present.
func setDebug(args []string) []string {
	out := make([]string, 0, len(args))
	debug := false
	for _, a := range args {
		if a == "-d" {
			debug = true
			continue
		}
		out = append(out, a)
	}
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	return out
}

func fail(format string, args ...any) int {
	log.Errorf(format, args...)
	return exitFailure
}

func loadedModel(path string) (*model.Model, error) {
	m := model.New()
	if err := m.Load(path); err != nil {
		return nil, err
	}
	return m, nil
}

func runTrain(args []string) int {
	args = setDebug(args)
	if len(args) < 3 {
		return fail("train: usage: train alphabet dataset out.bin [minFreq]")
	}
	alphabet, dataset, out := args[0], args[1], args[2]
	minFreq := 1
	if len(args) >= 4 {
		if _, err := fmt.Sscanf(args[3], "%d", &minFreq); err != nil {
			return fail("train: bad minFreq %q: %v", args[3], err)
		}
	}

	m := model.New()
	if err := m.Train(dataset, alphabet, minFreq); err != nil {
		return fail("train: %v", err)
	}
	if err := m.Dump(out); err != nil {
		return fail("train: dump: %v", err)
	}
	log.Infof("train: wrote %s (vocab=%d, checksum=%d)", out, m.VocabSize, m.GetCheckSum())
	return 0
}

func runScore(args []string) int {
	args = setDebug(args)
	if len(args) < 1 {
		return fail("score: usage: score model.bin")
	}
	m, err := loadedModel(args[0])
	if err != nil {
		return fail("score: %v", err)
	}
	handler := cli.NewReplHandler(m, nil, cli.ModeScore)
	if err := handler.Start(); err != nil {
		log.Debugf("score: repl ended: %v", err)
	}
	return 0
}

func runCorrect(args []string) int {
	args = setDebug(args)
	if len(args) < 1 {
		return fail("correct: usage: correct model.bin")
	}
	cfg := config.DefaultConfig()
	m, err := loadedModel(args[0])
	if err != nil {
		return fail("correct: %v", err)
	}
	corrector := suggest.NewCorrector(m, cfg.Server.MaxCandidates)
	handler := cli.NewReplHandler(m, corrector, cli.ModeCorrect)
	if err := handler.Start(); err != nil {
		log.Debugf("correct: repl ended: %v", err)
	}
	return 0
}

func runFix(args []string) int {
	args = setDebug(args)
	if len(args) < 3 {
		return fail("fix: usage: fix model.bin in.txt out.txt")
	}
	modelPath, inPath, outPath := args[0], args[1], args[2]

	cfg := config.DefaultConfig()
	m, err := loadedModel(modelPath)
	if err != nil {
		return fail("fix: %v", err)
	}
	corrector := suggest.NewCorrector(m, cfg.Server.MaxCandidates)

	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fail("fix: read %s: %v", inPath, err)
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		return fail("fix: create %s: %v", outPath, err)
	}
	defer outFile.Close()

	lines := splitLines(string(raw))
	for _, line := range lines {
		if line == "" {
			fmt.Fprintln(outFile)
			continue
		}
		candidates := corrector.Correct(line, cfg.Server.EditDistanceLimit)
		result := line
		if len(candidates) > 0 {
			result = candidates[0].Sentence
		}
		fmt.Fprintln(outFile, result)
	}
	log.Infof("fix: wrote %s", outPath)
	return 0
}

func runDumpVocab(args []string) int {
	args = setDebug(args)
	if len(args) < 3 {
		return fail("dump_vocab: usage: dump_vocab model.bin vocab.txt freq.txt")
	}
	m, err := loadedModel(args[0])
	if err != nil {
		return fail("dump_vocab: %v", err)
	}
	if err := m.DumpVocab(args[1], args[2]); err != nil {
		return fail("dump_vocab: %v", err)
	}
	log.Infof("dump_vocab: wrote %s, %s", args[1], args[2])
	return 0
}

func runFinetuneVocab(args []string) int {
	args = setDebug(args)
	if len(args) < 4 {
		return fail("finetune_vocab: usage: finetune_vocab model.bin alphabet vocab.txt out.bin")
	}
	modelPath, alphabet, corpus, out := args[0], args[1], args[2], args[3]

	m, err := loadedModel(modelPath)
	if err != nil {
		return fail("finetune_vocab: %v", err)
	}
	if err := m.FinetuneVocab(corpus, alphabet); err != nil {
		return fail("finetune_vocab: %v", err)
	}
	if err := m.Dump(out); err != nil {
		return fail("finetune_vocab: dump: %v", err)
	}
	log.Infof("finetune_vocab: wrote %s (vocab=%d)", out, m.VocabSize)
	return 0
}

func runServe(args []string) int {
	args = setDebug(args)
	if len(args) < 1 {
		return fail("serve: usage: serve model.bin")
	}
	configPath, err := config.GetDefaultConfigPath()
	if err != nil {
		return fail("serve: resolve config path: %v", err)
	}
	cfg, err := config.InitConfig(configPath)
	if err != nil {
		return fail("serve: load config: %v", err)
	}

	m, err := loadedModel(args[0])
	if err != nil {
		return fail("serve: %v", err)
	}
	m.SetK(cfg.Model.SmoothingK)

	srv := server.NewServer(m, cfg.Server.MaxCandidates)
	log.Infof("serve: model=%s vocab=%d pid=%d", args[0], m.VocabSize, os.Getpid())
	if err := srv.Start(); err != nil {
		return fail("serve: %v", err)
	}
	return 0
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			line := s[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
