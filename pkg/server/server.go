package server

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/spellcore/langmodel/pkg/model"
	"github.com/spellcore/langmodel/pkg/suggest"
)

// Server handles the msgpack IPC for scoring and correction. Each frame
// on the wire is [1-byte opcode][4-byte big-endian length][msgpack
// payload]; responses use the same framing with opcode 0.
type Server struct {
	model     *model.Model
	corrector *suggest.Corrector
	reader    *bufio.Reader
	writer    io.Writer
}

// NewServer builds a server around a trained/loaded model, using stdin
// and stdout for IPC.
func NewServer(m *model.Model, maxCandidates int) *Server {
	return &Server{
		model:     m,
		corrector: suggest.NewCorrector(m, maxCandidates),
		reader:    bufio.NewReader(os.Stdin),
		writer:    os.Stdout,
	}
}

// Start reads request frames until stdin closes or a fatal I/O error
// occurs.
func (s *Server) Start() error {
	log.Debug("server: starting")
	for {
		op, payload, err := s.readFrame()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("server: reading frame: %v", err)
			return err
		}
		s.dispatch(Opcode(op), payload)
	}
}

func (s *Server) readFrame() (byte, []byte, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(s.reader, header); err != nil {
		return 0, nil, err
	}
	op := header[0]
	length := binary.BigEndian.Uint32(header[1:])
	payload := make([]byte, length)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return 0, nil, err
	}
	return op, payload, nil
}

func (s *Server) dispatch(op Opcode, payload []byte) {
	switch op {
	case OpScore:
		s.handleScore(payload)
	case OpCorrect:
		s.handleCorrect(payload)
	default:
		log.Errorf("server: unknown opcode %d", op)
		s.sendError("", fmt.Sprintf("unknown opcode %d", op), 400)
	}
}

func (s *Server) handleScore(payload []byte) {
	var req ScoreRequest
	if err := msgpack.Unmarshal(payload, &req); err != nil {
		log.Errorf("server: decoding score request: %v", err)
		s.sendError("", "malformed score request", 400)
		return
	}
	resp := ScoreResponse{ID: req.ID, Score: s.model.Score(req.Text)}
	s.send(0, &resp)
}

func (s *Server) handleCorrect(payload []byte) {
	var req CorrectRequest
	if err := msgpack.Unmarshal(payload, &req); err != nil {
		log.Errorf("server: decoding correct request: %v", err)
		s.sendError("", "malformed correct request", 400)
		return
	}
	maxEdits := req.MaxEdits
	if maxEdits <= 0 {
		maxEdits = 2
	}
	candidates := s.corrector.Correct(req.Text, maxEdits)
	if len(candidates) == 0 {
		s.send(0, &CorrectResponse{ID: req.ID, Correction: req.Text, Score: s.model.Score(req.Text)})
		return
	}
	best := candidates[0]
	s.send(0, &CorrectResponse{ID: req.ID, Correction: best.Sentence, Score: best.Score})
}

func (s *Server) sendError(id, message string, code int) {
	s.send(0, &ErrorResponse{ID: id, Error: message, Code: code})
}

func (s *Server) send(op byte, v any) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		log.Errorf("server: encoding response: %v", err)
		return
	}
	header := make([]byte, 5)
	header[0] = op
	binary.BigEndian.PutUint32(header[1:], uint32(len(data)))
	if _, err := s.writer.Write(header); err != nil {
		log.Errorf("server: writing response header: %v", err)
		return
	}
	if _, err := s.writer.Write(data); err != nil {
		log.Errorf("server: writing response payload: %v", err)
	}
}
