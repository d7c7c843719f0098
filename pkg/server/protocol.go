// Package server implements a msgpack IPC surface for the model (C16):
// a request/response loop over stdin/stdout for scoring text and
// correcting sentences. Each frame on the wire is [1-byte opcode]
// [4-byte big-endian length][msgpack payload], since msgpack itself
// carries no length or type delimiter of its own.
package server

// ScoreRequest asks for a sentence's trigram log-probability.
type ScoreRequest struct {
	ID   string `msgpack:"id"`
	Text string `msgpack:"t"`
}

// ScoreResponse carries the requested score.
type ScoreResponse struct {
	ID    string  `msgpack:"id"`
	Score float64 `msgpack:"s"`
}

// CorrectRequest asks for a corrected version of a sentence.
type CorrectRequest struct {
	ID       string `msgpack:"id"`
	Text     string `msgpack:"t"`
	MaxEdits int    `msgpack:"e,omitempty"`
}

// CorrectResponse carries the best correction found.
type CorrectResponse struct {
	ID         string  `msgpack:"id"`
	Correction string  `msgpack:"c"`
	Score      float64 `msgpack:"s"`
}

// ErrorResponse reports a request that could not be serviced.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}

// Opcode identifies which request struct follows a frame's length prefix.
// msgpack itself carries no type tag, so the wire framing puts one byte
// ahead of every payload the way a length-delimited binary protocol has
// to.
type Opcode byte

const (
	OpScore   Opcode = 1
	OpCorrect Opcode = 2
)
