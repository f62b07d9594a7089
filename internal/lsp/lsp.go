// Package lsp implements a minimal JSON-RPC 2.0 subset over stdio: the
// handshake (initialize/initialized/shutdown/exit) plus
// textDocument/didOpen, didChange, didClose and hover, with
// Content-Length framing. Document sync is full-document (no
// incremental ranges): a didChange replaces the whole stored text.
//
// There is no surface-syntax parser in this tree, so hover on an open
// document answers a null success response (a URI that was never
// opened gets an invalid-request error) and publishDiagnostics always
// reports an empty diagnostics array — the wiring a real type checker
// would hang diagnostics off of is in place, it simply has nothing
// upstream of it yet that turns document text into a checked tree.
package lsp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Server holds the open-document store and the JSON-RPC session state
// a single stdio connection accumulates.
type Server struct {
	sessionID        uuid.UUID
	documents        map[string]string
	receivedShutdown bool
	exitCode         int
	logf             func(format string, args ...any)
}

// NewServer returns a Server with exit code 1 (error) until a
// well-formed shutdown/exit sequence completes, matching a connection
// that is killed before the handshake finishes.
func NewServer(logf func(format string, args ...any)) *Server {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Server{
		sessionID: uuid.New(),
		documents: make(map[string]string),
		exitCode:  1,
		logf:      logf,
	}
}

// Run drives the read-handle-write loop over in/out until the stream
// ends or an exit notification is received, and returns the process
// exit code.
func (s *Server) Run(in io.Reader, out io.Writer) int {
	s.logf("lsp: session %s starting", s.sessionID)
	reader := bufio.NewReader(in)

	for {
		body, err := readMessage(reader)
		if err != nil {
			if err == io.EOF {
				return s.exitCode
			}
			s.logf("lsp: framing error: %v", err)
			return s.exitCode
		}

		response, done := s.handle(body)
		if len(response) > 0 {
			if err := writeMessage(out, response); err != nil {
				s.logf("lsp: write error: %v", err)
				return s.exitCode
			}
		}
		if done {
			return s.exitCode
		}
	}
}

// readMessage reads one "Content-Length: N\r\n\r\n<N bytes>" frame.
func readMessage(r *bufio.Reader) ([]byte, error) {
	var contentLength int
	sawLength := false

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // blank line ends the header block
		}
		if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("lsp: malformed Content-Length header %q: %w", line, err)
			}
			contentLength = n
			sawLength = true
		}
	}

	if !sawLength {
		return nil, fmt.Errorf("lsp: message frame missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

func writeMessage(w io.Writer, body []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// handle dispatches one decoded JSON-RPC message and reports whether
// the connection should close after this message.
func (s *Server) handle(body []byte) (response []byte, done bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}

	method := gjson.GetBytes(body, "method").String()
	idRaw := gjson.GetBytes(body, "id").Raw
	params := gjson.GetBytes(body, "params")

	switch method {
	case "initialize":
		return s.initializeResponse(idRaw), false

	case "initialized":
		return nil, false

	case "shutdown":
		s.receivedShutdown = true
		return nullSuccessResponse(idRaw), false

	case "exit":
		if s.receivedShutdown {
			s.exitCode = 0
		}
		return nil, true

	case "textDocument/didOpen":
		uri := params.Get("textDocument.uri").String()
		text := params.Get("textDocument.text").String()
		s.documents[uri] = text
		return s.publishDiagnostics(uri), false

	case "textDocument/didChange":
		uri := params.Get("textDocument.uri").String()
		changes := params.Get("contentChanges")
		if changes.IsArray() && len(changes.Array()) > 0 {
			s.documents[uri] = changes.Array()[len(changes.Array())-1].Get("text").String()
		}
		return s.publishDiagnostics(uri), false

	case "textDocument/didClose":
		uri := params.Get("textDocument.uri").String()
		delete(s.documents, uri)
		return nil, false

	case "textDocument/hover":
		uri := params.Get("textDocument.uri").String()
		if _, open := s.documents[uri]; !open {
			return invalidRequestResponse(idRaw, "could not find the document"), false
		}
		return nullSuccessResponse(idRaw), false

	default:
		if idRaw == "" {
			return nil, false // a notification we don't understand; no response expected
		}
		return methodNotFoundResponse(idRaw, method), false
	}
}

// ExitCode reports the process exit code Run will return once the
// connection closes.
func (s *Server) ExitCode() int {
	return s.exitCode
}
