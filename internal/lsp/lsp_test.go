package lsp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func frame(body string) []byte {
	return []byte(fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body))
}

func readAllMessages(t *testing.T, data []byte) [][]byte {
	t.Helper()
	r := bufio.NewReader(bytes.NewReader(data))
	var out [][]byte
	for {
		body, err := readMessage(r)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, body)
	}
}

func runOneRoundTrip(t *testing.T, requests ...string) [][]byte {
	t.Helper()
	var in bytes.Buffer
	for _, r := range requests {
		in.Write(frame(r))
	}
	var out bytes.Buffer

	s := NewServer(nil)
	s.Run(&in, &out)

	return readAllMessages(t, out.Bytes())
}

func TestInitializeRespondsWithCapabilities(t *testing.T) {
	responses := runOneRoundTrip(t,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"shutdown","id":2}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	)
	require.Len(t, responses, 2)

	initResp := gjson.ParseBytes(responses[0])
	require.Equal(t, float64(1), initResp.Get("id").Float())
	require.Equal(t, float64(1), initResp.Get("result.capabilities.textDocumentSync").Float())
	require.True(t, initResp.Get("result.capabilities.hoverProvider").Bool())

	shutdownResp := gjson.ParseBytes(responses[1])
	require.Equal(t, gjson.Null, shutdownResp.Get("result").Type)
}

func TestShutdownThenExitYieldsZeroExitCode(t *testing.T) {
	var in bytes.Buffer
	in.Write(frame(`{"jsonrpc":"2.0","id":1,"method":"shutdown"}`))
	in.Write(frame(`{"jsonrpc":"2.0","method":"exit"}`))
	var out bytes.Buffer

	s := NewServer(nil)
	code := s.Run(&in, &out)
	require.Equal(t, 0, code)
}

func TestExitWithoutShutdownYieldsNonzeroExitCode(t *testing.T) {
	var in bytes.Buffer
	in.Write(frame(`{"jsonrpc":"2.0","method":"exit"}`))
	var out bytes.Buffer

	s := NewServer(nil)
	code := s.Run(&in, &out)
	require.Equal(t, 1, code)
}

func TestDidOpenTracksDocumentAndPublishesEmptyDiagnostics(t *testing.T) {
	responses := runOneRoundTrip(t,
		`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///a.dy","text":"x"}}}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	)
	require.Len(t, responses, 1)

	diag := gjson.ParseBytes(responses[0])
	require.Equal(t, "textDocument/publishDiagnostics", diag.Get("method").String())
	require.Equal(t, "file:///a.dy", diag.Get("params.uri").String())
	require.True(t, diag.Get("params.diagnostics").IsArray())
	require.Len(t, diag.Get("params.diagnostics").Array(), 0)
}

func TestHoverOnUnknownDocumentIsInvalidRequest(t *testing.T) {
	responses := runOneRoundTrip(t,
		`{"jsonrpc":"2.0","id":3,"method":"textDocument/hover","params":{"textDocument":{"uri":"file:///missing.dy"},"position":{"line":0,"character":0}}}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	)
	require.Len(t, responses, 1)
	resp := gjson.ParseBytes(responses[0])
	require.Equal(t, float64(-32600), resp.Get("error.code").Float())
}

func TestHoverOnOpenDocumentReturnsNullSuccess(t *testing.T) {
	responses := runOneRoundTrip(t,
		`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///a.dy","text":"x"}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"textDocument/hover","params":{"textDocument":{"uri":"file:///a.dy"},"position":{"line":0,"character":0}}}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	)
	require.Len(t, responses, 2)
	hoverResp := gjson.ParseBytes(responses[1])
	require.Equal(t, float64(4), hoverResp.Get("id").Float())
	require.Equal(t, gjson.Null, hoverResp.Get("result").Type)
}

func TestDidChangeReplacesWholeDocumentText(t *testing.T) {
	responses := runOneRoundTrip(t,
		`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///a.dy","text":"x"}}}`,
		`{"jsonrpc":"2.0","method":"textDocument/didChange","params":{"textDocument":{"uri":"file:///a.dy"},"contentChanges":[{"text":"y"}]}}`,
		`{"jsonrpc":"2.0","id":5,"method":"textDocument/hover","params":{"textDocument":{"uri":"file:///a.dy"},"position":{"line":0,"character":0}}}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	)
	require.Len(t, responses, 3)
	hoverResp := gjson.ParseBytes(responses[2])
	require.Equal(t, gjson.Null, hoverResp.Get("result").Type)
}
