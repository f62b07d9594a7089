package lsp

import (
	"github.com/tidwall/sjson"

	"github.com/duality-lang/duality/internal/wire"
)

// rawID inserts idRaw (already-valid JSON: a number, string or null)
// as-is rather than re-encoding it, since a JSON-RPC id's type is
// whatever the client chose.
func rawID(data []byte, idRaw string) []byte {
	if idRaw == "" {
		idRaw = "null"
	}
	out, err := sjson.SetRawBytes(data, "id", []byte(idRaw))
	if err != nil {
		return data
	}
	return out
}

func envelope(idRaw string) []byte {
	data := []byte("{}")
	data, _ = sjson.SetBytes(data, "jsonrpc", "2.0")
	return rawID(data, idRaw)
}

func (s *Server) initializeResponse(idRaw string) []byte {
	data := envelope(idRaw)
	data, _ = sjson.SetBytes(data, "result.capabilities.textDocumentSync", 1)
	data, _ = sjson.SetBytes(data, "result.capabilities.hoverProvider", true)
	data, _ = sjson.SetBytes(data, "result.serverInfo.name", "duality")
	data, _ = sjson.SetBytes(data, "result.serverInfo.sessionId", s.sessionID.String())
	return data
}

func nullSuccessResponse(idRaw string) []byte {
	data := envelope(idRaw)
	data, _ = sjson.SetRawBytes(data, "result", []byte("null"))
	return data
}

func invalidRequestResponse(idRaw, message string) []byte {
	data := envelope(idRaw)
	data, _ = sjson.SetBytes(data, "error.code", -32600)
	data, _ = sjson.SetBytes(data, "error.message", message)
	return data
}

func methodNotFoundResponse(idRaw, method string) []byte {
	data := envelope(idRaw)
	data, _ = sjson.SetBytes(data, "error.code", -32601)
	data, _ = sjson.SetBytes(data, "error.message", "method not found: "+method)
	return data
}

// publishDiagnostics builds a textDocument/publishDiagnostics
// notification for uri. The diagnostics array itself is built through
// the tag-tree wire encoder and spliced in as raw JSON, since it's the
// one payload shape that would carry a structured Report list once a
// surface parser exists to produce one.
func (s *Server) publishDiagnostics(uri string) []byte {
	diagnostics := wire.ToText(wire.Arr())

	data := []byte("{}")
	data, _ = sjson.SetBytes(data, "jsonrpc", "2.0")
	data, _ = sjson.SetBytes(data, "method", "textDocument/publishDiagnostics")
	data, _ = sjson.SetBytes(data, "params.uri", uri)
	data, _ = sjson.SetBytes(data, "params.version", s.sessionID.String())
	data, _ = sjson.SetRawBytes(data, "params.diagnostics", diagnostics)
	return data
}
