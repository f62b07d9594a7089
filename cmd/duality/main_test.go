package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/duality-lang/duality/internal/config"
)

var testCfg = &config.Config{MaxRecursionUnfoldings: config.DefaultMaxRecursionUnfoldings}

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "program.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestRunPipelineSucceedsOnIdentityAppliedToVoid(t *testing.T) {
	program := `{
		"kind": "juxtaposition",
		"func": {
			"kind": "function",
			"positive": true,
			"name": "x",
			"type": {"kind": "any"},
			"body": {"kind": "variable", "name": "x"}
		},
		"arg": {"kind": "void"}
	}`

	path := writeFixture(t, program)
	if code := runPipeline([]string{path}, testCfg); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRunPipelineFailsOnMalformedJSON(t *testing.T) {
	path := writeFixture(t, "{not json")
	if code := runPipeline([]string{path}, testCfg); code != -1 {
		t.Fatalf("expected exit code -1 for a parse error, got %d", code)
	}
}

func TestRunPipelineFailsOnMissingFile(t *testing.T) {
	if code := runPipeline([]string{"/nonexistent/path/program.json"}, testCfg); code != -1 {
		t.Fatalf("expected exit code -1 for a missing file, got %d", code)
	}
}

func TestRunPipelineFailsOnUnboundVariable(t *testing.T) {
	path := writeFixture(t, `{"kind": "variable", "name": "y"}`)
	if code := runPipeline([]string{path}, testCfg); code != -1 {
		t.Fatalf("expected exit code -1 for an unbound variable, got %d", code)
	}
}
