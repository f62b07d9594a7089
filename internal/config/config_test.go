package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileParsesAllFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	contents := "server_log_level: debug\nmax_recursion_unfoldings: 10\ncolor_output: true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.ServerLogLevel != "debug" {
		t.Fatalf("expected server_log_level debug, got %q", cfg.ServerLogLevel)
	}
	if cfg.MaxRecursionUnfoldings != 10 {
		t.Fatalf("expected max_recursion_unfoldings 10, got %d", cfg.MaxRecursionUnfoldings)
	}
	if !cfg.ColorOutput {
		t.Fatalf("expected color_output true")
	}
}

func TestLoadFileFillsDefaultMaxRecursionUnfoldingsWhenUnset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("server_log_level: info\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.MaxRecursionUnfoldings != DefaultMaxRecursionUnfoldings {
		t.Fatalf("expected default of %d, got %d", DefaultMaxRecursionUnfoldings, cfg.MaxRecursionUnfoldings)
	}
}

func TestLoadFileRejectsMissingFile(t *testing.T) {
	if _, err := LoadFile("/nonexistent/path/.duality.yaml"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoadReturnsDefaultsWhenNoConfigFilePresent(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	os.Unsetenv("DUALITY_CONFIG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxRecursionUnfoldings != DefaultMaxRecursionUnfoldings {
		t.Fatalf("expected default MaxRecursionUnfoldings, got %d", cfg.MaxRecursionUnfoldings)
	}
}

func TestDualityConfigEnvVarTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server_log_level: trace\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	os.Setenv("DUALITY_CONFIG", path)
	defer os.Unsetenv("DUALITY_CONFIG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerLogLevel != "trace" {
		t.Fatalf("expected server_log_level trace from $DUALITY_CONFIG, got %q", cfg.ServerLogLevel)
	}
}
