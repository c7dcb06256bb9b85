package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadInPlace(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load([]string{dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mode != ModeInPlace {
		t.Errorf("Mode = %v, want %v", cfg.Mode, ModeInPlace)
	}
	if cfg.InputDir != dir {
		t.Errorf("InputDir = %v, want %v", cfg.InputDir, dir)
	}
}

func TestLoadOutputDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	cfg, err := Load([]string{"-output-dir", out, dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mode != ModeOutputDir {
		t.Errorf("Mode = %v, want %v", cfg.Mode, ModeOutputDir)
	}
	if cfg.OutputDir != out {
		t.Errorf("OutputDir = %v, want %v", cfg.OutputDir, out)
	}
}

func TestLoadShard(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load([]string{"-shard", "7", dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mode != ModeShard || cfg.Shard != 7 {
		t.Errorf("Mode = %v, Shard = %d, want %v/7", cfg.Mode, cfg.Shard, ModeShard)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"two dirs", []string{dir, dir}},
		{"shard too large", []string{"-shard", "10", dir}},
		{"conflicting modes", []string{"-shard", "3", "-output-dir", "out", dir}},
		{"missing input dir", []string{filepath.Join(dir, "nope")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args); err == nil {
				t.Errorf("Load(%v) expected error", tt.args)
			}
		})
	}
}

func TestLoadInputNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load([]string{file}); err == nil {
		t.Error("Load() expected error for non-directory input")
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REPORT_DIR", "/tmp/reports")
	t.Setenv("METRICS_PORT", "2112")

	cfg, err := Load([]string{dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ReportDir != "/tmp/reports" {
		t.Errorf("ReportDir = %v, want /tmp/reports", cfg.ReportDir)
	}
	if cfg.MetricsPort != 2112 {
		t.Errorf("MetricsPort = %d, want 2112", cfg.MetricsPort)
	}
}
