package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deptrack/deptrack/pkg/gitoid"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deptrack.toml")
	content := `
result_dir = "out/adg"
algorithms = ["sha256"]

[depfile]
output = "out/build.d"
target = "build.o"

[signing]
key = "~/.ssh/id_ed25519"

[[note]]
path = "lib.o"
sha1 = "aaaa"
sha256 = "bbbb"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ResultDir != "out/adg" {
		t.Errorf("ResultDir = %q, want %q", cfg.ResultDir, "out/adg")
	}
	if cfg.Depfile.Output != "out/build.d" || cfg.Depfile.Target != "build.o" {
		t.Errorf("Depfile = %+v", cfg.Depfile)
	}
	if cfg.Signing.Key != "~/.ssh/id_ed25519" {
		t.Errorf("Signing.Key = %q", cfg.Signing.Key)
	}
	if len(cfg.Notes) != 1 || cfg.Notes[0].Path != "lib.o" || cfg.Notes[0].SHA1 != "aaaa" {
		t.Errorf("Notes = %+v", cfg.Notes)
	}

	algos, err := cfg.algorithms()
	if err != nil {
		t.Fatalf("algorithms: %v", err)
	}
	if len(algos) != 1 || algos[0] != gitoid.SHA256 {
		t.Errorf("algorithms = %v, want [sha256]", algos)
	}
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	chdirTemp(t)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	algos, err := cfg.algorithms()
	if err != nil {
		t.Fatalf("algorithms: %v", err)
	}
	if len(algos) != 2 {
		t.Errorf("default algorithms = %v, want both families", algos)
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadConfigBadAlgorithm(t *testing.T) {
	cfg := &config{Algorithms: []string{"md5"}}
	if _, err := cfg.algorithms(); err == nil {
		t.Error("expected error for unsupported algorithm name")
	}
}

func chdirTemp(t *testing.T) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}
