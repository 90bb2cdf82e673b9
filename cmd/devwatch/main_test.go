package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigPath(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		if got := resolveConfigPath("custom.yaml"); got != "custom.yaml" {
			t.Fatalf("unexpected path %q", got)
		}
	})

	t.Run("falls back to working directory file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, defaultConfigFile), []byte("debounce: 100ms\n"), 0o600); err != nil {
			t.Fatalf("write config file: %v", err)
		}
		t.Chdir(dir)

		if got := resolveConfigPath(""); got != defaultConfigFile {
			t.Fatalf("expected %q, got %q", defaultConfigFile, got)
		}
	})

	t.Run("empty when nothing exists", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if got := resolveConfigPath(""); got != "" {
			t.Fatalf("expected empty path, got %q", got)
		}
	})
}
