package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestWriteDefault_CreatesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, action, err := WriteDefault("/srv/logs")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if action != "created" {
		t.Errorf("action = %q, want %q", action, "created")
	}

	want := filepath.Join(dir, "logvault", "config.toml")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		t.Fatalf("written config is not valid TOML: %v", err)
	}
	if cfg.RootPath != "/srv/logs" {
		t.Errorf("RootPath = %q", cfg.RootPath)
	}
	if cfg.Classifier.Provider != "gemini" {
		t.Errorf("Classifier.Provider = %q", cfg.Classifier.Provider)
	}
	if len(cfg.Classifier.Models) != len(DefaultModels) {
		t.Errorf("Classifier.Models = %v", cfg.Classifier.Models)
	}
}

func TestWriteDefault_UpdatesExistingRootPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "logvault")
	os.MkdirAll(configDir, 0o755)

	existing := filepath.Join(configDir, "config.toml")
	os.WriteFile(existing, []byte("root_path = \"~/custom\"\n\n[classifier]\nmodel = \"gemini-1.5-pro\"\n"), 0o644)

	path, action, err := WriteDefault("/some/other/path")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if action != "updated" {
		t.Errorf("action = %q, want %q", action, "updated")
	}
	if path != existing {
		t.Errorf("path = %q, want %q", path, existing)
	}

	data, _ := os.ReadFile(existing)
	content := string(data)
	if !strings.Contains(content, `root_path = "/some/other/path"`) {
		t.Errorf("root_path not updated:\n%s", content)
	}
	if strings.Contains(content, "~/custom") {
		t.Error("old root_path still present")
	}
	if !strings.Contains(content, `model = "gemini-1.5-pro"`) {
		t.Error("other settings should be preserved")
	}
}

func TestWriteDefault_PrependsMissingRootPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "logvault")
	os.MkdirAll(configDir, 0o755)
	existing := filepath.Join(configDir, "config.toml")
	os.WriteFile(existing, []byte("[archive]\nenabled = true\n"), 0o644)

	if _, _, err := WriteDefault("/new/root"); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(existing, &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.RootPath != "/new/root" || !cfg.Archive.Enabled {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestCompressHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		input string
		want  string
	}{
		{filepath.Join(home, "logs"), "~/logs"},
		{home, "~"},
		{"/elsewhere/logs", "/elsewhere/logs"},
	}
	for _, tt := range tests {
		if got := CompressHome(tt.input); got != tt.want {
			t.Errorf("CompressHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if got := ConfigDir(); got != filepath.Join(xdg, "logvault") {
		t.Errorf("ConfigDir = %q", got)
	}
}
