package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.History.MaxEntries != 1000 || cfg.Keys.ToggleHints != "ctrl+t" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VSHELL_LOGS", "/var/tmp/vs")
	path := writeConfig(t, `
config_version: 1
theme: tokyo
shell:
  delegate: bash
hints:
  alphabet: ASDFjkl
keys:
  toggle_hints: ctrl+g
logging:
  file: $VSHELL_LOGS/vshell.log
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != "tokyo-midnight" {
		t.Fatalf("expected normalized theme, got %q", cfg.Theme)
	}
	if cfg.Shell.Delegate != "bash" || len(cfg.Shell.DelegateArgs) != 1 {
		t.Fatalf("unexpected shell config %+v", cfg.Shell)
	}
	if cfg.Hints.Alphabet != "asdfjkl" || cfg.Keys.ToggleHints != "ctrl+g" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.Logging.File != "/var/tmp/vs/vshell.log" {
		t.Fatalf("expected env expansion, got %q", cfg.Logging.File)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 3
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRequiresConfigVersion(t *testing.T) {
	path := writeConfig(t, `
theme: gruvbox
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"theme":            "config_version: 1\ntheme: neon\n",
		"alphabet":         "config_version: 1\nhints:\n  alphabet: a\n",
		"keys.pin":         "config_version: 1\nkeys:\n  pin: ctrl+t\n",
		"case-insensitive": "config_version: 1\nhints:\n  alphabet: aAb\n",
		"keys.exit":        "config_version: 1\nkeys:\n  exit: hyper+q\n",
		"input.max_rows":   "config_version: 1\ninput:\n  max_rows: 0\n",
	}
	for want, content := range cases {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s error, got %v", want, err)
		}
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
	t.Setenv("HOME", "/home/tester")
	if got := expandEnv("~/logs"); got != "/home/tester/logs" {
		t.Fatalf("expected tilde expansion, got %q", got)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("expected written defaults to load: %v", err)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
