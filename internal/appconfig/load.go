package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pkt.systems/vshell/internal/hint"
	"pkt.systems/vshell/schema"
	"pkt.systems/vshell/terminal"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("shell.delegate", cfg.Shell.Delegate)
	v.SetDefault("shell.delegate_args", cfg.Shell.DelegateArgs)
	v.SetDefault("scrollback.max_lines", cfg.Scrollback.MaxLines)
	v.SetDefault("history.max_entries", cfg.History.MaxEntries)
	v.SetDefault("history.panel_rows", cfg.History.PanelRows)
	v.SetDefault("directories.max_entries", cfg.Directories.MaxEntries)
	v.SetDefault("directories.panel_rows", cfg.Directories.PanelRows)
	v.SetDefault("hints.alphabet", cfg.Hints.Alphabet)
	v.SetDefault("hints.always_show", cfg.Hints.AlwaysShow)
	v.SetDefault("search.case_sensitive", cfg.Search.CaseSensitive)
	v.SetDefault("input.max_runes", cfg.Input.MaxRunes)
	v.SetDefault("input.max_rows", cfg.Input.MaxRows)
	v.SetDefault("keys.submit", cfg.Keys.Submit)
	v.SetDefault("keys.newline", cfg.Keys.Newline)
	v.SetDefault("keys.interrupt", cfg.Keys.Interrupt)
	v.SetDefault("keys.exit", cfg.Keys.Exit)
	v.SetDefault("keys.history_up", cfg.Keys.HistoryUp)
	v.SetDefault("keys.history_down", cfg.Keys.HistoryDown)
	v.SetDefault("keys.toggle_hints", cfg.Keys.ToggleHints)
	v.SetDefault("keys.jump_before", cfg.Keys.JumpBefore)
	v.SetDefault("keys.jump_after", cfg.Keys.JumpAfter)
	v.SetDefault("keys.copy_hint", cfg.Keys.CopyHint)
	v.SetDefault("keys.edit_hint", cfg.Keys.EditHint)
	v.SetDefault("keys.pin", cfg.Keys.Pin)
	v.SetDefault("keys.cancel", cfg.Keys.Cancel)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and normalizes the theme name and hint alphabet.
func Validate(cfg *Config) error {
	theme, ok := schema.NormalizeThemeName(cfg.Theme)
	if !ok {
		return fmt.Errorf("unsupported theme %q", cfg.Theme)
	}
	cfg.Theme = string(theme)
	alphabet, err := hint.NewAlphabet(cfg.Hints.Alphabet)
	if err != nil {
		return fmt.Errorf("hints.alphabet: %w", err)
	}
	cfg.Hints.Alphabet = string(alphabet)
	positive := []struct {
		key   string
		value int
	}{
		{"scrollback.max_lines", cfg.Scrollback.MaxLines},
		{"history.max_entries", cfg.History.MaxEntries},
		{"directories.max_entries", cfg.Directories.MaxEntries},
		{"input.max_runes", cfg.Input.MaxRunes},
		{"input.max_rows", cfg.Input.MaxRows},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.key)
		}
	}
	if cfg.History.PanelRows < 0 || cfg.Directories.PanelRows < 0 {
		return fmt.Errorf("panel_rows must not be negative")
	}
	seen := make(map[string]string)
	for _, binding := range cfg.Keys.Bindings() {
		key, err := terminal.ParseKeyName(binding[1])
		if err != nil {
			return fmt.Errorf("keys.%s: %w", binding[0], err)
		}
		name := key.Name()
		if other, ok := seen[name]; ok {
			return fmt.Errorf("keys.%s and keys.%s are both bound to %s", other, binding[0], name)
		}
		seen[name] = binding[0]
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Shell.Delegate = expandEnv(cfg.Shell.Delegate)
	cfg.Logging.File = expandEnv(cfg.Logging.File)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, strings.TrimPrefix(value, "~"))
		}
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
