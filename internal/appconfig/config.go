package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/vshell/core"
	"pkt.systems/vshell/internal/hint"
	"pkt.systems/vshell/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int               `mapstructure:"config_version" yaml:"config_version"`
	Theme         string            `mapstructure:"theme" yaml:"theme"`
	Shell         ShellConfig       `mapstructure:"shell" yaml:"shell"`
	Scrollback    ScrollbackConfig  `mapstructure:"scrollback" yaml:"scrollback"`
	History       HistoryConfig     `mapstructure:"history" yaml:"history"`
	Directories   DirectoriesConfig `mapstructure:"directories" yaml:"directories"`
	Hints         HintsConfig       `mapstructure:"hints" yaml:"hints"`
	Search        SearchConfig      `mapstructure:"search" yaml:"search"`
	Input         InputConfig       `mapstructure:"input" yaml:"input"`
	Keys          KeysConfig        `mapstructure:"keys" yaml:"keys"`
	Logging       LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// ShellConfig selects the delegate shell. An empty delegate runs programs
// directly.
type ShellConfig struct {
	Delegate     string   `mapstructure:"delegate" yaml:"delegate"`
	DelegateArgs []string `mapstructure:"delegate_args" yaml:"delegate_args"`
}

// ScrollbackConfig bounds retained output.
type ScrollbackConfig struct {
	MaxLines int `mapstructure:"max_lines" yaml:"max_lines"`
}

// HistoryConfig bounds command history and its panel.
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries"`
	PanelRows  int `mapstructure:"panel_rows" yaml:"panel_rows"`
}

// DirectoriesConfig bounds directory history and its panel.
type DirectoriesConfig struct {
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries"`
	PanelRows  int `mapstructure:"panel_rows" yaml:"panel_rows"`
}

// HintsConfig controls hint codes.
type HintsConfig struct {
	Alphabet   string `mapstructure:"alphabet" yaml:"alphabet"`
	AlwaysShow bool   `mapstructure:"always_show" yaml:"always_show"`
}

// SearchConfig controls the default find mode.
type SearchConfig struct {
	CaseSensitive bool `mapstructure:"case_sensitive" yaml:"case_sensitive"`
}

// InputConfig bounds the command line.
type InputConfig struct {
	MaxRunes int `mapstructure:"max_runes" yaml:"max_runes"`
	MaxRows  int `mapstructure:"max_rows" yaml:"max_rows"`
}

// KeysConfig maps actions to key names such as "ctrl+t" or "up".
type KeysConfig struct {
	Submit      string `mapstructure:"submit" yaml:"submit"`
	Newline     string `mapstructure:"newline" yaml:"newline"`
	Interrupt   string `mapstructure:"interrupt" yaml:"interrupt"`
	Exit        string `mapstructure:"exit" yaml:"exit"`
	HistoryUp   string `mapstructure:"history_up" yaml:"history_up"`
	HistoryDown string `mapstructure:"history_down" yaml:"history_down"`
	ToggleHints string `mapstructure:"toggle_hints" yaml:"toggle_hints"`
	JumpBefore  string `mapstructure:"jump_before" yaml:"jump_before"`
	JumpAfter   string `mapstructure:"jump_after" yaml:"jump_after"`
	CopyHint    string `mapstructure:"copy_hint" yaml:"copy_hint"`
	EditHint    string `mapstructure:"edit_hint" yaml:"edit_hint"`
	Pin         string `mapstructure:"pin" yaml:"pin"`
	Cancel      string `mapstructure:"cancel" yaml:"cancel"`
}

// Bindings returns the action to key name pairs in a fixed order.
func (k KeysConfig) Bindings() [][2]string {
	return [][2]string{
		{"submit", k.Submit},
		{"newline", k.Newline},
		{"interrupt", k.Interrupt},
		{"exit", k.Exit},
		{"history_up", k.HistoryUp},
		{"history_down", k.HistoryDown},
		{"toggle_hints", k.ToggleHints},
		{"jump_before", k.JumpBefore},
		{"jump_after", k.JumpAfter},
		{"copy_hint", k.CopyHint},
		{"edit_hint", k.EditHint},
		{"pin", k.Pin},
		{"cancel", k.Cancel},
	}
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// DefaultKeys returns the default key bindings.
func DefaultKeys() KeysConfig {
	return KeysConfig{
		Submit:      "enter",
		Newline:     "ctrl+j",
		Interrupt:   "ctrl+c",
		Exit:        "ctrl+d",
		HistoryUp:   "up",
		HistoryDown: "down",
		ToggleHints: "ctrl+t",
		JumpBefore:  "ctrl+b",
		JumpAfter:   "ctrl+f",
		CopyHint:    "ctrl+y",
		EditHint:    "ctrl+e",
		Pin:         "ctrl+p",
		Cancel:      "esc",
	}
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Theme:         string(schema.DefaultTheme),
		Shell: ShellConfig{
			Delegate:     "",
			DelegateArgs: []string{"-c"},
		},
		Scrollback: ScrollbackConfig{
			MaxLines: core.DefaultScrollbackLines,
		},
		History: HistoryConfig{
			MaxEntries: core.DefaultHistoryEntries,
			PanelRows:  6,
		},
		Directories: DirectoriesConfig{
			MaxEntries: core.DefaultDirectoryEntries,
			PanelRows:  3,
		},
		Hints: HintsConfig{
			Alphabet:   hint.DefaultAlphabet,
			AlwaysShow: false,
		},
		Search: SearchConfig{
			CaseSensitive: false,
		},
		Input: InputConfig{
			MaxRunes: core.DefaultMaxInputRunes,
			MaxRows:  6,
		},
		Keys: DefaultKeys(),
		Logging: LoggingConfig{
			File:       filepath.Join(home, ".vshell", "vshell.log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vshell", "config.yaml"), nil
}
