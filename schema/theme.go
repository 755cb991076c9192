package schema

import "strings"

// DefaultTheme is used when the config names no theme.
const DefaultTheme ThemeName = "outrun"

// themeAliases maps every accepted spelling to its canonical theme. The first
// entry of each group is the canonical name itself.
var themeAliases = [][]string{
	{"outrun", "outrun-electric"},
	{"gruvbox"},
	{"tokyo-midnight", "tokyo"},
	{"plain", "none", "mono"},
}

// AvailableThemes lists the canonical theme names in display order.
func AvailableThemes() []ThemeName {
	names := make([]ThemeName, 0, len(themeAliases))
	for _, group := range themeAliases {
		names = append(names, ThemeName(group[0]))
	}
	return names
}

// NormalizeThemeName folds case, surrounding space and underscores, then
// resolves aliases. The bool is false for unknown themes.
func NormalizeThemeName(name string) (ThemeName, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for _, group := range themeAliases {
		for _, alias := range group {
			if alias == key {
				return ThemeName(group[0]), true
			}
		}
	}
	return "", false
}
