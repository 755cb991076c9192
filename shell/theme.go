package shell

import (
	"strconv"

	"pkt.systems/vshell/schema"
)

type rgb struct {
	r int
	g int
	b int
}

type palette struct {
	Name      schema.ThemeName
	StatusBG  rgb
	StatusFG  rgb
	ErrorFG   rgb
	StderrFG  rgb
	MetaFG    rgb
	CommandFG rgb
	PromptFG  rgb
	SpinnerFG rgb
	PinnedFG  rgb
	PanelFG   rgb
	HintBG    rgb
	HintFG    rgb
	MatchBG   rgb
	NoticeFG  rgb
}

// theme holds the ready-made escape prefixes for each element. The plain
// theme leaves every prefix empty.
type theme struct {
	status  string
	errorLn string
	stderr  string
	meta    string
	command string
	prompt  string
	spinner string
	pinned  string
	panel   string
	hint    string
	hintDim string
	match   string
	notice  string
}

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
)

var palettes = map[schema.ThemeName]palette{
	"outrun": {
		Name:      "outrun",
		StatusBG:  rgb{r: 32, g: 8, b: 56},
		StatusFG:  rgb{r: 240, g: 241, b: 255},
		ErrorFG:   rgb{r: 255, g: 107, b: 107},
		StderrFG:  rgb{r: 255, g: 91, b: 189},
		MetaFG:    rgb{r: 154, g: 163, b: 178},
		CommandFG: rgb{r: 112, g: 214, b: 255},
		PromptFG:  rgb{r: 255, g: 255, b: 255},
		SpinnerFG: rgb{r: 110, g: 136, b: 255},
		PinnedFG:  rgb{r: 255, g: 91, b: 189},
		PanelFG:   rgb{r: 154, g: 182, b: 255},
		HintBG:    rgb{r: 0, g: 229, b: 255},
		HintFG:    rgb{r: 10, g: 13, b: 23},
		MatchBG:   rgb{r: 60, g: 79, b: 184},
		NoticeFG:  rgb{r: 255, g: 214, b: 102},
	},
	"gruvbox": {
		Name:      "gruvbox",
		StatusBG:  rgb{r: 60, g: 56, b: 54},
		StatusFG:  rgb{r: 235, g: 219, b: 178},
		ErrorFG:   rgb{r: 251, g: 73, b: 52},
		StderrFG:  rgb{r: 211, g: 134, b: 155},
		MetaFG:    rgb{r: 146, g: 131, b: 116},
		CommandFG: rgb{r: 250, g: 189, b: 47},
		PromptFG:  rgb{r: 255, g: 255, b: 255},
		SpinnerFG: rgb{r: 131, g: 165, b: 152},
		PinnedFG:  rgb{r: 214, g: 93, b: 14},
		PanelFG:   rgb{r: 131, g: 165, b: 152},
		HintBG:    rgb{r: 250, g: 189, b: 47},
		HintFG:    rgb{r: 40, g: 40, b: 40},
		MatchBG:   rgb{r: 75, g: 110, b: 166},
		NoticeFG:  rgb{r: 254, g: 128, b: 25},
	},
	"tokyo-midnight": {
		Name:      "tokyo-midnight",
		StatusBG:  rgb{r: 26, g: 27, b: 38},
		StatusFG:  rgb{r: 192, g: 202, b: 245},
		ErrorFG:   rgb{r: 247, g: 118, b: 142},
		StderrFG:  rgb{r: 187, g: 154, b: 247},
		MetaFG:    rgb{r: 127, g: 133, b: 163},
		CommandFG: rgb{r: 158, g: 206, b: 106},
		PromptFG:  rgb{r: 255, g: 255, b: 255},
		SpinnerFG: rgb{r: 122, g: 162, b: 247},
		PinnedFG:  rgb{r: 187, g: 154, b: 247},
		PanelFG:   rgb{r: 125, g: 207, b: 255},
		HintBG:    rgb{r: 122, g: 162, b: 247},
		HintFG:    rgb{r: 26, g: 27, b: 38},
		MatchBG:   rgb{r: 59, g: 79, b: 159},
		NoticeFG:  rgb{r: 224, g: 175, b: 104},
	},
}

func themeForName(name schema.ThemeName) theme {
	if name == "plain" {
		return theme{}
	}
	if name == "" {
		name = schema.DefaultTheme
	}
	p, ok := palettes[name]
	if !ok {
		p = palettes[schema.DefaultTheme]
	}
	return theme{
		status:  ansiBgRGB(p.StatusBG) + ansiFgRGB(p.StatusFG),
		errorLn: ansiFgRGB(p.ErrorFG),
		stderr:  ansiFgRGB(p.StderrFG),
		meta:    ansiFgRGB(p.MetaFG),
		command: ansiBold + ansiFgRGB(p.CommandFG),
		prompt:  ansiBold + ansiFgRGB(p.PromptFG),
		spinner: ansiFgRGB(p.SpinnerFG),
		pinned:  ansiFgRGB(p.PinnedFG),
		panel:   ansiFgRGB(p.PanelFG),
		hint:    ansiBold + ansiBgRGB(p.HintBG) + ansiFgRGB(p.HintFG),
		hintDim: ansiDim + ansiBgRGB(p.HintBG) + ansiFgRGB(p.HintFG),
		match:   ansiBgRGB(p.MatchBG),
		notice:  ansiFgRGB(p.NoticeFG),
	}
}

func (t theme) forKind(kind schema.LineKind) string {
	switch kind {
	case schema.LineStderr:
		return t.stderr
	case schema.LineCommand:
		return t.command
	case schema.LineStatus, schema.LineInfo:
		return t.meta
	case schema.LineError:
		return t.errorLn
	default:
		return ""
	}
}

func ansiFgRGB(c rgb) string {
	return "\x1b[38;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}

func ansiBgRGB(c rgb) string {
	return "\x1b[48;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}
