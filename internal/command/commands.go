package command

import (
	"fmt"
	"strconv"

	"pkt.systems/vshell/schema"
)

// Kind identifies a resolved command.
type Kind int

const (
	Quit Kind = iota
	Select
	Pin
	Dir
	JumpBefore
	JumpAfter
	Change
	Copy
	CopyOutput
	Paste
	ToggleHints
	ShellExecute
	ReplaceSingle
	ReplaceGlobal
	Find
	FindCase
	Clear
	Help
)

// Def describes one command for resolution and help output.
type Def struct {
	Kind    Kind
	Names   []string
	Usage   string
	Summary string
}

// Table lists every command in help order.
var Table = []Def{
	{Quit, []string{"q", "quit", "exit"}, ":q", "leave the shell"},
	{Select, []string{"s", "select"}, ":s [n]", "load history entry n into the line"},
	{Pin, []string{"pin"}, ":pin [n]", "pin or unpin history entry n (default: recalled entry)"},
	{Dir, []string{"d", "dir"}, ":d <n>", "change to directory history entry n"},
	{JumpBefore, []string{"jb", "jumpbefore"}, ":jb [code]", "move the cursor before a hint (default: line start)"},
	{JumpAfter, []string{"ja", "jumpafter"}, ":ja [code]", "move the cursor after a hint (default: line end)"},
	{Change, []string{"c", "change"}, ":c <code>[,<code>]", "edit a hinted word or range in place"},
	{Copy, []string{"y", "copy"}, ":y <code>", "copy hinted text to the clipboard"},
	{CopyOutput, []string{"co", "copyoutput"}, ":co", "copy the last command's output to the clipboard"},
	{Paste, []string{"p", "paste"}, ":p", "insert clipboard text at the cursor"},
	{ToggleHints, []string{"th", "togglehints"}, ":th", "always show hints while editing"},
	{ShellExecute, []string{"se", "shellexecute"}, ":se <shell> [line]", "run the line once through the given shell"},
	{ReplaceSingle, []string{"rs", "replacesingle"}, ":rs <from>,<to>", "replace the first match in the line"},
	{ReplaceGlobal, []string{"rg", "replaceglobal"}, ":rg <from>,<to>", "replace every match in the line"},
	{Find, []string{"f", "find"}, ":f [text]", "highlight matches as hints (no text clears)"},
	{FindCase, []string{"fc", "findcase"}, ":fc [text]", "case-sensitive find"},
	{Clear, []string{"clear"}, ":clear", "clear the scrollback"},
	{Help, []string{"h", "help"}, ":h", "list commands"},
}

var byName = func() map[string]Kind {
	out := make(map[string]Kind)
	for _, def := range Table {
		for _, name := range def.Names {
			out[name] = def.Kind
		}
	}
	return out
}()

// Resolve maps a parsed command name to its kind.
func Resolve(cmd Command) (Kind, error) {
	if cmd.Name == "" {
		return 0, fmt.Errorf("%w: empty command", schema.ErrInvalidCommand)
	}
	kind, ok := byName[cmd.Name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown command %q (try :h)", schema.ErrInvalidCommand, cmd.Name)
	}
	return kind, nil
}

// Index parses an optional non-negative index argument.
func Index(cmd Command) (int, bool, error) {
	if len(cmd.Args) == 0 {
		return 0, false, nil
	}
	n, err := strconv.Atoi(cmd.Args[0])
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("%w: %q is not an index", schema.ErrInvalidCommand, cmd.Args[0])
	}
	return n, true, nil
}

// LineEditingNote ends the help text. A submitted ":" line replaces the input
// line, so commands that edit it only work from the prompt.
const LineEditingNote = "note: :rs :rg :c :jb :ja and :se without a line edit or run the input line; give them from the esc prompt"

// HelpLines renders the command list.
func HelpLines() []string {
	width := 0
	for _, def := range Table {
		if len(def.Usage) > width {
			width = len(def.Usage)
		}
	}
	lines := make([]string, 0, len(Table)+2)
	lines = append(lines, "commands (esc opens the prompt; a line starting with : also works):")
	for _, def := range Table {
		lines = append(lines, fmt.Sprintf("  %-*s  %s", width, def.Usage, def.Summary))
	}
	return append(lines, LineEditingNote)
}
