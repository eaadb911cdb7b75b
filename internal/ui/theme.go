package ui

import (
	"strings"

	"github.com/idilsaglam/tally/internal/model"
)

// Theme is the palette and glyph set every renderer reads through Current.
// Colours are ANSI escapes for the line-oriented screens; Priority256 holds
// the matching xterm-256 numbers for the full-screen view.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending string

	// Indexed by model.Priority.
	Priority    [3]string
	Priority256 [3]string

	StockLow, StockOut string

	BoxUnchecked, BoxChecked               string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	SymDone, SymUnchecked                  string

	mono bool
}

var themes = map[string]Theme{
	"classic": {
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		Priority:    [3]string{fgGray, fgBlue, bold + fgRed},
		Priority256: [3]string{"8", "12", "9"},
		StockLow:    fgYellow, StockOut: bold + fgRed,
		BoxUnchecked: "☐", BoxChecked: "☑",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymDone: "✔", SymUnchecked: "•",
	},
	"neon": {
		Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
		Success: fgGreen, Error: fgRed, Pending: "\033[93m",
		Priority:    [3]string{"\033[96m", "\033[95m", "\033[91m"},
		Priority256: [3]string{"14", "13", "196"},
		StockLow:    "\033[93m", StockOut: "\033[91m",
		BoxUnchecked: "◻", BoxChecked: "◼",
		CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
		H: "─", V: "│",
		SymDone: "✔", SymUnchecked: "•",
	},
	"mono": {
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
		H: "-", V: "|",
		SymDone: "x", SymUnchecked: "-",
		mono: true,
	},
}

// Themes lists the names SetTheme knows.
var Themes = []string{"classic", "neon", "mono"}

var current Theme

func init() { SetTheme("classic") }

// SetTheme switches to the named theme. Unknown names get classic.
func SetTheme(name string) {
	name = strings.ToLower(name)
	t, ok := themes[name]
	if !ok {
		name, t = "classic", themes["classic"]
	}
	t.Name = name
	current = t
	disableColor = t.mono
}

func Current() Theme { return current }

// PriorityLabel is the priority name in its theme colour.
func PriorityLabel(p model.Priority) string {
	if !p.Valid() {
		return p.String()
	}
	return C(current.Priority[p], p.String())
}

// StockLabel colours an inventory status: out-of-stock wins over low.
func StockLabel(status string, out, low bool) string {
	switch {
	case out:
		return C(current.StockOut, status)
	case low:
		return C(current.StockLow, status)
	}
	return status
}
