package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// visibleWidth counts terminal cells, ignoring colour codes.
func visibleWidth(s string) int { return runewidth.StringWidth(stripANSI(s)) }

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if vw := visibleWidth(ln); vw > maxw {
			maxw = vw
		}
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln, maxw)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// Table prints rows under a header, columns padded to their widest cell.
// Right-aligned columns are listed by index in right.
func Table(w io.Writer, header []string, rows [][]string, right ...int) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = visibleWidth(h)
	}
	for _, r := range rows {
		for i := 0; i < len(r) && i < len(widths); i++ {
			if vw := visibleWidth(r[i]); vw > widths[i] {
				widths[i] = vw
			}
		}
	}
	alignRight := make(map[int]bool, len(right))
	for _, i := range right {
		alignRight[i] = true
	}
	line := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if alignRight[i] {
				parts[i] = strings.Repeat(" ", widths[i]-visibleWidth(cell)) + cell
			} else {
				parts[i] = pad(cell, widths[i])
			}
		}
		return "  " + strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	total := 0
	for _, wd := range widths {
		total += wd
	}
	total += 2 * (len(widths) - 1)

	fmt.Fprintln(w, C(current.Title, line(header)))
	fmt.Fprintln(w, "  "+strings.Repeat(current.H, total))
	for _, r := range rows {
		fmt.Fprintln(w, line(r))
	}
	fmt.Fprintln(w, "  "+strings.Repeat(current.H, total))
}

func pad(s string, width int) string {
	if vis := visibleWidth(s); vis < width {
		return s + strings.Repeat(" ", width-vis)
	}
	return s
}
