package cli

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"unicode"
)

const (
	boxTopLeft     = "╒"
	boxTopRight    = "╕"
	boxBottomLeft  = "└"
	boxBottomRight = "┘"
	boxSide        = "│"
	boxTop         = "═"
	boxBottom      = "─"
	dividerLeft    = "┠"
	dividerMiddle  = "─"
	dividerRight   = "┨"
	ellipsis       = "…"

	boxBorders = 2
)

// DefaultTerminalWidth is used when the terminal size cannot be read.
const DefaultTerminalWidth = 80

// Box frames lines in a box width columns wide. A nil line draws a divider.
// Lines longer than the box are truncated with an ellipsis.
func Box(width int, lines ...*string) string {
	if width <= boxBorders {
		return ""
	}

	inner := width - boxBorders
	parts := []string{boxTopLeft + strings.Repeat(boxTop, inner) + boxTopRight}

	for _, line := range lines {
		if line == nil {
			parts = append(parts, dividerLeft+strings.Repeat(dividerMiddle, inner)+dividerRight)

			continue
		}

		parts = append(parts, boxSide+fit(*line, inner)+boxSide)
	}

	parts = append(parts, boxBottomLeft+strings.Repeat(boxBottom, inner)+boxBottomRight)

	return strings.Join(parts, "\n")
}

// Text returns a line for Box.
func Text(s string) *string {
	return &s
}

// Divider returns a divider line for Box.
func Divider() *string {
	return nil
}

// fit pads or truncates s to exactly width printable runes.
func fit(s string, width int) string {
	runes := make([]rune, 0, width)

	for _, r := range s {
		if unicode.IsGraphic(r) {
			runes = append(runes, r)
		}
	}

	if len(runes) > width {
		runes = append(runes[:width-1], []rune(ellipsis)...)
	}

	return string(runes) + strings.Repeat(" ", width-len(runes))
}

// TerminalWidth returns the number of columns of the controlling terminal,
// or DefaultTerminalWidth when there is none.
func TerminalWidth() int {
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return DefaultTerminalWidth
	}

	defer tty.Close() //nolint:errcheck

	// Outputs: "rows columns"
	cmd := exec.Command("stty", "size")
	cmd.Stdin = tty

	out, err := cmd.Output()
	if err != nil {
		return DefaultTerminalWidth
	}

	return parseColumns(string(out))
}

func parseColumns(size string) int {
	fields := strings.Fields(size)
	if len(fields) != 2 { //nolint:mnd
		return DefaultTerminalWidth
	}

	cols, err := strconv.Atoi(fields[1])
	if err != nil || cols <= 0 {
		return DefaultTerminalWidth
	}

	return cols
}
