package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox(t *testing.T) {
	t.Parallel()

	out := Box(12, Text("Pager"), Divider(), Text("a very long line"), Text("tab\there"))

	assert.Equal(t, strings.Join([]string{
		"╒══════════╕",
		"│Pager     │",
		"┠──────────┨",
		"│a very lo…│",
		"│tabhere   │",
		"└──────────┘",
	}, "\n"), out)
}

func TestBoxTooNarrow(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Box(2, Text("x")))
}

func TestFit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc  ", fit("abc", 5))
	assert.Equal(t, "abcde", fit("abcde", 5))
	assert.Equal(t, "abcd…", fit("abcdef", 5))
	assert.Equal(t, "héllo", fit("héllo", 5))
}

func TestParseColumns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 120, parseColumns("40 120\n"))
	assert.Equal(t, DefaultTerminalWidth, parseColumns(""))
	assert.Equal(t, DefaultTerminalWidth, parseColumns("40 wide"))
	assert.Equal(t, DefaultTerminalWidth, parseColumns("40 0"))
}
