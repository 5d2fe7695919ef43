package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-unwrapped/internal/index"
	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
	"github.com/Zuo-Peng/chat-unwrapped/internal/stats"
)

func TestWrapLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  []string
	}{
		{"no wrap", "hello world", 0, []string{"hello world"}},
		{"fits", "hello", 10, []string{"hello"}},
		{"splits", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"ansi is zero width", "\033[1mabc\033[0m", 3, []string{"\033[1mabc\033[0m"}},
		{"empty", "", 5, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapLine(tt.line, tt.width))
		})
	}

	for _, l := range wrapLine("你好世界", 4) {
		assert.LessOrEqual(t, runewidth.StringWidth(l), 4)
	}
}

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Tent AND tent", "tent AND")
	assert.Equal(t, colorBoldRed+"Tent"+colorReset+" AND "+colorBoldRed+"tent"+colorReset, got)
	assert.Equal(t, "plain", highlightKeywords("plain", ""))
}

func buildDB(t *testing.T, raw string) *index.DB {
	t.Helper()
	conv, err := parse.ParseString(raw, parse.Options{Source: "chat.txt"})
	require.NoError(t, err)
	db, err := index.Build(conv)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRenderContext(t *testing.T) {
	var b strings.Builder
	b.WriteString("01/01/2024, 09:00 - Alice added Bob\n")
	for i := 1; i < 30; i++ {
		sender := "Alice"
		if i%2 == 0 {
			sender = "Bob"
		}
		fmt.Fprintf(&b, "01/01/2024, 10:%02d - %s: note %d\n", i, sender, i)
	}
	db := buildDB(t, b.String())

	out, hitLine, err := RenderContext(db, Options{HitID: 15, Context: 2, Query: "note"})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), hitLine)
	assert.Contains(t, lines[hitLine], ">> Alice > 2024-01-01 10:15 <<")
	assert.Contains(t, out, "chat.txt (30 messages)")
	assert.Contains(t, out, "(13 messages before)")
	assert.Contains(t, out, "(12 messages after)")
	assert.Contains(t, out, colorBoldRed+"note"+colorReset+" 15")
	assert.NotContains(t, out, " 12\n")

	out, _, err = RenderContext(db, Options{HitID: 0, Context: 1})
	require.NoError(t, err)
	assert.Contains(t, out, "system")
}

func TestSummary(t *testing.T) {
	conv, err := parse.ParseString(`01/01/2024, 09:00 - Alice: Morning
01/01/2024, 09:04 - Bob: hey
01/01/2024, 13:10 - Alice: lunch?
03/01/2024, 08:00 - Bob: sorry
`, parse.Options{})
	require.NoError(t, err)
	s, err := stats.Analyze(conv, stats.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, s))
	out := buf.String()

	assert.Contains(t, out, "1-on-1")
	assert.Contains(t, out, "Alice: 2 (50.0%)")
	assert.Contains(t, out, "Jan 01, 2024 - Jan 03, 2024 (3 days, 2 active)")
	assert.Contains(t, out, "Most likely to start: Alice (2 times)")
	assert.Contains(t, out, "Alice: 4.1 hours")
	assert.Contains(t, out, "Bob: ")
	assert.NotContains(t, out, "\033[", "no escape codes outside a terminal")
}

func TestCommas(t *testing.T) {
	assert.Equal(t, "0", commas(0))
	assert.Equal(t, "999", commas(999))
	assert.Equal(t, "1,000", commas(1000))
	assert.Equal(t, "12,345,678", commas(12345678))
	assert.Equal(t, "-1,234", commas(-1234))
}
