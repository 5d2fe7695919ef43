package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-unwrapped/internal/index"
	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
	"github.com/Zuo-Peng/chat-unwrapped/internal/search"
)

const export = "01/01/2024, 09:00 - Alice: Morning!\n" +
	"01/01/2024, 09:02 - Bob: Morning, coffee?\n" +
	"more coffee\n" +
	"01/01/2024, 09:03 - Alice: <Media omitted>\n"

func openIndex(t *testing.T) *index.DB {
	t.Helper()
	conv, err := parse.ParseString(export, parse.Options{})
	require.NoError(t, err)
	db, err := index.Build(conv)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "[2024-01-01 09:00] Alice: hi", formatMessage(&index.MessageRow{Ts: "2024-01-01 09:00", Sender: "Alice", Text: "hi"}))
	assert.Equal(t, "[2024-01-01 09:00] Bob joined", formatMessage(&index.MessageRow{Ts: "2024-01-01 09:00", Text: "Bob joined"}))
	assert.Equal(t, "a ...", firstLine("a\nb"))
	assert.Equal(t, "a", firstLine("a"))
}

func TestFormatResultLine(t *testing.T) {
	lines := formatResultLine(search.Result{
		Ts:      "2024-01-01 09:03",
		Sender:  "Alice",
		Kind:    index.KindMedia,
		Snippet: "<Media\nomitted>",
	}, 60, true)
	require.Len(t, lines, linesPerItem)
	assert.Contains(t, lines[0], "01-01 09:03")
	assert.Contains(t, lines[0], "Alice")
	assert.Contains(t, lines[0], index.KindMedia)
	assert.Contains(t, lines[1], "<Media omitted>")
}

func TestModelBrowseAndSelect(t *testing.T) {
	db := openIndex(t)
	m := initialModel(db, "", search.Options{})

	msg := m.doSearch("")()
	res, ok := msg.(searchResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)
	require.Len(t, res.results, 3)

	next, _ := m.Update(res)
	m = next.(model)
	assert.Equal(t, 0, m.cursor)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	assert.Equal(t, 1, m.cursor)

	// a preview for a message no longer under the cursor is dropped
	next, _ = m.Update(previewRenderedMsg{messageID: 0, content: "stale"})
	m = next.(model)
	assert.Equal(t, -1, m.previewID)

	next, _ = m.Update(previewRenderedMsg{messageID: 1, content: "fresh"})
	m = next.(model)
	assert.Equal(t, 1, m.previewID)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NotNil(t, cmd)
	require.NotNil(t, m.selected)
	assert.Equal(t, 1, m.selected.ID)
	assert.True(t, m.quitting)
}

func TestModelIgnoresStaleSearch(t *testing.T) {
	db := openIndex(t)
	m := initialModel(db, "coffee", search.Options{})

	next, _ := m.Update(searchResultMsg{query: "morning", results: []search.Result{{ID: 0}}})
	m = next.(model)
	assert.Empty(t, m.results)

	res := m.doSearch("coffee")().(searchResultMsg)
	require.NoError(t, res.err)
	next, _ = m.Update(res)
	m = next.(model)
	require.Len(t, m.results, 1)
	assert.Equal(t, "Bob", m.results[0].Sender)
}

func TestModelFirstLast(t *testing.T) {
	db := openIndex(t)
	m := initialModel(db, "", search.Options{})
	next, _ := m.Update(m.doSearch("")())
	m = next.(model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	m = next.(model)
	assert.Equal(t, 2, m.cursor)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyHome})
	m = next.(model)
	assert.Equal(t, 0, m.cursor)

	assert.Contains(t, m.statusBar(), "3 messages")
	assert.Contains(t, m.statusBar(), "enter copy")
}
