package parse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneOnOneExport = `01/01/2024, 09:00 - Alice: Morning! Did you see https://example.com/post
01/01/2024, 09:04 - Bob: Yes
that was wild
01/01/2024, 13:10 - Alice: <Media omitted>
03/01/2024, 08:00 - Bob: This message was deleted
`

func mustParse(t *testing.T, raw string, opts Options) *Conversation {
	t.Helper()
	conv, err := ParseString(raw, opts)
	require.NoError(t, err)
	return conv
}

func TestParseOneOnOne(t *testing.T) {
	conv := mustParse(t, oneOnOneExport, Options{Source: "chat.txt"})

	require.Len(t, conv.Messages, 4)
	assert.Equal(t, ChatOneOnOne, conv.ChatType)
	assert.Equal(t, []string{"Alice", "Bob"}, conv.Participants)
	assert.Equal(t, "chat.txt", conv.Source)
	assert.Empty(t, conv.Warnings)

	first := conv.Messages[0]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, "Alice", first.Sender)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), first.Timestamp)
	assert.True(t, first.HasLink)
	assert.Equal(t, 1, first.Line)

	second := conv.Messages[1]
	assert.Equal(t, "Yes\nthat was wild", second.Text)
	assert.Equal(t, 2, second.Line)

	assert.True(t, conv.Messages[2].IsMedia)
	assert.False(t, conv.Messages[2].IsSystem)
	assert.True(t, conv.Messages[3].IsDeleted)

	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), conv.DateRange.Start)
	assert.Equal(t, time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC), conv.DateRange.End)
}

func TestParseGroupWithSystemNotices(t *testing.T) {
	raw := "\uFEFF12/03/2024, 10:00 - Messages and calls are end-to-end encrypted. No one outside of this chat can read them.\r\n" +
		"12/03/2024, 10:01 - Alice created group \"Trip\"\r\n" +
		"12/03/2024, 10:02 - Alice added Bob\r\n" +
		"12/03/2024, 10:05 - Alice: hey @\u2068Bob Smith\u2069 and @Carol!\r\n" +
		"12/03/2024, 10:06 - Bob Smith: hi\r\n" +
		"12/03/2024, 10:07 - Carol: Missed voice call\r\n" +
		"12/03/2024, 10:08 - Carol: yo @Dave\r\n" +
		"12/03/2024, 10:09 - Bob Smith: @Carol ping\r\n"

	conv := mustParse(t, raw, Options{})

	require.Len(t, conv.Messages, 8)
	assert.Equal(t, ChatGroup, conv.ChatType)
	assert.Equal(t, []string{"Alice", "Bob Smith", "Carol"}, conv.Participants)

	for _, m := range conv.Messages[:3] {
		assert.True(t, m.IsSystem, m.Text)
		assert.False(t, m.HasSender())
	}

	assert.Equal(t, []string{"Bob Smith", "Carol"}, conv.Messages[3].Mentions)
	assert.False(t, strings.HasSuffix(conv.Messages[4].Text, "\r"))

	missed := conv.Messages[5]
	assert.Equal(t, "Carol", missed.Sender)
	assert.True(t, missed.IsSystem)
	assert.False(t, missed.IsUser())

	assert.Empty(t, conv.Messages[6].Mentions, "unknown names are not mentions")
	assert.Len(t, conv.UserMessages(), 4)
}

func TestParseSubjectWithColon(t *testing.T) {
	raw := "01/01/2024, 09:00 - Alice: hi\n" +
		"01/01/2024, 09:01 - Bob: hey\n" +
		"01/01/2024, 09:02 - Alice changed the subject from \"Trip\" to \"Trip: June\"\n"

	conv := mustParse(t, raw, Options{})

	assert.Equal(t, []string{"Alice", "Bob"}, conv.Participants)
	assert.Equal(t, ChatOneOnOne, conv.ChatType)

	last := conv.Messages[2]
	assert.False(t, last.HasSender())
	assert.True(t, last.IsSystem)
	assert.Equal(t, "Alice changed the subject from \"Trip\" to \"Trip: June\"", last.Text)
	assert.Len(t, conv.UserMessages(), 2)
}

func TestParseMentionOfUnsavedContact(t *testing.T) {
	raw := "01/01/2024, 09:00 - \u202a+1 555 0100\u202c: hello all\n" +
		"01/01/2024, 09:01 - Bob: ping @\u2068+1 555 0100\u2069\n" +
		"01/01/2024, 09:02 - Carol: @Bob hi\n"

	conv := mustParse(t, raw, Options{})

	assert.Equal(t, []string{"+1 555 0100", "Bob", "Carol"}, conv.Participants)
	assert.Equal(t, "+1 555 0100", conv.Messages[0].Sender)
	assert.Equal(t, []string{"+1 555 0100"}, conv.Messages[1].Mentions)
	assert.Equal(t, []string{"Bob"}, conv.Messages[2].Mentions)
}

func TestParseExplicitChatType(t *testing.T) {
	conv := mustParse(t, oneOnOneExport, Options{ChatType: ChatGroup})
	assert.Equal(t, ChatGroup, conv.ChatType)
	assert.Empty(t, conv.Warnings)

	solo := "01/01/2024, 09:00 - Alice: talking to myself\n"
	conv = mustParse(t, solo, Options{ChatType: ChatOneOnOne})
	assert.Equal(t, ChatOneOnOne, conv.ChatType)
	assert.Len(t, conv.Warnings, 2)
}

func TestParseWarnings(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType ChatType
		contains string
	}{
		{
			name:     "single sender",
			raw:      "01/01/2024, 09:00 - Alice: note to self\n",
			wantType: ChatGroup,
			contains: "only one participant",
		},
		{
			name: "membership notice in two-person chat",
			raw: "01/01/2024, 09:00 - Alice added Bob\n" +
				"01/01/2024, 09:01 - Alice: hi\n" +
				"01/01/2024, 09:02 - Bob: hello\n",
			wantType: ChatOneOnOne,
			contains: "membership",
		},
		{
			name: "near duplicate names",
			raw: "01/01/2024, 09:00 - Alice: hi\n" +
				"01/01/2024, 09:01 - alice: hi again\n" +
				"01/01/2024, 09:02 - Bob: hello\n",
			wantType: ChatGroup,
			contains: "same person",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := mustParse(t, tt.raw, Options{})
			assert.Equal(t, tt.wantType, conv.ChatType)
			require.NotEmpty(t, conv.Warnings)
			assert.Contains(t, strings.Join(conv.Warnings, "\n"), tt.contains)
		})
	}
}

func TestParseOrphanLines(t *testing.T) {
	raw := "exported from phone\n\n01/01/2024, 09:00 - Alice: hi\n01/01/2024, 09:01 - Bob: hey\n"
	conv := mustParse(t, raw, Options{})
	assert.Equal(t, 1, conv.OrphanLines)
	assert.Len(t, conv.Messages, 2)
	assert.Equal(t, 3, conv.Messages[0].Line)
}

func TestParseFormatError(t *testing.T) {
	var b strings.Builder
	for i := 0; i < formatSampleLines; i++ {
		fmt.Fprintf(&b, "line %d of some other format\n", i)
	}
	b.WriteString("01/01/2024, 09:00 - Alice: too late\n")

	tests := []struct {
		name    string
		raw     string
		checked int
	}{
		{name: "empty", raw: ""},
		{name: "blank lines only", raw: "\n\n  \n"},
		{name: "no start in sample", raw: b.String(), checked: formatSampleLines},
		{name: "wrong date layout", raw: "2024-01-01 09:00 Alice: hi\n", checked: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := ParseString(tt.raw, Options{})
			assert.Nil(t, conv)
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.checked, fe.Checked)
		})
	}
}

func TestParseInvalidTimestamp(t *testing.T) {
	raw := "01/01/2024, 09:00 - Alice: hi\n31/02/2024, 09:01 - Bob: impossible\n"
	_, err := ParseString(raw, Options{})

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ParseString("01/01/2024, 25:00 - Alice: hi\n", Options{})
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
}

func TestParseIdempotent(t *testing.T) {
	a := mustParse(t, oneOnOneExport, Options{})
	b := mustParse(t, oneOnOneExport, Options{})
	assert.Equal(t, a.Messages, b.Messages)
	assert.Equal(t, a.Participants, b.Participants)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "WhatsApp Chat with Bob.txt")
	require.NoError(t, os.WriteFile(path, []byte(oneOnOneExport), 0o644))

	conv, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, conv.Source)
	assert.Len(t, conv.Messages, 4)

	_, err = Load(filepath.Join(dir, "missing.txt"), Options{})
	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseChatType(t *testing.T) {
	for in, want := range map[string]ChatType{"": ChatAuto, "auto": ChatAuto, "1-on-1": ChatOneOnOne, "group": ChatGroup} {
		got, err := ParseChatType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseChatType("channel")
	assert.Error(t, err)
}
