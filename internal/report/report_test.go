package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
	"github.com/Zuo-Peng/chat-unwrapped/internal/stats"
)

func newReport(t *testing.T) *Report {
	t.Helper()
	conv, err := parse.ParseString(`01/01/2024, 09:00 - Alice: Morning
01/01/2024, 09:04 - Bob: hey
`, parse.Options{Source: "chat.txt"})
	require.NoError(t, err)
	s, err := stats.Analyze(conv, stats.DefaultOptions())
	require.NoError(t, err)
	return New(conv, s)
}

func TestWriteJSON(t *testing.T) {
	r := newReport(t)
	_, err := uuid.Parse(r.RunID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, FormatJSON))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, r.RunID, doc["run_id"])
	assert.Equal(t, "chat.txt", doc["source"])
	assert.Equal(t, "1-on-1", doc["chat_type"])

	st, ok := doc["stats"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"basic", "temporal", "content", "interaction"} {
		assert.Contains(t, st, key)
	}

	interaction := st["interaction"].(map[string]any)
	bob := interaction["participants"].(map[string]any)["Bob"].(map[string]any)
	buckets := bob["response_time_buckets"].(map[string]any)
	assert.Equal(t, float64(1), buckets["<5m"])
}

func TestWriteYAML(t *testing.T) {
	r := newReport(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, FormatYAML))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, r.RunID, doc["run_id"])
	assert.Equal(t, []any{"Alice", "Bob"}, doc["participants"])

	st := doc["stats"].(map[string]any)
	basic := st["basic"].(map[string]any)
	assert.Equal(t, 2, basic["total_messages"])
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, newReport(t), "xml"))
}
