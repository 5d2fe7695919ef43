package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.closeErr
}

func TestWriteAndClose(t *testing.T) {
	errFlush := errors.New("disk full")
	errWrite := errors.New("bad format")

	tests := []struct {
		name     string
		closeErr error
		writeErr error
		want     error
	}{
		{"ok", nil, nil, nil},
		{"close fails after a good write", errFlush, nil, errFlush},
		{"write error wins over close error", errFlush, errWrite, errWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := &closeRecorder{closeErr: tt.closeErr}
			err := writeAndClose(wc, func(w io.Writer) error {
				_, _ = io.WriteString(w, "report")
				return tt.writeErr
			})
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, wc.closed)
			assert.Equal(t, "report", wc.String())
		})
	}
}

func TestWriteAndCloseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	f, err := os.Create(path)
	require.NoError(t, err)

	require.NoError(t, writeAndClose(f, func(w io.Writer) error {
		_, err := io.WriteString(w, "{}\n")
		return err
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}
