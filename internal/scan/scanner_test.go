package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("01/01/2024, 09:00 - Alice: hi\n"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	touch(t, filepath.Join(root, "WhatsApp Chat with Bob.txt"), now.Add(-time.Hour))
	touch(t, filepath.Join(root, "family", "WhatsApp Chat with Family.TXT"), now)
	touch(t, filepath.Join(root, "notes.md"), now)
	touch(t, filepath.Join(root, ".cache", "hidden.txt"), now)

	files, err := ScanDir(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "Family", files[0].Name)
	assert.Equal(t, "Bob", files[1].Name)
	assert.Equal(t, filepath.Join(root, "WhatsApp Chat with Bob.txt"), files[1].Path)
	assert.Positive(t, files[1].Size)
}

func TestScanDirMissing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestChatName(t *testing.T) {
	assert.Equal(t, "Bob", ChatName("/x/WhatsApp Chat with Bob.txt"))
	assert.Equal(t, "export", ChatName("export.txt"))
}
