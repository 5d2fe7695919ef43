package open

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"nvim", []string{"nvim", "+42", "chat.txt"}},
		{"/usr/bin/vim", []string{"/usr/bin/vim", "+42", "chat.txt"}},
		{"code", []string{"code", "--goto", "chat.txt:42"}},
		{"less", []string{"less", "+42", "chat.txt"}},
		{"nano", []string{"nano", "+42", "chat.txt"}},
		{"ed", []string{"ed", "chat.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.editor, func(t *testing.T) {
			assert.Equal(t, tt.want, editorCommand(tt.editor, "chat.txt", 42).Args)
		})
	}
}
