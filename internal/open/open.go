package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/chat-unwrapped/internal/index"
)

// OpenMessage opens the export behind db in $EDITOR (less by default) at
// the source line of message hitID. A negative hitID opens at the top.
func OpenMessage(db *index.DB, hitID int) error {
	filePath := db.Source()
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	lineNum := 1
	if hitID >= 0 {
		m, err := db.GetMessage(hitID)
		if err != nil {
			return fmt.Errorf("get message: %w", err)
		}
		if m == nil {
			return fmt.Errorf("message not found: %d", hitID)
		}
		lineNum = m.LineNumber
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	cmd := editorCommand(editor, filePath, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"), strings.Contains(editor, "nano"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}
