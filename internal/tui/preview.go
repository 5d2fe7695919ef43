package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chat-unwrapped/internal/index"
	"github.com/Zuo-Peng/chat-unwrapped/internal/render"
	"github.com/Zuo-Peng/chat-unwrapped/internal/search"
)

// previewContext is how many messages either side of the hit the preview shows.
const previewContext = 50

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	messageID int
	content   string
	hitLine   int
	err       error
}

// loadPreviewCmd renders the context around r off the update loop.
func loadPreviewCmd(db *index.DB, r search.Result, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderContext(db, render.Options{
			HitID:   r.ID,
			Context: previewContext,
			Width:   width,
			Query:   query,
		})
		return previewRenderedMsg{
			messageID: r.ID,
			content:   content,
			hitLine:   hitLine,
			err:       err,
		}
	}
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
