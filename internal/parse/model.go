package parse

import (
	"fmt"
	"time"
)

type ChatType string

const (
	ChatAuto     ChatType = ""
	ChatOneOnOne ChatType = "1-on-1"
	ChatGroup    ChatType = "group"
)

// ParseChatType maps a user-supplied chat type to a ChatType.
// "" and "auto" both mean auto-detect.
func ParseChatType(s string) (ChatType, error) {
	switch s {
	case "", "auto":
		return ChatAuto, nil
	case string(ChatOneOnOne):
		return ChatOneOnOne, nil
	case string(ChatGroup):
		return ChatGroup, nil
	default:
		return ChatAuto, fmt.Errorf("unknown chat type %q (want auto, 1-on-1 or group)", s)
	}
}

type Message struct {
	ID        int       `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Sender    string    `json:"sender,omitempty" yaml:"sender,omitempty"` // "" for system entries
	Text      string    `json:"text" yaml:"text"`
	Line      int       `json:"line" yaml:"line"` // line number of the message start in the export
	IsSystem  bool      `json:"is_system" yaml:"is_system"`
	IsMedia   bool      `json:"is_media" yaml:"is_media"`
	IsDeleted bool      `json:"is_deleted" yaml:"is_deleted"`
	HasLink   bool      `json:"has_link" yaml:"has_link"`
	Mentions  []string  `json:"mentions,omitempty" yaml:"mentions,omitempty"`
}

func (m Message) HasSender() bool {
	return m.Sender != ""
}

// IsUser reports whether the message was written by a participant.
func (m Message) IsUser() bool {
	return m.Sender != "" && !m.IsSystem
}

type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

type Conversation struct {
	Messages     []Message
	ChatType     ChatType
	Participants []string // sorted
	DateRange    DateRange
	Source       string
	OrphanLines  int      // non-empty lines before the first message start
	Warnings     []string // chat type ambiguities
}

// UserMessages returns the messages written by participants, in sequence order.
func (c *Conversation) UserMessages() []Message {
	out := make([]Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.IsUser() {
			out = append(out, m)
		}
	}
	return out
}

// Message returns the message with the given sequence id.
func (c *Conversation) Message(id int) (Message, bool) {
	if id < 0 || id >= len(c.Messages) {
		return Message{}, false
	}
	return c.Messages[id], true
}
