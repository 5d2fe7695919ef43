package index

import (
	"fmt"

	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
)

// Message kinds stored in the index.
const (
	KindText    = "text"
	KindMedia   = "media"
	KindDeleted = "deleted"
	KindSystem  = "system"
)

func kindOf(m parse.Message) string {
	switch {
	case m.IsSystem:
		return KindSystem
	case m.IsMedia:
		return KindMedia
	case m.IsDeleted:
		return KindDeleted
	default:
		return KindText
	}
}

// Load inserts every message of conv in a single transaction.
func (d *DB) Load(conv *parse.Conversation) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO messages (id, ts, sender, kind, text, line_number)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range conv.Messages {
		_, err := stmt.Exec(
			m.ID,
			m.Timestamp.Format(tsLayout),
			m.Sender,
			kindOf(m),
			parse.StripBidi(m.Text),
			m.Line,
		)
		if err != nil {
			return fmt.Errorf("insert message %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	d.source = conv.Source
	return nil
}

// Build opens an in-memory index and loads conv into it.
func Build(conv *parse.Conversation) (*DB, error) {
	db, err := OpenMemory()
	if err != nil {
		return nil, err
	}
	if err := db.Load(conv); err != nil {
		db.Close()
		return nil, fmt.Errorf("index conversation: %w", err)
	}
	return db, nil
}
