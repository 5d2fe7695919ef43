package index

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA cache_size = -64000;

CREATE TABLE IF NOT EXISTS messages (
    id          INTEGER PRIMARY KEY,
    ts          TEXT NOT NULL,
    sender      TEXT NOT NULL DEFAULT '',
    kind        TEXT NOT NULL DEFAULT 'text',
    text        TEXT NOT NULL,
    line_number INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS messages_sender ON messages(sender);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    text,
    content=messages,
    content_rowid=id,
    tokenize='unicode61'
);

CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, text) VALUES (new.id, new.text);
END;
`

// tsLayout sorts lexically, so "since" filters compare as strings.
const tsLayout = "2006-01-02 15:04"

// DB is a single-run full-text index over one conversation.
type DB struct {
	db     *sql.DB
	source string
}

// OpenMemory creates an empty in-memory index.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

// Source is the export path of the loaded conversation.
func (d *DB) Source() string {
	return d.source
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

type MessageRow struct {
	ID         int
	Ts         string
	Sender     string
	Kind       string
	Text       string
	LineNumber int
}

const messageColumns = "id, ts, sender, kind, text, line_number"

func scanMessage(sc interface{ Scan(...any) error }) (MessageRow, error) {
	var m MessageRow
	err := sc.Scan(&m.ID, &m.Ts, &m.Sender, &m.Kind, &m.Text, &m.LineNumber)
	return m, err
}

// GetMessage returns nil when no message has the id.
func (d *DB) GetMessage(id int) (*MessageRow, error) {
	m, err := scanMessage(d.db.QueryRow("SELECT "+messageColumns+" FROM messages WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMessagesWindow returns up to context messages either side of hitID.
// hitIdx is the position of the hit within the window (-1 if absent),
// startPos the number of messages before the window and totalCount the
// number of messages in the index. A negative hitID returns everything.
func (d *DB) GetMessagesWindow(hitID, context int) (msgs []MessageRow, hitIdx int, startPos int, totalCount int, err error) {
	totalCount, err = d.MessageCount()
	if err != nil {
		return nil, -1, 0, 0, err
	}

	// ids are dense sequence numbers, so an id is also its position
	limit := totalCount
	if hitID >= 0 && hitID < totalCount {
		startPos = max(hitID-context, 0)
		endPos := min(hitID+context+1, totalCount)
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages ORDER BY id LIMIT ? OFFSET ?",
		limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	defer rows.Close()

	hitIdx = -1
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, -1, 0, 0, err
		}
		if m.ID == hitID {
			hitIdx = len(msgs)
		}
		msgs = append(msgs, m)
	}
	return msgs, hitIdx, startPos, totalCount, rows.Err()
}
