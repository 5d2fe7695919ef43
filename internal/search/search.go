package search

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/chat-unwrapped/internal/index"
)

type Result struct {
	ID         int
	Ts         string
	Sender     string
	Kind       string
	Snippet    string
	LineNumber int
	Rank       float64
}

type Options struct {
	Query  string
	Sender string // "" = all
	Since  string // "" = no filter, e.g. "2024-01-01"
	Limit  int
}

// needsLike reports whether query cannot go through the unicode61 FTS
// tokenizer: CJK text has no word breaks, and emoji-only queries have no
// tokens at all.
func needsLike(s string) bool {
	hasWord := false
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasWord = true
		}
	}
	return !hasWord
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	runes := []rune(text)
	if idx < 0 || query == "" {
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}

	qLen := len([]rune(query))
	runePos := len([]rune(text[:idx]))
	start := max(runePos-contextChars, 0)
	end := min(runePos+qLen+contextChars, len(runes))

	prefix, suffix := "", ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+qLen]) + "<<<" +
		string(runes[runePos+qLen:end])
	return prefix + snippet + suffix
}

// Search finds messages matching opts.Query, best match first for full-text
// queries and in conversation order for substring queries.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	opts.Query = strings.TrimSpace(opts.Query)
	if opts.Query == "" {
		return nil, fmt.Errorf("empty query")
	}

	if needsLike(opts.Query) {
		return searchLike(db, opts)
	}
	results, err := searchFTS(db, opts)
	if err != nil {
		// stray FTS5 syntax in free text, e.g. "what?" or an unbalanced quote
		slog.Debug("fts query failed, using substring match", "query", opts.Query, "error", err)
		return searchLike(db, opts)
	}
	return results, nil
}

func filters(opts Options) ([]string, []any) {
	var conditions []string
	var args []any
	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ?")
		args = append(args, opts.Sender)
	}
	if opts.Since != "" {
		conditions = append(conditions, "m.ts >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"messages_fts MATCH ?"}
	args := []any{opts.Query}
	fc, fa := filters(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	query := fmt.Sprintf(`
		SELECT
			m.id,
			m.ts,
			m.sender,
			m.kind,
			snippet(messages_fts, 0, '>>>','<<<', '...', 40) as snip,
			m.line_number,
			bm25(messages_fts, 1.0) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.id
		WHERE %s
		ORDER BY rank, m.id
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"m.text LIKE ? ESCAPE '\\'"}
	args := []any{"%" + escapeLike(opts.Query) + "%"}
	fc, fa := filters(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	query := fmt.Sprintf(`
		SELECT m.id, m.ts, m.sender, m.kind, m.text, m.line_number
		FROM messages m
		WHERE %s
		ORDER BY m.id
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(&r.ID, &r.Ts, &r.Sender, &r.Kind, &fullText, &r.LineNumber); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns messages in conversation order, honoring the sender and
// since filters. System entries are left out.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 1000
	}
	conditions := []string{"m.kind <> ?"}
	args := []any{index.KindSystem}
	fc, fa := filters(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	query := fmt.Sprintf(`
		SELECT m.id, m.ts, m.sender, m.kind, m.text, m.line_number
		FROM messages m
		WHERE %s
		ORDER BY m.id
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Ts, &r.Sender, &r.Kind, &r.Snippet, &r.LineNumber); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Ts, &r.Sender, &r.Kind, &r.Snippet, &r.LineNumber, &r.Rank); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
