package render

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-unwrapped/internal/index"
)

const (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

// senderColors cycles through bold foregrounds so each sender keeps one color.
var senderColors = []string{
	"\033[1;34m", // blue
	"\033[1;32m", // green
	"\033[1;35m", // magenta
	"\033[1;36m", // cyan
	"\033[1;33m", // yellow
	"\033[1;31m", // red
}

type Options struct {
	HitID   int
	Context int    // messages before/after hit to show; negative shows all
	Width   int    // wrap width (0 = no wrap)
	Query   string // search query for keyword highlighting
}

func senderColor(sender string) string {
	h := fnv.New32a()
	h.Write([]byte(sender))
	return senderColors[h.Sum32()%uint32(len(senderColors))]
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	var terms []string
	for _, t := range strings.Fields(query) {
		t = strings.Trim(t, `"*()`)
		if t != "" && !fts5Operators[t] {
			terms = append(terms, t)
		}
	}
	for _, term := range terms {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			replacement := colorBoldRed + text[pos:pos+len(term)] + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}
	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// RenderContext renders the messages around opts.HitID and returns the
// content and the 0-based line of the hit header (-1 if no hit).
func RenderContext(db *index.DB, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 10
	}
	if opts.Context < 0 {
		opts.Context = 1000000 // no limit
	}

	msgs, hitIdx, startPos, totalCount, err := db.GetMessagesWindow(opts.HitID, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get messages: %w", err)
	}
	if totalCount == 0 {
		return "(empty conversation)", -1, nil
	}

	skipAfter := totalCount - startPos - len(msgs)

	var b strings.Builder
	hitLine := -1
	lineCount := 0

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	writeLine(fmt.Sprintf("%s--- %s (%d messages) ---%s", colorDim, db.Source(), totalCount, colorReset))
	if startPos > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages before) ...%s", colorDim, startPos, colorReset))
	}

	for i, m := range msgs {
		isHit := i == hitIdx
		if isHit {
			hitLine = lineCount
		}

		label := m.Sender
		color := senderColor(m.Sender)
		if m.Kind == index.KindSystem {
			label, color = "system", colorDim
		}

		if isHit {
			writeLine(fmt.Sprintf("%s>> %s > %s <<%s", colorHit, label, m.Ts, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%s >%s %s%s%s", color, label, colorReset, colorDim, m.Ts, colorReset))
		}

		text := m.Text
		if m.Kind != index.KindText {
			text = colorDim + text + colorReset
		}
		text = indentLines(highlightKeywords(text, opts.Query), "  ")
		for _, tl := range strings.Split(text, "\n") {
			writeLine(tl)
		}
	}

	if skipAfter > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages after) ...%s", colorDim, skipAfter, colorReset))
	}

	return b.String(), hitLine, nil
}
