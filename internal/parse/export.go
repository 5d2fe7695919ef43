package parse

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// formatSampleLines is how many leading lines are inspected before the
// input is accepted as an export.
const formatSampleLines = 50

const timestampLayout = "02/01/2006 15:04"

const utf8BOM = "\uFEFF"

type Options struct {
	ChatType ChatType // ChatAuto detects from the senders
	Source   string   // recorded on the Conversation; defaults to the file path
	Logger   *slog.Logger
}

type lineState int

const (
	stateExpectStart lineState = iota
	stateContinuation
)

// pendingMessage accumulates the physical lines of one message until the
// next start line finalizes it.
type pendingMessage struct {
	timestamp time.Time
	sender    string
	lines     []string
	line      int
}

func (p *pendingMessage) text() string {
	return strings.TrimSpace(strings.Join(p.lines, "\n"))
}

// Load reads an export file fully into memory and parses it.
func Load(path string, opts Options) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	if opts.Source == "" {
		opts.Source = path
	}
	return Parse(bytes.NewReader(data), opts)
}

func ParseString(raw string, opts Options) (*Conversation, error) {
	return Parse(strings.NewReader(raw), opts)
}

// Parse converts an export into a Conversation. It fails with *FormatError
// when the leading sample holds no message start, and with *ParseError when
// a start line carries an impossible date or time.
func Parse(r io.Reader, opts Options) (*Conversation, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lines, err := readLines(r)
	if err != nil {
		return nil, &FileError{Path: opts.Source, Err: err}
	}

	if err := validateFormat(lines); err != nil {
		return nil, err
	}

	pending, orphans, err := splitMessages(lines)
	if err != nil {
		return nil, err
	}
	if orphans > 0 {
		logger.Debug("lines before first message", "source", opts.Source, "count", orphans)
	}

	conv := buildConversation(pending, opts)
	conv.OrphanLines = orphans

	for _, w := range conv.Warnings {
		logger.Warn("chat type ambiguity", "source", opts.Source, "chat_type", conv.ChatType, "detail", w)
	}
	logger.Debug("export parsed",
		"source", opts.Source,
		"messages", len(conv.Messages),
		"participants", len(conv.Participants),
		"chat_type", conv.ChatType)

	return conv, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		line = strings.TrimSuffix(line, "\r")
		lines = append(lines, strings.ToValidUTF8(line, "\uFFFD"))
	}
	return lines, scanner.Err()
}

func validateFormat(lines []string) error {
	if len(lines) == 0 {
		return &FormatError{Reason: "file is empty"}
	}

	checked := 0
	for i, line := range lines {
		if i >= formatSampleLines {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		checked++
		if startRe.MatchString(line) {
			return nil
		}
	}

	if checked == 0 {
		return &FormatError{Reason: "file contains no content"}
	}
	return &FormatError{Reason: "no message start line found", Checked: checked}
}

// splitMessages runs the start/continuation state machine over the lines.
func splitMessages(lines []string) ([]pendingMessage, int, error) {
	var (
		out     []pendingMessage
		cur     *pendingMessage
		orphans int
		state   = stateExpectStart
	)

	for i, line := range lines {
		lineNo := i + 1

		if m := startRe.FindStringSubmatch(line); m != nil {
			ts, err := time.Parse(timestampLayout, m[1]+" "+m[2])
			if err != nil {
				return nil, 0, &ParseError{Line: lineNo, Text: line, Err: err}
			}
			if cur != nil {
				out = append(out, *cur)
			}
			sender, body := splitSender(m[3])
			cur = &pendingMessage{
				timestamp: ts,
				sender:    sender,
				lines:     []string{body},
				line:      lineNo,
			}
			state = stateContinuation
			continue
		}

		switch state {
		case stateExpectStart:
			if strings.TrimSpace(line) != "" {
				orphans++
			}
		case stateContinuation:
			cur.lines = append(cur.lines, line)
		}
	}

	if cur != nil {
		out = append(out, *cur)
	}
	return out, orphans, nil
}

func buildConversation(pending []pendingMessage, opts Options) *Conversation {
	texts := make([]string, len(pending))
	system := make([]bool, len(pending))
	senders := make(map[string]struct{})

	for i, p := range pending {
		texts[i] = p.text()
		system[i] = p.sender == "" || IsSystemNotice(texts[i], true)
		if !system[i] {
			senders[p.sender] = struct{}{}
		}
	}

	participants := make([]string, 0, len(senders))
	for s := range senders {
		participants = append(participants, s)
	}
	sort.Strings(participants)

	messages := make([]Message, len(pending))
	for i, p := range pending {
		text := texts[i]
		messages[i] = Message{
			ID:        i,
			Timestamp: p.timestamp,
			Sender:    p.sender,
			Text:      text,
			Line:      p.line,
			IsSystem:  system[i],
			IsMedia:   IsMedia(text),
			IsDeleted: IsDeleted(text),
			HasLink:   HasLink(text),
			Mentions:  ExtractMentions(text, senders),
		}
	}

	chatType := opts.ChatType
	if chatType == ChatAuto {
		chatType = detectChatType(participants)
	}

	return &Conversation{
		Messages:     messages,
		ChatType:     chatType,
		Participants: participants,
		DateRange:    dateRange(messages),
		Source:       opts.Source,
		Warnings:     chatTypeWarnings(messages, participants, chatType, opts.ChatType != ChatAuto),
	}
}

// detectChatType: exactly two distinct senders is a 1-on-1 chat, anything
// else is a group.
func detectChatType(participants []string) ChatType {
	if len(participants) == 2 {
		return ChatOneOnOne
	}
	return ChatGroup
}

// chatTypeWarnings flags the cases the sender-count heuristic cannot settle.
func chatTypeWarnings(messages []Message, participants []string, chatType ChatType, explicit bool) []string {
	var warnings []string

	if explicit && chatType == ChatOneOnOne && len(participants) != 2 {
		warnings = append(warnings, fmt.Sprintf("chat type forced to %s with %d participants", chatType, len(participants)))
	}

	if len(participants) == 1 {
		warnings = append(warnings, "only one participant sent messages")
	}

	if !explicit && chatType == ChatOneOnOne {
		for _, m := range messages {
			if !m.HasSender() && isMembershipNotice(m.Text) {
				warnings = append(warnings, "membership changes in a chat detected as 1-on-1: "+StripBidi(m.Text))
				break
			}
		}
	}

	seen := make(map[string]string, len(participants))
	for _, p := range participants {
		key := strings.ToLower(strings.Join(strings.Fields(p), " "))
		if prev, ok := seen[key]; ok {
			warnings = append(warnings, fmt.Sprintf("participants %q and %q may be the same person", prev, p))
			continue
		}
		seen[key] = p
	}

	return warnings
}

func dateRange(messages []Message) DateRange {
	if len(messages) == 0 {
		return DateRange{}
	}
	r := DateRange{Start: messages[0].Timestamp, End: messages[0].Timestamp}
	for _, m := range messages[1:] {
		if m.Timestamp.Before(r.Start) {
			r.Start = m.Timestamp
		}
		if m.Timestamp.After(r.End) {
			r.End = m.Timestamp
		}
	}
	return r
}
