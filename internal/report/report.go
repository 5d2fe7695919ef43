// Package report serializes a statistics run together with its metadata.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
	"github.com/Zuo-Peng/chat-unwrapped/internal/stats"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Report struct {
	RunID        string            `json:"run_id" yaml:"run_id"`
	GeneratedAt  time.Time         `json:"generated_at" yaml:"generated_at"`
	Source       string            `json:"source" yaml:"source"`
	ChatType     parse.ChatType    `json:"chat_type" yaml:"chat_type"`
	Participants []string          `json:"participants" yaml:"participants"`
	DateRange    parse.DateRange   `json:"date_range" yaml:"date_range"`
	Messages     int               `json:"messages" yaml:"messages"`
	Warnings     []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Stats        *stats.Statistics `json:"stats" yaml:"stats"`
}

// New stamps a run of s over conv with a fresh id.
func New(conv *parse.Conversation, s *stats.Statistics) *Report {
	return &Report{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC().Truncate(time.Second),
		Source:       conv.Source,
		ChatType:     conv.ChatType,
		Participants: conv.Participants,
		DateRange:    conv.DateRange,
		Messages:     len(conv.Messages),
		Warnings:     conv.Warnings,
		Stats:        s,
	}
}

// Write encodes r to w as JSON or YAML.
func Write(w io.Writer, r *Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
	return nil
}
