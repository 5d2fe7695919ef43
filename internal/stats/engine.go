// Package stats computes the four statistics views of a parsed conversation.
package stats

import (
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
)

type Statistics struct {
	ChatType    parse.ChatType `json:"chat_type" yaml:"chat_type"`
	Basic       Basic          `json:"basic" yaml:"basic"`
	Temporal    Temporal       `json:"temporal" yaml:"temporal"`
	Content     Content        `json:"content" yaml:"content"`
	Interaction Interaction    `json:"interaction" yaml:"interaction"`
}

// Analyze computes all views of conv. The conversation is only read; each
// view is computed independently and may run concurrently with the others.
// Invalid options are the only error.
func Analyze(conv *parse.Conversation, opts Options) (*Statistics, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	users := conv.UserMessages()
	s := &Statistics{ChatType: conv.ChatType}

	var g errgroup.Group
	g.Go(func() error {
		s.Basic = computeBasic(conv, users)
		return nil
	})
	g.Go(func() error {
		s.Temporal = computeTemporal(conv, users, opts)
		return nil
	})
	g.Go(func() error {
		s.Content = computeContent(users, opts)
		return nil
	})
	g.Go(func() error {
		s.Interaction = computeInteraction(conv, users)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("statistics computed",
		"source", conv.Source,
		"user_messages", len(users),
		"elapsed", time.Since(start))
	return s, nil
}
