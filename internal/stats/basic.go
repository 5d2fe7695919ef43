package stats

import "github.com/Zuo-Peng/chat-unwrapped/internal/parse"

type ParticipantBasic struct {
	Messages           int     `json:"messages" yaml:"messages"`
	Words              int     `json:"words" yaml:"words"`
	Media              int     `json:"media" yaml:"media"`
	Links              int     `json:"links" yaml:"links"`
	Deleted            int     `json:"deleted" yaml:"deleted"`
	MediaRatio         float64 `json:"media_ratio" yaml:"media_ratio"`
	LinkRatio          float64 `json:"link_ratio" yaml:"link_ratio"`
	DeletedRatio       float64 `json:"deleted_ratio" yaml:"deleted_ratio"`
	AvgWordsPerMessage float64 `json:"avg_words_per_message" yaml:"avg_words_per_message"`
}

type Basic struct {
	Participants   map[string]ParticipantBasic `json:"participants" yaml:"participants"`
	TotalMessages  int                         `json:"total_messages" yaml:"total_messages"`
	TotalWords     int                         `json:"total_words" yaml:"total_words"`
	SystemMessages int                         `json:"system_messages" yaml:"system_messages"`
}

// messageWords counts the words a message contributes. Media placeholders
// and deleted notices contribute nothing.
func messageWords(m parse.Message) int {
	if m.IsMedia || m.IsDeleted {
		return 0
	}
	return wordCount(m.Text)
}

func computeBasic(conv *parse.Conversation, users []parse.Message) Basic {
	per := make(map[string]*ParticipantBasic, len(conv.Participants))
	for _, p := range conv.Participants {
		per[p] = &ParticipantBasic{}
	}

	for _, m := range users {
		pb, ok := per[m.Sender]
		if !ok {
			pb = &ParticipantBasic{}
			per[m.Sender] = pb
		}
		pb.Messages++
		pb.Words += messageWords(m)
		if m.IsMedia {
			pb.Media++
		}
		if m.HasLink {
			pb.Links++
		}
		if m.IsDeleted {
			pb.Deleted++
		}
	}

	b := Basic{
		Participants:   make(map[string]ParticipantBasic, len(per)),
		SystemMessages: len(conv.Messages) - len(users),
	}
	for name, pb := range per {
		pb.MediaRatio = ratio(pb.Media, pb.Messages)
		pb.LinkRatio = ratio(pb.Links, pb.Messages)
		pb.DeletedRatio = ratio(pb.Deleted, pb.Messages)
		pb.AvgWordsPerMessage = ratio(pb.Words, pb.Messages)
		b.Participants[name] = *pb
		b.TotalMessages += pb.Messages
		b.TotalWords += pb.Words
	}
	return b
}
