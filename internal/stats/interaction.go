package stats

import (
	"sort"

	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
)

// ResponseBuckets counts replies by elapsed time: [0,5), [5,30), [30,120)
// and 120 minutes or more.
type ResponseBuckets struct {
	Under5m int `json:"<5m" yaml:"<5m"`
	From5m  int `json:"5-30m" yaml:"5-30m"`
	From30m int `json:"30-120m" yaml:"30-120m"`
	Over2h  int `json:">2h" yaml:">2h"`
}

func (b *ResponseBuckets) add(minutes float64) {
	switch {
	case minutes < 5:
		b.Under5m++
	case minutes < 30:
		b.From5m++
	case minutes < 120:
		b.From30m++
	default:
		b.Over2h++
	}
}

func (b ResponseBuckets) Total() int {
	return b.Under5m + b.From5m + b.From30m + b.Over2h
}

type ParticipantInteraction struct {
	Replies               int             `json:"replies" yaml:"replies"`
	ResponseTimeBuckets   ResponseBuckets `json:"response_time_buckets" yaml:"response_time_buckets"`
	AvgResponseMinutes    float64         `json:"avg_response_minutes" yaml:"avg_response_minutes"`
	MedianResponseMinutes float64         `json:"median_response_minutes" yaml:"median_response_minutes"`
}

type Interaction struct {
	Participants     map[string]ParticipantInteraction `json:"participants" yaml:"participants"`
	Mentions         map[string]map[string]int         `json:"mentions" yaml:"mentions"` // group chats only
	MentionsReceived map[string]int                    `json:"mentions_received" yaml:"mentions_received"`
}

func computeInteraction(conv *parse.Conversation, users []parse.Message) Interaction {
	times := make(map[string][]float64, len(conv.Participants))
	for _, p := range conv.Participants {
		times[p] = nil
	}
	for i := 1; i < len(users); i++ {
		prev, cur := users[i-1], users[i]
		if prev.Sender == cur.Sender {
			continue
		}
		// Out-of-order timestamps count as an immediate reply.
		minutes := max(cur.Timestamp.Sub(prev.Timestamp).Minutes(), 0)
		times[cur.Sender] = append(times[cur.Sender], minutes)
	}

	in := Interaction{
		Participants:     make(map[string]ParticipantInteraction, len(times)),
		Mentions:         make(map[string]map[string]int),
		MentionsReceived: make(map[string]int),
	}
	for p, ts := range times {
		pi := ParticipantInteraction{Replies: len(ts)}
		for _, m := range ts {
			pi.ResponseTimeBuckets.add(m)
		}
		pi.AvgResponseMinutes = round2(mean(ts))
		pi.MedianResponseMinutes = round2(median(ts))
		in.Participants[p] = pi
	}

	if conv.ChatType != parse.ChatGroup {
		return in
	}
	for _, m := range users {
		for _, target := range m.Mentions {
			bucket(in.Mentions, m.Sender)[target]++
			in.MentionsReceived[target]++
		}
	}
	return in
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	s := append([]float64(nil), vs...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
