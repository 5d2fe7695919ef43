package stats

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rivo/uniseg"

	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
)

// maxLongestText bounds the text kept for each longest-message record.
const maxLongestText = 500

type LongMessage struct {
	ID        int       `json:"id" yaml:"id"`
	Sender    string    `json:"sender" yaml:"sender"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	WordCount int       `json:"word_count" yaml:"word_count"`
	Text      string    `json:"text" yaml:"text"`
}

type Content struct {
	TopWords           []Count            `json:"top_words" yaml:"top_words"`
	TopWordsPerPerson  map[string][]Count `json:"top_words_per_person" yaml:"top_words_per_person"`
	Ngrams             map[int][]Count    `json:"ngrams" yaml:"ngrams"`
	TopEmojis          []Count            `json:"top_emojis" yaml:"top_emojis"`
	TopEmojisPerPerson map[string][]Count `json:"top_emojis_per_person" yaml:"top_emojis_per_person"`
	LongestMessages    []LongMessage      `json:"longest_messages" yaml:"longest_messages"`
}

var wordRe = regexp.MustCompile(`[a-z]+`)

var stopwords = toSet(
	"a", "an", "the", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "as", "is", "was", "are", "were", "been",
	"be", "have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "shall", "can", "this", "that", "these",
	"those", "i", "you", "he", "she", "it", "we", "they", "me", "him", "her",
	"us", "them", "my", "your", "his", "its", "our", "their", "what", "which",
	"who", "when", "where", "why", "how", "all", "each", "every", "both",
	"few", "more", "most", "other", "some", "such", "no", "not", "only",
	"same", "so", "than", "too", "very", "just", "also", "now", "here",
	"there", "then", "if", "about", "into", "through", "during", "before",
	"after", "above", "below", "up", "down", "out", "off", "over", "under",
	"again", "further", "once", "any", "am", "being", "because", "until",
	"while", "get", "got", "like", "yeah", "yes", "ok", "okay", "oh",
	"im", "dont", "cant", "wont", "youre", "thats", "ive", "ill",
	"haha", "hahaha", "lol", "omg", "gonna", "wanna", "gotta",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// tokenize lower-cases text and returns its ASCII letter runs longer than
// two characters, minus stopwords.
func tokenize(text string) []string {
	var out []string
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// emojis returns the emoji grapheme clusters of text in order.
func emojis(text string) []string {
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if isEmojiCluster(g.Runes()) {
			out = append(out, g.Str())
		}
	}
	return out
}

func isEmojiCluster(runes []rune) bool {
	for _, r := range runes {
		switch {
		case r >= 0x1F000 && r <= 0x1FAFF, // pictographs, emoticons, flags, symbols
			r >= 0x2600 && r <= 0x27BF, // misc symbols, dingbats
			r >= 0x2B05 && r <= 0x2B55, // arrows, stars, circles
			r >= 0x2300 && r <= 0x23FF, // watch, hourglass, media controls
			r == 0xFE0F, r == 0x20E3: // emoji presentation, keycap
			return true
		}
	}
	return false
}

func computeContent(users []parse.Message, opts Options) Content {
	words := make(map[string]int)
	wordsPer := make(map[string]map[string]int)
	ngrams := make(map[int]map[string]int, opts.MaxNgram-1)
	for n := 2; n <= opts.MaxNgram; n++ {
		ngrams[n] = make(map[string]int)
	}
	emojiCounts := make(map[string]int)
	emojiPer := make(map[string]map[string]int)
	var long []LongMessage

	for _, m := range users {
		if m.IsMedia || m.IsDeleted {
			continue
		}

		tokens := tokenize(m.Text)
		per := bucket(wordsPer, m.Sender)
		for _, w := range tokens {
			words[w]++
			per[w]++
		}
		for n := 2; n <= opts.MaxNgram; n++ {
			for i := 0; i+n <= len(tokens); i++ {
				ngrams[n][strings.Join(tokens[i:i+n], " ")]++
			}
		}

		if es := emojis(m.Text); len(es) > 0 {
			per := bucket(emojiPer, m.Sender)
			for _, e := range es {
				emojiCounts[e]++
				per[e]++
			}
		}

		if wc := wordCount(m.Text); wc > 0 {
			long = append(long, LongMessage{
				ID:        m.ID,
				Sender:    m.Sender,
				Timestamp: m.Timestamp,
				WordCount: wc,
				Text:      truncateRunes(m.Text, maxLongestText),
			})
		}
	}

	c := Content{
		TopWords:           topN(words, opts.TopWords),
		TopWordsPerPerson:  make(map[string][]Count, len(wordsPer)),
		Ngrams:             make(map[int][]Count, len(ngrams)),
		TopEmojis:          topN(emojiCounts, opts.TopEmojis),
		TopEmojisPerPerson: make(map[string][]Count, len(emojiPer)),
		LongestMessages:    longest(long, opts.LongestMessages),
	}
	for p, counts := range wordsPer {
		c.TopWordsPerPerson[p] = topN(counts, opts.TopWordsPerPerson)
	}
	for p, counts := range emojiPer {
		c.TopEmojisPerPerson[p] = topN(counts, opts.TopEmojisPerPerson)
	}
	for n, counts := range ngrams {
		for phrase, count := range counts {
			if count < opts.MinPhraseFreq {
				delete(counts, phrase)
			}
		}
		c.Ngrams[n] = topN(counts, opts.TopNgrams)
	}
	return c
}

func bucket(m map[string]map[string]int, key string) map[string]int {
	b, ok := m[key]
	if !ok {
		b = make(map[string]int)
		m[key] = b
	}
	return b
}

// longest orders candidates by word count desc, then earliest timestamp,
// then lowest id, and keeps k.
func longest(msgs []LongMessage, k int) []LongMessage {
	sort.Slice(msgs, func(i, j int) bool {
		a, b := msgs[i], msgs[j]
		if a.WordCount != b.WordCount {
			return a.WordCount > b.WordCount
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.ID < b.ID
	})
	if len(msgs) > k {
		msgs = msgs[:k]
	}
	if msgs == nil {
		return []LongMessage{}
	}
	return msgs
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
