package stats

import (
	"math"
	"sort"
	"strings"
)

// Count is one entry of a ranked frequency table.
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// topN ranks counts by count desc then key asc and keeps at most n entries.
func topN(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for k, c := range counts {
		out = append(out, Count{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
