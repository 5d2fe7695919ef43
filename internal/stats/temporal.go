package stats

import (
	"sort"
	"time"

	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
)

const dateLayout = "2006-01-02"

type Temporal struct {
	MessagesByDate         map[string]int            `json:"messages_by_date" yaml:"messages_by_date"`
	MessagesByHour         [24]int                   `json:"messages_by_hour" yaml:"messages_by_hour"`
	MessagesByWeekday      [7]int                    `json:"messages_by_weekday" yaml:"messages_by_weekday"` // index 0 is Sunday
	MessagesByPersonByDate map[string]map[string]int `json:"messages_by_person_by_date" yaml:"messages_by_person_by_date"`

	FirstMessage time.Time `json:"first_message,omitzero" yaml:"first_message,omitempty"`
	LastMessage  time.Time `json:"last_message,omitzero" yaml:"last_message,omitempty"`

	CalendarDays        int     `json:"calendar_days" yaml:"calendar_days"`
	DaysActive          int     `json:"days_active" yaml:"days_active"`
	LongestStreakDays   int     `json:"longest_streak_days" yaml:"longest_streak_days"`
	LongestGapDays      int     `json:"longest_gap_days" yaml:"longest_gap_days"`
	MostActiveDate      string  `json:"most_active_date" yaml:"most_active_date"`
	MostActiveDateCount int     `json:"most_active_date_count" yaml:"most_active_date_count"`
	BusiestHour         int     `json:"busiest_hour" yaml:"busiest_hour"`
	AvgMessagesPerDay   float64 `json:"avg_messages_per_day" yaml:"avg_messages_per_day"`
	AvgPerActiveDay     float64 `json:"avg_messages_per_active_day" yaml:"avg_messages_per_active_day"`

	SessionCount          int            `json:"session_count" yaml:"session_count"`
	SessionInitiators     map[string]int `json:"session_initiators" yaml:"session_initiators"`
	AvgMessagesPerSession float64        `json:"avg_messages_per_session" yaml:"avg_messages_per_session"`
}

// dayNumber is the number of whole days since the Unix epoch for the
// calendar date of t.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func computeTemporal(conv *parse.Conversation, users []parse.Message, opts Options) Temporal {
	t := Temporal{
		MessagesByDate:         make(map[string]int),
		MessagesByPersonByDate: make(map[string]map[string]int),
		SessionInitiators:      make(map[string]int, len(conv.Participants)),
	}
	for _, p := range conv.Participants {
		t.SessionInitiators[p] = 0
	}
	if len(users) == 0 {
		return t
	}

	days := make(map[int64]struct{})
	t.FirstMessage, t.LastMessage = users[0].Timestamp, users[0].Timestamp

	for _, m := range users {
		date := m.Timestamp.Format(dateLayout)
		t.MessagesByDate[date]++
		t.MessagesByHour[m.Timestamp.Hour()]++
		t.MessagesByWeekday[m.Timestamp.Weekday()]++

		byDate, ok := t.MessagesByPersonByDate[m.Sender]
		if !ok {
			byDate = make(map[string]int)
			t.MessagesByPersonByDate[m.Sender] = byDate
		}
		byDate[date]++

		days[dayNumber(m.Timestamp)] = struct{}{}
		if m.Timestamp.Before(t.FirstMessage) {
			t.FirstMessage = m.Timestamp
		}
		if m.Timestamp.After(t.LastMessage) {
			t.LastMessage = m.Timestamp
		}
	}

	active := make([]int64, 0, len(days))
	for d := range days {
		active = append(active, d)
	}
	sort.Slice(active, func(i, j int) bool { return active[i] < active[j] })

	t.DaysActive = len(active)
	t.CalendarDays = int(dayNumber(t.LastMessage)-dayNumber(t.FirstMessage)) + 1
	t.LongestStreakDays, t.LongestGapDays = streakAndGap(active)

	dates := make([]string, 0, len(t.MessagesByDate))
	for d := range t.MessagesByDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		if c := t.MessagesByDate[d]; c > t.MostActiveDateCount {
			t.MostActiveDate, t.MostActiveDateCount = d, c
		}
	}

	for h, c := range t.MessagesByHour {
		if c > t.MessagesByHour[t.BusiestHour] {
			t.BusiestHour = h
		}
	}

	total := len(users)
	t.AvgMessagesPerDay = ratio(total, t.CalendarDays)
	t.AvgPerActiveDay = ratio(total, t.DaysActive)

	gap := opts.sessionGap()
	for i, m := range users {
		if i == 0 || m.Timestamp.Sub(users[i-1].Timestamp) > gap {
			t.SessionCount++
			t.SessionInitiators[m.Sender]++
		}
	}
	t.AvgMessagesPerSession = ratio(total, t.SessionCount)

	return t
}

// streakAndGap scans sorted distinct day numbers for the longest run of
// consecutive days and the longest stretch of inactive days between two
// active ones.
func streakAndGap(active []int64) (streak, gap int) {
	if len(active) == 0 {
		return 0, 0
	}
	run := 1
	streak = 1
	for i := 1; i < len(active); i++ {
		diff := int(active[i] - active[i-1])
		if diff == 1 {
			run++
		} else {
			run = 1
		}
		streak = max(streak, run)
		gap = max(gap, diff-1)
	}
	return streak, gap
}
