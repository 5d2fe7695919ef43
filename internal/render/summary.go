package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/chat-unwrapped/internal/stats"
)

const summaryTopEmojis = 5

type summaryStyles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
}

// newSummaryStyles binds styles to w, so output that is not a terminal
// carries no escape codes.
func newSummaryStyles(w io.Writer) summaryStyles {
	r := lipgloss.NewRenderer(w)
	return summaryStyles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Border(lipgloss.DoubleBorder(), true, false).Padding(0, 2),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		label:   r.NewStyle().Foreground(lipgloss.Color("245")),
		value:   r.NewStyle().Bold(true),
	}
}

// Summary writes a human-readable overview of s.
func Summary(w io.Writer, s *stats.Statistics) error {
	st := newSummaryStyles(w)
	var b strings.Builder

	line := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", st.label.Render(label+":"), st.value.Render(value))
	}
	section := func(title string) {
		fmt.Fprintf(&b, "\n%s\n", st.heading.Render(title))
	}

	b.WriteString(st.title.Render("WhatsApp Unwrapped - Analysis Complete"))
	b.WriteString("\n")

	section("Chat overview")
	line("Type", string(s.ChatType))
	line("Total messages", commas(s.Basic.TotalMessages))
	line("Total words", commas(s.Basic.TotalWords))
	tm := s.Temporal
	if !tm.FirstMessage.IsZero() {
		line("Date range", fmt.Sprintf("%s - %s (%d days, %d active)",
			tm.FirstMessage.Format("Jan 02, 2006"), tm.LastMessage.Format("Jan 02, 2006"),
			tm.CalendarDays, tm.DaysActive))
	}

	section("Messages per person")
	for _, p := range byMessages(s.Basic.Participants) {
		pct := 0.0
		if s.Basic.TotalMessages > 0 {
			pct = float64(p.count) / float64(s.Basic.TotalMessages) * 100
		}
		line(p.name, fmt.Sprintf("%s (%.1f%%)", commas(p.count), pct))
	}

	section("Conversation patterns")
	line("Sessions", strconv.Itoa(tm.SessionCount))
	line("Avg messages/session", fmt.Sprintf("%.1f", tm.AvgMessagesPerSession))
	if name, n := topInitiator(tm.SessionInitiators); n > 0 {
		line("Most likely to start", fmt.Sprintf("%s (%d times)", name, n))
	}
	if tm.MostActiveDate != "" {
		line("Most active day", fmt.Sprintf("%s (%d messages)", tm.MostActiveDate, tm.MostActiveDateCount))
		line("Busiest hour", fmt.Sprintf("%02d:00", tm.BusiestHour))
		line("Longest streak", fmt.Sprintf("%d days", tm.LongestStreakDays))
	}

	var responders []string
	for name, p := range s.Interaction.Participants {
		if p.Replies > 0 {
			responders = append(responders, name)
		}
	}
	if len(responders) > 0 {
		sort.Strings(responders)
		section("Average response times")
		for _, name := range responders {
			line(name, formatMinutes(s.Interaction.Participants[name].AvgResponseMinutes))
		}
	}

	if len(s.Content.TopEmojis) > 0 {
		section("Top emojis")
		var es []string
		for i, e := range s.Content.TopEmojis {
			if i == summaryTopEmojis {
				break
			}
			es = append(es, fmt.Sprintf("%s %d", e.Key, e.Count))
		}
		b.WriteString("  " + strings.Join(es, "  ") + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type personCount struct {
	name  string
	count int
}

func byMessages(per map[string]stats.ParticipantBasic) []personCount {
	out := make([]personCount, 0, len(per))
	for name, p := range per {
		out = append(out, personCount{name, p.Messages})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

func topInitiator(initiators map[string]int) (string, int) {
	var name string
	best := 0
	for n, c := range initiators {
		if c > best || (c == best && c > 0 && n < name) {
			name, best = n, c
		}
	}
	return name, best
}

func formatMinutes(m float64) string {
	if m < 60 {
		return fmt.Sprintf("%.0f minutes", m)
	}
	return fmt.Sprintf("%.1f hours", m/60)
}

// commas formats n with thousands separators.
func commas(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + commas(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
