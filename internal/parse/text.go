package parse

import "strings"

// StripBidi removes Unicode bidirectional marks and isolation controls.
func StripBidi(s string) string {
	return bidiReplacer.Replace(s)
}

// normalizeBody prepares a body for comparison against the fixed phrase tables.
func normalizeBody(text string) string {
	return strings.TrimSpace(StripBidi(text))
}

// IsSystemNotice reports whether text is a known system notice. Sender-less
// bodies are checked against the full notice table; attributed bodies only
// against whole-body notices such as missed calls.
func IsSystemNotice(text string, hasSender bool) bool {
	body := normalizeBody(text)
	if hasSender {
		return matchAny(attributedNoticeRes, body)
	}
	return matchAny(systemNoticeRes, body)
}

func IsDeleted(text string) bool {
	return matchAny(deletedRes, normalizeBody(text))
}

func IsMedia(text string) bool {
	return normalizeBody(text) == MediaPlaceholder
}

func HasLink(text string) bool {
	return linkRe.MatchString(text)
}

func isMembershipNotice(text string) bool {
	return matchAny(membershipRes, normalizeBody(text))
}

// ExtractMentions returns the @-mentions in text that resolve to one of the
// known participants, in order of appearance. Duplicates are kept.
func ExtractMentions(text string, participants map[string]struct{}) []string {
	if len(participants) == 0 || !strings.Contains(text, "@") {
		return nil
	}

	var mentions []string
	for _, m := range mentionRe.FindAllStringSubmatch(text, -1) {
		var name string
		if m[1] != "" {
			name = strings.TrimSpace(StripBidi(m[1]))
		} else {
			name = strings.TrimRight(StripBidi(m[2]), ".,!?:;)'\"")
		}
		if name == "" {
			continue
		}
		if _, ok := participants[name]; ok {
			mentions = append(mentions, name)
		}
	}
	return mentions
}

// splitSender separates "Sender: body" content. Content without a plausible
// sender prefix is returned as a sender-less body, as is a notice whose own
// text holds ": " (a subject renamed to "Trip: June"). Sender names lose
// their bidi controls so they compare equal to mentions of them.
func splitSender(content string) (sender, body string) {
	idx := strings.Index(content, ": ")
	if idx <= 0 {
		return "", content
	}
	candidate := content[:idx]
	if strings.Contains(candidate, "\n") || len([]rune(candidate)) >= 100 {
		return "", content
	}
	name := normalizeBody(candidate)
	if name == "" || matchAny(systemNoticeRes, name) {
		return "", content
	}
	return name, content[idx+2:]
}
