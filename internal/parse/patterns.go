package parse

import (
	"regexp"
	"strings"
)

// MediaPlaceholder is the body WhatsApp writes in place of an attachment
// when an export is made without media.
const MediaPlaceholder = "<Media omitted>"

// startRe matches a message start line: "DD/MM/YYYY, HH:MM - content".
var startRe = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4}), (\d{2}:\d{2}) - (.+)$`)

// systemNoticeRes classify sender-less lines.
var systemNoticeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Messages and calls are end-to-end encrypted`),
	regexp.MustCompile(`(?i).+ created group .+`),
	regexp.MustCompile(`(?i).+ added .+`),
	regexp.MustCompile(`(?i).+ left$`),
	regexp.MustCompile(`(?i).+ removed .+`),
	regexp.MustCompile(`(?i).+ changed the subject (from .+ )?to .+`),
	regexp.MustCompile(`(?i).+ changed the group description`),
	regexp.MustCompile(`(?i).+ changed this group's icon`),
	regexp.MustCompile(`(?i).+ joined using this group's invite link`),
	regexp.MustCompile(`(?i).+ changed their phone number`),
	regexp.MustCompile(`(?i)^You're now an admin$`),
	regexp.MustCompile(`(?i).+ is now an admin`),
	regexp.MustCompile(`(?i)^Missed (voice|video) call$`),
}

// attributedNoticeRes are whole-body notices that WhatsApp attributes to a
// sender. Only these mark a message with a sender as system.
var attributedNoticeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Missed (voice|video) call$`),
	regexp.MustCompile(`(?i)^Missed group (voice|video) call$`),
}

// membershipRes detect membership changes, used to flag chat type ambiguity.
var membershipRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i).+ added .+`),
	regexp.MustCompile(`(?i).+ left$`),
	regexp.MustCompile(`(?i).+ removed .+`),
	regexp.MustCompile(`(?i).+ joined using this group's invite link`),
}

var deletedRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^This message was deleted\.?$`),
	regexp.MustCompile(`(?i)^You deleted this message\.?$`),
	regexp.MustCompile(`(?i)^Se eliminó este mensaje\.?$`),
	regexp.MustCompile(`(?i)^Eliminaste este mensaje\.?$`),
	regexp.MustCompile(`(?i)^Mensagem apagada$`),
	regexp.MustCompile(`(?i)^Você apagou esta mensagem$`),
	regexp.MustCompile(`(?i)^Diese Nachricht wurde gelöscht\.?$`),
	regexp.MustCompile(`(?i)^Du hast diese Nachricht gelöscht\.?$`),
	regexp.MustCompile(`(?i)^Ce message a été supprimé\.?$`),
	regexp.MustCompile(`(?i)^Vous avez supprimé ce message\.?$`),
	regexp.MustCompile(`(?i)^Questo messaggio è stato eliminato\.?$`),
	regexp.MustCompile(`(?i)^Dit bericht is verwijderd\.?$`),
}

var linkRe = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)

// mentionRe captures either an isolate-wrapped name (group 1, may contain
// spaces) or a bare token (group 2).
var mentionRe = regexp.MustCompile(`@(?:\x{2068}([^\x{2069}]+)\x{2069}|([^\s@\x{2068}\x{2069}]+))`)

// bidiReplacer removes the directional marks and isolates WhatsApp wraps
// names and notices in: U+200E, U+200F, U+202A-U+202E, U+2066-U+2069.
var bidiReplacer = strings.NewReplacer(
	"\u200E", "", "\u200F", "",
	"\u202A", "", "\u202B", "", "\u202C", "", "\u202D", "", "\u202E", "",
	"\u2066", "", "\u2067", "", "\u2068", "", "\u2069", "",
)

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
