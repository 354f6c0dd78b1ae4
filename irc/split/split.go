// Package split breaks outbound text into lines that fit within a single
// IRC PRIVMSG, prefixed with the label of the person who sent it.
package split

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// FrameLength is what remains of the 512 byte IRC line once the
	// mandatory header syntax and CRLF are accounted for.
	FrameLength = 497

	// Padding covers the command, separators and trailing colon
	// of "PRIVMSG <channel> :".
	Padding = 10

	// zwj is inserted into sender labels to stop IRC clients from highlighting.
	zwj = "\u200d"
)

// Placeholders used until the server has told us who we are.
// These are the protocol maxima, so budgets start out pessimistic.
const (
	placeholderUser = "xxxxxxxxxx"
	placeholderHost = "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
)

// Self is how the server sees the relay.
// Empty fields fall back to pessimistic placeholders.
type Self struct {
	Nick string
	User string
	Host string
}

// Hostmask returns the host part of the relay's own prefix.
func (s Self) Hostmask() string {
	if s.Host == "" {
		return placeholderHost
	}
	return s.Host
}

// FullHostmask returns "user@host" for the relay's own prefix.
func (s Self) FullHostmask() string {
	user := s.User
	if user == "" {
		user = placeholderUser
	}
	return user + "@" + s.Hostmask()
}

// Label returns the "<name> " prefix put in front of each relayed line.
//
// With suppressHighlight set, a zero width joiner is inserted after the
// first character of the name.
func Label(name string, suppressHighlight bool) string {
	if name == "" {
		return ""
	}
	if suppressHighlight {
		_, size := utf8.DecodeRuneInString(name)
		name = name[:size] + zwj + name[size:]
	}
	return "<" + name + "> "
}

// Budget returns the number of bytes of message text that fit into one
// PRIVMSG to channel after label.
//
// The result may be zero or negative for pathological inputs,
// Lines treats that as a budget of one.
func Budget(self Self, channel, label string) int {
	own := len(self.Hostmask()) + len(self.Nick) + len(self.FullHostmask())
	return FrameLength - own - (len(channel) + len(label) + Padding)
}

func isLineBreak(r rune) bool {
	return r == '\r' || r == '\n'
}

// Lines splits body into label-prefixed lines of at most budget bytes of text.
//
// Line breaks in body always start a new line. Long lines are broken at the
// last whitespace that fits, and words longer than the budget are cut.
// Whitespace-only lines are dropped, so an empty body yields no lines.
func Lines(label, body string, budget int) []string {
	if budget < 1 {
		budget = 1
	}

	var lines []string
	emit := func(text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		lines = append(lines, label+text)
	}

	for _, segment := range strings.FieldsFunc(body, isLineBreak) {
		for len(segment) > budget {
			n := cut(segment, budget)
			emit(strings.TrimRightFunc(segment[:n], unicode.IsSpace))
			segment = strings.TrimLeftFunc(segment[n:], unicode.IsSpace)
		}
		emit(segment)
	}

	return lines
}

// cut returns how many bytes of s to emit so that at most budget bytes are
// used, preferring to end on a word boundary. It always returns at least
// one rune, so every call makes progress.
func cut(s string, budget int) int {
	end := budget
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	if end == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}

	// The whole window is a complete word if the next character is a space
	if r, _ := utf8.DecodeRuneInString(s[end:]); unicode.IsSpace(r) {
		return end
	}

	if i := strings.LastIndexFunc(s[:end], unicode.IsSpace); i > 0 {
		return i
	}

	return end
}
