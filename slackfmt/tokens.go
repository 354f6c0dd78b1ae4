package slackfmt

import "strings"

// Kind is the type of a Token.
type Kind int

const (
	// Text is literal text between markup tokens.
	Text Kind = iota
	// Sigil is <@U123>, <#C123> or <!channel>, with an optional |label.
	Sigil
	// Link is <http://example.com>, with an optional |label.
	Link
)

// A Token is one piece of a Slack message.
type Token struct {
	Kind Kind

	// Sigil is one of '@', '#' or '!' for Sigil tokens.
	Sigil byte
	// ID is the user, channel or keyword of a Sigil, or the URL of a Link.
	ID    string
	Label string

	// Raw is the original text of the token.
	Raw string
}

// Directory resolves Slack IDs to names.
type Directory interface {
	UserName(id string) (string, bool)
	ChannelName(id string) (string, bool)
}

func isSigil(c byte) bool {
	return c == '@' || c == '#' || c == '!'
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')) {
			return false
		}
	}
	return true
}

// parseSigil parses <TYPE ID> or <TYPE ID|LABEL> at the start of s.
// It returns the token and its length in bytes.
func parseSigil(s string) (Token, int, bool) {
	if len(s) < 3 || !isSigil(s[1]) {
		return Token{}, 0, false
	}

	id := 2
	for id < len(s) && isWord(s[id:id+1]) {
		id++
	}
	if id == 2 || id == len(s) {
		return Token{}, 0, false
	}

	tok := Token{Kind: Sigil, Sigil: s[1], ID: s[2:id]}
	switch s[id] {
	case '>':
		tok.Raw = s[:id+1]
	case '|':
		end := strings.IndexByte(s[id:], '>')
		if end <= 1 {
			return Token{}, 0, false
		}
		tok.Label = s[id+1 : id+end]
		tok.Raw = s[:id+end+1]
	default:
		return Token{}, 0, false
	}

	return tok, len(tok.Raw), true
}

// parseLink parses <URL> or <URL|LABEL> at the start of s.
func parseLink(s string) (Token, int, bool) {
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return Token{}, 0, false
	}

	raw := s[:end+1]
	target, label, labelled := strings.Cut(s[1:end], "|")
	if target == "" || (labelled && label == "") {
		return Token{}, 0, false
	}

	return Token{Kind: Link, ID: target, Label: label, Raw: raw}, len(raw), true
}

func scan(s string, parse func(string) (Token, int, bool)) []Token {
	var tokens []Token
	start := 0

	for i := 0; i < len(s); i++ {
		if s[i] != '<' {
			continue
		}

		tok, n, ok := parse(s[i:])
		if !ok {
			continue
		}

		if start < i {
			tokens = append(tokens, Token{Kind: Text, Raw: s[start:i]})
		}
		tokens = append(tokens, tok)

		i += n - 1
		start = i + 1
	}

	if start < len(s) {
		tokens = append(tokens, Token{Kind: Text, Raw: s[start:]})
	}

	return tokens
}

// Tokenize splits a Slack message into text, sigil and link tokens.
//
// Sigils are found first and links are only searched for in the text
// between them, so the brackets of a sigil are never mistaken for part
// of a link. A '<' that does not start a well formed token is kept as text.
func Tokenize(s string) []Token {
	var tokens []Token
	for _, tok := range scan(s, parseSigil) {
		if tok.Kind != Text {
			tokens = append(tokens, tok)
			continue
		}
		tokens = append(tokens, scan(tok.Raw, parseLink)...)
	}
	return tokens
}

// Resolve renders a token as plain text.
//
// Labels always win. Unresolved mentions fall back to the sigil and ID
// without brackets.
func (t Token) Resolve(dir Directory) string {
	switch t.Kind {
	case Sigil:
		if t.Label != "" {
			return t.Label
		}

		switch t.Sigil {
		case '@':
			if dir != nil {
				if name, ok := dir.UserName(t.ID); ok {
					return "@" + name
				}
			}
		case '#':
			if dir != nil {
				if name, ok := dir.ChannelName(t.ID); ok {
					return "#" + name
				}
			}
		case '!':
			switch t.ID {
			case "channel", "group", "everyone":
				return "@" + t.ID
			}
		}

		return string(t.Sigil) + t.ID

	case Link:
		if t.Label != "" {
			return t.Label + " " + t.ID
		}
		return t.ID
	}

	return t.Raw
}

// ResolveTokens replaces every sigil and link token in s with plain text.
func ResolveTokens(s string, dir Directory) string {
	var sb strings.Builder
	for _, tok := range Tokenize(s) {
		sb.WriteString(tok.Resolve(dir))
	}
	return sb.String()
}
