package ircf

import (
	"regexp"
	"strconv"
	"strings"
)

// Chars includes all the codes defined in https://modern.ircdocs.horse/formatting.html
const (
	CharBold          rune = '\x02'
	CharItalics            = '\x1D'
	CharUnderline          = '\x1F'
	CharStrikethrough      = '\x1E'
	CharMonospace          = '\x11'
	CharColor              = '\x03'
	CharHex                = '\x04'
	CharReverseColor       = '\x16'
	CharReset              = '\x0F'
)

// A background colour is only valid after a foreground colour.
var colorRegex = regexp.MustCompile(`^\x03(?:(\d\d?)(?:,(\d\d?))?)?`)
var hexRegex = regexp.MustCompile(`^\x04(?:[0-9a-fA-F]{6}(?:,[0-9a-fA-F]{6})?)?`)

// Parse splits text into blocks of identical formatting.
// Blocks without text are never returned.
func Parse(text string) []Block {
	result := []Block{}
	current := Empty

	var buf strings.Builder
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		block := current
		block.Text = buf.String()
		result = append(result, block)
		buf.Reset()
	}

	// Control codes are all ASCII, so walking bytes keeps multi-byte runes intact.
	for i := 0; i < len(text); {
		ch := rune(text[i])
		switch ch {
		case CharBold, CharItalics, CharUnderline, CharStrikethrough, CharMonospace, CharReverseColor:
			flush()
			current.SetField(ch, !current.GetField(ch))
			i++

		case CharColor:
			flush()
			m := colorRegex.FindStringSubmatch(text[i:])
			current.Color, current.Highlight = -1, -1
			if m[1] != "" {
				// Errors are impossible, the regex only matches digits
				current.Color, _ = strconv.Atoi(m[1])
				if m[2] != "" {
					current.Highlight, _ = strconv.Atoi(m[2])
				}
			}
			i += len(m[0])

		case CharHex:
			flush()
			i += len(hexRegex.FindString(text[i:]))

		case CharReset:
			flush()
			current = Empty
			i++

		default:
			buf.WriteByte(text[i])
			i++
		}
	}
	flush()

	return result
}

// StripCodes removes every IRC formatting code from text.
func StripCodes(text string) string {
	var sb strings.Builder
	for _, block := range Parse(text) {
		sb.WriteString(block.Text)
	}
	return sb.String()
}
