package ircf

import "strings"

// Slack mrkdwn markers. Underline and colours have no Slack equivalent.
const (
	markBold   = "*"
	markItalic = "_"
	markStrike = "~"
	markCode   = "`"
)

func markers(b Block) []string {
	var m []string
	if b.Bold {
		m = append(m, markBold)
	}
	// Consider reverse as italic, some IRC clients use that
	if b.Italic || b.Reverse {
		m = append(m, markItalic)
	}
	if b.Strikethrough {
		m = append(m, markStrike)
	}
	if b.Monospace {
		m = append(m, markCode)
	}
	return m
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// BlocksToMrkdwn renders blocks as Slack mrkdwn.
//
// Open markers are kept on a stack so that styles are always closed
// in the reverse order they were opened.
func BlocksToMrkdwn(blocks []Block) string {
	var sb strings.Builder
	var open []string

	for i := 0; i <= len(blocks); i++ {
		// An unstyled block at the end closes everything
		block := Empty
		if i < len(blocks) {
			block = blocks[i]
		}
		want := markers(block)

		// Close from the first marker that is no longer wanted
		for k, m := range open {
			if contains(want, m) {
				continue
			}
			for j := len(open) - 1; j >= k; j-- {
				sb.WriteString(open[j])
			}
			open = open[:k]
			break
		}

		for _, m := range want {
			if !contains(open, m) {
				sb.WriteString(m)
				open = append(open, m)
			}
		}

		sb.WriteString(block.Text)
	}

	return sb.String()
}

// ToMrkdwn converts IRC formatted text to Slack mrkdwn.
func ToMrkdwn(text string) string {
	return BlocksToMrkdwn(Parse(text))
}
