// Package slackfmt converts message text between Slack markup and the plain
// text used on IRC.
package slackfmt

import (
	"html"
	"regexp"
	"sort"
	"strings"
)

// DecodeEntities decodes HTML character entities such as &amp; and &lt;.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// MentionNicknames replaces every occurrence of a known IRC nickname with
// an @mention of its Slack display name.
//
// Nicknames are matched as plain substrings, so a nickname that is part of
// a longer word is replaced too. Longer nicknames are replaced first.
func MentionNicknames(s string, nicks map[string]string) string {
	keys := make([]string, 0, len(nicks))
	for nick, display := range nicks {
		if nick != "" && display != "" {
			keys = append(keys, nick)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, nick := range keys {
		if strings.Contains(s, nick) {
			s = strings.ReplaceAll(s, nick, "@"+nicks[nick])
		}
	}
	return s
}

// DecodeAndResolve turns a Slack message into text suitable for IRC.
//
// Entities are decoded first, then known nicknames are turned into
// mentions, and finally sigil and link tokens are resolved.
func DecodeAndResolve(s string, nicks map[string]string, dir Directory) string {
	s = DecodeEntities(s)
	s = MentionNicknames(s, nicks)
	return ResolveTokens(s, dir)
}

const fence = "```"

var inlineFence = regexp.MustCompile("(?s)```(.+?)```")

// StripCodeFences unwraps triple backtick code blocks.
//
// A message that is one code block becomes its content, with the whitespace
// around it collapsed to single newlines. Code blocks inside a message are
// replaced by their content padded with two spaces on either side.
// Single backticks are left alone.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) >= 2*len(fence) && strings.HasPrefix(trimmed, fence) && strings.HasSuffix(trimmed, fence) {
		inner := trimmed[len(fence) : len(trimmed)-len(fence)]
		if !strings.Contains(inner, fence) {
			return collapseEdges(inner)
		}
	}

	return inlineFence.ReplaceAllString(s, "  ${1}  ")
}

func collapseEdges(s string) string {
	body := strings.TrimSpace(s)
	if body == "" {
		return ""
	}
	if len(strings.TrimLeftFunc(s, isSpace)) != len(s) {
		body = "\n" + body
	}
	if len(strings.TrimRightFunc(s, isSpace)) != len(s) {
		body += "\n"
	}
	return body
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
