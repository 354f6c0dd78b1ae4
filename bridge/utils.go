package bridge

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

var pronouns = map[string]string{
	"you":    "i",
	"you're": "i'm",
}

// MapPronouns turns an error the server addressed to us into a first person
// sentence, i.e "You're not channel operator" becomes "i'm not channel operator".
// Words are matched case-insensitively and replaced with the lower case
// mapping, so the casing of the original word is lost.
func MapPronouns(message string) string {
	words := strings.Split(message, " ")
	for i, word := range words {
		if mapped, ok := pronouns[strings.ToLower(word)]; ok {
			words[i] = mapped
		}
	}
	return strings.Join(words, " ")
}

// CompileGlobs compiles a list of glob patterns.
func CompileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid glob %q", pattern)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchesAny(globs []glob.Glob, values ...string) bool {
	for _, g := range globs {
		for _, v := range values {
			if v != "" && g.Match(v) {
				return true
			}
		}
	}
	return false
}

// stripNickPrefix removes channel membership prefixes such as @ and + from a NAMES entry.
func stripNickPrefix(nick string) string {
	return strings.TrimLeft(nick, "~&@%+")
}
