package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPronouns(t *testing.T) {
	tests := map[string]string{
		"You are wrong":               "i are wrong",
		"You're not channel operator": "i'm not channel operator",
		"YOU'RE banned":               "i'm banned",
		"Cannot send to channel":      "Cannot send to channel",
		"youth is wasted":             "youth is wasted",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, MapPronouns(in))
		})
	}
}

func TestCompileGlobs(t *testing.T) {
	globs, err := CompileGlobs([]string{"~spam*", "U0?"})
	require.NoError(t, err)

	assert.True(t, matchesAny(globs, "~spammer"))
	assert.True(t, matchesAny(globs, "nope", "U01"))
	assert.False(t, matchesAny(globs, "~alice", "U001"))
	assert.False(t, matchesAny(globs, ""))
}

func TestStripNickPrefix(t *testing.T) {
	assert.Equal(t, "alice", stripNickPrefix("@alice"))
	assert.Equal(t, "bob", stripNickPrefix("+bob"))
	assert.Equal(t, "carol", stripNickPrefix("carol"))
}
