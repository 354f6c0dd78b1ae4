package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	c := &Config{
		IRCServer:       "irc.example.org:6697",
		SlackToken:      "xoxb-test",
		ChannelMappings: []ChannelPair{{IRC: "#a", Slack: "a"}},
	}
	require.NoError(t, c.Validate())

	assert.Equal(t, DefaultNick, c.IRCNick)
	assert.Equal(t, DefaultUsername, c.IRCUsername)
	assert.Empty(t, c.SenderSuffix, "an empty suffix is kept")
	assert.Equal(t, DefaultNickCacheSize, c.NickCacheSize)
	assert.Equal(t, DefaultDirectoryTTL, c.DirectoryTTL)
}

func TestValidateMissing(t *testing.T) {
	tests := map[string]Config{
		"server":   {SlackToken: "t", ChannelMappings: []ChannelPair{{IRC: "#a", Slack: "a"}}},
		"token":    {IRCServer: "s", ChannelMappings: []ChannelPair{{IRC: "#a", Slack: "a"}}},
		"mappings": {IRCServer: "s", SlackToken: "t"},
	}

	for name, c := range tests {
		c := c
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.Validate())
		})
	}
}
