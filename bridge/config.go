package bridge

import (
	"time"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Defaults applied by Config.Validate.
// DefaultSenderSuffix is only a configuration default, an empty suffix is allowed.
const (
	DefaultNick          = "slckbt"
	DefaultUsername      = "slckbt"
	DefaultSenderSuffix  = " (IRC)"
	DefaultNickCacheSize = 1024
	DefaultDirectoryTTL  = 10 * time.Minute
)

// A ChannelPair maps an IRC channel to a Slack channel.
//
// IRC may carry a channel key after a space, i.e "#secret hunter2".
// Neither side needs to be lower case, and Slack may have a leading #.
type ChannelPair struct {
	IRC   string `mapstructure:"irc"`
	Slack string `mapstructure:"slack"`
}

// Config to be passed to New
type Config struct {
	IRCServer     string
	IRCServerPass string
	IRCNick       string // i.e, "slckbt"
	IRCUsername   string // ident of the relay, its own login is "~" + IRCUsername

	// NoTLS constrols whether to use TLS at all when connecting to the IRC server
	NoTLS bool

	// InsecureSkipVerify controls whether a client verifies the
	// server's certificate chain and host name.
	// This should be used only for testing.
	InsecureSkipVerify bool

	SlackToken string

	ChannelMappings []ChannelPair
	Users           map[string]string // IRC login to Slack display name

	// SuppressHighlight inserts a zero width joiner into sender labels on IRC
	SuppressHighlight bool

	// SenderSuffix is appended to the names of IRC users on Slack, it may be empty
	SenderSuffix string

	// Blacklist matches IRC logins, Slack user IDs and Slack user names
	// whose messages are never relayed
	Blacklist []glob.Glob

	// AutoOp gives channel operator status to everyone who joins
	AutoOp bool

	NickCacheSize int
	DirectoryTTL  time.Duration

	Debug  bool
	Silent bool
}

// Validate applies defaults and checks for missing required values.
func (c *Config) Validate() error {
	if c.IRCServer == "" {
		return errors.New("missing server name")
	}
	if c.SlackToken == "" {
		return errors.New("missing slack token")
	}
	if len(c.ChannelMappings) == 0 {
		return errors.New("missing channel mappings")
	}

	if c.IRCNick == "" {
		c.IRCNick = DefaultNick
	}
	if c.IRCUsername == "" {
		c.IRCUsername = DefaultUsername
	}
	if c.NickCacheSize <= 0 {
		c.NickCacheSize = DefaultNickCacheSize
	}
	if c.DirectoryTTL <= 0 {
		c.DirectoryTTL = DefaultDirectoryTTL
	}

	return nil
}
