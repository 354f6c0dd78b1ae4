package bridge

// IRCWelcome is sent once the IRC server has accepted the relay's registration.
type IRCWelcome struct {
	Nick string // the nickname the server knows us by
}

// IRCNames is a list of nicknames present in a channel.
type IRCNames struct {
	Channel string
	Nicks   []string
}

// IRCWhois is the answer to a WHOIS lookup.
type IRCWhois struct {
	Nick string
	User string
	Host string
}

// IRCJoin is sent when anyone, including the relay, joins a channel.
type IRCJoin struct {
	Channel string
	Nick    string
	User    string
	Host    string
}

// IRCNick is sent when someone changes their nickname.
type IRCNick struct {
	Old string
	New string
}

// IRCMessage is a chat message sent to Slack (from IRC)
type IRCMessage struct {
	Channel  string
	Nick     string
	User     string
	Host     string
	Message  string
	IsAction bool
}

// IRCError is an error reply from the IRC server.
type IRCError struct {
	Code    string
	Target  string // usually the channel the error is about
	Message string
}

// SlackConnected is sent once the RTM connection is established.
type SlackConnected struct {
	UserID   string
	UserName string
	TeamName string
}

// SlackMessage is a chat message sent to IRC (from Slack)
type SlackMessage struct {
	ChannelID string
	UserID    string
	Username  string // set for messages with a custom sender name
	BotID     string
	SubType   string
	Text      string
	Hidden    bool

	Attachments []string // fallback text of each attachment
	Files       []string // permalink of each file
}

// Slack message subtypes
const (
	subtypeBotMessage   = "bot_message"
	subtypeChannelJoin  = "channel_join"
	subtypeChannelLeave = "channel_leave"
	subtypeChannelTopic = "channel_topic"
	subtypeGroupJoin    = "group_join"
	subtypeGroupLeave   = "group_leave"
	subtypeGroupTopic   = "group_topic"
)

func isMembershipSubtype(subtype string) bool {
	switch subtype {
	case subtypeChannelJoin, subtypeChannelLeave, subtypeChannelTopic,
		subtypeGroupJoin, subtypeGroupLeave, subtypeGroupTopic:
		return true
	}
	return false
}
