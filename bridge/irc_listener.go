package bridge

import (
	"crypto/tls"
	"strings"

	irc "github.com/qaisjp/go-ircevent"
	log "github.com/sirupsen/logrus"
)

// Error replies that are about a channel, in the form "<me> <channel> :<text>"
var ircErrorCodes = []string{
	"401", // ERR_NOSUCHNICK
	"403", // ERR_NOSUCHCHANNEL
	"404", // ERR_CANNOTSENDTOCHAN
	"405", // ERR_TOOMANYCHANNELS
	"442", // ERR_NOTONCHANNEL
	"471", // ERR_CHANNELISFULL
	"473", // ERR_INVITEONLYCHAN
	"474", // ERR_BANNEDFROMCHAN
	"475", // ERR_BADCHANNELKEY
	"477", // ERR_NEEDREGGEDNICK
	"482", // ERR_CHANOPRIVSNEEDED
}

// Errors that mean the relay can't speak in the channel at all.
// Relaying them would only produce another one.
var cannotSpeakCodes = map[string]bool{
	"403": true,
	"404": true,
	"405": true,
	"442": true,
	"471": true,
	"473": true,
	"474": true,
	"475": true,
	"477": true,
}

// ircListener is the single IRC connection of the relay.
// Callbacks run on the connection's goroutine and only forward events to the bridge.
type ircListener struct {
	*irc.Connection
	bridge *Bridge
}

func newIRCListener(dib *Bridge) *ircListener {
	irccon := irc.IRC(dib.Config.IRCNick, dib.Config.IRCUsername)
	listener := &ircListener{irccon, dib}

	dib.SetupIRCConnection(irccon)
	if dib.Config.Debug {
		irccon.VerboseCallbackHandler = true
		irccon.Debug = true
	}

	// Welcome event
	irccon.AddCallback("001", listener.OnWelcome)

	// RPL_NAMREPLY and RPL_WHOISUSER
	irccon.AddCallback("353", listener.OnNames)
	irccon.AddCallback("311", listener.OnWhoisUser)

	irccon.AddCallback("JOIN", listener.OnJoin)
	irccon.AddCallback("NICK", listener.OnNick)
	irccon.AddCallback("PRIVMSG", listener.OnPrivateMessage)
	irccon.AddCallback("CTCP_ACTION", listener.OnPrivateMessage)

	for _, code := range ircErrorCodes {
		irccon.AddCallback(code, listener.OnError)
	}

	return listener
}

// SetupIRCConnection sets up an IRC connection with config settings like
// UseTLS, InsecureSkipVerify and the server password.
func (b *Bridge) SetupIRCConnection(con *irc.Connection) {
	if !b.Config.NoTLS {
		con.UseTLS = true
		con.TLSConfig = &tls.Config{
			InsecureSkipVerify: b.Config.InsecureSkipVerify,
		}
	}

	// On kick, rejoin the channel
	con.AddCallback("KICK", func(e *irc.Event) {
		b.rejoinOnKick(con, e)
	})

	con.Password = b.Config.IRCServerPass
}

// rejoiner is the part of an IRC connection used to rejoin after a kick.
type rejoiner interface {
	GetNick() string
	SendRaw(message string)
}

// rejoinOnKick joins the channel again, with its key, if the relay was the one kicked.
// KICK arguments are "<channel> <nick> :<reason>".
func (b *Bridge) rejoinOnKick(con rejoiner, e *irc.Event) {
	if len(e.Arguments) < 2 || e.Arguments[1] != con.GetNick() {
		return
	}

	channel := e.Arguments[0]
	if key := b.channels.Key(channel); key != "" {
		con.SendRaw("JOIN " + channel + " " + key)
	} else {
		con.SendRaw("JOIN " + channel)
	}
}

// OnWelcome reports the nick the server gave us. Channels are joined by the bridge.
func (i *ircListener) OnWelcome(e *irc.Event) {
	nick := i.GetNick()
	if len(e.Arguments) > 0 {
		nick = e.Arguments[0]
	}
	i.bridge.sendIRCEvent(IRCWelcome{Nick: nick})
}

func (i *ircListener) OnNames(e *irc.Event) {
	// <me> <symbol> <channel> :<nicks>
	if len(e.Arguments) < 4 {
		return
	}

	i.bridge.sendIRCEvent(IRCNames{
		Channel: e.Arguments[2],
		Nicks:   strings.Fields(e.Arguments[3]),
	})
}

func (i *ircListener) OnWhoisUser(e *irc.Event) {
	// <me> <nick> <user> <host> * :<real name>
	if len(e.Arguments) < 4 {
		return
	}

	i.bridge.sendIRCEvent(IRCWhois{
		Nick: e.Arguments[1],
		User: e.Arguments[2],
		Host: e.Arguments[3],
	})
}

func (i *ircListener) OnJoin(e *irc.Event) {
	if len(e.Arguments) < 1 {
		return
	}

	i.bridge.sendIRCEvent(IRCJoin{
		Channel: e.Arguments[0],
		Nick:    e.Nick,
		User:    e.User,
		Host:    e.Host,
	})
}

func (i *ircListener) OnNick(e *irc.Event) {
	i.bridge.sendIRCEvent(IRCNick{
		Old: e.Nick,
		New: e.Message(),
	})
}

func (i *ircListener) OnPrivateMessage(e *irc.Event) {
	// Ignore private messages
	if len(e.Arguments) == 0 || !strings.HasPrefix(e.Arguments[0], "#") {
		return
	}

	i.bridge.sendIRCEvent(IRCMessage{
		Channel:  e.Arguments[0],
		Nick:     e.Nick,
		User:     e.User,
		Host:     e.Host,
		Message:  e.Message(),
		IsAction: e.Code == "CTCP_ACTION",
	})
}

func (i *ircListener) OnError(e *irc.Event) {
	if len(e.Arguments) < 2 {
		log.WithField("code", e.Code).Warnln("Malformed IRC error")
		return
	}

	i.bridge.sendIRCEvent(IRCError{
		Code:    e.Code,
		Target:  e.Arguments[1],
		Message: e.Message(),
	})
}
