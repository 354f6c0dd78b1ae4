package bridge

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/qaisjp/go-slack-irc/irc/format"
	"github.com/qaisjp/go-slack-irc/irc/split"
	"github.com/qaisjp/go-slack-irc/slackfmt"
	"github.com/qaisjp/go-slack-irc/transmitter"
)

// apology is put in front of errors the IRC server sends us
const apology = "I don't feel so well because "

const (
	// WHOIS lookups are paced so joining a big channel doesn't flood the server
	whoisInterval = 500 * time.Millisecond
	whoisBurst    = 5
	flushInterval = 250 * time.Millisecond

	// the same error for the same channel is relayed at most once per cooldown
	errorCooldown = time.Minute
)

// ircSender is the part of an IRC connection the bridge talks through.
type ircSender interface {
	Privmsg(target, message string)
	SendRawf(format string, a ...interface{})
}

// slackSender delivers payloads to Slack channels by name.
type slackSender interface {
	Message(channel string, payload *transmitter.Payload) error
}

// slackDirectory resolves Slack IDs.
type slackDirectory interface {
	slackfmt.Directory
	IsDirect(channelID string) bool
}

// A Bridge represents a bridging between an IRC server and channels in a Slack workspace
type Bridge struct {
	Config *Config

	channels   *ChannelMap
	identities *IdentityMap

	ircListener *ircListener
	slackBot    *slackBot

	irc       ircSender
	slack     slackSender
	directory slackDirectory

	// slackSelf is the relay's own Slack user ID, known once connected
	slackSelf string

	whoisQueue   []string
	whoisPending map[string]bool
	whoisLimiter *rate.Limiter

	recentErrors *expirable.LRU[string, struct{}]

	done    chan bool
	stopped chan struct{}

	ircEvents   chan interface{}
	slackEvents chan interface{}
}

// newBridge validates the configuration and builds the channel and identity maps.
func newBridge(conf *Config) (*Bridge, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	channels, err := NewChannelMap(conf.ChannelMappings)
	if err != nil {
		return nil, err
	}

	identities, err := NewIdentityMap(conf.Users, conf.IRCNick, conf.IRCUsername, conf.NickCacheSize)
	if err != nil {
		return nil, err
	}

	return &Bridge{
		Config:     conf,
		channels:   channels,
		identities: identities,

		whoisPending: make(map[string]bool),
		whoisLimiter: rate.NewLimiter(rate.Every(whoisInterval), whoisBurst),
		recentErrors: expirable.NewLRU[string, struct{}](64, nil, errorCooldown),

		done:    make(chan bool),
		stopped: make(chan struct{}),

		ircEvents:   make(chan interface{}, 64),
		slackEvents: make(chan interface{}, 64),
	}, nil
}

// New Bridge
func New(conf *Config) (*Bridge, error) {
	dib, err := newBridge(conf)
	if err != nil {
		return nil, errors.Wrap(err, "configuration invalid")
	}

	dib.ircListener = newIRCListener(dib)
	dib.irc = dib.ircListener

	dib.slackBot = newSlackBot(dib)
	dib.slack = dib.slackBot.transmitter
	dib.directory = dib.slackBot.directory

	for _, mapping := range dib.channels.Mappings() {
		log.WithField("mapping", mapping.String()).Debugln("Channel mapping")
	}

	go dib.loop()

	return dib, nil
}

// Open all the connections required to run the bridge
func (b *Bridge) Open() (err error) {
	b.slackBot.Open()

	err = b.ircListener.Connect(b.Config.IRCServer)
	if err != nil {
		return errors.Wrap(err, "can't open irc connection")
	}

	// run listener loop
	go b.ircListener.Loop()

	return
}

// Close the Bridge
func (b *Bridge) Close() {
	b.done <- true
	<-b.done
}

func (b *Bridge) sendIRCEvent(ev interface{}) {
	select {
	case b.ircEvents <- ev:
	case <-b.stopped:
	}
}

func (b *Bridge) sendSlackEvent(ev interface{}) {
	select {
	case b.slackEvents <- ev:
	case <-b.stopped:
	}
}

// loop is the only goroutine that touches bridge state.
// Events from each side are handled in the order they arrived.
func (b *Bridge) loop() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			b.flushWhois(now)

		case ev := <-b.ircEvents:
			b.handleIRCEvent(ev)

		case ev := <-b.slackEvents:
			b.handleSlackEvent(ev)

		// Done!
		case <-b.done:
			close(b.stopped)
			if b.slackBot != nil {
				b.slackBot.Close()
			}
			if b.ircListener != nil && b.ircListener.Connected() {
				b.ircListener.Quit()
			}
			close(b.done)

			return
		}
	}
}

func (b *Bridge) handleIRCEvent(ev interface{}) {
	switch e := ev.(type) {
	case IRCWelcome:
		b.identities.SetOwnNick(e.Nick)

		// Join all channels
		b.irc.SendRawf("%s", b.channels.JoinCommand())

	case IRCNames:
		self := b.identities.Self().Nick
		for _, nick := range e.Nicks {
			nick = stripNickPrefix(nick)
			if nick == "" || nick == self {
				continue
			}
			b.queueWhois(nick)
		}
		b.flushWhois(time.Now())

	case IRCWhois:
		b.identities.Observe(e.Nick, e.User, e.Host)
		nickCacheEntries.Set(float64(b.identities.Len()))

	case IRCJoin:
		b.identities.Observe(e.Nick, e.User, e.Host)
		nickCacheEntries.Set(float64(b.identities.Len()))

		if b.Config.AutoOp && !b.identities.IsOwnLogin(e.User) {
			b.irc.SendRawf("MODE %s +o %s", e.Channel, e.Nick)
		}

	case IRCNick:
		b.identities.Rename(e.Old, e.New)

	case IRCMessage:
		b.handleIRCMessage(e)

	case IRCError:
		b.handleIRCError(e)

	default:
		log.WithField("event", ev).Warnln("Unknown IRC event")
	}
}

func (b *Bridge) handleSlackEvent(ev interface{}) {
	switch e := ev.(type) {
	case SlackConnected:
		b.slackSelf = e.UserID
		log.WithFields(log.Fields{
			"id":   e.UserID,
			"name": e.UserName,
			"team": e.TeamName,
		}).Infoln("Slack client now logged in")

	case SlackMessage:
		b.handleSlackMessage(e)

	default:
		log.WithField("event", ev).Warnln("Unknown Slack event")
	}
}

// queueWhois schedules a WHOIS lookup unless one is already waiting.
func (b *Bridge) queueWhois(nick string) {
	if b.whoisPending[nick] {
		return
	}
	b.whoisPending[nick] = true
	b.whoisQueue = append(b.whoisQueue, nick)
}

// flushWhois sends as many queued lookups as the limiter allows at now.
func (b *Bridge) flushWhois(now time.Time) {
	for len(b.whoisQueue) > 0 && b.whoisLimiter.AllowN(now, 1) {
		nick := b.whoisQueue[0]
		b.whoisQueue = b.whoisQueue[1:]
		delete(b.whoisPending, nick)

		b.irc.SendRawf("WHOIS %s", nick)
	}
}

// handleIRCMessage relays a channel message (or action) from IRC to Slack.
func (b *Bridge) handleIRCMessage(msg IRCMessage) {
	fields := log.Fields{
		"irc.channel": msg.Channel,
		"irc.nick":    msg.Nick,
	}

	if b.isBlacklistedLogin(msg.User) {
		dropped("blacklisted", fields)
		return
	}

	channel, ok := b.channels.ToSlack(msg.Channel)
	if !ok {
		dropped("unmapped", fields)
		return
	}

	from := b.identities.NicknameToDisplay(msg.Nick)
	b.sayOnSlack(channel, ircf.ToMrkdwn(msg.Message), from)
}

// sayOnSlack mentions known nicknames in body and posts it to a Slack channel.
func (b *Bridge) sayOnSlack(channel, body, sender string) {
	body = slackfmt.MentionNicknames(body, b.identities.Nicknames())
	payload := transmitter.NewPayload(body, sender+b.Config.SenderSuffix)

	if err := b.slack.Message(channel, payload); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"msg.channel":  channel,
			"msg.username": payload.Username,
			"msg.content":  payload.Text,
		}).Errorln("could not transmit message to slack")
		messagesDropped.WithLabelValues("delivery").Inc()
		return
	}

	relayed(directionToSlack)
}

// handleSlackMessage relays a Slack channel message to IRC.
func (b *Bridge) handleSlackMessage(msg SlackMessage) {
	fields := log.Fields{
		"slack.channel": msg.ChannelID,
		"slack.user":    msg.UserID,
		"slack.subtype": msg.SubType,
	}

	switch {
	case msg.Hidden:
		dropped("hidden", fields)
		return
	case msg.Text == "" && len(msg.Attachments) == 0 && len(msg.Files) == 0:
		dropped("empty", fields)
		return
	case msg.SubType == subtypeBotMessage:
		dropped("bot", fields)
		return
	case msg.UserID == "":
		dropped("no_author", fields)
		return
	case msg.UserID == b.slackSelf:
		dropped("self", fields)
		return
	}

	username := msg.Username
	if username == "" {
		if name, ok := b.directory.UserName(msg.UserID); ok {
			username = name
		} else {
			username = msg.UserID
		}
	}

	if b.isBlacklistedSlackUser(msg.UserID, username) {
		dropped("blacklisted", fields)
		return
	}

	if b.directory.IsDirect(msg.ChannelID) {
		dropped("direct", fields)
		return
	}

	if isMembershipSubtype(msg.SubType) {
		dropped("membership", fields)
		return
	}

	name, ok := b.directory.ChannelName(msg.ChannelID)
	if !ok {
		dropped("unknown_channel", fields)
		return
	}

	channel, ok := b.channels.ToIRC(name)
	if !ok {
		dropped("unmapped", fields)
		return
	}

	body := strings.Join(append(append([]string{msg.Text}, msg.Attachments...), msg.Files...), "\n")
	body = slackfmt.DecodeAndResolve(body, b.identities.Nicknames(), b.directory)
	body = slackfmt.StripCodeFences(body)

	if b.sayOnIRC(channel, username, body) {
		relayed(directionToIRC)
	}
}

// sayOnIRC splits body into lines that fit into a PRIVMSG to channel and sends them.
// It reports whether anything was sent.
func (b *Bridge) sayOnIRC(channel, sender, body string) bool {
	label := split.Label(sender, b.Config.SuppressHighlight)
	budget := split.Budget(b.identities.Self(), channel, label)

	lines := split.Lines(label, body, budget)
	if len(lines) == 0 {
		dropped("empty", log.Fields{"irc.channel": channel})
		return false
	}

	for _, line := range lines {
		b.irc.Privmsg(channel, line)
	}
	return true
}

// handleIRCError tells the channel an error was about what went wrong.
func (b *Bridge) handleIRCError(e IRCError) {
	entry := log.WithFields(log.Fields{
		"code":    e.Code,
		"target":  e.Target,
		"message": e.Message,
	})

	if !strings.HasPrefix(e.Target, "#") {
		entry.Warnln("IRC error")
		return
	}

	// Saying anything there would only earn another error
	if cannotSpeakCodes[e.Code] {
		entry.Warnln("Cannot speak in channel")
		return
	}

	key := e.Code + " " + strings.ToLower(e.Target)
	if _, ok := b.recentErrors.Get(key); ok {
		entry.Debugln("IRC error was relayed recently")
		return
	}
	b.recentErrors.Add(key, struct{}{})

	entry.Infoln("Relaying IRC error to channel")
	b.sayOnIRC(e.Target, "", apology+MapPronouns(ircf.StripCodes(e.Message)))
}

// isBlacklistedLogin matches the login with and without its leading ~.
func (b *Bridge) isBlacklistedLogin(user string) bool {
	login := CanonicalLogin(user)
	return matchesAny(b.Config.Blacklist, login, strings.TrimPrefix(login, "~"))
}

// isBlacklistedSlackUser checks the user's ID, their name, and the IRC
// login their name maps to.
func (b *Bridge) isBlacklistedSlackUser(id, name string) bool {
	if matchesAny(b.Config.Blacklist, id, name) {
		return true
	}
	if login, ok := b.identities.DisplayToLogin(name); ok {
		return b.isBlacklistedLogin(login)
	}
	return false
}
