// Package transmitter provides functionality for transmitting
// relayed messages to Slack channels.
//
// The package provides the following functionality:
// - Resolving channel names to channel IDs, reloading the list on a miss
// - Building message payloads with the options every relayed message uses
// - Sending new messages under an arbitrary username
package transmitter

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// API is the subset of *slack.Client used by a Transmitter.
type API interface {
	GetConversations(params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// ErrChannelNotFound is returned when no channel with the given name is visible to the bot.
var ErrChannelNotFound = errors.New("slack channel with this name does not exist")

// A Transmitter sends messages to channels in a single workspace.
type Transmitter struct {
	api API

	mu sync.RWMutex
	// channelIDs maps from a lower case channel name to its ID
	channelIDs map[string]string
}

// New returns a new Transmitter. Channels are loaded lazily on the first message.
func New(api API) *Transmitter {
	return &Transmitter{
		api:        api,
		channelIDs: make(map[string]string),
	}
}

// Load fetches every channel visible to the bot and replaces the name cache.
func (t *Transmitter) Load() error {
	channelIDs := make(map[string]string)

	params := &slack.GetConversationsParameters{
		ExcludeArchived: true,
		Limit:           200,
		Types:           []string{"public_channel", "private_channel"},
	}
	for {
		channels, cursor, err := t.api.GetConversations(params)
		if err != nil {
			return errors.Wrap(err, "could not list conversations")
		}

		for _, ch := range channels {
			channelIDs[strings.ToLower(ch.Name)] = ch.ID
		}

		if cursor == "" {
			break
		}
		params.Cursor = cursor
	}

	t.mu.Lock()
	t.channelIDs = channelIDs
	t.mu.Unlock()

	log.WithField("channels", len(channelIDs)).Debugln("Loaded Slack channels")
	return nil
}

func (t *Transmitter) lookup(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.channelIDs[strings.ToLower(name)]
	return id, ok
}

// ChannelID resolves a channel name to its ID, reloading the channel list once on a miss.
func (t *Transmitter) ChannelID(name string) (string, error) {
	if id, ok := t.lookup(name); ok {
		return id, nil
	}

	if err := t.Load(); err != nil {
		return "", err
	}

	if id, ok := t.lookup(name); ok {
		return id, nil
	}
	return "", ErrChannelNotFound
}

// A Payload is a message as posted with chat.postMessage.
type Payload struct {
	Text     string
	Username string

	// Parse enables full parsing of names and links by Slack
	Parse bool
	// LinkNames turns @name into mentions
	LinkNames bool
	// UnfurlLinks shows link previews
	UnfurlLinks bool
}

// NewPayload wraps text and a sender into a payload with the fixed delivery
// options used for every relayed message.
func NewPayload(text, username string) *Payload {
	return &Payload{
		Text:        text,
		Username:    username,
		Parse:       true,
		LinkNames:   true,
		UnfurlLinks: true,
	}
}

// Options converts the payload into slack message options.
func (p *Payload) Options() []slack.MsgOption {
	opts := []slack.MsgOption{
		slack.MsgOptionText(p.Text, true),
		slack.MsgOptionParse(p.Parse),
	}
	if p.Username != "" {
		opts = append(opts, slack.MsgOptionUsername(p.Username))
	}
	if p.LinkNames {
		opts = append(opts, slack.MsgOptionLinkNames(true))
	}
	if p.UnfurlLinks {
		opts = append(opts, slack.MsgOptionEnableLinkUnfurl())
	}
	return opts
}

// Message transmits a payload to the channel with the given name.
//
// Note that this function will wait until Slack responds with an answer.
func (t *Transmitter) Message(channel string, payload *Payload) error {
	id, err := t.ChannelID(channel)
	if err != nil {
		return errors.Wrapf(err, "could not resolve channel %q", channel)
	}

	if _, _, err := t.api.PostMessage(id, payload.Options()...); err != nil {
		return errors.Wrap(err, "could not post message")
	}

	return nil
}
