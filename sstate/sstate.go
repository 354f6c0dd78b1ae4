// Package sstate provides lookups of Slack users and channels that first try
// a local cache, and then fall back on an API request.
package sstate

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// API is the subset of *slack.Client used by a Directory.
type API interface {
	GetUserInfo(user string) (*slack.User, error)
	GetConversationInfo(input *slack.GetConversationInfoInput) (*slack.Channel, error)
}

// ErrNotFound is returned for empty IDs and lookups that returned nothing.
var ErrNotFound = errors.New("not found")

// A Directory caches users and channels by ID.
type Directory struct {
	api API

	users    *expirable.LRU[string, *slack.User]
	channels *expirable.LRU[string, *slack.Channel]
}

// New returns a Directory holding at most size users and size channels,
// each for at most ttl.
func New(api API, size int, ttl time.Duration) *Directory {
	return &Directory{
		api:      api,
		users:    expirable.NewLRU[string, *slack.User](size, nil, ttl),
		channels: expirable.NewLRU[string, *slack.Channel](size, nil, ttl),
	}
}

// User returns the user with the given ID.
func (d *Directory) User(id string) (*slack.User, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	if u, ok := d.users.Get(id); ok {
		return u, nil
	}

	u, err := d.api.GetUserInfo(id)
	if err != nil {
		return nil, errors.Wrapf(err, "could not get user %s", id)
	}
	if u == nil {
		return nil, ErrNotFound
	}

	d.users.Add(id, u)
	return u, nil
}

// Channel returns the conversation with the given ID.
func (d *Directory) Channel(id string) (*slack.Channel, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	if ch, ok := d.channels.Get(id); ok {
		return ch, nil
	}

	ch, err := d.api.GetConversationInfo(&slack.GetConversationInfoInput{ChannelID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "could not get conversation %s", id)
	}
	if ch == nil {
		return nil, ErrNotFound
	}

	d.channels.Add(id, ch)
	return ch, nil
}

// UserName returns the name of a user, or false if the user can't be found.
func (d *Directory) UserName(id string) (string, bool) {
	u, err := d.User(id)
	if err != nil {
		log.WithError(err).WithField("user", id).Debugln("user lookup failed")
		return "", false
	}
	return u.Name, u.Name != ""
}

// ChannelName returns the name of a channel, or false if the channel can't be found.
func (d *Directory) ChannelName(id string) (string, bool) {
	ch, err := d.Channel(id)
	if err != nil {
		log.WithError(err).WithField("channel", id).Debugln("channel lookup failed")
		return "", false
	}
	return ch.Name, ch.Name != ""
}

// IsDirect reports whether the conversation is a direct message.
// Direct message IDs start with a D, which is used when the lookup fails.
func (d *Directory) IsDirect(id string) bool {
	ch, err := d.Channel(id)
	if err != nil {
		return strings.HasPrefix(id, "D")
	}
	return ch.IsIM
}
