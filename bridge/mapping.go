package bridge

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// A Mapping is a normalised ChannelPair.
type Mapping struct {
	IRCChannel   string // lower case, with a single leading #
	SlackChannel string // lower case, without a leading #
	Key          string // IRC channel key, if any
}

// ChannelMap is the immutable two way table between IRC and Slack channels.
type ChannelMap struct {
	mappings []Mapping
	byIRC    map[string]Mapping
	bySlack  map[string]Mapping
}

// NormalizeIRCChannel lower cases an IRC channel, forces a single leading #
// and splits off a trailing channel key.
func NormalizeIRCChannel(channel string) (name, key string, err error) {
	parts := strings.Fields(channel)
	switch len(parts) {
	case 0:
		return "", "", errors.New("empty IRC channel")
	case 1:
	case 2:
		key = parts[1]
	default:
		return "", "", errors.Errorf("IRC channel %q is invalid, expected at most one space", channel)
	}

	name = strings.TrimLeft(strings.ToLower(parts[0]), "#")
	if name == "" {
		return "", "", errors.Errorf("IRC channel %q has no name", channel)
	}
	return "#" + name, key, nil
}

// NormalizeSlackChannel lower cases a Slack channel and strips any leading #.
func NormalizeSlackChannel(channel string) string {
	return strings.TrimLeft(strings.ToLower(strings.TrimSpace(channel)), "#")
}

// NewChannelMap builds a ChannelMap, rejecting pairs that are invalid or
// that map a channel on either side more than once.
// Every problem is reported, not just the first one.
func NewChannelMap(pairs []ChannelPair) (*ChannelMap, error) {
	m := &ChannelMap{
		byIRC:   make(map[string]Mapping, len(pairs)),
		bySlack: make(map[string]Mapping, len(pairs)),
	}

	var result *multierror.Error
	for _, pair := range pairs {
		ircChannel, key, err := NormalizeIRCChannel(pair.IRC)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		slackChannel := NormalizeSlackChannel(pair.Slack)
		if slackChannel == "" {
			result = multierror.Append(result, errors.Errorf("IRC channel %s has no Slack channel", ircChannel))
			continue
		}

		if _, ok := m.byIRC[ircChannel]; ok {
			result = multierror.Append(result, errors.Errorf("IRC channel %s is mapped more than once", ircChannel))
			continue
		}
		if _, ok := m.bySlack[slackChannel]; ok {
			result = multierror.Append(result, errors.Errorf("Slack channel %s is mapped more than once", slackChannel))
			continue
		}

		mapping := Mapping{IRCChannel: ircChannel, SlackChannel: slackChannel, Key: key}
		m.mappings = append(m.mappings, mapping)
		m.byIRC[ircChannel] = mapping
		m.bySlack[slackChannel] = mapping
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Wrap(err, "channel mappings are invalid")
	}
	return m, nil
}

// ToSlack returns the Slack channel for an IRC channel.
func (m *ChannelMap) ToSlack(ircChannel string) (string, bool) {
	name, _, err := NormalizeIRCChannel(ircChannel)
	if err != nil {
		return "", false
	}
	mapping, ok := m.byIRC[name]
	return mapping.SlackChannel, ok
}

// ToIRC returns the IRC channel for a Slack channel.
func (m *ChannelMap) ToIRC(slackChannel string) (string, bool) {
	mapping, ok := m.bySlack[NormalizeSlackChannel(slackChannel)]
	return mapping.IRCChannel, ok
}

// Key returns the channel key of an IRC channel, if it has one.
func (m *ChannelMap) Key(ircChannel string) string {
	name, _, err := NormalizeIRCChannel(ircChannel)
	if err != nil {
		return ""
	}
	return m.byIRC[name].Key
}

// Mappings returns every mapping in configuration order.
func (m *ChannelMap) Mappings() []Mapping {
	return append([]Mapping(nil), m.mappings...)
}

// JoinCommand produces a JOIN command for every mapped IRC channel.
// Keyed channels come first so their keys line up.
func (m *ChannelMap) JoinCommand() string {
	var channels, keyedChannels, keys []string

	for _, mapping := range m.mappings {
		if mapping.Key != "" {
			keyedChannels = append(keyedChannels, mapping.IRCChannel)
			keys = append(keys, mapping.Key)
		} else {
			channels = append(channels, mapping.IRCChannel)
		}
	}

	// Just append normal channels to the end of keyed channels
	keyedChannels = append(keyedChannels, channels...)

	cmd := "JOIN " + strings.Join(keyedChannels, ",")
	if len(keys) > 0 {
		cmd += " " + strings.Join(keys, ",")
	}
	return cmd
}

func (m Mapping) String() string {
	return fmt.Sprintf("%s <-> %s", m.IRCChannel, m.SlackChannel)
}
