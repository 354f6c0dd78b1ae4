package bridge

import (
	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"

	"github.com/qaisjp/go-slack-irc/sstate"
	"github.com/qaisjp/go-slack-irc/transmitter"
)

// slackBot owns the Slack RTM connection and the clients built on the same API.
type slackBot struct {
	*slack.Client
	rtm *slack.RTM

	transmitter *transmitter.Transmitter
	directory   *sstate.Directory

	bridge *Bridge
}

func newSlackBot(dib *Bridge) *slackBot {
	client := slack.New(dib.Config.SlackToken, slack.OptionDebug(dib.Config.Debug))

	return &slackBot{
		Client: client,
		rtm:    client.NewRTM(),

		transmitter: transmitter.New(client),
		directory:   sstate.New(client, dib.Config.NickCacheSize, dib.Config.DirectoryTTL),

		bridge: dib,
	}
}

// Open starts the RTM connection and forwards its events to the bridge.
func (s *slackBot) Open() {
	go s.rtm.ManageConnection()
	go s.forward()
}

func (s *slackBot) Close() {
	if err := s.rtm.Disconnect(); err != nil {
		log.WithError(err).Warnln("could not disconnect from slack")
	}
}

func (s *slackBot) forward() {
	for ev := range s.rtm.IncomingEvents {
		switch data := ev.Data.(type) {
		case *slack.ConnectedEvent:
			s.onConnected(data)

		case *slack.HelloEvent:
			log.Infoln("Slack client now connected")

		case *slack.MessageEvent:
			s.bridge.sendSlackEvent(slackMessage(data))

		case *slack.RTMError:
			log.WithError(data).Errorln("Slack RTM error")

		case *slack.ConnectionErrorEvent:
			log.WithError(data).Warnln("Slack connection error")

		case *slack.InvalidAuthEvent:
			log.Errorln("Slack rejected the token")
		}
	}
}

func (s *slackBot) onConnected(ev *slack.ConnectedEvent) {
	if ev.Info == nil || ev.Info.User == nil {
		return
	}

	connected := SlackConnected{
		UserID:   ev.Info.User.ID,
		UserName: ev.Info.User.Name,
	}
	if ev.Info.Team != nil {
		connected.TeamName = ev.Info.Team.Name
	}

	s.bridge.sendSlackEvent(connected)
}

// slackMessage flattens an RTM message event.
func slackMessage(ev *slack.MessageEvent) SlackMessage {
	msg := SlackMessage{
		ChannelID: ev.Channel,
		UserID:    ev.User,
		Username:  ev.Username,
		BotID:     ev.BotID,
		SubType:   ev.SubType,
		Text:      ev.Text,
		Hidden:    ev.Hidden,
	}

	for _, a := range ev.Attachments {
		text := a.Fallback
		if text == "" {
			text = a.Text
		}
		if text != "" {
			msg.Attachments = append(msg.Attachments, text)
		}
	}

	for _, f := range ev.Files {
		if f.Permalink != "" {
			msg.Files = append(msg.Files, f.Permalink)
		}
	}

	return msg
}
