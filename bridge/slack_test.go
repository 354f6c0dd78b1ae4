package bridge

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

func TestSlackMessageFromEvent(t *testing.T) {
	ev := &slack.MessageEvent{Msg: slack.Msg{
		Channel:  "C1",
		User:     "U1",
		Text:     "look",
		SubType:  "file_share",
		Username: "carol",
		Attachments: []slack.Attachment{
			{Fallback: "build #12 failed", Text: "ignored"},
			{Text: "only text"},
			{},
		},
		Files: []slack.File{
			{Permalink: "https://files.slack.com/a.png"},
			{},
		},
	}}

	assert.Equal(t, SlackMessage{
		ChannelID:   "C1",
		UserID:      "U1",
		Username:    "carol",
		SubType:     "file_share",
		Text:        "look",
		Attachments: []string{"build #12 failed", "only text"},
		Files:       []string{"https://files.slack.com/a.png"},
	}, slackMessage(ev))
}
