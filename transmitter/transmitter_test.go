package transmitter

import (
	"errors"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	pages [][]slack.Channel
	calls int
	err   error

	posted  []string
	options [][]slack.MsgOption
}

func channel(id, name string) slack.Channel {
	return slack.Channel{GroupConversation: slack.GroupConversation{
		Name:         name,
		Conversation: slack.Conversation{ID: id},
	}}
}

func (f *fakeAPI) GetConversations(params *slack.GetConversationsParameters) ([]slack.Channel, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	page := 0
	if params.Cursor != "" {
		page = int(params.Cursor[0] - '0')
	}
	f.calls++

	cursor := ""
	if page+1 < len(f.pages) {
		cursor = string(rune('0' + page + 1))
	}
	return f.pages[page], cursor, nil
}

func (f *fakeAPI) PostMessage(channelID string, options ...slack.MsgOption) (string, string, error) {
	f.posted = append(f.posted, channelID)
	f.options = append(f.options, options)
	return channelID, "1.0", nil
}

func TestLoadPaginates(t *testing.T) {
	api := &fakeAPI{pages: [][]slack.Channel{
		{channel("C1", "general")},
		{channel("C2", "Random")},
	}}
	tr := New(api)

	require.NoError(t, tr.Load())
	assert.Equal(t, 2, api.calls)

	id, err := tr.ChannelID("random")
	require.NoError(t, err)
	assert.Equal(t, "C2", id)
}

func TestChannelIDReloadsOnMiss(t *testing.T) {
	api := &fakeAPI{pages: [][]slack.Channel{{channel("C1", "general")}}}
	tr := New(api)

	id, err := tr.ChannelID("general")
	require.NoError(t, err)
	assert.Equal(t, "C1", id)
	assert.Equal(t, 1, api.calls)

	// cached
	_, err = tr.ChannelID("general")
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)

	_, err = tr.ChannelID("missing")
	assert.Equal(t, ErrChannelNotFound, err)
	assert.Equal(t, 2, api.calls)
}

func TestLoadError(t *testing.T) {
	tr := New(&fakeAPI{err: errors.New("boom")})
	assert.Error(t, tr.Load())
}

func TestNewPayload(t *testing.T) {
	assert.Equal(t,
		&Payload{Text: "hi", Username: "bob (IRC)", Parse: true, LinkNames: true, UnfurlLinks: true},
		NewPayload("hi", "bob (IRC)"),
	)
}

func TestPayloadOptions(t *testing.T) {
	_, values, err := slack.UnsafeApplyMsgOptions("token", "C1", "https://slack.com/api/",
		NewPayload("a < b", "bob (IRC)").Options()...)
	require.NoError(t, err)

	assert.Equal(t, "a &lt; b", values.Get("text"))
	assert.Equal(t, "bob (IRC)", values.Get("username"))
	assert.Equal(t, "full", values.Get("parse"))
	assert.NotEmpty(t, values.Get("link_names"))
	assert.NotEmpty(t, values.Get("unfurl_links"))
}

func TestMessage(t *testing.T) {
	api := &fakeAPI{pages: [][]slack.Channel{{channel("C1", "general")}}}
	tr := New(api)

	require.NoError(t, tr.Message("general", NewPayload("hi", "bob")))
	assert.Equal(t, []string{"C1"}, api.posted)

	err := tr.Message("nope", NewPayload("hi", "bob"))
	assert.Error(t, err)
	assert.Len(t, api.posted, 1)
}
