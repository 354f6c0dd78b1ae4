package bridge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentities(t *testing.T, size int) *IdentityMap {
	t.Helper()
	m, err := NewIdentityMap(map[string]string{
		"~alice": "Alice",
		"BOB":    "Bob",
	}, "slckbt", "slckbt", size)
	require.NoError(t, err)
	return m
}

func TestCanonicalLogin(t *testing.T) {
	assert.Equal(t, "~alice", CanonicalLogin("alice"))
	assert.Equal(t, "~alice", CanonicalLogin("~Alice"))
	assert.Equal(t, "~alice", CanonicalLogin(" ~alice "))
}

func TestIdentityMapLookups(t *testing.T) {
	m := newIdentities(t, 8)

	display, ok := m.LoginToDisplay("bob")
	assert.True(t, ok)
	assert.Equal(t, "Bob", display)

	login, ok := m.DisplayToLogin("alice")
	assert.True(t, ok)
	assert.Equal(t, "~alice", login)

	_, ok = m.LoginToDisplay("~carol")
	assert.False(t, ok)

	assert.True(t, m.IsOwnLogin("slckbt"))
	assert.True(t, m.IsOwnLogin("~SLCKBT"))
	assert.False(t, m.IsOwnLogin("~alice"))
}

func TestIdentityMapRejectsDuplicates(t *testing.T) {
	_, err := NewIdentityMap(map[string]string{
		"~alice":  "Alice",
		"~al":     "ALICE",
		"~nobody": "",
	}, "slckbt", "slckbt", 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no display name")
	assert.Contains(t, err.Error(), "is used by both")

	_, err = NewIdentityMap(map[string]string{
		"~alice": "Alice",
		"alice":  "Someone",
	}, "slckbt", "slckbt", 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapped more than once")
}

func TestObserve(t *testing.T) {
	m := newIdentities(t, 8)

	m.Observe("ally", "alice", "example.com")
	m.Observe("stranger", "~stranger", "example.com")

	assert.Equal(t, "Alice", m.NicknameToDisplay("ally"))
	assert.Equal(t, "stranger", m.NicknameToDisplay("stranger"))
	assert.Equal(t, 1, m.Len())

	// The nick is now used by someone without a mapping
	m.Observe("ally", "~mallory", "example.com")
	assert.Equal(t, "ally", m.NicknameToDisplay("ally"))
	assert.Zero(t, m.Len())
}

func TestObserveSelf(t *testing.T) {
	m := newIdentities(t, 8)

	before := m.Self()
	assert.Equal(t, "slckbt", before.Nick)
	assert.Empty(t, before.Host)

	m.Observe("slckbt_", "~slckbt", "relay.example.org")

	self := m.Self()
	assert.Equal(t, "slckbt_", self.Nick)
	assert.Equal(t, "~slckbt", self.User)
	assert.Equal(t, "relay.example.org", self.Host)
	assert.Zero(t, m.Len())
}

func TestRenameMovesEntry(t *testing.T) {
	m := newIdentities(t, 8)
	m.Observe("ally", "~alice", "example.com")

	m.Rename("ally", "ally_")

	assert.Equal(t, map[string]string{"ally_": "Alice"}, m.Nicknames())

	// Unknown nicks are ignored
	m.Rename("nobody", "somebody")
	assert.Equal(t, 1, m.Len())
}

func TestRenameReplacesStaleEntry(t *testing.T) {
	m := newIdentities(t, 8)
	m.Observe("ally", "~alice", "example.com")

	// ally left, and an unknown user took the nick
	m.Rename("trudy", "ally")

	assert.Empty(t, m.Nicknames())
	assert.Equal(t, "ally", m.NicknameToDisplay("ally"))
}

func TestRenameSelfToConfiguredNick(t *testing.T) {
	m := newIdentities(t, 8)
	m.SetOwnNick("slckbt_")

	m.Rename("slckbt_", "slckbt")

	assert.Equal(t, "slckbt", m.Self().Nick)
	assert.Zero(t, m.Len())
}

func TestRenameToOwnNick(t *testing.T) {
	m := newIdentities(t, 8)
	m.Observe("ally", "~alice", "example.com")

	m.Rename("ally", "slckbt")

	assert.Equal(t, map[string]string{"ally": "Alice"}, m.Nicknames())
}

func TestRenameSelf(t *testing.T) {
	m := newIdentities(t, 8)
	m.SetOwnNick("slckbt_")

	m.Rename("slckbt_", "slckbt__")

	assert.Equal(t, "slckbt__", m.Self().Nick)
	assert.Zero(t, m.Len())
}

func TestNicknameCacheIsBounded(t *testing.T) {
	m := newIdentities(t, 4)

	for i := 0; i < 10; i++ {
		m.Observe(fmt.Sprintf("ally%d", i), "~alice", "example.com")
	}

	assert.Equal(t, 4, m.Len())
	assert.Equal(t, "Alice", m.NicknameToDisplay("ally9"))
	assert.Equal(t, "ally0", m.NicknameToDisplay("ally0"))
}
