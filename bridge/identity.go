package bridge

import (
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/qaisjp/go-slack-irc/irc/split"
)

// CanonicalLogin lower cases an IRC login and makes sure it starts with ~,
// whether or not the server or the configuration included it.
func CanonicalLogin(login string) string {
	login = strings.ToLower(strings.TrimSpace(login))
	if !strings.HasPrefix(login, "~") {
		login = "~" + login
	}
	return login
}

// IdentityMap translates IRC users to Slack display names.
//
// Logins are configured up front. Nicknames are learned at runtime from
// joins and WHOIS replies, and kept in a bounded cache.
type IdentityMap struct {
	mu sync.RWMutex

	logins   map[string]string // canonical login -> display name
	displays map[string]string // lower case display name -> canonical login
	nicks    *lru.Cache[string, string]

	ownNick  string // configured nickname
	ownLogin string
	self     split.Self
}

// NewIdentityMap builds an IdentityMap for the relay running as nick and username.
// Two logins may not map to the same display name, and a login may not be
// given twice.
func NewIdentityMap(users map[string]string, nick, username string, size int) (*IdentityMap, error) {
	nicks, err := lru.New[string, string](size)
	if err != nil {
		return nil, errors.Wrap(err, "could not create nickname cache")
	}

	m := &IdentityMap{
		logins:   make(map[string]string, len(users)),
		displays: make(map[string]string, len(users)),
		nicks:    nicks,
		ownNick:  nick,
		ownLogin: CanonicalLogin(username),
		self:     split.Self{Nick: nick},
	}

	var result *multierror.Error
	for login, display := range users {
		canonical := CanonicalLogin(login)
		display = strings.TrimSpace(display)

		if display == "" {
			result = multierror.Append(result, errors.Errorf("login %s has no display name", canonical))
			continue
		}
		if _, ok := m.logins[canonical]; ok {
			result = multierror.Append(result, errors.Errorf("login %s is mapped more than once", canonical))
			continue
		}
		if other, ok := m.displays[strings.ToLower(display)]; ok {
			result = multierror.Append(result, errors.Errorf("display name %s is used by both %s and %s", display, other, canonical))
			continue
		}

		m.logins[canonical] = display
		m.displays[strings.ToLower(display)] = canonical
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Wrap(err, "user mappings are invalid")
	}
	return m, nil
}

// LoginToDisplay returns the display name configured for a login.
func (m *IdentityMap) LoginToDisplay(login string) (string, bool) {
	display, ok := m.logins[CanonicalLogin(login)]
	return display, ok
}

// DisplayToLogin returns the login configured for a display name.
func (m *IdentityMap) DisplayToLogin(display string) (string, bool) {
	login, ok := m.displays[strings.ToLower(display)]
	return login, ok
}

// IsOwnLogin reports whether login belongs to the relay itself.
func (m *IdentityMap) IsOwnLogin(login string) bool {
	return CanonicalLogin(login) == m.ownLogin
}

// NicknameToDisplay returns the display name of the user currently using
// nick, or nick itself if it isn't known.
func (m *IdentityMap) NicknameToDisplay(nick string) string {
	if display, ok := m.nicks.Get(nick); ok {
		return display
	}
	return nick
}

// Observe records that nick is logged in as user from host.
//
// Observing the relay's own login only updates what the relay knows about
// itself. Otherwise the nickname is cached if the login has a display name,
// and forgotten if it doesn't.
func (m *IdentityMap) Observe(nick, user, host string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	login := CanonicalLogin(user)
	if login == m.ownLogin {
		m.self = split.Self{Nick: nick, User: user, Host: host}
		return
	}

	if display, ok := m.logins[login]; ok {
		m.nicks.Add(nick, display)
		return
	}
	m.nicks.Remove(nick)
}

// Rename moves a cached nickname when a user changes nick.
//
// Whatever was cached for newNick is replaced, so a nick taken over by an
// unknown user no longer maps to its previous owner.
func (m *IdentityMap) Rename(oldNick, newNick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldNick == m.self.Nick {
		m.self.Nick = newNick
	}

	if newNick == m.ownNick {
		return
	}

	display, ok := m.nicks.Peek(oldNick)
	if !ok {
		m.nicks.Remove(newNick)
		return
	}
	m.nicks.Remove(oldNick)
	m.nicks.Add(newNick, display)
}

// SetOwnNick records the nickname the server gave the relay.
func (m *IdentityMap) SetOwnNick(nick string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.self.Nick = nick
}

// Self returns what the relay knows about its own IRC identity.
func (m *IdentityMap) Self() split.Self {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.self
}

// Nicknames returns a copy of the nickname cache.
func (m *IdentityMap) Nicknames() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, m.nicks.Len())
	for _, nick := range m.nicks.Keys() {
		if display, ok := m.nicks.Peek(nick); ok {
			result[nick] = display
		}
	}
	return result
}

// Len returns the number of cached nicknames.
func (m *IdentityMap) Len() int {
	return m.nicks.Len()
}
