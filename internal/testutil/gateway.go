// internal/testutil/gateway.go
package testutil

import (
	"sync"

	"github.com/gptfleet/hellbot/internal/app/system/gateway"
)

// SentMessage records one SendMessage call on a FakeGateway.
type SentMessage struct {
	ChannelID string
	Content   string
}

// RoleGrant records one AddRole call on a FakeGateway.
type RoleGrant struct {
	GuildID string
	UserID  string
	RoleID  string
	Reason  string
}

// FakeGateway is an in-memory gateway.Client for handler tests. Zero-value
// maps are treated as empty; lookups against them return
// gateway.ErrNotFound.
type FakeGateway struct {
	mu sync.Mutex

	Channels  map[string]*gateway.Channel
	Roles     map[string]map[string]*gateway.Role // guildID -> roleID -> role
	GuildList []*gateway.Guild
	Directory map[string][]*gateway.Member // guildID -> members

	// ManageRoles reports CanManageRole per guild. Guilds absent from the
	// map are treated as manageable.
	ManageRoles map[string]bool

	// SendErr fails SendMessage for a channel ID; AddRoleErr fails AddRole
	// for a user ID.
	SendErr    map[string]error
	AddRoleErr map[string]error

	// MemberFn, when set, overrides Member lookups (used to simulate a role
	// granted between enumeration and mutation).
	MemberFn func(guildID, userID string) (*gateway.Member, error)

	Sent   []SentMessage
	Grants []RoleGrant
}

var _ gateway.Client = (*FakeGateway)(nil)

func (f *FakeGateway) Channel(id string) (*gateway.Channel, error) {
	if ch, ok := f.Channels[id]; ok {
		return ch, nil
	}
	return nil, gateway.ErrNotFound
}

func (f *FakeGateway) SendMessage(channelID, content string) error {
	if err := f.SendErr[channelID]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, SentMessage{ChannelID: channelID, Content: content})
	return nil
}

func (f *FakeGateway) Role(guildID, roleID string) (*gateway.Role, error) {
	if r, ok := f.Roles[guildID][roleID]; ok {
		return r, nil
	}
	return nil, gateway.ErrNotFound
}

func (f *FakeGateway) AddRole(guildID, userID, roleID, reason string) error {
	if err := f.AddRoleErr[userID]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Grants = append(f.Grants, RoleGrant{GuildID: guildID, UserID: userID, RoleID: roleID, Reason: reason})
	return nil
}

func (f *FakeGateway) Member(guildID, userID string) (*gateway.Member, error) {
	if f.MemberFn != nil {
		return f.MemberFn(guildID, userID)
	}
	for _, m := range f.Directory[guildID] {
		if m.ID == userID {
			return m, nil
		}
	}
	return nil, gateway.ErrNotFound
}

func (f *FakeGateway) Members(guildID string) ([]*gateway.Member, error) {
	return f.Directory[guildID], nil
}

func (f *FakeGateway) Guilds() ([]*gateway.Guild, error) {
	return f.GuildList, nil
}

func (f *FakeGateway) CanManageRole(guildID string, role *gateway.Role) (bool, error) {
	if ok, present := f.ManageRoles[guildID]; present {
		return ok, nil
	}
	return true, nil
}

// SentTo returns the messages sent to one channel.
func (f *FakeGateway) SentTo(channelID string) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMessage
	for _, s := range f.Sent {
		if s.ChannelID == channelID {
			out = append(out, s)
		}
	}
	return out
}
