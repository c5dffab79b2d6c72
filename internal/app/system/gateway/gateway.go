// internal/app/system/gateway/gateway.go
package gateway

import "errors"

// Sentinel errors returned by Client implementations. Handlers branch on
// these instead of on platform-specific error codes.
var (
	// ErrNotFound means the referenced channel, role, guild, or member does
	// not exist (or is not visible to the bot).
	ErrNotFound = errors.New("gateway: not found")

	// ErrForbidden means the platform rejected a mutation for lack of
	// permission.
	ErrForbidden = errors.New("gateway: missing permission")
)

// Channel is a message-send destination.
type Channel struct {
	ID   string
	Name string
}

// Role is a platform role within a guild. Position orders the role
// hierarchy; a higher position outranks a lower one.
type Role struct {
	ID       string
	Name     string
	Position int
}

// Guild identifies one server the bot is a member of.
type Guild struct {
	ID   string
	Name string
}

// Member is a user's membership in a guild.
type Member struct {
	ID        string
	Username  string
	Nick      string
	Bot       bool
	RoleIDs   []string
	GuildID   string
	GuildName string
}

// DisplayName returns the in-guild nickname, falling back to the account
// username when no nickname is set.
func (m *Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.Username
}

// Mention renders the member as a mention token in message content.
func (m *Member) Mention() string { return "<@" + m.ID + ">" }

// HasRole reports whether the member currently holds the given role.
func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Client is the capability surface of the chat platform that the event
// handlers consume. Implementations must be safe for concurrent use; every
// handler invocation re-resolves identities through it rather than caching.
type Client interface {
	// Channel resolves a channel by ID. Returns ErrNotFound if absent.
	Channel(id string) (*Channel, error)

	// SendMessage posts plain text content to a channel.
	SendMessage(channelID, content string) error

	// Role resolves a role by ID within a guild. Returns ErrNotFound if absent.
	Role(guildID, roleID string) (*Role, error)

	// AddRole grants a role to a member, recording reason in the audit log.
	// Returns ErrForbidden when the platform rejects the mutation.
	AddRole(guildID, userID, roleID, reason string) error

	// Member fetches a single member's current state.
	Member(guildID, userID string) (*Member, error)

	// Members enumerates every member of a guild, bots included.
	Members(guildID string) ([]*Member, error)

	// Guilds lists the guilds the bot is currently a member of.
	Guilds() ([]*Guild, error)

	// CanManageRole reports whether the bot holds the manage-roles
	// permission in the guild and whether its highest role outranks the
	// target role, so a bulk assignment will not be rejected wholesale.
	CanManageRole(guildID string, role *Role) (bool, error)
}
