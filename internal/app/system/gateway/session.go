// internal/app/system/gateway/session.go
package gateway

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Session adapts a discordgo session to the Client interface. Reads go
// through the state cache when possible and fall back to the REST API, so
// handlers always see live data without hammering the API for entities the
// gateway already pushed to us.
type Session struct {
	s *discordgo.Session
}

// NewSession wraps an open discordgo session.
func NewSession(s *discordgo.Session) *Session {
	return &Session{s: s}
}

func (g *Session) Channel(id string) (*Channel, error) {
	ch, err := g.s.State.Channel(id)
	if err != nil {
		ch, err = g.s.Channel(id)
		if err != nil {
			return nil, mapErr(err)
		}
	}
	return &Channel{ID: ch.ID, Name: ch.Name}, nil
}

func (g *Session) SendMessage(channelID, content string) error {
	_, err := g.s.ChannelMessageSend(channelID, content)
	return mapErr(err)
}

func (g *Session) Role(guildID, roleID string) (*Role, error) {
	r, err := g.s.State.Role(guildID, roleID)
	if err != nil {
		roles, rerr := g.s.GuildRoles(guildID)
		if rerr != nil {
			return nil, mapErr(rerr)
		}
		for _, gr := range roles {
			if gr.ID == roleID {
				r = gr
				break
			}
		}
		if r == nil {
			return nil, ErrNotFound
		}
	}
	return &Role{ID: r.ID, Name: r.Name, Position: r.Position}, nil
}

func (g *Session) AddRole(guildID, userID, roleID, reason string) error {
	err := g.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
	return mapErr(err)
}

func (g *Session) Member(guildID, userID string) (*Member, error) {
	m, err := g.s.GuildMember(guildID, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return g.convertMember(guildID, m), nil
}

// Members pages through the full member list, 1000 at a time (the REST
// limit), until the guild is exhausted.
func (g *Session) Members(guildID string) ([]*Member, error) {
	var out []*Member
	after := ""
	for {
		page, err := g.s.GuildMembers(guildID, after, 1000)
		if err != nil {
			return nil, mapErr(err)
		}
		for _, m := range page {
			out = append(out, g.convertMember(guildID, m))
		}
		if len(page) < 1000 {
			return out, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (g *Session) Guilds() ([]*Guild, error) {
	state := g.s.State.Guilds
	out := make([]*Guild, 0, len(state))
	for _, sg := range state {
		out = append(out, &Guild{ID: sg.ID, Name: sg.Name})
	}
	return out, nil
}

// CanManageRole checks both halves of what the platform enforces on role
// grants: the manage-roles permission bit and the role hierarchy (the bot's
// highest role must sit above the role it hands out).
func (g *Session) CanManageRole(guildID string, role *Role) (bool, error) {
	guild, err := g.s.State.Guild(guildID)
	if err != nil {
		return false, mapErr(err)
	}
	botID := g.s.State.User.ID
	bot, err := g.s.State.Member(guildID, botID)
	if err != nil {
		if bot, err = g.s.GuildMember(guildID, botID); err != nil {
			return false, mapErr(err)
		}
	}

	var perms int64
	top := -1
	for _, gr := range guild.Roles {
		// The @everyone role shares the guild's ID and applies to the bot
		// whether or not it appears in the member's role list.
		held := gr.ID == guildID
		for _, id := range bot.Roles {
			if id == gr.ID {
				held = true
				break
			}
		}
		if !held {
			continue
		}
		perms |= gr.Permissions
		if gr.Position > top {
			top = gr.Position
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return true, nil
	}
	if perms&discordgo.PermissionManageRoles == 0 {
		return false, nil
	}
	return top > role.Position, nil
}

func (g *Session) convertMember(guildID string, m *discordgo.Member) *Member {
	guildName := ""
	if guild, err := g.s.State.Guild(guildID); err == nil {
		guildName = guild.Name
	}
	return &Member{
		ID:        m.User.ID,
		Username:  m.User.Username,
		Nick:      m.Nick,
		Bot:       m.User.Bot,
		RoleIDs:   append([]string(nil), m.Roles...),
		GuildID:   guildID,
		GuildName: guildName,
	}
}

// mapErr translates discordgo errors into the package sentinels so callers
// never import discordgo to classify a failure.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return ErrNotFound
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownChannel,
			discordgo.ErrCodeUnknownRole,
			discordgo.ErrCodeUnknownMember,
			discordgo.ErrCodeUnknownGuild,
			discordgo.ErrCodeUnknownUser:
			return fmt.Errorf("%w: %s", ErrNotFound, rest.Message.Message)
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%w: %s", ErrForbidden, rest.Message.Message)
		}
	}
	return err
}
