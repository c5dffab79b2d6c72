// internal/app/features/arrival/handler.go

// Package arrival reacts to a member joining: welcome message, standard
// member role, and a registration document in the Alliance collection.
package arrival

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gptfleet/hellbot/internal/app/system/gateway"
	"github.com/gptfleet/hellbot/internal/app/system/timeouts"
	"github.com/gptfleet/hellbot/internal/domain/models"
)

// Registrar persists member registrations. Implemented by
// registrations.Store.
type Registrar interface {
	Upsert(ctx context.Context, reg models.Registration) error
}

// Handler processes member-joined events.
type Handler struct {
	GW            gateway.Client
	Registrations Registrar

	WelcomeChannelID string
	MemberRoleID     string
	LFGChannelID     string // the SOS network channel referenced in the welcome text

	Log *zap.Logger
}

// NewHandler creates an arrival handler.
func NewHandler(gw gateway.Client, reg Registrar, welcomeChannelID, memberRoleID, lfgChannelID string, logger *zap.Logger) *Handler {
	return &Handler{
		GW:               gw,
		Registrations:    reg,
		WelcomeChannelID: welcomeChannelID,
		MemberRoleID:     memberRoleID,
		LFGChannelID:     lfgChannelID,
		Log:              logger,
	}
}

// Handle welcomes a new member, assigns the standard member role, and
// registers them. Role assignment is a precondition for registration: if the
// role cannot be resolved, no registration is written. Resolution misses
// abort the invocation after an error log; unexpected failures propagate to
// the dispatch boundary.
func (h *Handler) Handle(ctx context.Context, m *gateway.Member) error {
	ch, err := h.GW.Channel(h.WelcomeChannelID)
	if errors.Is(err, gateway.ErrNotFound) {
		h.Log.Error("welcome channel not found", zap.String("channel_id", h.WelcomeChannelID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve welcome channel: %w", err)
	}

	if err := h.GW.SendMessage(ch.ID, welcomeMessage(m, h.LFGChannelID)); err != nil {
		return fmt.Errorf("send welcome message: %w", err)
	}

	role, err := h.GW.Role(m.GuildID, h.MemberRoleID)
	if errors.Is(err, gateway.ErrNotFound) {
		h.Log.Error("member role not found", zap.String("role_id", h.MemberRoleID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve member role: %w", err)
	}

	if err := h.GW.AddRole(m.GuildID, m.ID, role.ID, "new arrival"); err != nil {
		return fmt.Errorf("assign role %q to %s: %w", role.Name, m.DisplayName(), err)
	}
	h.Log.Info("assigned member role",
		zap.String("role", role.Name),
		zap.String("member", m.DisplayName()))

	dbCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	err = h.Registrations.Upsert(dbCtx, models.Registration{
		DiscordID:       m.ID,
		DiscordServerID: m.GuildID,
		PlayerName:      strings.TrimSpace(m.Username),
		ServerName:      strings.TrimSpace(m.GuildName),
		ServerNickname:  strings.TrimSpace(m.DisplayName()),
		RegisteredAt:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("register member %s: %w", m.DisplayName(), err)
	}
	h.Log.Info("registered new member", zap.String("member", m.DisplayName()))
	return nil
}

func welcomeMessage(m *gateway.Member, lfgChannelID string) string {
	lfg := "the GPT Network"
	if lfgChannelID != "" {
		lfg = "<#" + lfgChannelID + ">"
	}
	return fmt.Sprintf("Welcome %s to the server!\n"+
		"Thank you for your service and interest in becoming a part of our community!\n"+
		"If you have any questions, please ask.\n"+
		"If you need moderation, please make a ticket.\n"+
		"If you are looking for LFG, use %s.\n"+
		"IRL comes first, everything is viable, and do your best!",
		m.Mention(), lfg)
}
