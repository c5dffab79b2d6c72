// internal/app/features/promotion/handler.go

// Package promotion reacts to roles newly granted to a member: an academy
// welcome for cadets, and a mission-count announcement for members reaching
// Class A.
package promotion

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gptfleet/hellbot/internal/app/system/gateway"
	"github.com/gptfleet/hellbot/internal/app/system/timeouts"
)

// MissionSource reads completed-mission counts. Implemented by stats.Store.
type MissionSource interface {
	CompletedMissions(ctx context.Context, userID string) (count int, found bool, err error)
}

// Handler processes member-updated events for role grants.
type Handler struct {
	GW    gateway.Client
	Stats MissionSource

	CadetRoleID      string
	CadetChatID      string
	ClassARoleID     string
	WelcomeChannelID string

	Log *zap.Logger
}

// NewHandler creates a promotion handler.
func NewHandler(gw gateway.Client, stats MissionSource, cadetRoleID, cadetChatID, classARoleID, welcomeChannelID string, logger *zap.Logger) *Handler {
	return &Handler{
		GW:               gw,
		Stats:            stats,
		CadetRoleID:      cadetRoleID,
		CadetChatID:      cadetChatID,
		ClassARoleID:     classARoleID,
		WelcomeChannelID: welcomeChannelID,
		Log:              logger,
	}
}

// Handle computes the roles newly present on the member and reacts to each
// independently. A failure reacting to one role is logged and does not stop
// processing of the remaining added roles. Roles removed, or already held
// before the event, trigger nothing.
func (h *Handler) Handle(ctx context.Context, before, after *gateway.Member) error {
	if before == nil {
		h.Log.Debug("member update without prior state, skipping role diff",
			zap.String("member_id", after.ID))
		return nil
	}
	for _, roleID := range addedRoles(before, after) {
		if err := h.handleRoleGrant(ctx, after, roleID); err != nil {
			h.Log.Error("role grant reaction failed",
				zap.String("member", after.DisplayName()),
				zap.String("role_id", roleID),
				zap.Error(err))
		}
	}
	return nil
}

func (h *Handler) handleRoleGrant(ctx context.Context, m *gateway.Member, roleID string) error {
	switch roleID {
	case h.CadetRoleID:
		return h.welcomeCadet(m)
	case h.ClassARoleID:
		return h.announceClassA(ctx, m)
	}
	return nil
}

func (h *Handler) welcomeCadet(m *gateway.Member) error {
	ch, err := h.GW.Channel(h.CadetChatID)
	if errors.Is(err, gateway.ErrNotFound) {
		h.Log.Error("cadet chat not found", zap.String("channel_id", h.CadetChatID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve cadet chat: %w", err)
	}
	msg := fmt.Sprintf("Welcome %s to the Officer Academy for GPT Fleet: Class #12! ✨ Your road to clan leadership begins here.", m.Mention())
	if err := h.GW.SendMessage(ch.ID, msg); err != nil {
		return fmt.Errorf("send cadet welcome: %w", err)
	}
	h.Log.Info("sent cadet academy welcome", zap.String("member", m.DisplayName()))
	return nil
}

// announceClassA posts the promotion announcement when a statistics record
// exists for the member. A record with zero completed missions still
// announces; a missing record suppresses the announcement.
func (h *Handler) announceClassA(ctx context.Context, m *gateway.Member) error {
	dbCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	missions, found, err := h.Stats.CompletedMissions(dbCtx, m.ID)
	if err != nil {
		return fmt.Errorf("fetch completed missions: %w", err)
	}
	if !found {
		h.Log.Debug("no statistics record, suppressing promotion announcement",
			zap.String("member_id", m.ID))
		return nil
	}

	ch, err := h.GW.Channel(h.WelcomeChannelID)
	if errors.Is(err, gateway.ErrNotFound) {
		h.Log.Error("welcome channel not found", zap.String("channel_id", h.WelcomeChannelID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve welcome channel: %w", err)
	}
	msg := fmt.Sprintf("🎉 Congratulations %s! You have achieved **Class A Citizen** status by completing %d missions! 🎉", m.Mention(), missions)
	if err := h.GW.SendMessage(ch.ID, msg); err != nil {
		return fmt.Errorf("send promotion announcement: %w", err)
	}
	h.Log.Info("announced promotion", zap.String("member", m.DisplayName()))
	return nil
}

// addedRoles returns the role IDs present on after but not on before, in
// after's order.
func addedRoles(before, after *gateway.Member) []string {
	had := make(map[string]struct{}, len(before.RoleIDs))
	for _, id := range before.RoleIDs {
		had[id] = struct{}{}
	}
	var added []string
	for _, id := range after.RoleIDs {
		if _, ok := had[id]; !ok {
			added = append(added, id)
		}
	}
	return added
}
