// internal/app/features/nickname/handler.go

// Package nickname keeps the server_nickname field of a member's
// registration in sync with their in-guild display name.
package nickname

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gptfleet/hellbot/internal/app/system/gateway"
	"github.com/gptfleet/hellbot/internal/app/system/timeouts"
)

// Updater mutates existing registrations. Implemented by
// registrations.Store. The path is update-only: a member with no
// registration never gets one created here.
type Updater interface {
	UpdateNickname(ctx context.Context, discordID, serverID, nickname string) (matched bool, err error)
}

// Handler processes member-updated events for display-name changes.
type Handler struct {
	Registrations Updater
	Log           *zap.Logger
}

// NewHandler creates a nickname handler.
func NewHandler(reg Updater, logger *zap.Logger) *Handler {
	return &Handler{Registrations: reg, Log: logger}
}

// Handle compares before/after display names and updates the registration on
// a change. A missing registration is expected (members who joined before
// registration existed, or whose registration write failed) and is reported
// at warning level only.
func (h *Handler) Handle(ctx context.Context, before, after *gateway.Member) error {
	if before == nil {
		// No pre-update state was cached, so there is nothing to diff.
		h.Log.Debug("member update without prior state, skipping nickname sync",
			zap.String("member_id", after.ID))
		return nil
	}
	if before.DisplayName() == after.DisplayName() {
		return nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	matched, err := h.Registrations.UpdateNickname(dbCtx, after.ID, after.GuildID, after.DisplayName())
	if err != nil {
		return fmt.Errorf("update nickname for %s: %w", after.ID, err)
	}
	if !matched {
		h.Log.Warn("no Alliance entry found during nickname update",
			zap.String("member_id", after.ID),
			zap.String("guild_id", after.GuildID))
		return nil
	}
	h.Log.Info("updated server nickname",
		zap.String("member_id", after.ID),
		zap.String("nickname", after.DisplayName()))
	return nil
}
