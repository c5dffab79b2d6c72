// internal/app/features/backfill/handler.go

// Package backfill retroactively grants the standard member role to every
// eligible member when the gateway connection becomes ready, so members who
// joined before the bot (or while it was down) end up in the same state as
// new arrivals.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gptfleet/hellbot/internal/app/system/gateway"
	"github.com/gptfleet/hellbot/internal/app/system/monitor"
)

// AuditReason is recorded in the guild audit log for every backfill grant.
const AuditReason = "standard member role backfill"

// Handler runs the startup role reconciliation.
type Handler struct {
	GW     gateway.Client
	RoleID string

	// Delay is the pause after each assignment attempt, keeping the bulk
	// mutation under the platform's rate limits.
	Delay time.Duration

	Log *zap.Logger
	Mon *monitor.Notifier
}

// NewHandler creates a backfill handler.
func NewHandler(gw gateway.Client, roleID string, delay time.Duration, logger *zap.Logger, mon *monitor.Notifier) *Handler {
	return &Handler{GW: gw, RoleID: roleID, Delay: delay, Log: logger, Mon: mon}
}

// result tallies one guild's reconciliation. skipped counts members who
// already held the role at enumeration plus race-detected skips inside the
// loop.
type result struct {
	assigned int
	skipped  int
	failed   int
}

// Run reconciles every guild the bot is a member of. Failures are per-guild
// or per-member and never abort the remaining work.
func (h *Handler) Run(ctx context.Context) error {
	guilds, err := h.GW.Guilds()
	if err != nil {
		return fmt.Errorf("enumerate guilds: %w", err)
	}
	for _, g := range guilds {
		h.reconcileGuild(ctx, g)
	}
	return nil
}

func (h *Handler) reconcileGuild(ctx context.Context, g *gateway.Guild) result {
	log := h.Log.With(zap.String("guild", g.Name), zap.String("guild_id", g.ID))

	role, err := h.GW.Role(g.ID, h.RoleID)
	if errors.Is(err, gateway.ErrNotFound) {
		log.Warn("member role not present in guild, skipping", zap.String("role_id", h.RoleID))
		return result{}
	}
	if err != nil {
		log.Error("failed to resolve member role, skipping guild", zap.Error(err))
		return result{}
	}

	// The platform rejects grants from a bot without manage-roles, or whose
	// top role sits below the target; checking first avoids a guild-sized
	// batch of doomed mutations.
	ok, err := h.GW.CanManageRole(g.ID, role)
	if err != nil {
		log.Error("failed to check role permissions, skipping guild", zap.Error(err))
		return result{}
	}
	if !ok {
		log.Error("bot cannot manage the member role in this guild, skipping",
			zap.String("role", role.Name))
		return result{}
	}

	members, err := h.GW.Members(g.ID)
	if err != nil {
		log.Error("failed to enumerate members, skipping guild", zap.Error(err))
		return result{}
	}

	var res result
	var eligible []*gateway.Member
	for _, m := range members {
		if m.Bot {
			continue
		}
		if m.HasRole(role.ID) {
			res.skipped++
			continue
		}
		eligible = append(eligible, m)
	}

	if len(eligible) == 0 {
		log.Info("all members already hold the member role",
			zap.Int("skipped", res.skipped))
		return res
	}

	for _, m := range eligible {
		if ctx.Err() != nil {
			log.Warn("backfill interrupted", zap.Error(ctx.Err()))
			break
		}

		// Re-check right before mutating: the member may have gained the
		// role since enumeration, via a manual grant or the arrival handler.
		cur, err := h.GW.Member(g.ID, m.ID)
		if err != nil {
			res.failed++
			log.Error("failed to re-fetch member", zap.String("member", m.DisplayName()), zap.Error(err))
			h.pause(ctx)
			continue
		}
		if cur.HasRole(role.ID) {
			res.skipped++
			log.Info("member gained role since enumeration, skipping",
				zap.String("member", m.DisplayName()))
			h.pause(ctx)
			continue
		}

		if err := h.GW.AddRole(g.ID, m.ID, role.ID, AuditReason); err != nil {
			res.failed++
			if errors.Is(err, gateway.ErrForbidden) {
				log.Error("insufficient permission to assign role",
					zap.String("member", m.DisplayName()))
			} else {
				log.Error("failed to assign role",
					zap.String("member", m.DisplayName()), zap.Error(err))
			}
		} else {
			res.assigned++
			log.Info("assigned member role", zap.String("member", m.DisplayName()))
		}
		h.pause(ctx)
	}

	log.Info("guild backfill complete",
		zap.Int("assigned", res.assigned),
		zap.Int("skipped", res.skipped),
		zap.Int("failed", res.failed))
	if h.Mon != nil {
		h.Mon.Info(fmt.Sprintf("Backfill for %s: assigned=%d skipped=%d failed=%d",
			g.Name, res.assigned, res.skipped, res.failed))
	}
	return res
}

// pause waits the configured delay, returning early on context cancellation.
func (h *Handler) pause(ctx context.Context) {
	if h.Delay <= 0 {
		return
	}
	t := time.NewTimer(h.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
