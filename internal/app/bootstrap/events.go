// internal/app/bootstrap/events.go
package bootstrap

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/gptfleet/hellbot/internal/app/features/arrival"
	"github.com/gptfleet/hellbot/internal/app/features/backfill"
	"github.com/gptfleet/hellbot/internal/app/features/departure"
	"github.com/gptfleet/hellbot/internal/app/features/nickname"
	"github.com/gptfleet/hellbot/internal/app/features/promotion"
	"github.com/gptfleet/hellbot/internal/app/store/registrations"
	"github.com/gptfleet/hellbot/internal/app/store/stats"
	"github.com/gptfleet/hellbot/internal/app/system/dispatch"
	"github.com/gptfleet/hellbot/internal/app/system/gateway"
	"github.com/gptfleet/hellbot/internal/app/system/monitor"
	"github.com/gptfleet/hellbot/internal/app/system/timeouts"
)

// registerEventHandlers wires every feature handler onto the Discord session,
// each behind the dispatch guard so no handler failure can reach the event
// loop or another handler. This is the gateway analogue of an HTTP app's
// route table.
func registerEventHandlers(s *discordgo.Session, appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	gw := gateway.NewSession(s)
	mon := monitor.New(gw, appCfg.MonitorChannelID, logger)

	regStore := registrations.New(deps.MongoDatabase)
	statsStore := stats.New(deps.MongoDatabase)

	arrivalH := arrival.NewHandler(gw, regStore,
		appCfg.WelcomeChannelID, appCfg.MemberRoleID, appCfg.SOSNetworkID, logger)
	departureH := departure.NewHandler(gw, appCfg.KIAChannelID, logger)
	nicknameH := nickname.NewHandler(regStore, logger)
	promotionH := promotion.NewHandler(gw, statsStore,
		appCfg.CadetRoleID, appCfg.CadetChatID,
		appCfg.ClassARoleID, appCfg.WelcomeChannelID, logger)
	backfillH := backfill.NewHandler(gw, appCfg.MemberRoleID, appCfg.BackfillDelay, logger, mon)

	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
		m := memberOf(s, e.GuildID, e.Member)
		dispatch.Guard(logger, mon, "member_join", func(ctx context.Context) error {
			return arrivalH.Handle(ctx, m)
		})
	})

	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberRemove) {
		m := memberOf(s, e.GuildID, e.Member)
		dispatch.Guard(logger, mon, "member_leave", func(ctx context.Context) error {
			return departureH.Handle(ctx, m)
		})
	})

	// Nickname sync and promotion reactions are independent consumers of the
	// same platform event; each gets its own guarded invocation so one
	// failing cannot starve the other.
	s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
		var before *gateway.Member
		if e.BeforeUpdate != nil {
			before = memberOf(s, e.GuildID, e.BeforeUpdate)
		}
		after := memberOf(s, e.GuildID, e.Member)

		dispatch.Guard(logger, mon, "member_update", func(ctx context.Context) error {
			return nicknameH.Handle(ctx, before, after)
		})
		dispatch.Guard(logger, mon, "role_change", func(ctx context.Context) error {
			return promotionH.Handle(ctx, before, after)
		})
	})

	s.AddHandler(func(s *discordgo.Session, e *discordgo.Ready) {
		logger.Info("gateway ready", zap.String("bot", e.User.Username))
		dispatch.GuardTimeout(logger, mon, "startup_backfill", timeouts.Batch(), backfillH.Run)
	})
}

// memberOf converts a discordgo member to the gateway type, filling in the
// guild name from the state cache when available.
func memberOf(s *discordgo.Session, guildID string, dm *discordgo.Member) *gateway.Member {
	guildName := ""
	if g, err := s.State.Guild(guildID); err == nil {
		guildName = g.Name
	}
	return &gateway.Member{
		ID:        dm.User.ID,
		Username:  dm.User.Username,
		Nick:      dm.Nick,
		Bot:       dm.User.Bot,
		RoleIDs:   append([]string(nil), dm.Roles...),
		GuildID:   guildID,
		GuildName: guildName,
	}
}
