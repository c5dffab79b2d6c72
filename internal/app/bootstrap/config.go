// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Hellbot.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, discord_token, etc.
//   - Environment variables: HELLBOT_MONGO_URI, HELLBOT_DISCORD_TOKEN, etc.
//   - Command-line flags: --mongo_uri, --discord_token, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "GPTHellbot", Desc: "MongoDB database name"},

	{Name: "discord_token", Default: "", Desc: "Discord bot token"},

	{Name: "member_role_id", Default: "", Desc: "Standard member role ID (assigned on arrival, backfilled at startup)"},
	{Name: "class_a_role_id", Default: "", Desc: "Class A (graduate) role ID"},
	{Name: "cadet_role_id", Default: "", Desc: "Cadet role ID"},

	{Name: "welcome_channel_id", Default: "", Desc: "Welcome channel ID"},
	{Name: "monitor_channel_id", Default: "", Desc: "Monitor channel ID (operational log mirror)"},
	{Name: "leaderboard_channel_id", Default: "", Desc: "Leaderboard channel ID"},
	{Name: "kia_channel_id", Default: "", Desc: "KIA (departure) channel ID"},
	{Name: "bot_channel_id", Default: "", Desc: "Bot home channel ID"},
	{Name: "sos_network_id", Default: "", Desc: "SOS network (LFG) channel ID"},
	{Name: "cadet_chat_id", Default: "", Desc: "Cadet chat channel ID"},

	{Name: "guild_id", Default: "", Desc: "Home guild ID"},

	{Name: "backfill_delay", Default: "1s", Desc: "Pause between role assignments during the startup backfill"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HELLBOT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		DiscordToken: appValues.String("discord_token"),

		MemberRoleID: appValues.String("member_role_id"),
		ClassARoleID: appValues.String("class_a_role_id"),
		CadetRoleID:  appValues.String("cadet_role_id"),

		WelcomeChannelID:     appValues.String("welcome_channel_id"),
		MonitorChannelID:     appValues.String("monitor_channel_id"),
		LeaderboardChannelID: appValues.String("leaderboard_channel_id"),
		KIAChannelID:         appValues.String("kia_channel_id"),
		BotChannelID:         appValues.String("bot_channel_id"),
		SOSNetworkID:         appValues.String("sos_network_id"),
		CadetChatID:          appValues.String("cadet_chat_id"),

		GuildID: appValues.String("guild_id"),

		BackfillDelay: appValues.Duration("backfill_delay", time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Every platform identifier is required: a missing one is a configuration
// error that aborts startup before the event loop runs, never a surprise
// inside a handler.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	required := []struct {
		name  string
		value string
	}{
		{"discord_token", appCfg.DiscordToken},
		{"member_role_id", appCfg.MemberRoleID},
		{"class_a_role_id", appCfg.ClassARoleID},
		{"cadet_role_id", appCfg.CadetRoleID},
		{"welcome_channel_id", appCfg.WelcomeChannelID},
		{"monitor_channel_id", appCfg.MonitorChannelID},
		{"leaderboard_channel_id", appCfg.LeaderboardChannelID},
		{"kia_channel_id", appCfg.KIAChannelID},
		{"bot_channel_id", appCfg.BotChannelID},
		{"sos_network_id", appCfg.SOSNetworkID},
		{"cadet_chat_id", appCfg.CadetChatID},
		{"guild_id", appCfg.GuildID},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if appCfg.BackfillDelay < 0 {
		return fmt.Errorf("backfill_delay must not be negative")
	}
	return nil
}
