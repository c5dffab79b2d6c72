// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). Every platform identifier the
// bot touches is configuration: the process fails fast at startup if any
// required one is absent, so a handler never discovers a missing identifier
// at event time.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Discord connection
	DiscordToken string // Bot token for the Discord gateway

	// Role identities
	MemberRoleID string // standard member role, assigned on arrival and backfilled at startup
	ClassARoleID string // graduate role, triggers the promotion announcement
	CadetRoleID  string // cadet role, triggers the academy welcome

	// Channel identities
	WelcomeChannelID     string // welcome messages and promotion announcements
	MonitorChannelID     string // operational log mirror
	LeaderboardChannelID string // leaderboard postings (external pipeline's output channel)
	KIAChannelID         string // departure messages
	BotChannelID         string // the bot's home channel
	SOSNetworkID         string // LFG network channel referenced in the welcome text
	CadetChatID          string // cadet academy chat

	// Guild
	GuildID string // home guild

	// Startup backfill pacing
	BackfillDelay time.Duration // pause between role assignments during the startup backfill
}
