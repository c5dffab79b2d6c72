// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. Hellbot
// registers all gateway event handlers and then opens the Discord
// connection; the Ready event triggers the startup role backfill.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	registerEventHandlers(deps.Discord, appCfg, deps, logger)

	if err := deps.Discord.Open(); err != nil {
		return fmt.Errorf("open Discord gateway: %w", err)
	}
	logger.Info("Discord gateway connection opened")
	return nil
}
