// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	healthfeature "github.com/gptfleet/hellbot/internal/app/features/health"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// The bot's work happens on the Discord gateway; HTTP exists only for
// operators. /health reports MongoDB and gateway connectivity for load
// balancers and orchestrators.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Discord, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	return r, nil
}
