// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/hygienedash/internal/app/resources"
	"github.com/dalemusser/hygienedash/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the backends are
// built but before the HTTP handler is. It configures timeouts, loads the
// shared templates, subscribes the metrics and live hub to snapshot commits,
// and starts the refresh worker, whose first cycle runs immediately.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Read: appCfg.ReadTimeout,
		Auth: appCfg.AuthTimeout,
	})

	resources.LoadSharedTemplates()

	deps.Store.Subscribe(deps.Metrics.ObserveSnapshot)
	deps.Store.Subscribe(deps.Hub.Publish)
	go deps.Hub.Run(deps.hubCtx)

	deps.Refresher.Start()

	logger.Info("dashboard started",
		zap.String("auth_mode", appCfg.AuthMode),
		zap.Duration("refresh_interval", appCfg.RefreshInterval))
	return nil
}
