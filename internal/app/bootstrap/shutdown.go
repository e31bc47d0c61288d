// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the refresh worker, cancelling any cycle in flight, and
// closes every live connection.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Refresher != nil {
		logger.Info("stopping refresh worker")
		deps.Refresher.Stop()
	}
	if deps.stopHub != nil {
		deps.stopHub()
	}
	return nil
}
