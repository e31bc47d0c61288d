// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"net/url"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/app/system/livehub"
	"github.com/dalemusser/hygienedash/internal/app/system/metrics"
	"github.com/dalemusser/hygienedash/internal/app/system/ratelimit"
	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/dalemusser/hygienedash/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ConnectDB builds the upstream client and the snapshot pipeline. Nothing
// is fetched here; the refresher's first cycle runs in Startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	m := metrics.New()
	client := upstream.New(appCfg.APIBaseURL, nil, logger.Named("upstream")).WithObserver(m)
	store := dataset.NewStore(logger.Named("dataset"))
	loader := dataset.NewLoader(client, store, logger.Named("dataset")).WithObserver(m)

	host := appCfg.APIBaseURL
	if u, err := url.Parse(appCfg.APIBaseURL); err == nil {
		host = u.Host
	}
	logger.Info("upstream API configured",
		zap.String("host", host),
		zap.Duration("read_timeout", appCfg.ReadTimeout),
		zap.Duration("auth_timeout", appCfg.AuthTimeout))

	hubCtx, stopHub := context.WithCancel(context.Background())

	return DBDeps{
		Upstream:   client,
		Store:      store,
		Loader:     loader,
		Refresher:  workers.NewRefresher(loader, logger.Named("refresher"), appCfg.RefreshInterval),
		Hub:        livehub.New(logger.Named("live")),
		Metrics:    m,
		OTPLimiter: ratelimit.NewOTPLimiter(appCfg.OTPRateLimit, appCfg.OTPRateWindow),
		hubCtx:     hubCtx,
		stopHub:    stopHub,
	}, nil
}

// EnsureSchema has nothing to prepare: there is no local schema.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return nil
}
