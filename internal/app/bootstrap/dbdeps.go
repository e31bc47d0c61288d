// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/app/system/livehub"
	"github.com/dalemusser/hygienedash/internal/app/system/metrics"
	"github.com/dalemusser/hygienedash/internal/app/system/ratelimit"
	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/dalemusser/hygienedash/internal/app/system/workers"
)

// DBDeps holds the back-end dependencies for the app. The dashboard has no
// database of its own; its backend is the upstream API and the in-memory
// snapshot built from it.
type DBDeps struct {
	Upstream   *upstream.Client
	Store      *dataset.Store
	Loader     *dataset.Loader
	Refresher  *workers.Refresher
	Hub        *livehub.Hub
	Metrics    *metrics.Metrics
	OTPLimiter *ratelimit.OTPLimiter

	// hubCtx bounds Hub.Run; stopHub ends it at shutdown.
	hubCtx  context.Context
	stopHub context.CancelFunc
}
