// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	attendancefeature "github.com/dalemusser/hygienedash/internal/app/features/attendance"
	dashboardfeature "github.com/dalemusser/hygienedash/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/hygienedash/internal/app/features/errors"
	healthfeature "github.com/dalemusser/hygienedash/internal/app/features/health"
	homefeature "github.com/dalemusser/hygienedash/internal/app/features/home"
	livefeature "github.com/dalemusser/hygienedash/internal/app/features/live"
	loginfeature "github.com/dalemusser/hygienedash/internal/app/features/login"
	logoutfeature "github.com/dalemusser/hygienedash/internal/app/features/logout"
	registerfeature "github.com/dalemusser/hygienedash/internal/app/features/register"
	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// It initializes the template engine, applies CSRF and session middleware,
// and mounts the feature routers: sign-in and registration, the dashboard
// and attendance pages, their JSON APIs, the live socket, health and metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()

	// Set before any Mount so subrouters inherit it.
	r.NotFound(errorsHandler.NotFound)

	// Health and metrics are outside CSRF and sessions so probes and
	// scrapers need no cookies.
	healthHandler := healthfeature.NewHandler(deps.Store, 3*appCfg.RefreshInterval, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", deps.Metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(app chi.Router) {
		if !secure {
			app.Use(markPlaintext)
		}
		app.Use(csrf.Protect([]byte(appCfg.CSRFKey),
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(errorsHandler.Forbidden)),
		))

		// Loads SessionUser into context if logged in.
		app.Use(sessionMgr.LoadSessionUser)

		homeHandler := homefeature.NewHandler(logger)
		app.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		loginHandler := loginfeature.NewHandler(sessionMgr, errLog, deps.Upstream, deps.OTPLimiter, appCfg.AuthMode, logger)
		app.Mount("/login", loginfeature.Routes(loginHandler))

		registerHandler := registerfeature.NewHandler(errLog, deps.Upstream, deps.OTPLimiter, logger)
		app.Mount("/register", registerfeature.Routes(registerHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		app.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		// Error pages
		app.Get("/forbidden", errorsHandler.Forbidden)
		app.Get("/unauthorized", errorsHandler.Unauthorized)

		// Dashboard pages
		dashboardHandler := dashboardfeature.NewHandler(deps.Store, deps.Refresher, logger)
		app.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))
		app.Mount("/api/dashboard", dashboardfeature.APIRoutes(dashboardHandler, sessionMgr))

		attendanceHandler := attendancefeature.NewHandler(deps.Store, deps.Refresher, errLog, logger)
		app.Mount("/attendance", attendancefeature.Routes(attendanceHandler, sessionMgr))
		app.Mount("/api/attendance", attendancefeature.APIRoutes(attendanceHandler, sessionMgr))

		// Live updates
		liveHandler := livefeature.NewHandler(deps.Hub, logger)
		app.Mount("/live", livefeature.Routes(liveHandler, sessionMgr))
	})

	return r, nil
}

// markPlaintext tells gorilla/csrf the request arrived over plain HTTP so
// its HTTPS-only Referer check is skipped in local development.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
