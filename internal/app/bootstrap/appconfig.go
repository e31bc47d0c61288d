// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (HYGIENEDASH_*), config
// files, or command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig
// still owns ports, TLS, log level and the environment name.
type AppConfig struct {
	// Upstream Hygiene Quest API
	APIBaseURL  string        // API root, e.g. https://hygienequestemdpoints.onrender.com
	ReadTimeout time.Duration // deadline for the attendance and registration reads
	AuthTimeout time.Duration // deadline for OTP and registration calls

	// Data refresh
	RefreshInterval time.Duration // how often the snapshot is rebuilt

	// Sign-in
	AuthMode      string        // "otp" (upstream phone + code) or "demo" (built-in accounts)
	OTPRateLimit  int           // OTP sends allowed per phone and client IP per window
	OTPRateWindow time.Duration // window for OTPRateLimit

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: hygienedash-session)
	SessionDomain string // Cookie domain (blank means current host)

	// CSRF
	CSRFKey string // 32-byte key for gorilla/csrf tokens
}
