// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/features/login"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the dashboard.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, refresh_interval, etc.
//   - Environment variables: HYGIENEDASH_API_BASE_URL, HYGIENEDASH_AUTH_MODE, etc.
//   - Command-line flags: --api_base_url, --auth_mode, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "https://hygienequestemdpoints.onrender.com", Desc: "Hygiene Quest API root URL"},
	{Name: "read_timeout", Default: "10s", Desc: "Timeout for attendance and registration reads"},
	{Name: "auth_timeout", Default: "30s", Desc: "Timeout for OTP and registration calls"},
	{Name: "refresh_interval", Default: "5m", Desc: "How often dashboard data is refreshed"},

	{Name: "auth_mode", Default: login.ModeOTP, Desc: "Sign-in mode: 'otp' or 'demo'"},
	{Name: "otp_rate_limit", Default: 5, Desc: "OTP sends allowed per phone and client IP per window"},
	{Name: "otp_rate_window", Default: "10m", Desc: "Window for otp_rate_limit"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "hygienedash-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-change-me-0123", Desc: "32-byte CSRF token key"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HYGIENEDASH", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL:      appValues.String("api_base_url"),
		ReadTimeout:     appValues.Duration("read_timeout", 10*time.Second),
		AuthTimeout:     appValues.Duration("auth_timeout", 30*time.Second),
		RefreshInterval: appValues.Duration("refresh_interval", 5*time.Minute),

		AuthMode:      appValues.String("auth_mode"),
		OTPRateLimit:  appValues.Int("otp_rate_limit"),
		OTPRateWindow: appValues.Duration("otp_rate_window", 10*time.Minute),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		CSRFKey: appValues.String("csrf_key"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid app config", zap.Error(err))
		return err
	}
	if appCfg.AuthMode == login.ModeDemo && coreCfg != nil && coreCfg.Env == "prod" {
		logger.Warn("demo sign-in is enabled in production")
	}
	return nil
}

func validateAppConfig(appCfg AppConfig) error {
	u, err := url.Parse(appCfg.APIBaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute URL, got %q", appCfg.APIBaseURL)
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"read_timeout", appCfg.ReadTimeout},
		{"auth_timeout", appCfg.AuthTimeout},
		{"refresh_interval", appCfg.RefreshInterval},
		{"otp_rate_window", appCfg.OTPRateWindow},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.d)
		}
	}

	if !login.IsValidMode(appCfg.AuthMode) {
		return fmt.Errorf("auth_mode must be %q or %q, got %q", login.ModeOTP, login.ModeDemo, appCfg.AuthMode)
	}
	if appCfg.OTPRateLimit <= 0 {
		return fmt.Errorf("otp_rate_limit must be positive, got %d", appCfg.OTPRateLimit)
	}
	if len(appCfg.CSRFKey) != 32 {
		return errors.New("csrf_key must be exactly 32 bytes")
	}
	return nil
}
