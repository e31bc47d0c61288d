// Package upstream talks to the Hygiene Quest HTTP API: the attendance and
// registration reads behind the dashboard and the OTP authentication flow.
//
// Reads never fail. When the API cannot be reached, answers with a non-2xx
// status, times out, or returns something other than a JSON array, the read
// logs a warning and returns a built-in fallback collection tagged with
// SourceFallback. Auth calls are the opposite: every failure is returned to
// the caller as an error.
package upstream

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxBody caps how much of a response body is read.
const maxBody = 10 << 20

// Source tells where a collection came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// FetchObserver is told about every read so it can be counted.
type FetchObserver interface {
	ObserveFetch(endpoint string, source Source)
}

// DataSource is what the dataset loader needs from the API.
type DataSource interface {
	FetchAttendance(ctx context.Context) AttendanceResult
	FetchUsers(ctx context.Context) UsersResult
}

// AuthClient is what the login and registration handlers need from the API.
type AuthClient interface {
	SendLoginOTP(ctx context.Context, phone string) error
	SendRegistrationOTP(ctx context.Context, phone string) error
	Login(ctx context.Context, phone, otp string) (AuthUser, error)
	VerifyRegistrationOTP(ctx context.Context, phone, otp string) error
	Register(ctx context.Context, phone, name, role string) error
}

// Client implements DataSource and AuthClient over HTTP.
type Client struct {
	base     string
	http     *http.Client
	log      *zap.Logger
	observer FetchObserver
}

// New returns a Client for the API rooted at baseURL. A nil httpClient uses
// a fresh http.Client; per-call deadlines come from the timeouts package.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: httpClient,
		log:  logger,
	}
}

// WithObserver sets the read observer and returns c.
func (c *Client) WithObserver(o FetchObserver) *Client {
	c.observer = o
	return c
}

func (c *Client) observe(endpoint string, src Source) {
	if c.observer != nil {
		c.observer.ObserveFetch(endpoint, src)
	}
}

var (
	_ DataSource = (*Client)(nil)
	_ AuthClient = (*Client)(nil)
)
