package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/dalemusser/hygienedash/internal/app/system/auth"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID    string
	Name  string
	Phone string
	Role  string
}

// ViewerUser returns a TestUser with the viewer role.
func ViewerUser() TestUser {
	return TestUser{ID: "101", Name: "Test Viewer", Phone: "0700000101", Role: "viewer"}
}

// ManagerUser returns a TestUser with the manager role.
func ManagerUser() TestUser {
	return TestUser{ID: "102", Name: "Test Manager", Phone: "0700000102", Role: "manager"}
}

// SuperAdminUser returns a TestUser with the superadmin role.
func SuperAdminUser() TestUser {
	return TestUser{ID: "103", Name: "Test Super Admin", Phone: "0700000103", Role: "superadmin"}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Phone: user.Phone,
		Role:  user.Role,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// NewFormRequest creates a POST with an urlencoded body.
func NewFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	if location := r.Header().Get("Location"); location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// Rendered is one captured template render.
type Rendered struct {
	Name string
	Data any
}

// RenderCapture stands in for templates.Render in handler tests so the view
// model a handler built can be inspected without a booted engine.
type RenderCapture struct {
	mu    sync.Mutex
	calls []Rendered
}

// Render records the call. Its signature matches templates.Render.
func (c *RenderCapture) Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Rendered{Name: name, Data: data})
}

// Last returns the most recent render, or false if nothing was rendered.
func (c *RenderCapture) Last() (Rendered, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return Rendered{}, false
	}
	return c.calls[len(c.calls)-1], true
}

// Count returns how many renders were captured.
func (c *RenderCapture) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}
