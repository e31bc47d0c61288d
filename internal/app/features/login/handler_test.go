package login

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/hygienedash/internal/app/features/errors"
	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"github.com/dalemusser/hygienedash/internal/app/system/ratelimit"
	"github.com/dalemusser/hygienedash/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	h       *Handler
	api     *testutil.FakeAPI
	sm      *auth.SessionManager
	renders *testutil.RenderCapture
}

func newFixture(t *testing.T, mode string) fixture {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-0123", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	api := testutil.NewFakeAPI(t)
	h := NewHandler(sm, uierrors.NewErrorLogger(logger), api.Client(), ratelimit.NewOTPLimiter(2, time.Minute), mode, logger)
	rc := &testutil.RenderCapture{}
	h.renderPage = rc.Render
	return fixture{h: h, api: api, sm: sm, renders: rc}
}

func (f fixture) lastForm(t *testing.T) loginFormData {
	t.Helper()
	got, ok := f.renders.Last()
	if !ok {
		t.Fatal("expected a page to be rendered")
	}
	if got.Name != "login_page" {
		t.Fatalf("template: got %q, want login_page", got.Name)
	}
	return got.Data.(loginFormData)
}

func hasSessionCookie(rec *testutil.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge >= 0 && c.Value != "" {
			return true
		}
	}
	return false
}

func TestServeLogin_RendersForm(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.ServeLogin(rec, testutil.NewRequest("GET", "/login?return=/attendance"))

	data := f.lastForm(t)
	if data.Mode != ModeOTP {
		t.Errorf("Mode: got %q", data.Mode)
	}
	if data.ReturnURL != "/attendance" {
		t.Errorf("ReturnURL: got %q", data.ReturnURL)
	}
	if data.OTPSent {
		t.Error("OTPSent should start false")
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.ServeLogin(rec, testutil.NewAuthenticatedRequest("GET", "/login", testutil.ViewerUser()))

	rec.AssertRedirect(t, "/dashboard")
}

func TestSendOTP_InvalidPhoneSkipsAPI(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.HandleSendOTP(rec, testutil.NewFormRequest("/login/otp", url.Values{"phone": {"12ab"}}))

	data := f.lastForm(t)
	if data.Error != "Enter a valid phone number, for example 0772207616." {
		t.Errorf("Error: got %q", data.Error)
	}
	if calls := f.api.Calls(); len(calls) != 0 {
		t.Errorf("expected no upstream calls, got %v", calls)
	}
}

func TestSendOTP_SurfacesServerDetail(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.HandleSendOTP(rec, testutil.NewFormRequest("/login/otp", url.Values{"phone": {"0700 000 999"}}))

	data := f.lastForm(t)
	if data.Error != "No account found for this phone number" {
		t.Errorf("Error: got %q", data.Error)
	}
	if data.Phone != "0700000999" {
		t.Errorf("Phone should be normalized, got %q", data.Phone)
	}
	if data.OTPSent {
		t.Error("OTPSent should stay false on failure")
	}
}

func TestSendOTP_Success(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.HandleSendOTP(rec, testutil.NewFormRequest("/login/otp", url.Values{"phone": {"0772-207-616"}}))

	data := f.lastForm(t)
	if data.Error != "" {
		t.Fatalf("unexpected error %q", data.Error)
	}
	if !data.OTPSent {
		t.Error("expected OTPSent")
	}
	if data.Notice != "We sent a code to 0772207616." {
		t.Errorf("Notice: got %q", data.Notice)
	}
}

func TestSendOTP_RateLimited(t *testing.T) {
	f := newFixture(t, ModeOTP)
	form := url.Values{"phone": {"0772207616"}}

	for i := 0; i < 2; i++ {
		rec := testutil.NewRecorder()
		f.h.HandleSendOTP(rec, testutil.NewFormRequest("/login/otp", form))
		rec.AssertStatus(t, http.StatusOK)
	}

	rec := testutil.NewRecorder()
	f.h.HandleSendOTP(rec, testutil.NewFormRequest("/login/otp", form))
	rec.AssertStatus(t, http.StatusTooManyRequests)
	if data := f.lastForm(t); data.Error == "" {
		t.Error("expected a rate-limit message")
	}
}

func TestLoginPost_WrongCode(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.HandleLoginPost(rec, testutil.NewFormRequest("/login", url.Values{
		"phone": {"0772207616"},
		"otp":   {"000000"},
	}))

	data := f.lastForm(t)
	if data.Error != "Invalid or expired OTP" {
		t.Errorf("Error: got %q", data.Error)
	}
	if !data.OTPSent {
		t.Error("the code form should stay visible after a wrong code")
	}
	if hasSessionCookie(rec) {
		t.Error("no session should be issued on failure")
	}
}

func TestLoginPost_InvalidCodeFormat(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.HandleLoginPost(rec, testutil.NewFormRequest("/login", url.Values{
		"phone": {"0772207616"},
		"otp":   {"12"},
	}))

	if data := f.lastForm(t); data.Error != "The code must be 4 to 8 digits." {
		t.Errorf("Error: got %q", data.Error)
	}
	if calls := f.api.Calls(); len(calls) != 0 {
		t.Errorf("expected no upstream calls, got %v", calls)
	}
}

func TestLoginPost_SuccessSignsIn(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.HandleLoginPost(rec, testutil.NewFormRequest("/login", url.Values{
		"phone":  {"0772207616"},
		"otp":    {testutil.DefaultOTP},
		"return": {"/attendance"},
	}))

	rec.AssertRedirect(t, "/attendance")
	if !hasSessionCookie(rec) {
		t.Fatal("expected a session cookie")
	}

	// The cookie must carry the account returned by the API.
	req := testutil.NewRequest("GET", "/dashboard")
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	var got *auth.SessionUser
	f.sm.LoadSessionUser(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(testutil.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected a user after the cookie round trip")
	}
	if got.ID != "1" || got.Name != "Katende Brian" || got.Role != "manager" || got.Phone != "0772207616" {
		t.Errorf("session user: got %+v", *got)
	}
}

func TestLoginPost_DefaultsToDashboard(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.HandleLoginPost(rec, testutil.NewFormRequest("/login", url.Values{
		"phone": {"0772207616"},
		"otp":   {testutil.DefaultOTP},
	}))

	rec.AssertRedirect(t, "/dashboard")
}

func TestDemoLogin(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		pass     string
		wantErr  string
		signedIn bool
	}{
		{"superadmin", "superadmin", "admin123", "", true},
		{"manager uppercase username", "MANAGER", "manager123", "", true},
		{"viewer", "viewer", "viewer123", "", true},
		{"wrong password", "viewer", "nope", "Invalid username or password", false},
		{"unknown user", "ghost", "admin123", "Invalid username or password", false},
		{"missing password", "viewer", "", "Username and password are required.", false},
	}

	f := newFixture(t, ModeDemo)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.renders.Count()

			rec := testutil.NewRecorder()
			f.h.HandleLoginPost(rec, testutil.NewFormRequest("/login", url.Values{
				"username": {tt.user},
				"password": {tt.pass},
			}))

			if tt.signedIn {
				rec.AssertRedirect(t, "/dashboard")
				if !hasSessionCookie(rec) {
					t.Error("expected a session cookie")
				}
				return
			}
			after, _ := f.renders.Last()
			if f.renders.Count() != before+1 {
				t.Fatal("expected the form to be re-rendered")
			}
			if got := after.Data.(loginFormData).Error; got != tt.wantErr {
				t.Errorf("Error: got %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestCheckDemo_Roles(t *testing.T) {
	u, ok, err := checkDemo("superadmin", "admin123")
	if err != nil || !ok {
		t.Fatalf("checkDemo: ok=%v err=%v", ok, err)
	}
	if u.Role != "superadmin" || u.ID != "superadmin" {
		t.Errorf("got %+v", u)
	}
	if _, ok, _ := checkDemo("superadmin", "manager123"); ok {
		t.Error("passwords must not be interchangeable between accounts")
	}
}

func TestSendOTP_DemoModeRedirects(t *testing.T) {
	f := newFixture(t, ModeDemo)

	rec := testutil.NewRecorder()
	f.h.HandleSendOTP(rec, testutil.NewFormRequest("/login/otp", url.Values{"phone": {"0772207616"}}))

	rec.AssertRedirect(t, "/login")
}

func TestServeLogin_DemoSignupForm(t *testing.T) {
	f := newFixture(t, ModeDemo)

	f.h.ServeLogin(testutil.NewRecorder(), testutil.NewRequest("GET", "/login?signup=1"))
	data := f.lastForm(t)
	if !data.Signup || len(data.Roles) != 3 || data.Role != "viewer" {
		t.Errorf("got Signup=%v Roles=%d Role=%q", data.Signup, len(data.Roles), data.Role)
	}

	otp := newFixture(t, ModeOTP)
	otp.h.ServeLogin(testutil.NewRecorder(), testutil.NewRequest("GET", "/login?signup=1"))
	if otp.lastForm(t).Signup {
		t.Error("sign-up form is demo-only")
	}
}

func TestDemoSignup(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantErr    string
		wantNotice string
	}{
		{
			name:    "passwords differ",
			form:    url.Values{"username": {"nurse"}, "password": {"secret1"}, "confirm_password": {"secret2"}, "role": {"manager"}},
			wantErr: "Passwords do not match",
		},
		{
			name:    "missing username",
			form:    url.Values{"password": {"secret1"}, "confirm_password": {"secret1"}},
			wantErr: "Username and password are required.",
		},
		{
			name:    "bad email",
			form:    url.Values{"username": {"nurse"}, "email": {"nurse@"}, "password": {"secret1"}, "confirm_password": {"secret1"}},
			wantErr: "Enter a valid email address.",
		},
		{
			name:       "accepted",
			form:       url.Values{"username": {" Nurse "}, "password": {"secret1"}, "confirm_password": {"secret1"}, "role": {"Manager"}},
			wantNotice: "Account created successfully for nurse with role manager! Please login.",
		},
	}

	f := newFixture(t, ModeDemo)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			f.h.HandleDemoSignup(rec, testutil.NewFormRequest("/login/signup", tt.form))

			rec.AssertStatus(t, http.StatusOK)
			data := f.lastForm(t)
			if data.Error != tt.wantErr {
				t.Errorf("Error: got %q, want %q", data.Error, tt.wantErr)
			}
			if data.Notice != tt.wantNotice {
				t.Errorf("Notice: got %q, want %q", data.Notice, tt.wantNotice)
			}
			if wantForm := tt.wantErr != ""; data.Signup != wantForm {
				t.Errorf("Signup: got %v, want %v", data.Signup, wantForm)
			}
			if hasSessionCookie(rec) {
				t.Error("sign-up must not sign anyone in")
			}
		})
	}

	if _, ok, _ := checkDemo("nurse", "secret1"); ok {
		t.Error("sign-up must not add a demo account")
	}
}

func TestDemoSignup_OTPModeRedirects(t *testing.T) {
	f := newFixture(t, ModeOTP)

	rec := testutil.NewRecorder()
	f.h.HandleDemoSignup(rec, testutil.NewFormRequest("/login/signup", url.Values{"username": {"nurse"}}))

	rec.AssertRedirect(t, "/register")
}
