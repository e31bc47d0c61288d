// internal/app/features/login/handler.go
package login

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/hygienedash/internal/app/features/errors"
	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"github.com/dalemusser/hygienedash/internal/app/system/inputval"
	"github.com/dalemusser/hygienedash/internal/app/system/normalize"
	"github.com/dalemusser/hygienedash/internal/app/system/ratelimit"
	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/dalemusser/hygienedash/internal/app/system/viewdata"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Sign-in modes.
const (
	ModeOTP  = "otp"
	ModeDemo = "demo"
)

// IsValidMode reports whether m is a supported sign-in mode.
func IsValidMode(m string) bool {
	return m == ModeOTP || m == ModeDemo
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Auth       upstream.AuthClient
	Limiter    *ratelimit.OTPLimiter
	Mode       string

	renderPage func(w http.ResponseWriter, r *http.Request, name string, data any)
}

func NewHandler(
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	authClient upstream.AuthClient,
	limiter *ratelimit.OTPLimiter,
	mode string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Auth:       authClient,
		Limiter:    limiter,
		Mode:       mode,
		renderPage: templates.Render,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Mode      string
	Error     string
	Notice    string
	Phone     string // normalized phone, kept between the two OTP steps
	Username  string // demo mode
	OTPSent   bool
	ReturnURL string
	DemoUsers []string

	// demo sign-up
	Signup bool
	Email  string
	Role   string
	Roles  []models.Role
}

func (h *Handler) formData(r *http.Request) loginFormData {
	// From POST, "return" will be in the form; from GET, we rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}
	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Mode:      h.Mode,
		ReturnURL: ret,
	}
	if h.Mode == ModeDemo {
		data.DemoUsers = DemoUsernames()
		data.Roles = models.AllRoles
		data.Role = models.DefaultRole
	}
	return data
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data loginFormData) {
	h.renderPage(w, r, "login_page", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	data := h.formData(r)
	data.Signup = h.Mode == ModeDemo && query.Get(r, "signup") == "1"
	if query.Get(r, "registered") == "1" {
		data.Notice = "Account created. Sign in with your phone number."
	}
	h.render(w, r, data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login/otp                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleSendOTP validates the phone number and asks the upstream API to
// text a sign-in code.
func (h *Handler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}
	if h.Mode != ModeOTP {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := h.formData(r)
	data.Phone = normalize.Phone(r.FormValue("phone"))

	if err := inputval.Validate(inputval.PhoneForm{Phone: data.Phone}); err != nil {
		data.Error = validationMessage(err)
		h.render(w, r, data)
		return
	}

	if ok, reason := h.Limiter.Check(r, data.Phone); !ok {
		h.Log.Warn("otp send rate limited",
			zap.String("ip", ratelimit.ClientIP(r)))
		data.Error = reason
		w.WriteHeader(http.StatusTooManyRequests)
		h.render(w, r, data)
		return
	}

	if err := h.Auth.SendLoginOTP(r.Context(), data.Phone); err != nil {
		h.Log.Warn("send login otp failed", zap.Error(err))
		data.Error = upstream.UserMessage(err)
		h.render(w, r, data)
		return
	}

	data.OTPSent = true
	data.Notice = "We sent a code to " + data.Phone + "."
	h.render(w, r, data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}
	if h.Mode == ModeDemo {
		h.handleDemoLogin(w, r)
		return
	}

	data := h.formData(r)
	data.Phone = normalize.Phone(r.FormValue("phone"))
	data.OTPSent = true
	otp := normalize.OTP(r.FormValue("otp"))

	if err := inputval.Validate(inputval.LoginForm{Phone: data.Phone, OTP: otp}); err != nil {
		data.Error = validationMessage(err)
		h.render(w, r, data)
		return
	}

	user, err := h.Auth.Login(r.Context(), data.Phone, otp)
	if err != nil {
		h.Log.Warn("otp login failed", zap.Error(err))
		data.Error = upstream.UserMessage(err)
		h.render(w, r, data)
		return
	}

	h.Limiter.ResetPhone(r, data.Phone)
	h.signIn(w, r, auth.SessionUser{
		ID:    user.ID,
		Phone: user.Phone,
		Name:  user.Name,
		Role:  user.Role,
	}, data.ReturnURL)
}

func (h *Handler) handleDemoLogin(w http.ResponseWriter, r *http.Request) {
	data := h.formData(r)
	data.Username = normalize.Username(r.FormValue("username"))
	password := r.FormValue("password")

	if err := inputval.Validate(inputval.DemoLoginForm{Username: data.Username, Password: password}); err != nil {
		data.Error = validationMessage(err)
		h.render(w, r, data)
		return
	}

	user, ok, err := checkDemo(data.Username, password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "demo accounts unavailable", err, "Sign-in is unavailable right now.", "/login")
		return
	}
	if !ok {
		data.Error = "Invalid username or password"
		h.render(w, r, data)
		return
	}
	h.signIn(w, r, user, data.ReturnURL)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login/signup                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDemoSignup checks the demo sign-up form. No account is stored; the
// built-in demo accounts stay the only ones that can sign in.
func (h *Handler) HandleDemoSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}
	if h.Mode != ModeDemo {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	data := h.formData(r)
	data.Signup = true
	data.Username = normalize.Username(r.FormValue("username"))
	data.Email = strings.TrimSpace(r.FormValue("email"))
	if role := normalize.Role(r.FormValue("role")); role != "" {
		data.Role = role
	}

	form := inputval.DemoSignupForm{
		Username: data.Username,
		Email:    data.Email,
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm_password"),
		Role:     data.Role,
	}
	if err := inputval.Validate(form); err != nil {
		data.Error = validationMessage(err)
		h.render(w, r, data)
		return
	}

	h.Log.Info("demo sign-up accepted",
		zap.String("username", data.Username),
		zap.String("role", data.Role))

	done := h.formData(r)
	done.Notice = fmt.Sprintf("Account created successfully for %s with role %s! Please login.",
		data.Username, data.Role)
	h.render(w, r, done)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u auth.SessionUser, returnURL string) {
	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "We couldn't sign you in. Please try again.", "/login")
		return
	}
	h.Log.Info("user signed in",
		zap.String("user_id", u.ID),
		zap.String("role", u.Role),
		zap.String("mode", h.Mode))

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// validationMessage returns the inline text for a validation failure.
func validationMessage(err error) string {
	var ve *inputval.Error
	if errors.As(err, &ve) {
		return ve.Message
	}
	return "Please check the form and try again."
}

