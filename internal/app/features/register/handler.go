// internal/app/features/register/handler.go
package register

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/hygienedash/internal/app/features/errors"
	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"github.com/dalemusser/hygienedash/internal/app/system/inputval"
	"github.com/dalemusser/hygienedash/internal/app/system/normalize"
	"github.com/dalemusser/hygienedash/internal/app/system/ratelimit"
	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/dalemusser/hygienedash/internal/app/system/viewdata"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the two-step OTP registration flow.
type Handler struct {
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Auth    upstream.AuthClient
	Limiter *ratelimit.OTPLimiter

	renderPage func(w http.ResponseWriter, r *http.Request, name string, data any)
}

func NewHandler(errLog *uierrors.ErrorLogger, authClient upstream.AuthClient, limiter *ratelimit.OTPLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		ErrLog:     errLog,
		Auth:       authClient,
		Limiter:    limiter,
		renderPage: templates.Render,
	}
}

type registerFormData struct {
	viewdata.BaseVM
	Error   string
	Notice  string
	Phone   string
	Name    string
	Role    string
	Consent bool
	OTPSent bool
	Roles   []models.Role
}

// fromForm reads the fields shared by both steps.
func (h *Handler) fromForm(r *http.Request) registerFormData {
	role := normalize.Role(r.FormValue("role"))
	if role == "" {
		role = models.DefaultRole
	}
	return registerFormData{
		BaseVM:  viewdata.NewBaseVM(r, "Create account", "/login"),
		Phone:   normalize.Phone(r.FormValue("phone")),
		Name:    normalize.Name(r.FormValue("name")),
		Role:    role,
		Consent: r.FormValue("consent") != "",
		Roles:   models.AllRoles,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data registerFormData) {
	h.renderPage(w, r, "register_page", data)
}

// ServeRegister handles GET /register.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, registerFormData{
		BaseVM: viewdata.NewBaseVM(r, "Create account", "/login"),
		Role:   models.DefaultRole,
		Roles:  models.AllRoles,
	})
}

// HandleSendOTP handles POST /register/otp.
func (h *Handler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}
	data := h.fromForm(r)

	form := inputval.RegisterOTPForm{Phone: data.Phone, Name: data.Name, Role: data.Role, Consent: data.Consent}
	if err := inputval.Validate(form); err != nil {
		data.Error = validationMessage(err)
		h.render(w, r, data)
		return
	}

	if ok, reason := h.Limiter.Check(r, data.Phone); !ok {
		h.Log.Warn("registration otp rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		data.Error = reason
		w.WriteHeader(http.StatusTooManyRequests)
		h.render(w, r, data)
		return
	}

	if err := h.Auth.SendRegistrationOTP(r.Context(), data.Phone); err != nil {
		h.Log.Warn("send registration otp failed", zap.Error(err))
		data.Error = upstream.UserMessage(err)
		h.render(w, r, data)
		return
	}

	data.OTPSent = true
	data.Notice = "We sent a verification code to " + data.Phone + "."
	h.render(w, r, data)
}

// HandleRegister handles POST /register: verify the code, then create the
// account. The user signs in afterwards through the normal login flow.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}
	data := h.fromForm(r)
	data.OTPSent = true
	otp := normalize.OTP(r.FormValue("otp"))

	form := inputval.RegisterForm{Phone: data.Phone, OTP: otp, Name: data.Name, Role: data.Role, Consent: data.Consent}
	if err := inputval.Validate(form); err != nil {
		data.Error = validationMessage(err)
		h.render(w, r, data)
		return
	}

	if err := h.Auth.VerifyRegistrationOTP(r.Context(), data.Phone, otp); err != nil {
		h.Log.Warn("verify registration otp failed", zap.Error(err))
		data.Error = upstream.UserMessage(err)
		h.render(w, r, data)
		return
	}

	if err := h.Auth.Register(r.Context(), data.Phone, data.Name, data.Role); err != nil {
		h.Log.Warn("register failed", zap.Error(err))
		data.Error = upstream.UserMessage(err)
		h.render(w, r, data)
		return
	}

	h.Limiter.ResetPhone(r, data.Phone)
	h.Log.Info("account registered", zap.String("role", data.Role))
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

func validationMessage(err error) string {
	var ve *inputval.Error
	if errors.As(err, &ve) {
		return ve.Message
	}
	return "Please check the form and try again."
}
