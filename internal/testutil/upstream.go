package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultOTP is the code FakeAPI accepts unless OTP is changed.
const DefaultOTP = "123456"

// FakeAccount is an account known to FakeAPI.
type FakeAccount struct {
	ID    int    `json:"id"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// FakeAPI is an in-process stand-in for the attendance API. It serves the
// two read endpoints and the dashboard auth endpoints.
type FakeAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	attendance []models.AttendanceRecord
	users      []models.UserRecord
	failReads  bool
	otp        string
	accounts   map[string]FakeAccount
	nextID     int
	calls      []string
}

// NewFakeAPI starts a FakeAPI serving the fallback dataset as live data and
// one manager account. The server is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		attendance: upstream.FallbackAttendance(),
		users:      upstream.FallbackUsers(),
		otp:        DefaultOTP,
		accounts: map[string]FakeAccount{
			"0772207616": {ID: 1, Phone: "0772207616", Name: "Katende Brian", Role: "manager"},
		},
		nextID: 2,
	}

	r := chi.NewRouter()
	r.Get("/attendances", f.serveAttendances)
	r.Get("/registrations", f.serveRegistrations)
	r.Route("/dashboard", func(r chi.Router) {
		r.Post("/send-login-otp", f.sendLoginOTP)
		r.Post("/send-registration-otp", f.sendRegistrationOTP)
		r.Post("/login", f.login)
		r.Post("/verify-registration-otp", f.verifyRegistrationOTP)
		r.Post("/register", f.register)
	})

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, req.Method+" "+req.URL.Path)
		f.mu.Unlock()
		r.ServeHTTP(w, req)
	}))
	t.Cleanup(f.Server.Close)
	return f
}

// Client returns an upstream.Client pointed at the fake.
func (f *FakeAPI) Client() *upstream.Client {
	return upstream.New(f.Server.URL, f.Server.Client(), zap.NewNop())
}

// SetData replaces the records served by the read endpoints.
func (f *FakeAPI) SetData(att []models.AttendanceRecord, users []models.UserRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attendance, f.users = att, users
}

// FailReads makes both read endpoints answer 500.
func (f *FakeAPI) FailReads(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReads = fail
}

// AddAccount registers an account that can sign in.
func (f *FakeAPI) AddAccount(a FakeAccount) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[a.Phone] = a
}

// Account returns the account for phone, if any.
func (f *FakeAPI) Account(phone string) (FakeAccount, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[phone]
	return a, ok
}

// Calls returns "METHOD /path" for every request received so far.
func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func (f *FakeAPI) serveAttendances(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail, data := f.failReads, f.attendance
	f.mu.Unlock()
	if fail {
		detail(w, http.StatusInternalServerError, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (f *FakeAPI) serveRegistrations(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail, data := f.failReads, f.users
	f.mu.Unlock()
	if fail {
		detail(w, http.StatusInternalServerError, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

type authBody struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func decode(w http.ResponseWriter, r *http.Request) (authBody, bool) {
	var b authBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "Invalid request body"}},
		})
		return b, false
	}
	return b, true
}

func (f *FakeAPI) sendLoginOTP(w http.ResponseWriter, r *http.Request) {
	b, ok := decode(w, r)
	if !ok {
		return
	}
	if _, found := f.Account(b.Phone); !found {
		detail(w, http.StatusNotFound, "No account found for this phone number")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent"})
}

func (f *FakeAPI) sendRegistrationOTP(w http.ResponseWriter, r *http.Request) {
	b, ok := decode(w, r)
	if !ok {
		return
	}
	if _, found := f.Account(b.Phone); found {
		detail(w, http.StatusConflict, "Phone number already registered")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent"})
}

func (f *FakeAPI) checkOTP(w http.ResponseWriter, otp string) bool {
	f.mu.Lock()
	want := f.otp
	f.mu.Unlock()
	if otp != want {
		detail(w, http.StatusUnauthorized, "Invalid or expired OTP")
		return false
	}
	return true
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	b, ok := decode(w, r)
	if !ok || !f.checkOTP(w, b.OTP) {
		return
	}
	a, found := f.Account(b.Phone)
	if !found {
		detail(w, http.StatusNotFound, "No account found for this phone number")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (f *FakeAPI) verifyRegistrationOTP(w http.ResponseWriter, r *http.Request) {
	b, ok := decode(w, r)
	if !ok || !f.checkOTP(w, b.OTP) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "verified"})
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	b, ok := decode(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, found := f.accounts[b.Phone]; found {
		detail(w, http.StatusConflict, "Phone number already registered")
		return
	}
	a := FakeAccount{ID: f.nextID, Phone: b.Phone, Name: b.Name, Role: b.Role}
	f.nextID++
	f.accounts[b.Phone] = a
	writeJSON(w, http.StatusCreated, a)
}
