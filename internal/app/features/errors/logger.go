// internal/app/features/errors/logger.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/hygienedash/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs server-side faults and renders a friendly error page in
// their place. Handlers hold one instead of writing raw 500 responses.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger that writes to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs msg and err with request context, then renders a 500
// page showing userMsg and a back link to backURL.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	el.log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	if userMsg == "" {
		userMsg = "Something went wrong. Please try again."
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something went wrong", backURL),
		Message: userMsg,
	}
	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "error_page", data)
}

// LogJSONError logs the fault and writes a JSON error body for API routes.
func (el *ErrorLogger) LogJSONError(w http.ResponseWriter, r *http.Request, msg string, err error, status int) {
	el.log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status)})
}

// LogBadRequest logs a malformed request at Warn and renders a 400 page.
func (el *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	el.log.Warn(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Bad request", backURL),
		Message: userMsg,
	}
	w.WriteHeader(http.StatusBadRequest)
	templates.Render(w, r, "error_page", data)
}
