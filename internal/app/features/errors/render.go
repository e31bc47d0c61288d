// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/hygienedash/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Sign in required", backURL),
		Message: "Please sign in to continue.",
	}
	data.BackURL = backURL

	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "error_page", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied", "/"),
		Message: msg,
	}
	if backURL != "" {
		data.BackURL = backURL
	}

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_page", data)
}
