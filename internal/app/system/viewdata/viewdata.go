// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"github.com/dalemusser/hygienedash/internal/app/system/authz"
	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/dashboard"),
//	}
type BaseVM struct {
	SiteName string
	Tagline  string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	RoleLabel  string
	UserName   string
	Phone      string
	CanExport  bool

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// Data freshness, filled by WithSnapshot
	Stale     bool
	FetchedAt time.Time
	HasData   bool
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		Tagline:     models.ProgramTagline,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		CanExport:   authz.CanExport(r),
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if signedIn {
		vm.RoleLabel = models.RoleLabel(role)
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.Phone = u.Phone
	}
	return vm
}

// WithSnapshot copies the freshness fields of snap into vm.
func (vm BaseVM) WithSnapshot(snap dataset.Snapshot, ok bool) BaseVM {
	vm.HasData = ok
	if ok {
		vm.Stale = snap.Stale
		vm.FetchedAt = snap.FetchedAt
	}
	return vm
}
