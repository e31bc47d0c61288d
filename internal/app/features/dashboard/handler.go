// internal/app/features/dashboard/handler.go
package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/charts"
	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/app/system/viewdata"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Refresher queues a refresh cycle without waiting for it.
type Refresher interface {
	Trigger()
}

type Handler struct {
	Store     *dataset.Store
	Refresher Refresher
	Log       *zap.Logger

	renderPage func(w http.ResponseWriter, r *http.Request, name string, data any)
}

func NewHandler(store *dataset.Store, refresher Refresher, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      store,
		Refresher:  refresher,
		Log:        logger,
		renderPage: templates.Render,
	}
}

type dashboardData struct {
	viewdata.BaseVM
	Stats     models.DashboardStats
	Reasons   []charts.Slice
	Districts []charts.Bar
}

func buildDashboardData(base viewdata.BaseVM, snap dataset.Snapshot, ok bool) dashboardData {
	data := dashboardData{BaseVM: base.WithSnapshot(snap, ok)}
	if !ok {
		return data
	}
	data.Stats = snap.Stats
	data.Reasons = charts.Reasons(snap.Reasons)
	data.Districts = charts.Districts(snap.Districts)
	return data
}

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.Store.Current()
	data := buildDashboardData(viewdata.NewBaseVM(r, "Dashboard", "/dashboard"), snap, ok)

	h.Log.Debug("dashboard rendered",
		zap.Uint64("seq", snap.Seq),
		zap.Bool("stale", data.Stale))
	h.renderPage(w, r, "dashboard_page", data)
}

// HandleRefresh handles POST /dashboard/refresh. It queues a cycle and
// returns at once; open pages reload through /live when the cycle commits.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	h.Refresher.Trigger()
	h.Log.Info("dashboard refresh queued")

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/dashboard")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// apiResponse is the JSON body of GET /api/dashboard.
type apiResponse struct {
	Seq              uint64                      `json:"seq"`
	FetchedAt        *time.Time                  `json:"fetched_at,omitempty"`
	Stale            bool                        `json:"stale"`
	AttendanceSource string                      `json:"attendance_source,omitempty"`
	UsersSource      string                      `json:"users_source,omitempty"`
	Stats            models.DashboardStats       `json:"stats"`
	Reasons          []models.ReasonBucket       `json:"absence_reasons"`
	Districts        []models.DistrictAttendance `json:"attendance_by_district"`
}

// ServeAPI handles GET /api/dashboard. Before the first refresh commits it
// answers 503 with an empty body shape.
func (h *Handler) ServeAPI(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.Store.Current()
	resp := apiResponse{
		Reasons:   []models.ReasonBucket{},
		Districts: []models.DistrictAttendance{},
	}
	status := http.StatusServiceUnavailable
	if ok {
		fetched := snap.FetchedAt
		resp.Seq = snap.Seq
		resp.FetchedAt = &fetched
		resp.Stale = snap.Stale
		resp.AttendanceSource = string(snap.AttendanceSource)
		resp.UsersSource = string(snap.UsersSource)
		resp.Stats = snap.Stats
		if snap.Reasons != nil {
			resp.Reasons = snap.Reasons
		}
		if snap.Districts != nil {
			resp.Districts = snap.Districts
		}
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.Warn("encode dashboard json", zap.Error(err))
	}
}
