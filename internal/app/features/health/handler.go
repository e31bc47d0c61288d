package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Store  *dataset.Store
	MaxAge time.Duration // a snapshot older than this reports an error
	Log    *zap.Logger

	now func() time.Time
}

// NewHandler constructs a health Handler over the snapshot store.
// maxAge <= 0 disables the age check.
func NewHandler(store *dataset.Store, maxAge time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		MaxAge: maxAge,
		Log:    logger,
		now:    time.Now,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status           string     `json:"status"`
	Message          string     `json:"message,omitempty"`
	Seq              uint64     `json:"seq,omitempty"`
	FetchedAt        *time.Time `json:"fetched_at,omitempty"`
	AgeSeconds       float64    `json:"age_seconds"`
	AttendanceSource string     `json:"attendance_source,omitempty"`
	UsersSource      string     `json:"users_source,omitempty"`
	Stale            bool       `json:"stale"`
	Records          int        `json:"records"`
}

// Serve handles GET /health.
//
// With a live snapshot: 200 and
//
//	{ "status":"ok", "seq":3, "attendance_source":"live", "users_source":"live", ... }
//
// With fallback data: 200 and "status":"degraded". Before the first refresh
// commits, or when the snapshot is older than MaxAge: 503 and "status":"error".
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	snap, ok := h.Store.Current()
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "error",
			Message: "No attendance data loaded yet",
		})
		return
	}

	age := snap.Age(h.now())
	fetched := snap.FetchedAt
	resp := healthResponse{
		Status:           "ok",
		Seq:              snap.Seq,
		FetchedAt:        &fetched,
		AgeSeconds:       age.Seconds(),
		AttendanceSource: string(snap.AttendanceSource),
		UsersSource:      string(snap.UsersSource),
		Stale:            snap.Stale,
		Records:          len(snap.Attendance),
	}
	if snap.Stale {
		resp.Status = "degraded"
		resp.Message = "Serving fallback data"
	}

	if h.MaxAge > 0 && age > h.MaxAge {
		h.Log.Warn("health-check: snapshot overdue",
			zap.Duration("age", age),
			zap.Duration("max_age", h.MaxAge),
			zap.Uint64("seq", snap.Seq))
		resp.Status = "error"
		resp.Message = "Data refresh overdue"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	_ = json.NewEncoder(w).Encode(resp)
}
