// internal/app/features/attendance/api.go
package attendance

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/aggregate"
	"github.com/dalemusser/hygienedash/internal/app/system/filter"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"go.uber.org/zap"
)

type apiFilters struct {
	Search   string `json:"q"`
	District string `json:"district"`
	School   string `json:"school"`
}

// apiResponse is the JSON body of GET /api/attendance.
type apiResponse struct {
	Seq       uint64                            `json:"seq"`
	FetchedAt *time.Time                        `json:"fetched_at,omitempty"`
	Stale     bool                              `json:"stale"`
	Filters   apiFilters                        `json:"filters"`
	Total     int                               `json:"total"`
	Totals    models.RecordTotals               `json:"totals"`
	Rate      float64                           `json:"attendance_rate"`
	Reasons   []models.ReasonBucket             `json:"absence_reasons"`
	Districts []string                          `json:"districts"`
	Schools   []string                          `json:"schools"`
	Records   []models.EnhancedAttendanceRecord `json:"records"`
}

// ServeAPI handles GET /api/attendance with the same filters as the page.
func (h *Handler) ServeAPI(w http.ResponseWriter, r *http.Request) {
	c := criteriaFrom(r)
	resp := apiResponse{
		Filters:   apiFilters{Search: c.Search, District: c.District, School: c.School},
		Reasons:   []models.ReasonBucket{},
		Districts: []string{},
		Schools:   []string{},
		Records:   []models.EnhancedAttendanceRecord{},
	}

	status := http.StatusServiceUnavailable
	if snap, records, ok := h.filtered(r); ok {
		fetched := snap.FetchedAt
		resp.Seq = snap.Seq
		resp.FetchedAt = &fetched
		resp.Stale = snap.Stale
		resp.Total = len(snap.Enhanced)
		resp.Totals = aggregate.Totals(records)
		resp.Rate = aggregate.Rate(resp.Totals.Present, resp.Totals.Absent)
		resp.Reasons = aggregate.ProcessEnhancedAbsenceReasons(records)
		resp.Districts = filter.UniqueDistricts(snap.Enhanced)
		resp.Schools = filter.UniqueSchools(snap.Enhanced, c.District)
		resp.Records = records
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.Warn("encode attendance json", zap.Error(err))
	}
}
