// internal/app/features/attendance/export.go
package attendance

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/app/system/export"
	"github.com/dalemusser/hygienedash/internal/app/system/filter"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"go.uber.org/zap"
)

// filtered returns the current snapshot's records narrowed by the request's
// filters, or ok=false when nothing has been loaded yet.
func (h *Handler) filtered(r *http.Request) (dataset.Snapshot, []models.EnhancedAttendanceRecord, bool) {
	snap, ok := h.Store.Current()
	if !ok {
		return snap, nil, false
	}
	return snap, filter.Apply(snap.Enhanced, criteriaFrom(r)), true
}

func exportName(ext string, at time.Time) string {
	return fmt.Sprintf("attendance_%s.%s", at.Format("20060102_1504"), ext)
}

// ServeCSV handles GET /attendance/export.csv for the filtered view.
func (h *Handler) ServeCSV(w http.ResponseWriter, r *http.Request) {
	snap, records, ok := h.filtered(r)
	if !ok {
		http.Error(w, "attendance data is still loading", http.StatusServiceUnavailable)
		return
	}

	filename := exportName("csv", snap.FetchedAt)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	if err := export.WriteCSV(w, records); err != nil {
		// Headers are already out; all we can do is log.
		h.Log.Error("csv export failed", zap.Error(err), zap.Int("rows", len(records)))
		return
	}
	h.Log.Info("attendance exported", zap.String("format", "csv"), zap.Int("rows", len(records)))
}

// ServeXLSX handles GET /attendance/export.xlsx for the filtered view. The
// workbook is built in memory first so a failure can still render an error page.
func (h *Handler) ServeXLSX(w http.ResponseWriter, r *http.Request) {
	snap, records, ok := h.filtered(r)
	if !ok {
		http.Error(w, "attendance data is still loading", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, records); err != nil {
		h.ErrLog.LogServerError(w, r, "xlsx export failed", err, "The spreadsheet could not be created. Please try again.", "/attendance")
		return
	}

	filename := exportName("xlsx", snap.FetchedAt)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	if _, err := buf.WriteTo(w); err != nil {
		h.Log.Warn("xlsx write interrupted", zap.Error(err))
		return
	}
	h.Log.Info("attendance exported", zap.String("format", "xlsx"), zap.Int("rows", len(records)))
}
