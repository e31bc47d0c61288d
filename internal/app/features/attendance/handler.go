// internal/app/features/attendance/handler.go
package attendance

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	uierrors "github.com/dalemusser/hygienedash/internal/app/features/errors"
	"github.com/dalemusser/hygienedash/internal/app/system/aggregate"
	"github.com/dalemusser/hygienedash/internal/app/system/charts"
	"github.com/dalemusser/hygienedash/internal/app/system/classify"
	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/app/system/filter"
	"github.com/dalemusser/hygienedash/internal/app/system/normalize"
	"github.com/dalemusser/hygienedash/internal/app/system/paging"
	"github.com/dalemusser/hygienedash/internal/app/system/viewdata"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Refresher runs a manual refresh cycle and waits for its result.
type Refresher interface {
	RefreshNow(ctx context.Context) (dataset.Snapshot, error)
}

type Handler struct {
	Store     *dataset.Store
	Refresher Refresher
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger

	renderPage func(w http.ResponseWriter, r *http.Request, name string, data any)
}

func NewHandler(store *dataset.Store, refresher Refresher, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      store,
		Refresher:  refresher,
		ErrLog:     errLog,
		Log:        logger,
		renderPage: templates.Render,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| View model                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type rowVM struct {
	models.EnhancedAttendanceRecord
	Category string
	Badge    string
	Class    string
}

// noRecordsMessage is the table's empty state.
const noRecordsMessage = "No attendance records found"

type attendanceData struct {
	viewdata.BaseVM
	Search    string
	District  string
	School    string
	Filtered  bool
	Districts []string
	Schools   []string
	Totals    models.RecordTotals
	Rate      float64
	Reasons   []charts.Slice
	Rows      []rowVM // current page of the filtered records
	Page      paging.Range
	PrevURL   string
	NextURL   string
	Total     int    // records before filtering
	Empty     string // empty-state text, set when no record matches
	CSVURL    string
	XLSXURL   string
}

// criteriaFrom reads the filter form. Blank selects mean "all". District
// and school are compared exactly against the listed values, so only the
// search box is trimmed.
func criteriaFrom(r *http.Request) filter.Criteria {
	v := r.URL.Query()
	return filter.Criteria{
		Search:   normalize.QueryParam(query.Get(r, "q")),
		District: orAll(v.Get("district")),
		School:   orAll(v.Get("school")),
	}
}

// encode returns the query string that reproduces c.
func encode(c filter.Criteria) string {
	v := url.Values{}
	if c.Search != "" {
		v.Set("q", c.Search)
	}
	if c.District != filter.All {
		v.Set("district", c.District)
	}
	if c.School != filter.All {
		v.Set("school", c.School)
	}
	return v.Encode()
}

func toRows(records []models.EnhancedAttendanceRecord) []rowVM {
	rows := make([]rowVM, 0, len(records))
	for _, rec := range records {
		c := classify.Reason(rec.AbsenceReason)
		rows = append(rows, rowVM{
			EnhancedAttendanceRecord: rec,
			Category:                 c.Label(),
			Badge:                    c.Badge(),
			Class:                    c.Slug(),
		})
	}
	return rows
}

// pageURL links to the table page starting at start, keeping the filters.
func pageURL(c filter.Criteria, start int) string {
	v, _ := url.ParseQuery(encode(c))
	if start > 1 {
		v.Set("start", strconv.Itoa(start))
	}
	return withQuery("/attendance", v.Encode())
}

func buildAttendanceData(base viewdata.BaseVM, snap dataset.Snapshot, ok bool, c filter.Criteria, start int) attendanceData {
	data := attendanceData{
		BaseVM:   base.WithSnapshot(snap, ok),
		Search:   c.Search,
		District: c.District,
		School:   c.School,
		Filtered: c.Active(),
		CSVURL:   withQuery("/attendance/export.csv", encode(c)),
		XLSXURL:  withQuery("/attendance/export.xlsx", encode(c)),
	}
	if !ok {
		return data
	}

	filtered := filter.Apply(snap.Enhanced, c)
	if len(filtered) == 0 {
		data.Empty = noRecordsMessage
	}
	data.Total = len(snap.Enhanced)
	data.Districts = filter.UniqueDistricts(snap.Enhanced)
	data.Schools = filter.UniqueSchools(snap.Enhanced, c.District)
	data.Totals = aggregate.Totals(filtered)
	data.Rate = aggregate.Rate(data.Totals.Present, data.Totals.Absent)
	data.Reasons = charts.Reasons(aggregate.ProcessEnhancedAbsenceReasons(filtered))

	rows, rng := paging.Page(filtered, start)
	data.Rows = toRows(rows)
	data.Page = rng
	if rng.HasPrev {
		data.PrevURL = pageURL(c, rng.PrevStart)
	}
	if rng.HasNext {
		data.NextURL = pageURL(c, rng.NextStart)
	}
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAttendance(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.Store.Current()
	c := criteriaFrom(r)
	data := buildAttendanceData(viewdata.NewBaseVM(r, "Attendance", "/dashboard"), snap, ok, c, paging.ParseStart(r))

	h.Log.Debug("attendance rendered",
		zap.Uint64("seq", snap.Seq),
		zap.Int("rows", len(data.Rows)),
		zap.Bool("filtered", data.Filtered))
	h.renderPage(w, r, "attendance_page", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /attendance/refresh                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleRefresh starts a manual refresh and waits for it before sending the
// user back to the same filtered view. A cycle that is superseded or fails
// still redirects; the page shows whatever snapshot is current.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Refresher.RefreshNow(r.Context())
	if err != nil {
		h.Log.Warn("manual refresh did not commit", zap.Error(err))
	} else {
		h.Log.Info("manual refresh committed",
			zap.Uint64("seq", snap.Seq),
			zap.Bool("stale", snap.Stale))
	}

	dest := withQuery("/attendance", encode(filter.Criteria{
		Search:   normalize.QueryParam(r.FormValue("q")),
		District: orAll(r.FormValue("district")),
		School:   orAll(r.FormValue("school")),
	}))

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func withQuery(path, qs string) string {
	if qs == "" {
		return path
	}
	return path + "?" + qs
}

func orAll(v string) string {
	if v == "" {
		return filter.All
	}
	return v
}
