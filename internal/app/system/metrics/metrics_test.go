package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFetch(t *testing.T) {
	m := New()
	m.ObserveFetch(upstream.EndpointAttendances, upstream.SourceLive)
	m.ObserveFetch(upstream.EndpointAttendances, upstream.SourceFallback)
	m.ObserveFetch(upstream.EndpointAttendances, upstream.SourceFallback)

	if got := testutil.ToFloat64(m.fetches.WithLabelValues("attendances", "fallback")); got != 2 {
		t.Errorf("fallback fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.fetches.WithLabelValues("attendances", "live")); got != 1 {
		t.Errorf("live fetches = %v, want 1", got)
	}
}

func TestObserveRefreshAndSnapshot(t *testing.T) {
	m := New()
	m.ObserveRefresh(dataset.OutcomeStale, 120*time.Millisecond)
	m.ObserveSnapshot(dataset.Snapshot{
		Seq:        4,
		Stale:      true,
		Attendance: make([]models.AttendanceRecord, 5),
		Users:      make([]models.UserRecord, 4),
	})

	if got := testutil.ToFloat64(m.refresh.WithLabelValues("stale")); got != 1 {
		t.Errorf("stale refreshes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.stale); got != 1 {
		t.Errorf("stale gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.records.WithLabelValues("users")); got != 4 {
		t.Errorf("users gauge = %v, want 4", got)
	}

	m.ObserveSnapshot(dataset.Snapshot{Seq: 5})
	if got := testutil.ToFloat64(m.stale); got != 0 {
		t.Errorf("stale gauge after live snapshot = %v, want 0", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRefresh(dataset.OutcomeLive, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `hygienedash_refresh_total{outcome="live"} 1`) {
		t.Errorf("metrics output missing refresh counter:\n%s", body)
	}
}
