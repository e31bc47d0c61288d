package testutil

import (
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"go.uber.org/zap"
)

// SampleSnapshot builds a committed-ready snapshot from the fallback dataset.
// With stale set the attendance collection is marked as fallback data.
func SampleSnapshot(seq uint64, stale bool) dataset.Snapshot {
	att := upstream.AttendanceResult{Records: upstream.FallbackAttendance(), Source: upstream.SourceLive}
	users := upstream.UsersResult{Records: upstream.FallbackUsers(), Source: upstream.SourceLive}
	if stale {
		att.Source = upstream.SourceFallback
	}
	snap := dataset.Build(att, users)
	snap.Seq = seq
	snap.Trigger = dataset.TriggerStartup
	snap.FetchedAt = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	return snap
}

// SampleStore returns a store holding SampleSnapshot(1, stale).
func SampleStore(stale bool) *dataset.Store {
	store := dataset.NewStore(zap.NewNop())
	store.Commit(SampleSnapshot(1, stale))
	return store
}
