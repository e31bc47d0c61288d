// Package dataset runs the fetch, join and aggregate cycle and holds the
// latest committed result for every page and API handler to read.
package dataset

import (
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/google/uuid"
)

// Trigger says what started a refresh cycle.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerInterval Trigger = "interval"
	TriggerManual   Trigger = "manual"
)

// Snapshot is the immutable result of one refresh cycle. Callers share the
// slices and must not modify them.
type Snapshot struct {
	Seq       uint64
	CycleID   uuid.UUID
	Trigger   Trigger
	FetchedAt time.Time

	Attendance []models.AttendanceRecord
	Users      []models.UserRecord
	Enhanced   []models.EnhancedAttendanceRecord

	Stats     models.DashboardStats
	Reasons   []models.ReasonBucket
	Districts []models.DistrictAttendance

	AttendanceSource upstream.Source
	UsersSource      upstream.Source

	// Stale is true when either collection is fallback data.
	Stale bool
}

// Age is how long ago the snapshot was fetched.
func (s Snapshot) Age(now time.Time) time.Duration {
	if s.FetchedAt.IsZero() {
		return 0
	}
	return now.Sub(s.FetchedAt)
}
