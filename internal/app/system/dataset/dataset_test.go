package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves fixed results. When block is set, fetches wait until
// their context ends or release is closed.
type fakeSource struct {
	att   upstream.AttendanceResult
	users upstream.UsersResult

	block   atomic.Bool
	release chan struct{}
	started chan struct{}
}

func (f *fakeSource) wait(ctx context.Context) {
	if !f.block.Load() {
		return
	}
	select {
	case f.started <- struct{}{}:
	default:
	}
	select {
	case <-ctx.Done():
	case <-f.release:
	}
}

func (f *fakeSource) FetchAttendance(ctx context.Context) upstream.AttendanceResult {
	f.wait(ctx)
	return f.att
}

func (f *fakeSource) FetchUsers(ctx context.Context) upstream.UsersResult {
	f.wait(ctx)
	return f.users
}

func liveSource() *fakeSource {
	return &fakeSource{
		att: upstream.AttendanceResult{
			Records: []models.AttendanceRecord{{ID: 1, Phone: "A", StudentsPresent: 30, StudentsAbsent: 2, AbsenceReason: "2 students sick"}},
			Source:  upstream.SourceLive,
		},
		users: upstream.UsersResult{
			Records: []models.UserRecord{{ID: 1, Phone: "A", Name: "T", School: "S1", District: "D1"}},
			Source:  upstream.SourceLive,
		},
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingObserver) ObserveRefresh(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func TestRefresh_CommitsLiveSnapshot(t *testing.T) {
	store := NewStore(nil)
	obs := &recordingObserver{}
	l := NewLoader(liveSource(), store, nil).WithObserver(obs)

	snap, err := l.Refresh(context.Background(), TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snap.Seq)
	assert.Equal(t, TriggerManual, snap.Trigger)
	assert.False(t, snap.Stale)
	assert.NotEqual(t, uuid.Nil, snap.CycleID)
	assert.False(t, snap.FetchedAt.IsZero())
	assert.Equal(t, 93.8, snap.Stats.AttendanceRate)
	assert.Equal(t, []models.ReasonBucket{{Name: "Health Issues", Value: 2}}, snap.Reasons)
	assert.Equal(t, []models.DistrictAttendance{{District: "D1", Present: 30, Absent: 2}}, snap.Districts)
	require.Len(t, snap.Enhanced, 1)
	assert.Equal(t, "T", snap.Enhanced[0].TeacherName)

	cur, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, snap.Seq, cur.Seq)
	assert.Equal(t, []string{OutcomeLive}, obs.outcomes)
}

func TestRefresh_FallbackMarksStale(t *testing.T) {
	src := liveSource()
	src.users = upstream.UsersResult{Records: upstream.FallbackUsers(), Source: upstream.SourceFallback, Err: errors.New("down")}
	obs := &recordingObserver{}
	l := NewLoader(src, NewStore(nil), nil).WithObserver(obs)

	snap, err := l.Refresh(context.Background(), TriggerStartup)
	require.NoError(t, err)
	assert.True(t, snap.Stale)
	assert.Equal(t, upstream.SourceLive, snap.AttendanceSource)
	assert.Equal(t, upstream.SourceFallback, snap.UsersSource)
	assert.Equal(t, []string{OutcomeStale}, obs.outcomes)
}

func TestStore_DiscardsOlderSnapshot(t *testing.T) {
	store := NewStore(nil)
	var notified []uint64
	store.Subscribe(func(s Snapshot) { notified = append(notified, s.Seq) })

	assert.True(t, store.Commit(Snapshot{Seq: 2}))
	assert.False(t, store.Commit(Snapshot{Seq: 1}))
	assert.False(t, store.Commit(Snapshot{Seq: 2}))
	assert.True(t, store.Commit(Snapshot{Seq: 3}))

	cur, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(3), cur.Seq)
	assert.Equal(t, []uint64{2, 3}, notified)
}

func TestStore_EmptyBeforeCommit(t *testing.T) {
	_, ok := NewStore(nil).Current()
	assert.False(t, ok)
}

func TestRefresh_NewerCycleSupersedesInFlight(t *testing.T) {
	slow := liveSource()
	slow.block.Store(true)
	slow.release = make(chan struct{})
	slow.started = make(chan struct{}, 2)

	store := NewStore(nil)
	obs := &recordingObserver{}
	l := NewLoader(slow, store, nil).WithObserver(obs)

	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Refresh(context.Background(), TriggerInterval)
		firstErr <- err
	}()

	select {
	case <-slow.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first refresh never started fetching")
	}

	// The second cycle does not block.
	slow.block.Store(false)
	second, err := l.Refresh(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Seq)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first refresh was not canceled")
	}

	cur, _ := store.Current()
	assert.Equal(t, uint64(2), cur.Seq)
	assert.Equal(t, TriggerManual, cur.Trigger)
}

func TestRefresh_ParentCanceled(t *testing.T) {
	src := liveSource()
	src.block.Store(true)
	src.release = make(chan struct{})
	src.started = make(chan struct{}, 2)
	store := NewStore(nil)
	l := NewLoader(src, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Refresh(ctx, TriggerManual)
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := store.Current()
	assert.False(t, ok)
}

func TestBuild_FallbackMatchesSampleTotals(t *testing.T) {
	snap := Build(
		upstream.AttendanceResult{Records: upstream.FallbackAttendance(), Source: upstream.SourceFallback},
		upstream.UsersResult{Records: upstream.FallbackUsers(), Source: upstream.SourceFallback},
	)
	assert.True(t, snap.Stale)
	assert.Equal(t, 148, snap.Stats.TotalPresent)
	assert.Equal(t, 48, snap.Stats.TotalAbsent)
	assert.Len(t, snap.Enhanced, 5)
}

func TestSnapshot_Age(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Duration(0), Snapshot{}.Age(now))
	assert.Equal(t, time.Minute, Snapshot{FetchedAt: now.Add(-time.Minute)}.Age(now))
}
