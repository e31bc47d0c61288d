package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/aggregate"
	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSuperseded is returned by Refresh when a later cycle started before
// this one could commit.
var ErrSuperseded = errors.New("refresh superseded by a newer cycle")

// Refresh outcomes reported to a RefreshObserver.
const (
	OutcomeLive       = "live"
	OutcomeStale      = "stale"
	OutcomeSuperseded = "superseded"
	OutcomeCanceled   = "canceled"
)

// RefreshObserver is told how each cycle ended.
type RefreshObserver interface {
	ObserveRefresh(outcome string, elapsed time.Duration)
}

// Loader runs refresh cycles against a DataSource and commits them to a
// Store. The most recently started cycle wins: starting a cycle cancels the
// one in flight.
type Loader struct {
	src   upstream.DataSource
	store *Store
	log   *zap.Logger
	obs   RefreshObserver
	now   func() time.Time

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewLoader returns a Loader that commits to store.
func NewLoader(src upstream.DataSource, store *Store, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, store: store, log: logger, now: time.Now}
}

// WithObserver sets the refresh observer and returns l.
func (l *Loader) WithObserver(o RefreshObserver) *Loader {
	l.obs = o
	return l
}

func (l *Loader) begin(parent context.Context) (uint64, context.Context, context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel
	return l.seq, ctx, cancel
}

func (l *Loader) end(seq uint64, cancel context.CancelFunc) {
	l.mu.Lock()
	if l.seq == seq {
		l.cancel = nil
	}
	l.mu.Unlock()
	cancel()
}

func (l *Loader) report(outcome string, start time.Time) {
	if l.obs != nil {
		l.obs.ObserveRefresh(outcome, l.now().Sub(start))
	}
}

// Refresh fetches attendance and users concurrently, joins and aggregates
// them, and commits the result. Fetch failures never surface here; they show
// up as fallback sources and Snapshot.Stale. Refresh returns ErrSuperseded
// when a newer cycle started first, or the context error when ctx ends.
func (l *Loader) Refresh(ctx context.Context, trigger Trigger) (Snapshot, error) {
	start := l.now()
	seq, cctx, cancel := l.begin(ctx)
	defer l.end(seq, cancel)

	cycleID := uuid.New()
	log := l.log.With(
		zap.Uint64("seq", seq),
		zap.String("cycle_id", cycleID.String()),
		zap.String("trigger", string(trigger)))

	var (
		att   upstream.AttendanceResult
		users upstream.UsersResult
	)
	g, gctx := errgroup.WithContext(cctx)
	g.Go(func() error {
		att = l.src.FetchAttendance(gctx)
		return nil
	})
	g.Go(func() error {
		users = l.src.FetchUsers(gctx)
		return nil
	})
	_ = g.Wait()

	if err := cctx.Err(); err != nil {
		if ctx.Err() != nil {
			log.Info("refresh canceled", zap.Error(ctx.Err()))
			l.report(OutcomeCanceled, start)
			return Snapshot{}, fmt.Errorf("refresh %d: %w", seq, ctx.Err())
		}
		log.Info("refresh superseded before commit")
		l.report(OutcomeSuperseded, start)
		return Snapshot{}, fmt.Errorf("refresh %d: %w", seq, ErrSuperseded)
	}

	snap := Build(att, users)
	snap.Seq = seq
	snap.CycleID = cycleID
	snap.Trigger = trigger
	snap.FetchedAt = l.now()

	if !l.store.Commit(snap) {
		l.report(OutcomeSuperseded, start)
		return Snapshot{}, fmt.Errorf("refresh %d: %w", seq, ErrSuperseded)
	}

	outcome := OutcomeLive
	if snap.Stale {
		outcome = OutcomeStale
	}
	log.Info("snapshot committed",
		zap.Int("attendance", len(snap.Attendance)),
		zap.Int("users", len(snap.Users)),
		zap.String("attendance_source", string(snap.AttendanceSource)),
		zap.String("users_source", string(snap.UsersSource)),
		zap.Bool("stale", snap.Stale))
	l.report(outcome, start)
	return snap, nil
}

// Build joins and aggregates one pair of fetch results. Sequence, cycle and
// time fields are left for the caller.
func Build(att upstream.AttendanceResult, users upstream.UsersResult) Snapshot {
	return Snapshot{
		Attendance:       att.Records,
		Users:            users.Records,
		Enhanced:         aggregate.Join(att.Records, users.Records),
		Stats:            aggregate.CalculateStats(att.Records, users.Records),
		Reasons:          aggregate.ProcessAbsenceReasons(att.Records),
		Districts:        aggregate.ProcessAttendanceByDistrict(att.Records, users.Records),
		AttendanceSource: att.Source,
		UsersSource:      users.Source,
		Stale:            att.Source == upstream.SourceFallback || users.Source == upstream.SourceFallback,
	}
}
