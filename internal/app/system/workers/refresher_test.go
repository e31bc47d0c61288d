package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"github.com/dalemusser/hygienedash/internal/app/system/upstream"
	"go.uber.org/zap"
)

type countingSource struct {
	calls atomic.Int32
}

func (s *countingSource) FetchAttendance(ctx context.Context) upstream.AttendanceResult {
	s.calls.Add(1)
	return upstream.AttendanceResult{Records: upstream.FallbackAttendance(), Source: upstream.SourceLive}
}

func (s *countingSource) FetchUsers(ctx context.Context) upstream.UsersResult {
	return upstream.UsersResult{Records: upstream.FallbackUsers(), Source: upstream.SourceLive}
}

func waitForSeq(t *testing.T, store *dataset.Store, min uint64) dataset.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s, ok := store.Current(); ok && s.Seq >= min {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no snapshot with seq >= %d committed", min)
	return dataset.Snapshot{}
}

func TestRefresher_InitialAndInterval(t *testing.T) {
	src := &countingSource{}
	store := dataset.NewStore(zap.NewNop())
	triggers := make(chan dataset.Trigger, 64)
	store.Subscribe(func(s dataset.Snapshot) {
		select {
		case triggers <- s.Trigger:
		default:
		}
	})
	w := NewRefresher(dataset.NewLoader(src, store, zap.NewNop()), zap.NewNop(), 20*time.Millisecond)

	w.Start()
	defer w.Stop()

	waitForSeq(t, store, 3)
	if first := <-triggers; first != dataset.TriggerStartup {
		t.Errorf("first trigger = %q, want startup", first)
	}
	if next := <-triggers; next != dataset.TriggerInterval {
		t.Errorf("next trigger = %q, want interval", next)
	}
}

func TestRefresher_Trigger(t *testing.T) {
	src := &countingSource{}
	store := dataset.NewStore(zap.NewNop())
	w := NewRefresher(dataset.NewLoader(src, store, zap.NewNop()), zap.NewNop(), time.Hour)

	w.Start()
	defer w.Stop()

	waitForSeq(t, store, 1)
	w.Trigger()
	s := waitForSeq(t, store, 2)
	if s.Trigger != dataset.TriggerManual {
		t.Errorf("trigger = %q, want manual", s.Trigger)
	}
}

func TestRefresher_RefreshNow(t *testing.T) {
	store := dataset.NewStore(zap.NewNop())
	w := NewRefresher(dataset.NewLoader(&countingSource{}, store, zap.NewNop()), zap.NewNop(), time.Hour)
	defer w.Stop()

	s, err := w.RefreshNow(context.Background())
	if err != nil {
		t.Fatalf("RefreshNow: %v", err)
	}
	if s.Trigger != dataset.TriggerManual || s.Stats.TotalPresent != 148 {
		t.Errorf("snapshot = trigger %q present %d", s.Trigger, s.Stats.TotalPresent)
	}
}

func TestRefresher_StopIsIdempotent(t *testing.T) {
	w := NewRefresher(dataset.NewLoader(&countingSource{}, dataset.NewStore(nil), nil), zap.NewNop(), time.Hour)
	w.Start()
	w.Stop()
	w.Stop()
}
