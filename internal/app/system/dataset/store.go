package dataset

import (
	"sync"

	"go.uber.org/zap"
)

// Store holds the committed snapshot. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	cur  *Snapshot
	subs []func(Snapshot)
	log  *zap.Logger
}

// NewStore returns an empty store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{log: logger}
}

// Current returns the committed snapshot, or false before the first commit.
func (s *Store) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return Snapshot{}, false
	}
	return *s.cur, true
}

// Subscribe registers fn to run after every successful commit. fn runs on
// the committing goroutine and must not block.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Commit replaces the current snapshot unless a snapshot from a later cycle
// is already committed. It reports whether snap was kept.
func (s *Store) Commit(snap Snapshot) bool {
	s.mu.Lock()
	if s.cur != nil && snap.Seq <= s.cur.Seq {
		current := s.cur.Seq
		s.mu.Unlock()
		s.log.Info("discarding snapshot from an older refresh cycle",
			zap.Uint64("seq", snap.Seq),
			zap.Uint64("committed_seq", current),
			zap.String("cycle_id", snap.CycleID.String()))
		return false
	}
	s.cur = &snap
	subs := append([]func(Snapshot){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}
