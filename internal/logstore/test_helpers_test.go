package logstore

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

const testEpoch = int64(1700000000)

func newTestStore(t *testing.T, cfg Config, consensus Consensus) (*Store, *MemoryBackend) {
	t.Helper()

	backend := NewMemoryBackend()
	s, err := Open(context.Background(), cfg, backend, consensus, slog.Default(), testTracer, testMetrics)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s.clock = func() time.Time { return time.Unix(testEpoch, 0) }
	return s, backend
}

func newSoloStore(t *testing.T, federation bool) (*Store, *MemoryBackend) {
	t.Helper()
	return newTestStore(t, Config{Solo: true, LogRetention: 10, FederationEnabled: federation}, nil)
}

// appendEntries fills the log with one entry per term value, starting at the
// current next index.
func appendEntries(t *testing.T, s *Store, terms []int64, applied bool) {
	t.Helper()

	ctx := context.Background()
	for _, term := range terms {
		s.mu.Lock()
		ts := int64(0)
		if applied {
			ts = testEpoch
		}
		_, err := s.appendNextLocked(ctx, term, []byte("UPDATE pool SET body = 'x'"), ts, NoFedIndex)
		s.mu.Unlock()
		if err != nil {
			t.Fatalf("append entry: %v", err)
		}
		if applied {
			s.mu.Lock()
			s.cache.lastApplied = s.cache.lastIndex
			s.mu.Unlock()
		}
	}
}
