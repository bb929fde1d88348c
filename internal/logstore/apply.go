package logstore

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// ApplyThrough executes every committed-but-unapplied record up to and
// including commitIndex against the state machine, in strict index order.
// The consensus module calls it when the commit index advances; the leader
// write path calls it after a quorum acknowledged the entry.
//
// ApplyThrough is idempotent: a commitIndex at or below the applied
// watermark is a no-op, so overlapping callers whose replication waits
// resolve out of order still observe their own entry applied.
func (s *Store) ApplyThrough(ctx context.Context, commitIndex int64) error {
	ctx, span := s.startSpan(ctx, "logstore.ApplyThrough", attribute.Int64("logdb.commit_index", commitIndex))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.cache.lastApplied < commitIndex {
		entry, _, _, err := s.getRecord(ctx, s.cache.lastApplied+1)
		if err != nil {
			spanRecordError(span, err)
			return fmt.Errorf("apply through %d: %w", commitIndex, err)
		}
		if err := s.applyRecordLocked(ctx, entry); err != nil {
			spanRecordError(span, err)
			return fmt.Errorf("apply through %d: %w", commitIndex, err)
		}
	}

	span.SetAttributes(attribute.Int64("logdb.last_applied", s.cache.lastApplied))
	return nil
}

// applyRecordLocked executes one record's payload against the state machine
// and stamps its apply timestamp. The applied watermark only advances after
// a successful stamp, so a crash or stamp failure leaves the record eligible
// for re-execution: payloads must tolerate at-least-once application.
// Caller must hold s.mu.
func (s *Store) applyRecordLocked(ctx context.Context, entry Entry) error {
	start := time.Now()

	if err := s.backend.ExecCommand(ctx, entry.Payload); err != nil {
		s.metrics.IncLogBackendError("exec")
		return fmt.Errorf("execute log record %d: %w", entry.Index, err)
	}

	if err := s.backend.StampApplied(ctx, entry.Index, s.clock().Unix()); err != nil {
		s.logger.Error("cannot update log record timestamp", "index", entry.Index, "error", err)
		s.metrics.IncLogBackendError("stamp")
		return fmt.Errorf("stamp log record %d: %w", entry.Index, err)
	}

	s.cache.lastApplied = entry.Index
	s.metrics.ObserveLogApplyDuration(time.Since(start))
	s.metrics.SetLogLastApplied(entry.Index)

	s.logger.Debug("log record applied", "index", entry.Index, "term", entry.Term)
	return nil
}
