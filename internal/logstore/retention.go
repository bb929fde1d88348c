package logstore

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Purge removes applied records older than the retention window and reports
// how many were removed. The most recent LogRetention applied records, every
// unapplied record, and the reserved slot are preserved. The index-0 sentinel
// is applied, so it is purged once it falls below the retention window.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "logstore.Purge")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	retention := int64(s.cfg.LogRetention)

	// Cold start protection: nothing to purge until the log outgrows the
	// retention window.
	if s.cache.lastIndex < retention {
		return 0, nil
	}

	deleteBefore := s.cache.lastApplied - retention

	removed, err := s.backend.DeleteAppliedBefore(ctx, deleteBefore)
	if err != nil {
		s.metrics.IncLogBackendError("purge")
		spanRecordError(span, err)
		return 0, fmt.Errorf("purge log records below %d: %w", deleteBefore, err)
	}
	span.SetAttributes(attribute.Int64("logdb.purged_records", removed))

	if removed > 0 {
		fed, err := s.backend.FedIndices(ctx)
		if err != nil {
			spanRecordError(span, err)
			return removed, fmt.Errorf("rescan federated indices after purge: %w", err)
		}
		s.cache.resetFed(fed)
	}

	s.metrics.AddLogPurgedRecords(removed)
	s.metrics.SetLogFederatedSize(s.cache.fedSize())
	return removed, nil
}

// RunPurgeLoop purges the log on a fixed interval until ctx is canceled.
func (s *Store) RunPurgeLoop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("logstore: purge interval must be positive, got %s", interval)
	}

	ticker := s.newTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			removed, err := s.Purge(ctx)
			if err != nil {
				s.logger.Error("log purge failed", "error", err)
				continue
			}
			if removed > 0 {
				s.logger.Debug("log purged", "records", removed)
			}
		}
	}
}
