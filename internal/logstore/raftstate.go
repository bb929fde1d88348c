package logstore

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// ReadRaftBlob returns the consensus persistent state stored in the reserved
// slot at log_index = -1. It returns ErrNotFound when the slot is absent or
// empty.
func (s *Store) ReadRaftBlob(ctx context.Context) ([]byte, error) {
	ctx, span := s.startSpan(ctx, "logstore.ReadRaftBlob")
	defer span.End()

	blob, err := s.backend.ReservedPayload(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		spanRecordError(span, err)
		return nil, fmt.Errorf("read raft state: %w", err)
	}
	if len(blob) == 0 {
		return nil, ErrNotFound
	}
	span.SetAttributes(attribute.Int("logdb.raft_state.bytes", len(blob)))
	return blob, nil
}

// WriteRaftBlob stores the consensus persistent state in the reserved slot.
// The blob is written as-is: no compression, no replication, no log-index
// bookkeeping.
func (s *Store) WriteRaftBlob(ctx context.Context, blob []byte) error {
	ctx, span := s.startSpan(ctx, "logstore.WriteRaftBlob",
		attribute.Int("logdb.raft_state.bytes", len(blob)),
	)
	defer span.End()

	if err := s.backend.UpsertReservedPayload(ctx, blob); err != nil {
		s.metrics.IncLogBackendError("raft_state")
		spanRecordError(span, err)
		return fmt.Errorf("write raft state: %w", err)
	}
	return nil
}
