package logstore

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// ExecWR is the sole mutating entry point for ordinary callers. The command
// is executed directly in solo mode, rejected on followers, and otherwise
// appended to the log, replicated to a quorum, and applied locally.
//
// fedIndex is -1 for non-federated writes, 0 to assign the allocated log
// index as the federated index, and any other non-negative value to preserve
// an upstream federated index.
func (s *Store) ExecWR(ctx context.Context, cmd []byte, fedIndex int64) (Result, error) {
	ctx, span := s.startSpan(ctx, "logstore.ExecWR",
		attribute.Int64("logdb.fed_index", fedIndex),
		attribute.Int("logdb.command.bytes", len(cmd)),
	)
	defer span.End()

	if s.cfg.Solo {
		res, err := s.execSolo(ctx, cmd, fedIndex)
		spanRecordError(span, err)
		return res, err
	}

	if s.consensus == nil || !s.consensus.IsLeader() {
		s.logger.Error("tried to modify the database being a follower")
		s.metrics.IncLogWriteResult("not_leader")
		spanRecordError(span, ErrNotLeader)
		return Result{}, ErrNotLeader
	}

	s.mu.Lock()
	index, err := s.appendNextLocked(ctx, s.consensus.CurrentTerm(), cmd, 0, fedIndex)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("cannot insert log record", "error", err)
		s.metrics.IncLogWriteResult("insert_error")
		spanRecordError(span, err)
		return Result{}, err
	}
	span.SetAttributes(attribute.Int64("logdb.index", index))

	// The entry is durable and visible to consensus; wait for a quorum
	// outside the lock so followers can keep replicating.
	req := NewReplicaRequest(index)
	s.consensus.Replicate(req)

	if err := req.Wait(ctx); err != nil {
		s.metrics.IncLogWriteResult("wait_canceled")
		spanRecordError(span, err)
		return Result{}, fmt.Errorf("wait for replication of record %d: %w", index, err)
	}
	replicated, message := req.Result()

	// Re-check leadership before applying: the entry may still commit via a
	// future leader, but this call must not apply it.
	if !s.consensus.IsLeader() {
		s.logger.Error("not applying log record, node is now a follower", "index", index)
		s.metrics.IncLogWriteResult("lost_leadership")
		spanRecordError(span, ErrLostLeadership)
		return Result{}, ErrLostLeadership
	}

	if !replicated {
		s.logger.Error("cannot replicate log record on followers",
			"index", index,
			"reason", message,
		)
		s.metrics.IncLogWriteResult("replication_failed")
		err := fmt.Errorf("%w: %s", ErrReplicationFailed, message)
		spanRecordError(span, err)
		return Result{}, err
	}

	if err := s.ApplyThrough(ctx, index); err != nil {
		s.metrics.IncLogWriteResult("apply_error")
		spanRecordError(span, err)
		return Result{}, err
	}

	s.metrics.IncLogWriteResult("ok")
	return Result{Index: index}, nil
}

// execSolo executes the command directly against the backend. When
// federation is enabled, the write is additionally journaled as a federated
// log record so the cross-cluster replicator can walk it.
func (s *Store) execSolo(ctx context.Context, cmd []byte, fedIndex int64) (Result, error) {
	if err := s.backend.ExecCommand(ctx, cmd); err != nil {
		s.metrics.IncLogBackendError("exec")
		s.metrics.IncLogWriteResult("backend_error")
		return Result{}, fmt.Errorf("execute command: %w", err)
	}

	if !s.cfg.FederationEnabled {
		s.metrics.IncLogWriteResult("ok")
		return Result{}, nil
	}

	s.mu.Lock()
	index, err := s.appendNextLocked(ctx, 0, cmd, s.clock().Unix(), fedIndex)
	// The journaled record is stamped at insert, so it extends the applied
	// prefix when it directly follows it.
	if err == nil && s.cache.lastApplied == index-1 {
		s.cache.lastApplied = index
		s.metrics.SetLogLastApplied(index)
	}
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("cannot insert federated log record", "error", err)
		s.metrics.IncLogWriteResult("insert_error")
		return Result{}, err
	}

	s.metrics.IncLogWriteResult("ok")
	return Result{Index: index}, nil
}
