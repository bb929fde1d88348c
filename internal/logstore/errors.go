package logstore

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the log store. Callers match them with
// errors.Is; wrapped variants carry index and statement context.
var (
	// ErrNotLeader is returned when a write is submitted to a node that is
	// neither solo master nor cluster leader. The caller must redirect.
	ErrNotLeader = errors.New("logstore: not leader")

	// ErrLostLeadership is returned when leadership was lost while waiting
	// for replication. The entry stays in the local log and is either
	// confirmed by a later leader or truncated during conflict resolution.
	ErrLostLeadership = errors.New("logstore: leadership lost before apply")

	// ErrReplicationFailed is returned when a quorum of followers did not
	// acknowledge the entry before the consensus-side deadline.
	ErrReplicationFailed = errors.New("logstore: cannot replicate log record on followers")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("logstore: record not found")

	// ErrConflict is returned when an insert collides with an existing
	// record that differs in content, i.e. it is not an idempotent retry.
	ErrConflict = errors.New("logstore: conflicting log record")

	// ErrDuplicateKey must be returned (possibly wrapped) by Backend
	// implementations when an insert violates the log_index primary key.
	ErrDuplicateKey = errors.New("logstore: duplicate log_index")

	// ErrNilBackend is returned when Open is called with a nil Backend.
	ErrNilBackend = errors.New("logstore: nil backend")

	// ErrNilLogger is returned when Open is called with a nil logger.
	ErrNilLogger = errors.New("logstore: nil logger")
)

// DecodeError reports a stored row whose payload could not be decompressed.
// It aborts the operation that read the row; the row itself is left intact.
type DecodeError struct {
	Index    int64
	FedIndex int64
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("logstore: decode record %d (fed_index %d): %v", e.Index, e.FedIndex, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
