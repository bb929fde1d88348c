package logstore

import "context"

// Row is the raw on-disk shape of a log record. Payload holds the compressed
// bytes exactly as stored in the sqlcmd column.
type Row struct {
	Index     int64
	Term      int64
	Payload   []byte
	Timestamp int64
	FedIndex  int64
}

// Backend is the transactional store under the log: the log table itself and
// the relational state machine that payloads execute against share one
// database. Implementations must serialize concurrent writes from this
// process; the store additionally holds its own mutex around multi-statement
// operations such as truncation and apply.
//
// Absent rows are reported as ErrNotFound, primary-key collisions on insert
// as ErrDuplicateKey (both may be wrapped).
type Backend interface {
	// InitSchema creates the log table and its secondary indices on
	// fed_index and timestamp. It runs locally, outside replication.
	InitSchema(ctx context.Context) error

	InsertRow(ctx context.Context, row Row) error
	SelectRow(ctx context.Context, index int64) (Row, error)

	// MaxIndex returns the highest log_index present in the log proper.
	MaxIndex(ctx context.Context) (int64, error)
	// MaxAppliedIndex returns the highest log_index with timestamp != 0.
	MaxAppliedIndex(ctx context.Context) (int64, error)
	// FedIndices returns all fed_index values except -1, in ascending order.
	FedIndices(ctx context.Context) ([]int64, error)

	// DeleteFrom removes every row with log_index >= startIndex.
	DeleteFrom(ctx context.Context, startIndex int64) error
	// DeleteAppliedBefore removes applied rows (timestamp > 0) with
	// 0 <= log_index < beforeIndex and reports how many were removed.
	DeleteAppliedBefore(ctx context.Context, beforeIndex int64) (int64, error)

	// StampApplied sets the timestamp of an unapplied row. Rows whose
	// timestamp is already non-zero are left untouched.
	StampApplied(ctx context.Context, index, timestamp int64) error

	// ReservedPayload and UpsertReservedPayload access the reserved slot at
	// log_index = -1 holding the consensus persistent state blob.
	ReservedPayload(ctx context.Context) ([]byte, error)
	UpsertReservedPayload(ctx context.Context, payload []byte) error

	// ExecCommand executes a state-machine command against the database.
	ExecCommand(ctx context.Context, cmd []byte) error

	Close() error
}
