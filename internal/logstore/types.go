// Package logstore implements the durable, append-mostly log that backs a
// replicated configuration database: every mutating state-machine command
// is serialized as a numbered, termed, compressed log entry, replicated to
// a quorum by an externally owned consensus module, and then applied to a
// SQL backend. It also maintains a sparse federated index consumed by a
// separate, cross-cluster replication layer.
package logstore

import "fmt"

// ReservedIndex is the log_index of the slot that stores the consensus
// persistent state blob (C9). It never appears in the log proper.
const ReservedIndex int64 = -1

// NoFedIndex marks an entry as not participating in federated replication.
const NoFedIndex int64 = -1

// Entry is a single, immutable row in the log.
type Entry struct {
	Index     int64
	Term      int64
	Payload   []byte
	Timestamp int64
	FedIndex  int64
}

// Applied reports whether the entry has been executed against the state
// machine (timestamp > 0).
func (e Entry) Applied() bool { return e.Timestamp > 0 }

// Federated reports whether the entry participates in cross-cluster
// replication.
func (e Entry) Federated() bool { return e.FedIndex != NoFedIndex }

func (e Entry) String() string {
	return fmt.Sprintf("Entry{index=%d term=%d fed=%d applied=%t}", e.Index, e.Term, e.FedIndex, e.Applied())
}

// AppendOutcome distinguishes a fresh append from an idempotent retry of an
// already-stored index.
type AppendOutcome int

const (
	// AppendOK means the entry was newly written.
	AppendOK AppendOutcome = iota
	// AppendDuplicateIgnored means the backend reported a conflict on
	// log_index but the existing row matched the requested one, so the
	// call is treated as a successful no-op (leader retry after a
	// client-visible timeout).
	AppendDuplicateIgnored
)

// Result is returned by ExecWR and FederatedStore.ExecWR.
type Result struct {
	// Index is the log_index assigned to the write, or 0 for solo writes
	// with federation disabled (no log entry was created).
	Index int64
}
