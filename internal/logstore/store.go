package logstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Store is the durable ledger the replicated state machine is rebuilt from.
// A single coarse mutex guards the in-memory cache and serializes every
// mutating operation on the log; the replication wait in ExecWR runs outside
// the lock so followers can replicate further entries concurrently.
//
// The Store owns its backend connection and closes it on Close.
type Store struct {
	mu sync.Mutex

	cfg       Config
	backend   Backend
	consensus Consensus
	logger    Logger
	tracer    oteltrace.Tracer
	metrics   Metrics

	cache *indexCache

	newTicker tickerFactory
	clock     func() time.Time
}

// Open bootstraps the schema, installs the index-0 sentinel on first launch,
// and rebuilds the in-memory cache from the backend.
//
// consensus may be nil: the store then rejects non-solo writes with
// ErrNotLeader, which matches a node that has not joined a cluster yet.
func Open(
	ctx context.Context,
	cfg Config,
	backend Backend,
	consensus Consensus,
	logger Logger,
	tracer oteltrace.Tracer,
	metrics Metrics,
) (*Store, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("logstore")
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	s := &Store{
		cfg:       cfg,
		backend:   backend,
		consensus: consensus,
		logger:    logger,
		tracer:    tracer,
		metrics:   metrics,
		cache:     newIndexCache(),
		newTicker: defaultTickerFactory,
		clock:     time.Now,
	}

	if err := backend.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("bootstrap log schema: %w", err)
	}
	if err := s.ensureSentinel(ctx); err != nil {
		return nil, err
	}
	if err := s.setupIndex(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the backend connection owned by the store.
func (s *Store) Close() error {
	return s.backend.Close()
}

// ensureSentinel installs the index-0 record on first launch. The sentinel
// anchors Get(0) and makes predecessor lookups uniform.
func (s *Store) ensureSentinel(ctx context.Context) error {
	_, err := s.backend.SelectRow(ctx, 0)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("read sentinel record: %w", err)
	}

	now := s.clock().Unix()
	payload := []byte(strconv.FormatInt(now, 10))
	if _, err := s.insert(ctx, 0, 0, payload, now, NoFedIndex); err != nil {
		return fmt.Errorf("install sentinel record: %w", err)
	}
	s.logger.Info("installed log sentinel record")
	return nil
}

// setupIndex rebuilds the in-memory cache from the backend.
func (s *Store) setupIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastIndex, err := s.backend.MaxIndex(ctx)
	if err != nil {
		return fmt.Errorf("scan last log index: %w", err)
	}
	lastApplied, err := s.backend.MaxAppliedIndex(ctx)
	if err != nil {
		return fmt.Errorf("scan last applied index: %w", err)
	}
	tail, _, _, err := s.getRecord(ctx, lastIndex)
	if err != nil {
		return fmt.Errorf("read log tail: %w", err)
	}

	fed, err := s.backend.FedIndices(ctx)
	if err != nil {
		return fmt.Errorf("scan federated indices: %w", err)
	}

	s.cache.lastIndex = lastIndex
	s.cache.nextIndex = lastIndex + 1
	s.cache.lastApplied = lastApplied
	s.cache.lastTerm = tail.Term
	s.cache.resetFed(fed)

	s.metrics.SetLogLastIndex(lastIndex)
	s.metrics.SetLogLastApplied(lastApplied)
	s.metrics.SetLogFederatedSize(s.cache.fedSize())

	s.logger.Info("log index rebuilt",
		"last_index", lastIndex,
		"last_applied", lastApplied,
		"last_term", tail.Term,
		"federated_records", s.cache.fedSize(),
	)
	return nil
}

// insert writes one raw row, compressing the payload first. A duplicate
// submission with the same term, federated index and payload (the timestamp
// is not compared) is reduced to success: the leader
// retries inserts after client-visible timeouts.
func (s *Store) insert(ctx context.Context, index, term int64, payload []byte, timestamp, fedIndex int64) (AppendOutcome, error) {
	compressed, err := compressPayload(payload)
	if err != nil {
		return AppendOK, fmt.Errorf("log record %d: %w", index, err)
	}

	row := Row{
		Index:     index,
		Term:      term,
		Payload:   compressed,
		Timestamp: timestamp,
		FedIndex:  fedIndex,
	}
	err = s.backend.InsertRow(ctx, row)
	if err == nil {
		return AppendOK, nil
	}
	if !errors.Is(err, ErrDuplicateKey) {
		s.metrics.IncLogBackendError("insert")
		return AppendOK, fmt.Errorf("insert log record %d: %w", index, err)
	}

	existing, _, _, err := s.getRecord(ctx, index)
	if err != nil {
		return AppendOK, fmt.Errorf("re-read log record %d after conflict: %w", index, err)
	}
	if existing.Term == term && existing.FedIndex == fedIndex && bytes.Equal(existing.Payload, payload) {
		s.logger.Warn("duplicated log record", "index", index, "term", term)
		return AppendDuplicateIgnored, nil
	}
	return AppendOK, fmt.Errorf("%w: index %d", ErrConflict, index)
}

// getRecord reads and decodes one record plus its predecessor's term. It
// touches only the backend, never the cache, so no lock is required.
func (s *Store) getRecord(ctx context.Context, index int64) (Entry, int64, int64, error) {
	row, err := s.backend.SelectRow(ctx, index)
	if err != nil {
		return Entry{}, 0, 0, fmt.Errorf("log record %d: %w", index, err)
	}

	payload, err := decompressPayload(row.Payload)
	if err != nil {
		derr := &DecodeError{Index: row.Index, FedIndex: row.FedIndex, Err: err}
		s.logger.Error("cannot decode log record",
			"index", row.Index,
			"fed_index", row.FedIndex,
			"error", err,
		)
		return Entry{}, 0, 0, derr
	}

	entry := Entry{
		Index:     row.Index,
		Term:      row.Term,
		Payload:   payload,
		Timestamp: row.Timestamp,
		FedIndex:  row.FedIndex,
	}

	// The sentinel is its own predecessor.
	if index == 0 {
		return entry, 0, entry.Term, nil
	}

	prev, err := s.backend.SelectRow(ctx, index-1)
	if err != nil {
		return Entry{}, 0, 0, fmt.Errorf("predecessor of log record %d: %w", index, err)
	}
	return entry, prev.Index, prev.Term, nil
}

// Get returns the record at index together with its predecessor's index and
// term, the shape the consensus module needs to build AppendEntries
// consistency checks. For index 0 the predecessor is the record itself.
func (s *Store) Get(ctx context.Context, index int64) (Entry, int64, int64, error) {
	ctx, span := s.startSpan(ctx, "logstore.Get", attribute.Int64("logdb.index", index))
	defer span.End()

	entry, prevIndex, prevTerm, err := s.getRecord(ctx, index)
	spanRecordError(span, err)
	return entry, prevIndex, prevTerm, err
}

// Append stores an entry at an explicit index. It is the follower-side entry
// point: the consensus module calls it when installing entries received via
// AppendEntries, which may retransmit indices the store already holds, so the
// cache only advances when index moves past the current tail.
func (s *Store) Append(ctx context.Context, index, term int64, payload []byte, timestamp, fedIndex int64) (AppendOutcome, error) {
	ctx, span := s.startSpan(ctx, "logstore.Append",
		attribute.Int64("logdb.index", index),
		attribute.Int64("logdb.term", term),
		attribute.Int64("logdb.fed_index", fedIndex),
	)
	defer span.End()
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.insert(ctx, index, term, payload, timestamp, fedIndex)
	if err != nil {
		spanRecordError(span, err)
		return outcome, err
	}

	if index > s.cache.lastIndex {
		s.cache.lastIndex = index
		s.cache.lastTerm = term
		s.cache.nextIndex = index + 1
	}
	s.cache.insertFed(fedIndex)

	s.metrics.ObserveLogAppendDuration(time.Since(start))
	s.metrics.SetLogLastIndex(s.cache.lastIndex)
	s.metrics.SetLogFederatedSize(s.cache.fedSize())
	return outcome, nil
}

// appendNextLocked allocates the next log index and stores an entry there.
// A fedIndex of 0 requests "assign fed_index := log_index". Caller must hold
// s.mu.
func (s *Store) appendNextLocked(ctx context.Context, term int64, payload []byte, timestamp, fedIndex int64) (int64, error) {
	index := s.cache.nextIndex

	fed := fedIndex
	if fedIndex == 0 {
		fed = index
	}

	if _, err := s.insert(ctx, index, term, payload, timestamp, fed); err != nil {
		return 0, err
	}

	s.cache.lastIndex = index
	s.cache.lastTerm = term
	s.cache.nextIndex++
	s.cache.insertFed(fed)

	s.metrics.SetLogLastIndex(index)
	s.metrics.SetLogFederatedSize(s.cache.fedSize())
	return index, nil
}

// TruncateFrom atomically deletes every record with index >= startIndex and
// rewinds the cache to the new tail. The consensus module calls it when a
// follower's tail disagrees with the leader. The sentinel and the reserved
// slot are never truncated.
func (s *Store) TruncateFrom(ctx context.Context, startIndex int64) error {
	ctx, span := s.startSpan(ctx, "logstore.TruncateFrom", attribute.Int64("logdb.from_index", startIndex))
	defer span.End()

	if startIndex < 1 {
		err := fmt.Errorf("logstore: cannot truncate from index %d", startIndex)
		spanRecordError(span, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.DeleteFrom(ctx, startIndex); err != nil {
		s.metrics.IncLogBackendError("truncate")
		spanRecordError(span, err)
		return fmt.Errorf("truncate log from %d: %w", startIndex, err)
	}

	s.cache.nextIndex = startIndex
	s.cache.lastIndex = startIndex - 1
	if s.cache.lastApplied > s.cache.lastIndex {
		s.cache.lastApplied = s.cache.lastIndex
	}

	tail, _, _, err := s.getRecord(ctx, s.cache.lastIndex)
	if err != nil {
		spanRecordError(span, err)
		return fmt.Errorf("read log tail after truncation: %w", err)
	}
	s.cache.lastTerm = tail.Term

	fed, err := s.backend.FedIndices(ctx)
	if err != nil {
		spanRecordError(span, err)
		return fmt.Errorf("rescan federated indices after truncation: %w", err)
	}
	s.cache.resetFed(fed)

	s.metrics.SetLogLastIndex(s.cache.lastIndex)
	s.metrics.SetLogLastApplied(s.cache.lastApplied)
	s.metrics.SetLogFederatedSize(s.cache.fedSize())

	s.logger.Info("log truncated",
		"from_index", startIndex,
		"last_index", s.cache.lastIndex,
		"last_term", s.cache.lastTerm,
	)
	return nil
}

// ScanFedIndices reads all live federated indices from the backend in
// ascending order.
func (s *Store) ScanFedIndices(ctx context.Context) ([]int64, error) {
	ctx, span := s.startSpan(ctx, "logstore.ScanFedIndices")
	defer span.End()

	fed, err := s.backend.FedIndices(ctx)
	spanRecordError(span, err)
	return fed, err
}

// GetLastRecordIndex returns the index and term of the log tail, the pair
// heartbeats advertise to followers.
func (s *Store) GetLastRecordIndex() (int64, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.lastIndex, s.cache.lastTerm
}

// LastApplied returns the highest log index applied to the state machine.
func (s *Store) LastApplied() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.lastApplied
}
