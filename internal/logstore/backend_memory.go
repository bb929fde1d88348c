package logstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryBackend keeps the log table in memory for tests/dev usage. Executed
// state-machine commands are journaled instead of interpreted.
type MemoryBackend struct {
	mu       sync.Mutex
	rows     map[int64]Row
	reserved []byte
	commands [][]byte
}

// NewMemoryBackend returns an empty in-memory Backend implementation.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{rows: make(map[int64]Row)}
}

// InitSchema is a no-op; the in-memory table needs no bootstrap.
func (b *MemoryBackend) InitSchema(context.Context) error { return nil }

// InsertRow stores a copy of the row, rejecting duplicate indices.
func (b *MemoryBackend) InsertRow(_ context.Context, row Row) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.rows[row.Index]; ok {
		return ErrDuplicateKey
	}
	row.Payload = append([]byte(nil), row.Payload...)
	b.rows[row.Index] = row
	return nil
}

// SelectRow returns a copy of the row at the given index.
func (b *MemoryBackend) SelectRow(_ context.Context, index int64) (Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	row, ok := b.rows[index]
	if !ok {
		return Row{}, ErrNotFound
	}
	row.Payload = append([]byte(nil), row.Payload...)
	return row, nil
}

// MaxIndex returns the highest stored log index.
func (b *MemoryBackend) MaxIndex(context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	max, found := int64(0), false
	for idx := range b.rows {
		if !found || idx > max {
			max, found = idx, true
		}
	}
	if !found {
		return 0, ErrNotFound
	}
	return max, nil
}

// MaxAppliedIndex returns the highest stored log index with a non-zero timestamp.
func (b *MemoryBackend) MaxAppliedIndex(context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	max, found := int64(0), false
	for idx, row := range b.rows {
		if row.Timestamp == 0 {
			continue
		}
		if !found || idx > max {
			max, found = idx, true
		}
	}
	if !found {
		return 0, ErrNotFound
	}
	return max, nil
}

// FedIndices returns the stored federated indices in ascending order.
func (b *MemoryBackend) FedIndices(context.Context) ([]int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int64, 0, len(b.rows))
	for _, row := range b.rows {
		if row.FedIndex != NoFedIndex {
			out = append(out, row.FedIndex)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// DeleteFrom removes every row with index >= startIndex.
func (b *MemoryBackend) DeleteFrom(_ context.Context, startIndex int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for idx := range b.rows {
		if idx >= startIndex {
			delete(b.rows, idx)
		}
	}
	return nil
}

// DeleteAppliedBefore removes applied rows below beforeIndex.
func (b *MemoryBackend) DeleteAppliedBefore(_ context.Context, beforeIndex int64) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var removed int64
	for idx, row := range b.rows {
		if row.Timestamp > 0 && idx >= 0 && idx < beforeIndex {
			delete(b.rows, idx)
			removed++
		}
	}
	return removed, nil
}

// StampApplied sets the timestamp of an unapplied row.
func (b *MemoryBackend) StampApplied(_ context.Context, index, timestamp int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	row, ok := b.rows[index]
	if !ok || row.Timestamp != 0 {
		return nil
	}
	row.Timestamp = timestamp
	b.rows[index] = row
	return nil
}

// ReservedPayload returns the consensus state blob.
func (b *MemoryBackend) ReservedPayload(context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reserved == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b.reserved...), nil
}

// UpsertReservedPayload stores the consensus state blob.
func (b *MemoryBackend) UpsertReservedPayload(_ context.Context, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reserved = append([]byte(nil), payload...)
	return nil
}

// ExecCommand journals the command instead of interpreting it.
func (b *MemoryBackend) ExecCommand(_ context.Context, cmd []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commands = append(b.commands, append([]byte(nil), cmd...))
	return nil
}

// Commands returns a copy of the executed-command journal.
func (b *MemoryBackend) Commands() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]byte, len(b.commands))
	for i, c := range b.commands {
		out[i] = append([]byte(nil), c...)
	}
	return out
}

// Close releases nothing; it exists to satisfy Backend.
func (b *MemoryBackend) Close() error { return nil }
