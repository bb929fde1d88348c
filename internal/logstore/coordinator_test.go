package logstore

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
)

func TestExecWR_SoloExecutesDirectly(t *testing.T) {
	s, backend := newSoloStore(t, false)
	cmd := []byte("UPDATE pool SET x = 1")

	res, err := s.ExecWR(context.Background(), cmd, NoFedIndex)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if res.Index != 0 {
		t.Fatalf("expected no log index, got %d", res.Index)
	}

	commands := backend.Commands()
	if len(commands) != 1 || !bytes.Equal(commands[0], cmd) {
		t.Fatalf("expected command executed once, got %d", len(commands))
	}
	if _, _, _, err := s.Get(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no log entry with federation disabled, got %v", err)
	}
}

func TestExecWR_SoloFederationJournalsWrite(t *testing.T) {
	s, backend := newSoloStore(t, true)
	cmd := []byte("UPDATE pool SET x = 2")

	res, err := s.ExecWR(context.Background(), cmd, 0)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if res.Index != 1 {
		t.Fatalf("expected log index 1, got %d", res.Index)
	}

	entry, _, _, err := s.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get journaled entry: %v", err)
	}
	if entry.FedIndex != 1 {
		t.Fatalf("expected fed_index assigned from log index, got %d", entry.FedIndex)
	}
	if !entry.Applied() {
		t.Fatalf("expected solo federated entry stamped at insert")
	}
	if entry.Term != 0 {
		t.Fatalf("expected term 0 in solo mode, got %d", entry.Term)
	}
	if got := s.LastFederated(); got != 1 {
		t.Fatalf("expected last federated=1, got %d", got)
	}
	if commands := backend.Commands(); len(commands) != 1 {
		t.Fatalf("expected command executed once, got %d", len(commands))
	}
}

func TestExecWR_FollowerRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	consensus := NewMockConsensus(ctrl)
	consensus.EXPECT().IsLeader().Return(false)

	s, _ := newTestStore(t, Config{LogRetention: 10}, consensus)

	_, err := s.ExecWR(context.Background(), []byte("cmd"), NoFedIndex)
	if !errors.Is(err, ErrNotLeader) {
		t.Fatalf("expected ErrNotLeader, got %v", err)
	}
}

func TestExecWR_NilConsensusRejected(t *testing.T) {
	s, _ := newTestStore(t, Config{LogRetention: 10}, nil)

	_, err := s.ExecWR(context.Background(), []byte("cmd"), NoFedIndex)
	if !errors.Is(err, ErrNotLeader) {
		t.Fatalf("expected ErrNotLeader, got %v", err)
	}
}

func TestExecWR_LeaderReplicatesAndApplies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	consensus := NewMockConsensus(ctrl)
	consensus.EXPECT().IsLeader().Return(true).Times(2)
	consensus.EXPECT().CurrentTerm().Return(int64(5))
	consensus.EXPECT().Replicate(gomock.Any()).Do(func(req *ReplicaRequest) {
		go func() {
			time.Sleep(50 * time.Millisecond)
			req.Complete(true, "")
		}()
	})

	s, backend := newTestStore(t, Config{LogRetention: 10}, consensus)
	cmd := []byte("UPDATE pool SET x = 3")

	res, err := s.ExecWR(context.Background(), cmd, NoFedIndex)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if res.Index != 1 {
		t.Fatalf("expected log index 1, got %d", res.Index)
	}

	entry, _, _, err := s.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if entry.Term != 5 {
		t.Fatalf("expected term 5, got %d", entry.Term)
	}
	if !entry.Applied() {
		t.Fatalf("expected entry stamped after apply")
	}
	if got := s.LastApplied(); got != 1 {
		t.Fatalf("expected last_applied=1, got %d", got)
	}
	if commands := backend.Commands(); len(commands) != 1 || !bytes.Equal(commands[0], cmd) {
		t.Fatalf("expected command executed once, got %d", len(commands))
	}
}

func TestExecWR_ReplicationFailureKeepsEntryUnapplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	consensus := NewMockConsensus(ctrl)
	consensus.EXPECT().IsLeader().Return(true).Times(2)
	consensus.EXPECT().CurrentTerm().Return(int64(5))
	consensus.EXPECT().Replicate(gomock.Any()).Do(func(req *ReplicaRequest) {
		req.Complete(false, "no quorum")
	})

	s, backend := newTestStore(t, Config{LogRetention: 10}, consensus)

	_, err := s.ExecWR(context.Background(), []byte("cmd"), NoFedIndex)
	if !errors.Is(err, ErrReplicationFailed) {
		t.Fatalf("expected ErrReplicationFailed, got %v", err)
	}

	entry, _, _, err := s.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected entry to remain in log: %v", err)
	}
	if entry.Applied() {
		t.Fatalf("expected entry to stay unapplied")
	}
	if got := s.LastApplied(); got != 0 {
		t.Fatalf("expected last_applied unchanged, got %d", got)
	}
	if commands := backend.Commands(); len(commands) != 0 {
		t.Fatalf("expected no command executed, got %d", len(commands))
	}
}

func TestExecWR_LostLeadershipSkipsApply(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	consensus := NewMockConsensus(ctrl)
	gomock.InOrder(
		consensus.EXPECT().IsLeader().Return(true),
		consensus.EXPECT().IsLeader().Return(false),
	)
	consensus.EXPECT().CurrentTerm().Return(int64(5))
	consensus.EXPECT().Replicate(gomock.Any()).Do(func(req *ReplicaRequest) {
		req.Complete(true, "")
	})

	s, _ := newTestStore(t, Config{LogRetention: 10}, consensus)

	_, err := s.ExecWR(context.Background(), []byte("cmd"), NoFedIndex)
	if !errors.Is(err, ErrLostLeadership) {
		t.Fatalf("expected ErrLostLeadership, got %v", err)
	}

	// The entry stays in the local log for a future leader to confirm or a
	// conflicting AppendEntries to truncate.
	entry, _, _, err := s.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected entry to remain in log: %v", err)
	}
	if entry.Applied() {
		t.Fatalf("expected entry to stay unapplied")
	}
}

func TestExecWR_WaitCanceledByContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	consensus := NewMockConsensus(ctrl)
	consensus.EXPECT().IsLeader().Return(true)
	consensus.EXPECT().CurrentTerm().Return(int64(5))
	consensus.EXPECT().Replicate(gomock.Any())

	s, _ := newTestStore(t, Config{LogRetention: 10}, consensus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ExecWR(ctx, []byte("cmd"), NoFedIndex)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
