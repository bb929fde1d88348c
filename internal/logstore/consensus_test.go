package logstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReplicaRequest_WaitReturnsAfterComplete(t *testing.T) {
	req := NewReplicaRequest(7)

	go func() {
		time.Sleep(10 * time.Millisecond)
		req.Complete(true, "")
	}()

	if err := req.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	ok, msg := req.Result()
	if !ok || msg != "" {
		t.Fatalf("expected success result, got (%t, %q)", ok, msg)
	}
	if req.Index() != 7 {
		t.Fatalf("expected index 7, got %d", req.Index())
	}
}

func TestReplicaRequest_FirstCompletionWins(t *testing.T) {
	req := NewReplicaRequest(1)

	req.Complete(false, "no quorum")
	req.Complete(true, "")

	if err := req.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	ok, msg := req.Result()
	if ok || msg != "no quorum" {
		t.Fatalf("expected first completion kept, got (%t, %q)", ok, msg)
	}
}

func TestReplicaRequest_WaitHonorsContext(t *testing.T) {
	req := NewReplicaRequest(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := req.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// A late completion must still be safe after the waiter has given up.
	req.Complete(true, "")
}
