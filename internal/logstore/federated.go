package logstore

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// FederatedStore is the write façade for commands that originate in the
// federation: it journals the command in the main log with an assigned
// federated index and hands it to the federated replicator for fan-out to
// peer zones.
type FederatedStore struct {
	store      *Store
	replicator FederatedReplicator
	logger     Logger
}

// NewFederatedStore wraps a Store with the cross-cluster fan-out path.
func NewFederatedStore(store *Store, replicator FederatedReplicator, logger Logger) *FederatedStore {
	return &FederatedStore{
		store:      store,
		replicator: replicator,
		logger:     logger,
	}
}

// ExecWR records a cross-cluster-originated write and requests federated
// replication. The returned result is that of the main log write; a fan-out
// failure is logged and does not fail the call.
func (f *FederatedStore) ExecWR(ctx context.Context, cmd []byte) (Result, error) {
	ctx, span := f.store.startSpan(ctx, "logstore.FederatedStore.ExecWR",
		attribute.Int("logdb.command.bytes", len(cmd)),
	)
	defer span.End()

	res, err := f.store.ExecWR(ctx, cmd, 0)
	if err != nil {
		spanRecordError(span, err)
		return res, err
	}
	span.SetAttributes(attribute.Int64("logdb.index", res.Index))

	if err := f.replicator.Replicate(ctx, cmd); err != nil {
		f.logger.Error("cannot request federated replication", "index", res.Index, "error", err)
		spanRecordError(span, err)
	}
	return res, nil
}
