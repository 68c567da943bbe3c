package domain

import "context"

// SignalBus is a publish/subscribe and stream-append message bus. The redis
// package provides the production implementation; the settlement dispatcher
// and websocket hub both ride on it.
type SignalBus interface {
	// Publish sends an ephemeral payload to a pub/sub channel.
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of payloads published to the given
	// pub/sub channel. The returned channel closes when ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	// StreamAppend appends a payload to a durable, ordered stream.
	StreamAppend(ctx context.Context, stream string, payload []byte) error
}

// Journal is a durable, append-only mirror of committed ledger events, used
// for audit and offline reporting. The in-memory ledger remains the
// authoritative state; journal failures are logged, never surfaced to the
// triggering call.
type Journal interface {
	RecordIntent(ctx context.Context, intent Intent) error
	RecordExecution(ctx context.Context, exec Execution) error
	RecordSignature(ctx context.Context, executionID string, rec SignatureRecord) error
	// ExecutionsSince returns journaled executions with Timestamp > after,
	// in timestamp order, for archival.
	ExecutionsSince(ctx context.Context, after uint64) ([]Execution, error)
}

// BlobWriter stores an opaque object at a path in blob storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
}
