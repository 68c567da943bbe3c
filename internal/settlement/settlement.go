// Package settlement provides implementations of the domain.Settlement
// collaborator. Settlement is strictly fire-and-forget: the ledger issues a
// call and never observes its outcome, so every implementation here returns
// a handle immediately and does any I/O off the calling goroutine.
package settlement

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// dispatchTimeout bounds the background delivery attempt for one request.
const dispatchTimeout = 5 * time.Second

// Bus dispatches settlement requests onto a durable SignalBus stream where
// an external settlement worker picks them up. Delivery failures are logged
// and dropped; there is no retry and no result channel back into the ledger.
type Bus struct {
	bus    domain.SignalBus
	stream string
	logger *slog.Logger
}

// NewBus creates a Bus that appends settlement requests to the given stream.
func NewBus(bus domain.SignalBus, stream string, logger *slog.Logger) *Bus {
	return &Bus{
		bus:    bus,
		stream: stream,
		logger: logger.With(slog.String("component", "settlement")),
	}
}

// Settle marshals the request and appends it to the stream in the
// background, returning the issued handle immediately.
func (b *Bus) Settle(ctx context.Context, req domain.SettlementRequest) domain.SettlementHandle {
	handle := domain.SettlementHandle{
		ID:       uuid.NewString(),
		IssuedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(settlementMessage{
		HandleID:          handle.ID,
		SettlementRequest: req,
	})
	if err != nil {
		// Marshaling a SettlementRequest cannot realistically fail; log
		// and drop rather than surface into the ledger call.
		b.logger.ErrorContext(ctx, "marshal settlement request",
			slog.String("execution_id", req.ExecutionID),
			slog.String("error", err.Error()),
		)
		return handle
	}

	go func() {
		dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
		defer cancel()
		if err := b.bus.StreamAppend(dispatchCtx, b.stream, payload); err != nil {
			b.logger.ErrorContext(dispatchCtx, "settlement dispatch failed",
				slog.String("execution_id", req.ExecutionID),
				slog.String("handle_id", handle.ID),
				slog.String("error", err.Error()),
			)
			return
		}
		b.logger.DebugContext(dispatchCtx, "settlement dispatched",
			slog.String("execution_id", req.ExecutionID),
			slog.String("handle_id", handle.ID),
		)
	}()

	return handle
}

// settlementMessage is the stream payload: the request plus the handle id so
// the external worker can correlate.
type settlementMessage struct {
	HandleID string `json:"handle_id"`
	domain.SettlementRequest
}

// Nop is the settlement collaborator for memory mode: it issues a handle and
// logs the request without delivering it anywhere.
type Nop struct {
	logger *slog.Logger
}

// NewNop creates a Nop settlement collaborator.
func NewNop(logger *slog.Logger) *Nop {
	return &Nop{logger: logger.With(slog.String("component", "settlement"))}
}

// Settle returns a fresh handle without performing any I/O.
func (n *Nop) Settle(ctx context.Context, req domain.SettlementRequest) domain.SettlementHandle {
	handle := domain.SettlementHandle{
		ID:       uuid.NewString(),
		IssuedAt: time.Now().UTC(),
	}
	n.logger.DebugContext(ctx, "settlement skipped (nop)",
		slog.String("execution_id", req.ExecutionID),
		slog.String("handle_id", handle.ID),
	)
	return handle
}

// Compile-time interface checks.
var (
	_ domain.Settlement = (*Bus)(nil)
	_ domain.Settlement = (*Nop)(nil)
)
