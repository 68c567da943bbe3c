package domain

import (
	"context"
	"time"
)

// SettlementRequest carries everything the external settlement collaborator
// needs to move value for a recorded execution.
type SettlementRequest struct {
	ExecutionID string  `json:"execution_id"`
	IntentID    string  `json:"intent_id"`
	Owner       string  `json:"owner"`
	TokenPair   string  `json:"token_pair"`
	Profit      float64 `json:"profit"`
	TxHash      string  `json:"tx_hash"`
	Timestamp   uint64  `json:"timestamp"`
}

// SettlementHandle identifies an issued settlement call. The ledger observes
// only that the call was issued; its eventual outcome is never awaited.
type SettlementHandle struct {
	ID       string    `json:"id"`
	IssuedAt time.Time `json:"issued_at"`
}

// Settlement is the external system that actually moves value or confirms a
// trade. Settle must be non-blocking from the caller's perspective: it issues
// the call and returns a handle without waiting for delivery or outcome.
type Settlement interface {
	Settle(ctx context.Context, req SettlementRequest) SettlementHandle
}
