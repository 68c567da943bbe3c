// Package domain defines the core types, errors, and collaborator interfaces
// for the arbitrage intent ledger. It has no dependencies on transport,
// storage, or messaging packages; those implement the interfaces declared here.
package domain

// IntentStatus is the lifecycle state of an arbitrage intent.
type IntentStatus string

const (
	IntentActive   IntentStatus = "active"
	IntentPaused   IntentStatus = "paused"
	IntentExecuted IntentStatus = "executed"
)

// Intent is a standing, owner-scoped declaration of willingness to execute an
// arbitrage action once the price discrepancy between two markets exceeds a
// threshold. Every field except Status is immutable after creation.
type Intent struct {
	ID                 string       `json:"id"`
	Owner              string       `json:"owner"`
	TokenPair          string       `json:"token_pair"`
	MinProfitThreshold float64      `json:"min_profit_threshold"`
	Status             IntentStatus `json:"status"`
	CreatedAt          uint64       `json:"created_at"`
}
