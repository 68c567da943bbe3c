package engine

import (
	"math/big"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// View accessors. All are pure reads with no side effects; they take the
// engine lock only to get a consistent snapshot.

// UserIntents returns account's intents in creation order.
func (e *Engine) UserIntents(account string) []domain.Intent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.intents.ListByOwner(account)
}

// ExecutionHistory returns account's executions in creation order.
func (e *Engine) ExecutionHistory(account string) []domain.Execution {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.executions.ListByOwner(account)
}

// TotalProfit returns account's accumulated profit in minor units, zero if
// the account has never executed.
func (e *Engine) TotalProfit(account string) *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profits.Total(account)
}

// Intent returns the intent with the given id.
func (e *Engine) Intent(id string) (domain.Intent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.intents.Get(id)
}

// Execution returns the execution with the given id.
func (e *Engine) Execution(id string) (domain.Execution, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.executions.Get(id)
}

// Signature returns the stored cross-chain signature record for an
// execution id, if any.
func (e *Engine) Signature(executionID string) (domain.SignatureRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.signatures.Get(executionID)
}

// Info returns the ledger's identity and issuance totals.
func (e *Engine) Info() domain.ContractInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.ContractInfo{
		Name:            e.cfg.Name,
		Version:         e.cfg.Version,
		Owner:           e.cfg.Owner,
		TotalIntents:    e.intentIDs.Issued(),
		TotalExecutions: e.executionIDs.Issued(),
	}
}
