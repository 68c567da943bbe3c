package ledger

import (
	"fmt"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// ExecutionLedger owns execution records. It is append-only: records are
// written exactly once per successful execution and never mutated.
type ExecutionLedger struct {
	executions map[string]domain.Execution
	byUser     *UserIndex
}

// NewExecutionLedger returns an empty ledger.
func NewExecutionLedger() *ExecutionLedger {
	return &ExecutionLedger{
		executions: make(map[string]domain.Execution),
		byUser:     NewUserIndex(),
	}
}

// Append stores an execution record and indexes it under its owner.
func (l *ExecutionLedger) Append(exec domain.Execution) {
	l.executions[exec.ID] = exec
	l.byUser.Append(exec.Owner, exec.ID)
}

// Get returns the execution with the given id.
func (l *ExecutionLedger) Get(id string) (domain.Execution, error) {
	exec, ok := l.executions[id]
	if !ok {
		return domain.Execution{}, fmt.Errorf("execution %s: %w", id, domain.ErrNotFound)
	}
	return exec, nil
}

// ListByOwner returns the owner's executions in creation order.
func (l *ExecutionLedger) ListByOwner(account string) []domain.Execution {
	ids := l.byUser.List(account)
	out := make([]domain.Execution, 0, len(ids))
	for _, id := range ids {
		if exec, ok := l.executions[id]; ok {
			out = append(out, exec)
		}
	}
	return out
}
