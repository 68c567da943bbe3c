package ledger

import (
	"fmt"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// IntentRegistry owns intent records and their lifecycle. Mutations are
// ownership-checked; records are never deleted.
type IntentRegistry struct {
	intents map[string]*domain.Intent
	byUser  *UserIndex
}

// NewIntentRegistry returns an empty registry.
func NewIntentRegistry() *IntentRegistry {
	return &IntentRegistry{
		intents: make(map[string]*domain.Intent),
		byUser:  NewUserIndex(),
	}
}

// Insert stores a freshly created intent and appends its id to the owner's
// index. The caller is responsible for id allocation and field validation.
func (r *IntentRegistry) Insert(intent domain.Intent) {
	stored := intent
	r.intents[intent.ID] = &stored
	r.byUser.Append(intent.Owner, intent.ID)
}

// Get returns a copy of the intent with the given id.
func (r *IntentRegistry) Get(id string) (domain.Intent, error) {
	intent, ok := r.intents[id]
	if !ok {
		return domain.Intent{}, fmt.Errorf("intent %s: %w", id, domain.ErrNotFound)
	}
	return *intent, nil
}

// Pause sets the intent's status to paused. Only the owner may pause. The
// current status is deliberately not checked, mirroring the on-chain
// contract's permissiveness (an executed intent can be marked paused).
func (r *IntentRegistry) Pause(id, caller string) error {
	return r.setStatus(id, caller, domain.IntentPaused)
}

// Resume sets the intent's status to active. Only the owner may resume. Like
// Pause, the current status is not checked.
func (r *IntentRegistry) Resume(id, caller string) error {
	return r.setStatus(id, caller, domain.IntentActive)
}

// MarkExecuted transitions the intent to its terminal executed status. The
// engine calls this only from the execution path, after all preconditions
// have been checked.
func (r *IntentRegistry) MarkExecuted(id string) error {
	intent, ok := r.intents[id]
	if !ok {
		return fmt.Errorf("intent %s: %w", id, domain.ErrNotFound)
	}
	intent.Status = domain.IntentExecuted
	return nil
}

func (r *IntentRegistry) setStatus(id, caller string, status domain.IntentStatus) error {
	intent, ok := r.intents[id]
	if !ok {
		return fmt.Errorf("intent %s: %w", id, domain.ErrNotFound)
	}
	if intent.Owner != caller {
		return fmt.Errorf("intent %s is not owned by %s: %w", id, caller, domain.ErrUnauthorized)
	}
	intent.Status = status
	return nil
}

// ListByOwner returns copies of the owner's intents in creation order.
func (r *IntentRegistry) ListByOwner(account string) []domain.Intent {
	ids := r.byUser.List(account)
	out := make([]domain.Intent, 0, len(ids))
	for _, id := range ids {
		if intent, ok := r.intents[id]; ok {
			out = append(out, *intent)
		}
	}
	return out
}
