package domain

import "context"

// EventType classifies ledger state changes published to downstream sinks
// (journal, notifier, websocket fan-out).
type EventType string

const (
	EventIntentCreated     EventType = "intent_created"
	EventIntentPaused      EventType = "intent_paused"
	EventIntentResumed     EventType = "intent_resumed"
	EventArbitrageExecuted EventType = "arbitrage_executed"
	EventSignatureStored   EventType = "signature_stored"
)

// Event is emitted by the engine after a state change has committed. Exactly
// one of Intent / Execution / Signature is set depending on the event type;
// Execution events also carry the updated Intent (now executed).
type Event struct {
	Type        EventType
	At          uint64
	Intent      *Intent
	Execution   *Execution
	ExecutionID string
	Signature   *SignatureRecord
}

// EventSink receives committed ledger events. Sinks run after the state
// transition is visible; a failing sink never rolls the transition back.
type EventSink interface {
	OnEvent(ctx context.Context, ev Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, ev Event)

// OnEvent calls f(ctx, ev).
func (f EventSinkFunc) OnEvent(ctx context.Context, ev Event) { f(ctx, ev) }
