// Package notify delivers operator alerts for ledger activity. Committed
// events (intent lifecycle changes, recorded arbitrage executions) are
// formatted into human-readable messages and fanned out to every configured
// channel, filtered by event type so operators only see what they asked for.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// Sender is one delivery channel (Telegram, Discord, ...).
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a short channel identifier for logging.
	Name() string
}

// Notifier formats domain events and dispatches them to all senders. It
// implements domain.EventSink, so it plugs directly into the engine's
// post-commit fan-out.
type Notifier struct {
	senders []Sender
	allowed map[domain.EventType]bool
	logger  *slog.Logger
}

var _ domain.EventSink = (*Notifier)(nil)

// New creates a Notifier delivering to senders. Only events whose type
// appears in events are forwarded; an empty list allows everything.
func New(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[domain.EventType]bool, len(events))
	for _, e := range events {
		allowed[domain.EventType(strings.TrimSpace(e))] = true
	}
	return &Notifier{
		senders: senders,
		allowed: allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// OnEvent formats the event and dispatches it. Delivery failures are logged
// and swallowed: notifications are advisory and must never feed back into
// the call that produced the event.
func (n *Notifier) OnEvent(ctx context.Context, ev domain.Event) {
	if len(n.allowed) > 0 && !n.allowed[ev.Type] {
		return
	}
	title, message := render(ev)
	if title == "" {
		return
	}
	if err := n.dispatch(ctx, title, message); err != nil {
		n.logger.ErrorContext(ctx, "notification delivery incomplete",
			slog.String("event", string(ev.Type)),
			slog.String("error", err.Error()),
		)
	}
}

// dispatch sends to every sender. One channel failing does not stop delivery
// to the rest; failures are collected into a single combined error.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// render builds the title and body for an event. Unknown event types render
// to an empty title and are skipped.
func render(ev domain.Event) (title, message string) {
	switch ev.Type {
	case domain.EventIntentCreated:
		if ev.Intent == nil {
			return "", ""
		}
		return "Intent Created",
			fmt.Sprintf("Intent %s by %s on %s (min profit %.4f%%)",
				ev.Intent.ID, ev.Intent.Owner, ev.Intent.TokenPair, ev.Intent.MinProfitThreshold)
	case domain.EventIntentPaused:
		if ev.Intent == nil {
			return "", ""
		}
		return "Intent Paused", fmt.Sprintf("Intent %s paused by %s", ev.Intent.ID, ev.Intent.Owner)
	case domain.EventIntentResumed:
		if ev.Intent == nil {
			return "", ""
		}
		return "Intent Resumed", fmt.Sprintf("Intent %s resumed by %s", ev.Intent.ID, ev.Intent.Owner)
	case domain.EventArbitrageExecuted:
		if ev.Execution == nil {
			return "", ""
		}
		return "Arbitrage Executed",
			fmt.Sprintf("Execution %s for intent %s on %s: profit %.6f (diff %.6f, tx %s)",
				ev.Execution.ID, ev.Execution.IntentID, ev.Execution.TokenPair,
				ev.Execution.Profit, ev.Execution.PriceDiff, ev.Execution.TxHash)
	case domain.EventSignatureStored:
		return "Signature Stored", fmt.Sprintf("Cross-chain signature stored for execution %s", ev.ExecutionID)
	default:
		return "", ""
	}
}
