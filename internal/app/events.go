package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// eventEnvelope is the wire form of a ledger event published to the signal
// bus and mirrored to WebSocket clients.
type eventEnvelope struct {
	Type        domain.EventType        `json:"type"`
	At          uint64                  `json:"at"`
	Intent      *domain.Intent          `json:"intent,omitempty"`
	Execution   *domain.Execution       `json:"execution,omitempty"`
	ExecutionID string                  `json:"execution_id,omitempty"`
	Signature   *domain.SignatureRecord `json:"signature,omitempty"`
}

// busEventSink publishes committed ledger events to the signal bus, one
// pub/sub channel per event family. Publish failures are logged and dropped;
// the ledger state has already committed by the time the sink runs.
type busEventSink struct {
	bus    domain.SignalBus
	logger *slog.Logger
}

var _ domain.EventSink = (*busEventSink)(nil)

func newBusEventSink(bus domain.SignalBus, logger *slog.Logger) *busEventSink {
	return &busEventSink{bus: bus, logger: logger.With(slog.String("component", "event_sink"))}
}

func (s *busEventSink) OnEvent(ctx context.Context, ev domain.Event) {
	payload, err := json.Marshal(eventEnvelope{
		Type:        ev.Type,
		At:          ev.At,
		Intent:      ev.Intent,
		Execution:   ev.Execution,
		ExecutionID: ev.ExecutionID,
		Signature:   ev.Signature,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal event", slog.String("error", err.Error()))
		return
	}

	channel := channelFor(ev.Type)
	if err := s.bus.Publish(ctx, channel, payload); err != nil {
		s.logger.WarnContext(ctx, "publish event failed",
			slog.String("channel", channel),
			slog.String("type", string(ev.Type)),
			slog.String("error", err.Error()),
		)
	}
}

// channelFor maps event types onto the bus channels the WebSocket hub
// mirrors.
func channelFor(t domain.EventType) string {
	switch t {
	case domain.EventArbitrageExecuted:
		return "events:executions"
	case domain.EventSignatureStored:
		return "events:signatures"
	default:
		return "events:intents"
	}
}

// journalEventSink mirrors committed events into the durable journal. Writes
// are best effort; the in-memory ledger stays authoritative.
type journalEventSink struct {
	journal domain.Journal
	logger  *slog.Logger
}

var _ domain.EventSink = (*journalEventSink)(nil)

func newJournalEventSink(journal domain.Journal, logger *slog.Logger) *journalEventSink {
	return &journalEventSink{journal: journal, logger: logger.With(slog.String("component", "journal_sink"))}
}

func (s *journalEventSink) OnEvent(ctx context.Context, ev domain.Event) {
	var err error
	switch ev.Type {
	case domain.EventIntentCreated, domain.EventIntentPaused, domain.EventIntentResumed:
		if ev.Intent != nil {
			err = s.journal.RecordIntent(ctx, *ev.Intent)
		}
	case domain.EventArbitrageExecuted:
		if ev.Execution != nil {
			err = s.journal.RecordExecution(ctx, *ev.Execution)
		}
		if err == nil && ev.Intent != nil {
			err = s.journal.RecordIntent(ctx, *ev.Intent)
		}
	case domain.EventSignatureStored:
		if ev.Signature != nil {
			err = s.journal.RecordSignature(ctx, ev.ExecutionID, *ev.Signature)
		}
	}
	if err != nil {
		s.logger.WarnContext(ctx, "journal write failed",
			slog.String("type", string(ev.Type)),
			slog.String("error", err.Error()),
		)
	}
}
