// Package engine implements the arbitrage intent state machine: intent
// creation, pause/resume, the execute path with profit accounting, and the
// cross-chain signature store. All state lives in memory behind a single
// mutex, so every operation is call-atomic: a rejected call leaves nothing
// behind, and a successful one becomes visible as a whole.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strconv"
	"sync"

	"github.com/Emmy123222/arbintent/internal/domain"
	"github.com/Emmy123222/arbintent/internal/ledger"
	"github.com/Emmy123222/arbintent/internal/metrics"
)

// Config holds the engine's accounting parameters and identity metadata.
type Config struct {
	// Name and Version are reported by Info.
	Name    string
	Version string
	// Owner is the operator account reported by Info.
	Owner string
	// MinorUnitDecimals is the power of ten between one whole unit of the
	// settlement currency and its minor unit (24 for a NEAR-style token).
	MinorUnitDecimals int
	// CaptureRatio is the fraction of the price difference recorded as
	// profit on execution.
	CaptureRatio float64
	// GasFee is the placeholder per-execution gas cost in whole units.
	GasFee float64
}

// Engine owns the ledger state and orchestrates all mutations. Construct it
// once per deployment with New.
type Engine struct {
	mu sync.Mutex

	cfg        Config
	scale      *big.Int
	minDeposit *big.Int

	clock      Clock
	hasher     TxHasher
	settlement domain.Settlement
	verifier   domain.SignatureVerifier
	sinks      []domain.EventSink
	logger     *slog.Logger

	intentIDs    *ledger.Counter
	executionIDs *ledger.Counter
	intents      *ledger.IntentRegistry
	executions   *ledger.ExecutionLedger
	profits      *ledger.ProfitAccumulator
	signatures   *ledger.SignatureStore
}

// Option customizes an Engine at construction time.
type Option func(*Engine)

// WithClock replaces the system logical clock (used by tests).
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithTxHasher replaces the placeholder transaction hasher.
func WithTxHasher(h TxHasher) Option {
	return func(e *Engine) { e.hasher = h }
}

// WithSettlement sets the fire-and-forget settlement collaborator.
func WithSettlement(s domain.Settlement) Option {
	return func(e *Engine) { e.settlement = s }
}

// WithVerifier replaces the placeholder signature verifier.
func WithVerifier(v domain.SignatureVerifier) Option {
	return func(e *Engine) { e.verifier = v }
}

// WithEventSink registers a sink for committed ledger events. Sinks are
// invoked in registration order, outside the engine lock.
func WithEventSink(s domain.EventSink) Option {
	return func(e *Engine) { e.sinks = append(e.sinks, s) }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l.With(slog.String("component", "engine")) }
}

// New creates an Engine with empty state. Zero config fields are defaulted:
// 24 minor-unit decimals, 0.8 capture ratio, 0.01 gas fee.
func New(cfg Config, opts ...Option) *Engine {
	if cfg.MinorUnitDecimals <= 0 {
		cfg.MinorUnitDecimals = 24
	}
	if cfg.CaptureRatio <= 0 {
		cfg.CaptureRatio = 0.8
	}
	if cfg.GasFee < 0 {
		cfg.GasFee = 0
	}
	if cfg.GasFee == 0 {
		cfg.GasFee = 0.01
	}
	if cfg.Name == "" {
		cfg.Name = "ArbitrageAI Cross-Chain Agent"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}

	scale := domain.ScaleFactor(cfg.MinorUnitDecimals)
	e := &Engine{
		cfg:   cfg,
		scale: scale,
		// Minimum deposit is one whole unit of the settlement currency.
		minDeposit:   new(big.Int).Set(scale),
		clock:        &logicalClock{},
		hasher:       randomTxHasher{},
		verifier:     domain.PresenceVerifier{},
		logger:       slog.Default().With(slog.String("component", "engine")),
		intentIDs:    ledger.NewCounter(),
		executionIDs: ledger.NewCounter(),
		intents:      ledger.NewIntentRegistry(),
		executions:   ledger.NewExecutionLedger(),
		profits:      ledger.NewProfitAccumulator(),
		signatures:   ledger.NewSignatureStore(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateIntent registers a new standing arbitrage intent for caller and
// returns its id. The attached deposit must be at least one whole unit of
// the settlement currency in minor units.
func (e *Engine) CreateIntent(ctx context.Context, caller, tokenPair, minProfitThreshold string, deposit *big.Int) (string, error) {
	if caller == "" {
		metrics.RejectedCalls.WithLabelValues("create_intent", "invalid_input").Inc()
		return "", fmt.Errorf("caller account is required: %w", domain.ErrInvalidInput)
	}
	if deposit == nil || deposit.Cmp(e.minDeposit) < 0 {
		metrics.RejectedCalls.WithLabelValues("create_intent", "insufficient_deposit").Inc()
		return "", fmt.Errorf("deposit of at least %s minor units required: %w",
			e.minDeposit.String(), domain.ErrInsufficientDeposit)
	}
	threshold, err := parseNonNegativeFloat(minProfitThreshold)
	if err != nil {
		metrics.RejectedCalls.WithLabelValues("create_intent", "invalid_input").Inc()
		return "", fmt.Errorf("min_profit_threshold: %w", err)
	}

	e.mu.Lock()
	id := e.intentIDs.Next()
	intent := domain.Intent{
		ID:                 id,
		Owner:              caller,
		TokenPair:          tokenPair,
		MinProfitThreshold: threshold,
		Status:             domain.IntentActive,
		CreatedAt:          e.clock.Now(),
	}
	e.intents.Insert(intent)
	e.mu.Unlock()

	metrics.IntentsCreated.Inc()
	e.logger.InfoContext(ctx, "intent created",
		slog.String("intent_id", id),
		slog.String("owner", caller),
		slog.String("token_pair", tokenPair),
	)
	e.emit(ctx, domain.Event{Type: domain.EventIntentCreated, At: intent.CreatedAt, Intent: &intent})
	return id, nil
}

// PauseIntent sets the intent's status to paused. Only the owner may pause.
func (e *Engine) PauseIntent(ctx context.Context, id, caller string) error {
	e.mu.Lock()
	err := e.intents.Pause(id, caller)
	var intent domain.Intent
	if err == nil {
		intent, _ = e.intents.Get(id)
	}
	e.mu.Unlock()

	if err != nil {
		metrics.RejectedCalls.WithLabelValues("pause_intent", rejectionReason(err)).Inc()
		return err
	}
	metrics.IntentStatusChanges.WithLabelValues(string(domain.IntentPaused)).Inc()
	e.logger.InfoContext(ctx, "intent paused", slog.String("intent_id", id))
	e.emit(ctx, domain.Event{Type: domain.EventIntentPaused, At: intent.CreatedAt, Intent: &intent})
	return nil
}

// ResumeIntent sets the intent's status back to active. Only the owner may
// resume.
func (e *Engine) ResumeIntent(ctx context.Context, id, caller string) error {
	e.mu.Lock()
	err := e.intents.Resume(id, caller)
	var intent domain.Intent
	if err == nil {
		intent, _ = e.intents.Get(id)
	}
	e.mu.Unlock()

	if err != nil {
		metrics.RejectedCalls.WithLabelValues("resume_intent", rejectionReason(err)).Inc()
		return err
	}
	metrics.IntentStatusChanges.WithLabelValues(string(domain.IntentActive)).Inc()
	e.logger.InfoContext(ctx, "intent resumed", slog.String("intent_id", id))
	e.emit(ctx, domain.Event{Type: domain.EventIntentResumed, At: intent.CreatedAt, Intent: &intent})
	return nil
}

// ExecuteArbitrage validates the intent against the two observed prices,
// records the execution atomically (execution record, user index, profit
// credit, intent status), and issues a fire-and-forget settlement call whose
// handle is returned. The settlement outcome is never awaited.
func (e *Engine) ExecuteArbitrage(ctx context.Context, intentID, caller, priceA, priceB string) (domain.SettlementHandle, error) {
	e.mu.Lock()
	exec, intent, err := e.executeLocked(intentID, caller, priceA, priceB)
	e.mu.Unlock()

	if err != nil {
		metrics.RejectedCalls.WithLabelValues("execute_arbitrage", rejectionReason(err)).Inc()
		return domain.SettlementHandle{}, err
	}

	metrics.ExecutionsRecorded.Inc()
	metrics.IntentStatusChanges.WithLabelValues(string(domain.IntentExecuted)).Inc()
	e.logger.InfoContext(ctx, "arbitrage executed",
		slog.String("execution_id", exec.ID),
		slog.String("intent_id", exec.IntentID),
		slog.Float64("profit", exec.Profit),
	)

	var handle domain.SettlementHandle
	if e.settlement != nil {
		handle = e.settlement.Settle(ctx, domain.SettlementRequest{
			ExecutionID: exec.ID,
			IntentID:    exec.IntentID,
			Owner:       exec.Owner,
			TokenPair:   exec.TokenPair,
			Profit:      exec.Profit,
			TxHash:      exec.TxHash,
			Timestamp:   exec.Timestamp,
		})
		metrics.SettlementsIssued.Inc()
	}

	e.emit(ctx, domain.Event{Type: domain.EventArbitrageExecuted, At: exec.Timestamp, Intent: &intent, Execution: &exec})
	return handle, nil
}

// executeLocked runs validation and, only if every check passes, applies the
// five recording sub-steps. The map and big.Int writes cannot fail, so the
// transition is all-or-nothing under the engine lock.
func (e *Engine) executeLocked(intentID, caller, priceA, priceB string) (domain.Execution, domain.Intent, error) {
	intent, err := e.intents.Get(intentID)
	if err != nil {
		return domain.Execution{}, domain.Intent{}, err
	}
	if intent.Owner != caller {
		return domain.Execution{}, domain.Intent{}, fmt.Errorf(
			"intent %s is not owned by %s: %w", intentID, caller, domain.ErrUnauthorized)
	}
	if intent.Status != domain.IntentActive {
		return domain.Execution{}, domain.Intent{}, fmt.Errorf(
			"intent %s is %s, not active: %w", intentID, intent.Status, domain.ErrPreconditionFailed)
	}

	a, err := parseNonNegativeFloat(priceA)
	if err != nil {
		return domain.Execution{}, domain.Intent{}, fmt.Errorf("price_a: %w", err)
	}
	b, err := parseNonNegativeFloat(priceB)
	if err != nil {
		return domain.Execution{}, domain.Intent{}, fmt.Errorf("price_b: %w", err)
	}

	priceDiff := math.Abs(a - b)
	minPrice := math.Min(a, b)
	if minPrice == 0 {
		// A zero reference price would make the profit percentage
		// non-finite; the call is rejected instead.
		return domain.Execution{}, domain.Intent{}, fmt.Errorf(
			"prices must be positive, got %v and %v: %w", a, b, domain.ErrInvalidInput)
	}
	profitPct := priceDiff / minPrice * 100
	if profitPct < intent.MinProfitThreshold {
		return domain.Execution{}, domain.Intent{}, fmt.Errorf(
			"profit %.4f%% below threshold %.4f%%: %w",
			profitPct, intent.MinProfitThreshold, domain.ErrPreconditionFailed)
	}

	exec := domain.Execution{
		ID:        e.executionIDs.Next(),
		IntentID:  intent.ID,
		Owner:     intent.Owner,
		TokenPair: intent.TokenPair,
		PriceDiff: priceDiff,
		Profit:    priceDiff * e.cfg.CaptureRatio,
		GasFees:   e.cfg.GasFee,
		TxHash:    e.hasher.Hash(),
		Timestamp: e.clock.Now(),
		PriceA:    a,
		PriceB:    b,
	}

	e.executions.Append(exec)
	e.profits.Add(exec.Owner, domain.FloatToMinorUnits(exec.Profit, e.scale))
	if err := e.intents.MarkExecuted(intent.ID); err != nil {
		// Unreachable: the intent was fetched under the same lock.
		return domain.Execution{}, domain.Intent{}, err
	}
	intent.Status = domain.IntentExecuted
	return exec, intent, nil
}

// StoreSignature stores an opaque cross-chain authorization record for the
// given execution id, replacing any existing record. No check is made that
// the id references a recorded execution.
func (e *Engine) StoreSignature(ctx context.Context, executionID string, rec domain.SignatureRecord) {
	e.mu.Lock()
	e.signatures.Put(executionID, rec)
	now := e.clock.Now()
	e.mu.Unlock()

	metrics.SignaturesStored.Inc()
	e.logger.InfoContext(ctx, "signature stored",
		slog.String("execution_id", executionID),
		slog.Uint64("chain_id", rec.ChainID),
	)
	e.emit(ctx, domain.Event{Type: domain.EventSignatureStored, At: now, ExecutionID: executionID, Signature: &rec})
}

// VerifySignature reports whether the execution carries a valid cross-chain
// authorization according to the configured verifier. With the default
// presence verifier this is a pure existence check.
func (e *Engine) VerifySignature(ctx context.Context, executionID string) bool {
	e.mu.Lock()
	rec, ok := e.signatures.Get(executionID)
	e.mu.Unlock()
	return e.verifier.Verify(ctx, executionID, rec, ok)
}

// emit delivers ev to every registered sink. Called outside the lock; sink
// failures cannot roll back a committed transition.
func (e *Engine) emit(ctx context.Context, ev domain.Event) {
	for _, s := range e.sinks {
		s.OnEvent(ctx, ev)
	}
}

// parseNonNegativeFloat parses s as a finite float64 >= 0, wrapping parse
// failures in ErrInvalidInput.
func parseNonNegativeFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%q is not a valid number: %w", s, domain.ErrInvalidInput)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q must be non-negative: %w", s, domain.ErrInvalidInput)
	}
	return v, nil
}

// rejectionReason maps a domain error to the metrics label for rejected calls.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrInsufficientDeposit):
		return "insufficient_deposit"
	case errors.Is(err, domain.ErrPreconditionFailed):
		return "precondition_failed"
	default:
		return "invalid_input"
	}
}
