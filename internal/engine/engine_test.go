package engine

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// fakeClock hands out deterministic, strictly increasing timestamps.
type fakeClock struct {
	t uint64
}

func (c *fakeClock) Now() uint64 {
	c.t++
	return c.t
}

// fixedHasher returns predictable tx hashes for assertions.
type fixedHasher struct {
	n int
}

func (h *fixedHasher) Hash() string {
	h.n++
	return fmt.Sprintf("0xtx%04d", h.n)
}

// recordingSettlement captures every issued settlement request.
type recordingSettlement struct {
	requests []domain.SettlementRequest
}

func (s *recordingSettlement) Settle(_ context.Context, req domain.SettlementRequest) domain.SettlementHandle {
	s.requests = append(s.requests, req)
	return domain.SettlementHandle{ID: fmt.Sprintf("settle-%d", len(s.requests))}
}

// recordingSink captures emitted event types.
type recordingSink struct {
	events []domain.Event
}

func (s *recordingSink) OnEvent(_ context.Context, ev domain.Event) {
	s.events = append(s.events, ev)
}

func oneNear() *big.Int {
	return domain.ScaleFactor(24)
}

func newTestEngine(settlement *recordingSettlement, sink *recordingSink) *Engine {
	opts := []Option{
		WithClock(&fakeClock{}),
		WithTxHasher(&fixedHasher{}),
	}
	if settlement != nil {
		opts = append(opts, WithSettlement(settlement))
	}
	if sink != nil {
		opts = append(opts, WithEventSink(sink))
	}
	return New(Config{Owner: "operator.near"}, opts...)
}

func TestCreateIntentIssuesSequentialIds(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", oneNear())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d", i), id)
	}
}

func TestCreateIntentDepositGate(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()

	belowMin := new(big.Int).Sub(oneNear(), big.NewInt(1))
	_, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", belowMin)
	assert.ErrorIs(t, err, domain.ErrInsufficientDeposit)

	_, err = e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientDeposit)

	// Exactly the minimum succeeds.
	id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", oneNear())
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}

func TestCreateIntentInvalidThreshold(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()

	for _, threshold := range []string{"", "abc", "-1.5", "NaN", "Inf"} {
		_, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", threshold, oneNear())
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "threshold %q", threshold)
	}

	// A failed create must not consume an id.
	id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "0", oneNear())
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}

func TestCreateIntentStoredFields(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()

	id, err := e.CreateIntent(ctx, "alice.near", "A/B", "1.0", oneNear())
	require.NoError(t, err)

	intent, err := e.Intent(id)
	require.NoError(t, err)
	assert.Equal(t, "alice.near", intent.Owner)
	assert.Equal(t, "A/B", intent.TokenPair)
	assert.Equal(t, 1.0, intent.MinProfitThreshold)
	assert.Equal(t, domain.IntentActive, intent.Status)
	assert.NotZero(t, intent.CreatedAt)

	intents := e.UserIntents("alice.near")
	require.Len(t, intents, 1)
	assert.Equal(t, id, intents[0].ID)
}

func TestPauseResumeOwnership(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()

	id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", oneNear())
	require.NoError(t, err)

	err = e.PauseIntent(ctx, id, "mallory.near")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	intent, _ := e.Intent(id)
	assert.Equal(t, domain.IntentActive, intent.Status)

	require.NoError(t, e.PauseIntent(ctx, id, "alice.near"))
	intent, _ = e.Intent(id)
	assert.Equal(t, domain.IntentPaused, intent.Status)

	assert.ErrorIs(t, e.ResumeIntent(ctx, id, "mallory.near"), domain.ErrUnauthorized)
	require.NoError(t, e.ResumeIntent(ctx, id, "alice.near"))
	intent, _ = e.Intent(id)
	assert.Equal(t, domain.IntentActive, intent.Status)

	assert.ErrorIs(t, e.PauseIntent(ctx, "404", "alice.near"), domain.ErrNotFound)
}

func TestExecuteArbitrageHappyPath(t *testing.T) {
	settlement := &recordingSettlement{}
	sink := &recordingSink{}
	e := newTestEngine(settlement, sink)
	ctx := context.Background()

	id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", oneNear())
	require.NoError(t, err)

	// diff = 50, pct = 50/2950*100 ~ 1.695% >= 1.0%
	handle, err := e.ExecuteArbitrage(ctx, id, "alice.near", "3000.0", "2950.0")
	require.NoError(t, err)
	assert.Equal(t, "settle-1", handle.ID)

	history := e.ExecutionHistory("alice.near")
	require.Len(t, history, 1)
	exec := history[0]
	assert.Equal(t, "1", exec.ID)
	assert.Equal(t, id, exec.IntentID)
	assert.Equal(t, "NEAR/ETH", exec.TokenPair)
	assert.Equal(t, 50.0, exec.PriceDiff)
	assert.Equal(t, 40.0, exec.Profit) // 80% capture of the price diff
	assert.Equal(t, 0.01, exec.GasFees)
	assert.Equal(t, 3000.0, exec.PriceA)
	assert.Equal(t, 2950.0, exec.PriceB)
	assert.Equal(t, "0xtx0001", exec.TxHash)

	// Profit total is 40 whole units in minor units.
	want := new(big.Int).Mul(big.NewInt(40), domain.ScaleFactor(24))
	assert.Zero(t, e.TotalProfit("alice.near").Cmp(want))

	// Intent is now terminal.
	intent, err := e.Intent(id)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentExecuted, intent.Status)

	// A second execution on the same intent is rejected.
	_, err = e.ExecuteArbitrage(ctx, id, "alice.near", "3000.0", "2950.0")
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	assert.Len(t, e.ExecutionHistory("alice.near"), 1)

	// Exactly one settlement call was issued, carrying the execution data.
	require.Len(t, settlement.requests, 1)
	assert.Equal(t, "1", settlement.requests[0].ExecutionID)
	assert.Equal(t, 40.0, settlement.requests[0].Profit)

	// Events: created, executed, plus the rejected retry emits nothing.
	require.Len(t, sink.events, 2)
	assert.Equal(t, domain.EventIntentCreated, sink.events[0].Type)
	assert.Equal(t, domain.EventArbitrageExecuted, sink.events[1].Type)
	assert.Equal(t, domain.IntentExecuted, sink.events[1].Intent.Status)
}

func TestExecuteArbitrageBelowThreshold(t *testing.T) {
	settlement := &recordingSettlement{}
	e := newTestEngine(settlement, nil)
	ctx := context.Background()

	id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "5.0", oneNear())
	require.NoError(t, err)

	// pct = 1/99*100 ~ 1.01% < 5.0%
	_, err = e.ExecuteArbitrage(ctx, id, "alice.near", "100.0", "99.0")
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)

	// Nothing was recorded.
	assert.Empty(t, e.ExecutionHistory("alice.near"))
	assert.Equal(t, "0", e.TotalProfit("alice.near").String())
	assert.Empty(t, settlement.requests)
	intent, _ := e.Intent(id)
	assert.Equal(t, domain.IntentActive, intent.Status)
	assert.Equal(t, uint64(0), e.Info().TotalExecutions)
}

func TestExecuteArbitrageGuards(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()

	_, err := e.ExecuteArbitrage(ctx, "404", "alice.near", "1.0", "2.0")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", oneNear())
	require.NoError(t, err)

	_, err = e.ExecuteArbitrage(ctx, id, "mallory.near", "3000.0", "2950.0")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, e.PauseIntent(ctx, id, "alice.near"))
	_, err = e.ExecuteArbitrage(ctx, id, "alice.near", "3000.0", "2950.0")
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	require.NoError(t, e.ResumeIntent(ctx, id, "alice.near"))

	_, err = e.ExecuteArbitrage(ctx, id, "alice.near", "bogus", "2950.0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.ExecuteArbitrage(ctx, id, "alice.near", "3000.0", "-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Zero reference price would divide by zero; rejected as invalid input.
	_, err = e.ExecuteArbitrage(ctx, id, "alice.near", "0", "2950.0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.ExecuteArbitrage(ctx, id, "alice.near", "0", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// The intent survives every rejection untouched.
	intent, _ := e.Intent(id)
	assert.Equal(t, domain.IntentActive, intent.Status)
}

func TestProfitTotalsMatchExecutionHistory(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()
	scale := domain.ScaleFactor(24)

	prices := [][2]string{
		{"3000.0", "2950.0"},
		{"105.5", "100.0"},
		{"2.11", "2.0"},
	}
	for _, p := range prices {
		id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", oneNear())
		require.NoError(t, err)
		_, err = e.ExecuteArbitrage(ctx, id, "alice.near", p[0], p[1])
		require.NoError(t, err)
	}

	// The accumulator must equal the sum of per-execution profits converted
	// to minor units with the same truncation rule.
	want := new(big.Int)
	for _, exec := range e.ExecutionHistory("alice.near") {
		want.Add(want, domain.FloatToMinorUnits(exec.Profit, scale))
	}
	assert.Zero(t, e.TotalProfit("alice.near").Cmp(want))
}

func TestExecutionIdsIndependentFromIntentIds(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()

	// Burn a few intent ids first.
	for range 3 {
		_, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", oneNear())
		require.NoError(t, err)
	}

	_, err := e.ExecuteArbitrage(ctx, "3", "alice.near", "3000.0", "2950.0")
	require.NoError(t, err)

	history := e.ExecutionHistory("alice.near")
	require.Len(t, history, 1)
	assert.Equal(t, "1", history[0].ID)
}

func TestSignatureStoreAndVerify(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(nil, sink)
	ctx := context.Background()

	assert.False(t, e.VerifySignature(ctx, "1"))

	rec := domain.SignatureRecord{
		Signature: []byte{0xde, 0xad},
		PublicKey: []byte{0xbe, 0xef},
		ChainID:   1,
		Nonce:     42,
	}
	e.StoreSignature(ctx, "1", rec)
	assert.True(t, e.VerifySignature(ctx, "1"))

	stored, ok := e.Signature("1")
	require.True(t, ok)
	assert.Equal(t, rec, stored)

	// Storing never checks that the execution exists.
	e.StoreSignature(ctx, "no-such-execution", rec)
	assert.True(t, e.VerifySignature(ctx, "no-such-execution"))

	require.NotEmpty(t, sink.events)
	assert.Equal(t, domain.EventSignatureStored, sink.events[0].Type)
}

func TestInfo(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()

	info := e.Info()
	assert.Equal(t, "ArbitrageAI Cross-Chain Agent", info.Name)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "operator.near", info.Owner)
	assert.Zero(t, info.TotalIntents)
	assert.Zero(t, info.TotalExecutions)

	id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", oneNear())
	require.NoError(t, err)
	_, err = e.ExecuteArbitrage(ctx, id, "alice.near", "3000.0", "2950.0")
	require.NoError(t, err)

	info = e.Info()
	assert.Equal(t, uint64(1), info.TotalIntents)
	assert.Equal(t, uint64(1), info.TotalExecutions)
}

func TestTimestampsAreMonotonic(t *testing.T) {
	e := New(Config{}) // real logical clock
	ctx := context.Background()

	var last uint64
	for range 10 {
		id, err := e.CreateIntent(ctx, "alice.near", "NEAR/ETH", "1.0", oneNear())
		require.NoError(t, err)
		intent, err := e.Intent(id)
		require.NoError(t, err)
		assert.Greater(t, intent.CreatedAt, last)
		last = intent.CreatedAt
	}
}
