package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmy123222/arbintent/internal/domain"
)

func TestCounterIssuesIncreasingIds(t *testing.T) {
	c := NewCounter()
	assert.Equal(t, "1", c.Next())
	assert.Equal(t, "2", c.Next())
	assert.Equal(t, "3", c.Next())
	assert.Equal(t, uint64(3), c.Issued())
}

func TestCounterSpacesAreIndependent(t *testing.T) {
	intents := NewCounter()
	executions := NewCounter()

	assert.Equal(t, "1", intents.Next())
	assert.Equal(t, "2", intents.Next())
	assert.Equal(t, "1", executions.Next())
}

func TestUserIndexAppendOrder(t *testing.T) {
	x := NewUserIndex()
	x.Append("alice.near", "1")
	x.Append("bob.near", "2")
	x.Append("alice.near", "3")

	assert.Equal(t, []string{"1", "3"}, x.List("alice.near"))
	assert.Equal(t, []string{"2"}, x.List("bob.near"))
	assert.Empty(t, x.List("carol.near"))
	assert.Equal(t, 2, x.Len("alice.near"))
}

func TestUserIndexListReturnsCopy(t *testing.T) {
	x := NewUserIndex()
	x.Append("alice.near", "1")

	got := x.List("alice.near")
	got[0] = "mutated"
	assert.Equal(t, []string{"1"}, x.List("alice.near"))
}

func intentFixture(id, owner string) domain.Intent {
	return domain.Intent{
		ID:                 id,
		Owner:              owner,
		TokenPair:          "NEAR/ETH",
		MinProfitThreshold: 1.0,
		Status:             domain.IntentActive,
		CreatedAt:          100,
	}
}

func TestRegistryInsertAndGet(t *testing.T) {
	r := NewIntentRegistry()
	r.Insert(intentFixture("1", "alice.near"))

	got, err := r.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "alice.near", got.Owner)
	assert.Equal(t, domain.IntentActive, got.Status)

	_, err = r.Get("99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistryPauseResume(t *testing.T) {
	r := NewIntentRegistry()
	r.Insert(intentFixture("1", "alice.near"))

	require.NoError(t, r.Pause("1", "alice.near"))
	got, err := r.Get("1")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentPaused, got.Status)

	require.NoError(t, r.Resume("1", "alice.near"))
	got, err = r.Get("1")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentActive, got.Status)
}

func TestRegistryPauseByNonOwnerLeavesStatusUnchanged(t *testing.T) {
	r := NewIntentRegistry()
	r.Insert(intentFixture("1", "alice.near"))

	err := r.Pause("1", "mallory.near")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	got, getErr := r.Get("1")
	require.NoError(t, getErr)
	assert.Equal(t, domain.IntentActive, got.Status)
}

func TestRegistryPauseAfterExecutedIsPermitted(t *testing.T) {
	// The on-chain contract does not guard pause/resume against terminal
	// status; that looseness is preserved here.
	r := NewIntentRegistry()
	r.Insert(intentFixture("1", "alice.near"))
	require.NoError(t, r.MarkExecuted("1"))

	require.NoError(t, r.Pause("1", "alice.near"))
	got, err := r.Get("1")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentPaused, got.Status)
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	r := NewIntentRegistry()
	r.Insert(intentFixture("1", "alice.near"))

	got, err := r.Get("1")
	require.NoError(t, err)
	got.Status = domain.IntentExecuted

	again, err := r.Get("1")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentActive, again.Status)
}

func TestExecutionLedgerAppendAndList(t *testing.T) {
	l := NewExecutionLedger()
	l.Append(domain.Execution{ID: "1", IntentID: "1", Owner: "alice.near", Profit: 40})
	l.Append(domain.Execution{ID: "2", IntentID: "2", Owner: "alice.near", Profit: 8})

	got, err := l.Get("1")
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.Profit)

	_, err = l.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	history := l.ListByOwner("alice.near")
	require.Len(t, history, 2)
	assert.Equal(t, "1", history[0].ID)
	assert.Equal(t, "2", history[1].ID)
	assert.Empty(t, l.ListByOwner("bob.near"))
}

func TestProfitAccumulator(t *testing.T) {
	p := NewProfitAccumulator()

	// Lazily zero before any credit.
	assert.Equal(t, "0", p.Total("alice.near").String())

	p.Add("alice.near", big.NewInt(100))
	p.Add("alice.near", big.NewInt(25))
	assert.Equal(t, "125", p.Total("alice.near").String())

	// Negative and nil credits are ignored.
	p.Add("alice.near", big.NewInt(-50))
	p.Add("alice.near", nil)
	assert.Equal(t, "125", p.Total("alice.near").String())

	// Mutating the returned total must not affect the stored value.
	total := p.Total("alice.near")
	total.SetInt64(0)
	assert.Equal(t, "125", p.Total("alice.near").String())
}

func TestSignatureStoreOverwrites(t *testing.T) {
	s := NewSignatureStore()

	_, ok := s.Get("1")
	assert.False(t, ok)

	s.Put("1", domain.SignatureRecord{Signature: []byte{0x01}, ChainID: 1, Nonce: 7})
	rec, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, uint64(7), rec.Nonce)

	// Second write replaces the first unconditionally.
	s.Put("1", domain.SignatureRecord{Signature: []byte{0x02}, ChainID: 1, Nonce: 8})
	rec, ok = s.Get("1")
	require.True(t, ok)
	assert.Equal(t, uint64(8), rec.Nonce)
	assert.Equal(t, []byte{0x02}, rec.Signature)
}
