package ledger

import "math/big"

// ProfitAccumulator keeps a running minor-unit profit total per account.
// Totals are lazily zero and monotonically non-decreasing: the ledger never
// records losses.
type ProfitAccumulator struct {
	totals map[string]*big.Int
}

// NewProfitAccumulator returns an empty accumulator.
func NewProfitAccumulator() *ProfitAccumulator {
	return &ProfitAccumulator{totals: make(map[string]*big.Int)}
}

// Add credits amount minor units to account. Negative amounts are ignored.
func (p *ProfitAccumulator) Add(account string, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	total, ok := p.totals[account]
	if !ok {
		total = new(big.Int)
		p.totals[account] = total
	}
	total.Add(total, amount)
}

// Total returns a copy of account's profit total, zero if none recorded.
func (p *ProfitAccumulator) Total(account string) *big.Int {
	total, ok := p.totals[account]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(total)
}
