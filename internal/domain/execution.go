package domain

// Execution is the immutable record of one completed arbitrage action derived
// from an Intent. Records are append-only: once written they are never
// mutated or deleted.
type Execution struct {
	ID        string  `json:"id"`
	IntentID  string  `json:"intent_id"`
	Owner     string  `json:"owner"`
	TokenPair string  `json:"token_pair"`
	PriceDiff float64 `json:"price_diff"`
	Profit    float64 `json:"profit"`
	GasFees   float64 `json:"gas_fees"`
	TxHash    string  `json:"tx_hash"`
	Timestamp uint64  `json:"timestamp"`
	PriceA    float64 `json:"price_a"`
	PriceB    float64 `json:"price_b"`
}

// ContractInfo is the summary snapshot returned by the info endpoint.
type ContractInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	Owner           string `json:"owner"`
	TotalIntents    uint64 `json:"total_intents"`
	TotalExecutions uint64 `json:"total_executions"`
}
