package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// Journal implements domain.Journal using PostgreSQL. It mirrors committed
// ledger events into append-only tables for audit and offline reporting; the
// in-memory ledger stays authoritative.
type Journal struct {
	pool *pgxpool.Pool
}

// NewJournal creates a new Journal.
func NewJournal(pool *pgxpool.Pool) *Journal {
	return &Journal{pool: pool}
}

// RecordIntent upserts an intent row. Status transitions (pause, resume,
// execute) re-record the same id with the new status.
func (j *Journal) RecordIntent(ctx context.Context, intent domain.Intent) error {
	_, err := j.pool.Exec(ctx, `
		INSERT INTO intents (id, owner_account, token_pair, min_profit_threshold, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`,
		intent.ID, intent.Owner, intent.TokenPair, intent.MinProfitThreshold,
		string(intent.Status), int64(intent.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("postgres: record intent %s: %w", intent.ID, err)
	}
	return nil
}

// RecordExecution inserts an execution row. Executions are written exactly
// once; a conflicting insert is ignored rather than overwritten.
func (j *Journal) RecordExecution(ctx context.Context, exec domain.Execution) error {
	_, err := j.pool.Exec(ctx, `
		INSERT INTO executions (id, intent_id, owner_account, token_pair, price_diff, profit, gas_fees, tx_hash, ts, price_a, price_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`,
		exec.ID, exec.IntentID, exec.Owner, exec.TokenPair,
		exec.PriceDiff, exec.Profit, exec.GasFees, exec.TxHash,
		int64(exec.Timestamp), exec.PriceA, exec.PriceB,
	)
	if err != nil {
		return fmt.Errorf("postgres: record execution %s: %w", exec.ID, err)
	}
	return nil
}

// RecordSignature upserts the cross-chain signature row for an execution id,
// matching the ledger's overwrite semantics.
func (j *Journal) RecordSignature(ctx context.Context, executionID string, rec domain.SignatureRecord) error {
	_, err := j.pool.Exec(ctx, `
		INSERT INTO cross_chain_signatures (execution_id, signature, public_key, chain_id, nonce)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (execution_id) DO UPDATE SET
			signature = EXCLUDED.signature,
			public_key = EXCLUDED.public_key,
			chain_id = EXCLUDED.chain_id,
			nonce = EXCLUDED.nonce,
			journaled_at = NOW()`,
		executionID, rec.Signature, rec.PublicKey, int64(rec.ChainID), int64(rec.Nonce),
	)
	if err != nil {
		return fmt.Errorf("postgres: record signature for execution %s: %w", executionID, err)
	}
	return nil
}

// ExecutionsSince returns journaled executions with ts > after in timestamp
// order, for the archiver.
func (j *Journal) ExecutionsSince(ctx context.Context, after uint64) ([]domain.Execution, error) {
	rows, err := j.pool.Query(ctx, `
		SELECT id, intent_id, owner_account, token_pair, price_diff, profit, gas_fees, tx_hash, ts, price_a, price_b
		FROM executions WHERE ts > $1 ORDER BY ts`,
		int64(after),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: executions since %d: %w", after, err)
	}
	defer rows.Close()

	var list []domain.Execution
	for rows.Next() {
		var exec domain.Execution
		var ts int64
		if err := rows.Scan(&exec.ID, &exec.IntentID, &exec.Owner, &exec.TokenPair,
			&exec.PriceDiff, &exec.Profit, &exec.GasFees, &exec.TxHash,
			&ts, &exec.PriceA, &exec.PriceB); err != nil {
			return nil, err
		}
		exec.Timestamp = uint64(ts)
		list = append(list, exec)
	}
	return list, rows.Err()
}

// Compile-time interface check.
var _ domain.Journal = (*Journal)(nil)
