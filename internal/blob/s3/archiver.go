package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// ExecutionSource provides read access to committed executions for archival.
// The archiver only needs the incremental query, not the full journal
// interface; the Postgres journal satisfies this implicitly.
type ExecutionSource interface {
	// ExecutionsSince returns executions with Timestamp strictly greater
	// than after, in timestamp order.
	ExecutionsSince(ctx context.Context, after uint64) ([]domain.Execution, error)
}

// Archiver periodically drains newly journaled executions, serializes them
// to JSONL, and uploads the batch to blob storage. Each cycle archives only
// records newer than the previous cycle's high-water mark, so repeated runs
// never re-upload the same execution.
//
// Archival is best effort: a failed cycle is logged and retried on the next
// tick with the watermark unchanged.
type Archiver struct {
	writer   domain.BlobWriter
	source   ExecutionSource
	interval time.Duration
	logger   *slog.Logger

	// lastTimestamp is the Timestamp of the newest execution uploaded so
	// far. Only the Run goroutine touches it.
	lastTimestamp uint64
}

// NewArchiver creates an archiver that uploads a batch every interval.
func NewArchiver(writer domain.BlobWriter, source ExecutionSource, interval time.Duration, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		writer:   writer,
		source:   source,
		interval: interval,
		logger:   logger.With("component", "archiver"),
	}
}

// Run archives on a fixed interval until ctx is cancelled. It performs one
// final drain on shutdown so executions committed between the last tick and
// cancellation still reach blob storage.
func (a *Archiver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("archiver started", "interval", a.interval.String())

	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			if n, err := a.ArchiveOnce(drainCtx); err != nil {
				a.logger.Error("final archive drain failed", "error", err)
			} else if n > 0 {
				a.logger.Info("final archive drain complete", "count", n)
			}
			cancel()
			return ctx.Err()
		case <-ticker.C:
			n, err := a.ArchiveOnce(ctx)
			if err != nil {
				a.logger.Error("archive cycle failed", "error", err)
				continue
			}
			if n > 0 {
				a.logger.Info("archived executions", "count", n)
			}
		}
	}
}

// ArchiveOnce uploads all executions newer than the current watermark and
// returns the number archived. A cycle with nothing new uploads nothing.
func (a *Archiver) ArchiveOnce(ctx context.Context) (int64, error) {
	execs, err := a.source.ExecutionsSince(ctx, a.lastTimestamp)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive query: %w", err)
	}
	if len(execs) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(execs)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive marshal: %w", err)
	}

	path := archivePath("executions", time.Now().UTC())
	if err := a.writer.Put(ctx, path, buf, "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: archive upload: %w", err)
	}

	a.lastTimestamp = execs[len(execs)-1].Timestamp
	return int64(len(execs)), nil
}

// marshalJSONL serializes a slice of records as newline-delimited JSON, one
// record per line.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// archivePath builds the object key for an archive batch, namespaced by
// record kind and timestamped to the second so successive batches never
// collide.
func archivePath(kind string, at time.Time) string {
	return fmt.Sprintf("archive/%s/%s/%s.jsonl", kind, at.Format("2006-01"), at.Format("20060102T150405Z"))
}
