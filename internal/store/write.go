package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/busbench/internal/tb"
)

// Run is one recorded bench execution.
type Run struct {
	ID        string
	Scenario  string
	Seed      int64
	RunTicks  int64
	CreatedAt time.Time
}

// RecordRun persists a run and its verdict trace in a single transaction, so
// a partially written run is never visible to readers.
func (s *Store) RecordRun(ctx context.Context, run Run, verdicts []tb.Verdict) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, seed, run_ticks, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Scenario, run.Seed, run.RunTicks, run.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO verdicts (run_id, seq, addr, op, data, stretch, ack_err, pass)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare verdict insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range verdicts {
		_, err := stmt.ExecContext(ctx, run.ID, v.Seq, v.Addr, uint8(v.Op), v.Data,
			boolToInt(v.Stretch), boolToInt(v.AckErr), boolToInt(v.Pass))
		if err != nil {
			return fmt.Errorf("failed to insert verdict %d of run %s: %w", v.Seq, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
