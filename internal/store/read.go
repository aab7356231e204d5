package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/busbench/internal/bus"
	"github.com/roach88/busbench/internal/tb"
)

// ListRuns returns all recorded runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scenario, seed, run_ticks, created_at FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Seed, &r.RunTicks, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp %q: %w", createdAt, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// VerdictsForRun returns a run's verdict trace ordered by seq.
func (s *Store) VerdictsForRun(ctx context.Context, runID string) ([]tb.Verdict, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, addr, op, data, stretch, ack_err, pass FROM verdicts
		 WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query verdicts for run %s: %w", runID, err)
	}
	defer rows.Close()

	var verdicts []tb.Verdict
	for rows.Next() {
		var v tb.Verdict
		var op uint8
		var stretch, ackErr, pass int
		if err := rows.Scan(&v.Seq, &v.Addr, &op, &v.Data, &stretch, &ackErr, &pass); err != nil {
			return nil, fmt.Errorf("failed to scan verdict: %w", err)
		}
		v.Op = bus.Op(op)
		v.Stretch = stretch != 0
		v.AckErr = ackErr != 0
		v.Pass = pass != 0
		verdicts = append(verdicts, v)
	}
	return verdicts, rows.Err()
}
