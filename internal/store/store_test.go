package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/busbench/internal/bus"
	"github.com/roach88/busbench/internal/tb"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, st.Close()) })
	return st
}

func TestStore_OpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestStore_RecordAndReadBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := Run{
		ID:        uuid.NewString(),
		Scenario:  "scenario-a",
		Seed:      7,
		RunTicks:  800,
		CreatedAt: time.Now(),
	}
	verdicts := []tb.Verdict{
		{Seq: 0, Addr: 4, Op: bus.OpWrite, Data: 3, Pass: true},
		{Seq: 1, Addr: 7, Op: bus.OpWrite, Data: 2, Stretch: true, Pass: true},
	}
	require.NoError(t, st.RecordRun(ctx, run, verdicts))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "scenario-a", runs[0].Scenario)
	assert.Equal(t, int64(7), runs[0].Seed)
	assert.Equal(t, int64(800), runs[0].RunTicks)
	assert.WithinDuration(t, run.CreatedAt, runs[0].CreatedAt, time.Second)

	got, err := st.VerdictsForRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, verdicts, got)
}

func TestStore_FailingVerdictRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := Run{ID: uuid.NewString(), Scenario: "nack", Seed: 1, RunTicks: 400, CreatedAt: time.Now()}
	verdicts := []tb.Verdict{{Seq: 0, Addr: 9, Op: bus.OpWrite, Data: 5, AckErr: true, Pass: false}}
	require.NoError(t, st.RecordRun(ctx, run, verdicts))

	got, err := st.VerdictsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].AckErr)
	assert.False(t, got[0].Pass)
}

func TestStore_DuplicateRunIDRejected(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := Run{ID: "fixed", Scenario: "x", Seed: 1, RunTicks: 1, CreatedAt: time.Now()}
	require.NoError(t, st.RecordRun(ctx, run, nil))
	assert.Error(t, st.RecordRun(ctx, run, nil))
}

func TestStore_VerdictsForUnknownRun(t *testing.T) {
	st := openTestStore(t)
	got, err := st.VerdictsForRun(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}
