package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadAndRun(t *testing.T, name string) *Result {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", name))
	require.NoError(t, err)
	result, err := Run(context.Background(), s, nil)
	require.NoError(t, err)
	return result
}

func TestRun_ScenarioA(t *testing.T) {
	result := loadAndRun(t, "scenario-a.yaml")

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Verdicts, 1)
	v := result.Verdicts[0]
	assert.Equal(t, uint8(4), v.Addr)
	assert.Equal(t, uint8(3), v.Data)
	assert.False(t, v.Stretch)
	assert.True(t, v.Pass)
}

func TestRun_ScenarioB(t *testing.T) {
	result := loadAndRun(t, "scenario-b.yaml")

	assert.True(t, result.Pass)
	require.Len(t, result.Verdicts, 1)
	assert.True(t, result.Verdicts[0].Stretch)
}

func TestRun_NackScenario(t *testing.T) {
	result := loadAndRun(t, "scenario-nack.yaml")

	// The verdict itself fails, but it matches the expectation, so the only
	// failure signal is the verdict's pass flag.
	require.Len(t, result.Verdicts, 1)
	assert.False(t, result.Verdicts[0].Pass)
	assert.True(t, result.Verdicts[0].AckErr)
	assert.Empty(t, result.Errors, "the failing verdict was expected")
	assert.False(t, result.Pass, "a failing verdict fails the scenario")
}

func TestRun_ExpectationMismatch(t *testing.T) {
	s := &Scenario{
		Name:     "mismatch",
		RunTicks: 800,
		Transactions: []ScriptedTransaction{
			{Addr: 4, Op: "write", Data: 3},
		},
		Expect: []ExpectedVerdict{
			{Addr: 5, Op: "write", Data: 3, Pass: true},
		},
	}
	result, err := Run(context.Background(), s, nil)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "verdict 0 mismatch")
}

func TestRun_ExpectationCountMismatch(t *testing.T) {
	s := &Scenario{
		Name:     "count-mismatch",
		RunTicks: 800,
		Transactions: []ScriptedTransaction{
			{Addr: 4, Op: "write", Data: 3},
		},
		Expect: []ExpectedVerdict{
			{Addr: 4, Data: 3, Pass: true},
			{Addr: 7, Data: 2, Pass: true},
		},
	}
	result, err := Run(context.Background(), s, nil)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected 2 verdicts, got 1")
}

func TestRun_InvalidBenchConfig(t *testing.T) {
	s := &Scenario{Name: "bad", TicksPerBit: 1}
	_, err := Run(context.Background(), s, nil)
	assert.Error(t, err)
}

func TestMismatchError_Error(t *testing.T) {
	err := &MismatchError{Seq: 2, Expected: "a", Actual: "b"}
	assert.Equal(t, "verdict 2 mismatch: expected a, got b", err.Error())
}
