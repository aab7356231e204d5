// Package harness runs conformance scenarios against the verification bench
// and checks the resulting verdict trace against the scenario's expectations.
package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/busbench/internal/tb"
)

// Result is the outcome of one scenario execution.
type Result struct {
	// ScenarioName names the executed scenario.
	ScenarioName string `json:"scenario_name"`

	// Pass is true when every verdict passed and every expectation matched.
	Pass bool `json:"pass"`

	// Verdicts is the scoreboard trace in arrival order.
	Verdicts []tb.Verdict `json:"verdicts"`

	// Errors lists expectation mismatches. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// AddError records an expectation failure and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// MismatchError describes one verdict that did not match its expectation.
type MismatchError struct {
	Seq      int
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("verdict %d mismatch: expected %s, got %s", e.Seq, e.Expected, e.Actual)
}

// Run executes the scenario on a fresh bench and evaluates its expectations.
// The returned error covers harness-level failures (bad configuration); an
// expectation mismatch is reported through Result.Pass and Result.Errors, not
// as an error.
func Run(ctx context.Context, s *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bench, err := tb.NewBench(s.Config(), s.ModelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build bench for scenario %s: %w", s.Name, err)
	}
	if script := s.Script(); script != nil {
		bench.SetScript(script)
	}

	verdicts, err := bench.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("scenario %s aborted: %w", s.Name, err)
	}

	result := &Result{
		ScenarioName: s.Name,
		Pass:         true,
		Verdicts:     verdicts,
	}
	for _, v := range verdicts {
		if !v.Pass {
			result.Pass = false
		}
	}
	evaluate(s, result)
	return result, nil
}

// evaluate checks the verdict trace against the scenario's expectations,
// appending one error per mismatch.
func evaluate(s *Scenario, result *Result) {
	if len(s.Expect) == 0 {
		return
	}
	if len(result.Verdicts) != len(s.Expect) {
		result.AddError(fmt.Sprintf("expected %d verdicts, got %d", len(s.Expect), len(result.Verdicts)))
		return
	}
	for i, want := range s.Expect {
		got := result.Verdicts[i]
		op, _ := parseOp(want.Op)
		if got.Addr != want.Addr || got.Op != op || got.Data != want.Data ||
			got.Stretch != want.Stretch || got.Pass != want.Pass {
			err := &MismatchError{
				Seq: i,
				Expected: fmt.Sprintf("addr=%d op=%s data=%d stretch=%t pass=%t",
					want.Addr, op, want.Data, want.Stretch, want.Pass),
				Actual: fmt.Sprintf("addr=%d op=%s data=%d stretch=%t pass=%t",
					got.Addr, got.Op, got.Data, got.Stretch, got.Pass),
			}
			result.AddError(err.Error())
		}
	}
}
