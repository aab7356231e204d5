package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/busbench/internal/bus"
	"github.com/roach88/busbench/internal/tb"
)

// Scenario defines one conformance run of the bench: configuration overrides,
// the attached targets, optionally a scripted transaction sequence, and the
// verdicts the run is expected to produce.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Seed seeds the generator's randomization. Scripted scenarios are
	// unaffected but the field is still recorded with the run.
	Seed int64 `yaml:"seed,omitempty"`

	// RunTicks overrides the total run length when > 0.
	RunTicks int64 `yaml:"run_ticks,omitempty"`

	// TicksPerBit overrides the controller model's bit-slot width when > 0.
	TicksPerBit int `yaml:"ticks_per_bit,omitempty"`

	// Count overrides the number of generated transactions when > 0. If
	// Transactions is non-empty and Count is 0, Count defaults to the script
	// length.
	Count int `yaml:"count,omitempty"`

	// Targets lists the acknowledging addresses. Empty means every address
	// acknowledges.
	Targets []uint8 `yaml:"targets,omitempty"`

	// Transactions pins the generated sequence instead of randomizing it.
	Transactions []ScriptedTransaction `yaml:"transactions,omitempty"`

	// Expect lists the verdicts the run must produce, in order. Empty means
	// only "no verdict failed" is checked.
	Expect []ExpectedVerdict `yaml:"expect,omitempty"`
}

// ScriptedTransaction is one pinned stimulus transaction.
type ScriptedTransaction struct {
	Addr    uint8  `yaml:"addr"`
	Op      string `yaml:"op,omitempty"` // "write" or "read"; defaults to write
	Data    uint8  `yaml:"data"`
	Stretch bool   `yaml:"stretch,omitempty"`
}

// ExpectedVerdict is one expected scoreboard entry.
type ExpectedVerdict struct {
	Addr    uint8  `yaml:"addr"`
	Op      string `yaml:"op,omitempty"`
	Data    uint8  `yaml:"data"`
	Stretch bool   `yaml:"stretch,omitempty"`
	Pass    bool   `yaml:"pass"`
}

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks scenario fields that cannot be deferred to tb.Config.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	for i, tx := range s.Transactions {
		if _, err := parseOp(tx.Op); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		if tx.Addr > 0x7f {
			return fmt.Errorf("transaction %d: addr %d does not fit 7 bits", i, tx.Addr)
		}
	}
	for i, ev := range s.Expect {
		if _, err := parseOp(ev.Op); err != nil {
			return fmt.Errorf("expect %d: %w", i, err)
		}
	}
	return nil
}

// Config converts the scenario to a bench configuration on top of the
// defaults.
func (s *Scenario) Config() tb.Config {
	cfg := tb.DefaultConfig()
	cfg.Seed = s.Seed
	if s.RunTicks > 0 {
		cfg.RunTicks = s.RunTicks
	}
	if s.Count > 0 {
		cfg.Count = s.Count
	} else if len(s.Transactions) > 0 {
		cfg.Count = len(s.Transactions)
	}
	return cfg
}

// ModelConfig converts the scenario to a controller model configuration.
func (s *Scenario) ModelConfig() bus.ModelConfig {
	cfg := bus.DefaultModelConfig()
	if s.TicksPerBit > 0 {
		cfg.TicksPerBit = s.TicksPerBit
	}
	cfg.Targets = s.Targets
	return cfg
}

// Script converts the scripted transactions to pipeline form.
func (s *Scenario) Script() []tb.Transaction {
	if len(s.Transactions) == 0 {
		return nil
	}
	script := make([]tb.Transaction, len(s.Transactions))
	for i, tx := range s.Transactions {
		op, _ := parseOp(tx.Op) // validated in Validate
		script[i] = tb.Transaction{
			Addr:    tx.Addr,
			Op:      op,
			Data:    tx.Data,
			Stretch: tx.Stretch,
		}
	}
	return script
}

func parseOp(op string) (bus.Op, error) {
	switch op {
	case "", "write":
		return bus.OpWrite, nil
	case "read":
		return bus.OpRead, nil
	default:
		return 0, fmt.Errorf("unknown op %q: must be write or read", op)
	}
}
