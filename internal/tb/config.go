package tb

import "fmt"

// Config parameterizes one bench run. DefaultConfig matches the scripted
// two-transaction scenario the harness was specified against.
type Config struct {
	// Count is the number of transactions the generator produces.
	Count int

	// AddrMin and AddrMax bound the generated target address (inclusive).
	AddrMin uint8
	AddrMax uint8

	// DataMin and DataMax bound the generated data byte (inclusive). This is
	// a generator-level range, deliberately kept independent from the address
	// bounds above rather than reconciled with them.
	DataMin uint8
	DataMax uint8

	// StretchHoldTicks is how long the driver asserts the stretch-hold line
	// once the controller reaches its first-acknowledge state.
	StretchHoldTicks int

	// ResetTicks is how long the bench asserts Reset at the start of the run.
	ResetTicks int

	// SettleTicks is the driver's delay between finishing one transaction and
	// accepting the next.
	SettleTicks int

	// RunTicks is the total run length. The tick budget running out is the
	// only thing that stops the pipeline; there are no per-wait timeouts, and
	// a controller that never progresses hangs the driver until then.
	RunTicks int64

	// Seed seeds the generator's randomization.
	Seed int64
}

// DefaultConfig returns the scripted scenario parameters: two transactions,
// addresses in [0,10], data in [1,5], a 1200-tick stretch hold, a 5-tick
// reset, and one settle tick.
func DefaultConfig() Config {
	return Config{
		Count:            2,
		AddrMin:          0,
		AddrMax:          10,
		DataMin:          1,
		DataMax:          5,
		StretchHoldTicks: 1200,
		ResetTicks:       5,
		SettleTicks:      1,
		RunTicks:         4000,
		Seed:             1,
	}
}

// Validate checks the configuration for values the bench cannot run with.
func (c Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count must be >= 0, got %d", c.Count)
	}
	if c.AddrMax > 0x7f {
		return fmt.Errorf("addr max must fit 7 bits, got %d", c.AddrMax)
	}
	if c.AddrMin > c.AddrMax {
		return fmt.Errorf("addr bounds inverted: [%d,%d]", c.AddrMin, c.AddrMax)
	}
	if c.DataMin > c.DataMax {
		return fmt.Errorf("data bounds inverted: [%d,%d]", c.DataMin, c.DataMax)
	}
	if c.StretchHoldTicks < 0 {
		return fmt.Errorf("stretch hold ticks must be >= 0, got %d", c.StretchHoldTicks)
	}
	if c.ResetTicks < 1 {
		return fmt.Errorf("reset ticks must be >= 1, got %d", c.ResetTicks)
	}
	if c.SettleTicks < 0 {
		return fmt.Errorf("settle ticks must be >= 0, got %d", c.SettleTicks)
	}
	if c.RunTicks < 1 {
		return fmt.Errorf("run ticks must be >= 1, got %d", c.RunTicks)
	}
	return nil
}
