package bus

import "fmt"

// ModelConfig configures the reference controller model.
type ModelConfig struct {
	// TicksPerBit is the number of clock ticks each bit slot occupies.
	// Must be at least 2 so the driver can observe the acknowledge slot
	// before it ends.
	TicksPerBit int

	// Targets lists the addresses that acknowledge. A nil slice means every
	// address acknowledges; an empty non-nil slice means none do.
	Targets []uint8
}

// DefaultModelConfig returns the model configuration used by the scripted
// scenarios: 16 ticks per bit slot, every address attached.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{TicksPerBit: 16}
}

// Validate checks the configuration for values the model cannot run with.
func (c ModelConfig) Validate() error {
	if c.TicksPerBit < 2 {
		return fmt.Errorf("ticks per bit must be >= 2, got %d", c.TicksPerBit)
	}
	return nil
}

// Model is a reference serial-bus master controller implementing the Signals
// contract. It exists so the harness has a controller to converse with; the
// pipeline itself never depends on anything but the Controller interface.
//
// The model walks one transaction through idle → start → address bits →
// address acknowledge → data bits → data acknowledge → stop, spending
// TicksPerBit ticks per bit slot. While StretchHold is asserted during the
// address-acknowledge slot the model freezes in place, which is the behavior
// the stretch scenarios lean on.
type Model struct {
	sig     *Signals
	cfg     ModelConfig
	targets map[uint8]bool // nil: every address acknowledges

	state State
	cnt   int // ticks remaining in the current slot group

	// Latched at start-strobe time; the live registers may change afterwards.
	addr uint8
	op   Op
	data uint8

	mem [128]uint8
}

// NewModel creates a reference controller attached to sig.
func NewModel(sig *Signals, cfg ModelConfig) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	m := &Model{sig: sig, cfg: cfg}
	if cfg.Targets != nil {
		m.targets = make(map[uint8]bool, len(cfg.Targets))
		for _, a := range cfg.Targets {
			m.targets[a&0x7f] = true
		}
	}
	return m, nil
}

// DebugState implements DebugPort.
func (m *Model) DebugState() State {
	return m.state
}

// Tick advances the controller by one clock tick. Stimulus fields written
// during tick N are observed here at tick N+1, because the controller's task
// slot is the first to run within each tick.
func (m *Model) Tick(_ int64) {
	if m.sig.Reset {
		m.reset()
		return
	}

	// Done is a strict one-tick strobe: whatever the previous tick set is
	// cleared before this tick's evaluation.
	m.sig.Done = false

	switch m.state {
	case StateIdle:
		if m.sig.Start && !m.sig.Busy {
			m.addr = m.sig.Addr & 0x7f
			m.op = m.sig.Op
			m.data = m.sig.DataIn
			m.sig.Busy = true
			m.sig.AckErr = false
			m.enter(StateStartBit, 1)
		}

	case StateStartBit:
		if m.step() {
			// 7 address bits plus the read/write bit.
			m.enter(StateAddrBits, 8)
		}

	case StateAddrBits:
		if m.step() {
			m.enter(StateAddrAck, 1)
		}

	case StateAddrAck:
		if m.sig.StretchHold {
			// Clock stretched: hold position, no progress this tick.
			break
		}
		if m.step() {
			if !m.present(m.addr) {
				m.sig.AckErr = true
				m.enter(StateStopBit, 1)
				break
			}
			if m.op == OpRead {
				m.sig.DataOut = m.mem[m.addr]
				m.enter(StateReadBits, 8)
			} else {
				m.enter(StateWriteBits, 8)
			}
		}

	case StateWriteBits:
		if m.step() {
			m.mem[m.addr] = m.data
			m.enter(StateDataAck, 1)
		}

	case StateReadBits:
		if m.step() {
			m.enter(StateDataAck, 1)
		}

	case StateDataAck:
		if m.step() {
			m.enter(StateStopBit, 1)
		}

	case StateStopBit:
		if m.step() {
			m.sig.Busy = false
			m.sig.Done = true
			m.state = StateIdle
		}
	}

	m.sig.State = m.state
}

// enter moves to state and arms the counter for slots bit slots.
func (m *Model) enter(state State, slots int) {
	m.state = state
	m.cnt = slots * m.cfg.TicksPerBit
}

// step burns one tick of the current slot group and reports whether it ended.
func (m *Model) step() bool {
	m.cnt--
	return m.cnt <= 0
}

func (m *Model) present(addr uint8) bool {
	if m.targets == nil {
		return true
	}
	return m.targets[addr]
}

func (m *Model) reset() {
	m.state = StateIdle
	m.cnt = 0
	m.sig.Busy = false
	m.sig.AckErr = false
	m.sig.Done = false
	m.sig.DataOut = 0
	m.sig.State = StateIdle
}
