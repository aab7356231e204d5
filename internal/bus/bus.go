// Package bus defines the shared signal contract between the verification
// pipeline and the serial-bus master controller under test, plus a reference
// controller model used to exercise the harness end to end.
//
// All signal access is aligned to a single global clock tick (see internal/sim).
// There are no locks: correctness relies on a single-writer discipline. The
// driver is the only writer of the stimulus fields, the controller is the only
// writer of the response fields, and the monitor reads everything but writes
// nothing. The scheduler runs at most one component at a time within a tick,
// which makes per-tick signal state effectively atomic.
package bus

import "fmt"

// Op selects the bus operation direction.
type Op uint8

const (
	// OpWrite transfers DataIn from the master to the addressed target.
	OpWrite Op = 0
	// OpRead transfers a byte from the addressed target to DataOut.
	OpRead Op = 1
)

// String returns the operation name for diagnostics.
func (o Op) String() string {
	switch o {
	case OpWrite:
		return "write"
	case OpRead:
		return "read"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// State is the controller's internal control state, exposed on a debug-only
// port (see DebugPort). It is not part of the behavioral contract: the driver
// consumes it solely to time clock-stretch injection, and nothing else in the
// pipeline may depend on it.
type State uint8

const (
	StateIdle State = iota
	StateStartBit
	StateAddrBits
	// StateAddrAck is the first-acknowledge slot, the designated injection
	// point for clock stretching.
	StateAddrAck
	StateWriteBits
	StateReadBits
	StateDataAck
	StateStopBit
)

var stateNames = map[State]string{
	StateIdle:      "idle",
	StateStartBit:  "start",
	StateAddrBits:  "addr",
	StateAddrAck:   "addr-ack",
	StateWriteBits: "write",
	StateReadBits:  "read",
	StateDataAck:   "data-ack",
	StateStopBit:   "stop",
}

// String returns the state name for diagnostics.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Signals is the shared register/signal set the harness drives and observes.
// One instance is shared by reference between every pipeline component and the
// controller. Field ownership is a design convention, not language-enforced.
type Signals struct {
	// Stimulus fields. Written only by the driver (Reset by the bench during
	// the initial reset window). A write becomes visible to the controller on
	// the next clock tick, because the controller's task slot runs first
	// within each tick.

	// Reset holds the controller in its cleared state while asserted.
	Reset bool
	// Start is a one-tick strobe that initiates a new transaction.
	Start bool
	// Op selects write or read for the next transaction.
	Op Op
	// Addr is the 7-bit target address.
	Addr uint8
	// DataIn is the byte written on OpWrite.
	DataIn uint8
	// StretchReq records whether clock stretching was requested for the
	// transaction in flight. It is a plain register, readable at completion;
	// the controller ignores it.
	StretchReq bool
	// StretchHold is the stretch-hold line. While asserted the controller
	// makes no progress through its acknowledge slot.
	StretchHold bool

	// Response fields. Written only by the controller.

	// DataOut is the byte returned on OpRead.
	DataOut uint8
	// Busy is asserted while a transaction is in flight.
	Busy bool
	// AckErr is asserted when the addressed target did not acknowledge.
	AckErr bool
	// Done is a one-tick strobe asserted on transaction completion.
	Done bool

	// State mirrors the controller's internal state code. Debug-only.
	State State
}

// Controller is the observable contract of the device under test. Tick
// advances the controller by one global clock tick; it reads the stimulus
// fields and updates the response fields of the shared Signals.
type Controller interface {
	Tick(tick int64)
	DebugPort
}

// DebugPort is the explicitly separate observability surface of a controller.
// Keeping it distinct from Controller's behavioral side confines the harness's
// dependency on controller internals to the one place that needs it (stretch
// timing in the driver).
type DebugPort interface {
	// DebugState returns the controller's current internal state code.
	DebugState() State
}
