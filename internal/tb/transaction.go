// Package tb implements the four-stage verification pipeline for the
// serial-bus master controller: generator → driver → monitor → scoreboard.
//
// The driver and monitor are clocked tasks on the sim scheduler and share one
// bus.Signals instance with the controller; the generator and scoreboard are
// free goroutines joined to the clocked stages by two single-producer,
// single-consumer channels. Stimulus and observation are correlated purely by
// arrival order on the monitor→scoreboard channel; there is no transaction
// identifier, so a missed or duplicated completion edge would silently
// misattribute verdicts.
package tb

import (
	"fmt"

	"github.com/roach88/busbench/internal/bus"
)

// Transaction is one requested bus operation. Two independent instances exist
// per logical transfer: the stimulus transaction built by the generator and
// consumed by the driver, and the observed transaction the monitor constructs
// from live signal values at the completion edge. They are never the same
// object.
//
// Stimulus fields are fixed at generation time; the driver copies them into
// the bus registers and never mutates them. Only the observed instance carries
// a meaningful AckErr.
type Transaction struct {
	// Addr is the 7-bit target address.
	Addr uint8
	// Op is the operation direction, write or read.
	Op bus.Op
	// Data is the 8-bit payload: the byte to write, or on an observed read
	// transaction the byte the controller returned.
	Data uint8
	// Stretch requests clock-stretch injection during the first acknowledge.
	Stretch bool
	// AckErr is the observed acknowledgement outcome. Unset at creation.
	AckErr bool
}

// String renders all fields for logging.
func (t *Transaction) String() string {
	return fmt.Sprintf("addr=%d op=%s data=%d stretch=%t ackErr=%t",
		t.Addr, t.Op, t.Data, t.Stretch, t.AckErr)
}
