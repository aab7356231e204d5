package tb

import (
	"log/slog"

	"github.com/roach88/busbench/internal/bus"
	"github.com/roach88/busbench/internal/sim"
)

// Driver is the single writer of all stimulus-side bus signals. It dequeues
// transactions and walks each one through the start/stretch/completion
// protocol. Exactly one transaction is in flight at a time; mutual exclusion
// is structural (the idle wait at the top of each transaction), not lock
// based.
//
// None of the driver's waits carry a timeout. If the controller never makes
// the expected transition the driver blocks until the run's tick budget
// expires; the driver does not recover from a stuck controller.
type Driver struct {
	sig   *bus.Signals
	debug bus.DebugPort
	cfg   Config
	log   *slog.Logger
}

// NewDriver creates a driver over sig. The debug port is consumed solely for
// stretch timing.
func NewDriver(sig *bus.Signals, debug bus.DebugPort, cfg Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		sig:   sig,
		debug: debug,
		cfg:   cfg,
		log:   logger.With("component", "driver"),
	}
}

// Run consumes transactions from in and drives each onto the bus until the
// run ends. It polls the queue once per tick rather than blocking on it, so
// the tick lockstep is never stalled by an empty queue.
func (d *Driver) Run(task *sim.Task, in <-chan *Transaction) {
	// Acquire the first tick before touching any shared signal: outside a
	// granted slot another task may be running.
	if _, ok := task.Tick(); !ok {
		return
	}
	for {
		tx, ok := d.nextTransaction(task, in)
		if !ok {
			return
		}
		d.log.Debug("driving transaction", "tx", tx)
		if !d.drive(task, tx) {
			return
		}
		d.log.Debug("transaction complete", "tx", tx)
	}
}

// nextTransaction returns the next stimulus transaction, burning ticks while
// the queue is empty. Once the queue is closed and drained the driver parks,
// yielding every remaining tick, so the rest of the lockstep keeps running.
func (d *Driver) nextTransaction(task *sim.Task, in <-chan *Transaction) (*Transaction, bool) {
	for {
		select {
		case tx, ok := <-in:
			if !ok {
				for {
					if _, ok := task.Tick(); !ok {
						return nil, false
					}
				}
			}
			return tx, true
		default:
			if _, ok := task.Tick(); !ok {
				return nil, false
			}
		}
	}
}

// drive runs the signal protocol for one transaction. It returns false if the
// run ended mid-transaction.
func (d *Driver) drive(task *sim.Task, tx *Transaction) bool {
	// Idle wait: never start while the controller is held in reset or still
	// busy with a prior transaction.
	if !task.WaitUntil(func() bool { return !d.sig.Reset && !d.sig.Busy }) {
		return false
	}

	// Program the input registers. The controller samples them next tick.
	d.sig.Addr = tx.Addr
	d.sig.Op = tx.Op
	d.sig.DataIn = tx.Data
	d.sig.StretchReq = tx.Stretch
	if _, ok := task.Tick(); !ok {
		return false
	}

	// Start strobe: assert, wait for busy to rise, deassert. The controller
	// samples Start high for exactly one tick.
	d.sig.Start = true
	if !task.WaitUntil(func() bool { return d.sig.Busy }) {
		d.sig.Start = false
		return false
	}
	d.sig.Start = false

	// Stretch injection, keyed to the controller's debug state: assert the
	// hold line at the first tick the controller sits in its first
	// acknowledge slot, hold for the configured duration, release.
	if tx.Stretch {
		if !task.WaitUntil(func() bool { return d.debug.DebugState() == bus.StateAddrAck }) {
			return false
		}
		d.sig.StretchHold = true
		d.log.Debug("stretch hold asserted", "ticks", d.cfg.StretchHoldTicks)
		held := task.Hold(d.cfg.StretchHoldTicks)
		d.sig.StretchHold = false
		if !held {
			return false
		}
	}

	// Completion: done strobe, then busy clear, then one settle delay before
	// the next transaction is accepted.
	if !task.WaitUntil(func() bool { return d.sig.Done }) {
		return false
	}
	if !task.WaitUntil(func() bool { return !d.sig.Busy }) {
		return false
	}
	return task.Hold(d.cfg.SettleTicks)
}
