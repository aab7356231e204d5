package tb

import (
	"log/slog"

	"github.com/roach88/busbench/internal/bus"
	"github.com/roach88/busbench/internal/sim"
)

// Monitor passively samples the bus every tick and emits one observed
// Transaction per completion edge. It writes nothing to the bus.
type Monitor struct {
	sig *bus.Signals
	log *slog.Logger
}

// NewMonitor creates a monitor over sig.
func NewMonitor(sig *bus.Signals, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{sig: sig, log: logger.With("component", "monitor")}
}

// Run samples Done once per tick and edge-detects the 0→1 transition against
// the previous tick's value, so a Done that stays high cannot double-emit and
// a one-tick pulse cannot be missed. On each edge it constructs a fresh
// observed Transaction from live signal values and sends it on out; the send
// assumes the scoreboard drains at least as fast as completions occur. out is
// closed when the run ends.
func (m *Monitor) Run(task *sim.Task, out chan<- *Transaction) {
	defer close(out)
	prev := false
	for {
		tick, ok := task.Tick()
		if !ok {
			return
		}
		cur := m.sig.Done
		if cur && !prev {
			obs := &Transaction{
				Addr:    m.sig.Addr,
				Op:      m.sig.Op,
				Stretch: m.sig.StretchReq,
				AckErr:  m.sig.AckErr,
			}
			// The payload that matters depends on direction: the input
			// register for writes, the controller's output for reads.
			if obs.Op == bus.OpRead {
				obs.Data = m.sig.DataOut
			} else {
				obs.Data = m.sig.DataIn
			}
			m.log.Debug("completion observed", "tick", tick, "tx", obs)
			out <- obs
		}
		prev = cur
	}
}
