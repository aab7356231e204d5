package tb

import (
	"log/slog"
	"sync"

	"github.com/roach88/busbench/internal/bus"
)

// Verdict is the scoreboard's classification of one observed transaction.
// Seq is the arrival position on the monitor→scoreboard queue, which is the
// only correlation with the original stimulus.
type Verdict struct {
	Seq     int    `json:"seq"`
	Addr    uint8  `json:"addr"`
	Op      bus.Op `json:"op"`
	Data    uint8  `json:"data"`
	Stretch bool   `json:"stretch"`
	AckErr  bool   `json:"ack_err"`
	Pass    bool   `json:"pass"`
}

// Scoreboard consumes observed transactions strictly in arrival order and
// classifies each: FAIL when the acknowledgement-failure flag was set, PASS
// otherwise. It performs no reconciliation against the stimulus beyond
// trusting queue order.
type Scoreboard struct {
	log *slog.Logger

	mu       sync.Mutex
	verdicts []Verdict
}

// NewScoreboard creates a scoreboard.
func NewScoreboard(logger *slog.Logger) *Scoreboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scoreboard{log: logger.With("component", "scoreboard")}
}

// Run drains in until it is closed, logging one pass/fail line per observed
// transaction and retaining the verdicts for later inspection.
func (s *Scoreboard) Run(in <-chan *Transaction) {
	seq := 0
	for tx := range in {
		v := Verdict{
			Seq:     seq,
			Addr:    tx.Addr,
			Op:      tx.Op,
			Data:    tx.Data,
			Stretch: tx.Stretch,
			AckErr:  tx.AckErr,
			Pass:    !tx.AckErr,
		}
		if v.Pass {
			s.log.Info("transaction passed",
				"seq", v.Seq, "addr", v.Addr, "op", v.Op, "data", v.Data, "stretch", v.Stretch)
		} else {
			s.log.Error("transaction failed: no acknowledgement",
				"seq", v.Seq, "addr", v.Addr, "op", v.Op)
		}
		s.mu.Lock()
		s.verdicts = append(s.verdicts, v)
		s.mu.Unlock()
		seq++
	}
}

// Verdicts returns a copy of the verdicts recorded so far.
func (s *Scoreboard) Verdicts() []Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Verdict, len(s.verdicts))
	copy(out, s.verdicts)
	return out
}
