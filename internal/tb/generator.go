package tb

import (
	"log/slog"
	"math/rand"

	"github.com/roach88/busbench/internal/bus"
)

// Generator produces the scripted stimulus sequence: Count transactions, the
// even-indexed ones without clock stretching and the odd-indexed ones with it,
// all other fields randomized within the configured bounds. The generator
// never touches the bus; its only outputs are the queue and the log.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	log    *slog.Logger
	script []Transaction
}

// NewGenerator creates a generator seeded from cfg.Seed.
func NewGenerator(cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		log: logger.With("component", "generator"),
	}
}

// SetScript pins the generated transactions to the given sequence instead of
// randomizing them. Scenario files use this to make runs fully deterministic.
// Entries beyond cfg.Count are ignored; if the script is shorter than Count,
// the remaining transactions are randomized as usual.
func (g *Generator) SetScript(txs []Transaction) {
	g.script = txs
}

// Run produces the stimulus sequence onto out, logging each transaction before
// it is enqueued, and closes out when the sequence is complete. The send
// blocks if the queue is full.
func (g *Generator) Run(out chan<- *Transaction) {
	defer close(out)
	for i := 0; i < g.cfg.Count; i++ {
		tx := g.next(i)
		g.log.Info("generated transaction", "seq", i, "tx", tx)
		out <- tx
	}
}

func (g *Generator) next(i int) *Transaction {
	if i < len(g.script) {
		tx := g.script[i]
		return &tx
	}
	return &Transaction{
		Addr:    g.randIn(g.cfg.AddrMin, g.cfg.AddrMax),
		Op:      bus.OpWrite,
		Data:    g.randIn(g.cfg.DataMin, g.cfg.DataMax),
		Stretch: i%2 == 1,
	}
}

// randIn samples uniformly from [min, max].
func (g *Generator) randIn(min, max uint8) uint8 {
	return min + uint8(g.rng.Intn(int(max-min)+1))
}
