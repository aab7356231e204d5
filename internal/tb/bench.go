package tb

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/busbench/internal/bus"
	"github.com/roach88/busbench/internal/sim"
)

// Probe is a read-only per-tick observer. Probes run after every pipeline
// task within each tick, so they see the tick's final signal values. They
// must not write to the signals.
type Probe func(tick int64, sig *bus.Signals)

// Bench wires the pipeline to a controller and runs it for a fixed number of
// ticks. The per-tick task order is: reset supervisor, controller, driver,
// monitor, probes. The generator and scoreboard run as free goroutines on the
// two pipeline queues.
type Bench struct {
	cfg      Config
	log      *slog.Logger
	out      io.Writer

	sig    *bus.Signals
	ctrl   bus.Controller
	gen    *Generator
	sb     *Scoreboard
	probes []Probe
}

// NewBench builds a bench around the reference controller model.
func NewBench(cfg Config, modelCfg bus.ModelConfig, logger *slog.Logger) (*Bench, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bench config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	sig := &bus.Signals{}
	ctrl, err := bus.NewModel(sig, modelCfg)
	if err != nil {
		return nil, err
	}
	return &Bench{
		cfg:      cfg,
		log:      logger,
		out:      io.Discard,
		sig:      sig,
		ctrl:     ctrl,
		gen:      NewGenerator(cfg, logger),
		sb:       NewScoreboard(logger),
	}, nil
}

// SetOutput directs the completion banner to w. Defaults to discarding it.
func (b *Bench) SetOutput(w io.Writer) {
	b.out = w
}

// SetScript pins the generator to a fixed transaction sequence.
func (b *Bench) SetScript(txs []Transaction) {
	b.gen.SetScript(txs)
}

// AddProbe attaches a read-only per-tick observer. Must be called before Run.
func (b *Bench) AddProbe(p Probe) {
	b.probes = append(b.probes, p)
}

// Signals exposes the shared signal set for probes and tests. Writing to it
// from outside the pipeline while Run is in progress breaks the single-writer
// discipline.
func (b *Bench) Signals() *bus.Signals {
	return b.sig
}

// Run executes the fixed-length simulation and returns the scoreboard's
// verdicts in arrival order. Reset is asserted for cfg.ResetTicks at the
// start of the run. Run returns when the tick budget is spent or ctx is
// cancelled; every pipeline goroutine has exited by the time it returns.
func (b *Bench) Run(ctx context.Context) ([]Verdict, error) {
	sched := sim.NewScheduler()
	resetTask := sched.Register("reset")
	ctrlTask := sched.Register("controller")
	drvTask := sched.Register("driver")
	monTask := sched.Register("monitor")
	var probeTask *sim.Task
	if len(b.probes) > 0 {
		probeTask = sched.Register("probe")
	}

	// Queue A is sized so the generator's full sequence fits without
	// backpressure; queue B gets a small buffer and relies on the scoreboard
	// keeping up.
	queueA := make(chan *Transaction, b.cfg.Count+1)
	queueB := make(chan *Transaction, 8)

	drv := NewDriver(b.sig, b.ctrl, b.cfg, b.log)
	mon := NewMonitor(b.sig, b.log)

	// Reset is asserted before the first tick so the controller starts the
	// run held in reset.
	b.sig.Reset = true

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(ctx, b.cfg.RunTicks)
	})
	g.Go(func() error {
		b.runReset(resetTask)
		return nil
	})
	g.Go(func() error {
		for {
			tick, ok := ctrlTask.Tick()
			if !ok {
				return nil
			}
			b.ctrl.Tick(tick)
		}
	})
	g.Go(func() error {
		drv.Run(drvTask, queueA)
		return nil
	})
	g.Go(func() error {
		mon.Run(monTask, queueB)
		return nil
	})
	if probeTask != nil {
		g.Go(func() error {
			for {
				tick, ok := probeTask.Tick()
				if !ok {
					return nil
				}
				for _, p := range b.probes {
					p(tick, b.sig)
				}
			}
		})
	}
	g.Go(func() error {
		b.gen.Run(queueA)
		return nil
	})
	g.Go(func() error {
		b.sb.Run(queueB)
		return nil
	})

	err := g.Wait()

	verdicts := b.sb.Verdicts()
	passed := 0
	for _, v := range verdicts {
		if v.Pass {
			passed++
		}
	}
	b.log.Info("bench complete",
		"ticks", b.cfg.RunTicks, "checked", len(verdicts), "passed", passed)
	fmt.Fprintf(b.out, "Simulation complete: %d ticks, %d transactions checked, %d passed, %d failed.\n",
		b.cfg.RunTicks, len(verdicts), passed, len(verdicts)-passed)
	return verdicts, err
}

// runReset holds Reset for the configured window, releases it, then parks for
// the rest of the run.
func (b *Bench) runReset(task *sim.Task) {
	// The supervisor's slot precedes the controller's within a tick, so the
	// deassertion is written one tick past the window for the controller to
	// sample Reset high for exactly ResetTicks ticks.
	if !task.Hold(b.cfg.ResetTicks + 1) {
		return
	}
	b.sig.Reset = false
	for {
		if _, ok := task.Tick(); !ok {
			return
		}
	}
}
