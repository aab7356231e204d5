// Package testutil provides deterministic helpers shared by package tests.
package testutil

// SignalTrace records one boolean signal's per-tick history, typically from a
// bench probe, and answers the edge/duration questions the timing properties
// are phrased in.
type SignalTrace struct {
	ticks  []int64
	values []bool
}

// Observe appends the signal's value at the given tick. Ticks are expected in
// increasing order.
func (s *SignalTrace) Observe(tick int64, v bool) {
	s.ticks = append(s.ticks, tick)
	s.values = append(s.values, v)
}

// Len returns the number of observations.
func (s *SignalTrace) Len() int {
	return len(s.values)
}

// RisingEdges returns the ticks at which the signal transitioned false→true.
// An initial true counts as an edge.
func (s *SignalTrace) RisingEdges() []int64 {
	var edges []int64
	prev := false
	for i, v := range s.values {
		if v && !prev {
			edges = append(edges, s.ticks[i])
		}
		prev = v
	}
	return edges
}

// Runs returns every maximal run of consecutive true observations as
// (startTick, length) pairs.
func (s *SignalTrace) Runs() [][2]int64 {
	var runs [][2]int64
	var start int64
	length := int64(0)
	for i, v := range s.values {
		if v {
			if length == 0 {
				start = s.ticks[i]
			}
			length++
			continue
		}
		if length > 0 {
			runs = append(runs, [2]int64{start, length})
			length = 0
		}
	}
	if length > 0 {
		runs = append(runs, [2]int64{start, length})
	}
	return runs
}

// EverTrue reports whether the signal was ever observed high.
func (s *SignalTrace) EverTrue() bool {
	for _, v := range s.values {
		if v {
			return true
		}
	}
	return false
}

// ValueAt returns the recorded value at the given tick, or false if the tick
// was never observed.
func (s *SignalTrace) ValueAt(tick int64) bool {
	for i, t := range s.ticks {
		if t == tick {
			return s.values[i]
		}
	}
	return false
}
