package model

import "strings"

// CounterSnapshot maps normalized counter names to their values at one poll.
type CounterSnapshot map[string]int64

var counterNameReplacer = strings.NewReplacer(":", ".", " ", "_")

// NormalizeCounterName rewrites a raw fb303 counter name into metric naming
// convention: colons become dots and spaces become underscores.
func NormalizeCounterName(name string) string {
	return counterNameReplacer.Replace(name)
}

// NewCounterSnapshot builds a snapshot from raw counters, normalizing names.
// The result is never nil.
func NewCounterSnapshot(raw map[string]int64) CounterSnapshot {
	snap := make(CounterSnapshot, len(raw))
	for k, v := range raw {
		snap[NormalizeCounterName(k)] = v
	}
	return snap
}

// Deltas returns, for every counter in next, the difference to the same
// counter in prev. Counters absent from prev are diffed against zero.
// Negative results are kept: a remote restart shows up as a negative delta.
func (prev CounterSnapshot) Deltas(next CounterSnapshot) map[string]int64 {
	out := make(map[string]int64, len(next))
	for k, v := range next {
		out[k] = v - prev[k]
	}
	return out
}
