package driver

import "sync/atomic"

// Generation hands out request sequence numbers. An analysis is current
// only while no newer number has been issued; stale results are dropped
// by the caller instead of being published.
type Generation struct {
	cur atomic.Uint64
}

// Next issues a new number; it becomes the latest.
func (g *Generation) Next() uint64 { return g.cur.Add(1) }

// Current returns the latest issued number, 0 before the first Next.
func (g *Generation) Current() uint64 { return g.cur.Load() }

// IsLatest reports whether n is still the newest request.
func (g *Generation) IsLatest(n uint64) bool { return n != 0 && n == g.cur.Load() }
