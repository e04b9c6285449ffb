package scanner

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// emitInterval bounds how often interim snapshots are emitted.
const emitInterval = 50 * time.Millisecond

// Progress is one throttled snapshot of a running scan. Every snapshot is
// tagged with the session that produced it so consumers can drop events
// from superseded scans.
type Progress struct {
	Session        uuid.UUID
	CurrentPath    string
	ProcessedItems int64
	TotalItems     int64
	Percent        float64
}

// Reporter receives per-entry visit events from the walker and emits
// throttled Progress snapshots on a channel it owns and closes. Interim
// sends never block the walker; excess events are dropped. The terminal
// snapshot from Finish always reports exactly 100 percent and is never
// dropped.
type Reporter struct {
	session uuid.UUID
	ch      chan Progress

	processed atomic.Int64
	total     atomic.Int64
	lastEmit  atomic.Int64  // unix nanos of last interim emit
	highPct   atomic.Uint64 // float bits, keeps percent non-decreasing

	closeOnce sync.Once
}

// NewReporter creates a reporter for one scan session. totalEstimate may
// be revised upward if traversal overtakes it.
func NewReporter(session uuid.UUID, totalEstimate int64) *Reporter {
	if totalEstimate < 1 {
		totalEstimate = 1
	}
	r := &Reporter{
		session: session,
		ch:      make(chan Progress, 64),
	}
	r.total.Store(totalEstimate)
	return r
}

// Session returns the session identifier the reporter tags events with.
func (r *Reporter) Session() uuid.UUID {
	if r == nil {
		return uuid.Nil
	}
	return r.session
}

// Events returns the snapshot channel. It is closed by Finish or Abort.
func (r *Reporter) Events() <-chan Progress {
	if r == nil {
		return nil
	}
	return r.ch
}

// Visit records one resolved entry and emits a snapshot if enough time has
// passed since the last one. Safe for concurrent use by walker workers.
func (r *Reporter) Visit(path string) {
	if r == nil {
		return
	}

	n := r.processed.Add(1)
	for {
		t := r.total.Load()
		if n <= t || r.total.CompareAndSwap(t, n) {
			break
		}
	}

	now := time.Now().UnixNano()
	last := r.lastEmit.Load()
	if now-last < int64(emitInterval) {
		return
	}
	if !r.lastEmit.CompareAndSwap(last, now) {
		return // another worker won this tick
	}

	select {
	case r.ch <- r.snapshot(path, false):
	default:
		// Consumer is behind, drop
	}
}

// Finish emits the terminal 100-percent snapshot and closes the channel.
func (r *Reporter) Finish(path string) {
	if r == nil {
		return
	}
	r.closeOnce.Do(func() {
		n := r.processed.Load()
		r.total.Store(n)
		r.ch <- r.snapshot(path, true)
		close(r.ch)
	})
}

// Abort closes the channel without a terminal snapshot. Used when a scan
// is cancelled or superseded so no further events reach consumers.
func (r *Reporter) Abort() {
	if r == nil {
		return
	}
	r.closeOnce.Do(func() {
		close(r.ch)
	})
}

func (r *Reporter) snapshot(path string, final bool) Progress {
	n := r.processed.Load()
	t := r.total.Load()

	pct := 100.0
	if !final {
		pct = float64(n) / float64(t) * 100
		// Interim percent approaches but never reaches 100; only the
		// terminal snapshot reports completion.
		if pct > 99.9 {
			pct = 99.9
		}
		// Keep percent monotone even when the total estimate is
		// revised upward mid-scan.
		for {
			prev := r.highPct.Load()
			if pct <= math.Float64frombits(prev) {
				pct = math.Float64frombits(prev)
				break
			}
			if r.highPct.CompareAndSwap(prev, math.Float64bits(pct)) {
				break
			}
		}
	}

	return Progress{
		Session:        r.session,
		CurrentPath:    path,
		ProcessedItems: n,
		TotalItems:     t,
		Percent:        pct,
	}
}
