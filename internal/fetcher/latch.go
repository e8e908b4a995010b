package fetcher

import (
	"sync/atomic"
	"time"

	"github.com/deusflow/vnnews/internal/metrics"
)

// Latch remembers that every provider failed so later requests can skip the
// network. It is safe for concurrent use. A zero cooldown keeps the latch set
// until Reset or process exit.
type Latch struct {
	cooldown time.Duration
	setAt    atomic.Int64 // unix nanos, 0 = not set
	now      func() time.Time
}

func NewLatch(cooldown time.Duration) *Latch {
	return &Latch{cooldown: cooldown, now: time.Now}
}

// Trip sets the latch. Concurrent trips keep the earliest timestamp.
func (l *Latch) Trip() {
	if l.setAt.CompareAndSwap(0, l.now().UnixNano()) {
		metrics.SetDegraded(true)
	}
}

// Active reports whether the latch is set, clearing it once the cooldown has passed.
func (l *Latch) Active() bool {
	set := l.setAt.Load()
	if set == 0 {
		return false
	}
	if l.cooldown > 0 && l.now().Sub(time.Unix(0, set)) >= l.cooldown {
		if l.setAt.CompareAndSwap(set, 0) {
			metrics.SetDegraded(false)
		}
		return false
	}
	return true
}

// Reset clears the latch.
func (l *Latch) Reset() {
	if l.setAt.Swap(0) != 0 {
		metrics.SetDegraded(false)
	}
}
