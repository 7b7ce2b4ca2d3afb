package render

import "time"

// Clock yields the time elapsed since its previous Tick.
type Clock interface {
	Tick() time.Duration
}

// FrameLimiter is a Clock that caps the tick rate. When Sleep is set, Tick
// blocks until at least one frame period has passed since the previous
// tick; otherwise it only measures.
type FrameLimiter struct {
	Period time.Duration
	Now    func() time.Time
	Sleep  func(time.Duration)

	last time.Time
}

// NewFrameLimiter creates a limiter for the given ticks per second.
// Pass sleep=false when something else (such as ebiten) already paces the loop.
func NewFrameLimiter(tps int, sleep bool) *FrameLimiter {
	if tps <= 0 {
		tps = 60
	}
	l := &FrameLimiter{
		Period: time.Second / time.Duration(tps),
		Now:    time.Now,
	}
	if sleep {
		l.Sleep = time.Sleep
	}
	return l
}

// Tick returns the time since the previous call. The first call returns zero.
func (l *FrameLimiter) Tick() time.Duration {
	now := l.Now()
	if l.last.IsZero() {
		l.last = now
		return 0
	}

	elapsed := now.Sub(l.last)
	if l.Sleep != nil && elapsed < l.Period {
		l.Sleep(l.Period - elapsed)
		now = l.Now()
		elapsed = now.Sub(l.last)
	}

	l.last = now
	return elapsed
}
