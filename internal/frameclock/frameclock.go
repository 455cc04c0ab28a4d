// Package frameclock paces the frame loop that triggers scene assembly.
package frameclock

import (
	"time"

	"scenegl/internal/config"
)

// Limiter caps the frame rate at config.GetFPSLimit.
type Limiter struct {
	next  time.Time
	last  time.Time
	limit func() int
	now   func() time.Time
	sleep func(time.Duration)
}

func New() *Limiter {
	return &Limiter{limit: config.GetFPSLimit, now: time.Now, sleep: time.Sleep}
}

// Wait blocks until the next frame is due and returns the time since the
// previous call. Sleeping stops short of the deadline and spins the rest,
// which holds high caps more precisely than sleeping alone.
func (l *Limiter) Wait() time.Duration {
	defer func() { l.last = l.now() }()

	limit := l.limit()
	if limit <= 0 {
		l.next = time.Time{}
		return l.elapsed()
	}

	target := time.Second / time.Duration(limit)
	if l.next.IsZero() {
		l.next = l.now().Add(target)
	} else {
		l.next = l.next.Add(target)
	}

	for {
		remaining := l.next.Sub(l.now())
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			l.sleep(remaining - 200*time.Microsecond)
		}
		if !l.now().Before(l.next) {
			break
		}
	}

	// Resync after a hitch instead of racing to catch up.
	if late := l.now().Sub(l.next); late > target {
		l.next = l.now().Add(target)
	}
	return l.elapsed()
}

func (l *Limiter) elapsed() time.Duration {
	if l.last.IsZero() {
		return 0
	}
	return l.now().Sub(l.last)
}
