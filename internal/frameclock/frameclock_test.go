package frameclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

// sleep oversleeps by the spin margin, so Wait never has to spin.
func (c *fakeClock) sleep(d time.Duration)   { c.t = c.t.Add(d + 200*time.Microsecond) }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newLimiter(fps int) (*Limiter, *fakeClock) {
	c := &fakeClock{t: time.Unix(0, 0)}
	return &Limiter{limit: func() int { return fps }, now: c.now, sleep: c.sleep}, c
}

func TestUnlimitedNeverSleeps(t *testing.T) {
	l, c := newLimiter(0)
	start := c.t
	assert.Zero(t, l.Wait())
	c.advance(3 * time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, l.Wait())
	assert.Equal(t, start.Add(3*time.Millisecond), c.t)
}

func TestWaitPacesFrames(t *testing.T) {
	l, c := newLimiter(100)
	l.Wait()
	first := c.t
	c.advance(2 * time.Millisecond)
	dt := l.Wait()

	assert.GreaterOrEqual(t, c.t.Sub(first), 9*time.Millisecond)
	assert.Equal(t, c.t.Sub(first), dt)
}

func TestResyncAfterHitch(t *testing.T) {
	l, c := newLimiter(100)
	l.Wait()
	c.advance(time.Second)
	l.Wait()
	assert.True(t, l.next.After(c.t))
}
