package game

import (
	"fmt"
	"time"
)

// Clock records when a session started and finished. It never gates logic.
type Clock struct {
	now    func() time.Time
	start  time.Time
	finish time.Time
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Start() {
	c.start = c.now()
	c.finish = time.Time{}
}

func (c *Clock) Finish() {
	c.finish = c.now()
}

func (c *Clock) Reset() {
	c.start = time.Time{}
	c.finish = time.Time{}
}

// Elapsed is (finish or now) - (start or now); zero before Start.
func (c *Clock) Elapsed() time.Duration {
	if c.start.IsZero() {
		return 0
	}
	end := c.finish
	if end.IsZero() {
		end = c.now()
	}
	return end.Sub(c.start)
}

func (c *Clock) StartedAt() (time.Time, bool) {
	return c.start, !c.start.IsZero()
}

func (c *Clock) FinishedAt() (time.Time, bool) {
	return c.finish, !c.finish.IsZero()
}

// FormatElapsed renders a HUD time such as "1m 5s" or "42s".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	seconds := total % 60
	minutes := (total / 60) % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
