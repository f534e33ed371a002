package game

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClock_Elapsed(t *testing.T) {
	fc := newFakeClock()
	c := NewClock(fc.Now)

	fc.Advance(time.Minute)
	if c.Elapsed() != 0 {
		t.Errorf("elapsed before start should be zero, got %v", c.Elapsed())
	}

	c.Start()
	fc.Advance(3 * time.Second)
	if c.Elapsed() != 3*time.Second {
		t.Errorf("expected 3s while running, got %v", c.Elapsed())
	}

	c.Finish()
	fc.Advance(10 * time.Second)
	if c.Elapsed() != 3*time.Second {
		t.Errorf("elapsed should freeze at finish, got %v", c.Elapsed())
	}

	c.Reset()
	if _, ok := c.StartedAt(); ok {
		t.Error("Reset should clear the start time")
	}
	if _, ok := c.FinishedAt(); ok {
		t.Error("Reset should clear the finish time")
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                     "0s",
		42 * time.Second:                      "42s",
		65*time.Second + 900*time.Millisecond: "1m 5s",
		61 * time.Minute:                      "1m 0s",
		-time.Second:                          "0s",
	}
	for d, want := range cases {
		if got := FormatElapsed(d); got != want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", d, got, want)
		}
	}
}
