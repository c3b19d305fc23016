package timeutil

import (
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	start := c.Now()
	if c.Since(start) < 0 {
		t.Error("Since() went backwards")
	}
}

func TestMockClock(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(base)

	if !c.Now().Equal(base) {
		t.Errorf("Now() = %v, want %v", c.Now(), base)
	}

	c.Advance(90 * time.Second)
	if got := c.Since(base); got != 90*time.Second {
		t.Errorf("Since() after Advance = %v, want 90s", got)
	}

	c.Set(base.Add(-time.Minute))
	if got := c.Since(base); got != -time.Minute {
		t.Errorf("Since() after Set = %v, want -1m", got)
	}
}
