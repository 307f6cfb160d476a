package pulsar

import "time"

// GameTime is the loop timing snapshot handed to Update and Draw.
// A new value is produced every tick; it is never mutated after being
// published.
type GameTime struct {
	// Elapsed is the time the previous frame took.
	Elapsed time.Duration
	// Total is the accumulated time since the loop started.
	Total time.Duration
}

// ElapsedSeconds returns Elapsed as fractional seconds.
func (t GameTime) ElapsedSeconds() float64 {
	return t.Elapsed.Seconds()
}

// ElapsedMillis returns Elapsed as fractional milliseconds.
func (t GameTime) ElapsedMillis() float64 {
	return float64(t.Elapsed) / float64(time.Millisecond)
}

// advance returns the GameTime that follows t after a frame of length d.
func (t GameTime) advance(d time.Duration) GameTime {
	return GameTime{Elapsed: d, Total: t.Total + d}
}

// Clock is the time source used to measure frames.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
