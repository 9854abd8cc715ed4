package core

// TimeSource reports a monotonic time in seconds.
type TimeSource func() float64

type Clock struct {
	source    TimeSource
	startTime float64
	elapsed   float64
	lastTick  float64
	running   bool
}

func NewClock(source TimeSource) *Clock {
	return &Clock{source: source}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if c.running {
		c.elapsed = c.source() - c.startTime
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.source()
	c.elapsed = 0
	c.running = true
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.running = false
}

// Elapsed returns the seconds between Start and the last Update.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// Tick returns the seconds since the previous Tick and records the current
// time as the new reference. The first Tick measures from time zero of the
// source, which is how the window layer reports its own start.
func (c *Clock) Tick() float64 {
	now := c.source()
	delta := now - c.lastTick
	c.lastTick = now
	return delta
}
