package clock

import (
	"sync"
	"time"
)

// Clock provides the time operations used by the tracker and scanner.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the duration since t.
	Since(t time.Time) time.Duration

	// NewTicker returns a Ticker that delivers ticks every d.
	NewTicker(d time.Duration) Ticker
}

// Ticker holds a channel that delivers ticks at intervals.
type Ticker interface {
	// C returns the channel on which the ticks are delivered.
	C() <-chan time.Time

	// Stop turns off the ticker.
	Stop()
}

// Real implements Clock using the standard time package.
type Real struct{}

// Now returns the current time.
func (Real) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t.
func (Real) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// NewTicker returns a new Ticker.
func (Real) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()               { t.ticker.Stop() }

// Mock is a manually controlled clock for testing.
type Mock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*MockTicker
}

// NewMock creates a Mock set to the given time.
func NewMock(t time.Time) *Mock {
	return &Mock{now: t}
}

// Now returns the mocked current time.
func (c *Mock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Since returns the duration since t.
func (c *Mock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Set sets the mock clock to a specific time without firing tickers.
func (c *Mock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d and fires any due tickers.
func (c *Mock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	tickers := append([]*MockTicker(nil), c.tickers...)
	c.mu.Unlock()

	for _, t := range tickers {
		t.checkAndFire(now)
	}
}

// NewTicker creates a MockTicker whose first tick is due d from now.
func (c *Mock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &MockTicker{
		ch:       make(chan time.Time, 1),
		interval: d,
		nextTick: c.now.Add(d),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// MockTicker is a manually controlled ticker for testing.
type MockTicker struct {
	mu       sync.Mutex
	ch       chan time.Time
	interval time.Duration
	nextTick time.Time
	stopped  bool
}

// C returns the ticker channel.
func (t *MockTicker) C() <-chan time.Time {
	return t.ch
}

// Stop turns off the ticker.
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop has been called.
func (t *MockTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *MockTicker) checkAndFire(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}

	if !now.Before(t.nextTick) {
		// Dropped if the previous tick has not been consumed, like time.Ticker.
		select {
		case t.ch <- now:
		default:
		}
		t.nextTick = now.Add(t.interval)
	}
}
