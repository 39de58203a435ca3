package quota

import (
	"sync"
	"time"
)

// DefaultDailyLimit caps practice-item issuance per identity per
// calendar day.
const DefaultDailyLimit = 100

// Counter is the daily-quota service. Both implementations reset a
// key's count the first time it is touched on a new calendar day, and
// refuse increments at the limit.
type Counter interface {
	// TryIncrement consumes one unit of today's allowance for key.
	// Returns false, with the count unchanged, once the limit is
	// reached. The returned count is the value after the call.
	TryIncrement(key string) (allowed bool, count int, err error)
	// Count reports today's count for key without consuming allowance.
	Count(key string) (int, error)
	// Reset zeroes today's count for key. Administrative only.
	Reset(key string) error
	// Limit reports the configured daily limit.
	Limit() int
}

type entry struct {
	day   string
	count int
}

// MemoryCounter is the in-process Counter. Check-and-increment is
// serialized under one mutex so concurrent callers can never push a key
// past the limit.
type MemoryCounter struct {
	mu      sync.Mutex
	limit   int
	now     func() time.Time
	entries map[string]*entry
}

func NewMemoryCounter(limit int) *MemoryCounter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &MemoryCounter{
		limit:   limit,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// SetClock overrides the time source. Tests use this to simulate date
// rollover.
func (c *MemoryCounter) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *MemoryCounter) today() string {
	return c.now().Format("2006-01-02")
}

// rollover lazily resets a stale entry. Caller holds the mutex.
func (c *MemoryCounter) rollover(key string) *entry {
	day := c.today()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{day: day}
		c.entries[key] = e
	} else if e.day != day {
		e.day = day
		e.count = 0
	}
	return e
}

func (c *MemoryCounter) TryIncrement(key string) (bool, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.rollover(key)
	if e.count >= c.limit {
		return false, e.count, nil
	}
	e.count++
	return true, e.count, nil
}

func (c *MemoryCounter) Count(key string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollover(key).count, nil
}

func (c *MemoryCounter) Reset(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollover(key).count = 0
	return nil
}

func (c *MemoryCounter) Limit() int {
	return c.limit
}
