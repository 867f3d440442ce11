package clock

import (
	"sync"
	"time"
)

// Clock fornece o horário atual. Serviços recebem um Clock em vez de chamar time.Now.
type Clock interface {
	Now() time.Time
}

// RealClock usa o relógio do sistema, em UTC.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FakeClock é um relógio controlado manualmente, usado em testes.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
