package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Orders tracks lifecycle transition volume for the admin dashboard.
type Orders struct {
	Created    Counter
	Processing Counter
	Shipped    Counter
}

func (o *Orders) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"orders_created":    o.Created.Load(),
		"orders_processing": o.Processing.Load(),
		"orders_shipped":    o.Shipped.Load(),
	}
}
