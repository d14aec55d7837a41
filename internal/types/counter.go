package types

import "sync/atomic"

// Counter - thread-safe incremental counter
type Counter struct {
	value *atomic.Int64
}

// NewCounter -
func NewCounter(initial int64) *Counter {
	c := &Counter{
		value: new(atomic.Int64),
	}
	c.value.Store(initial)
	return c
}

// Increment - increments counter and returns new value
func (c *Counter) Increment() int64 {
	return c.value.Add(1)
}

// Set -
func (c *Counter) Set(value int64) {
	c.value.Store(value)
}

// Value -
func (c *Counter) Value() int64 {
	return c.value.Load()
}
