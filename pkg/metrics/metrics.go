// Package metrics provides in-process counters for the engine.
//
// Counters are labelled and safe for concurrent use; values are read
// back with Value or Snapshot. There is no exposition endpoint in
// scope here, so the package stays a plain registry of atomics that a
// surrounding server can scrape or log as it sees fit.
package metrics

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrLabelCountMismatch is returned when the number of label values
// doesn't match the counter's defined labels.
var ErrLabelCountMismatch = errors.New("label count mismatch")

// Counter is a monotonically increasing metric with a fixed label set.
type Counter struct {
	name   string
	labels []string

	mu     sync.RWMutex
	values map[string]*atomic.Uint64
}

// NewCounter creates a counter with the given name and label names.
func NewCounter(name string, labels ...string) *Counter {
	return &Counter{
		name:   name,
		labels: labels,
		values: make(map[string]*atomic.Uint64),
	}
}

// Name returns the counter's name.
func (c *Counter) Name() string {
	return c.name
}

// Inc increments the counter for the given label values.
func (c *Counter) Inc(labelValues ...string) error {
	return c.Add(1, labelValues...)
}

// Add adds delta to the counter for the given label values.
func (c *Counter) Add(delta uint64, labelValues ...string) error {
	if len(labelValues) != len(c.labels) {
		return ErrLabelCountMismatch
	}
	key := labelKey(labelValues)

	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	if !ok {
		c.mu.Lock()
		if v, ok = c.values[key]; !ok {
			v = new(atomic.Uint64)
			c.values[key] = v
		}
		c.mu.Unlock()
	}
	v.Add(delta)
	return nil
}

// Value returns the current count for the given label values.
func (c *Counter) Value(labelValues ...string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.values[labelKey(labelValues)]; ok {
		return v.Load()
	}
	return 0
}

// Snapshot returns all label combinations and their counts. The keys
// join label values with "\x1f".
func (c *Counter) Snapshot() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		out[k] = v.Load()
	}
	return out
}

func labelKey(values []string) string {
	return strings.Join(values, "\x1f")
}
