package errors

import (
	"sync"
)

// Collector gathers the non-fatal errors raised while one operation runs.
type Collector struct {
	errors []error
	mutex  sync.RWMutex
}

// NewCollector creates a new error collector
func NewCollector() *Collector {
	return &Collector{
		errors: make([]error, 0),
	}
}

// Add records err. Nil errors are ignored.
func (c *Collector) Add(err error) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errors = append(c.errors, err)
}

// Errors returns a copy of the collected errors in insertion order
func (c *Collector) Errors() []error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	result := make([]error, len(c.errors))
	copy(result, c.errors)
	return result
}

// HasErrors returns true if there are any errors
func (c *Collector) HasErrors() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.errors) > 0
}

// ByCode returns the collected errors carrying code
func (c *Collector) ByCode(code string) []error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	var matched []error
	for _, err := range c.errors {
		if GetErrorCode(err) == code {
			matched = append(matched, err)
		}
	}
	return matched
}

// Clear clears all errors
func (c *Collector) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errors = c.errors[:0]
}
