// Package calendar houses implementations of core.CalendarService. The
// production deployment points at a real scheduling backend; InMemory
// serves tests and the demo daemon.
package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/celtia/supportbot/core"
)

type event struct {
	id          string
	summary     string
	description string
	start       time.Time
	end         time.Time
}

// InMemory is a volatile core.CalendarService storing events in process
// memory. Safe for concurrent use.
type InMemory struct {
	mu     sync.RWMutex
	events []event
}

// NewInMemory constructs an empty in-memory calendar.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// IsSlotFree reports whether no stored event overlaps [start, end).
func (c *InMemory) IsSlotFree(_ context.Context, start, end time.Time) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ev := range c.events {
		if start.Before(ev.end) && ev.start.Before(end) {
			return false, nil
		}
	}
	return true, nil
}

// CreateEvent stores the event and returns its generated id. Availability
// is not re-checked here; callers race-check with IsSlotFree first, which
// matches the at-most-one-message-in-flight-per-conversation model.
func (c *InMemory) CreateEvent(_ context.Context, summary, description string, start, end time.Time) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev := event{
		id:          uuid.NewString(),
		summary:     summary,
		description: description,
		start:       start,
		end:         end,
	}
	c.events = append(c.events, ev)
	return ev.id, nil
}

// Len returns the number of stored events.
func (c *InMemory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

var _ core.CalendarService = (*InMemory)(nil)
