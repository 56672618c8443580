// Package notify collects non-blocking user-facing notifications, mostly
// transient persistence warnings.
package notify

import (
	"fmt"
	"sync"
	"time"
)

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

type Level int

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*l = LevelInfo
	case "warning":
		*l = LevelWarning
	case "error":
		*l = LevelError
	default:
		return fmt.Errorf("unknown notification level %q", text)
	}

	return nil
}

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Center keeps a bounded in-memory feed of notifications. Oldest entries
// are dropped once the limit is reached.
type Center struct {
	items   []Notification
	itemsMu sync.Mutex
	limit   int

	Now func() time.Time
}

const defaultLimit = 100

func NewCenter() *Center {
	return &Center{
		limit: defaultLimit,
		Now:   time.Now,
	}
}

func (c *Center) Info(message string) {
	c.add(LevelInfo, message)
}

func (c *Center) Warn(message string) {
	c.add(LevelWarning, message)
}

func (c *Center) Error(message string) {
	c.add(LevelError, message)
}

func (c *Center) add(level Level, message string) {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()

	c.items = append(c.items, Notification{
		Level:   level,
		Message: message,
		At:      c.Now(),
	})

	if len(c.items) > c.limit {
		c.items = c.items[len(c.items)-c.limit:]
	}
}

// List returns a copy of the current feed, oldest first.
func (c *Center) List() []Notification {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()

	items := make([]Notification, len(c.items))
	copy(items, c.items)

	return items
}

// Drain returns the feed and clears it.
func (c *Center) Drain() []Notification {
	c.itemsMu.Lock()
	defer c.itemsMu.Unlock()

	items := c.items
	c.items = nil

	return items
}
