package finder

import (
	"sync"
	"time"
)

// Debounce coalesces repeated triggers per key. Used to schedule remote
// resync attempts after failed persistence writes without hammering the
// collaborator on every mutation.
type Debounce struct {
	debounceDuration time.Duration

	evs   map[string]*time.Timer
	evsMu sync.Mutex
}

func NewDebounce(debounceDuration time.Duration) *Debounce {
	return &Debounce{
		debounceDuration: debounceDuration,
		evs:              map[string]*time.Timer{},
	}
}

// Add schedules keyFunc for key. Adding the same key again before it
// fires resets the timer.
func (d *Debounce) Add(key string, keyFunc func(key string)) {
	d.evsMu.Lock()
	defer d.evsMu.Unlock()

	existing, ok := d.evs[key]
	if !ok {
		funcTimer := time.AfterFunc(d.debounceDuration, func() {
			d.evsMu.Lock()
			delete(d.evs, key)
			d.evsMu.Unlock()

			keyFunc(key)
		})

		d.evs[key] = funcTimer
		return
	}

	existing.Reset(d.debounceDuration)
}

// Stop cancels all pending triggers.
func (d *Debounce) Stop() {
	d.evsMu.Lock()
	defer d.evsMu.Unlock()

	for key, timer := range d.evs {
		timer.Stop()
		delete(d.evs, key)
	}
}
