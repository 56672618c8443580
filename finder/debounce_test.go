package finder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebounce_Coalesces(t *testing.T) {
	d := NewDebounce(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	fired := map[string]int{}
	record := func(key string) {
		mu.Lock()
		fired[key]++
		mu.Unlock()
	}

	for i := 0; i < 5; i++ {
		d.Add("structure", record)
	}
	d.Add("folders", record)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired["structure"] == 1 && fired["folders"] == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDebounce_Stop(t *testing.T) {
	d := NewDebounce(20 * time.Millisecond)

	var mu sync.Mutex
	var fired int
	d.Add("key", func(string) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	d.Stop()
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, fired)
}

func TestDebounce_FiresAgainAfterCompletion(t *testing.T) {
	d := NewDebounce(10 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var fired int
	record := func(string) {
		mu.Lock()
		fired++
		mu.Unlock()
	}

	d.Add("key", record)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired == 1
	}, time.Second, 5*time.Millisecond)

	d.Add("key", record)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired == 2
	}, time.Second, 5*time.Millisecond)
}
