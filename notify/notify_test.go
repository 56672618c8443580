package notify

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCenter_AddAndList(t *testing.T) {
	c := NewCenter()
	c.Now = func() time.Time {
		return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	}

	c.Info("synced")
	c.Warn("sync issue")
	c.Error("gone wrong")

	items := c.List()
	require.Len(t, items, 3)
	require.Equal(t, LevelInfo, items[0].Level)
	require.Equal(t, "sync issue", items[1].Message)
	require.Equal(t, LevelError, items[2].Level)
	require.Equal(t, c.Now(), items[0].At)

	// List returns a copy.
	items[0].Message = "mutated"
	require.Equal(t, "synced", c.List()[0].Message)
}

func TestCenter_Drain(t *testing.T) {
	c := NewCenter()

	c.Info("one")
	c.Info("two")

	drained := c.Drain()
	require.Len(t, drained, 2)
	require.Empty(t, c.List())
}

func TestCenter_Bounded(t *testing.T) {
	c := NewCenter()

	for i := 0; i < defaultLimit+10; i++ {
		c.Info(fmt.Sprintf("message %d", i))
	}

	items := c.List()
	require.Len(t, items, defaultLimit)
	require.Equal(t, "message 10", items[0].Message)
}

func TestNotification_JSONRoundTrip(t *testing.T) {
	c := NewCenter()
	c.Now = func() time.Time {
		return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	}

	c.Warn("sync issue")

	data, err := json.Marshal(c.List())
	require.NoError(t, err)

	var decoded []Notification
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, c.List(), decoded)

	var level Level
	require.Error(t, level.UnmarshalText([]byte("shouting")))
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "info", LevelInfo.String())
	require.Equal(t, "warning", LevelWarning.String())
	require.Equal(t, "error", LevelError.String())
	require.Equal(t, "unknown(9)", Level(9).String())

	text, err := LevelWarning.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "warning", string(text))
}
