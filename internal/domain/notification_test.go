package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestNewNotification_DefaultsTypeToInfo(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	n := NewNotification("Hi", "Hello", "", clock)

	assert.Equal(t, "info", n.Type)
	assert.Equal(t, "2024-06-01T12:00:00Z", n.Timestamp)
}

func TestNewNotification_KeepsExplicitType(t *testing.T) {
	n := NewNotification("Hi", "Hello", "warning", clockwork.NewFakeClock())

	assert.Equal(t, "warning", n.Type)
}

func TestNewNotification_TimestampIsUTC(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	assert.NoError(t, err)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 14, 0, 0, 0, berlin))

	n := NewNotification("Hi", "Hello", "", clock)

	assert.Equal(t, "2024-06-01T12:00:00Z", n.Timestamp)
}

func TestUserRoom(t *testing.T) {
	assert.Equal(t, "user_42", UserRoom("42"))
	assert.Equal(t, "user_", UserRoom(""))
}
