package wpsstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "WPS_M5", WPSM5.String())
	assert.Equal(t, "UNKNOWN", Phase(999).String())
}

func TestMMessagePhase(t *testing.T) {
	assert.Equal(t, WPSM1, MMessagePhase(1))
	assert.Equal(t, WPSM5, MMessagePhase(5))
	assert.Equal(t, WPSM8, MMessagePhase(8))
}

func TestIsFirstHalfValid(t *testing.T) {
	c := NewConnection(nil)
	assert.False(t, c.IsFirstHalfValid())
	c.LastMMessage = 5
	assert.False(t, c.IsFirstHalfValid())
	c.LastMMessage = 6
	assert.True(t, c.IsFirstHalfValid())
}

func TestSetPhaseNoopWhenUnchanged(t *testing.T) {
	c := NewConnection(nil)
	c.SetPhase(WPSM1)
	first := c.Phase
	c.SetPhase(WPSM1)
	assert.Equal(t, first, c.Phase)
}

func TestRetryBudget(t *testing.T) {
	c := NewConnection(nil)
	c.MaxRetries = 2
	assert.True(t, c.CanRetry())
	assert.True(t, c.IncrementRetry())
	assert.True(t, c.CanRetry())
	assert.False(t, c.IncrementRetry())
	assert.False(t, c.CanRetry())
}

func TestTimedOut(t *testing.T) {
	c := NewConnection(nil)
	c.Timeout = time.Millisecond
	time.Sleep(5 * time.Millisecond)
	assert.True(t, c.TimedOut())
}

func TestClearResetsState(t *testing.T) {
	c := NewConnection(nil)
	c.LastMMessage = 6
	c.Status = StatusGotPSK
	c.RetryCount = 2
	c.Clear()
	assert.Equal(t, 0, c.LastMMessage)
	assert.Equal(t, "", c.Status)
	assert.Equal(t, 0, c.RetryCount)
	assert.Equal(t, 3, c.MaxRetries)
}
