package aputil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaceTrackerAllowsSlowTicks(t *testing.T) {
	p := NewPaceTracker(3, 10*time.Millisecond)
	for i := 0; i < 3; i++ {
		assert.NoError(t, p.Tick())
		time.Sleep(15 * time.Millisecond)
	}
}

func TestPaceTrackerRejectsBurst(t *testing.T) {
	p := NewPaceTracker(3, time.Second)
	assert.NoError(t, p.Tick())
	assert.NoError(t, p.Tick())
	assert.Error(t, p.Tick())
}

func TestFileExists(t *testing.T) {
	assert.True(t, FileExists("aputil.go"))
	assert.False(t, FileExists("does-not-exist.go"))
}
