// Package wpsstate tracks the WPS registration protocol's phase machine
// (component C4) and the bruteforce session's progress statistics
// (component C5).
//
// Grounded on WPSState/ConnectionStatus in
// original_source/src/wps_connection.py.
package wpsstate

import (
	"time"

	"go.uber.org/zap"
)

// Phase enumerates every state the registration exchange passes through.
type Phase int

const (
	Idle Phase = iota
	Scanning
	Authenticating
	Associating
	WPSStart
	WPSM1
	WPSM2
	WPSM3
	WPSM4
	WPSM5
	WPSM6
	WPSM7
	WPSM8
	WPSDone
	WPSFail
	WPSTimeout
)

var phaseNames = map[Phase]string{
	Idle:           "IDLE",
	Scanning:       "SCANNING",
	Authenticating: "AUTHENTICATING",
	Associating:    "ASSOCIATING",
	WPSStart:       "WPS_START",
	WPSM1:          "WPS_M1",
	WPSM2:          "WPS_M2",
	WPSM3:          "WPS_M3",
	WPSM4:          "WPS_M4",
	WPSM5:          "WPS_M5",
	WPSM6:          "WPS_M6",
	WPSM7:          "WPS_M7",
	WPSM8:          "WPS_M8",
	WPSDone:        "WPS_DONE",
	WPSFail:        "WPS_FAIL",
	WPSTimeout:     "WPS_TIMEOUT",
}

// String renders p the way the original tool logs phase transitions.
func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "UNKNOWN"
}

// MMessagePhase maps an M-message number (1..8) to its Phase.
func MMessagePhase(n int) Phase {
	return WPSM1 + Phase(n-1)
}

// Terminal statuses, mirrored from the original's free-form status string.
// Connection.Status also holds non-terminal progress strings set by the
// event parser ("scanning", "authenticating", ...); these three are the
// terminal ones.
const (
	StatusNACK    = "WSC_NACK"
	StatusWPSFail = "WPS_FAIL"
	StatusGotPSK  = "GOT_PSK"
)

// Connection tracks one WPS registration attempt: its current phase,
// terminal status, and the credentials recovered if it succeeds.
type Connection struct {
	Phase        Phase
	Status       string
	LastMMessage int
	ESSID        string
	WPAPSK       string
	BSSID        string

	RetryCount int
	MaxRetries int
	Timeout    time.Duration

	lastPhaseChange time.Time
	log             *zap.SugaredLogger
}

// NewConnection returns a Connection in its idle state, with the default
// retry budget and 30 second per-phase timeout.
func NewConnection(log *zap.SugaredLogger) *Connection {
	return &Connection{
		MaxRetries:      3,
		Timeout:         30 * time.Second,
		lastPhaseChange: time.Now(),
		log:             log,
	}
}

// Clear resets c to its initial idle state.
func (c *Connection) Clear() {
	*c = *NewConnection(c.log)
}

// IsFirstHalfValid reports whether the exchange has progressed past M5,
// meaning the enrollee accepted the PIN's first half.
func (c *Connection) IsFirstHalfValid() bool {
	return c.LastMMessage > 5
}

// SetPhase transitions c to phase, logging the change and resetting the
// per-phase timeout clock. A no-op if already in phase.
func (c *Connection) SetPhase(phase Phase) {
	if phase == c.Phase {
		return
	}
	c.Phase = phase
	c.lastPhaseChange = time.Now()
	if c.log != nil {
		c.log.Infof("state changed to: %s", phase)
	}
}

// TimedOut reports whether the current phase has been held longer than
// c.Timeout.
func (c *Connection) TimedOut() bool {
	return time.Since(c.lastPhaseChange) > c.Timeout
}

// CanRetry reports whether another retry is still within budget.
func (c *Connection) CanRetry() bool {
	return c.RetryCount < c.MaxRetries
}

// IncrementRetry consumes one retry and returns whether any remain.
func (c *Connection) IncrementRetry() bool {
	c.RetryCount++
	return c.CanRetry()
}
