package supplicant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToUTF8ReplacesInvalidBytes(t *testing.T) {
	got := toUTF8([]byte{'O', 'K', 0xff, 0xfe})
	assert.Equal(t, "OK��", got)
}

func TestToUTF8PassesThroughValidInput(t *testing.T) {
	assert.Equal(t, "FAIL-BUSY", toUTF8([]byte("FAIL-BUSY")))
}

func TestStartErrorUnwraps(t *testing.T) {
	cause := errors.New("no such file")
	err := &StartError{Op: "dialing control socket", Cause: cause}

	assert.Contains(t, err.Error(), "dialing control socket")
	assert.Contains(t, err.Error(), "no such file")
	assert.ErrorIs(t, err, cause)
}

func TestProtocolErrorWithoutCause(t *testing.T) {
	err := &ProtocolError{Detail: "wpa_supplicant exited: exit status 1"}
	assert.Equal(t, "wps protocol error: wpa_supplicant exited: exit status 1", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestProtocolErrorWithCause(t *testing.T) {
	cause := errors.New("short hexdump")
	err := &ProtocolError{Detail: "Enrollee Nonce hexdump: want 32 hex characters, got 6", Cause: cause}

	assert.Contains(t, err.Error(), "Enrollee Nonce")
	assert.Contains(t, err.Error(), "short hexdump")
	assert.ErrorIs(t, err, cause)
}
