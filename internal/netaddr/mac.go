// Package netaddr parses and normalizes the 48-bit hardware addresses that
// every other component of osup keys off of: BSSIDs, station addresses, and
// the MAC-derived WPS pin algorithms.
package netaddr

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// InvalidMACError reports a MAC string that isn't 12 hex digits once
// separators are stripped.
type InvalidMACError struct {
	Input string
	Cause error
}

func (e *InvalidMACError) Error() string {
	return fmt.Sprintf("invalid MAC address %q: %v", e.Input, e.Cause)
}

func (e *InvalidMACError) Unwrap() error { return e.Cause }

// MAC is a 48-bit hardware address, stored canonically as an integer.
type MAC struct {
	val uint64
}

const macMask = (uint64(1) << 48) - 1

// FromUint64 builds a MAC from its canonical integer form, masking to 48
// bits.
func FromUint64(v uint64) MAC {
	return MAC{val: v & macMask}
}

// FromBytes builds a MAC from a 6-byte slice, highest octet first.
func FromBytes(b []byte) (MAC, error) {
	if len(b) != 6 {
		return MAC{}, &InvalidMACError{
			Input: fmt.Sprintf("% x", b),
			Cause: errors.Errorf("want 6 bytes, got %d", len(b)),
		}
	}
	buf := make([]byte, 8)
	copy(buf[2:], b)
	return MAC{val: binary.BigEndian.Uint64(buf)}, nil
}

// Parse accepts 12 contiguous hex digits, or colon/hyphen-separated octet
// pairs, case-insensitively.
func Parse(s string) (MAC, error) {
	cleaned := strings.NewReplacer(":", "", "-", "", " ", "").Replace(s)
	if len(cleaned) != 12 {
		return MAC{}, &InvalidMACError{
			Input: s,
			Cause: errors.Errorf("expected 12 hex digits, got %d characters", len(cleaned)),
		}
	}
	v, err := strconv.ParseUint(cleaned, 16, 64)
	if err != nil {
		return MAC{}, &InvalidMACError{Input: s, Cause: err}
	}
	return MAC{val: v}, nil
}

// Integer returns the canonical 48-bit integer form.
func (m MAC) Integer() uint64 { return m.val }

// Bytes returns the six-byte big-endian form.
func (m MAC) Bytes() [6]byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, m.val)
	var out [6]byte
	copy(out[:], buf[2:])
	return out
}

// HexUpper returns the 12-character uppercase hex form with no separators.
func (m MAC) HexUpper() string {
	b := m.Bytes()
	return fmt.Sprintf("%02X%02X%02X%02X%02X%02X", b[0], b[1], b[2], b[3], b[4], b[5])
}

// ColonForm returns the colon-separated hex form, e.g. "00:11:22:33:44:55".
func (m MAC) ColonForm() string {
	b := m.Bytes()
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[0], b[1], b[2], b[3], b[4], b[5])
}

// Add returns a new MAC offset by delta, wrapping within the 48-bit space.
// Used by the D-Link "+1" PIN variant, which increments the whole address
// before deriving the PIN.
func (m MAC) Add(delta int64) MAC {
	if delta >= 0 {
		return FromUint64(m.val + uint64(delta))
	}
	return FromUint64(m.val - uint64(-delta))
}

// OUI returns the uppercase 6-hex-digit vendor prefix.
func (m MAC) OUI() string {
	return m.HexUpper()[:6]
}
