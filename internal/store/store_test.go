package store

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := New(fs, "/home/tester", "/app/reports")
	require.NoError(t, err)
	return s
}

func TestCursorRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.LoadCursor("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveCursor("AA:BB:CC:DD:EE:FF", "1234500"))

	mask, ok, err := s.LoadCursor("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1234500", mask)
}

func TestPinRoundTripAndDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SavePin("AA:BB:CC:DD:EE:FF", "12345670"))
	pin, ok, err := s.LoadPin("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "12345670", pin)

	require.NoError(t, s.DeletePin("AA:BB:CC:DD:EE:FF"))
	_, ok, err = s.LoadPin("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an already-absent pin is not an error.
	require.NoError(t, s.DeletePin("AA:BB:CC:DD:EE:FF"))
}

func TestSaveResultWritesTxtAndCSVWithHeader(t *testing.T) {
	s := newTestStore(t)
	when := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	cred := Credential{BSSID: "AA:BB:CC:DD:EE:FF", ESSID: "MyWiFi", WPSPin: "12345670", WPAPSK: "hunter2"}
	require.NoError(t, s.SaveResult(cred, when))

	txt, err := afero.ReadFile(s.fs, "/app/reports/stored.txt")
	require.NoError(t, err)
	assert.Contains(t, string(txt), "BSSID: AA:BB:CC:DD:EE:FF")
	assert.Contains(t, string(txt), "WPS PIN: 12345670")

	csvData, err := afero.ReadFile(s.fs, "/app/reports/stored.csv")
	require.NoError(t, err)
	lines := string(csvData)
	assert.Contains(t, lines, `"Date";"BSSID";"ESSID";"WPS PIN";"WPA PSK"`)
	assert.Contains(t, lines, `"MyWiFi"`)

	// A second save appends without re-writing the header.
	require.NoError(t, s.SaveResult(cred, when))
	csvData2, err := afero.ReadFile(s.fs, "/app/reports/stored.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(string(csvData2), `"Date"`))
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
		}
	}
	return count
}

func TestBSSIDKeyNormalization(t *testing.T) {
	assert.Equal(t, "AABBCCDDEEFF", bssidKey("aa:bb:cc:dd:ee:ff"))
	assert.Equal(t, "AABBCCDDEEFF", bssidKey("AA:BB:CC:DD:EE:FF"))
}
