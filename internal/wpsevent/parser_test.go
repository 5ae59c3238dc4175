package wpsevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raisul587/osup/internal/pixie"
	"github.com/raisul587/osup/internal/supplicant"
	"github.com/raisul587/osup/internal/wpsstate"
)

func newTestParser(pixiemode bool) *Parser {
	conn := wpsstate.NewConnection(nil)
	return New("wlan0", pixiemode, false, conn, &pixie.Data{}, nil)
}

func TestFieldAfterColon(t *testing.T) {
	assert.Equal(t, "Some Corp", fieldAfterColon("Manufacturer: Some Corp"))
	assert.Equal(t, "", fieldAfterColon("no colon here"))
}

func TestDecodeESSID(t *testing.T) {
	got := decodeESSID(`wlan0: Trying to associate with aa:bb:cc:dd:ee:ff (SSID='My Net' freq=2412)`)
	assert.Equal(t, "My Net", got)
}

func TestDecodeESSIDEscaped(t *testing.T) {
	got := decodeESSID(`wlan0: Trying to associate with aa:bb:cc:dd:ee:ff (SSID='Caf\x65' freq=2412)`)
	assert.Equal(t, "Cafe", got)
}

func TestDecodePSK(t *testing.T) {
	// "hunter2" in hex
	got := decodePSK("68756E74657232")
	assert.Equal(t, "hunter2", got)
}

func TestDecodePSKInvalidHex(t *testing.T) {
	assert.Equal(t, "", decodePSK("zz"))
}

func TestGetHex(t *testing.T) {
	line := "WPS: Enrollee Nonce hexdump(len=16): 11 22 33 44 55 66 77 88 99 aa bb cc dd ee ff 00"
	got := getHex(line)
	assert.Equal(t, "112233445566778899AABBCCDDEEFF00", got)
}

func TestRequireHexLenOK(t *testing.T) {
	h, err := requireHexLen("Enrollee Nonce", "0011223344556677", 16)
	require.NoError(t, err)
	assert.Equal(t, "0011223344556677", h)
}

func TestRequireHexLenMismatchIsProtocolError(t *testing.T) {
	_, err := requireHexLen("Enrollee Nonce", "001122", 16)
	require.Error(t, err)

	var protoErr *supplicant.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Contains(t, protoErr.Detail, "Enrollee Nonce")
}

func TestHandleWPSFailRequiresPriorStatus(t *testing.T) {
	p := newTestParser(false)

	// Before any status has been set, a bare WPS-FAIL notice is ignored —
	// mirrors the original only treating this as a failure mid-exchange.
	p.Handle("wlan0: WPS-FAIL event")
	assert.Empty(t, p.Conn.Status)

	p.Handle("wlan0: Trying to authenticate with aa:bb:cc:dd:ee:ff (SSID='net' freq=2412)")
	require.Equal(t, "authenticating", p.Conn.Status)

	p.Handle("wlan0: WPS-FAIL event")
	assert.Equal(t, wpsstate.StatusWPSFail, p.Conn.Status)
}

func TestHandleHexdumpMismatchSurfacesErr(t *testing.T) {
	p := newTestParser(false)

	line := "WPS: Enrollee Nonce hexdump(len=16): 11 22 33 44"
	out := p.Handle(line)
	require.Error(t, out.Err)

	var protoErr *supplicant.ProtocolError
	require.ErrorAs(t, out.Err, &protoErr)
}

func TestHandleNetworkKeySetsGotPSK(t *testing.T) {
	p := newTestParser(false)

	line := "WPS: Network Key hexdump(len=7): 68 75 6e 74 65 72 32"
	out := p.Handle(line)
	require.NoError(t, out.Err)
	assert.Equal(t, wpsstate.StatusGotPSK, p.Conn.Status)
	assert.Equal(t, "hunter2", p.Conn.WPAPSK)
}

func TestHandleDeauthentication(t *testing.T) {
	p := newTestParser(false)
	out := p.Handle("wlan0: Deauthentication notification")
	assert.True(t, out.Deauthenticated)
}

func TestHandlePixieExtrasOnlyWhenPixiemode(t *testing.T) {
	p := newTestParser(false)
	p.Handle("WPS: Registrar Nonce - hexdump(len=16): aa bb cc dd ee ff 00 11 22 33 44 55 66 77 88 99")
	assert.Empty(t, p.Creds.RNonce)

	p2 := newTestParser(true)
	p2.Handle("WPS: Registrar Nonce - hexdump(len=16): aa bb cc dd ee ff 00 11 22 33 44 55 66 77 88 99")
	assert.NotEmpty(t, p2.Creds.RNonce)
}
