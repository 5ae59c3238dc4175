// Package wpsevent classifies wpa_supplicant's WPS debug stream, one line
// at a time, into connection-state transitions and Pixie Dust data
// (component C7).
//
// Grounded line-for-line on Companion.__handle_wpas in
// original_source/src/wps_connection.py. That function tests substrings
// with plain "in" checks rather than compiled regexes, so this port does
// the same with strings.Contains — there's no hidden regex engine to
// recover here, just straightforward classification of a line-oriented
// debug log.
package wpsevent

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/raisul587/osup/internal/pixie"
	"github.com/raisul587/osup/internal/supplicant"
	"github.com/raisul587/osup/internal/wpsstate"
)

// Hexdump field lengths, in hex characters, asserted against wpa_supplicant's
// own debug output (byte length * 2).
const (
	nonceHexLen   = 16 * 2
	pubKeyHexLen  = 192 * 2
	authKeyHexLen = 32 * 2
	hashHexLen    = 32 * 2
)

// Outcome reports what a single line implied beyond the Connection/Data
// mutation: whether a transient condition occurred that the session
// orchestrator's retry policy should react to.
type Outcome struct {
	// Continue is always true: Handle only ever sees individual lines, and
	// the end of the debug stream is detected by the caller's read.
	Continue bool
	// Deauthenticated is set on an explicit deauthentication notification.
	Deauthenticated bool
	// Disconnected is set on a CTRL-EVENT-DISCONNECTED event.
	Disconnected bool
	// AssociationFailed is set when the driver rejected an association
	// attempt outright.
	AssociationFailed bool
	// Err is set to a *supplicant.ProtocolError when a debug-log field
	// didn't match the shape wpa_supplicant is documented to emit (a
	// parsing desync), rather than the field being silently dropped.
	Err error
}

// Parser classifies wpa_supplicant debug lines against one in-progress WPS
// exchange.
type Parser struct {
	Interface string
	Pixiemode bool
	PBCMode   bool

	Conn  *wpsstate.Connection
	Creds *pixie.Data

	log *zap.SugaredLogger
}

// New returns a Parser tied to conn/creds for the named interface.
func New(iface string, pixiemode, pbcMode bool, conn *wpsstate.Connection, creds *pixie.Data, log *zap.SugaredLogger) *Parser {
	return &Parser{
		Interface: iface,
		Pixiemode: pixiemode,
		PBCMode:   pbcMode,
		Conn:      conn,
		Creds:     creds,
		log:       log,
	}
}

// Handle classifies one debug line, mutating p.Conn/p.Creds and returning
// what the caller should do next.
func (p *Parser) Handle(line string) Outcome {
	out := Outcome{Continue: true}

	if strings.HasPrefix(line, "WPS: ") {
		out.Err = p.handleWPS(line)
		return out
	}

	switch {
	case strings.Contains(line, ": State: ") && strings.Contains(line, "-> SCANNING"):
		p.Conn.Status = "scanning"
		p.Conn.SetPhase(wpsstate.Scanning)

	case strings.Contains(line, "WPS-FAIL") && p.Conn.Status != "":
		p.Conn.Status = wpsstate.StatusWPSFail
		p.Conn.SetPhase(wpsstate.WPSFail)

	case strings.Contains(line, "Trying to authenticate with"):
		p.Conn.Status = "authenticating"
		p.Conn.SetPhase(wpsstate.Authenticating)
		if strings.Contains(line, "SSID") {
			p.Conn.ESSID = decodeESSID(line)
		}

	case strings.Contains(line, "Trying to associate with"):
		p.Conn.Status = "associating"
		p.Conn.SetPhase(wpsstate.Associating)
		if strings.Contains(line, "SSID") {
			p.Conn.ESSID = decodeESSID(line)
		}

	case strings.Contains(line, "Associated with") && strings.Contains(line, p.Interface):
		fields := strings.Fields(line)
		if len(fields) > 0 {
			p.Conn.BSSID = strings.ToUpper(fields[len(fields)-1])
		}

	case strings.Contains(line, "EAPOL: txStart"):
		p.Conn.Status = "eapol_start"

	case p.PBCMode && strings.Contains(line, "selected BSS "):
		rest := strings.SplitN(line, "selected BSS ", 2)[1]
		p.Conn.BSSID = strings.ToUpper(strings.Fields(rest)[0])

	case strings.Contains(line, "Deauthentication notification"):
		out.Deauthenticated = true

	case strings.Contains(line, "Association request to the driver failed"):
		out.AssociationFailed = true

	case strings.Contains(line, "CTRL-EVENT-DISCONNECTED"):
		out.Disconnected = true
	}

	return out
}

func (p *Parser) handleWPS(line string) error {
	body := strings.TrimPrefix(line, "WPS: ")
	var err error

	switch {
	case strings.Contains(body, "Building Message M"):
		n := parseMNumber(strings.SplitN(body, "Building Message M", 2)[1])
		p.Conn.LastMMessage = n
		p.Conn.SetPhase(wpsstate.MMessagePhase(n))

	case strings.Contains(body, "Received M"):
		n := parseMNumber(strings.SplitN(body, "Received M", 2)[1])
		p.Conn.LastMMessage = n
		p.Conn.SetPhase(wpsstate.MMessagePhase(n))

	case strings.Contains(body, "Received WSC_NACK"):
		p.Conn.Status = wpsstate.StatusNACK
		p.Conn.SetPhase(wpsstate.WPSFail)

	case strings.Contains(body, "Enrollee Nonce") && strings.Contains(body, "hexdump"):
		p.Creds.ENonce, err = requireHexLen("Enrollee Nonce", getHex(line), nonceHexLen)

	case strings.Contains(body, "DH own Public Key") && strings.Contains(body, "hexdump"):
		p.Creds.PKR, err = requireHexLen("DH own Public Key", getHex(line), pubKeyHexLen)

	case strings.Contains(body, "DH peer Public Key") && strings.Contains(body, "hexdump"):
		p.Creds.PKE, err = requireHexLen("DH peer Public Key", getHex(line), pubKeyHexLen)

	case strings.Contains(body, "AuthKey") && strings.Contains(body, "hexdump"):
		p.Creds.AuthKey, err = requireHexLen("AuthKey", getHex(line), authKeyHexLen)

	case strings.Contains(body, "E-Hash1") && strings.Contains(body, "hexdump"):
		p.Creds.EHash1, err = requireHexLen("E-Hash1", getHex(line), hashHexLen)

	case strings.Contains(body, "E-Hash2") && strings.Contains(body, "hexdump"):
		p.Creds.EHash2, err = requireHexLen("E-Hash2", getHex(line), hashHexLen)

	case strings.Contains(body, "Network Key") && strings.Contains(body, "hexdump"):
		p.Conn.Status = wpsstate.StatusGotPSK
		p.Conn.SetPhase(wpsstate.WPSDone)
		p.Conn.WPAPSK = decodePSK(getHex(line))

	case strings.Contains(body, "WPS-TIMEOUT"):
		p.Conn.SetPhase(wpsstate.WPSTimeout)

	case strings.Contains(body, "WPS-FAIL"):
		p.Conn.SetPhase(wpsstate.WPSFail)
	}

	if err != nil {
		return err
	}

	if p.Pixiemode {
		p.handlePixieExtras(body, line)
	}
	return nil
}

func (p *Parser) handlePixieExtras(body, line string) {
	switch {
	case strings.Contains(body, "Registrar Nonce") && strings.Contains(body, "hexdump"):
		p.Creds.RNonce = getHex(line)

	case strings.Contains(body, "Enrollee SNonce") && strings.Contains(body, "hexdump"):
		p.Creds.ESNonce = getHex(line)

	case strings.Contains(body, "Registrar SNonce") && strings.Contains(body, "hexdump"):
		p.Creds.RSNonce = getHex(line)

	case strings.Contains(body, "Manufacturer"):
		p.Creds.EManufacturer = fieldAfterColon(body)

	case strings.Contains(body, "Model Name"):
		p.Creds.EModel = fieldAfterColon(body)

	case strings.Contains(body, "Model Number"):
		p.Creds.EVersion = fieldAfterColon(body)

	case strings.Contains(body, "OS Version"):
		version := fieldAfterColon(body)
		if strings.Contains(version, "1.0") {
			p.Creds.KeyVersion = 0x10
		} else if strings.Contains(version, "2.0") {
			p.Creds.KeyVersion = 0x20
		}
	}
}

func parseMNumber(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, "D", ""))
	n, _ := strconv.Atoi(s)
	return n
}

func fieldAfterColon(s string) string {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// getHex extracts the hex payload from a wpa_supplicant hexdump debug line
// of the form "<label>: <description> hexdump(len=N): aa bb cc ...".
func getHex(line string) string {
	parts := strings.SplitN(line, ":", 4)
	if len(parts) < 3 {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(parts[2], " ", ""))
}

// requireHexLen returns h if it has exactly want hex characters. A field
// that doesn't match wpa_supplicant's documented hexdump length indicates a
// parsing desync — something this package's line-classification assumed
// about the debug stream's shape no longer holds — so it's surfaced as a
// hard *supplicant.ProtocolError rather than silently discarded, matching
// original_source's bare `assert(len(...) == N)` on each of these fields.
func requireHexLen(field, h string, want int) (string, error) {
	if len(h) != want {
		return "", &supplicant.ProtocolError{
			Detail: fmt.Sprintf("%s hexdump: want %d hex characters, got %d", field, want, len(h)),
		}
	}
	return h, nil
}

// decodePSK interprets a "Network Key" hexdump as the raw PSK bytes,
// decoding as UTF-8 with the replacement character standing in for any
// invalid byte sequence.
func decodePSK(h string) string {
	b, err := hex.DecodeString(h)
	if err != nil {
		return ""
	}
	return strings.ToValidUTF8(string(b), "�")
}

// decodeESSID extracts the single-quoted SSID out of a
// "...(SSID='name')..." style debug line and decodes wpa_supplicant's
// \xHH-escaped non-printable bytes back into raw bytes, interpreting the
// result as UTF-8 with invalid sequences replaced rather than rejected.
func decodeESSID(line string) string {
	parts := strings.Split(line, "'")
	if len(parts) < 3 {
		return ""
	}
	escaped := strings.Join(parts[1:len(parts)-1], "'")

	raw := make([]byte, 0, len(escaped))
	for i := 0; i < len(escaped); i++ {
		if escaped[i] == '\\' && i+3 < len(escaped) && escaped[i+1] == 'x' {
			if v, err := strconv.ParseUint(escaped[i+2:i+4], 16, 8); err == nil {
				raw = append(raw, byte(v))
				i += 3
				continue
			}
		}
		raw = append(raw, escaped[i])
	}

	return strings.ToValidUTF8(string(raw), "�")
}
