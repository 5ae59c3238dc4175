// Package pixie implements the Pixie Dust data record (component C3) and the
// pixiewps solver invocation (component C9).
//
// Grounded on PixiewpsData and Companion.__runPixiewps in
// original_source/src/wps_connection.py, restructured around exec.Cmd
// argument slices instead of a shell string so the recovered nonces and
// hashes — which originate from untrusted 802.11 frames — are never
// interpreted by a shell.
package pixie

import "strconv"

// DefaultKeyVersion is the WPS key_version field assumed absent an explicit
// "OS Version" attribute in the M-message stream.
const DefaultKeyVersion = 0x10

// Data accumulates the Diffie-Hellman public keys, nonces and hashes
// harvested from a WPS registration exchange that pixiewps needs to recover
// the PIN offline.
type Data struct {
	PKE     string
	PKR     string
	EHash1  string
	EHash2  string
	AuthKey string
	ENonce  string

	// Extended fields, required for the newer Broadcom/Ralink/MediaTek
	// algorithms.
	RNonce string
	EBSSID string

	// Chipset-specific optional fields.
	ESNonce string
	RSNonce string

	EManufacturer string
	EModel        string
	EVersion      string

	KeyVersion byte
}

// New returns a zeroed Data record with the default key version.
func New() Data {
	return Data{KeyVersion: DefaultKeyVersion}
}

// Clear resets d to its zero state, as when a new WPS exchange begins.
func (d *Data) Clear() {
	*d = New()
}

// GotBasic reports whether d holds everything required for a basic Pixie
// Dust attack.
func (d *Data) GotBasic() bool {
	return d.PKE != "" && d.PKR != "" && d.ENonce != "" &&
		d.AuthKey != "" && d.EHash1 != "" && d.EHash2 != ""
}

// GotAll is an alias for GotBasic, matching the original's naming.
func (d *Data) GotAll() bool { return d.GotBasic() }

// GotExtended reports whether d additionally holds the registrar nonce and
// BSSID needed by the newer, "advanced" algorithms.
func (d *Data) GotExtended() bool {
	return d.GotBasic() && d.RNonce != "" && d.EBSSID != ""
}

// Args builds the pixiewps argument vector for d. advanced includes the
// extended r-nonce/bssid arguments when available; fullRange appends
// --force to widen the search beyond pixiewps's default heuristics.
func (d *Data) Args(fullRange, advanced bool) []string {
	args := []string{
		"--pke", d.PKE,
		"--pkr", d.PKR,
		"--e-hash1", d.EHash1,
		"--e-hash2", d.EHash2,
		"--authkey", d.AuthKey,
		"--e-nonce", d.ENonce,
	}

	if advanced && d.GotExtended() {
		args = append(args, "--r-nonce", d.RNonce, "--bssid", d.EBSSID)
	}

	if d.ESNonce != "" {
		args = append(args, "--e-snonce", d.ESNonce)
	}
	if d.RSNonce != "" {
		args = append(args, "--r-snonce", d.RSNonce)
	}

	if d.KeyVersion != DefaultKeyVersion {
		args = append(args, "--wps-version", strconv.Itoa(int(d.KeyVersion)))
	}

	if d.EManufacturer != "" {
		args = append(args, "--vendor", d.EManufacturer)
	}

	if fullRange {
		args = append(args, "--force")
	}

	args = append(args, "--dh-small", "--mode", "3", "--verbosity", "3")
	return args
}
