package pixie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBasic() Data {
	d := New()
	d.PKE = "aa"
	d.PKR = "bb"
	d.EHash1 = "cc"
	d.EHash2 = "dd"
	d.AuthKey = "ee"
	d.ENonce = "ff"
	return d
}

func TestGotBasicRequiresAllSixFields(t *testing.T) {
	d := New()
	assert.False(t, d.GotBasic())

	d = sampleBasic()
	assert.True(t, d.GotBasic())
	assert.True(t, d.GotAll())
}

func TestGotExtendedRequiresRNonceAndBSSID(t *testing.T) {
	d := sampleBasic()
	assert.False(t, d.GotExtended())

	d.RNonce = "11"
	assert.False(t, d.GotExtended())

	d.EBSSID = "AABBCCDDEEFF"
	assert.True(t, d.GotExtended())
}

func TestArgsBasicCommand(t *testing.T) {
	d := sampleBasic()
	args := d.Args(false, true)
	assert.Equal(t, []string{
		"--pke", "aa",
		"--pkr", "bb",
		"--e-hash1", "cc",
		"--e-hash2", "dd",
		"--authkey", "ee",
		"--e-nonce", "ff",
		"--dh-small", "--mode", "3", "--verbosity", "3",
	}, args)
}

func TestArgsIncludesExtendedFieldsWhenAdvanced(t *testing.T) {
	d := sampleBasic()
	d.RNonce = "11"
	d.EBSSID = "AABBCCDDEEFF"

	args := d.Args(false, true)
	assert.Contains(t, args, "--r-nonce")
	assert.Contains(t, args, "--bssid")
}

func TestArgsOmitsExtendedFieldsWhenNotAdvanced(t *testing.T) {
	d := sampleBasic()
	d.RNonce = "11"
	d.EBSSID = "AABBCCDDEEFF"

	args := d.Args(false, false)
	assert.NotContains(t, args, "--r-nonce")
	assert.NotContains(t, args, "--bssid")
}

func TestArgsForceFlag(t *testing.T) {
	d := sampleBasic()
	args := d.Args(true, true)
	assert.Contains(t, args, "--force")
}

func TestArgsOptionalChipsetFields(t *testing.T) {
	d := sampleBasic()
	d.ESNonce = "aa11"
	d.RSNonce = "bb22"
	d.KeyVersion = 0x20
	d.EManufacturer = "Ragnarok Systems"

	args := d.Args(false, true)
	assert.Contains(t, args, "--e-snonce")
	assert.Contains(t, args, "--r-snonce")
	assert.Contains(t, args, "--wps-version")
	assert.Contains(t, args, "32")
	assert.Contains(t, args, "--vendor")
	assert.Contains(t, args, "Ragnarok Systems")
}

func TestClearResetsToDefaults(t *testing.T) {
	d := sampleBasic()
	d.Clear()
	assert.Equal(t, New(), d)
}

func TestParsePin(t *testing.T) {
	out := "[*] Pixiewps 1.4\n\n [+] WPS pin: 12345670\n\n[+] WPS pin not found\n"
	assert.Equal(t, "12345670", parsePin(out))
}

func TestParsePinEmptyMarker(t *testing.T) {
	out := "[+] WPS pin: <empty>\n"
	assert.Equal(t, "''", parsePin(out))
}

func TestParsePinNoMatch(t *testing.T) {
	assert.Equal(t, "", parsePin("[-] WPS pin not found\n"))
}
