// Package store implements osup's on-disk persistence (component C10):
// bruteforce session cursors, memoized Pixie Dust PINs, and the
// cumulative credential reports.
//
// Grounded on Companion.__saveResult/__savePin and the
// sessions_dir/pixiewps_dir/reports_dir layout in
// original_source/src/wps_connection.py. Built on afero.Fs rather than
// direct os calls so the session/report layout can be exercised against an
// in-memory filesystem in tests, the way Brightgate's config-file handling
// tests swap in a MemMapFs.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// PersistError reports a failure reading or writing one of osup's on-disk
// artifacts: a bruteforce cursor, a memoized Pixie Dust PIN, or a
// credential report.
type PersistError struct {
	Op    string
	Path  string
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *PersistError) Unwrap() error { return e.Cause }

func fileAppendFlags() int {
	return os.O_APPEND | os.O_CREATE | os.O_WRONLY
}

// quoteAllCSVRow renders fields as a semicolon-delimited CSV row with every
// field quoted, matching Python's csv.QUOTE_ALL (encoding/csv only quotes
// fields that need it, so the original's always-quoted report format is
// built by hand here).
func quoteAllCSVRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ";") + "\n"
}

// Store roots every osup persistence path under a home directory
// (~/.OneShot/...) and a reports directory (<app root>/reports).
type Store struct {
	fs         afero.Fs
	sessionsDir string
	pixieDir    string
	reportsDir  string
}

// New returns a Store rooted at homeDir/.OneShot and reportsDir, creating
// both the sessions/ and pixiewps/ subdirectories.
func New(fs afero.Fs, homeDir, reportsDir string) (*Store, error) {
	base := filepath.Join(homeDir, ".OneShot")
	s := &Store{
		fs:          fs,
		sessionsDir: filepath.Join(base, "sessions"),
		pixieDir:    filepath.Join(base, "pixiewps"),
		reportsDir:  reportsDir,
	}
	if err := fs.MkdirAll(s.sessionsDir, 0o755); err != nil {
		return nil, &PersistError{Op: "creating directory", Path: s.sessionsDir, Cause: err}
	}
	if err := fs.MkdirAll(s.pixieDir, 0o755); err != nil {
		return nil, &PersistError{Op: "creating directory", Path: s.pixieDir, Cause: err}
	}
	return s, nil
}

// bssidKey normalizes a BSSID into the colon-stripped, uppercase form used
// as a filename stem throughout the original tool.
func bssidKey(bssid string) string {
	return strings.ToUpper(strings.ReplaceAll(bssid, ":", ""))
}

func (s *Store) sessionPath(bssid string) string {
	return filepath.Join(s.sessionsDir, bssidKey(bssid)+".run")
}

func (s *Store) pinPath(bssid string) string {
	return filepath.Join(s.pixieDir, bssidKey(bssid)+".run")
}

// LoadCursor returns the saved bruteforce mask for bssid, if any.
func (s *Store) LoadCursor(bssid string) (string, bool, error) {
	b, err := afero.ReadFile(s.fs, s.sessionPath(bssid))
	if err != nil {
		return "", false, nil
	}
	return strings.TrimSpace(string(b)), true, nil
}

// SaveCursor atomically persists mask as the bruteforce cursor for bssid,
// writing to a temp file and renaming over the final path so an interrupt
// mid-write can never leave a corrupt cursor.
func (s *Store) SaveCursor(bssid, mask string) error {
	return s.atomicWrite(s.sessionPath(bssid), []byte(mask))
}

// LoadPin returns a previously memoized Pixie Dust PIN for bssid, if any.
func (s *Store) LoadPin(bssid string) (string, bool, error) {
	b, err := afero.ReadFile(s.fs, s.pinPath(bssid))
	if err != nil {
		return "", false, nil
	}
	return strings.TrimSpace(string(b)), true, nil
}

// SavePin memoizes pin as the Pixie Dust result for bssid.
func (s *Store) SavePin(bssid, pin string) error {
	return s.atomicWrite(s.pinPath(bssid), []byte(pin))
}

// DeletePin removes a memoized PIN, e.g. once it has been confirmed to
// yield a PSK and no longer needs retrying.
func (s *Store) DeletePin(bssid string) error {
	path := s.pinPath(bssid)
	err := s.fs.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &PersistError{Op: "removing", Path: path, Cause: err}
	}
	return nil
}

func (s *Store) atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return &PersistError{Op: "writing", Path: tmp, Cause: err}
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return &PersistError{Op: "renaming into place", Path: path, Cause: err}
	}
	return nil
}

// Credential is one recovered set of WPS/WPA credentials, ready to append
// to the cumulative reports.
type Credential struct {
	BSSID  string
	ESSID  string
	WPSPin string
	WPAPSK string
}

// SaveResult appends c to reports/stored.txt (a human-readable log) and
// reports/stored.csv (semicolon-delimited, fully quoted, with a header
// written on first use), matching __saveResult's report format.
func (s *Store) SaveResult(c Credential, when time.Time) error {
	if err := s.fs.MkdirAll(s.reportsDir, 0o755); err != nil {
		return &PersistError{Op: "creating directory", Path: s.reportsDir, Cause: err}
	}

	dateStr := when.Format("02.01.2006 15:04")
	txtPath := filepath.Join(s.reportsDir, "stored.txt")
	entry := fmt.Sprintf("%s\nBSSID: %s\nESSID: %s\nWPS PIN: %s\nWPA PSK: %s\n\n",
		dateStr, c.BSSID, c.ESSID, c.WPSPin, c.WPAPSK)
	if err := s.appendFile(txtPath, entry); err != nil {
		return &PersistError{Op: "appending", Path: txtPath, Cause: err}
	}

	csvPath := filepath.Join(s.reportsDir, "stored.csv")
	if err := s.appendCSVRow(csvPath, dateStr, c); err != nil {
		return &PersistError{Op: "appending", Path: csvPath, Cause: err}
	}
	return nil
}

func (s *Store) appendFile(path, content string) error {
	f, err := s.fs.OpenFile(path, fileAppendFlags(), 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}

func (s *Store) appendCSVRow(path, dateStr string, c Credential) error {
	writeHeader := !s.exists(path)

	f, err := s.fs.OpenFile(path, fileAppendFlags(), 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if writeHeader {
		if _, err := f.WriteString(quoteAllCSVRow([]string{"Date", "BSSID", "ESSID", "WPS PIN", "WPA PSK"})); err != nil {
			return err
		}
	}
	_, err = f.WriteString(quoteAllCSVRow([]string{dateStr, c.BSSID, c.ESSID, c.WPSPin, c.WPAPSK}))
	return err
}

func (s *Store) exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}
