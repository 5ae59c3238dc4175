package session

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tevino/abool"
	"go.uber.org/zap"

	"github.com/raisul587/osup/internal/pingen"
	"github.com/raisul587/osup/internal/pixie"
	"github.com/raisul587/osup/internal/store"
	"github.com/raisul587/osup/internal/supplicant"
	"github.com/raisul587/osup/internal/wpsstate"
)

func TestCandidatePinPadsAndChecksums(t *testing.T) {
	pin, err := candidatePin("1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pin != "12340002" {
		t.Fatalf("got %q, want %q", pin, "12340002")
	}
}

func TestCandidatePinFullMask(t *testing.T) {
	pin, err := candidatePin("1234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pin != "12345670" {
		t.Fatalf("got %q, want %q", pin, "12345670")
	}
}

func TestCandidatePinRejectsNonDigits(t *testing.T) {
	if _, err := candidatePin("12a4"); err == nil {
		t.Fatal("expected an error for a non-numeric mask")
	}
}

func TestContainsOK(t *testing.T) {
	cases := []struct {
		reply string
		want  bool
	}{
		{"OK\n", true},
		{"FAIL\n", false},
		{"", false},
		{"O", false},
	}
	for _, c := range cases {
		if got := containsOK(c.reply); got != c.want {
			t.Errorf("containsOK(%q) = %v, want %v", c.reply, got, c.want)
		}
	}
}

func TestExplainNotOK(t *testing.T) {
	got := explainNotOK("WPS_REG aa:bb:cc:dd:ee:ff 12345670", "UNKNOWN COMMAND")
	if got == "" {
		t.Fatal("expected a non-empty explanation")
	}

	generic := explainNotOK("WPS_CANCEL", "FAIL")
	if generic == got {
		t.Fatal("expected a distinct explanation for a non-WPS command")
	}
}

func TestHasPrefix(t *testing.T) {
	if !hasPrefix("WPS_REG aa:bb", "WPS_REG") {
		t.Fatal("expected prefix match")
	}
	if hasPrefix("WPS_PBC", "WPS_REG") {
		t.Fatal("expected no prefix match")
	}
	if hasPrefix("WPS", "WPS_REG") {
		t.Fatal("expected no match when s is shorter than prefix")
	}
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(afero.NewMemMapFs(), "/home", "/reports")
	require.NoError(t, err)
	return st
}

// newTestSession builds a Session without going through New, so tests don't
// need a real wpa_supplicant process: attempt/connect are left nil, so a
// test that reaches one it did not wire panics, and each test wires only the
// stand-in it needs.
func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	log := testLogger()
	s := &Session{
		opts:        opts,
		log:         log,
		store:       testStore(t),
		conn:        wpsstate.NewConnection(log),
		creds:       &pixie.Data{},
		interrupted: abool.NewBool(false),
	}
	s.creds.Clear()
	if s.opts.Prompter == nil {
		s.opts.Prompter = noopPrompter{}
	}
	return s
}

type noopPrompter struct{}

func (noopPrompter) Confirm(string) (bool, error) { return true, nil }

func (noopPrompter) SelectPin(c []pingen.Candidate) (string, error) {
	if len(c) == 0 {
		return "", nil
	}
	return c[0].Pin, nil
}

type stubPrompter struct {
	confirm    bool
	confirmErr error
	selectPin  string
	selectErr  error
}

func (p stubPrompter) Confirm(string) (bool, error) { return p.confirm, p.confirmErr }
func (p stubPrompter) SelectPin([]pingen.Candidate) (string, error) {
	return p.selectPin, p.selectErr
}

// TestSmartBruteforceRetriesOnWPSFail is the review's regression test for
// the WPS_FAIL-retry fix: a candidate mask that comes back WPS_FAIL must be
// attempted again, not abandoned for the next mask, mirroring
// __first_half_bruteforce's recursion onto the same f_half in
// original_source/src/wps_connection.py.
func TestSmartBruteforceRetriesOnWPSFail(t *testing.T) {
	s := newTestSession(t, Options{})

	var seenMasks []string
	calls := 0
	s.attempt = func(ctx context.Context, bssid, pin string, pixiemode, pbcMode, storePinOnFail bool) (bool, error) {
		calls++
		seenMasks = append(seenMasks, pin[:4])
		if calls == 1 {
			s.conn.Status = wpsstate.StatusWPSFail
			return false, nil
		}
		// Second attempt against the same mask: the retry succeeds.
		s.conn.Status = ""
		return true, nil
	}

	pin, ok, err := s.SmartBruteforce(context.Background(), "aa:bb:cc:dd:ee:ff", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, pin)

	require.Len(t, seenMasks, 2)
	assert.Equal(t, seenMasks[0], seenMasks[1], "expected the same candidate mask to be retried after WPS_FAIL")
}

func TestSmartBruteforceAdvancesOnPlainFailure(t *testing.T) {
	s := newTestSession(t, Options{})

	var seenMasks []string
	s.attempt = func(ctx context.Context, bssid, pin string, pixiemode, pbcMode, storePinOnFail bool) (bool, error) {
		seenMasks = append(seenMasks, pin[:4])
		if len(seenMasks) >= 3 {
			s.Interrupt()
		}
		// No WPS_FAIL status and no first-half success: ordinary advance.
		return false, nil
	}

	_, ok, err := s.SmartBruteforce(context.Background(), "aa:bb:cc:dd:ee:ff", "")
	require.NoError(t, err)
	assert.False(t, ok)

	require.Len(t, seenMasks, 3)
	assert.Equal(t, "0000", seenMasks[0])
	assert.Equal(t, "0001", seenMasks[1])
	assert.Equal(t, "0002", seenMasks[2])
}

func TestSecondHalfBruteforceRetriesOnWPSFail(t *testing.T) {
	s := newTestSession(t, Options{})
	bf := wpsstate.NewBruteforce(s.log)

	var seenMasks []string
	calls := 0
	s.attempt = func(ctx context.Context, bssid, pin string, pixiemode, pbcMode, storePinOnFail bool) (bool, error) {
		calls++
		seenMasks = append(seenMasks, pin[:7])
		if calls == 1 {
			s.conn.Status = wpsstate.StatusWPSFail
			return false, nil
		}
		s.conn.Status = ""
		return true, nil
	}

	pin, ok, err := s.secondHalfBruteforce(context.Background(), "aa:bb:cc:dd:ee:ff", "1234", bf)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, pin)

	require.Len(t, seenMasks, 2)
	assert.Equal(t, seenMasks[0], seenMasks[1])
}

func TestSingleConnectionPixiemodeReusesMemoizedPinOnConfirm(t *testing.T) {
	s := newTestSession(t, Options{Prompter: stubPrompter{confirm: true}})
	require.NoError(t, s.store.SavePin("aa:bb:cc:dd:ee:ff", "1234567"))

	var gotPin string
	s.connect = func(bssid, pin string, pixiemode, pbcMode bool) error {
		gotPin = pin
		return nil
	}

	ok, err := s.SingleConnection(context.Background(), "aa:bb:cc:dd:ee:ff", "", true, false, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "1234567", gotPin)
}

func TestSingleConnectionPixiemodeDeclinesMemoizedPin(t *testing.T) {
	s := newTestSession(t, Options{Prompter: stubPrompter{confirm: false}})
	require.NoError(t, s.store.SavePin("aa:bb:cc:dd:ee:ff", "1234567"))

	var gotPin string
	s.connect = func(bssid, pin string, pixiemode, pbcMode bool) error {
		gotPin = pin
		return nil
	}

	_, err := s.SingleConnection(context.Background(), "aa:bb:cc:dd:ee:ff", "", true, false, false)
	require.NoError(t, err)
	assert.NotEqual(t, "1234567", gotPin)
}

func TestSingleConnectionNonPixieUsesPrompterSelection(t *testing.T) {
	s := newTestSession(t, Options{Prompter: stubPrompter{selectPin: "98765432"}})

	var gotPin string
	s.connect = func(bssid, pin string, pixiemode, pbcMode bool) error {
		gotPin = pin
		return nil
	}

	_, err := s.SingleConnection(context.Background(), "aa:bb:cc:dd:ee:ff", "", false, false, false)
	require.NoError(t, err)
	assert.Equal(t, "98765432", gotPin)
}

func TestSingleConnectionPromptErrorPropagates(t *testing.T) {
	s := newTestSession(t, Options{Prompter: stubPrompter{selectErr: ErrUserAbort}})

	s.connect = func(bssid, pin string, pixiemode, pbcMode bool) error {
		t.Fatal("connect should not be reached when the prompter errors")
		return nil
	}

	_, err := s.SingleConnection(context.Background(), "aa:bb:cc:dd:ee:ff", "", false, false, false)
	assert.ErrorIs(t, err, ErrUserAbort)
}

// TestWpsConnectionHardFailsOnProtocolError drives a real wpsConnection
// against a scripted control socket and debug stream: a malformed hexdump
// line must abort the exchange immediately (review comment on
// requireHexLen), not be silently dropped.
func TestWpsConnectionHardFailsOnProtocolError(t *testing.T) {
	conn := &fakeCtrlConn{replies: [][]byte{[]byte("OK\n")}}

	badLine := "WPS: Enrollee Nonce hexdump(len=16): 11 22 33 44\n"
	ctrl := supplicant.NewTestController(conn, strings.NewReader(badLine), testLogger())

	s := newTestSession(t, Options{})
	s.ctrl = ctrl

	err := s.wpsConnection("aa:bb:cc:dd:ee:ff", "12345670", false, false)
	require.Error(t, err)

	var protoErr *supplicant.ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

// fakeCtrlConn is an in-memory stand-in for the wpa_supplicant control
// socket: Write is a no-op recorder, Read pops the next scripted reply.
type fakeCtrlConn struct {
	replies [][]byte
	idx     int
	writes  []string
}

func (f *fakeCtrlConn) Write(p []byte) (int, error) {
	f.writes = append(f.writes, string(p))
	return len(p), nil
}

func (f *fakeCtrlConn) Read(p []byte) (int, error) {
	if f.idx >= len(f.replies) {
		return 0, io.EOF
	}
	n := copy(p, f.replies[f.idx])
	f.idx++
	return n, nil
}

func (f *fakeCtrlConn) Close() error { return nil }
