// Package supplicant drives a wpa_supplicant child process through its Unix
// datagram control socket (component C6).
//
// The control-socket wait loop is grounded on hostapdConn.connect() in
// ap.wifid/hostapd.go: poll for the peer's socket file, then dial a fresh
// local unixgram socket against it. Unlike hostapd's connection, which
// manages a queue of in-flight commands across many virtual APs, osup talks
// to a single wpa_supplicant instance synchronously — one command in
// flight at a time — which is how Companion.sendAndReceive behaves in
// original_source/src/wps_connection.py, so no command queue is needed
// here.
package supplicant

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/satori/uuid"
	"go.uber.org/zap"
)

// StartError reports a failure bringing up the wpa_supplicant child process
// or its control socket — anything between the initial scratch-dir setup
// and the first successful dial.
type StartError struct {
	Op    string
	Cause error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("starting wpa_supplicant: %s: %v", e.Op, e.Cause)
}

func (e *StartError) Unwrap() error { return e.Cause }

// ProtocolError reports a wpa_supplicant exchange that didn't match the
// shape this package expects: the control process exiting unexpectedly, or
// (via wpsevent, which constructs these directly) a debug-log hexdump field
// of the wrong length. Distinct from a plain I/O error, which means the
// socket or pipe itself failed rather than the protocol on top of it.
type ProtocolError struct {
	Detail string
	Cause  error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("wps protocol error: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("wps protocol error: %s", e.Detail)
}

func (e *ProtocolError) Unwrap() error { return e.Cause }

// pollInterval is how often we check for the control socket file to appear
// after spawning wpa_supplicant.
const pollInterval = 100 * time.Millisecond

// recvBufSize bounds a single control-socket datagram, matching the
// original's 4096-byte recvfrom buffer.
const recvBufSize = 4096

// DefaultDrivers is the wpa_supplicant -D driver list used absent an
// override, matching the original tool's default.
const DefaultDrivers = "nl80211,wext,hostapd,wired"

// ctrlConn is the subset of *net.UnixConn the Controller actually uses.
// Narrowing it to an interface lets tests substitute an in-memory control
// socket instead of dialing a real wpa_supplicant process.
type ctrlConn interface {
	io.ReadWriteCloser
}

// Controller owns a wpa_supplicant child process and the control socket
// used to drive it.
type Controller struct {
	Interface string

	tempDir  string
	confPath string
	ctrlPath string

	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader

	conn       ctrlConn
	localPath  string
	remotePath string

	log *zap.SugaredLogger
}

// NewTestController returns a Controller wired to an already-connected conn
// and a debug-stream reader, skipping the process spawn and control-socket
// handshake in Start. Exported for internal/session's tests, which exercise
// the WPS state machine against a scripted control socket and debug stream
// rather than a live wpa_supplicant.
func NewTestController(conn io.ReadWriteCloser, debugStream io.Reader, log *zap.SugaredLogger) *Controller {
	return &Controller{
		conn:   conn,
		reader: bufio.NewReader(debugStream),
		log:    log,
	}
}

// Start spawns wpa_supplicant against iface, using drivers (falling back to
// DefaultDrivers when empty), and blocks until its control socket and our
// reply socket are both ready.
func Start(iface, drivers string, log *zap.SugaredLogger) (*Controller, error) {
	if drivers == "" {
		drivers = DefaultDrivers
	}

	tempDir, err := os.MkdirTemp("", "osup-wpas-")
	if err != nil {
		return nil, &StartError{Op: "creating scratch directory", Cause: err}
	}

	confPath := filepath.Join(tempDir, "wpa_supplicant.conf")
	confBody := fmt.Sprintf("ctrl_interface=%s\nctrl_interface_group=root\nupdate_config=1\n", tempDir)
	if err := os.WriteFile(confPath, []byte(confBody), 0o600); err != nil {
		os.RemoveAll(tempDir)
		return nil, &StartError{Op: "writing wpa_supplicant.conf", Cause: err}
	}

	c := &Controller{
		Interface: iface,
		tempDir:   tempDir,
		confPath:  confPath,
		ctrlPath:  filepath.Join(tempDir, iface),
		log:       log,
	}

	c.cmd = exec.Command("wpa_supplicant", "-K", "-d",
		"-D"+drivers, "-i"+iface, "-c"+confPath)
	c.stdout, err = c.cmd.StdoutPipe()
	if err != nil {
		c.cleanupFiles()
		return nil, &StartError{Op: "attaching stdout pipe", Cause: err}
	}
	c.cmd.Stderr = c.cmd.Stdout

	if err := c.cmd.Start(); err != nil {
		c.cleanupFiles()
		return nil, &StartError{Op: "spawning process", Cause: err}
	}
	c.reader = bufio.NewReader(c.stdout)

	if err := c.waitForCtrlSocket(); err != nil {
		c.cmd.Process.Kill()
		c.cleanupFiles()
		return nil, err
	}

	if err := c.dial(); err != nil {
		c.cmd.Process.Kill()
		c.cleanupFiles()
		return nil, err
	}

	return c, nil
}

func (c *Controller) waitForCtrlSocket() error {
	for {
		if state := c.cmd.ProcessState; state != nil && !state.Success() {
			return &StartError{Op: "waiting for control socket", Cause: &ProtocolError{Detail: fmt.Sprintf("wpa_supplicant exited: %v", state)}}
		}
		if _, err := os.Stat(c.ctrlPath); err == nil {
			return nil
		}
		time.Sleep(pollInterval)
	}
}

func (c *Controller) dial() error {
	c.remotePath = c.ctrlPath
	c.localPath = filepath.Join(os.TempDir(), "osup-"+uuid.NewV4().String())

	laddr := net.UnixAddr{Name: c.localPath, Net: "unixgram"}
	raddr := net.UnixAddr{Name: c.remotePath, Net: "unixgram"}

	conn, err := net.DialUnix("unixgram", &laddr, &raddr)
	if err != nil {
		return &StartError{Op: "dialing control socket", Cause: err}
	}
	c.conn = conn
	return nil
}

// SendOnly writes cmd to the control socket without waiting for a reply.
func (c *Controller) SendOnly(cmd string) error {
	_, err := c.conn.Write([]byte(cmd))
	return err
}

// SendAndReceive writes cmd to the control socket and returns wpa_supplicant's
// reply, decoded as UTF-8 with invalid sequences replaced (never erroring on
// malformed bytes from the peer).
func (c *Controller) SendAndReceive(cmd string) (string, error) {
	if _, err := c.conn.Write([]byte(cmd)); err != nil {
		return "", err
	}
	buf := make([]byte, recvBufSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		return "", err
	}
	return toUTF8(buf[:n]), nil
}

// ReadDebugLine returns the next line from wpa_supplicant's stdout/stderr
// debug stream, or io.EOF once the process's pipe has closed.
func (c *Controller) ReadDebugLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\n"), nil
}

// Close terminates the wpa_supplicant process and removes every temporary
// file created for this session, regardless of how the caller is exiting
// (success, failure, or interrupt).
func (c *Controller) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		c.cmd.Process.Kill()
		c.cmd.Wait()
	}
	if c.localPath != "" {
		os.Remove(c.localPath)
	}
	c.cleanupFiles()
}

func (c *Controller) cleanupFiles() {
	if c.tempDir != "" {
		os.RemoveAll(c.tempDir)
	}
}

func toUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
