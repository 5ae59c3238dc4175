// Package aplog provides osup's structured logging, adapted from
// ap_common/aputil's NewLogger/NewChildLogger/ThrottledLogger trio. osup is
// a single-shot CLI rather than a long-lived daemon, so the caller-encoder
// here tags messages with the fixed program name "osup" instead of a daemon
// name, but
// the throttling and child-process-log-tagging behavior is unchanged.
package aplog

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	atomicLevel = zap.NewAtomicLevel()
	tloggers    = make(map[string]*ThrottledLogger)
)

func zapTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006/01/02 15:04:05.000"))
}

func zapCallerEncoder(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	_, fileName := filepath.Split(caller.File)
	enc.AppendString(fmt.Sprintf("osup:%s:%d", fileName, caller.Line))
}

// New returns a sugared zap logger for osup's own log lines: timestamped,
// leveled, tagged with file:line.
func New() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = atomicLevel
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapTimeEncoder
	cfg.EncoderConfig.EncodeCaller = zapCallerEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic("aplog: failed to build zap logger: " + err.Error())
	}
	return logger.Sugar()
}

// NewChild returns a sugared zap logger for tagging output captured from a
// child process (wpa_supplicant, pixiewps), omitting the caller annotation
// since the prefix identifies the source instead.
func NewChild() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = atomicLevel
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeTime = zapTimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic("aplog: failed to build zap child logger: " + err.Error())
	}
	return logger.Sugar()
}

// SetLevel adjusts the global log level at runtime (e.g. from a -v flag).
func SetLevel(level string) error {
	var l zapcore.Level
	if err := (&l).UnmarshalText([]byte(level)); err != nil {
		return err
	}
	atomicLevel.SetLevel(l)
	return nil
}

// ThrottledLogger wraps a sugared logger with exponential backoff, so a
// noisy condition (a flapping control socket, a retry storm) logs only with
// decreasing frequency instead of flooding the terminal.
type ThrottledLogger struct {
	slog      *zap.SugaredLogger
	next      time.Time
	baseDelay time.Duration
	maxDelay  time.Duration
	curDelay  time.Duration
}

// GetThrottledLogger returns the throttled logger associated with its call
// site, allocating one on first use and reusing it on every subsequent call
// from the same line.
func GetThrottledLogger(slog *zap.SugaredLogger, start, max time.Duration) *ThrottledLogger {
	var key string
	if _, file, line, ok := runtime.Caller(1); ok {
		key = file + ":" + strconv.Itoa(line)
	} else {
		key = "unknown"
	}

	t, ok := tloggers[key]
	if !ok {
		scoped := slog.Desugar().WithOptions(zap.AddCallerSkip(1)).Sugar()
		t = &ThrottledLogger{
			slog:      scoped,
			next:      time.Now(),
			baseDelay: start,
			curDelay:  start,
			maxDelay:  max,
		}
		tloggers[key] = t
	}
	return t
}

// Clear resets the logger's backoff to its base delay.
func (t *ThrottledLogger) Clear() {
	t.next = time.Now()
	t.curDelay = t.baseDelay
}

func (t *ThrottledLogger) ready() bool {
	now := time.Now()
	if !now.After(t.next) {
		return false
	}
	t.next = now.Add(t.curDelay)
	t.curDelay *= 2
	if t.curDelay > t.maxDelay {
		t.curDelay = t.maxDelay
	}
	return true
}

// Warnf issues a throttled WARN message.
func (t *ThrottledLogger) Warnf(format string, args ...interface{}) {
	if t.ready() {
		t.slog.Warnf(format, args...)
	}
}

// Errorf issues a throttled ERROR message.
func (t *ThrottledLogger) Errorf(format string, args ...interface{}) {
	if t.ready() {
		t.slog.Errorf(format, args...)
	}
}
