// Package rlog provides the package-level structured logging facade used
// across the runtime. Every exported package accepts an optional Logger,
// defaulting to a no-op implementation, mirroring the teacher's
// eventloop.SetStructuredLogger/Logger pattern but backed by logiface/stumpy
// instead of a hand-rolled writer.
package rlog

import (
	"os"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logging interface accepted by every package in
// this module. KV pairs are alternating key/value, following the builder
// conventions used throughout the teacher's logiface-based packages.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// noop is the default Logger, used whenever a caller does not supply one.
type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}

// NoOp returns the zero-overhead Logger implementation.
func NoOp() Logger { return noop{} }

// stumpyLogger adapts a *logiface.Logger[*stumpy.Event] to Logger.
type stumpyLogger struct {
	l *logiface.Logger[*stumpy.Event]
}

// NewStumpy builds the default production Logger: logiface as the
// structured-logging facade, stumpy as the zero-dependency JSON backend,
// writing to w (os.Stderr if nil).
func NewStumpy(w *os.File) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &stumpyLogger{
		l: stumpy.L.New(
			stumpy.L.WithStumpy(),
			stumpy.L.WithWriter(logiface.WriterFunc[*stumpy.Event](func(e *stumpy.Event) error {
				_, err := w.Write(append(e.Bytes(), '\n'))
				return err
			})),
		),
	}
}

func (s *stumpyLogger) log(b *logiface.Builder[*stumpy.Event], msg string, kv []any) {
	if b == nil {
		return
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		if key == "" {
			continue
		}
		b = b.Any(key, kv[i+1])
	}
	b.Log(msg)
}

func (s *stumpyLogger) Debug(msg string, kv ...any) { s.log(s.l.Debug(), msg, kv) }
func (s *stumpyLogger) Info(msg string, kv ...any)  { s.log(s.l.Info(), msg, kv) }
func (s *stumpyLogger) Warn(msg string, kv ...any)  { s.log(s.l.Warning(), msg, kv) }
func (s *stumpyLogger) Error(msg string, kv ...any) { s.log(s.l.Err(), msg, kv) }

var (
	global struct {
		sync.RWMutex
		logger Logger
	}
)

// SetGlobal sets the package-level default Logger, used by components
// constructed without an explicit Logger option.
func SetGlobal(l Logger) {
	global.Lock()
	defer global.Unlock()
	global.logger = l
}

// Global returns the package-level default Logger, or a no-op if unset.
func Global() Logger {
	global.RLock()
	defer global.RUnlock()
	if global.logger == nil {
		return noop{}
	}
	return global.logger
}
