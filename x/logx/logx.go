// Package logx writes println-style "Level: ..." lines to a swappable sink.
//
// On target the sink stays a discard writer until bring-up has a console;
// the simulator points it at stdout.
package logx

import (
	"io"
	"sync"

	"bringup-go/x/fmtx"
)

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "Debug"
	case LevelInfo:
		return "Info"
	case LevelWarn:
		return "Warn"
	default:
		return "Error"
	}
}

var (
	mu     sync.Mutex
	output io.Writer = discard{}
	min              = LevelInfo
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// SetOutput replaces the sink; nil restores discard. Returns the previous sink.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := output
	if w == nil {
		w = discard{}
	}
	output = w
	return prev
}

// SetLevel drops lines below l.
func SetLevel(l Level) {
	mu.Lock()
	min = l
	mu.Unlock()
}

func Debug(a ...any) { emit(LevelDebug, a) }
func Info(a ...any)  { emit(LevelInfo, a) }
func Warn(a ...any)  { emit(LevelWarn, a) }
func Error(a ...any) { emit(LevelError, a) }

func emit(l Level, a []any) {
	mu.Lock()
	defer mu.Unlock()
	if l < min {
		return
	}
	line := append([]any{l.String() + ":"}, a...)
	_, _ = io.WriteString(output, fmtx.Sprintln(line...))
}
