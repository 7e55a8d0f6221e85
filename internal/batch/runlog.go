// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bufio"
	"fmt"
	"os"
)

// LogName is the run log written into the output directory.
const LogName = "inscrap.log"

const (
	markInfo = "+"
	markFail = "!"
)

// runLog writes "[<marker>] <message>" lines. Each line is written whole.
type runLog struct {
	f   *os.File
	w   *bufio.Writer
	err error
}

// createRunLog truncates or creates path.
func createRunLog(path string) (*runLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating run log: %w", err)
	}
	return &runLog{f: f, w: bufio.NewWriter(f)}, nil
}

// line writes one record. The first write error is kept and reported by
// Close; later lines are dropped.
func (l *runLog) line(mark, format string, args ...any) {
	if l.err != nil {
		return
	}
	if _, err := fmt.Fprintf(l.w, "["+mark+"] "+format+"\n", args...); err != nil {
		l.err = fmt.Errorf("writing run log: %w", err)
		return
	}
	if err := l.w.Flush(); err != nil {
		l.err = fmt.Errorf("writing run log: %w", err)
	}
}

func (l *runLog) Info(format string, args ...any) { l.line(markInfo, format, args...) }

func (l *runLog) Fail(format string, args ...any) { l.line(markFail, format, args...) }

func (l *runLog) Close() error {
	if l.err != nil {
		l.f.Close()
		return l.err
	}
	if err := l.w.Flush(); err != nil {
		l.f.Close()
		return fmt.Errorf("flushing run log: %w", err)
	}
	return l.f.Close()
}
