package tui

import (
	"fmt"
	"io"
)

// tableWriter wraps an io.Writer and remembers the first write error so
// render methods can print unconditionally and report a single error at
// the end, like bufio.Writer and encoding/csv.Writer do.
type tableWriter struct {
	w   io.Writer
	err error
}

// printf writes a formatted string. It is a no-op once a write has failed.
func (tw *tableWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// println writes arguments followed by a newline. It is a no-op once a
// write has failed.
func (tw *tableWriter) println(args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintln(tw.w, args...)
}

// Err returns the first error encountered during any write, or nil.
func (tw *tableWriter) Err() error {
	return tw.err
}
