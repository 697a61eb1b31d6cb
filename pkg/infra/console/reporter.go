package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Reporter prints progress lines for the operator. Steps and success go to
// the standard writer, failures to the error writer.
type Reporter struct {
	out     io.Writer
	errOut  io.Writer
	step    *color.Color
	success *color.Color
	failure *color.Color
}

// Option is a functional option for Reporter
type Option func(*Reporter)

// WithWriter sets the writer for step and success lines
func WithWriter(w io.Writer) Option {
	return func(r *Reporter) {
		r.out = w
	}
}

// WithErrorWriter sets the writer for failure lines
func WithErrorWriter(w io.Writer) Option {
	return func(r *Reporter) {
		r.errOut = w
	}
}

// WithColor forces colored output on or off. By default fatih/color decides
// from the terminal.
func WithColor(enabled bool) Option {
	return func(r *Reporter) {
		for _, c := range []*color.Color{r.step, r.success, r.failure} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewReporter creates a Reporter writing to stdout and stderr
func NewReporter(opts ...Option) *Reporter {
	r := &Reporter{
		out:     os.Stdout,
		errOut:  os.Stderr,
		step:    color.New(color.FgCyan),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Step prints the phase that is about to run
func (r *Reporter) Step(format string, args ...any) {
	_, _ = r.step.Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Success prints the final confirmation
func (r *Reporter) Success(format string, args ...any) {
	_, _ = r.success.Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Failure prints an error for the operator
func (r *Reporter) Failure(format string, args ...any) {
	_, _ = r.failure.Fprintln(r.errOut, fmt.Sprintf(format, args...))
}
