// Package demo contains the rxcore example walkthrough.
//
// Each example builds a small pipeline and prints every event it observes,
// one per line, in the form produced by rxcore.Item.String.
package demo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Options tunes the examples.
type Options struct {
	// TakeUntilDelay is how long the takeUntil stop signal waits before subscribing.
	TakeUntilDelay time.Duration
	// ReplayBufferSize is the buffer of the second replay subject.
	ReplayBufferSize int
}

// DefaultOptions returns the options the walkthrough was written for.
func DefaultOptions() Options {
	return Options{
		TakeUntilDelay:   time.Second,
		ReplayBufferSize: 3,
	}
}

// Example is a named, runnable example.
type Example struct {
	Name string
	run  func(ctx context.Context, p *printer, opts Options) error
}

// Names returns the example names in walkthrough order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, ex := range registry {
		names = append(names, ex.Name)
	}
	return names
}

// Lookup finds an example by name.
func Lookup(name string) (Example, bool) {
	for _, ex := range registry {
		if ex.Name == name {
			return ex, true
		}
	}
	return Example{}, false
}

// Runner runs examples and writes their output.
type Runner struct {
	out  io.Writer
	opts Options
	log  zerolog.Logger
}

// NewRunner creates a runner writing to out.
func NewRunner(out io.Writer, opts Options, log zerolog.Logger) *Runner {
	return &Runner{
		out:  out,
		opts: opts,
		log:  log,
	}
}

// Run runs the named examples in order, or every example when names is empty.
func (r *Runner) Run(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		names = Names()
	}

	selected := make([]Example, 0, len(names))
	for _, name := range names {
		ex, ok := Lookup(name)
		if !ok {
			return errors.Errorf("unknown example %q", name)
		}
		selected = append(selected, ex)
	}

	for _, ex := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}

		p := &printer{w: r.out}
		p.line("\n--- Example of: %s", ex.Name)

		start := time.Now()
		if err := ex.run(ctx, p, r.opts); err != nil {
			return errors.Wrapf(err, "example %s", ex.Name)
		}
		if p.err != nil {
			return errors.Wrap(p.err, "write output")
		}

		r.log.Debug().
			Str("example", ex.Name).
			Dur("elapsed", time.Since(start)).
			Msg("example finished")
	}
	return nil
}

// printer writes lines and keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}
