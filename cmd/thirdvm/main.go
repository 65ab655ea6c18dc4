// Command thirdvm runs the THIRD interpreter: arguments name script files,
// evaluated in order ahead of stdin, matching main.go's own file-then-stdin
// preamble idea but built on this port's token.Stream instead of a
// from-scratch bootstrap string. See DESIGN.md for what supersedes
// main.go's thirdKernel/trace-scanning machinery.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thirdlang/thirdvm/internal/engine"
	"github.com/thirdlang/thirdvm/internal/flushio"
	"github.com/thirdlang/thirdvm/internal/kernel"
	"github.com/thirdlang/thirdvm/internal/logio"
	"github.com/thirdlang/thirdvm/internal/ops"
	"github.com/thirdlang/thirdvm/internal/panicerr"
)

func main() {
	var (
		timeout time.Duration
		trace   bool
		dump    bool
	)
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump", false, "print a dump after execution")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	out := flushio.NewWriteFlusher(os.Stdout)
	defer out.Flush()

	var logf func(mark, mess string, args ...interface{})
	if trace {
		tracef := log.Leveledf("TRACE")
		logf = func(mark, mess string, args ...interface{}) {
			tracef(mark+" "+mess, args...)
		}
	}

	e := engine.New(engine.DefaultConfig(),
		engine.WithOutput(out),
		engine.WithInput(inputReader(flag.Args())),
		engine.WithLogf(logf),
		engine.WithObserver(&kernel.Debugger{}),
		engine.WithObserver(kernel.NewProfiler()),
	)
	ops.Register(e)

	if dump {
		dumpWriter := &logio.Writer{Logf: log.Leveledf("DUMP")}
		defer dumpWriter.Close()
		defer dumpEngine(e, dumpWriter)
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.ErrorIf(run(ctx, e))
}

// run drives e.Evaluate in its own goroutine, guarded by panicerr.Recover
// the way main.go's isolate() wrapped vm.Run, so a runaway definition's
// panic (or an explicit runtime.Goexit) surfaces as a plain error instead
// of taking the process down, and a context timeout can abandon a hung
// evaluation without waiting on it.
func run(ctx context.Context, e *engine.Engine) error {
	errch := make(chan error, 1)
	go func() { errch <- panicerr.Recover("thirdvm", e.Evaluate) }()
	select {
	case err := <-errch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// inputReader chains any file arguments ahead of stdin, each followed by a
// newline so a file missing a trailing newline doesn't run its last token
// into the next source. With no arguments, stdin alone is the input. Files
// are opened concurrently (order of opening doesn't matter; the order they
// appear in the resulting chain does, and that's fixed by index) since
// nothing else in this single-threaded interpreter has a natural
// fan-out/fan-in shape to exercise errgroup the way the pack's generator
// tooling did.
func inputReader(paths []string) io.Reader {
	if len(paths) == 0 {
		return os.Stdin
	}
	files := make([]*os.File, len(paths))
	g := new(errgroup.Group)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	readers := make([]io.Reader, 0, 2*len(files)+1)
	for _, f := range files {
		readers = append(readers, f, strings.NewReader("\n"))
	}
	readers = append(readers, os.Stdin)
	return io.MultiReader(readers...)
}
