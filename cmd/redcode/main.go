// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ezrec/redcode/emulator"
	"github.com/ezrec/redcode/mars"
)

const (
	KEY_CTRL_C = 0x03
	KEY_QUIT   = 'q'
)

func main() {
	var compile string
	var limit int
	var delay time.Duration
	var rows int
	var interactive bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".red file to run")
	flag.IntVar(&limit, "n", 0, "Step limit, 0 to run until halt")
	flag.DurationVar(&delay, "t", 0, "Delay between steps")
	flag.IntVar(&rows, "w", 8, "Rows of listing to print around the current cell")
	flag.BoolVar(&interactive, "i", false, "Interactive run, 'q' stops")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 {
		log.Fatalf("%v: no source file (-c)", os.Args[0])
	}

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	err = emu.LoadReader(inf)
	if err != nil {
		var syntax mars.ErrSyntax
		if !errors.As(err, &syntax) {
			log.Fatalf("%v: %v", compile, err)
		}
		// Bad lines were loaded as filler; report them and carry on.
		for _, diag := range emu.Assembler.Diagnostics {
			log.Printf("%v: %v", compile, diag)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if interactive {
		err = runInteractive(ctx, emu, delay, limit)
	} else {
		err = emu.Run(ctx, delay, limit)
	}

	fault := false
	switch {
	case err == nil:
	case errors.Is(err, emulator.ErrStepLimit):
	case errors.Is(err, context.Canceled):
	default:
		log.Printf("%v: %v", compile, err)
		fault = true
	}

	printListing(os.Stdout, emu.Program(), rows)
	fmt.Printf("steps: %d\n", emu.Steps())

	if fault {
		os.Exit(1)
	}
}

// printListing prints rows cells centered on the current cell (or the start
// of the core when halted). The current cell is bold on a terminal.
func printListing(w io.Writer, prog mars.Program, rows int) {
	center, ok := prog.Current()
	if !ok {
		center = rows / 2
	}

	bold := term.IsTerminal(int(os.Stdout.Fd()))

	for index, cmd := range prog.Window(center-rows/2, rows) {
		mark := " "
		if cmd.Current {
			mark = ">"
		}
		line := fmt.Sprintf("%04d%v %v %v, %v", index, mark, cmd.Name, cmd.OperandA, cmd.OperandB)
		if cmd.Current && bold {
			line = "\x1b[1m" + line + "\x1b[0m"
		}
		fmt.Fprintln(w, line)
	}
}

// runInteractive runs the emulator with stdin in raw mode, showing the step
// count as it goes. KEY_QUIT or KEY_CTRL_C stops the run.
func runInteractive(ctx context.Context, emu *emulator.Emulator, delay time.Duration, limit int) (err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return emu.Run(ctx, delay, limit)
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, state)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The reader stays blocked in Read after the run; it dies with the process.
	keys := make(chan byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			select {
			case keys <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
	}()

	grp, grp_ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		defer cancel()
		return emu.Run(grp_ctx, delay, limit)
	})

	grp.Go(func() error {
		status := time.NewTicker(100 * time.Millisecond)
		defer status.Stop()

		for {
			select {
			case <-grp_ctx.Done():
				return nil
			case key, ok := <-keys:
				if !ok || key == KEY_QUIT || key == KEY_CTRL_C {
					cancel()
					return nil
				}
			case <-status.C:
				index := emu.CurrentIndex()
				if index < 0 {
					fmt.Printf("\rsteps: %d halted   ", emu.Steps())
				} else {
					fmt.Printf("\rsteps: %d cell: %04d", emu.Steps(), index)
				}
			}
		}
	})

	err = grp.Wait()
	fmt.Print("\r\n")

	return
}
