// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ezrec/redcode/mars"
)

// Emulator is a debugging session over one Redcode source text.
//
// Every method is serialized, so a background Run may be interleaved with
// Tick, Back or Reset from another goroutine at instruction granularity.
type Emulator struct {
	Verbose   bool           // If set, enables verbose logging.
	Assembler mars.Assembler // Assembler used by Load and Reset.

	mutex   sync.Mutex
	source  string
	program mars.Program
	history History
	steps   int
}

// NewEmulator creates a new emulator with an empty, halted core.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{}
	emu.program = emu.Assembler.ParseString("")
	return
}

// Load replaces the source text and resets the session. The returned error
// joins the diagnostics of every line assembled as filler; the program is
// loaded either way.
func (emu *Emulator) Load(source string) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.source = source
	return emu.reset()
}

// LoadReader reads the source text from input, then loads it as Load does.
// On a read failure the session is left unchanged.
func (emu *Emulator) LoadReader(input io.Reader) (err error) {
	source, err := io.ReadAll(input)
	if err != nil {
		return
	}

	return emu.Load(string(source))
}

// Reset reassembles the current source text, discarding the history.
func (emu *Emulator) Reset() (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.reset()
}

func (emu *Emulator) reset() (err error) {
	if emu.Verbose {
		log.Printf("emulator: reset")
	}

	emu.Assembler.Verbose = emu.Verbose
	prog, err := emu.Assembler.Parse(strings.NewReader(emu.source))
	if err != nil {
		return
	}

	emu.program = prog
	emu.history.Reset()
	emu.steps = 0

	var errs []error
	for _, diag := range emu.Assembler.Diagnostics {
		errs = append(errs, diag)
	}

	return errors.Join(errs...)
}

// Source returns the source text of the session.
func (emu *Emulator) Source() string {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.source
}

// Program returns the current snapshot.
func (emu *Emulator) Program() mars.Program {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.program
}

// Steps returns the number of instructions retired since a reset.
func (emu *Emulator) Steps() int {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.steps
}

// Running returns true if the program has a current cell.
func (emu *Emulator) Running() bool {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.program.IsRunning()
}

// CurrentIndex returns the index of the current cell, or -1 when halted.
func (emu *Emulator) CurrentIndex() int {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	index, _ := emu.program.Current()
	return index
}

// LineNo returns the source line number of the current cell, or 0.
func (emu *Emulator) LineNo() int {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	index, ok := emu.program.Current()
	if !ok {
		return 0
	}

	return emu.program.LineNo(index)
}

// Tick retires a single instruction. done is set once the program is
// halted; err is only set for a fault (division by zero).
func (emu *Emulator) Tick() (done bool, err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	index, ok := emu.program.Current()
	if !ok {
		done = true
		return
	}

	current := emu.program.At(index)
	if current.Opcode == mars.OP_DAT {
		// Nothing to retire.
		done = true
		return
	}

	if emu.Verbose {
		log.Printf("%04d: %v", index, current)
	}

	next, cause := emu.program.Trace()
	emu.history.Record(emu.program, next)
	emu.program = next
	emu.steps++

	switch {
	case cause == nil:
		// pass
	case errors.Is(cause, mars.ErrHaltDivide):
		done = true
		err = &ErrRuntime{Index: index, LineNo: emu.program.LineNo(index), Err: cause}
	default:
		done = true
		if emu.Verbose {
			log.Printf("%04d: halt: %v", index, cause)
		}
	}

	return
}

// Back restores the snapshot before the last Tick.
func (emu *Emulator) Back() (ok bool) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	undo, ok := emu.history.Pop()
	if !ok {
		return
	}

	emu.program = emu.program.Patch(undo)
	emu.steps--

	if emu.Verbose {
		index, _ := emu.program.Current()
		log.Printf("emulator: back to %04d", index)
	}

	return
}

// Run ticks until the program halts, limit instructions were retired (if
// limit is positive), or the context is done. With a positive delay, each
// instruction waits for the next tick of a delay period ticker.
//
// Returns nil on halt, ErrStepLimit at the limit, the context error on
// cancellation, or the fault from Tick.
func (emu *Emulator) Run(ctx context.Context, delay time.Duration, limit int) (err error) {
	var ticker *time.Ticker
	if delay > 0 {
		ticker = time.NewTicker(delay)
		defer ticker.Stop()
	}

	for n := 0; limit <= 0 || n < limit; n++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				return
			case <-ticker.C:
			}
		} else {
			err = ctx.Err()
			if err != nil {
				return
			}
		}

		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	err = ErrStepLimit
	return
}
