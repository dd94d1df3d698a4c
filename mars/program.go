package mars

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/ezrec/redcode/internal"
)

// Program is an immutable snapshot of the whole core.
type Program struct {
	memory []Instruction
	lineNo []int // Source line of each assembled cell, shared by all snapshots.
}

// NewProgram creates a program from cells, padded with filler (or truncated)
// to COMMANDS_MAX. The cell at start is made current unless it is a DAT.
func NewProgram(cells []Instruction, start int) (prog Program) {
	memory := make([]Instruction, COMMANDS_MAX)
	copy(memory, cells)
	for n := range memory {
		memory[n].Current = false
	}

	start = Wrap(start)
	if memory[start].Opcode != OP_DAT {
		memory[start].Current = true
	}

	prog = Program{memory: memory}
	return
}

// Len returns the number of cells in the core.
func (prog Program) Len() int {
	return len(prog.memory)
}

// At returns the cell at the index, wrapped into the core.
func (prog Program) At(index int) (in Instruction) {
	if len(prog.memory) == 0 {
		return
	}
	return prog.memory[Wrap(index)]
}

// Current returns the index of the current cell.
func (prog Program) Current() (index int, ok bool) {
	for n, in := range prog.memory {
		if in.Current {
			return n, true
		}
	}
	return -1, false
}

// IsRunning returns true if a cell is current.
func (prog Program) IsRunning() bool {
	_, ok := prog.Current()
	return ok
}

// LineNo returns the 1-based source line a cell was assembled from, or 0.
func (prog Program) LineNo(index int) int {
	if len(prog.memory) == 0 {
		return 0
	}
	index = Wrap(index)
	if index >= len(prog.lineNo) {
		return 0
	}
	return prog.lineNo[index]
}

// All returns the iterator over every cell of the core.
func (prog Program) All() iter.Seq2[int, Instruction] {
	return func(yield func(index int, in Instruction) bool) {
		for n, in := range prog.memory {
			if !yield(n, in) {
				return
			}
		}
	}
}

// Cell is a core cell with its index.
type Cell struct {
	Index       int
	Instruction Instruction
}

// Changes returns the cells of prog that differ in next, holding the values
// from prog. A step changes at most the cells it writes plus the old and new
// current cells.
func (prog Program) Changes(next Program) (cells []Cell) {
	for n := range min(len(prog.memory), len(next.memory)) {
		if prog.memory[n] != next.memory[n] {
			cells = append(cells, Cell{Index: n, Instruction: prog.memory[n]})
		}
	}
	return
}

// Patch returns a copy of the program with the given cells replaced.
func (prog Program) Patch(cells []Cell) (next Program) {
	if len(prog.memory) == 0 {
		return prog
	}

	memory := slices.Clone(prog.memory)
	for _, cell := range cells {
		memory[Wrap(cell.Index)] = cell.Instruction
	}

	next = Program{memory: memory, lineNo: prog.lineNo}
	return
}

// Commands returns the display form of every cell, in address order.
func (prog Program) Commands() (cmds []Command) {
	cmds = make([]Command, len(prog.memory))
	for n, in := range prog.memory {
		cmds[n] = in.Command()
	}
	return
}

// Window returns the iterator over count cells starting at from, wrapping
// around the end of the core.
func (prog Program) Window(from, count int) iter.Seq2[int, Command] {
	return func(yield func(index int, cmd Command) bool) {
		for index := range internal.Ring(len(prog.memory), from, count) {
			if !yield(index, prog.memory[index].Command()) {
				return
			}
		}
	}
}

// String returns the listing of the core, without the trailing filler.
func (prog Program) String() string {
	last := len(prog.memory)
	for last > 0 {
		in := prog.memory[last-1]
		if !in.Filler() || in.Current {
			break
		}
		last--
	}

	var text strings.Builder
	for n, in := range prog.memory[:last] {
		mark := " "
		if in.Current {
			mark = ">"
		}
		text.WriteString(fmt.Sprintf("%04d%v %v\n", n, mark, in))
	}

	return text.String()
}
