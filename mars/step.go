// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package mars

import (
	"slices"
)

// Step retires the current instruction and returns the next snapshot.
// A halted program is returned unchanged.
func (prog Program) Step() Program {
	next, _ := prog.Trace()
	return next
}

// Trace performs the same step as Step, and also reports why the returned
// program is halted:
//   - ErrHalted if no cell was current on entry.
//   - ErrHaltDat if the current cell was a DAT, or execution moved onto one.
//   - ErrHaltDivide if a DIV or MOD divided by zero.
//
// An ORG cell in the core is a broken invariant, and panics with
// ErrOrgInMemory.
func (prog Program) Trace() (next Program, err error) {
	ip, ok := prog.Current()
	if !ok {
		return prog, ErrHalted
	}

	current := prog.memory[ip]
	switch current.Opcode {
	case OP_DAT:
		return prog, ErrHaltDat
	case OP_ORG:
		panic(ErrOrgInMemory)
	}

	// Private working copy, mutated by operand resolution and execution.
	memory := slices.Clone(prog.memory)

	next_ip := Wrap(ip + 1)
	cancel := false

	index_a, cell_a, valid_a := resolve(memory, ip, current.A)
	index_b, cell_b, valid_b := resolve(memory, ip, current.B)

	switch op := current.Opcode; op {
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
		if !valid_b {
			number, ok := doArith(op, current.B.Number, cell_a.B.Number)
			if !ok {
				cancel = true
				break
			}
			memory[ip] = current.WithB(current.B.WithNumber(number))
			break
		}
		// A zero divisor in either field cancels the whole write.
		number_b, ok_b := doArith(op, cell_b.B.Number, cell_a.B.Number)
		number_a, ok_a := doArith(op, cell_b.A.Number, cell_a.A.Number)
		if !ok_a || !ok_b {
			cancel = true
			break
		}
		memory[index_b] = cell_b.WithA(cell_b.A.WithNumber(number_a)).WithB(cell_b.B.WithNumber(number_b))
	case OP_JMP:
		if valid_a {
			next_ip = index_a
		}
	case OP_JMZ:
		if valid_a && cell_b.B.Number == 0 {
			next_ip = index_a
		}
	case OP_JMN:
		if valid_a && cell_b.B.Number != 0 {
			next_ip = index_a
		}
	case OP_DJN:
		number := cell_b.B.Number - 1
		if valid_b {
			memory[index_b] = cell_b.WithB(cell_b.B.WithNumber(number))
		} else {
			memory[ip] = current.WithB(current.B.WithNumber(number))
		}
		if valid_a && number != 0 {
			next_ip = index_a
		}
	case OP_MOV:
		if valid_b {
			memory[index_b] = cell_a
		} else {
			memory[ip] = cell_a
		}
	case OP_CMP:
		if cell_a.B.Number == cell_b.B.Number {
			next_ip = Wrap(ip + 2)
		}
	case OP_SLT:
		if cell_a.B.Number < cell_b.B.Number {
			next_ip = Wrap(ip + 2)
		}
	default:
		panic(ErrOpcodeInvalid)
	}

	// Move the execution pointer.
	for n := range memory {
		memory[n].Current = false
	}

	switch {
	case cancel:
		err = ErrHaltDivide
	case memory[next_ip].Opcode == OP_DAT:
		err = ErrHaltDat
	default:
		memory[next_ip].Current = true
	}

	next = Program{memory: memory, lineNo: prog.lineNo}
	return
}

// resolve finds the cell an operand refers to. Immediate operands have no
// cell, and resolve to a synthetic DAT whose fields hold the literal.
//
// Pre-decrement and post-increment modes update the pointer cell in memory.
func resolve(memory []Instruction, ip int, addr Address) (index int, cell Instruction, valid bool) {
	if addr.Mode == MODE_IMMEDIATE {
		cell = Dat(addr.Number, addr.Number)
		return
	}

	index = Wrap(ip + addr.Number)

	if addr.Indirection() {
		pointer := index
		pointer_cell := memory[pointer]
		offset := pointer_cell.B.Number
		switch addr.Mode {
		case MODE_PREDECREMENT:
			offset--
			memory[pointer] = pointer_cell.WithB(pointer_cell.B.WithNumber(offset))
		case MODE_POSTINCREMENT:
			memory[pointer] = pointer_cell.WithB(pointer_cell.B.WithNumber(offset + 1))
		}
		index = Wrap(pointer + offset)
	}

	cell = memory[index]
	valid = true
	return
}

// doArith applies an arithmetic opcode to a field. Division truncates toward
// zero and modulo takes the sign of the dividend. ok is false on a zero
// divisor, and output is then left as input.
func doArith(op Opcode, input, value int) (output int, ok bool) {
	output = input

	switch op {
	case OP_ADD:
		output = input + value
	case OP_SUB:
		output = input - value
	case OP_MUL:
		output = input * value
	case OP_DIV:
		if value == 0 {
			return
		}
		output = input / value
	case OP_MOD:
		if value == 0 {
			return
		}
		output = input % value
	default:
		return
	}

	ok = true
	return
}
