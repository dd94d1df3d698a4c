package mars

import (
	"fmt"
)

// Instruction is one cell of the core.
//
// The zero value is the filler cell, DAT #0, #0.
type Instruction struct {
	Opcode  Opcode
	A       Address // A operand.
	B       Address // B operand.
	Current bool    // Cell holds the execution pointer.
}

// NewInstruction creates an instruction that is not current.
func NewInstruction(op Opcode, a, b Address) Instruction {
	return Instruction{Opcode: op, A: a, B: b}
}

// Dat creates a DAT cell with immediate fields.
func Dat(a, b int) Instruction {
	return NewInstruction(OP_DAT, Immediate(a), Immediate(b))
}

// WithA returns a copy of the instruction with a new A operand.
func (in Instruction) WithA(a Address) Instruction {
	in.A = a
	return in
}

// WithB returns a copy of the instruction with a new B operand.
func (in Instruction) WithB(b Address) Instruction {
	in.B = b
	return in
}

// WithCurrent returns a copy of the instruction with the current flag set as
// requested.
func (in Instruction) WithCurrent(current bool) Instruction {
	in.Current = current
	return in
}

// Filler returns true if this is a DAT #0, #0 cell.
func (in Instruction) Filler() bool {
	return in.Opcode == OP_DAT && in.A == Immediate(0) && in.B == Immediate(0)
}

// Validate checks the operand constraints of the opcode.
func (in Instruction) Validate() (err error) {
	if !in.Opcode.Valid() {
		err = ErrOpcodeInvalid
		return
	}

	if in.Opcode.ImmediateOnly() {
		if in.A.Mode != MODE_IMMEDIATE || in.B.Mode != MODE_IMMEDIATE {
			err = ErrOperandMode
			return
		}
	}

	return
}

// Command is the read-only display form of a cell.
type Command struct {
	Name     string
	OperandA string
	OperandB string
	Current  bool
}

// Command returns the display form of the instruction.
func (in Instruction) Command() Command {
	return Command{
		Name:     in.Opcode.String(),
		OperandA: in.A.String(),
		OperandB: in.B.String(),
		Current:  in.Current,
	}
}

// String returns the assembly language form of the instruction.
func (in Instruction) String() string {
	return fmt.Sprintf("%v %v, %v", in.Opcode, in.A, in.B)
}
