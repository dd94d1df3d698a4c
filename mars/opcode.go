package mars

import (
	"strings"
)

//go:generate go tool stringer -linecomment -type=Opcode

// Opcode is an instruction operation.
type Opcode int

const (
	OP_DAT  = Opcode(0)  // DAT
	OP_MOV  = Opcode(1)  // MOV
	OP_ADD  = Opcode(2)  // ADD
	OP_SUB  = Opcode(3)  // SUB
	OP_MUL  = Opcode(4)  // MUL
	OP_DIV  = Opcode(5)  // DIV
	OP_MOD  = Opcode(6)  // MOD
	OP_JMP  = Opcode(7)  // JMP
	OP_JMZ  = Opcode(8)  // JMZ
	OP_JMN  = Opcode(9)  // JMN
	OP_DJN  = Opcode(10) // DJN
	OP_CMP  = Opcode(11) // CMP
	OP_SLT  = Opcode(12) // SLT
	OP_ORG  = Opcode(13) // ORG
	opCount = 14
)

// Shape is the operand pattern an opcode accepts in source text.
type Shape int

const (
	SHAPE_DOUBLE    = Shape(0) // Exactly two operands.
	SHAPE_DUPLICATE = Shape(1) // One or two; a lone operand fills both fields.
	SHAPE_JUMP      = Shape(2) // One or two; a lone operand leaves B as $0.
	SHAPE_SINGLE    = Shape(3) // Exactly one operand.
)

// opcodeInfo is the assembler metadata of an opcode.
type opcodeInfo struct {
	Shape   Shape
	Default Mode // Mode of an operand written without a sigil.
}

var opcodeTable = [opCount]opcodeInfo{
	OP_DAT: {SHAPE_DUPLICATE, MODE_IMMEDIATE},
	OP_MOV: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_ADD: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_SUB: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_MUL: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_DIV: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_MOD: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_JMP: {SHAPE_JUMP, MODE_DIRECT},
	OP_JMZ: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_JMN: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_DJN: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_CMP: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_SLT: {SHAPE_DOUBLE, MODE_DIRECT},
	OP_ORG: {SHAPE_SINGLE, MODE_IMMEDIATE},
}

// opcodeMap maps upper case mnemonics to opcodes.
var opcodeMap = func() map[string]Opcode {
	m := make(map[string]Opcode, opCount)
	for op := range Opcode(opCount) {
		m[op.String()] = op
	}
	return m
}()

// LookupOpcode finds the opcode of a mnemonic, ignoring case.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	op, ok = opcodeMap[strings.ToUpper(mnemonic)]
	return
}

// Valid returns true if the opcode is a known operation.
func (op Opcode) Valid() bool {
	return op >= 0 && op < opCount
}

// Shape returns the source operand pattern of the opcode.
func (op Opcode) Shape() Shape {
	return opcodeTable[op].Shape
}

// DefaultMode returns the mode assigned to operands written without a sigil.
func (op Opcode) DefaultMode() Mode {
	return opcodeTable[op].Default
}

// ImmediateOnly returns true if both operands of the opcode must be immediate.
func (op Opcode) ImmediateOnly() bool {
	return op == OP_DAT || op == OP_ORG
}

// Arithmetic returns true for the five field arithmetic opcodes.
func (op Opcode) Arithmetic() bool {
	switch op {
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
		return true
	}
	return false
}
