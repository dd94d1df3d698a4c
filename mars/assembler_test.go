package mars

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := asm.ParseString("")
	assert.Equal(COMMANDS_MAX, prog.Len())
	assert.False(prog.IsRunning())
	assert.Empty(asm.Diagnostics)

	assert.Equal(COMMANDS_MAX, asm.equate["CORESIZE"])
	assert.Equal(0, asm.equate["LINENO"])
}

func TestAssembler_Scenario(t *testing.T) {
	assert := assert.New(t)

	prog := Parse("ORG 0\nADD #4, $1\nDAT #0, #0")

	assert.Equal(NewInstruction(OP_ADD, Immediate(4), Direct(1)).WithCurrent(true), prog.At(0))
	assert.Equal(Dat(0, 0), prog.At(1))
	assert.Equal(2, prog.LineNo(0))
	assert.Equal(3, prog.LineNo(1))
	assert.Equal(0, prog.LineNo(2))

	index, ok := prog.Current()
	assert.True(ok)
	assert.Equal(0, index)
}

func TestAssembler_Opcodes(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line     string
		expected Instruction
	}){
		{"MOV 0, 1", NewInstruction(OP_MOV, Direct(0), Direct(1))},
		{"mov 0,1", NewInstruction(OP_MOV, Direct(0), Direct(1))},
		{"Mov   0 ,  1", NewInstruction(OP_MOV, Direct(0), Direct(1))},
		{"ADD #1, @2", NewInstruction(OP_ADD, Immediate(1), Indirect(2))},
		{"SUB <-3, >4", NewInstruction(OP_SUB, PreDecrement(-3), PostIncrement(4))},
		{"MUL $5, 6", NewInstruction(OP_MUL, Direct(5), Direct(6))},
		{"DIV #2, $-2", NewInstruction(OP_DIV, Immediate(2), Direct(-2))},
		{"MOD #3, 1", NewInstruction(OP_MOD, Immediate(3), Direct(1))},
		{"JMP -1", NewInstruction(OP_JMP, Direct(-1), Direct(0))},
		{"jmp @2, #3", NewInstruction(OP_JMP, Indirect(2), Immediate(3))},
		{"JMZ 2, #0", NewInstruction(OP_JMZ, Direct(2), Immediate(0))},
		{"JMN 2, 1", NewInstruction(OP_JMN, Direct(2), Direct(1))},
		{"DJN -1, #5", NewInstruction(OP_DJN, Direct(-1), Immediate(5))},
		{"CMP #3, #3", NewInstruction(OP_CMP, Immediate(3), Immediate(3))},
		{"SLT >1, <2", NewInstruction(OP_SLT, PostIncrement(1), PreDecrement(2))},
		{"MOV 0, 1 ; the imp", NewInstruction(OP_MOV, Direct(0), Direct(1))},
	}

	for _, entry := range table {
		asm := &Assembler{}
		// Lead with a DAT so the cell under test is never current.
		prog := asm.ParseString("DAT 0\n" + entry.line)
		assert.Empty(asm.Diagnostics, entry.line)
		assert.Equal(entry.expected, prog.At(1), entry.line)
	}
}

func TestAssembler_Dat(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line     string
		expected Instruction
	}){
		{"DAT 7", Dat(7, 7)},
		{"DAT #-2", Dat(-2, -2)},
		{"DAT #1, #2", Dat(1, 2)},
		{"dat 3, -4", Dat(3, -4)},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog := asm.ParseString(entry.line)
		assert.Empty(asm.Diagnostics, entry.line)
		assert.Equal(entry.expected, prog.At(0), entry.line)
		assert.False(prog.IsRunning(), entry.line)
	}
}

func TestAssembler_Filler(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		err  error
	}){
		{"MOV 1", ErrOperandCount},
		{"ADD #1", ErrOperandCount},
		{"FOO 1, 2", ErrOpcodeInvalid},
		{"MOV a, b", ErrInstructionInvalid},
		{"MOV 1-2, 3", ErrInstructionInvalid},
		{"MOV", ErrInstructionInvalid},
		{"MOV 1, 2, 3", ErrInstructionInvalid},
		{"DAT $1", ErrOperandMode},
		{"DAT #1, @2", ErrOperandMode},
		{"ORG $1", ErrOperandMode},
		{"ORG 1, 2", ErrOperandCount},
		{"MOV 99999999999999999999, 1", ErrParseNumber("99999999999999999999")},
		{"MOV $(1 +), 1", ErrParseExpression("1 +")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog := asm.ParseString("JMP 1\n" + entry.line + "\nJMP -2")

		assert.Equal(Dat(0, 0), prog.At(1), entry.line)
		assert.Equal(NewInstruction(OP_JMP, Direct(-2), Direct(0)), prog.At(2), entry.line)

		if assert.Len(asm.Diagnostics, 1, entry.line) {
			diag := asm.Diagnostics[0]
			assert.Equal(2, diag.LineNo, entry.line)
			assert.Equal(entry.line, diag.Line, entry.line)
			assert.ErrorIs(diag, entry.err, entry.line)
		}
	}
}

func TestAssembler_Alignment(t *testing.T) {
	assert := assert.New(t)

	sources := []string{
		"",
		"garbage",
		strings.Repeat("MOV 0, 1\nnot an instruction\n", 50),
		strings.Repeat("x\n", COMMANDS_MAX+10),
	}

	for _, source := range sources {
		prog := Parse(source)
		assert.Equal(COMMANDS_MAX, prog.Len())
		assert.Len(prog.Commands(), COMMANDS_MAX)
	}
}

func TestAssembler_CoreFull(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := asm.ParseString(strings.Repeat("MOV 0, 1\n", COMMANDS_MAX+2))

	assert.Equal(COMMANDS_MAX, prog.Len())
	assert.Equal(NewInstruction(OP_MOV, Direct(0), Direct(1)), prog.At(COMMANDS_MAX-1))
	assert.Len(asm.Diagnostics, 2)
	for _, diag := range asm.Diagnostics {
		assert.ErrorIs(diag, ErrCoreFull)
	}
}

func TestAssembler_Org(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		source  string
		current int
	}){
		{"default", "MOV 0, 1", 0},
		{"org", "ORG 1\nDAT 0\nMOV 0, 1", 1},
		{"org_last", "ORG 2\nDAT 0\nMOV 0, 1\nORG 1", 1},
		{"org_anywhere", "DAT 0\nORG 2\nDAT 0\nMOV 0, 1", 2},
		{"org_immediate", "ORG #1\nDAT 0\nMOV 0, 1", 1},
		{"org_wrap", "ORG $(CORESIZE+1)\nDAT 0\nMOV 0, 1", 1},
		{"org_dat", "ORG 0\nDAT 0\nMOV 0, 1", -1},
		{"org_filler", "ORG 5\nMOV 0, 1", -1},
		{"org_negative", "ORG -1\nMOV 0, 1", -1},
		{"blank_lines", "\n\n   \nMOV 0, 1\n\n", 0},
		{"comment_lines", "; imp\n  ; by A. K. Dewdney\nMOV 0, 1", 0},
	}

	for _, entry := range table {
		prog := Parse(entry.source)
		index, ok := prog.Current()
		assert.Equal(entry.current, index, entry.name)
		assert.Equal(entry.current >= 0, ok, entry.name)
		assert.Equal(entry.current >= 0, prog.IsRunning(), entry.name)
	}

	prog := Parse("; header\n\nMOV 0, 1")
	assert.Equal(3, prog.LineNo(0))
}

func TestAssembler_Expression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("STEP", 4)
	asm.Predefine("STEP", 5)
	asm.Predefine("GAP", 2)

	program := []string{
		"MOV $(1+1), $(CORESIZE-1)",
		"ADD #$(STEP), $(GAP * 3)",
		"DAT #$(LINENO * 10)",
		"SUB #$(7 // 2), <$(-GAP)",
	}

	prog := asm.ParseString(strings.Join(program, "\n"))
	assert.Empty(asm.Diagnostics)

	assert.Equal(NewInstruction(OP_MOV, Direct(2), Direct(COMMANDS_MAX-1)).WithCurrent(true), prog.At(0))
	assert.Equal(NewInstruction(OP_ADD, Immediate(5), Direct(6)), prog.At(1))
	assert.Equal(Dat(30, 30), prog.At(2))
	assert.Equal(NewInstruction(OP_SUB, Immediate(3), PreDecrement(-2)), prog.At(3))

	// Predefines persist across parses; diagnostics do not.
	prog = asm.ParseString("MOV $(1/0), 1\nJMP $(STEP)")
	assert.Len(asm.Diagnostics, 1)
	var perr ErrParseExpression
	assert.True(errors.As(asm.Diagnostics[0], &perr))
	assert.Equal(NewInstruction(OP_JMP, Direct(5), Direct(0)), prog.At(1))

	prog = asm.ParseString("JMP $(STEP)")
	assert.Empty(asm.Diagnostics)
	assert.Equal(NewInstruction(OP_JMP, Direct(5), Direct(0)).WithCurrent(true), prog.At(0))
}

func TestAssembler_Reader(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("ORG 1\r\nDAT #1, #2\r\nMOV 0, 1\r\n"))
	assert.NoError(err)

	assert.Equal(Dat(1, 2), prog.At(0))
	assert.Equal(NewInstruction(OP_MOV, Direct(0), Direct(1)).WithCurrent(true), prog.At(1))
	assert.Equal(Parse("ORG 1\nDAT #1, #2\nMOV 0, 1"), prog)
}
