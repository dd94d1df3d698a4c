package mars

import (
	"errors"
	"strconv"

	"github.com/ezrec/redcode/translate"
)

var f = translate.From

var (
	// Execution halt causes
	ErrHalted     = errors.New(f("program halted"))
	ErrHaltDat    = errors.New(f("data executed"))
	ErrHaltDivide = errors.New(f("division by zero"))

	// Broken invariant: the assembler consumes every ORG.
	ErrOrgInMemory = errors.New(f("ORG in core, assembler defect"))

	// Assembler errors
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrOperandCount       = errors.New(f("operand count"))
	ErrOperandMode        = errors.New(f("addressing mode not permitted"))
	ErrCoreFull           = errors.New(f("core full"))
)

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax records a source line that was assembled as a filler cell.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	// Numbers are rendered before the printer sees them, to avoid grouping.
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
