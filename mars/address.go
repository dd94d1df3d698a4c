package mars

import (
	"fmt"
)

//go:generate go tool stringer -linecomment -type=Mode

// Mode is an operand addressing mode.
type Mode int

const (
	MODE_IMMEDIATE     = Mode(0) // #
	MODE_DIRECT        = Mode(1) // $
	MODE_INDIRECT      = Mode(2) // @
	MODE_PREDECREMENT  = Mode(3) // <
	MODE_POSTINCREMENT = Mode(4) // >
	modeCount          = 5
)

// sigilMap maps the leading operand character to its mode.
var sigilMap = map[byte]Mode{
	'#': MODE_IMMEDIATE,
	'$': MODE_DIRECT,
	'@': MODE_INDIRECT,
	'<': MODE_PREDECREMENT,
	'>': MODE_POSTINCREMENT,
}

// Address is one instruction operand: an addressing mode and a signed number.
type Address struct {
	Mode   Mode
	Number int
}

// Immediate is a literal value, never an address.
func Immediate(number int) Address {
	return Address{Mode: MODE_IMMEDIATE, Number: number}
}

// Direct is an offset relative to the executing cell.
func Direct(number int) Address {
	return Address{Mode: MODE_DIRECT, Number: number}
}

// Indirect uses the B-field of the cell at the offset as a further offset.
func Indirect(number int) Address {
	return Address{Mode: MODE_INDIRECT, Number: number}
}

// PreDecrement is Indirect, decrementing the pointer B-field before use.
func PreDecrement(number int) Address {
	return Address{Mode: MODE_PREDECREMENT, Number: number}
}

// PostIncrement is Indirect, incrementing the pointer B-field after use.
func PostIncrement(number int) Address {
	return Address{Mode: MODE_POSTINCREMENT, Number: number}
}

// WithNumber returns the address with the same mode and a new number.
func (addr Address) WithNumber(number int) Address {
	addr.Number = number
	return addr
}

// Indirection returns true for the three B-field indirect modes.
func (addr Address) Indirection() bool {
	switch addr.Mode {
	case MODE_INDIRECT, MODE_PREDECREMENT, MODE_POSTINCREMENT:
		return true
	}
	return false
}

func (addr Address) String() string {
	return fmt.Sprintf("%v%d", addr.Mode, addr.Number)
}
