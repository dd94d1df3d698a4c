package emulator

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ezrec/redcode/translate"
)

var f = translate.From

var (
	ErrStepLimit = errors.New(f("step limit reached"))
)

// ErrRuntime indicates the location of a runtime fault.
type ErrRuntime struct {
	Index  int // Core index of the faulting cell.
	LineNo int // Source line of the faulting cell, or 0.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("cell %v %v", fmt.Sprintf("%04d", err.Index), err.Err)
	}
	return f("cell %v line %v %v", fmt.Sprintf("%04d", err.Index), strconv.Itoa(err.LineNo), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
