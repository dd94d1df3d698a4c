// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package mars

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]int{
	"CORESIZE": COMMANDS_MAX,
	"LINENO":   0,
}

var (
	// MNEMONIC operand[, operand]
	lineRegexp = regexp.MustCompile(`^([A-Za-z]+)\s+([#$@<>]?-?[0-9]+)(?:\s*,\s*([#$@<>]?-?[0-9]+))?$`)

	// Compile-time $(...) expressions
	exprRegexp = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler converts Redcode source text into a Program.
//
// Assembly never fails on content: each source line that cannot be
// assembled becomes a filler cell, so that the remaining lines keep their
// addresses. The reason is kept in Diagnostics.
type Assembler struct {
	Verbose     bool        // If set, verbosely logs the assembler actions.
	Diagnostics []ErrSyntax // Lines assembled as filler, from the last parse.

	predefine map[string]int // Caller equates for $(...) expressions.
	equate    map[string]int // Equates in effect during a parse.
}

// Parse assembles source text with a default assembler.
func Parse(text string) Program {
	asm := &Assembler{}
	return asm.ParseString(text)
}

// Predefine defines a new equate or redefines an existing equate, for use
// in $(...) expressions.
func (asm *Assembler) Predefine(equ string, value int) {
	if asm.predefine == nil {
		asm.predefine = map[string]int{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Parse assembles an input stream. Only a read failure is an error.
func (asm *Assembler) Parse(input io.Reader) (prog Program, err error) {
	scanner := bufio.NewScanner(input)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = asm.assemble(lines)
	return
}

// ParseString assembles source text.
func (asm *Assembler) ParseString(text string) Program {
	return asm.assemble(strings.Split(text, "\n"))
}

// assemble places one cell per non-blank line, then pads the core.
func (asm *Assembler) assemble(lines []string) (prog Program) {
	asm.Diagnostics = nil
	asm.equate = make(map[string]int, len(sysEquate)+len(asm.predefine))
	for key, value := range sysEquate {
		asm.equate[key] = value
	}
	for key, value := range asm.predefine {
		asm.equate[key] = value
	}

	cells := make([]Instruction, 0, 32)
	lineNo := make([]int, 0, 32)
	origin := 0

	for n, text := range lines {
		lineno := n + 1
		line := text
		if cut := strings.IndexByte(line, ';'); cut >= 0 {
			line = line[:cut]
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		in, err := asm.parseLine(line, lineno)
		if err != nil {
			asm.Diagnostics = append(asm.Diagnostics, ErrSyntax{LineNo: lineno, Line: line, Err: err})
			if asm.Verbose {
				log.Printf("%v: filler: %v", lineno, err)
			}
			in = Instruction{}
		}

		if in.Opcode == OP_ORG {
			origin = in.B.Number
			continue
		}

		if len(cells) == COMMANDS_MAX {
			asm.Diagnostics = append(asm.Diagnostics, ErrSyntax{LineNo: lineno, Line: line, Err: ErrCoreFull})
			continue
		}

		cells = append(cells, in)
		lineNo = append(lineNo, lineno)
	}

	prog = NewProgram(cells, origin)
	prog.lineNo = lineNo

	if asm.Verbose {
		index, ok := prog.Current()
		if ok {
			log.Printf("start at %04d: %v", index, prog.memory[index])
		} else {
			log.Printf("start at %04d: halted", Wrap(origin))
		}
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, equ := range asm.equate {
		pred[key] = starlark.MakeInt(equ)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// parseLine parses a single trimmed, non-empty, comment free line as an
// instruction.
func (asm *Assembler) parseLine(line string, lineno int) (in Instruction, err error) {
	asm.equate["LINENO"] = lineno

	// Do $() evaluations
	line = exprRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	match := lineRegexp.FindStringSubmatch(line)
	if match == nil {
		err = ErrInstructionInvalid
		return
	}

	op, ok := LookupOpcode(match[1])
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	words := match[2:]
	if len(words[1]) == 0 {
		words = words[:1]
	}

	mode := op.DefaultMode()

	var a, b Address
	switch op.Shape() {
	case SHAPE_SINGLE:
		if len(words) != 1 {
			err = ErrOperandCount
			return
		}
		// The single operand is held in B.
		a = Immediate(0)
		b, err = parseAddress(words[0], mode)
	case SHAPE_DUPLICATE:
		a, err = parseAddress(words[0], mode)
		if err != nil {
			return
		}
		b = a
		if len(words) == 2 {
			b, err = parseAddress(words[1], mode)
		}
	case SHAPE_JUMP:
		a, err = parseAddress(words[0], mode)
		if err != nil {
			return
		}
		b = Direct(0)
		if len(words) == 2 {
			b, err = parseAddress(words[1], mode)
		}
	case SHAPE_DOUBLE:
		if len(words) != 2 {
			err = ErrOperandCount
			return
		}
		a, err = parseAddress(words[0], mode)
		if err != nil {
			return
		}
		b, err = parseAddress(words[1], mode)
	}
	if err != nil {
		return
	}

	in = NewInstruction(op, a, b)
	err = in.Validate()
	return
}

// parseAddress parses an operand, using mode when it has no sigil.
func parseAddress(word string, mode Mode) (addr Address, err error) {
	if len(word) > 0 {
		sigil, ok := sigilMap[word[0]]
		if ok {
			mode = sigil
			word = word[1:]
		}
	}

	number, err := strconv.Atoi(word)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	addr = Address{Mode: mode, Number: number}
	return
}
