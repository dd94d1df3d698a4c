// Package mars implements the assembler and execution engine for a single
// warrior Redcode program.
//
// The core is a ring of COMMANDS_MAX instruction cells. The assembler turns
// line oriented source text into a Program, placing one cell per source line,
// and marks the cell at the ORG offset as current. Program.Step retires exactly
// one instruction, resolving the five addressing modes (with the pre-decrement
// and post-increment side effects applied to the core), and returns a new
// Program snapshot. Snapshots are never modified after they are returned.
package mars
