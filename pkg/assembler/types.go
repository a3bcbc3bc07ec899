// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"fmt"

	"github.com/lassandro/gohack/pkg/encoding"
)

type InstructionType uint

type Cursor struct {
	// Line and column, 1-based
	Line   int
	Column int

	// Absolute byte offset of the instruction text and its length
	Byte int64
	Size int64

	// Absolute byte offset of the start of the line
	LineByte int64
}

// Instruction is the parsed form of a single source line.
type Instruction struct {
	Type     InstructionType
	Position Cursor

	// Address target or label name
	Symbol string

	Dest encoding.Mnemonic
	Comp string
	Jump encoding.Mnemonic

	// Program address of the instruction. For labels it is the address of
	// the next real instruction.
	Addr int
}

// DebugTable maps emitted words back to their source. It is written next to
// the binary as a .hackdb file.
type DebugTable struct {
	// Absolute path of the source file, empty when read from stdin
	Source string

	// Program address -> byte offset of the source line
	Symbols map[uint16]int64

	// Program address -> label bound to it
	Labels map[uint16]string

	// User variable -> RAM address
	Variables map[string]uint16
}

type TokenError interface {
	GetPosition() Cursor
}

type MalformedLabelError struct {
	Position Cursor
	Received string
}

func (err *MalformedLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *MalformedLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Malformed label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type MalformedAddressError struct {
	Position Cursor
}

func (err *MalformedAddressError) GetPosition() Cursor {
	return err.Position
}

func (err *MalformedAddressError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Missing address after '@'",
		err.Position.Line,
		err.Position.Column,
	)
}

type MissingComputationError struct {
	Position Cursor
	Received string
}

func (err *MissingComputationError) GetPosition() Cursor {
	return err.Position
}

func (err *MissingComputationError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Missing computation in '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownMnemonicError struct {
	Position Cursor
	Err      *encoding.UnknownMnemonicError
}

func (err *UnknownMnemonicError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownMnemonicError) Unwrap() error {
	return err.Err
}

func (err *UnknownMnemonicError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: %s",
		err.Position.Line,
		err.Position.Column,
		err.Err,
	)
}

type RedeclaredLabelError struct {
	Position Cursor
	Received string
}

func (err *RedeclaredLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redeclaration of label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type OversizedLiteralError struct {
	Position Cursor
	Required interface{}
	Received interface{}
}

func (err *OversizedLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Literal exceeds allowed size\n\twant:%v\n\thave:%v",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type InvalidSymbolError struct {
	Position Cursor
	Received string
}

func (err *InvalidSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidSymbolError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid symbol name '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

// LookupError is returned by SymTable.AddressOf for names that are not
// bound. It carries no position since the table does not know the source.
type LookupError struct {
	Received string
}

func (err *LookupError) Error() string {
	return fmt.Sprintf("Unknown symbol '%s'", err.Received)
}

type OversizedBinaryError struct {
	Required int
	Received int
}

func (err *OversizedBinaryError) Error() string {
	return fmt.Sprintf(
		"Binary exceeds allowed size\n\twant:%d\n\thave:%d",
		err.Required,
		err.Received,
	)
}
