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

// Package assembler translates Hack assembly into 16-bit machine words.
//
// Translation runs in two passes over the source. The first binds every
// label to the address of the instruction following it, the second
// allocates variables from address 16 upwards in order of first use and
// encodes each A- and C-instruction.
package assembler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lassandro/gohack/pkg/encoding"
)

// AssembleHackSource runs both passes over input. symtable may be nil, in
// which case a fresh table is used; a non-nil table must not have seen this
// source before or every label will be reported as redeclared. debug is
// filled with source offsets when non-nil.
//
// On error the returned program is nil.
func AssembleHackSource(
	input io.ReadSeeker, symtable *SymTable, debug *DebugTable,
) ([]uint16, error) {
	if symtable == nil {
		symtable = NewSymTable()
	}

	if debug != nil {
		debug.reset()
	}

	count, err := FirstPass(input, symtable, debug)

	if err != nil {
		return nil, err
	}

	if _, err := input.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("Error rewinding source: %w", err)
	}

	result, err := SecondPass(input, symtable, debug)

	if err != nil {
		return nil, err
	}

	getLogger().Debug(
		"Assembled program",
		slog.Int("instructions", count),
		slog.Int("symbols", symtable.Len()),
	)

	return result, nil
}

// AssembleHackLines assembles an in-memory source.
func AssembleHackLines(lines []string) ([]uint16, error) {
	return AssembleHackSource(
		strings.NewReader(strings.Join(lines, "\n")), nil, nil,
	)
}

// FirstPass binds labels and returns the number of real instructions.
func FirstPass(input io.Reader, symtable *SymTable, debug *DebugTable) (int, error) {
	scanner := NewScanner(input)

	if debug != nil {
		debug.init()
	}

	for scanner.Scan() {
		inst := scanner.Instruction()

		if inst.Type != INSTRUCTION_LABEL {
			continue
		}

		// Checked ahead of Insert so a bad name is not reported as redeclared
		if !ValidSymbol(inst.Symbol) {
			return 0, &InvalidSymbolError{inst.Position, inst.Symbol}
		}

		if !symtable.Insert(inst.Symbol, uint16(inst.Addr)) {
			return 0, &RedeclaredLabelError{inst.Position, inst.Symbol}
		}

		if debug != nil {
			debug.Labels[uint16(inst.Addr)] = inst.Symbol
		}

		trace("Bound label", slog.String("label", inst.Symbol), slog.Int("addr", inst.Addr))
	}

	if err := scanner.Err(); err != nil {
		return 0, err
	}

	if count := scanner.Count(); count > PROGRAM_SIZE {
		return 0, &OversizedBinaryError{PROGRAM_SIZE, count}
	}

	return scanner.Count(), nil
}

// SecondPass encodes every instruction, allocating unbound symbols as
// variables. Labels must already be in symtable.
func SecondPass(input io.Reader, symtable *SymTable, debug *DebugTable) ([]uint16, error) {
	scanner := NewScanner(input)
	variable := ADDRESS_VARIABLE
	result := make([]uint16, 0, 64)

	if debug != nil {
		debug.init()
	}

	for scanner.Scan() {
		var word uint16
		var err error

		inst := scanner.Instruction()

		switch inst.Type {
		case INSTRUCTION_ADDRESS:
			word, err = resolveAddress(&inst, symtable, &variable, debug)

		case INSTRUCTION_COMPUTE:
			word, err = encoding.EncodeCompute(inst.Dest, inst.Comp, inst.Jump)

			var mnemonicErr *encoding.UnknownMnemonicError
			if errors.As(err, &mnemonicErr) {
				err = &UnknownMnemonicError{inst.Position, mnemonicErr}
			}

		default:
			continue
		}

		if err != nil {
			return nil, err
		}

		if debug != nil {
			debug.Symbols[uint16(len(result))] = inst.Position.LineByte
		}

		result = append(result, word)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func resolveAddress(
	inst *Instruction, symtable *SymTable, variable *uint16, debug *DebugTable,
) (uint16, error) {
	if encoding.IsDecimal(inst.Symbol) {
		value, err := encoding.EncodeAddress(inst.Symbol)

		var overflowErr *encoding.AddressOverflowError
		if errors.As(err, &overflowErr) {
			return 0, &OversizedLiteralError{
				inst.Position, encoding.MaxAddress, inst.Symbol,
			}
		}

		return value, err
	}

	if symtable.Contains(inst.Symbol) {
		addr, err := symtable.AddressOf(inst.Symbol)

		if err == nil && addr > encoding.MaxAddress {
			return 0, &OversizedLiteralError{
				inst.Position, encoding.MaxAddress, addr,
			}
		}

		return addr, err
	}

	if !ValidSymbol(inst.Symbol) {
		return 0, &InvalidSymbolError{inst.Position, inst.Symbol}
	}

	if *variable > encoding.MaxAddress {
		return 0, &OversizedLiteralError{
			inst.Position, encoding.MaxAddress, *variable,
		}
	}

	addr := *variable

	// The name is valid and unbound so the insert cannot fail
	symtable.Insert(inst.Symbol, addr)
	*variable++

	if debug != nil {
		debug.Variables[inst.Symbol] = addr
	}

	trace("Allocated variable", slog.String("variable", inst.Symbol), slog.Int("addr", int(addr)))

	return addr, nil
}

// FormatProgram renders each word as a 16 character binary string.
func FormatProgram(program []uint16) []string {
	result := make([]string, len(program))

	for i, word := range program {
		result[i] = encoding.FormatWord(word)
	}

	return result
}

func (debug *DebugTable) reset() {
	debug.Symbols = nil
	debug.Labels = nil
	debug.Variables = nil
	debug.init()
}

func (debug *DebugTable) init() {
	if debug.Symbols == nil {
		debug.Symbols = make(map[uint16]int64)
	}

	if debug.Labels == nil {
		debug.Labels = make(map[uint16]string)
	}

	if debug.Variables == nil {
		debug.Variables = make(map[string]uint16)
	}
}
