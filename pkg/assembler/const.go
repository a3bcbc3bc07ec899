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

const (
	INSTRUCTION_NONE InstructionType = iota
	INSTRUCTION_ADDRESS
	INSTRUCTION_COMPUTE
	INSTRUCTION_LABEL
)

const (
	ADDRESS_SCREEN   uint16 = 16384
	ADDRESS_KBD      uint16 = 24576
	ADDRESS_VARIABLE uint16 = 16

	// Instruction memory holds 32K words
	PROGRAM_SIZE = 1 << 15
)

const commentMarker = "//"

var predefinedSymbols = [...]struct {
	name string
	addr uint16
}{
	{"R0", 0}, {"R1", 1}, {"R2", 2}, {"R3", 3},
	{"R4", 4}, {"R5", 5}, {"R6", 6}, {"R7", 7},
	{"R8", 8}, {"R9", 9}, {"R10", 10}, {"R11", 11},
	{"R12", 12}, {"R13", 13}, {"R14", 14}, {"R15", 15},

	{"SCREEN", ADDRESS_SCREEN},
	{"KBD", ADDRESS_KBD},

	// Virtual machine segment pointers
	{"SP", 0},
	{"LCL", 1},
	{"ARG", 2},
	{"THIS", 3},
	{"THAT", 4},
}
