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

// Package machine emulates the Hack computer: a 32K word instruction ROM, a
// 32K word data RAM with memory mapped screen and keyboard, and the A, D and
// PC registers.
package machine

import (
	"fmt"
	"io"

	"github.com/lassandro/gohack/pkg/encoding"
)

func (mc *MachineState) Reset() {
	mc.A = 0
	mc.D = 0
	mc.Program = 0

	for i := range mc.RAM {
		mc.RAM[i] = 0
	}
}

// LoadHack loads a program in the textual .hack format.
func (mc *Machine) LoadHack(reader io.Reader) error {
	words, err := encoding.ReadHack(reader)

	if err != nil {
		return err
	}

	return mc.LoadProgram(words)
}

// LoadProgram resets the machine and copies words into the ROM.
func (mc *Machine) LoadProgram(words []uint16) error {
	if len(words) > ROM_SIZE {
		return fmt.Errorf(
			"Program exceeds ROM size\n\twant:%d\n\thave:%d",
			ROM_SIZE,
			len(words),
		)
	}

	mc.State.Reset()

	for i := range mc.State.ROM {
		mc.State.ROM[i] = 0
	}

	copy(mc.State.ROM[:], words)
	return nil
}

func (mc *Machine) read(addr uint16) uint16 {
	addr &= ADDRESS_MASK

	if addr == MEMSPACE_KBD {
		if mc.Keyboard != nil {
			mc.State.RAM[addr] = mc.Keyboard.Key()
		} else {
			mc.State.RAM[addr] = 0
		}
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.RAM[addr]
}

func (mc *Machine) write(addr uint16, value uint16) {
	addr &= ADDRESS_MASK

	// The keyboard register is read-only
	if addr != MEMSPACE_KBD {
		mc.State.RAM[addr] = value
	}

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func alu(x, y uint16, control uint8) uint16 {
	if control&ALU_ZX != 0 {
		x = 0
	}

	if control&ALU_NX != 0 {
		x = ^x
	}

	if control&ALU_ZY != 0 {
		y = 0
	}

	if control&ALU_NY != 0 {
		y = ^y
	}

	var out uint16

	if control&ALU_F != 0 {
		out = x + y
	} else {
		out = x & y
	}

	if control&ALU_NO != 0 {
		out = ^out
	}

	return out
}

func shouldJump(value uint16, jump uint16) bool {
	switch {
	case value == 0:
		return jump&JUMP_EQ != 0
	case int16(value) < 0:
		return jump&JUMP_LT != 0
	default:
		return jump&JUMP_GT != 0
	}
}

func (mc *Machine) Step() {
	instruction := mc.State.ROM[mc.State.Program&ADDRESS_MASK]

	mc.State.Program++

	// A-instruction
	// ---- [0|value                         ]
	if instruction&BIT_COMPUTE == 0 {
		mc.State.A = instruction
	} else {
		// C-instruction
		// ---- [1|1|1|a|c1..c6     |d1..d3|j1..j3]
		addr := mc.State.A

		y := mc.State.A
		if instruction&BIT_MEMORY != 0 {
			y = mc.read(addr)
		}

		out := alu(mc.State.D, y, uint8(instruction>>6)&0x3F)

		dest := (instruction >> 3) & 0x7
		jump := instruction & 0x7

		if dest&DEST_M != 0 {
			mc.write(addr, out)
		}

		if dest&DEST_A != 0 {
			mc.State.A = out
		}

		if dest&DEST_D != 0 {
			mc.State.D = out
		}

		if jump != 0 && shouldJump(out, jump) {
			mc.State.Program = addr
		}
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}
}

// Halted reports whether the machine is parked in the conventional
// "(END) @END 0;JMP" loop.
func (mc *Machine) Halted() bool {
	pc := mc.State.Program & ADDRESS_MASK

	if mc.State.ROM[pc] != pc || pc+1 >= ROM_SIZE {
		return false
	}

	next := mc.State.ROM[pc+1]

	return next&0xE000 == 0xE000 && next&0x7 == 0x7
}

// Run steps the machine until it halts or limit steps have executed. A limit
// of 0 means no limit. It returns the number of steps taken.
func (mc *Machine) Run(limit int) int {
	steps := 0

	for !mc.Halted() && (limit == 0 || steps < limit) {
		mc.Step()
		steps++
	}

	return steps
}

// Pixel reports whether the screen pixel at (x, y) is black.
func (mc *MachineState) Pixel(x, y int) bool {
	word := mc.RAM[int(MEMSPACE_SCREEN)+y*SCREEN_STRIDE+x/16]
	return (word>>(uint(x)%16))&0x1 == 1
}
