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

package machine

const (
	ROM_SIZE = 1 << 15
	RAM_SIZE = 1 << 15

	// Addresses wrap at 15 bits
	ADDRESS_MASK uint16 = 0x7FFF
)

const (
	MEMSPACE_SCREEN uint16 = 0x4000
	MEMSPACE_KBD    uint16 = 0x6000
)

const (
	SCREEN_WIDTH  = 512
	SCREEN_HEIGHT = 256

	// Words per screen row
	SCREEN_STRIDE = SCREEN_WIDTH / 16
)

// C-instruction layout: 111a cccc ccdd djjj
const (
	BIT_COMPUTE uint16 = 1 << 15
	BIT_MEMORY  uint16 = 1 << 12
)

// ALU control bits, c1..c6
const (
	ALU_ZX uint8 = 1 << 5
	ALU_NX uint8 = 1 << 4
	ALU_ZY uint8 = 1 << 3
	ALU_NY uint8 = 1 << 2
	ALU_F  uint8 = 1 << 1
	ALU_NO uint8 = 1 << 0
)

const (
	DEST_M uint16 = 1 << 0
	DEST_D uint16 = 1 << 1
	DEST_A uint16 = 1 << 2
)

const (
	JUMP_GT uint16 = 1 << 0
	JUMP_EQ uint16 = 1 << 1
	JUMP_LT uint16 = 1 << 2
)

// Key codes of the Hack keyboard for non-printable keys
const (
	KEY_NEWLINE   uint16 = 128
	KEY_BACKSPACE uint16 = 129
	KEY_LEFT      uint16 = 130
	KEY_UP        uint16 = 131
	KEY_RIGHT     uint16 = 132
	KEY_DOWN      uint16 = 133
	KEY_HOME      uint16 = 134
	KEY_END       uint16 = 135
	KEY_PAGEUP    uint16 = 136
	KEY_PAGEDOWN  uint16 = 137
	KEY_INSERT    uint16 = 138
	KEY_DELETE    uint16 = 139
	KEY_ESCAPE    uint16 = 140
	KEY_F1        uint16 = 141
)
