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

package main

import (
	"io"
	"time"

	"github.com/lassandro/gohack/pkg/machine"
)

// Terminals report key presses but not releases, so a key is treated as held
// for keyHold after its last byte arrives.
const keyHold = 100 * time.Millisecond

// termKeyboard polls a non-blocking reader each time the machine reads KBD.
type termKeyboard struct {
	input io.Reader
	now   func() time.Time

	key   uint16
	until time.Time
	buf   [3]byte
}

func newTermKeyboard(input io.Reader) *termKeyboard {
	return &termKeyboard{input: input, now: time.Now}
}

func (kb *termKeyboard) Key() uint16 {
	n, _ := kb.input.Read(kb.buf[:1])

	if n == 1 && kb.buf[0] == 0x1b {
		rest, _ := kb.input.Read(kb.buf[1:])
		n += rest
	}

	if n > 0 {
		kb.key = translateKey(kb.buf[:n])
		kb.until = kb.now().Add(keyHold)
	} else if kb.key != 0 && kb.now().After(kb.until) {
		kb.key = 0
	}

	return kb.key
}

// translateKey maps the bytes of one terminal key press to a Hack key code.
func translateKey(seq []byte) uint16 {
	if len(seq) == 0 {
		return 0
	}

	if len(seq) >= 3 && seq[0] == 0x1b && seq[1] == '[' {
		switch seq[2] {
		case 'A':
			return machine.KEY_UP
		case 'B':
			return machine.KEY_DOWN
		case 'C':
			return machine.KEY_RIGHT
		case 'D':
			return machine.KEY_LEFT
		case 'H':
			return machine.KEY_HOME
		case 'F':
			return machine.KEY_END
		}
	}

	switch c := seq[0]; c {
	case '\r', '\n':
		return machine.KEY_NEWLINE
	case 0x7f, 0x08:
		return machine.KEY_BACKSPACE
	case 0x1b:
		return machine.KEY_ESCAPE
	default:
		if c >= 0x20 && c < 0x7f {
			return uint16(c)
		}
	}

	return 0
}
