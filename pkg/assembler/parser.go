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
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/lassandro/gohack/pkg/encoding"
)

// ParseLine classifies a single source line. position only needs Line and
// LineByte set; the remaining fields are filled from the line contents.
func ParseLine(line string, position Cursor) (Instruction, error) {
	var inst Instruction

	code := line

	if i := strings.Index(code, commentMarker); i != -1 {
		code = code[:i]
	}

	start := strings.IndexFunc(code, func(r rune) bool {
		return !unicode.IsSpace(r)
	})

	if start == -1 {
		inst.Type = INSTRUCTION_NONE
		inst.Position = position
		return inst, nil
	}

	end := strings.LastIndexFunc(code, func(r rune) bool {
		return !unicode.IsSpace(r)
	}) + 1

	position.Column = start + 1
	position.Byte = position.LineByte + int64(start)
	position.Size = int64(end - start)
	inst.Position = position

	body := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, code)

	switch body[0] {
	case '@':
		inst.Type = INSTRUCTION_ADDRESS
		inst.Symbol = body[1:]

		if inst.Symbol == "" {
			return inst, &MalformedAddressError{position}
		}

	case '(':
		inst.Type = INSTRUCTION_LABEL

		if len(body) < 3 || body[len(body)-1] != ')' {
			return inst, &MalformedLabelError{position, body}
		}

		inst.Symbol = body[1 : len(body)-1]

	default:
		inst.Type = INSTRUCTION_COMPUTE
		inst.Dest = encoding.Absent
		inst.Jump = encoding.Absent

		rest := body

		if i := strings.IndexByte(rest, ';'); i != -1 {
			inst.Jump = encoding.MnemonicOf(rest[i+1:])
			rest = rest[:i]
		}

		if i := strings.IndexByte(rest, '='); i != -1 {
			inst.Dest = encoding.MnemonicOf(rest[:i])
			rest = rest[i+1:]
		}

		inst.Comp = rest

		if inst.Comp == "" {
			return inst, &MissingComputationError{position, body}
		}
	}

	return inst, nil
}

// Scanner reads a source one line at a time and keeps the instruction
// counter: the number of A- and C-instructions seen so far.
type Scanner struct {
	reader *bufio.Reader
	inst   Instruction
	err    error
	done   bool

	line    int
	offset  int64
	counter int
}

func NewScanner(input io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(input)}
}

// Scan advances to the next line. It returns false at the end of the input
// or on the first error, which is then available from Err.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.done {
		return false
	}

	raw, err := s.reader.ReadString('\n')

	if err == io.EOF {
		s.done = true

		if len(raw) == 0 {
			return false
		}
	} else if err != nil {
		s.err = fmt.Errorf("Error reading source: %w", err)
		return false
	}

	s.line++

	inst, err := ParseLine(
		strings.TrimRight(raw, "\r\n"),
		Cursor{Line: s.line, Byte: s.offset, LineByte: s.offset},
	)

	s.offset += int64(len(raw))

	if err != nil {
		s.err = err
		return false
	}

	inst.Addr = s.counter

	if inst.Type == INSTRUCTION_ADDRESS || inst.Type == INSTRUCTION_COMPUTE {
		s.counter++
	}

	s.inst = inst
	return true
}

func (s *Scanner) Instruction() Instruction {
	return s.inst
}

// Count is the number of real instructions scanned so far.
func (s *Scanner) Count() int {
	return s.counter
}

func (s *Scanner) Err() error {
	return s.err
}
