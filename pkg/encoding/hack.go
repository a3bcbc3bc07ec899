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

package encoding

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteHack writes one 16 character binary word per line.
func WriteHack(w io.Writer, words []uint16) error {
	buffer := bufio.NewWriter(w)

	for _, word := range words {
		if _, err := buffer.WriteString(FormatWord(word)); err != nil {
			return err
		}

		if err := buffer.WriteByte('\n'); err != nil {
			return err
		}
	}

	return buffer.Flush()
}

// ReadHack is the inverse of WriteHack. Blank lines are skipped.
func ReadHack(r io.Reader) ([]uint16, error) {
	var words []uint16

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())

		if text == "" {
			continue
		}

		word, err := ParseWord(text)

		if err != nil {
			return nil, fmt.Errorf("%02d: %w", line, err)
		}

		words = append(words, word)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return words, nil
}
