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

// Package encoding holds the fixed bit tables of the Hack instruction format
// and the helpers that move words in and out of their textual form.
package encoding

import (
	"errors"
	"strconv"
	"strings"
)

type DestCode uint16
type JumpCode uint16

// Mnemonic is an optional dest or jump field of a C-instruction. The zero
// value is the absent field, which is distinct from a present empty string.
type Mnemonic struct {
	Text    string
	Present bool
}

// Absent is the missing dest/jump field, encoded as 000.
var Absent = Mnemonic{}

func MnemonicOf(text string) Mnemonic {
	return Mnemonic{Text: text, Present: true}
}

func (m Mnemonic) String() string {
	if !m.Present {
		return "<none>"
	}

	return m.Text
}

const (
	DEST_NONE DestCode = iota
	DEST_M
	DEST_D
	DEST_MD
	DEST_A
	DEST_AM
	DEST_AD
	DEST_AMD
)

const (
	JUMP_NONE JumpCode = iota
	JUMP_JGT
	JUMP_JEQ
	JUMP_JGE
	JUMP_JLT
	JUMP_JNE
	JUMP_JLE
	JUMP_JMP
)

const (
	// Largest value an A-instruction can carry
	MaxAddress uint16 = 1<<15 - 1

	computePrefix uint16 = 0b111 << 13
)

// Indexed by DestCode / JumpCode; index 0 is the absent field.
var destMnemonics = [8]string{"", "M", "D", "MD", "A", "AM", "AD", "AMD"}
var jumpMnemonics = [8]string{
	"", "JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP",
}

// a-bit followed by c1..c6
var compTable = [28]struct {
	mnemonic string
	code     uint16
}{
	{"0", 0b0101010},
	{"1", 0b0111111},
	{"-1", 0b0111010},
	{"D", 0b0001100},
	{"A", 0b0110000},
	{"!D", 0b0001101},
	{"!A", 0b0110001},
	{"-D", 0b0001111},
	{"-A", 0b0110011},
	{"D+1", 0b0011111},
	{"A+1", 0b0110111},
	{"D-1", 0b0001110},
	{"A-1", 0b0110010},
	{"D+A", 0b0000010},
	{"D-A", 0b0010011},
	{"A-D", 0b0000111},
	{"D&A", 0b0000000},
	{"D|A", 0b0010101},

	{"M", 0b1110000},
	{"!M", 0b1110001},
	{"-M", 0b1110011},
	{"M+1", 0b1110111},
	{"M-1", 0b1110010},
	{"D+M", 0b1000010},
	{"D-M", 0b1010011},
	{"M-D", 0b1000111},
	{"D&M", 0b1000000},
	{"D|M", 0b1010101},
}

type UnknownMnemonicError struct {
	Field    string
	Mnemonic string
}

func (err *UnknownMnemonicError) Error() string {
	return "Unknown " + err.Field + " mnemonic '" + err.Mnemonic + "'"
}

type AddressOverflowError struct {
	Literal string
}

func (err *AddressOverflowError) Error() string {
	return "Address '" + err.Literal + "' exceeds " +
		strconv.Itoa(int(MaxAddress))
}

func Comp(mnemonic string) (uint16, error) {
	for _, entry := range compTable {
		if entry.mnemonic == mnemonic {
			return entry.code, nil
		}
	}

	return 0, &UnknownMnemonicError{"comp", mnemonic}
}

func CompMnemonic(code uint16) (string, bool) {
	for _, entry := range compTable {
		if entry.code == code {
			return entry.mnemonic, true
		}
	}

	return "", false
}

func Dest(mnemonic Mnemonic) (DestCode, error) {
	if !mnemonic.Present {
		return DEST_NONE, nil
	}

	for code := DEST_M; code <= DEST_AMD; code++ {
		if destMnemonics[code] == mnemonic.Text {
			return code, nil
		}
	}

	return 0, &UnknownMnemonicError{"dest", mnemonic.Text}
}

func (code DestCode) Mnemonic() Mnemonic {
	if code == DEST_NONE || code > DEST_AMD {
		return Absent
	}

	return MnemonicOf(destMnemonics[code])
}

func Jump(mnemonic Mnemonic) (JumpCode, error) {
	if !mnemonic.Present {
		return JUMP_NONE, nil
	}

	for code := JUMP_JGT; code <= JUMP_JMP; code++ {
		if jumpMnemonics[code] == mnemonic.Text {
			return code, nil
		}
	}

	return 0, &UnknownMnemonicError{"jump", mnemonic.Text}
}

func (code JumpCode) Mnemonic() Mnemonic {
	if code == JUMP_NONE || code > JUMP_JMP {
		return Absent
	}

	return MnemonicOf(jumpMnemonics[code])
}

// EncodeCompute packs a C-instruction as 111 a c1..c6 d1..d3 j1..j3.
func EncodeCompute(dest Mnemonic, comp string, jump Mnemonic) (uint16, error) {
	c, err := Comp(comp)

	if err != nil {
		return 0, err
	}

	d, err := Dest(dest)

	if err != nil {
		return 0, err
	}

	j, err := Jump(jump)

	if err != nil {
		return 0, err
	}

	return computePrefix | c<<6 | uint16(d)<<3 | uint16(j), nil
}

func DecodeCompute(word uint16) (dest Mnemonic, comp string, jump Mnemonic, err error) {
	if word&computePrefix != computePrefix {
		return Absent, "", Absent, errors.New("Not a compute instruction")
	}

	comp, ok := CompMnemonic((word >> 6) & 0x7F)

	if !ok {
		return Absent, "", Absent, &UnknownMnemonicError{
			"comp", FormatWord(word)[3:10],
		}
	}

	dest = DestCode((word >> 3) & 0x7).Mnemonic()
	jump = JumpCode(word & 0x7).Mnemonic()

	return dest, comp, jump, nil
}

// IsDecimal reports whether s is a non-negative decimal literal.
func IsDecimal(s string) bool {
	if len(s) == 0 {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func EncodeAddress(literal string) (uint16, error) {
	result, err := strconv.ParseUint(literal, 10, 16)

	if err != nil {
		var numErr *strconv.NumError

		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, &AddressOverflowError{literal}
		}

		return 0, err
	}

	if result > uint64(MaxAddress) {
		return 0, &AddressOverflowError{literal}
	}

	return uint16(result), nil
}

func FormatWord(word uint16) string {
	s := strconv.FormatUint(uint64(word), 2)
	return strings.Repeat("0", 16-len(s)) + s
}

func ParseWord(s string) (uint16, error) {
	if len(s) != 16 || strings.Trim(s, "01") != "" {
		return 0, errors.New("Invalid binary word '" + s + "'")
	}

	result, err := strconv.ParseUint(s, 2, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// DecodeHex accepts 0x1F, x1F and X1F forms.
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// DecodeValue reads either a hex literal or a decimal one.
func DecodeValue(s string) (uint16, error) {
	if strings.ContainsAny(s, "xX") {
		return DecodeHex(s)
	}

	result, err := strconv.ParseUint(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}
