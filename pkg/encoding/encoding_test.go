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

package encoding_test

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/gohack/pkg/encoding"
)

var comps = []string{
	"0", "1", "-1", "D", "A", "!D", "!A", "-D", "-A",
	"D+1", "A+1", "D-1", "A-1", "D+A", "D-A", "A-D", "D&A", "D|A",
	"M", "!M", "-M", "M+1", "M-1", "D+M", "D-M", "M-D", "D&M", "D|M",
}

var dests = []encoding.Mnemonic{
	encoding.Absent,
	encoding.MnemonicOf("M"),
	encoding.MnemonicOf("D"),
	encoding.MnemonicOf("MD"),
	encoding.MnemonicOf("A"),
	encoding.MnemonicOf("AM"),
	encoding.MnemonicOf("AD"),
	encoding.MnemonicOf("AMD"),
}

var jumps = []encoding.Mnemonic{
	encoding.Absent,
	encoding.MnemonicOf("JGT"),
	encoding.MnemonicOf("JEQ"),
	encoding.MnemonicOf("JGE"),
	encoding.MnemonicOf("JLT"),
	encoding.MnemonicOf("JNE"),
	encoding.MnemonicOf("JLE"),
	encoding.MnemonicOf("JMP"),
}

var _ = Describe("Comp", func() {
	It("should split the table by the a bit", func() {
		direct, indirect := 0, 0

		for _, mnemonic := range comps {
			code, err := encoding.Comp(mnemonic)
			Expect(err).NotTo(HaveOccurred())

			if code&0b1000000 == 0 {
				direct++
			} else {
				indirect++
			}
		}

		Expect(direct).To(Equal(18))
		Expect(indirect).To(Equal(10))
	})

	It("should give every mnemonic a distinct code", func() {
		seen := make(map[uint16]string)

		for _, mnemonic := range comps {
			code, _ := encoding.Comp(mnemonic)
			Expect(seen).NotTo(HaveKey(code))
			seen[code] = mnemonic
		}
	})

	DescribeTable("should match the hardware table",
		func(mnemonic string, want uint16) {
			Expect(encoding.Comp(mnemonic)).To(Equal(want))
		},
		Entry("0", "0", uint16(0b0101010)),
		Entry("-1", "-1", uint16(0b0111010)),
		Entry("D&A", "D&A", uint16(0b0000000)),
		Entry("D|M", "D|M", uint16(0b1010101)),
		Entry("M-D", "M-D", uint16(0b1000111)),
	)

	It("should reject mnemonics outside the table", func() {
		for _, mnemonic := range []string{"", "M+D", "1+D", "d", "D+2", "A&D"} {
			_, err := encoding.Comp(mnemonic)

			var mnemonicErr *encoding.UnknownMnemonicError
			Expect(errors.As(err, &mnemonicErr)).To(BeTrue())
			Expect(mnemonicErr.Field).To(Equal("comp"))
		}
	})
})

var _ = Describe("Dest and Jump", func() {
	It("should encode the absent field as 000", func() {
		Expect(encoding.Dest(encoding.Absent)).To(Equal(encoding.DEST_NONE))
		Expect(encoding.Jump(encoding.Absent)).To(Equal(encoding.JUMP_NONE))
	})

	It("should follow the fixed order", func() {
		for i, dest := range dests {
			Expect(encoding.Dest(dest)).To(Equal(encoding.DestCode(i)))
		}

		for i, jump := range jumps {
			Expect(encoding.Jump(jump)).To(Equal(encoding.JumpCode(i)))
		}
	})

	It("should treat a present empty field as unknown", func() {
		_, err := encoding.Dest(encoding.MnemonicOf(""))
		Expect(err).To(HaveOccurred())

		_, err = encoding.Jump(encoding.MnemonicOf(""))
		Expect(err).To(HaveOccurred())
	})

	It("should not accept permutations", func() {
		for _, text := range []string{"DM", "MA", "DA", "MDA", "m"} {
			_, err := encoding.Dest(encoding.MnemonicOf(text))
			Expect(err).To(HaveOccurred())
		}

		_, err := encoding.Jump(encoding.MnemonicOf("jmp"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("EncodeCompute", func() {
	It("should encode the documented examples", func() {
		Expect(encoding.EncodeCompute(
			encoding.MnemonicOf("D"), "A", encoding.Absent,
		)).To(Equal(uint16(0b1110110000010000)))

		Expect(encoding.EncodeCompute(
			encoding.Absent, "0", encoding.MnemonicOf("JMP"),
		)).To(Equal(uint16(0b1110101010000111)))
	})

	It("should round trip every field combination", func() {
		for _, comp := range comps {
			for _, dest := range dests {
				for _, jump := range jumps {
					word, err := encoding.EncodeCompute(dest, comp, jump)
					Expect(err).NotTo(HaveOccurred())
					Expect(word >> 13).To(Equal(uint16(0b111)))

					d, c, j, err := encoding.DecodeCompute(word)
					Expect(err).NotTo(HaveOccurred())
					Expect(d).To(Equal(dest))
					Expect(c).To(Equal(comp))
					Expect(j).To(Equal(jump))
				}
			}
		}
	})

	It("should refuse to decode A-instructions", func() {
		_, _, _, err := encoding.DecodeCompute(0x7FFF)
		Expect(err).To(HaveOccurred())
	})

	It("should refuse to decode unassigned comp codes", func() {
		_, _, _, err := encoding.DecodeCompute(0b1111111111000000)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("EncodeAddress", func() {
	It("should accept the 15-bit range", func() {
		Expect(encoding.EncodeAddress("0")).To(Equal(uint16(0)))
		Expect(encoding.EncodeAddress("16384")).To(Equal(uint16(16384)))
		Expect(encoding.EncodeAddress("32767")).To(Equal(uint16(32767)))
	})

	It("should reject values past 32767", func() {
		for _, literal := range []string{"32768", "65535", "65536", "123456789012"} {
			_, err := encoding.EncodeAddress(literal)

			var overflowErr *encoding.AddressOverflowError
			Expect(errors.As(err, &overflowErr)).To(BeTrue())
		}
	})

	It("should only treat digit strings as decimal", func() {
		Expect(encoding.IsDecimal("0123")).To(BeTrue())
		Expect(encoding.IsDecimal("")).To(BeFalse())
		Expect(encoding.IsDecimal("-1")).To(BeFalse())
		Expect(encoding.IsDecimal("1a")).To(BeFalse())
		Expect(encoding.IsDecimal("+1")).To(BeFalse())
	})
})

var _ = Describe("Words", func() {
	It("should left pad to 16 characters", func() {
		Expect(encoding.FormatWord(0)).To(Equal("0000000000000000"))
		Expect(encoding.FormatWord(2)).To(Equal("0000000000000010"))
		Expect(encoding.FormatWord(0xFFFF)).To(Equal("1111111111111111"))
	})

	It("should parse what it formats", func() {
		for _, word := range []uint16{0, 1, 0x1234, 0x8000, 0xEA87, 0xFFFF} {
			Expect(encoding.ParseWord(encoding.FormatWord(word))).To(Equal(word))
		}
	})

	It("should reject malformed words", func() {
		for _, s := range []string{"", "0101", "00000000000000002", "0000000000000000 "} {
			_, err := encoding.ParseWord(s)
			Expect(err).To(HaveOccurred())
		}
	})

	It("should read back a written program", func() {
		program := []uint16{2, 0xEC10, 3, 0xE090, 0, 0xE308}

		var buffer bytes.Buffer
		Expect(encoding.WriteHack(&buffer, program)).To(Succeed())
		Expect(buffer.String()).To(Equal(
			"0000000000000010\n" +
				"1110110000010000\n" +
				"0000000000000011\n" +
				"1110000010010000\n" +
				"0000000000000000\n" +
				"1110001100001000\n",
		))

		Expect(encoding.ReadHack(&buffer)).To(Equal(program))
	})

	It("should report the failing line", func() {
		_, err := encoding.ReadHack(strings.NewReader("0000000000000000\n\n12\n"))
		Expect(err).To(MatchError(ContainSubstring("03:")))
	})
})

var _ = Describe("Values", func() {
	It("should decode hex and decimal", func() {
		Expect(encoding.DecodeValue("0x4000")).To(Equal(uint16(16384)))
		Expect(encoding.DecodeValue("x10")).To(Equal(uint16(16)))
		Expect(encoding.DecodeValue("24576")).To(Equal(uint16(24576)))
	})

	It("should reject garbage", func() {
		_, err := encoding.DecodeValue("abc")
		Expect(err).To(HaveOccurred())

		_, err = encoding.DecodeHex("1x10")
		Expect(err).To(HaveOccurred())
	})
})
