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

package debugger_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/gohack/pkg/assembler"
	"github.com/lassandro/gohack/pkg/debugger"
	"github.com/lassandro/gohack/pkg/machine"
)

const source = `// counts down R0
@10
D=A
@count
M=D
(LOOP)
@count
MD=M-1
@LOOP
D;JGT
(END)
@END
0;JMP
`

var _ = Describe("Debugger", func() {
	var (
		dbg     *debugger.Debugger
		mc      *machine.Machine
		program []uint16
		out     *bytes.Buffer
		breaks  []uint16
	)

	BeforeEach(func() {
		var table assembler.DebugTable

		var err error

		reader := strings.NewReader(source)
		program, err = assembler.AssembleHackSource(reader, nil, &table)
		Expect(err).NotTo(HaveOccurred())

		out = new(bytes.Buffer)
		breaks = nil

		dbg = &debugger.Debugger{
			Out:        out,
			Source:     reader,
			DebugTable: &table,
			HandleBreak: func(d *debugger.Debugger, m *machine.Machine) {
				breaks = append(breaks, m.State.Program)
			},
		}

		mc = &machine.Machine{Debugger: dbg}
		Expect(mc.LoadProgram(program)).To(Succeed())
	})

	Context("Breakpoints", func() {
		It("should stop every time the loop head is reached", func() {
			addr, ok := dbg.LabelAddr("LOOP")
			Expect(ok).To(BeTrue())
			Expect(addr).To(Equal(uint16(4)))

			Expect(dbg.AddBreakpoint(addr)).To(BeTrue())
			Expect(dbg.AddBreakpoint(addr)).To(BeFalse())

			mc.Run(1000)

			Expect(mc.Halted()).To(BeTrue())
			Expect(breaks).To(HaveLen(10))
			Expect(breaks[0]).To(Equal(addr))
		})

		It("should stop after every step while Break is set", func() {
			dbg.Break = true

			mc.Step()
			mc.Step()

			Expect(breaks).To(Equal([]uint16{1, 2}))
		})
	})

	Context("Watchpoints", func() {
		It("should only report matching access types", func() {
			var reads, writes []uint16

			dbg.HandleRead = func(addr uint16, d *debugger.Debugger, m *machine.Machine) {
				reads = append(reads, addr)
			}
			dbg.HandleWrite = func(addr uint16, d *debugger.Debugger, m *machine.Machine) {
				writes = append(writes, addr)
			}

			count, err := dbg.ResolveAddr("count")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(uint16(16)))

			Expect(dbg.AddWatchpoint(count, debugger.WriteWatch)).To(BeTrue())
			Expect(dbg.AddWatchpoint(count, debugger.WriteWatch)).To(BeFalse())

			mc.Run(1000)

			Expect(reads).To(BeEmpty())
			Expect(writes).To(HaveLen(11))

			dbg.Watchpoints = nil
			Expect(dbg.AddWatchpoint(count, debugger.ReadWriteWatch)).To(BeTrue())
			Expect(mc.LoadProgram(program)).To(Succeed())

			reads, writes = nil, nil
			mc.Run(1000)

			Expect(reads).To(HaveLen(10))
			Expect(writes).To(HaveLen(11))
		})
	})

	Context("Printing", func() {
		It("should print source lines with their addresses", func() {
			dbg.PrintSource(4, 3)

			Expect(out.String()).To(Equal(
				"\033[1m[00004]\033[0m @count\n" +
					"[00005] MD=M-1\n" +
					"[00006] @LOOP\n",
			))
		})

		It("should mark lines without instructions", func() {
			dbg.PrintSource(3, 2)

			Expect(out.String()).To(ContainSubstring("~~~~~~~\033[0m (LOOP)\n"))
		})

		It("should complain about unknown addresses", func() {
			dbg.PrintSource(100, 1)
			Expect(out.String()).To(Equal("No instruction found at 100\n"))
		})

		It("should disassemble instructions", func() {
			dbg.PrintInstruction(&mc.State, 0)
			dbg.PrintInstruction(&mc.State, 5)
			dbg.PrintInstruction(&mc.State, 7)

			Expect(out.String()).To(Equal(
				"[00000] @10\n[00005] MD=M-1\n[00007] D;JGT\n",
			))
		})

		It("should list labels in address order", func() {
			dbg.PrintLabels()

			Expect(out.String()).To(Equal(
				"\033[1m[00004]\033[0m LOOP\n\033[1m[00008]\033[0m END\n",
			))
		})

		It("should print registers", func() {
			mc.Step()
			mc.Step()
			dbg.PrintRegisters(&mc.State)

			Expect(out.String()).To(Equal("A:0x000a D:0x000a (10) PC:2\n"))
		})

		It("should print memory", func() {
			mc.State.RAM[17] = 3
			dbg.PrintMem(&mc.State, 16, 2)

			Expect(out.String()).To(ContainSubstring("[00016]"))
			Expect(out.String()).To(ContainSubstring("0x0003"))
		})

		It("should dump breakpoints and variables", func() {
			dbg.AddBreakpoint(4)
			dbg.Dump()

			Expect(out.String()).To(ContainSubstring("Breakpoints"))
			Expect(out.String()).To(ContainSubstring("count"))
		})
	})

	Context("Addresses", func() {
		It("should resolve labels, variables and numbers", func() {
			Expect(dbg.ResolveAddr("END")).To(Equal(uint16(8)))
			Expect(dbg.ResolveAddr("count")).To(Equal(uint16(16)))
			Expect(dbg.ResolveAddr("0x4000")).To(Equal(uint16(16384)))
			Expect(dbg.ResolveAddr("42")).To(Equal(uint16(42)))

			_, err := dbg.ResolveAddr("nope")
			Expect(err).To(HaveOccurred())
		})
	})
})
