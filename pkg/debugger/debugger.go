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

package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/k0kubun/pp/v3"

	"github.com/lassandro/gohack/pkg/encoding"
	"github.com/lassandro/gohack/pkg/machine"
)

func (dbg *Debugger) out() io.Writer {
	if dbg.Out == nil {
		return os.Stdout
	}

	return dbg.Out
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		dbg.handleBreak(mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.handleBreak(mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type&ReadWatch == 0 {
			continue
		}

		if addr == watchpoint.Addr {
			if dbg.HandleRead != nil {
				dbg.HandleRead(addr, dbg, mc)
			}
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type&WriteWatch == 0 {
			continue
		}

		if addr == watchpoint.Addr {
			if dbg.HandleWrite != nil {
				dbg.HandleWrite(addr, dbg, mc)
			}
			break
		}
	}
}

func (dbg *Debugger) handleBreak(mc *machine.Machine) {
	if dbg.HandleBreak != nil {
		dbg.HandleBreak(dbg, mc)
	}
}

// AddBreakpoint reports false when addr already has one.
func (dbg *Debugger) AddBreakpoint(addr uint16) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{Addr: addr})
	return true
}

func (dbg *Debugger) AddWatchpoint(addr uint16, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{Addr: addr, Type: wtype})
	return true
}

// LabelAddr resolves a label from the debug table.
func (dbg *Debugger) LabelAddr(label string) (uint16, bool) {
	if dbg.DebugTable == nil {
		return 0, false
	}

	for addr, name := range dbg.DebugTable.Labels {
		if name == label {
			return addr, true
		}
	}

	return 0, false
}

// ResolveAddr accepts a label, a variable or a numeric address.
func (dbg *Debugger) ResolveAddr(s string) (uint16, error) {
	if addr, ok := dbg.LabelAddr(s); ok {
		return addr, nil
	}

	if dbg.DebugTable != nil {
		if addr, ok := dbg.DebugTable.Variables[s]; ok {
			return addr, nil
		}
	}

	return encoding.DecodeValue(s)
}

func (dbg *Debugger) PrintSource(addr uint16, count uint16) {
	w := dbg.out()

	if dbg.Source == nil {
		fmt.Fprintln(w, "No source file loaded")
		return
	}

	if dbg.DebugTable == nil {
		fmt.Fprintln(w, "No symbol table loaded")
		return
	}

	offset, exists := dbg.DebugTable.Symbols[addr]

	if !exists {
		fmt.Fprintf(w, "No instruction found at %d\n", addr)
		return
	}

	lineaddrs := make(map[int64]uint16, len(dbg.DebugTable.Symbols))
	for lineaddr, linebyte := range dbg.DebugTable.Symbols {
		lineaddrs[linebyte] = lineaddr
	}

	if _, err := dbg.Source.Seek(offset, io.SeekStart); err != nil {
		fmt.Fprintln(w, err)
		return
	}

	reader := bufio.NewReader(dbg.Source)

	for i := uint16(0); i < count; i++ {
		line, err := reader.ReadString('\n')

		if len(line) == 0 {
			if err != nil && err != io.EOF {
				fmt.Fprintln(w, err)
			}
			break
		}

		text := line
		if text[len(text)-1] == '\n' {
			text = text[:len(text)-1]
		}

		if lineaddr, ok := lineaddrs[offset]; ok {
			if lineaddr == addr {
				fmt.Fprintf(w, "\033[1m[%05d]\033[0m %s\n", lineaddr, text)
			} else {
				fmt.Fprintf(w, "[%05d] %s\n", lineaddr, text)
			}
		} else {
			fmt.Fprintf(w, "\033[1;30m~~~~~~~\033[0m %s\n", text)
		}

		offset += int64(len(line))
	}
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count uint16) {
	w := dbg.out()

	for i := uint32(addr); i < uint32(addr)+uint32(count) && i < machine.RAM_SIZE; i++ {
		if i == uint32(addr) {
			fmt.Fprintf(w, "\033[1m[%05d]\033[0m ", i)
		} else if (i-uint32(addr))%4 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%05d]\033[0m ", i)
		}

		result := mc.RAM[i]

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m0x%04x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "0x%04x ", result)
		}
	}

	fmt.Fprintln(w)
}

func (dbg *Debugger) PrintRegisters(mc *machine.MachineState) {
	fmt.Fprintf(
		dbg.out(),
		"A:0x%04x D:0x%04x (%d) PC:%d\n",
		mc.A, mc.D, int16(mc.D), mc.Program,
	)
}

// PrintInstruction disassembles the word at addr.
func (dbg *Debugger) PrintInstruction(mc *machine.MachineState, addr uint16) {
	word := mc.ROM[addr&machine.ADDRESS_MASK]
	w := dbg.out()

	if word&machine.BIT_COMPUTE == 0 {
		fmt.Fprintf(w, "[%05d] @%d\n", addr, word)
		return
	}

	dest, comp, jump, err := encoding.DecodeCompute(word)

	if err != nil {
		fmt.Fprintf(w, "[%05d] %s (%s)\n", addr, encoding.FormatWord(word), err)
		return
	}

	text := comp
	if dest.Present {
		text = dest.Text + "=" + text
	}
	if jump.Present {
		text = text + ";" + jump.Text
	}

	fmt.Fprintf(w, "[%05d] %s\n", addr, text)
}

func (dbg *Debugger) PrintLabels() {
	w := dbg.out()

	if dbg.DebugTable == nil {
		fmt.Fprintln(w, "No symbol table loaded")
		return
	}

	keys := make([]uint16, 0, len(dbg.DebugTable.Labels))
	for addr := range dbg.DebugTable.Labels {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, addr := range keys {
		fmt.Fprintf(w, "\033[1m[%05d]\033[0m %s\n", addr, dbg.DebugTable.Labels[addr])
	}
}

// Dump pretty prints the debug table and the debugger state.
func (dbg *Debugger) Dump() {
	printer := pp.New()
	printer.SetOutput(dbg.out())
	printer.SetColoringEnabled(false)

	printer.Println(struct {
		Breakpoints []Breakpoint
		Watchpoints []Watchpoint
		Variables   map[string]uint16
	}{
		dbg.Breakpoints,
		dbg.Watchpoints,
		dbg.variables(),
	})
}

func (dbg *Debugger) variables() map[string]uint16 {
	if dbg.DebugTable == nil {
		return nil
	}

	return dbg.DebugTable.Variables
}
