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
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lassandro/gohack/pkg/debugger"
	"github.com/lassandro/gohack/pkg/encoding"
	"github.com/lassandro/gohack/pkg/machine"
)

var lastcmd []string
var replScanner *bufio.Scanner

// parseValue accepts hex, unsigned decimal and negative decimal values.
func parseValue(s string) (uint16, error) {
	if value, err := encoding.DecodeValue(s); err == nil {
		return value, nil
	}

	value, err := strconv.ParseInt(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return uint16(int16(value)), nil
}

func indexFormat(count int, suffix string) string {
	digits := math.Floor(math.Log10(float64(count + 1)))
	return fmt.Sprintf("#%%0%dd: %s\n", int64(digits)+1, suffix)
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [addr|label]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := dbg.ResolveAddr(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if dbg.AddBreakpoint(addr) {
			fmt.Printf("Breakpoint added [%05d]\n", addr)
		}

	case "l", "ls", "list":
		if len(args) != 0 {
			log.Println("break list")
			return
		}

		fmtstring := indexFormat(len(dbg.Breakpoints), "%05d")

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= len(dbg.Breakpoints) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func watchTypeName(wtype debugger.WatchpointType) string {
	switch wtype {
	case debugger.ReadWatch:
		return "read"
	case debugger.WriteWatch:
		return "write"
	default:
		return "readwrite"
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [addr|variable] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := dbg.ResolveAddr(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		if dbg.AddWatchpoint(addr, wtype) {
			fmt.Printf("Watchpoint added [%05d] (%s)\n", addr, watchTypeName(wtype))
		}

	case "l", "ls", "list":
		if len(args) != 0 {
			log.Println("watch list")
			return
		}

		fmtstring := indexFormat(len(dbg.Watchpoints), "%05d %s")

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchTypeName(watchpoint.Type))
		}

	case "r", "rm", "remove":
		const usage = "watch remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= len(dbg.Watchpoints) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = nil
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func debugReg(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "register [A|D|PC] [value]"

	if len(args) == 0 {
		dbg.PrintRegisters(mc)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	value, err := parseValue(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	switch strings.ToUpper(args[0]) {
	case "A":
		mc.A = value
	case "D":
		mc.D = value
	case "PC":
		mc.Program = value & machine.ADDRESS_MASK
	default:
		log.Println("Invalid register")
		return
	}

	dbg.PrintRegisters(mc)
}

// addrAndCount parses the optional "[addr] [#]" arguments shared by several
// commands. A lone decimal argument is taken as a count.
func addrAndCount(
	dbg *debugger.Debugger, args []string, addr, count uint16,
) (uint16, uint16, bool) {
	if len(args) > 2 {
		return 0, 0, false
	}

	if len(args) == 1 {
		if _, ok := dbg.LabelAddr(args[0]); !ok && encoding.IsDecimal(args[0]) {
			value, err := strconv.ParseUint(args[0], 10, 16)

			if err != nil {
				log.Println(err)
				return 0, 0, false
			}

			return addr, uint16(value), true
		}
	}

	if len(args) > 0 {
		var err error

		if addr, err = dbg.ResolveAddr(args[0]); err != nil {
			log.Println(err)
			return 0, 0, false
		}
	}

	if len(args) > 1 {
		value, err := strconv.ParseUint(args[1], 10, 16)

		if err != nil {
			log.Println(err)
			return 0, 0, false
		}

		count = uint16(value)
	}

	return addr, count, true
}

func debugSource(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	addr, count, ok := addrAndCount(dbg, args, mc.Program, 3)

	if !ok {
		log.Println("source [addr|label] [#]")
		return
	}

	dbg.PrintSource(addr, count)
}

func debugDisassemble(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	addr, count, ok := addrAndCount(dbg, args, mc.Program, 1)

	if !ok {
		log.Println("disassemble [addr|label] [#]")
		return
	}

	for i := uint32(0); i < uint32(count) && uint32(addr)+i < machine.ROM_SIZE; i++ {
		dbg.PrintInstruction(mc, addr+uint16(i))
	}
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	addr, count, ok := addrAndCount(dbg, args, mc.A, 1)

	if !ok {
		log.Println("memory [addr|variable] [#]")
		return
	}

	dbg.PrintMem(mc, addr, count)
}

func debugJump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "jump [addr|label]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	addr, err := dbg.ResolveAddr(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	mc.Program = addr & machine.ADDRESS_MASK
	dbg.PrintRegisters(mc)
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "set [addr|variable] [value]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := dbg.ResolveAddr(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := parseValue(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	addr &= machine.ADDRESS_MASK
	mc.RAM[addr] = value
	dbg.PrintMem(mc, addr, 1)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	if rawTerm {
		exitRawTerm()
		defer enterRawTerm()
	}

	if replScanner == nil {
		replScanner = bufio.NewScanner(os.Stdin)
	}

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !replScanner.Scan() {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(replScanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, &mc.State, args)

		case "s", "src", "source":
			debugSource(dbg, &mc.State, args)

		case "d", "dis", "disassemble":
			debugDisassemble(dbg, &mc.State, args)

		case "l", "label", "labels":
			dbg.PrintLabels()

		case "j", "jmp", "jump":
			debugJump(dbg, &mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "dump":
			dbg.Dump()

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			mc.State.Reset()
			dbg.PrintRegisters(&mc.State)

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
		dbg.PrintSource(mc.State.Program, 8)
	} else {
		dbg.PrintInstruction(&mc.State, mc.State.Program)
	}

	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped on read")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped on write")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
