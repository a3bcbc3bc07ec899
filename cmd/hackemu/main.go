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
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/lassandro/gohack/pkg/assembler"
	"github.com/lassandro/gohack/pkg/debugger"
	"github.com/lassandro/gohack/pkg/machine"
)

var debugvar bool
var displayvar bool
var stepsvar int
var scalevar int

var shouldexit bool
var rawTerm bool

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func newCommand(code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hackemu [flags] file.hack",
		Short:         "Runs a Hack machine program",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*code = hackemu(args[0])
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flags.BoolVar(
		&displayvar, "display", false,
		"Shows the screen memory map in a window",
	)
	flags.IntVar(
		&stepsvar, "steps", 0,
		"Stops after this many instructions, 0 runs until the program halts",
	)
	flags.IntVar(&scalevar, "scale", 2, "Window scale factor of the display")

	return cmd
}

func replaceExt(filename, ext string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

func loadDebugger(filename string) *debugger.Debugger {
	dbg := &debugger.Debugger{
		HandleBreak: handleBreak,
		HandleRead:  handleRead,
		HandleWrite: handleWrite,
	}

	if file, err := os.Open(replaceExt(filename, ".hackdb")); err == nil {
		var table assembler.DebugTable

		if err := gob.NewDecoder(file).Decode(&table); err == nil {
			dbg.DebugTable = &table
		} else {
			log.Println("Error loading symbol file")
			log.Println(err)
		}

		file.Close()
	} else {
		log.Println("Error loading symbol file")
		log.Println(err)
	}

	if dbg.DebugTable != nil && dbg.DebugTable.Source != "" {
		if file, err := os.Open(dbg.DebugTable.Source); err == nil {
			dbg.Source = file
			atexit.Register(func() { file.Close() })
		} else {
			log.Println("Error loading source file")
			log.Println(err)
		}
	}

	return dbg
}

func handleSignals(dbg *debugger.Debugger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		for range c {
			if dbg == nil {
				atexit.Exit(130)
			}

			fmt.Println()
			dbg.Break = true
		}
	}()
}

func printState(mc *machine.Machine, steps int) {
	var report debugger.Debugger

	if mc.Halted() {
		fmt.Printf("Halted after %d steps\n", steps)
	} else {
		fmt.Printf("Stopped after %d steps\n", steps)
	}

	report.PrintRegisters(&mc.State)
	report.PrintMem(&mc.State, 0, 16)
}

func hackemu(filename string) int {
	file, err := os.Open(filename)

	if err != nil {
		log.Println(err)
		return 1
	}

	var mc machine.Machine

	err = mc.LoadHack(file)
	file.Close()

	if err != nil {
		log.Printf("%s: %s", filepath.Base(filename), err)
		return 1
	}

	var dbg *debugger.Debugger

	if debugvar {
		dbg = loadDebugger(filename)
		mc.Debugger = dbg
	}

	handleSignals(dbg)

	if displayvar {
		if err := runDisplay(&mc, filepath.Base(filename), scalevar, stepsvar); err != nil {
			log.Println(err)
			return 1
		}

		return 0
	}

	if isTerminal(os.Stdin) {
		if err := enterRawTerm(); err != nil {
			log.Println(err)
			return 1
		}

		rawTerm = true
		atexit.Register(exitRawTerm)
	}

	mc.Keyboard = newTermKeyboard(os.Stdin)

	if dbg != nil {
		debugREPL(dbg, &mc)
	}

	steps := 0

	for !shouldexit && !mc.Halted() && (stepsvar == 0 || steps < stepsvar) {
		mc.Step()
		steps++
	}

	printState(&mc, steps)

	return 0
}

func main() {
	code := 0

	if err := newCommand(&code).Execute(); err != nil {
		log.Println(err)
		code = 1
	}

	atexit.Exit(code)
}
