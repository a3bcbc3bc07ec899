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
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/lassandro/gohack/pkg/assembler"
	"github.com/lassandro/gohack/pkg/encoding"
)

var debugvar bool
var symbolsvar bool
var verbosevar int
var outvar string

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func newCommand(code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hackasm [flags] [file.asm]",
		Short:         "Assembles Hack assembly into .hack machine code",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*code = hackasm(cmd, args)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.hackdb'",
	)
	flags.BoolVar(
		&symbolsvar, "symbols", false,
		"Prints the labels and variables of the assembled program",
	)
	flags.StringVarP(
		&outvar, "out", "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flags.CountVarP(
		&verbosevar, "verbose", "v",
		"Logs assembler progress, repeat for symbol level detail",
	)

	return cmd
}

func setupLogging() {
	level := slog.LevelWarn

	switch {
	case verbosevar >= 2:
		level = assembler.LevelTrace
	case verbosevar == 1:
		level = slog.LevelDebug
	}

	assembler.SetLogger(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	))
}

// openInput returns the source to assemble along with its path, which is
// empty for stdin.
func openInput(cmd *cobra.Command, args []string) (io.ReadSeeker, string, error) {
	if len(args) == 0 {
		if stat, err := os.Stdin.Stat(); err != nil {
			return nil, "", err
		} else if stat.Mode()&os.ModeCharDevice != 0 {
			return nil, "", errors.New(cmd.UseLine())
		}

		// Both passes need to read the source, stdin cannot be rewound
		data, err := io.ReadAll(os.Stdin)

		if err != nil {
			return nil, "", err
		}

		return bytes.NewReader(data), "", nil
	}

	file, err := os.Open(args[0])

	if err != nil {
		return nil, "", err
	}

	atexit.Register(func() { file.Close() })

	if stat, err := file.Stat(); err != nil {
		return nil, "", err
	} else if stat.IsDir() {
		return nil, "", fmt.Errorf(
			"%s is not a valid Hack assembly file", filepath.Base(args[0]),
		)
	}

	return file, file.Name(), nil
}

func printError(err error, input io.ReadSeeker) {
	var tokenErr assembler.TokenError

	if !errors.As(err, &tokenErr) {
		log.Println(err)
		return
	}

	cursor := tokenErr.GetPosition()

	if _, serr := input.Seek(cursor.LineByte, io.SeekStart); serr != nil {
		log.Println(err)
		return
	}

	line, _ := bufio.NewReader(input).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")

	size := int(cursor.Size)
	if size < 1 {
		size = 1
	}

	underlinefmt := fmt.Sprintf(
		"%% %ds%s",
		int(cursor.Byte-cursor.LineByte)+1,
		strings.Repeat("~", size-1),
	)

	log.Printf(
		"%s\n%s\n\033[31m%s\033[0m",
		err,
		line,
		fmt.Sprintf(underlinefmt, "^"),
	)
}

func writeProgram(filename string, program []uint16) error {
	file, err := os.Create(filename)

	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)

	if err := encoding.WriteHack(writer, program); err != nil {
		file.Close()
		return err
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func writeDebugTable(filename string, debug *assembler.DebugTable) error {
	file, err := os.Create(filename)

	if err != nil {
		return err
	}

	if err := gob.NewEncoder(file).Encode(debug); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func replaceExt(filename, ext string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

func hackasm(cmd *cobra.Command, args []string) int {
	setupLogging()

	input, infile, err := openInput(cmd, args)

	if err != nil {
		log.Println(err)
		return 1
	}

	if infile == "" {
		log.SetPrefix("\033[1m<stdin>:\033[0m")

		if outvar == "" {
			outvar = "out.hack"
		}
	} else {
		filename := filepath.Base(infile)
		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", filename))

		if outvar == "" {
			outvar = replaceExt(filename, ".hack")
		}
	}

	symtable := assembler.NewSymTable()

	var debug *assembler.DebugTable

	if debugvar {
		debug = &assembler.DebugTable{}

		if infile != "" {
			if debug.Source, err = filepath.Abs(infile); err != nil {
				log.Println(err)
				debug.Source = ""
			}
		}
	}

	program, err := assembler.AssembleHackSource(input, symtable, debug)

	if err != nil {
		printError(err, input)
		return 1
	}

	if err := writeProgram(outvar, program); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if debugvar {
		if err := writeDebugTable(replaceExt(outvar, ".hackdb"), debug); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}
	}

	if symbolsvar {
		pp.Println(symtable.UserSymbols())
	}

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
