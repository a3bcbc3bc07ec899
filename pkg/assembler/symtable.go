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
	"sort"
)

type Symbol struct {
	Name string
	Addr uint16
}

// SymTable binds symbol names to addresses. The zero value is not usable,
// use NewSymTable.
type SymTable struct {
	symbols map[string]uint16
}

func NewSymTable() *SymTable {
	st := &SymTable{
		symbols: make(map[string]uint16, len(predefinedSymbols)),
	}

	for _, sym := range predefinedSymbols {
		st.symbols[sym.name] = sym.addr
	}

	return st
}

// Insert binds name to addr. It reports false, leaving the table untouched,
// when the name is not a valid symbol or is already bound.
func (st *SymTable) Insert(name string, addr uint16) bool {
	if !ValidSymbol(name) {
		return false
	}

	if _, exists := st.symbols[name]; exists {
		return false
	}

	st.symbols[name] = addr
	return true
}

func (st *SymTable) Contains(name string) bool {
	_, exists := st.symbols[name]
	return exists
}

func (st *SymTable) AddressOf(name string) (uint16, error) {
	addr, exists := st.symbols[name]

	if !exists {
		return 0, &LookupError{name}
	}

	return addr, nil
}

func (st *SymTable) Len() int {
	return len(st.symbols)
}

// UserSymbols returns every label and variable, ordered by address and then
// by name.
func (st *SymTable) UserSymbols() []Symbol {
	result := make([]Symbol, 0, len(st.symbols)-len(predefinedSymbols))

	for name, addr := range st.symbols {
		if IsPredefined(name) {
			continue
		}

		result = append(result, Symbol{Name: name, Addr: addr})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Addr != result[j].Addr {
			return result[i].Addr < result[j].Addr
		}

		return result[i].Name < result[j].Name
	})

	return result
}

func IsPredefined(name string) bool {
	for _, sym := range predefinedSymbols {
		if sym.name == name {
			return true
		}
	}

	return false
}

// ValidSymbol checks name against [A-Za-z_$][A-Za-z0-9_$.:]*
func ValidSymbol(name string) bool {
	if len(name) == 0 || !isSymbolStart(name[0]) {
		return false
	}

	for i := 1; i < len(name); i++ {
		c := name[i]

		if !isSymbolStart(c) && !(c >= '0' && c <= '9') && c != '.' && c != ':' {
			return false
		}
	}

	return true
}

func isSymbolStart(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		c == '_' ||
		c == '$'
}
