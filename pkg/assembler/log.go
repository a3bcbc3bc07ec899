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
	"context"
	"log/slog"
)

// LevelTrace sits below slog.LevelDebug and is used for per-symbol events.
const LevelTrace slog.Level = slog.LevelDebug - 4

var logger *slog.Logger

// SetLogger replaces the logger used by the assembler. nil restores
// slog.Default.
func SetLogger(l *slog.Logger) {
	logger = l
}

func getLogger() *slog.Logger {
	if logger != nil {
		return logger
	}

	return slog.Default()
}

func trace(msg string, args ...any) {
	getLogger().Log(context.Background(), LevelTrace, msg, args...)
}
