// Copyright (c) 2026 The minic Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package utilx collects the small invariant-checking and environment
// helpers shared across passes, trimmed to what a C-subset compiler
// actually needs from the original grab-bag utility package.
package utilx

import (
	"fmt"
	"os/exec"
)

// Assert panics with a formatted message when cond is false. Every
// call site is an internal invariant, never a user-facing error: those
// go through ccerr instead.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// ShouldNotReachHere panics from a switch arm that every known variant
// already handles; reaching it means a new variant was added to a type
// without updating every consumer.
func ShouldNotReachHere() {
	panic("should not reach here")
}

// Align16 rounds n up to the next multiple of 16, the x86-64 System V
// stack-frame alignment requirement at a call boundary.
func Align16(n int) int {
	return (n + 15) &^ 15
}

// CommandExists reports whether cmd resolves on PATH, used to decide
// whether the assembler/linker collaborator can even be invoked.
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
