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

package codegen

import "minic/internal/utilx"

// ReplacePseudos runs pass 7: every distinct Pseudo operand in fn is
// assigned a 4-byte stack slot, offsets increasing 4, 8, 12, ... It
// mutates fn.Instructions in place and returns the total frame size in
// bytes, 16-byte aligned.
func ReplacePseudos(fn *Function) int {
	slots := map[string]int{}
	next := 0

	resolve := func(op Operand) Operand {
		p, ok := op.(Pseudo)
		if !ok {
			return op
		}
		off, ok := slots[p.Name]
		if !ok {
			next += 4
			off = next
			slots[p.Name] = off
		}
		return Stack{Offset: off}
	}

	for idx, in := range fn.Instructions {
		fn.Instructions[idx] = rewriteOperands(in, resolve)
	}
	return utilx.Align16(next)
}

// rewriteOperands rebuilds in with every operand field passed through
// resolve. Polymorphism is over the full instruction shape, not over
// operand position in isolation.
func rewriteOperands(in Instruction, resolve func(Operand) Operand) Instruction {
	switch i := in.(type) {
	case Mov:
		return Mov{Src: resolve(i.Src), Dst: resolve(i.Dst)}
	case Unary:
		return Unary{Op: i.Op, Operand: resolve(i.Operand)}
	case Binary:
		return Binary{Op: i.Op, Src: resolve(i.Src), Dst: resolve(i.Dst)}
	case Cmp:
		return Cmp{Src: resolve(i.Src), Dst: resolve(i.Dst)}
	case Idiv:
		return Idiv{Operand: resolve(i.Operand)}
	case SetCC:
		return SetCC{CC: i.CC, Operand: resolve(i.Operand)}
	default:
		// Cdq, Jmp, JumpCC, Label, AllocateStack, Return carry no operands.
		return in
	}
}
