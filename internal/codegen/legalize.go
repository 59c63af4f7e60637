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

// Legalize runs pass 8. x86 forbids several memory/immediate operand
// combinations; this walks the instruction list once and expands each
// violator into an equivalent sequence using the scratch registers
// R10, R11 and CX, prepending a single AllocateStack to the function.
// One forward rewrite suffices: no rewrite below introduces a pattern
// that itself needs rewriting.
func Legalize(fn *Function, frameSize int) {
	out := make([]Instruction, 0, len(fn.Instructions)+1)
	out = append(out, AllocateStack{Bytes: frameSize})
	for _, in := range fn.Instructions {
		out = append(out, legalizeOne(in)...)
	}
	fn.Instructions = out
}

func isStack(op Operand) bool {
	_, ok := op.(Stack)
	return ok
}

func isImm(op Operand) bool {
	_, ok := op.(Imm)
	return ok
}

func legalizeOne(in Instruction) []Instruction {
	switch i := in.(type) {
	case Mov:
		if isStack(i.Src) && isStack(i.Dst) {
			return []Instruction{
				Mov{Src: i.Src, Dst: Reg{Name: R10}},
				Mov{Src: Reg{Name: R10}, Dst: i.Dst},
			}
		}
		return []Instruction{i}

	case Idiv:
		if isImm(i.Operand) {
			return []Instruction{
				Mov{Src: i.Operand, Dst: Reg{Name: R10}},
				Idiv{Operand: Reg{Name: R10}},
			}
		}
		return []Instruction{i}

	case Binary:
		return legalizeBinary(i)

	case Cmp:
		if isStack(i.Src) && isStack(i.Dst) {
			return []Instruction{
				Mov{Src: i.Src, Dst: Reg{Name: R10}},
				Cmp{Src: Reg{Name: R10}, Dst: i.Dst},
			}
		}
		if isImm(i.Dst) {
			return []Instruction{
				Mov{Src: i.Dst, Dst: Reg{Name: R11}},
				Cmp{Src: i.Src, Dst: Reg{Name: R11}},
			}
		}
		return []Instruction{i}

	default:
		return []Instruction{in}
	}
}

func legalizeBinary(i Binary) []Instruction {
	switch i.Op {
	case Add, Sub, And, Or, Xor:
		if isStack(i.Src) && isStack(i.Dst) {
			return []Instruction{
				Mov{Src: i.Src, Dst: Reg{Name: R10}},
				Binary{Op: i.Op, Src: Reg{Name: R10}, Dst: i.Dst},
			}
		}
		return []Instruction{i}

	case Mult:
		// imul's destination must be a register, never memory.
		if isStack(i.Dst) {
			return []Instruction{
				Mov{Src: i.Dst, Dst: Reg{Name: R11}},
				Binary{Op: Mult, Src: i.Src, Dst: Reg{Name: R11}},
				Mov{Src: Reg{Name: R11}, Dst: i.Dst},
			}
		}
		return []Instruction{i}

	case Shl, Shr:
		// Hardware shifts accept only an immediate count or %cl.
		if !isImm(i.Src) {
			if reg, ok := i.Src.(Reg); ok && reg.Name == CX {
				return []Instruction{i}
			}
			return []Instruction{
				Mov{Src: i.Src, Dst: Reg{Name: CX}},
				Binary{Op: i.Op, Src: Reg{Name: CX}, Dst: i.Dst},
			}
		}
		return []Instruction{i}

	default:
		return []Instruction{i}
	}
}
