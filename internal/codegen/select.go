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

import (
	"minic/internal/ccerr"
	"minic/internal/ir"
)

// Select runs pass 6: it lowers each three-address IR instruction to a
// short, fixed sequence of machine-IR instructions. Every ir.Var
// becomes a Pseudo; every ir.Constant becomes an Imm. No Pseudo is
// resolved here, that is pass 7's job.
func Select(prog *ir.Program) (*Program, error) {
	sel := &selector{}
	for _, in := range prog.Func.Instructions {
		if err := sel.instr(in); err != nil {
			return nil, err
		}
	}
	return &Program{Func: &Function{Name: prog.Func.Name, Instructions: sel.out}}, nil
}

type selector struct {
	out []Instruction
}

func (s *selector) emit(i Instruction) {
	s.out = append(s.out, i)
}

func operand(v ir.Value) Operand {
	switch val := v.(type) {
	case ir.Constant:
		return Imm{Val: val.Val}
	case ir.Var:
		return Pseudo{Name: val.Name}
	default:
		return nil
	}
}

var unaryOpOf = map[ir.UnaryOp]UnaryOp{
	ir.Complement: Not,
	ir.Negate:     Neg,
}

var binaryOpOf = map[ir.BinaryOp]BinaryOp{
	ir.Add: Add, ir.Sub: Sub, ir.Mul: Mult,
	ir.BitAnd: And, ir.BitOr: Or, ir.BitXor: Xor,
	ir.Shl: Shl, ir.Shr: Shr,
}

var condCodeOf = map[ir.BinaryOp]CondCode{
	ir.Lt: L, ir.Le: LE, ir.Gt: G, ir.Ge: GE, ir.Eq: E, ir.Ne: NE,
}

func (s *selector) instr(in ir.Instruction) error {
	switch i := in.(type) {
	case ir.Return:
		s.emit(Mov{Src: operand(i.Val), Dst: Reg{Name: AX}})
		s.emit(Return{})
		return nil

	case ir.Unary:
		if i.Op == ir.Not {
			dst := Pseudo{Name: i.Dst}
			s.emit(Cmp{Src: Imm{Val: 0}, Dst: operand(i.Src)})
			s.emit(Mov{Src: Imm{Val: 0}, Dst: dst})
			s.emit(SetCC{CC: E, Operand: dst})
			return nil
		}
		dst := Pseudo{Name: i.Dst}
		s.emit(Mov{Src: operand(i.Src), Dst: dst})
		s.emit(Unary{Op: unaryOpOf[i.Op], Operand: dst})
		return nil

	case ir.Binary:
		return s.binary(i)

	case ir.Copy:
		s.emit(Mov{Src: operand(i.Src), Dst: Pseudo{Name: i.Dst}})
		return nil

	case ir.Jump:
		s.emit(Jmp{Target: i.Target})
		return nil

	case ir.JumpIfZero:
		s.emit(Cmp{Src: Imm{Val: 0}, Dst: operand(i.Cond)})
		s.emit(JumpCC{CC: E, Target: i.Target})
		return nil

	case ir.JumpIfNotZero:
		s.emit(Cmp{Src: Imm{Val: 0}, Dst: operand(i.Cond)})
		s.emit(JumpCC{CC: NE, Target: i.Target})
		return nil

	case ir.Label:
		s.emit(Label{Name: i.Name})
		return nil

	default:
		return ccerr.New(ccerr.InvalidExpression, "instruction selection: unrecognized IR instruction")
	}
}

func (s *selector) binary(i ir.Binary) error {
	dst := Pseudo{Name: i.Dst}
	switch i.Op {
	case ir.Div:
		s.emit(Mov{Src: operand(i.Src1), Dst: Reg{Name: AX}})
		s.emit(Cdq{})
		s.emit(Idiv{Operand: operand(i.Src2)})
		s.emit(Mov{Src: Reg{Name: AX}, Dst: dst})
		return nil

	case ir.Mod:
		s.emit(Mov{Src: operand(i.Src1), Dst: Reg{Name: AX}})
		s.emit(Cdq{})
		s.emit(Idiv{Operand: operand(i.Src2)})
		s.emit(Mov{Src: Reg{Name: DX}, Dst: dst})
		return nil

	default:
		if i.Op.IsRelational() {
			// AT&T "cmp src, dst" computes dst - src; for a < b emit
			// Cmp(b, a) so the flags reflect "a < b", not "b < a".
			s.emit(Cmp{Src: operand(i.Src2), Dst: operand(i.Src1)})
			s.emit(Mov{Src: Imm{Val: 0}, Dst: dst})
			s.emit(SetCC{CC: condCodeOf[i.Op], Operand: dst})
			return nil
		}
		s.emit(Mov{Src: operand(i.Src1), Dst: dst})
		s.emit(Binary{Op: binaryOpOf[i.Op], Src: operand(i.Src2), Dst: dst})
		return nil
	}
}
