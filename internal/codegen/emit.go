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
	"fmt"
	"strings"

	"minic/internal/utilx"
)

// Emit runs pass 9, rendering a fully legalized Program as AT&T-syntax
// x86-64 assembly text ready to hand to an assembler.
func Emit(prog *Program) string {
	var b strings.Builder
	fn := prog.Func

	for _, in := range fn.Instructions {
		assertNoPseudo(in)
	}

	fmt.Fprintf(&b, "\t.global %s\n", fn.Name)
	fmt.Fprintf(&b, "%s:\n", fn.Name)
	b.WriteString("\tpushq\t%rbp\n")
	b.WriteString("\tmovq\t%rsp, %rbp\n")

	for _, in := range fn.Instructions {
		emitInstr(&b, in, fn.Name)
	}

	b.WriteString("\t.section .note.GNU-stack,\"\",@progbits\n")
	return b.String()
}

func emitInstr(b *strings.Builder, in Instruction, fn string) {
	switch i := in.(type) {
	case AllocateStack:
		if i.Bytes > 0 {
			fmt.Fprintf(b, "\tsubq\t$%d, %%rsp\n", i.Bytes)
		}

	case Mov:
		fmt.Fprintf(b, "\tmovl\t%s, %s\n", i.Src.String(), i.Dst.String())

	case Unary:
		fmt.Fprintf(b, "\t%s\t%s\n", unaryMnemonic[i.Op], i.Operand.String())

	case Binary:
		src := i.Src.String()
		if i.Op == Shl || i.Op == Shr {
			// A register shift count is always named at byte width (%cl).
			src = byteOperand(i.Src)
		}
		fmt.Fprintf(b, "\t%s\t%s, %s\n", binaryMnemonic[i.Op], src, i.Dst.String())

	case Cmp:
		fmt.Fprintf(b, "\tcmpl\t%s, %s\n", i.Src.String(), i.Dst.String())

	case Idiv:
		fmt.Fprintf(b, "\tidivl\t%s\n", i.Operand.String())

	case Cdq:
		b.WriteString("\tcdq\n")

	case Jmp:
		fmt.Fprintf(b, "\tjmp\t.L%s\n", i.Target)

	case JumpCC:
		fmt.Fprintf(b, "\tj%s\t.L%s\n", i.CC.String(), i.Target)

	case SetCC:
		fmt.Fprintf(b, "\tset%s\t%s\n", i.CC.String(), byteOperand(i.Operand))

	case Label:
		fmt.Fprintf(b, ".L%s:\n", i.Name)

	case Return:
		b.WriteString("\tmovq\t%rbp, %rsp\n")
		b.WriteString("\tpopq\t%rbp\n")
		b.WriteString("\tret\n")
	}
}

var unaryMnemonic = map[UnaryOp]string{
	Neg: "negl",
	Not: "notl",
}

var binaryMnemonic = map[BinaryOp]string{
	Add: "addl", Sub: "subl", Mult: "imull",
	And: "andl", Or: "orl", Xor: "xorl",
	Shl: "sall", Shr: "sarl",
}

// assertNoPseudo enforces the invariant that pass 7 eliminates every
// Pseudo before emission ever sees the instruction stream; a Pseudo
// reaching here is a compiler bug, not a malformed-input error.
func assertNoPseudo(in Instruction) {
	check := func(op Operand) {
		_, ok := op.(Pseudo)
		utilx.Assert(!ok, "codegen: Pseudo operand reached emission: %v", in)
	}
	switch i := in.(type) {
	case Mov:
		check(i.Src)
		check(i.Dst)
	case Unary:
		check(i.Operand)
	case Binary:
		check(i.Src)
		check(i.Dst)
	case Cmp:
		check(i.Src)
		check(i.Dst)
	case Idiv:
		check(i.Operand)
	case SetCC:
		check(i.Operand)
	}
}

// byteOperand renders the 8-bit form required by setCC destinations
// and register shift counts:
// a register operand prints at byte width, a stack slot is unaffected
// since memory operands carry no width-dependent register name.
func byteOperand(op Operand) string {
	if r, ok := op.(Reg); ok {
		return regName8[r.Name]
	}
	return op.String()
}
