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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitReturnTwo(t *testing.T) {
	prog := &Program{Func: &Function{Name: "main", Instructions: []Instruction{
		AllocateStack{Bytes: 0},
		Mov{Src: Imm{Val: 2}, Dst: Reg{Name: AX}},
		Return{},
	}}}
	text := Emit(prog)

	assert.Contains(t, text, ".global main")
	assert.Contains(t, text, "main:")
	assert.Contains(t, text, "movl\t$2, %eax")
	assert.Contains(t, text, "popq\t%rbp")
	assert.Contains(t, text, "ret")
	assert.Contains(t, text, ".section .note.GNU-stack")
}

func TestEmitLabelsUseLPrefix(t *testing.T) {
	prog := &Program{Func: &Function{Name: "main", Instructions: []Instruction{
		AllocateStack{Bytes: 0},
		Label{Name: "if_end.3"},
		Jmp{Target: "if_end.3"},
		Return{},
	}}}
	text := Emit(prog)
	assert.Contains(t, text, ".Lif_end.3:")
	assert.Contains(t, text, "jmp\t.Lif_end.3")
}

func TestEmitSetCCUsesByteRegister(t *testing.T) {
	prog := &Program{Func: &Function{Name: "main", Instructions: []Instruction{
		AllocateStack{Bytes: 16},
		SetCC{CC: E, Operand: Reg{Name: AX}},
		Return{},
	}}}
	text := Emit(prog)
	assert.Contains(t, text, "sete\t%al")
}

func TestEmitPanicsOnSurvivingPseudo(t *testing.T) {
	prog := &Program{Func: &Function{Name: "main", Instructions: []Instruction{
		Mov{Src: Imm{Val: 1}, Dst: Pseudo{Name: "x"}},
	}}}
	assert.Panics(t, func() { Emit(prog) })
}

func TestEmitPrologueOrder(t *testing.T) {
	prog := &Program{Func: &Function{Name: "f", Instructions: []Instruction{AllocateStack{Bytes: 16}, Return{}}}}
	text := Emit(prog)
	pushIdx := strings.Index(text, "pushq")
	subIdx := strings.Index(text, "subq")
	ordered := pushIdx >= 0 && subIdx >= 0 && pushIdx < subIdx
	assert.True(t, ordered, "pushq %%rbp must precede the stack allocation")
}
