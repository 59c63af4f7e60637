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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacePseudosAssignsDistinctIncreasingSlots(t *testing.T) {
	fn := &Function{Name: "main", Instructions: []Instruction{
		Mov{Src: Imm{Val: 1}, Dst: Pseudo{Name: "x"}},
		Mov{Src: Pseudo{Name: "x"}, Dst: Pseudo{Name: "y"}},
	}}
	frame := ReplacePseudos(fn)

	movX := fn.Instructions[0].(Mov)
	slotX := movX.Dst.(Stack)
	assert.Equal(t, 4, slotX.Offset)

	movY := fn.Instructions[1]
	assert.Equal(t, Stack{Offset: 4}, movY.(Mov).Src, "the same pseudo name must resolve to the same slot every time")
	slotY := movY.(Mov).Dst.(Stack)
	assert.Equal(t, 8, slotY.Offset)

	assert.Equal(t, 16, frame, "frame size must round up to 16-byte alignment")
}

func TestReplacePseudosLeavesNonPseudoOperandsAlone(t *testing.T) {
	fn := &Function{Name: "main", Instructions: []Instruction{
		Mov{Src: Imm{Val: 5}, Dst: Reg{Name: AX}},
	}}
	ReplacePseudos(fn)
	mov := fn.Instructions[0].(Mov)
	assert.Equal(t, Imm{Val: 5}, mov.Src)
	assert.Equal(t, Reg{Name: AX}, mov.Dst)
}

func TestReplacePseudosTotality(t *testing.T) {
	fn := &Function{Name: "main", Instructions: []Instruction{
		Binary{Op: Add, Src: Pseudo{Name: "a"}, Dst: Pseudo{Name: "b"}},
		Cmp{Src: Pseudo{Name: "a"}, Dst: Pseudo{Name: "b"}},
		Idiv{Operand: Pseudo{Name: "c"}},
		SetCC{CC: E, Operand: Pseudo{Name: "d"}},
	}}
	ReplacePseudos(fn)
	for _, in := range fn.Instructions {
		assertNoPseudoForTest(t, in)
	}
}

func assertNoPseudoForTest(t *testing.T, in Instruction) {
	t.Helper()
	check := func(op Operand) {
		_, ok := op.(Pseudo)
		require.False(t, ok, "Pseudo must not survive ReplacePseudos: %v", in)
	}
	switch i := in.(type) {
	case Mov:
		check(i.Src)
		check(i.Dst)
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
