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

func TestLegalizePrependsAllocateStack(t *testing.T) {
	fn := &Function{Name: "main", Instructions: []Instruction{Return{}}}
	Legalize(fn, 32)
	alloc, ok := fn.Instructions[0].(AllocateStack)
	require.True(t, ok)
	assert.Equal(t, 32, alloc.Bytes)
}

func TestLegalizeMovStackToStackRoutesThroughR10(t *testing.T) {
	fn := &Function{Name: "main", Instructions: []Instruction{
		Mov{Src: Stack{Offset: 4}, Dst: Stack{Offset: 8}},
	}}
	Legalize(fn, 0)
	assertNoForbiddenPattern(t, fn)
	// AllocateStack, Mov(stack,R10), Mov(R10,stack)
	require.Len(t, fn.Instructions, 3)
	assert.Equal(t, Reg{Name: R10}, fn.Instructions[1].(Mov).Dst)
	assert.Equal(t, Reg{Name: R10}, fn.Instructions[2].(Mov).Src)
}

func TestLegalizeIdivImmediateRoutesThroughR10(t *testing.T) {
	fn := &Function{Name: "main", Instructions: []Instruction{
		Idiv{Operand: Imm{Val: 3}},
	}}
	Legalize(fn, 0)
	assertNoForbiddenPattern(t, fn)
}

func TestLegalizeImulMemoryDestinationRoutesThroughR11(t *testing.T) {
	fn := &Function{Name: "main", Instructions: []Instruction{
		Binary{Op: Mult, Src: Imm{Val: 2}, Dst: Stack{Offset: 4}},
	}}
	Legalize(fn, 0)
	assertNoForbiddenPattern(t, fn)
	// AllocateStack, Mov(stack,R11), imul(2,R11), Mov(R11,stack)
	require.Len(t, fn.Instructions, 4)
}

func TestLegalizeShiftByNonImmediateRoutesThroughCX(t *testing.T) {
	fn := &Function{Name: "main", Instructions: []Instruction{
		Binary{Op: Shl, Src: Stack{Offset: 4}, Dst: Stack{Offset: 8}},
	}}
	Legalize(fn, 0)
	assertNoForbiddenPattern(t, fn)
}

func TestLegalizeCmpImmediateDestinationRoutesThroughR11(t *testing.T) {
	fn := &Function{Name: "main", Instructions: []Instruction{
		Cmp{Src: Stack{Offset: 4}, Dst: Imm{Val: 1}},
	}}
	Legalize(fn, 0)
	assertNoForbiddenPattern(t, fn)
}

// assertNoForbiddenPattern walks the legalized instruction list and
// checks none of the illegal x86 addressing-mode combinations survive:
// memory-memory mov/binary/cmp, an immediate idiv operand, an imul
// with a memory destination, or a shift by anything but an immediate
// or %cl.
func assertNoForbiddenPattern(t *testing.T, fn *Function) {
	t.Helper()
	for _, in := range fn.Instructions {
		switch i := in.(type) {
		case Mov:
			assert.False(t, isStack(i.Src) && isStack(i.Dst), "mov must not have two memory operands")
		case Cmp:
			assert.False(t, isStack(i.Src) && isStack(i.Dst), "cmp must not have two memory operands")
			assert.False(t, isImm(i.Dst), "cmp destination must not be an immediate")
		case Idiv:
			assert.False(t, isImm(i.Operand), "idiv operand must not be an immediate")
		case Binary:
			switch i.Op {
			case Add, Sub, And, Or, Xor:
				assert.False(t, isStack(i.Src) && isStack(i.Dst), "%v must not have two memory operands", i.Op)
			case Mult:
				assert.False(t, isStack(i.Dst), "imul destination must not be memory")
			case Shl, Shr:
				if reg, ok := i.Src.(Reg); ok {
					assert.Equal(t, CX, reg.Name, "a register shift count must be %%cl")
				} else {
					_, isImmediate := i.Src.(Imm)
					assert.True(t, isImmediate, "a shift count must be an immediate or %%cl")
				}
			}
		}
	}
}
