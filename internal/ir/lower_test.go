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

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minic/internal/ast"
	"minic/internal/fresh"
	"minic/internal/resolve"
)

func lowerSrc(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ast.Parse(src)
	require.NoError(t, err)
	counter := fresh.NewCounter()
	require.NoError(t, resolve.Variables(prog, counter))
	require.NoError(t, resolve.Labels(prog, counter))
	tacky, err := Lower(prog, counter)
	require.NoError(t, err)
	return tacky
}

func TestReturnConstantLowersToSingleReturn(t *testing.T) {
	prog := lowerSrc(t, "int main(void) { return 2; }")
	// The source return lowers to a single Return; Lower then appends
	// the unconditional implicit Return(0) after it.
	require.Len(t, prog.Func.Instructions, 2)
	ret, ok := prog.Func.Instructions[0].(Return)
	require.True(t, ok)
	assert.Equal(t, Constant{2}, ret.Val)
}

func TestFunctionWithoutExplicitReturnGetsImplicitReturnZero(t *testing.T) {
	prog := lowerSrc(t, "int main(void) { int x = 1; }")
	last := prog.Func.Instructions[len(prog.Func.Instructions)-1]
	ret, ok := last.(Return)
	require.True(t, ok)
	assert.Equal(t, Constant{0}, ret.Val)
}

func TestShortCircuitAndEmitsNoAndBinaryOp(t *testing.T) {
	prog := lowerSrc(t, "int main(void) { return 1 && 0; }")
	for _, in := range prog.Func.Instructions {
		if b, ok := in.(Binary); ok {
			assert.NotEqual(t, BitAnd, b.Op, "logical && must lower to branches, not a bitwise-and binary op")
		}
	}
	hasJumpIfZero := false
	for _, in := range prog.Func.Instructions {
		if _, ok := in.(JumpIfZero); ok {
			hasJumpIfZero = true
		}
	}
	assert.True(t, hasJumpIfZero, "logical && must lower to explicit short-circuit branches")
}

func TestWhileContinueTargetsLoopStart(t *testing.T) {
	prog := lowerSrc(t, "int main(void) { int i = 0; while (i < 3) { i = i + 1; continue; } return i; }")
	var continueJumpTarget, startLabel string
	for _, in := range prog.Func.Instructions {
		switch v := in.(type) {
		case Label:
			if startLabel == "" {
				// first label emitted is the loop's start label
				startLabel = v.Name
			}
		}
	}
	for _, in := range prog.Func.Instructions {
		if j, ok := in.(Jump); ok && j.Target == startLabel {
			continueJumpTarget = j.Target
		}
	}
	assert.Equal(t, startLabel, continueJumpTarget, "continue inside a while must jump back to the loop's start label")
}

func TestForContinueTargetsPostStepNotStart(t *testing.T) {
	prog := lowerSrc(t, "int main(void) { for (int i = 0; i < 3; i = i + 1) { continue; } return 0; }")
	var startLabel, continueLabel string
	for _, in := range prog.Func.Instructions {
		if l, ok := in.(Label); ok {
			switch {
			case startLabel == "":
				startLabel = l.Name
			case continueLabel == "" && l.Name != startLabel:
				// the label right after the body, before the post-expression
				continueLabel = l.Name
			}
		}
	}
	foundContinueJump := false
	for _, in := range prog.Func.Instructions {
		if j, ok := in.(Jump); ok && j.Target == continueLabel {
			foundContinueJump = true
		}
	}
	assert.True(t, foundContinueJump, "continue inside a for loop must jump to the continue label, not the start label")
	assert.NotEqual(t, startLabel, continueLabel)
}

func TestCompoundAssignmentReusesDestinationAsSource(t *testing.T) {
	prog := lowerSrc(t, "int main(void) { int x = 5; x += 3; return x; }")
	found := false
	for _, in := range prog.Func.Instructions {
		if b, ok := in.(Binary); ok && b.Op == Add {
			v, ok := b.Src1.(Var)
			require.True(t, ok)
			assert.Equal(t, v.Name, b.Dst, "x += 3 must read and write the same variable")
			found = true
		}
	}
	assert.True(t, found)
}
