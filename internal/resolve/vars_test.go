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

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minic/internal/ast"
	"minic/internal/ccerr"
	"minic/internal/fresh"
)

func resolveSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ast.Parse(src)
	require.NoError(t, err)
	require.NoError(t, Variables(prog, fresh.NewCounter()))
	return prog
}

func TestVariablesGetUniqueNames(t *testing.T) {
	prog := resolveSrc(t, "int main(void) { int x = 1; return x; }")
	decl := prog.Func.Body.Items[0].(*ast.Declaration)
	ret := prog.Func.Body.Items[1].(ast.ReturnStmt)
	varRef := ret.Expr.(*ast.VarExpr)
	assert.NotEqual(t, "x", decl.Name)
	assert.Equal(t, decl.Name, varRef.Name)
}

func TestShadowingInNestedBlockGetsDistinctNames(t *testing.T) {
	prog := resolveSrc(t, "int main(void) { int x = 1; { int x = 2; x = x + 1; } return x; }")
	outer := prog.Func.Body.Items[0].(*ast.Declaration)
	inner := prog.Func.Body.Items[1].(*ast.CompoundStmt).Body.Items[0].(*ast.Declaration)
	assert.NotEqual(t, outer.Name, inner.Name)

	ret := prog.Func.Body.Items[2].(ast.ReturnStmt)
	assert.Equal(t, outer.Name, ret.Expr.(*ast.VarExpr).Name, "the outer x must still be visible after the block closes")
}

func TestDuplicateDeclarationInSameScopeIsError(t *testing.T) {
	prog, err := ast.Parse("int main(void) { int x = 1; int x = 2; return x; }")
	require.NoError(t, err)
	err = Variables(prog, fresh.NewCounter())
	require.Error(t, err)
	assert.True(t, ccerr.Is(err, ccerr.DuplicateDeclaration))
}

func TestUndeclaredVariableIsError(t *testing.T) {
	prog, err := ast.Parse("int main(void) { return y; }")
	require.NoError(t, err)
	err = Variables(prog, fresh.NewCounter())
	require.Error(t, err)
	assert.True(t, ccerr.Is(err, ccerr.UndeclaredVariable))
}

func TestForHeaderDeclarationIsScopedToTheLoop(t *testing.T) {
	prog := resolveSrc(t, "int main(void) { for (int i = 0; i < 1; i = i + 1) {} return 0; }")
	forStmt := prog.Func.Body.Items[0].(*ast.ForStmt)
	init := forStmt.Init.(*ast.DeclForInit)
	assert.NotEqual(t, "i", init.Decl.Name)
}
