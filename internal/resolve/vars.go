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

// Package resolve implements passes 3 and 4: variable resolution
// (alpha-renaming with C scope rules) and label/loop resolution.
package resolve

import (
	"fmt"

	"minic/internal/ast"
	"minic/internal/ccerr"
	"minic/internal/fresh"
)

type varEntry struct {
	uniqueName   string
	declaredHere bool
}

// scope maps a source name to its current binding. Child scopes are
// derived (copied) rather than chained, clearing declaredHere on every
// inherited entry so a nested block may redeclare a name its parent
// already bound without colliding with it.
type scope map[string]varEntry

func deriveChild(parent scope) scope {
	child := make(scope, len(parent))
	for name, e := range parent {
		child[name] = varEntry{uniqueName: e.uniqueName, declaredHere: false}
	}
	return child
}

// Variables renames every declaration and reference in prog so that no
// two declarations bind the same unique name.
func Variables(prog *ast.Program, counter *fresh.Counter) error {
	return resolveBlock(prog.Func.Body, scope{}, counter)
}

func resolveBlock(blk *ast.Block, sc scope, counter *fresh.Counter) error {
	for _, item := range blk.Items {
		switch it := item.(type) {
		case *ast.Declaration:
			if err := resolveDeclaration(it, sc, counter); err != nil {
				return err
			}
		case ast.Stmt:
			if err := resolveStmt(it, sc, counter); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveDeclaration(decl *ast.Declaration, sc scope, counter *fresh.Counter) error {
	if e, ok := sc[decl.Name]; ok && e.declaredHere {
		return ccerr.New(ccerr.DuplicateDeclaration, "variable %q already declared in this scope", decl.Name)
	}
	unique := fmt.Sprintf("%s.%d", decl.Name, counter.Next())
	sc[decl.Name] = varEntry{uniqueName: unique, declaredHere: true}
	if decl.Init != nil {
		if err := resolveExpr(decl.Init, sc); err != nil {
			return err
		}
	}
	decl.Name = unique
	return nil
}

func resolveStmt(s ast.Stmt, sc scope, counter *fresh.Counter) error {
	switch st := s.(type) {
	case ast.ReturnStmt:
		return resolveExpr(st.Expr, sc)
	case ast.ExprStmt:
		return resolveExpr(st.Expr, sc)
	case ast.NullStmt:
		return nil
	case *ast.CompoundStmt:
		return resolveBlock(st.Body, deriveChild(sc), counter)
	case *ast.IfStmt:
		if err := resolveExpr(st.Cond, sc); err != nil {
			return err
		}
		if err := resolveStmt(st.Then, sc, counter); err != nil {
			return err
		}
		if st.Else != nil {
			return resolveStmt(st.Else, sc, counter)
		}
		return nil
	case ast.GotoStmt:
		return nil
	case *ast.LabeledStmt:
		return resolveStmt(st.Stmt, sc, counter)
	case *ast.BreakStmt:
		return nil
	case *ast.ContinueStmt:
		return nil
	case *ast.WhileStmt:
		if err := resolveExpr(st.Cond, sc); err != nil {
			return err
		}
		return resolveStmt(st.Body, sc, counter)
	case *ast.DoWhileStmt:
		if err := resolveStmt(st.Body, sc, counter); err != nil {
			return err
		}
		return resolveExpr(st.Cond, sc)
	case *ast.ForStmt:
		return resolveFor(st, sc, counter)
	default:
		return nil
	}
}

func resolveFor(st *ast.ForStmt, sc scope, counter *fresh.Counter) error {
	// A for loop's header (and therefore any declaration in its init)
	// introduces a scope covering the header and the body.
	forScope := deriveChild(sc)
	switch init := st.Init.(type) {
	case *ast.DeclForInit:
		if err := resolveDeclaration(init.Decl, forScope, counter); err != nil {
			return err
		}
	case *ast.ExprForInit:
		if init.Expr != nil {
			if err := resolveExpr(init.Expr, forScope); err != nil {
				return err
			}
		}
	}
	if st.Cond != nil {
		if err := resolveExpr(st.Cond, forScope); err != nil {
			return err
		}
	}
	if st.Post != nil {
		if err := resolveExpr(st.Post, forScope); err != nil {
			return err
		}
	}
	return resolveStmt(st.Body, forScope, counter)
}

func resolveExpr(e ast.Expr, sc scope) error {
	switch ex := e.(type) {
	case *ast.ConstantExpr:
		return nil
	case *ast.VarExpr:
		entry, ok := sc[ex.Name]
		if !ok {
			return ccerr.New(ccerr.UndeclaredVariable, "undeclared variable %q", ex.Name)
		}
		ex.Name = entry.uniqueName
		return nil
	case *ast.UnaryExpr:
		return resolveExpr(ex.Expr, sc)
	case *ast.BinaryExpr:
		if err := resolveExpr(ex.Left, sc); err != nil {
			return err
		}
		return resolveExpr(ex.Right, sc)
	case *ast.AssignmentExpr:
		if _, ok := ex.Left.(*ast.VarExpr); !ok {
			return ccerr.New(ccerr.InvalidLValue, "left-hand side of assignment must be a variable")
		}
		if err := resolveExpr(ex.Left, sc); err != nil {
			return err
		}
		return resolveExpr(ex.Right, sc)
	case *ast.ConditionalExpr:
		if err := resolveExpr(ex.Cond, sc); err != nil {
			return err
		}
		if err := resolveExpr(ex.Then, sc); err != nil {
			return err
		}
		return resolveExpr(ex.Else, sc)
	default:
		return nil
	}
}
