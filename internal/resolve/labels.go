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
	"fmt"

	"minic/internal/ast"
	"minic/internal/ccerr"
	"minic/internal/fresh"
)

// Labels performs pass 4: it attaches a fresh label to every loop node
// so nested break/continue can carry the label of their innermost
// enclosing loop, and it verifies every goto resolves to a declared
// label with no duplicates within the function.
func Labels(prog *ast.Program, counter *fresh.Counter) error {
	if err := attachLoopLabels(prog.Func.Body, "", counter); err != nil {
		return err
	}
	declared := map[string]bool{}
	if err := collectLabels(prog.Func.Body, declared); err != nil {
		return err
	}
	return checkGotos(prog.Func.Body, declared)
}

func freshLoopLabel(prefix string, counter *fresh.Counter) string {
	return fmt.Sprintf("%s.%d", prefix, counter.Next())
}

// attachLoopLabels threads enclosing down through nested statements.
// enclosing is "" outside any loop.
func attachLoopLabels(blk *ast.Block, enclosing string, counter *fresh.Counter) error {
	for _, item := range blk.Items {
		if st, ok := item.(ast.Stmt); ok {
			if err := attachLoopLabelsStmt(st, enclosing, counter); err != nil {
				return err
			}
		}
	}
	return nil
}

func attachLoopLabelsStmt(s ast.Stmt, enclosing string, counter *fresh.Counter) error {
	switch st := s.(type) {
	case *ast.CompoundStmt:
		return attachLoopLabels(st.Body, enclosing, counter)
	case *ast.IfStmt:
		if err := attachLoopLabelsStmt(st.Then, enclosing, counter); err != nil {
			return err
		}
		if st.Else != nil {
			return attachLoopLabelsStmt(st.Else, enclosing, counter)
		}
		return nil
	case *ast.LabeledStmt:
		return attachLoopLabelsStmt(st.Stmt, enclosing, counter)
	case *ast.BreakStmt:
		if enclosing == "" {
			return ccerr.New(ccerr.InvalidBreakOrContinue, "break statement not within a loop")
		}
		st.Label = enclosing
		return nil
	case *ast.ContinueStmt:
		if enclosing == "" {
			return ccerr.New(ccerr.InvalidBreakOrContinue, "continue statement not within a loop")
		}
		st.Label = enclosing
		return nil
	case *ast.WhileStmt:
		st.Label = freshLoopLabel("while", counter)
		return attachLoopLabelsStmt(st.Body, st.Label, counter)
	case *ast.DoWhileStmt:
		st.Label = freshLoopLabel("do", counter)
		return attachLoopLabelsStmt(st.Body, st.Label, counter)
	case *ast.ForStmt:
		st.Label = freshLoopLabel("for", counter)
		return attachLoopLabelsStmt(st.Body, st.Label, counter)
	default:
		return nil
	}
}

func collectLabels(blk *ast.Block, declared map[string]bool) error {
	for _, item := range blk.Items {
		if st, ok := item.(ast.Stmt); ok {
			if err := collectLabelsStmt(st, declared); err != nil {
				return err
			}
		}
	}
	return nil
}

func collectLabelsStmt(s ast.Stmt, declared map[string]bool) error {
	switch st := s.(type) {
	case *ast.CompoundStmt:
		return collectLabels(st.Body, declared)
	case *ast.IfStmt:
		if err := collectLabelsStmt(st.Then, declared); err != nil {
			return err
		}
		if st.Else != nil {
			return collectLabelsStmt(st.Else, declared)
		}
		return nil
	case *ast.LabeledStmt:
		if declared[st.Label] {
			return ccerr.New(ccerr.DuplicateLabel, "label %q already declared in this function", st.Label)
		}
		declared[st.Label] = true
		return collectLabelsStmt(st.Stmt, declared)
	case *ast.WhileStmt:
		return collectLabelsStmt(st.Body, declared)
	case *ast.DoWhileStmt:
		return collectLabelsStmt(st.Body, declared)
	case *ast.ForStmt:
		return collectLabelsStmt(st.Body, declared)
	default:
		return nil
	}
}

func checkGotos(blk *ast.Block, declared map[string]bool) error {
	for _, item := range blk.Items {
		if st, ok := item.(ast.Stmt); ok {
			if err := checkGotosStmt(st, declared); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkGotosStmt(s ast.Stmt, declared map[string]bool) error {
	switch st := s.(type) {
	case ast.GotoStmt:
		if !declared[st.Label] {
			return ccerr.New(ccerr.UndefinedLabel, "goto target %q is not declared", st.Label)
		}
		return nil
	case *ast.CompoundStmt:
		return checkGotos(st.Body, declared)
	case *ast.IfStmt:
		if err := checkGotosStmt(st.Then, declared); err != nil {
			return err
		}
		if st.Else != nil {
			return checkGotosStmt(st.Else, declared)
		}
		return nil
	case *ast.LabeledStmt:
		return checkGotosStmt(st.Stmt, declared)
	case *ast.WhileStmt:
		return checkGotosStmt(st.Body, declared)
	case *ast.DoWhileStmt:
		return checkGotosStmt(st.Body, declared)
	case *ast.ForStmt:
		return checkGotosStmt(st.Body, declared)
	default:
		return nil
	}
}
