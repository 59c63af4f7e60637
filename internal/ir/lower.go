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
	"fmt"

	"minic/internal/ast"
	"minic/internal/ccerr"
	"minic/internal/fresh"
)

// Lower runs pass 5: it walks the resolved, labeled AST and produces a
// three-address IR function. prog must already have passed through
// resolve.Variables and resolve.Labels.
func Lower(prog *ast.Program, counter *fresh.Counter) (*Program, error) {
	lw := &lowering{counter: counter, continueTarget: map[string]string{}}
	if err := lw.block(prog.Func.Body); err != nil {
		return nil, err
	}
	// Every function's IR ends with an unconditional Return(0), giving
	// a terminating control edge even when the source omits "return".
	lw.emit(Return{Val: Constant{0}})
	return &Program{Func: &Function{Name: prog.Func.Name, Instructions: lw.instrs}}, nil
}

type lowering struct {
	counter        *fresh.Counter
	instrs         []Instruction
	continueTarget map[string]string // loop unique id -> the label a "continue" inside it jumps to
}

func (lw *lowering) emit(i Instruction) {
	lw.instrs = append(lw.instrs, i)
}

func (lw *lowering) freshTemp() string {
	return fmt.Sprintf("tmp.%d", lw.counter.Next())
}

func (lw *lowering) freshLabel(prefix string) string {
	return fmt.Sprintf("%s.%d", prefix, lw.counter.Next())
}

func (lw *lowering) block(blk *ast.Block) error {
	for _, item := range blk.Items {
		if err := lw.blockItem(item); err != nil {
			return err
		}
	}
	return nil
}

func (lw *lowering) blockItem(item ast.BlockItem) error {
	switch it := item.(type) {
	case *ast.Declaration:
		return lw.declaration(it)
	case ast.Stmt:
		return lw.stmt(it)
	}
	return nil
}

func (lw *lowering) declaration(decl *ast.Declaration) error {
	if decl.Init == nil {
		return nil
	}
	v, err := lw.expr(decl.Init)
	if err != nil {
		return err
	}
	lw.emit(Copy{Src: v, Dst: decl.Name})
	return nil
}

func (lw *lowering) stmt(s ast.Stmt) error {
	switch st := s.(type) {
	case ast.ReturnStmt:
		v, err := lw.expr(st.Expr)
		if err != nil {
			return err
		}
		lw.emit(Return{Val: v})
		return nil

	case ast.ExprStmt:
		_, err := lw.expr(st.Expr)
		return err

	case ast.NullStmt:
		return nil

	case *ast.CompoundStmt:
		return lw.block(st.Body)

	case *ast.IfStmt:
		return lw.ifStmt(st)

	case ast.GotoStmt:
		lw.emit(Jump{Target: st.Label})
		return nil

	case *ast.LabeledStmt:
		lw.emit(Label{Name: st.Label})
		return lw.stmt(st.Stmt)

	case *ast.BreakStmt:
		lw.emit(Jump{Target: "break." + st.Label})
		return nil

	case *ast.ContinueStmt:
		target, ok := lw.continueTarget[st.Label]
		if !ok {
			return ccerr.New(ccerr.InvalidBreakOrContinue, "continue statement not within a loop")
		}
		lw.emit(Jump{Target: target})
		return nil

	case *ast.WhileStmt:
		return lw.whileStmt(st)

	case *ast.DoWhileStmt:
		return lw.doWhileStmt(st)

	case *ast.ForStmt:
		return lw.forStmt(st)

	default:
		return nil
	}
}

func (lw *lowering) ifStmt(st *ast.IfStmt) error {
	vc, err := lw.expr(st.Cond)
	if err != nil {
		return err
	}
	if st.Else == nil {
		endL := lw.freshLabel("if_end")
		lw.emit(JumpIfZero{Cond: vc, Target: endL})
		if err := lw.stmt(st.Then); err != nil {
			return err
		}
		lw.emit(Label{Name: endL})
		return nil
	}
	elseL := lw.freshLabel("if_else")
	endL := lw.freshLabel("if_end")
	lw.emit(JumpIfZero{Cond: vc, Target: elseL})
	if err := lw.stmt(st.Then); err != nil {
		return err
	}
	lw.emit(Jump{Target: endL})
	lw.emit(Label{Name: elseL})
	if err := lw.stmt(st.Else); err != nil {
		return err
	}
	lw.emit(Label{Name: endL})
	return nil
}

func (lw *lowering) whileStmt(st *ast.WhileStmt) error {
	startL := "start." + st.Label
	breakL := "break." + st.Label
	lw.continueTarget[st.Label] = startL

	lw.emit(Label{Name: startL})
	vc, err := lw.expr(st.Cond)
	if err != nil {
		return err
	}
	lw.emit(JumpIfZero{Cond: vc, Target: breakL})
	if err := lw.stmt(st.Body); err != nil {
		return err
	}
	lw.emit(Jump{Target: startL})
	lw.emit(Label{Name: breakL})
	return nil
}

func (lw *lowering) doWhileStmt(st *ast.DoWhileStmt) error {
	startL := "start." + st.Label
	contL := "continue." + st.Label
	breakL := "break." + st.Label
	lw.continueTarget[st.Label] = contL

	lw.emit(Label{Name: startL})
	if err := lw.stmt(st.Body); err != nil {
		return err
	}
	lw.emit(Label{Name: contL})
	vc, err := lw.expr(st.Cond)
	if err != nil {
		return err
	}
	lw.emit(JumpIfNotZero{Cond: vc, Target: startL})
	lw.emit(Label{Name: breakL})
	return nil
}

func (lw *lowering) forStmt(st *ast.ForStmt) error {
	startL := "start." + st.Label
	contL := "continue." + st.Label
	breakL := "break." + st.Label
	lw.continueTarget[st.Label] = contL

	switch init := st.Init.(type) {
	case *ast.DeclForInit:
		if err := lw.declaration(init.Decl); err != nil {
			return err
		}
	case *ast.ExprForInit:
		if init.Expr != nil {
			if _, err := lw.expr(init.Expr); err != nil {
				return err
			}
		}
	}

	lw.emit(Label{Name: startL})
	if st.Cond != nil {
		vc, err := lw.expr(st.Cond)
		if err != nil {
			return err
		}
		lw.emit(JumpIfZero{Cond: vc, Target: breakL})
	}
	if err := lw.stmt(st.Body); err != nil {
		return err
	}
	lw.emit(Label{Name: contL})
	if st.Post != nil {
		if _, err := lw.expr(st.Post); err != nil {
			return err
		}
	}
	lw.emit(Jump{Target: startL})
	lw.emit(Label{Name: breakL})
	return nil
}

var unaryOpOf = map[ast.UnaryOp]UnaryOp{
	ast.Complement: Complement,
	ast.Negate:     Negate,
	ast.Not:        Not,
}

var binaryOpOf = map[ast.BinaryOp]BinaryOp{
	ast.Add: Add, ast.Sub: Sub, ast.Mul: Mul, ast.Div: Div, ast.Mod: Mod,
	ast.BitAnd: BitAnd, ast.BitOr: BitOr, ast.BitXor: BitXor,
	ast.Shl: Shl, ast.Shr: Shr,
	ast.Lt: Lt, ast.Le: Le, ast.Gt: Gt, ast.Ge: Ge, ast.Eq: Eq, ast.Ne: Ne,
}

// assignBinOpOf maps a compound-assignment operator to the IR binary op
// it desugars to; plain "=" is handled separately as a Copy.
var assignBinOpOf = map[ast.AssignOp]BinaryOp{
	ast.AddAssign: Add, ast.SubAssign: Sub, ast.MulAssign: Mul,
	ast.DivAssign: Div, ast.ModAssign: Mod,
	ast.AndAssign: BitAnd, ast.OrAssign: BitOr, ast.XorAssign: BitXor,
	ast.ShlAssign: Shl, ast.ShrAssign: Shr,
}

func (lw *lowering) expr(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case *ast.ConstantExpr:
		return Constant{Val: ex.Value}, nil

	case *ast.VarExpr:
		return Var{Name: ex.Name}, nil

	case *ast.UnaryExpr:
		return lw.unary(ex)

	case *ast.BinaryExpr:
		return lw.binary(ex)

	case *ast.AssignmentExpr:
		return lw.assignment(ex)

	case *ast.ConditionalExpr:
		return lw.conditional(ex)

	default:
		return nil, ccerr.New(ccerr.InvalidExpression, "unrecognized expression node")
	}
}

func (lw *lowering) unary(ex *ast.UnaryExpr) (Value, error) {
	switch ex.Op {
	case ast.Complement, ast.Negate, ast.Not:
		src, err := lw.expr(ex.Expr)
		if err != nil {
			return nil, err
		}
		t := lw.freshTemp()
		lw.emit(Unary{Op: unaryOpOf[ex.Op], Src: src, Dst: t})
		return Var{Name: t}, nil

	case ast.PreInc, ast.PreDec:
		v := ex.Expr.(*ast.VarExpr)
		op := Add
		if ex.Op == ast.PreDec {
			op = Sub
		}
		lw.emit(Binary{Op: op, Src1: Var{Name: v.Name}, Src2: Constant{1}, Dst: v.Name})
		return Var{Name: v.Name}, nil

	case ast.PostInc, ast.PostDec:
		v := ex.Expr.(*ast.VarExpr)
		t := lw.freshTemp()
		lw.emit(Copy{Src: Var{Name: v.Name}, Dst: t})
		op := Add
		if ex.Op == ast.PostDec {
			op = Sub
		}
		lw.emit(Binary{Op: op, Src1: Var{Name: v.Name}, Src2: Constant{1}, Dst: v.Name})
		return Var{Name: t}, nil

	default:
		return nil, ccerr.New(ccerr.InvalidExpression, "unrecognized unary operator")
	}
}

func (lw *lowering) binary(ex *ast.BinaryExpr) (Value, error) {
	switch ex.Op {
	case ast.LogAnd:
		return lw.logicalAnd(ex)
	case ast.LogOr:
		return lw.logicalOr(ex)
	default:
		v1, err := lw.expr(ex.Left)
		if err != nil {
			return nil, err
		}
		v2, err := lw.expr(ex.Right)
		if err != nil {
			return nil, err
		}
		t := lw.freshTemp()
		lw.emit(Binary{Op: binaryOpOf[ex.Op], Src1: v1, Src2: v2, Dst: t})
		return Var{Name: t}, nil
	}
}

func (lw *lowering) logicalAnd(ex *ast.BinaryExpr) (Value, error) {
	r := lw.freshTemp()
	falseL := lw.freshLabel("and_false")
	endL := lw.freshLabel("and_end")

	v1, err := lw.expr(ex.Left)
	if err != nil {
		return nil, err
	}
	lw.emit(JumpIfZero{Cond: v1, Target: falseL})
	v2, err := lw.expr(ex.Right)
	if err != nil {
		return nil, err
	}
	lw.emit(JumpIfZero{Cond: v2, Target: falseL})
	lw.emit(Copy{Src: Constant{1}, Dst: r})
	lw.emit(Jump{Target: endL})
	lw.emit(Label{Name: falseL})
	lw.emit(Copy{Src: Constant{0}, Dst: r})
	lw.emit(Label{Name: endL})
	return Var{Name: r}, nil
}

func (lw *lowering) logicalOr(ex *ast.BinaryExpr) (Value, error) {
	r := lw.freshTemp()
	trueL := lw.freshLabel("or_true")
	endL := lw.freshLabel("or_end")

	v1, err := lw.expr(ex.Left)
	if err != nil {
		return nil, err
	}
	lw.emit(JumpIfNotZero{Cond: v1, Target: trueL})
	v2, err := lw.expr(ex.Right)
	if err != nil {
		return nil, err
	}
	lw.emit(JumpIfNotZero{Cond: v2, Target: trueL})
	lw.emit(Copy{Src: Constant{0}, Dst: r})
	lw.emit(Jump{Target: endL})
	lw.emit(Label{Name: trueL})
	lw.emit(Copy{Src: Constant{1}, Dst: r})
	lw.emit(Label{Name: endL})
	return Var{Name: r}, nil
}

func (lw *lowering) assignment(ex *ast.AssignmentExpr) (Value, error) {
	v := ex.Left.(*ast.VarExpr)
	rhs, err := lw.expr(ex.Right)
	if err != nil {
		return nil, err
	}
	if ex.Op == ast.Assign {
		lw.emit(Copy{Src: rhs, Dst: v.Name})
		return Var{Name: v.Name}, nil
	}
	op, ok := assignBinOpOf[ex.Op]
	if !ok {
		return nil, ccerr.New(ccerr.InvalidExpression, "unrecognized compound assignment operator")
	}
	lw.emit(Binary{Op: op, Src1: Var{Name: v.Name}, Src2: rhs, Dst: v.Name})
	return Var{Name: v.Name}, nil
}

func (lw *lowering) conditional(ex *ast.ConditionalExpr) (Value, error) {
	r := lw.freshTemp()
	elseL := lw.freshLabel("cond_else")
	endL := lw.freshLabel("cond_end")

	vc, err := lw.expr(ex.Cond)
	if err != nil {
		return nil, err
	}
	lw.emit(JumpIfZero{Cond: vc, Target: elseL})
	vt, err := lw.expr(ex.Then)
	if err != nil {
		return nil, err
	}
	lw.emit(Copy{Src: vt, Dst: r})
	lw.emit(Jump{Target: endL})
	lw.emit(Label{Name: elseL})
	ve, err := lw.expr(ex.Else)
	if err != nil {
		return nil, err
	}
	lw.emit(Copy{Src: ve, Dst: r})
	lw.emit(Label{Name: endL})
	return Var{Name: r}, nil
}
