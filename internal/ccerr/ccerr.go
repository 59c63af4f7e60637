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

// Package ccerr defines the error taxonomy shared by every compiler pass.
package ccerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the category of failure, independent of the message text.
// Error() names the Kind at the start of every message; the command exits
// with status 1 whatever the Kind.
type Kind int

const (
	IO Kind = iota
	PreprocessFailed
	AssembleFailed
	LexError
	ParseError
	InvalidExpression
	InvalidFactor
	DuplicateDeclaration
	UndeclaredVariable
	InvalidLValue
	UndefinedLabel
	DuplicateLabel
	InvalidBreakOrContinue
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case PreprocessFailed:
		return "PreprocessFailed"
	case AssembleFailed:
		return "AssembleFailed"
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case InvalidExpression:
		return "InvalidExpression"
	case InvalidFactor:
		return "InvalidFactor"
	case DuplicateDeclaration:
		return "DuplicateDeclaration"
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case InvalidLValue:
		return "InvalidLValue"
	case UndefinedLabel:
		return "UndefinedLabel"
	case DuplicateLabel:
		return "DuplicateLabel"
	case InvalidBreakOrContinue:
		return "InvalidBreakOrContinue"
	default:
		return "Unknown"
	}
}

// Error is the concrete error value threaded back through every pass.
// Line is 0 when the error has no source-position association (e.g. IO).
type Error struct {
	Kind  Kind
	Line  int
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error with no source line, e.g. for the collaborator
// boundaries (preprocessing, assembling) that have no line of their own.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At builds an Error tied to a specific source line.
func At(kind Kind, line int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and a message to an underlying collaborator failure
// (os/exec, os file I/O) while preserving the cause for errors.As/errors.Is.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: errors.WithStack(cause)}
}

// Is reports whether err is a *Error of the given kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
