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

// Package lexer implements pass 1: source text to token stream.
package lexer

import (
	"minic/internal/ccerr"
	"minic/internal/token"
)

// Lexer scans a source buffer by maximal munch. Every Token.Lexeme it
// hands out is a slice of src, so src must outlive every Token.
type Lexer struct {
	src  string
	pos  int
	line int
}

func New(src string) *Lexer {
	return &Lexer{src: src, pos: 0, line: 1}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

func (l *Lexer) at(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\n' {
			l.line++
			l.pos++
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' {
			l.pos++
			continue
		}
		break
	}
}

// Next returns the next token, or a *ccerr.Error (Kind LexError) if no
// rule matches the input at the current position.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Line: l.line}, nil
	}

	startLine := l.line
	c := l.src[l.pos]

	if isDigit(c) {
		return l.lexConstant()
	}
	if isAlpha(c) {
		return l.lexIdentifier()
	}

	// Longest-match punctuators: try 3-, then 2-, then 1-character forms.
	if tok, ok := l.tryPunct3(startLine); ok {
		return tok, nil
	}
	if tok, ok := l.tryPunct2(startLine); ok {
		return tok, nil
	}
	if tok, ok := l.tryPunct1(startLine); ok {
		return tok, nil
	}

	return token.Token{}, ccerr.At(ccerr.LexError, startLine, "unrecognized character %q", c)
}

func (l *Lexer) lexConstant() (token.Token, error) {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	// A constant must not be immediately followed by an identifier
	// character: "123abc" is a lexical error, not "123" then "abc".
	if l.pos < len(l.src) && isAlpha(l.src[l.pos]) {
		for l.pos < len(l.src) && isAlnum(l.src[l.pos]) {
			l.pos++
		}
		return token.Token{}, ccerr.At(ccerr.LexError, line, "malformed number %q", l.src[start:l.pos])
	}
	return token.Token{Kind: token.CONSTANT, Lexeme: l.src[start:l.pos], Line: line}, nil
}

func (l *Lexer) lexIdentifier() (token.Token, error) {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isAlnum(l.src[l.pos]) {
		l.pos++
	}
	lexeme := l.src[start:l.pos]
	if kw, ok := token.Keywords[lexeme]; ok {
		return token.Token{Kind: kw, Lexeme: lexeme, Line: line}, nil
	}
	return token.Token{Kind: token.IDENT, Lexeme: lexeme, Line: line}, nil
}

type punctRule struct {
	text string
	kind token.Kind
}

// Ordered so that, within a fixed length, no rule is a unit test
// dependency on map iteration order.
var punct3 = []punctRule{
	{"<<=", token.LShiftAgn},
	{">>=", token.RShiftAgn},
}

var punct2 = []punctRule{
	{"+=", token.PlusAgn},
	{"++", token.PlusPlus},
	{"-=", token.MinusAgn},
	{"--", token.MinusMinus},
	{"*=", token.StarAgn},
	{"/=", token.SlashAgn},
	{"%=", token.PercentAgn},
	{"&&", token.LogAnd},
	{"&=", token.BitAndAgn},
	{"||", token.LogOr},
	{"|=", token.BitOrAgn},
	{"^=", token.BitXorAgn},
	{"<<", token.LShift},
	{"<=", token.Le},
	{">>", token.RShift},
	{">=", token.Ge},
	{"==", token.Eq},
	{"!=", token.Ne},
}

var punct1 = []punctRule{
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{";", token.Semicolon},
	{":", token.Colon},
	{"?", token.Question},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"~", token.BitNot},
	{"&", token.BitAnd},
	{"|", token.BitOr},
	{"^", token.BitXor},
	{"<", token.Lt},
	{">", token.Gt},
	{"=", token.Assign},
	{"!", token.LogNot},
}

func (l *Lexer) tryPunct3(line int) (token.Token, bool) {
	return l.tryPunct(punct3, 3, line)
}

func (l *Lexer) tryPunct2(line int) (token.Token, bool) {
	return l.tryPunct(punct2, 2, line)
}

func (l *Lexer) tryPunct1(line int) (token.Token, bool) {
	return l.tryPunct(punct1, 1, line)
}

func (l *Lexer) tryPunct(rules []punctRule, width, line int) (token.Token, bool) {
	if l.pos+width > len(l.src) {
		return token.Token{}, false
	}
	s := l.src[l.pos : l.pos+width]
	for _, r := range rules {
		if r.text == s {
			l.pos += width
			return token.Token{Kind: r.kind, Lexeme: r.text, Line: line}, true
		}
	}
	return token.Token{}, false
}

// Tokenize drains the lexer, returning every token up to and including
// the terminal EOF token, or the first lexical error encountered.
func Tokenize(src string) ([]token.Token, error) {
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}
