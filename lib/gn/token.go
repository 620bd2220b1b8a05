// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package gn

import "fmt"

// Position locates a token or node in its source file. Line and Column
// are 1-based; Column counts bytes, which matches how editors address
// the ASCII-dominated configuration files this package handles.
type Position struct {
	File   string
	Line   int
	Column int
}

// String renders the position in the conventional file:line:column
// form. The file part is omitted when unknown.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsValid reports whether the position carries real location data.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenInvalid TokenKind = iota

	TokenIdentifier
	TokenInteger
	TokenString
	TokenComment

	TokenAssign       // =
	TokenPlusAssign   // +=
	TokenMinusAssign  // -=
	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenAnd          // &&
	TokenOr           // ||
	TokenNot          // !
	TokenPlus         // +
	TokenMinus        // -

	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenComma        // ,
	TokenDot          // .

	TokenEOF
)

var tokenKindNames = map[TokenKind]string{
	TokenInvalid:      "invalid",
	TokenIdentifier:   "identifier",
	TokenInteger:      "integer",
	TokenString:       "string",
	TokenComment:      "comment",
	TokenAssign:       "=",
	TokenPlusAssign:   "+=",
	TokenMinusAssign:  "-=",
	TokenEqual:        "==",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenAnd:          "&&",
	TokenOr:           "||",
	TokenNot:          "!",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBracket:  "[",
	TokenRightBracket: "]",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenEOF:          "end of file",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical unit of a source file.
//
// Text holds the exact source spelling: for strings it excludes the
// surrounding quotes but keeps escapes unprocessed, and for comments it
// is everything after the '#' with trailing whitespace removed. Keeping
// the raw spelling lets the formatter reproduce what the author wrote
// and lets the evaluator decide when to process escapes and variable
// expansions.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position

	// BlankBefore records that at least one entirely blank line
	// separated this token from the previous one. The parser carries
	// it onto statements and comments so the formatter can preserve
	// paragraph breaks.
	BlankBefore bool
}

// Error is a diagnostic tied to a source position. Lexing, parsing,
// and evaluation all report failures with this type so callers can
// surface uniform file:line:column messages.
type Error struct {
	Pos     Position
	Message string

	// Assertion marks errors produced by a failing assert() call.
	// Argument evaluation distinguishes these from structural errors
	// when reporting configuration constraint violations.
	Assertion bool
}

func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// errorf builds a positioned diagnostic.
func errorf(pos Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
