// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package gn

import (
	"strings"
)

// Lex scans source into its complete token stream. The stream always
// ends with a TokenEOF entry. Comment tokens are included; the parser
// is responsible for attaching them to statements.
//
// Lexing stops at the first malformed construct (unterminated string,
// stray character) and returns a positioned *Error.
func Lex(filename string, source []byte) ([]Token, error) {
	scanner := &lexer{
		filename: filename,
		source:   source,
		line:     1,
		column:   1,
	}
	return scanner.run()
}

type lexer struct {
	filename string
	source   []byte
	offset   int
	line     int
	column   int

	// newlines counts line breaks crossed since the previous token.
	// Two or more means at least one fully blank line separated the
	// tokens.
	newlines int
}

func (l *lexer) run() ([]Token, error) {
	var tokens []Token
	for {
		l.skipWhitespace()
		blank := l.newlines >= 2 && len(tokens) > 0
		l.newlines = 0

		if l.offset >= len(l.source) {
			tokens = append(tokens, Token{Kind: TokenEOF, Pos: l.position(), BlankBefore: blank})
			return tokens, nil
		}

		token, err := l.next()
		if err != nil {
			return nil, err
		}
		token.BlankBefore = blank
		tokens = append(tokens, token)
	}
}

func (l *lexer) position() Position {
	return Position{File: l.filename, Line: l.line, Column: l.column}
}

func (l *lexer) skipWhitespace() {
	for l.offset < len(l.source) {
		switch l.source[l.offset] {
		case ' ', '\t', '\r':
			l.advance()
		case '\n':
			l.newlines++
			l.advance()
		default:
			return
		}
	}
}

// advance consumes one byte, maintaining line and column counters.
func (l *lexer) advance() {
	if l.source[l.offset] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.offset++
}

// Two-character operators are matched before their one-character
// prefixes.
var twoCharTokens = map[string]TokenKind{
	"==": TokenEqual,
	"!=": TokenNotEqual,
	"<=": TokenLessEqual,
	">=": TokenGreaterEqual,
	"&&": TokenAnd,
	"||": TokenOr,
	"+=": TokenPlusAssign,
	"-=": TokenMinusAssign,
}

var oneCharTokens = map[byte]TokenKind{
	'=': TokenAssign,
	'<': TokenLess,
	'>': TokenGreater,
	'!': TokenNot,
	'+': TokenPlus,
	'-': TokenMinus,
	'(': TokenLeftParen,
	')': TokenRightParen,
	'[': TokenLeftBracket,
	']': TokenRightBracket,
	'{': TokenLeftBrace,
	'}': TokenRightBrace,
	',': TokenComma,
	'.': TokenDot,
}

func (l *lexer) next() (Token, error) {
	pos := l.position()
	char := l.source[l.offset]

	switch {
	case char == '#':
		return l.scanComment(pos), nil
	case char == '"':
		return l.scanString(pos)
	case isDigit(char):
		return l.scanInteger(pos), nil
	case isIdentifierStart(char):
		return l.scanIdentifier(pos), nil
	}

	if l.offset+1 < len(l.source) {
		pair := string(l.source[l.offset : l.offset+2])
		if kind, ok := twoCharTokens[pair]; ok {
			l.advance()
			l.advance()
			return Token{Kind: kind, Text: pair, Pos: pos}, nil
		}
	}

	if kind, ok := oneCharTokens[char]; ok {
		l.advance()
		return Token{Kind: kind, Text: string(char), Pos: pos}, nil
	}

	return Token{}, errorf(pos, "unexpected character %q", string(char))
}

// scanComment consumes '#' through end of line. The token text is the
// comment body after the '#' with trailing whitespace removed; leading
// whitespace is preserved so indented comment art survives formatting.
func (l *lexer) scanComment(pos Position) Token {
	l.advance() // consume '#'
	start := l.offset
	for l.offset < len(l.source) && l.source[l.offset] != '\n' {
		l.advance()
	}
	text := strings.TrimRight(string(l.source[start:l.offset]), " \t\r")
	return Token{Kind: TokenComment, Text: text, Pos: pos}
}

// scanString consumes a double-quoted string literal. Escapes are not
// processed here: the token text is the raw interior of the literal,
// and the evaluator handles \", \\, \$ and $variable expansion. A bare
// newline inside a string is malformed.
func (l *lexer) scanString(pos Position) (Token, error) {
	l.advance() // consume opening quote
	start := l.offset
	for l.offset < len(l.source) {
		switch l.source[l.offset] {
		case '"':
			text := string(l.source[start:l.offset])
			l.advance() // consume closing quote
			return Token{Kind: TokenString, Text: text, Pos: pos}, nil
		case '\n':
			return Token{}, errorf(pos, "unterminated string")
		case '\\':
			// Skip the escaped character so an escaped quote does not
			// terminate the literal.
			l.advance()
			if l.offset < len(l.source) && l.source[l.offset] != '\n' {
				l.advance()
			}
		default:
			l.advance()
		}
	}
	return Token{}, errorf(pos, "unterminated string")
}

func (l *lexer) scanInteger(pos Position) Token {
	start := l.offset
	for l.offset < len(l.source) && isDigit(l.source[l.offset]) {
		l.advance()
	}
	return Token{Kind: TokenInteger, Text: string(l.source[start:l.offset]), Pos: pos}
}

func (l *lexer) scanIdentifier(pos Position) Token {
	start := l.offset
	for l.offset < len(l.source) && isIdentifierPart(l.source[l.offset]) {
		l.advance()
	}
	return Token{Kind: TokenIdentifier, Text: string(l.source[start:l.offset]), Pos: pos}
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

func isIdentifierStart(char byte) bool {
	return char == '_' || (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}

func isIdentifierPart(char byte) bool {
	return isIdentifierStart(char) || isDigit(char)
}
