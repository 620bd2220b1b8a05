// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package gn

import (
	"strconv"
)

// Parse lexes and parses one source file. The returned tree preserves
// comments and blank-line structure, so Format can reproduce a
// faithful canonical rendering and declaration doc comments remain
// available to callers.
//
// Parsing stops at the first syntax error and returns a positioned
// *Error.
func Parse(filename string, source []byte) (*File, error) {
	tokens, err := Lex(filename, source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseFile(filename)
}

type parser struct {
	tokens []Token
	index  int

	// previousLine is the source line of the most recently consumed
	// token. A comment token on this line is a suffix comment of the
	// construct that just ended rather than a leading comment of the
	// next one.
	previousLine int
}

func (p *parser) current() Token {
	return p.tokens[p.index]
}

func (p *parser) peek() Token {
	if p.index+1 < len(p.tokens) {
		return p.tokens[p.index+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() Token {
	token := p.tokens[p.index]
	if token.Kind != TokenEOF {
		p.index++
	}
	p.previousLine = token.Pos.Line
	return token
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	token := p.current()
	if token.Kind != kind {
		return Token{}, errorf(token.Pos, "expected %s, got %s", kind, describeToken(token))
	}
	return p.advance(), nil
}

func describeToken(token Token) string {
	switch token.Kind {
	case TokenIdentifier:
		return "identifier " + strconv.Quote(token.Text)
	case TokenString:
		return "string " + strconv.Quote(token.Text)
	case TokenInteger:
		return "integer " + token.Text
	case TokenEOF:
		return "end of file"
	default:
		return strconv.Quote(token.Text)
	}
}

func (p *parser) parseFile(filename string) (*File, error) {
	file := &File{Name: filename}
	for {
		comments := p.collectComments()
		if p.current().Kind == TokenEOF {
			file.EndComments = comments
			return file, nil
		}
		statement, err := p.parseStatement(comments)
		if err != nil {
			return nil, err
		}
		file.Statements = append(file.Statements, statement)
	}
}

// collectComments consumes the run of comment tokens before the next
// construct. Same-line suffix comments are not collected here; they
// are claimed by attachSuffix immediately after a statement or list
// element is parsed, so by the time collectComments runs they are
// already consumed.
func (p *parser) collectComments() []Comment {
	var comments []Comment
	for p.current().Kind == TokenComment {
		token := p.advance()
		comments = append(comments, Comment{
			Text:        token.Text,
			Pos:         token.Pos,
			BlankBefore: token.BlankBefore,
		})
	}
	return comments
}

// attachSuffix claims a comment sitting on the line where the previous
// construct ended.
func (p *parser) attachSuffix() string {
	if p.current().Kind == TokenComment && p.current().Pos.Line == p.previousLine {
		return p.advance().Text
	}
	return ""
}

func (p *parser) parseStatement(leading []Comment) (Statement, error) {
	token := p.current()
	if token.Kind != TokenIdentifier {
		return nil, errorf(token.Pos, "expected statement, got %s", describeToken(token))
	}

	base := StatementBase{LeadingComments: leading}
	if len(leading) > 0 {
		base.BlankBefore = leading[0].BlankBefore
		base.BlankAfterComments = token.BlankBefore
	} else {
		base.BlankBefore = token.BlankBefore
	}

	if token.Text == "if" {
		statement, err := p.parseCondition(base)
		if err != nil {
			return nil, err
		}
		statement.SuffixComment = p.attachSuffix()
		return statement, nil
	}

	switch p.peek().Kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign:
		return p.parseAssignment(base)
	case TokenLeftParen:
		return p.parseCallStatement(base)
	default:
		return nil, errorf(p.peek().Pos, "expected assignment operator or call after %q, got %s",
			token.Text, describeToken(p.peek()))
	}
}

func (p *parser) parseAssignment(base StatementBase) (Statement, error) {
	name := p.advance()
	op := p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	statement := &AssignStatement{
		StatementBase: base,
		Name:          name.Text,
		NamePos:       name.Pos,
		Op:            op.Kind,
		Value:         value,
	}
	statement.SuffixComment = p.attachSuffix()
	return statement, nil
}

func (p *parser) parseCallStatement(base StatementBase) (Statement, error) {
	name := p.advance()
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	statement := &CallStatement{
		StatementBase: base,
		Name:          name.Text,
		NamePos:       name.Pos,
		Args:          args,
	}
	if p.current().Kind == TokenLeftBrace {
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		statement.Block = block
	}
	statement.SuffixComment = p.attachSuffix()
	return statement, nil
}

func (p *parser) parseCallArgs() ([]Expression, error) {
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}
	var args []Expression
	for p.current().Kind != TokenRightParen {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.current().Kind == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseCondition(base StatementBase) (*ConditionStatement, error) {
	ifToken := p.advance() // the `if` identifier
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	statement := &ConditionStatement{
		StatementBase: base,
		IfPos:         ifToken.Pos,
		Condition:     condition,
		Then:          then,
	}

	if p.current().Kind == TokenIdentifier && p.current().Text == "else" {
		p.advance()
		if p.current().Kind == TokenIdentifier && p.current().Text == "if" {
			elseCondition, err := p.parseCondition(StatementBase{})
			if err != nil {
				return nil, err
			}
			statement.ElseCondition = elseCondition
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			statement.ElseBlock = elseBlock
		}
	}
	return statement, nil
}

func (p *parser) parseBlock() (*Block, error) {
	open, err := p.expect(TokenLeftBrace)
	if err != nil {
		return nil, err
	}
	block := &Block{LeftBracePos: open.Pos}
	for {
		comments := p.collectComments()
		if p.current().Kind == TokenRightBrace {
			block.EndComments = comments
			closing := p.advance()
			block.RightBracePos = closing.Pos
			return block, nil
		}
		if p.current().Kind == TokenEOF {
			return nil, errorf(open.Pos, "unclosed block")
		}
		statement, err := p.parseStatement(comments)
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, statement)
	}
}

// Binary operator precedence, loosest first. Unary operators bind
// tighter than any binary operator.
var binaryPrecedence = map[TokenKind]int{
	TokenOr:           1,
	TokenAnd:          2,
	TokenEqual:        3,
	TokenNotEqual:     3,
	TokenLess:         4,
	TokenLessEqual:    4,
	TokenGreater:      4,
	TokenGreaterEqual: 4,
	TokenPlus:         5,
	TokenMinus:        5,
}

func (p *parser) parseExpression() (Expression, error) {
	return p.parseBinary(1)
}

func (p *parser) parseBinary(minPrecedence int) (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		precedence, isBinary := binaryPrecedence[p.current().Kind]
		if !isBinary || precedence < minPrecedence {
			return left, nil
		}
		op := p.advance()
		right, err := p.parseBinary(precedence + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Kind, OpPos: op.Pos, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expression, error) {
	token := p.current()
	if token.Kind == TokenNot || token.Kind == TokenMinus {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op.Kind, OpPos: op.Pos, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == TokenDot {
		dot := p.advance()
		member, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		expr = &MemberExpr{Scope: expr, DotPos: dot.Pos, Member: member.Text}
	}
	return expr, nil
}

func (p *parser) parsePrimary() (Expression, error) {
	token := p.current()
	switch token.Kind {
	case TokenIdentifier:
		p.advance()
		switch token.Text {
		case "true":
			return &BoolLiteral{Value: true, Pos: token.Pos}, nil
		case "false":
			return &BoolLiteral{Value: false, Pos: token.Pos}, nil
		}
		if p.current().Kind == TokenLeftParen {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return &CallExpr{Name: token.Text, NamePos: token.Pos, Args: args}, nil
		}
		return &IdentifierExpr{Name: token.Text, NamePos: token.Pos}, nil

	case TokenInteger:
		p.advance()
		value, err := strconv.ParseInt(token.Text, 10, 64)
		if err != nil {
			return nil, errorf(token.Pos, "integer constant %s overflows int64", token.Text)
		}
		return &IntegerLiteral{Value: value, Text: token.Text, Pos: token.Pos}, nil

	case TokenString:
		p.advance()
		return &StringLiteral{Raw: token.Text, Pos: token.Pos}, nil

	case TokenLeftParen:
		open := p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closing, err := p.expect(TokenRightParen)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{LeftParenPos: open.Pos, Inner: inner, RightParenPos: closing.Pos}, nil

	case TokenLeftBracket:
		return p.parseList()

	case TokenLeftBrace:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ScopeLiteral{Block: block}, nil

	default:
		return nil, errorf(token.Pos, "expected expression, got %s", describeToken(token))
	}
}

func (p *parser) parseList() (Expression, error) {
	open := p.advance()
	list := &ListLiteral{LeftBracketPos: open.Pos}
	for {
		comments := p.collectComments()
		if p.current().Kind == TokenRightBracket {
			list.EndComments = comments
			closing := p.advance()
			list.RightBracketPos = closing.Pos
			return list, nil
		}
		if p.current().Kind == TokenEOF {
			return nil, errorf(open.Pos, "unclosed list")
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		element := &ListElement{LeadingComments: comments, Value: value}
		element.SuffixComment = p.attachSuffix()
		if p.current().Kind == TokenComma {
			p.advance()
			if element.SuffixComment == "" {
				element.SuffixComment = p.attachSuffix()
			}
		} else if p.current().Kind != TokenRightBracket {
			return nil, errorf(p.current().Pos, "expected , or ] in list, got %s", describeToken(p.current()))
		}
		list.Elements = append(list.Elements, element)
	}
}
