// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package gn

// Node is implemented by every syntax tree element.
type Node interface {
	// Position is the source location where the node begins.
	Position() Position
}

// Comment is a single comment line. Text is the body after the '#'
// marker, with its original leading whitespace intact.
type Comment struct {
	Text string
	Pos  Position

	// BlankBefore records a blank line between this comment and
	// whatever preceded it. A doc comment block is the run of
	// comments directly above a statement with no blank interruption.
	BlankBefore bool
}

// File is a parsed source file.
type File struct {
	// Name is the path the file was parsed from, as given to Parse.
	Name string

	Statements []Statement

	// EndComments are comments after the last statement.
	EndComments []Comment
}

func (f *File) Position() Position {
	if len(f.Statements) > 0 {
		return f.Statements[0].Position()
	}
	return Position{File: f.Name, Line: 1, Column: 1}
}

// StatementBase carries the comment and spacing metadata shared by all
// statement forms. The formatter reproduces it; build-argument
// documentation reads LeadingComments to find doc blocks.
type StatementBase struct {
	LeadingComments []Comment

	// SuffixComment is a comment on the same line as the statement,
	// without the '#' marker.
	SuffixComment string

	// BlankBefore preserves an author-inserted blank line above the
	// statement (or above its leading comment block).
	BlankBefore bool

	// BlankAfterComments preserves a blank line between the leading
	// comment block and the statement itself. A detached block like a
	// file banner is not a doc comment.
	BlankAfterComments bool
}

// Statement is one of AssignStatement, CallStatement, or
// ConditionStatement.
type Statement interface {
	Node
	base() *StatementBase
}

func (b *StatementBase) base() *StatementBase { return b }

// AssignStatement is `name = expr`, `name += expr`, or `name -= expr`.
type AssignStatement struct {
	StatementBase

	Name    string
	NamePos Position
	Op      TokenKind // TokenAssign, TokenPlusAssign, TokenMinusAssign
	Value   Expression
}

func (s *AssignStatement) Position() Position { return s.NamePos }

// CallStatement is a statement-position call, optionally with an
// attached block: `import("//args/net.gni")`, `assert(cond, "msg")`,
// `declare_args() { ... }`, or a target definition handled by the
// evaluator's target handler.
type CallStatement struct {
	StatementBase

	Name    string
	NamePos Position
	Args    []Expression
	Block   *Block // nil when the call has no block
}

func (s *CallStatement) Position() Position { return s.NamePos }

// ConditionStatement is an if/else-if/else chain. Exactly one of
// ElseCondition and ElseBlock may be set; both nil means no else arm.
type ConditionStatement struct {
	StatementBase

	IfPos     Position
	Condition Expression
	Then      *Block

	ElseCondition *ConditionStatement // `else if`
	ElseBlock     *Block              // plain `else`
}

func (s *ConditionStatement) Position() Position { return s.IfPos }

// Block is a braced statement list.
type Block struct {
	LeftBracePos  Position
	Statements    []Statement
	EndComments   []Comment
	RightBracePos Position
}

func (b *Block) Position() Position { return b.LeftBracePos }

// Expression is one of the *Expr and *Literal node types below.
type Expression interface {
	Node
	exprNode()
}

// IdentifierExpr is a variable reference.
type IdentifierExpr struct {
	Name    string
	NamePos Position
}

func (e *IdentifierExpr) Position() Position { return e.NamePos }
func (e *IdentifierExpr) exprNode()          {}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Value bool
	Pos   Position
}

func (e *BoolLiteral) Position() Position { return e.Pos }
func (e *BoolLiteral) exprNode()          {}

// IntegerLiteral is a decimal integer constant.
type IntegerLiteral struct {
	Value int64
	Text  string
	Pos   Position
}

func (e *IntegerLiteral) Position() Position { return e.Pos }
func (e *IntegerLiteral) exprNode()          {}

// StringLiteral is a double-quoted string. Raw is the uninterpreted
// source text between the quotes; escape processing and $variable
// expansion happen at evaluation time.
type StringLiteral struct {
	Raw string
	Pos Position
}

func (e *StringLiteral) Position() Position { return e.Pos }
func (e *StringLiteral) exprNode()          {}

// ListElement is one entry of a list literal together with the
// comments attached to it.
type ListElement struct {
	LeadingComments []Comment
	Value           Expression
	SuffixComment   string
}

// ListLiteral is `[ ... ]`.
type ListLiteral struct {
	LeftBracketPos  Position
	Elements        []*ListElement
	EndComments     []Comment
	RightBracketPos Position
}

func (e *ListLiteral) Position() Position { return e.LeftBracketPos }
func (e *ListLiteral) exprNode()          {}

// ScopeLiteral is a braced block in expression position, producing a
// scope value: `timeouts = { fetch = 30 }`.
type ScopeLiteral struct {
	Block *Block
}

func (e *ScopeLiteral) Position() Position { return e.Block.LeftBracePos }
func (e *ScopeLiteral) exprNode()          {}

// UnaryExpr is `!operand` or `-operand`.
type UnaryExpr struct {
	Op      TokenKind
	OpPos   Position
	Operand Expression
}

func (e *UnaryExpr) Position() Position { return e.OpPos }
func (e *UnaryExpr) exprNode()          {}

// BinaryExpr is a binary operation. Operator precedence is resolved by
// the parser; the formatter relies on it when deciding that author
// parentheses (kept as ParenExpr nodes) are preserved as written.
type BinaryExpr struct {
	Op    TokenKind
	OpPos Position
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) Position() Position { return e.Left.Position() }
func (e *BinaryExpr) exprNode()          {}

// ParenExpr preserves explicit parentheses from the source.
type ParenExpr struct {
	LeftParenPos  Position
	Inner         Expression
	RightParenPos Position
}

func (e *ParenExpr) Position() Position { return e.LeftParenPos }
func (e *ParenExpr) exprNode()          {}

// CallExpr is an expression-position call such as `defined(x)`.
type CallExpr struct {
	Name    string
	NamePos Position
	Args    []Expression
}

func (e *CallExpr) Position() Position { return e.NamePos }
func (e *CallExpr) exprNode()          {}

// MemberExpr is scope member access: `net.enable_websockets`.
type MemberExpr struct {
	Scope  Expression
	DotPos Position
	Member string
}

func (e *MemberExpr) Position() Position { return e.Scope.Position() }
func (e *MemberExpr) exprNode()          {}
