// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package gn

import (
	"bytes"
	"sort"
)

// Fields whose list assignments are kept alphabetically sorted by the
// formatter. Sorting applies only when every element is a plain string
// literal with no attached comments, so annotated or computed lists
// stay as the author arranged them.
var sortedListFields = map[string]bool{
	"sources":     true,
	"deps":        true,
	"public_deps": true,
	"inputs":      true,
	"outputs":     true,
}

// Format renders a parsed file in canonical form: two-space indents,
// normalized operator spacing, one element per line in multi-element
// lists, sorted source and dependency lists, preserved comments, and
// single blank lines where the author separated paragraphs. Formatting
// canonical output reproduces it byte for byte.
func Format(file *File) []byte {
	p := &printer{}
	for index, statement := range file.Statements {
		if index > 0 && statement.base().BlankBefore {
			p.newline()
		}
		p.printStatement(statement)
	}
	p.printTrailingComments(file.EndComments, len(file.Statements) > 0)
	return p.buffer.Bytes()
}

// FormatSource parses and formats in one step.
func FormatSource(filename string, source []byte) ([]byte, error) {
	file, err := Parse(filename, source)
	if err != nil {
		return nil, err
	}
	return Format(file), nil
}

type printer struct {
	buffer bytes.Buffer
	indent int
}

func (p *printer) write(text string) {
	p.buffer.WriteString(text)
}

func (p *printer) newline() {
	p.buffer.WriteByte('\n')
}

func (p *printer) writeIndent() {
	for range p.indent {
		p.write("  ")
	}
}

func (p *printer) printComment(comment Comment) {
	p.writeIndent()
	p.write("#")
	p.write(comment.Text)
	p.newline()
}

func (p *printer) printLeadingComments(comments []Comment) {
	for index, comment := range comments {
		if index > 0 && comment.BlankBefore {
			p.newline()
		}
		p.printComment(comment)
	}
}

func (p *printer) printTrailingComments(comments []Comment, hadContent bool) {
	for index, comment := range comments {
		if (index == 0 && hadContent && comment.BlankBefore) || (index > 0 && comment.BlankBefore) {
			p.newline()
		}
		p.printComment(comment)
	}
}

// printStatement emits one statement including leading comments, the
// statement body, an optional suffix comment, and the final newline.
func (p *printer) printStatement(statement Statement) {
	p.printLeadingComments(statement.base().LeadingComments)
	if len(statement.base().LeadingComments) > 0 && statement.base().BlankAfterComments {
		p.newline()
	}
	p.writeIndent()

	switch s := statement.(type) {
	case *AssignStatement:
		p.write(s.Name)
		p.write(" ")
		p.write(s.Op.String())
		p.write(" ")
		p.printExpression(assignmentValue(s))

	case *CallStatement:
		p.write(s.Name)
		p.write("(")
		for index, arg := range s.Args {
			if index > 0 {
				p.write(", ")
			}
			p.printExpression(arg)
		}
		p.write(")")
		if s.Block != nil {
			p.write(" ")
			p.printBlock(s.Block)
		}

	case *ConditionStatement:
		p.printCondition(s)
	}

	if suffix := statement.base().SuffixComment; suffix != "" {
		p.write("  #")
		p.write(suffix)
	}
	p.newline()
}

func (p *printer) printCondition(statement *ConditionStatement) {
	p.write("if (")
	p.printExpression(statement.Condition)
	p.write(") ")
	p.printBlock(statement.Then)
	if statement.ElseCondition != nil {
		p.write(" else ")
		p.printCondition(statement.ElseCondition)
	} else if statement.ElseBlock != nil {
		p.write(" else ")
		p.printBlock(statement.ElseBlock)
	}
}

// printBlock emits a braced block. The closing brace is written at the
// enclosing indent without a trailing newline so callers can append
// else arms or suffix comments.
func (p *printer) printBlock(block *Block) {
	p.write("{")
	p.newline()
	p.indent++
	for index, statement := range block.Statements {
		if index > 0 && statement.base().BlankBefore {
			p.newline()
		}
		p.printStatement(statement)
	}
	p.printTrailingComments(block.EndComments, len(block.Statements) > 0)
	p.indent--
	p.writeIndent()
	p.write("}")
}

// assignmentValue returns the expression to print for an assignment,
// substituting a sorted view of the list for fields that are kept
// alphabetical. The original tree is never mutated.
func assignmentValue(statement *AssignStatement) Expression {
	list, ok := statement.Value.(*ListLiteral)
	if !ok || !sortedListFields[statement.Name] {
		return statement.Value
	}
	for _, element := range list.Elements {
		if _, isString := element.Value.(*StringLiteral); !isString {
			return statement.Value
		}
		if len(element.LeadingComments) > 0 || element.SuffixComment != "" {
			return statement.Value
		}
	}
	sorted := &ListLiteral{
		LeftBracketPos:  list.LeftBracketPos,
		Elements:        append([]*ListElement{}, list.Elements...),
		EndComments:     list.EndComments,
		RightBracketPos: list.RightBracketPos,
	}
	sort.SliceStable(sorted.Elements, func(a, b int) bool {
		left := sorted.Elements[a].Value.(*StringLiteral).Raw
		right := sorted.Elements[b].Value.(*StringLiteral).Raw
		return left < right
	})
	return sorted
}

func (p *printer) printExpression(expr Expression) {
	switch node := expr.(type) {
	case *IdentifierExpr:
		p.write(node.Name)

	case *BoolLiteral:
		if node.Value {
			p.write("true")
		} else {
			p.write("false")
		}

	case *IntegerLiteral:
		p.write(node.Text)

	case *StringLiteral:
		p.write(`"`)
		p.write(node.Raw)
		p.write(`"`)

	case *ParenExpr:
		p.write("(")
		p.printExpression(node.Inner)
		p.write(")")

	case *UnaryExpr:
		p.write(node.Op.String())
		p.printExpression(node.Operand)

	case *BinaryExpr:
		p.printBinaryOperand(node.Left, node.Op)
		p.write(" ")
		p.write(node.Op.String())
		p.write(" ")
		p.printBinaryOperand(node.Right, node.Op)

	case *CallExpr:
		p.write(node.Name)
		p.write("(")
		for index, arg := range node.Args {
			if index > 0 {
				p.write(", ")
			}
			p.printExpression(arg)
		}
		p.write(")")

	case *MemberExpr:
		p.printExpression(node.Scope)
		p.write(".")
		p.write(node.Member)

	case *ListLiteral:
		p.printList(node)

	case *ScopeLiteral:
		p.printBlock(node.Block)
	}
}

// printBinaryOperand parenthesizes a nested binary expression whose
// operator binds looser than the parent's. Author parentheses survive
// as ParenExpr nodes; this only guards trees built programmatically.
func (p *printer) printBinaryOperand(operand Expression, parentOp TokenKind) {
	if nested, ok := operand.(*BinaryExpr); ok {
		if binaryPrecedence[nested.Op] < binaryPrecedence[parentOp] {
			p.write("(")
			p.printExpression(nested)
			p.write(")")
			return
		}
	}
	p.printExpression(operand)
}

// printList renders a list literal. The empty list is `[]`, a single
// uncommented element stays inline, and anything larger gets one
// element per line with trailing commas.
func (p *printer) printList(list *ListLiteral) {
	if len(list.Elements) == 0 && len(list.EndComments) == 0 {
		p.write("[]")
		return
	}
	if len(list.Elements) == 1 && len(list.EndComments) == 0 {
		element := list.Elements[0]
		if len(element.LeadingComments) == 0 && element.SuffixComment == "" {
			if _, nested := element.Value.(*ListLiteral); !nested {
				p.write("[ ")
				p.printExpression(element.Value)
				p.write(" ]")
				return
			}
		}
	}

	p.write("[")
	p.newline()
	p.indent++
	for index, element := range list.Elements {
		if index > 0 && len(element.LeadingComments) > 0 && element.LeadingComments[0].BlankBefore {
			p.newline()
		}
		p.printLeadingComments(element.LeadingComments)
		p.writeIndent()
		p.printExpression(element.Value)
		p.write(",")
		if element.SuffixComment != "" {
			p.write("  #")
			p.write(element.SuffixComment)
		}
		p.newline()
	}
	p.printTrailingComments(list.EndComments, len(list.Elements) > 0)
	p.indent--
	p.writeIndent()
	p.write("]")
}

// Canonical reports whether source is already in canonical form, and
// returns the canonical rendering either way. Canonical form always
// uses LF line endings, so a CRLF file is never canonical.
func Canonical(filename string, source []byte) ([]byte, bool, error) {
	formatted, err := FormatSource(filename, source)
	if err != nil {
		return nil, false, err
	}
	return formatted, bytes.Equal(source, formatted), nil
}
