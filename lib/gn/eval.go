// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package gn

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader resolves import paths to file contents. Paths arrive either
// in source-absolute form ("//args/net.gni") or already joined
// relative to the loader root ("args/net.gni"); both address the same
// file.
type Loader interface {
	Load(path string) ([]byte, error)
}

// FileLoader loads imports from a directory tree rooted at Root.
type FileLoader struct {
	Root string
}

func (l *FileLoader) Load(importPath string) ([]byte, error) {
	cleaned := strings.TrimPrefix(importPath, "//")
	return os.ReadFile(filepath.Join(l.Root, filepath.FromSlash(cleaned)))
}

// TargetHandler receives target-defining calls during fragment
// evaluation: the call name (the target kind), the evaluated target
// name, the call node, and the block's property scope. The handler
// owns all build-rule semantics; the evaluator only guarantees that
// the block evaluated cleanly.
type TargetHandler func(kind string, name string, call *CallStatement, properties *Scope) error

// EvalOptions configures an Evaluator.
type EvalOptions struct {
	// Loader resolves import() calls. When nil, any import fails with
	// a clear error, which is the right behavior for standalone
	// overrides files.
	Loader Loader

	// Overrides are build-argument values applied over declare_args
	// defaults, keyed by argument name.
	Overrides map[string]Value

	// RootScope provides pre-resolved bindings visible to every
	// evaluated file, typically the resolved build-argument scope when
	// evaluating build-rule fragments. May be nil.
	RootScope *Scope

	// TargetHandler interprets target-defining calls. When nil, such
	// calls are errors, which is the right behavior for argument
	// declaration files.
	TargetHandler TargetHandler
}

// ArgDeclaration records one argument declared in a declare_args
// block: its default, its final value after overrides, and the doc
// comment block written directly above the declaration.
type ArgDeclaration struct {
	Name       string
	Default    Value
	Value      Value
	Overridden bool
	DocComment string
	Pos        Position
}

// Evaluator runs parsed files. One Evaluator may run several files in
// sequence; declared arguments accumulate across runs and become
// visible to later files, matching how a build-argument set spans
// multiple declaration files.
type Evaluator struct {
	options      EvalOptions
	root         *Scope
	declarations []*ArgDeclaration
	declared     map[string]*ArgDeclaration

	imports     map[string]*importEntry
	importStack []string
	fileStack   []string
}

type importEntry struct {
	evaluating bool
	scope      *Scope
}

// NewEvaluator creates an evaluator with a shared root scope layered
// over options.RootScope.
func NewEvaluator(options EvalOptions) *Evaluator {
	return &Evaluator{
		options:  options,
		root:     NewScope(options.RootScope),
		declared: make(map[string]*ArgDeclaration),
		imports:  make(map[string]*importEntry),
	}
}

// Evaluate parses nothing and runs everything: it evaluates one file
// with a one-shot evaluator and returns the file scope and any
// argument declarations. Convenience for single-file callers.
func Evaluate(file *File, options EvalOptions) (*Scope, []*ArgDeclaration, error) {
	evaluator := NewEvaluator(options)
	scope, err := evaluator.Run(file)
	if err != nil {
		return nil, nil, err
	}
	return scope, evaluator.Declarations(), nil
}

// Run evaluates a file in a fresh scope chained to the evaluator
// root. File-local bindings stay isolated per run; declared arguments
// are bound into the shared root.
func (e *Evaluator) Run(file *File) (*Scope, error) {
	fileScope := NewScope(e.root)
	e.fileStack = append(e.fileStack, file.Name)
	err := e.evalStatements(file.Statements, fileScope)
	e.fileStack = e.fileStack[:len(e.fileStack)-1]
	if err != nil {
		return nil, err
	}
	return fileScope, nil
}

// Declarations returns every argument declared so far, in declaration
// order.
func (e *Evaluator) Declarations() []*ArgDeclaration {
	declarations := make([]*ArgDeclaration, len(e.declarations))
	copy(declarations, e.declarations)
	return declarations
}

func (e *Evaluator) currentFile() string {
	if len(e.fileStack) == 0 {
		return ""
	}
	return e.fileStack[len(e.fileStack)-1]
}

func (e *Evaluator) evalStatements(statements []Statement, scope *Scope) error {
	for _, statement := range statements {
		if err := e.evalStatement(statement, scope); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) evalStatement(statement Statement, scope *Scope) error {
	switch s := statement.(type) {
	case *AssignStatement:
		return e.evalAssignment(s, scope)
	case *CallStatement:
		return e.evalCall(s, scope)
	case *ConditionStatement:
		return e.evalCondition(s, scope)
	default:
		return errorf(statement.Position(), "unsupported statement")
	}
}

func (e *Evaluator) evalAssignment(statement *AssignStatement, scope *Scope) error {
	value, err := e.evalExpression(statement.Value, scope)
	if err != nil {
		return err
	}
	value.Pos = statement.NamePos

	switch statement.Op {
	case TokenAssign:
		scope.Set(statement.Name, value)
		return nil
	case TokenPlusAssign, TokenMinusAssign:
		existing, ok := scope.Get(statement.Name)
		if !ok {
			return errorf(statement.NamePos, "cannot use %s on undefined variable %q",
				statement.Op, statement.Name)
		}
		var combined Value
		if statement.Op == TokenPlusAssign {
			combined, err = addValues(existing, value, statement.NamePos)
		} else {
			combined, err = subtractValues(existing, value, statement.NamePos)
		}
		if err != nil {
			return err
		}
		combined.Pos = statement.NamePos
		scope.Set(statement.Name, combined)
		return nil
	default:
		return errorf(statement.NamePos, "unsupported assignment operator %s", statement.Op)
	}
}

// evalCondition evaluates an if/else chain. Condition blocks share the
// enclosing scope: an assignment inside `if` is visible after it, which
// is what conditional argument defaults rely on.
func (e *Evaluator) evalCondition(statement *ConditionStatement, scope *Scope) error {
	condition, err := e.evalExpression(statement.Condition, scope)
	if err != nil {
		return err
	}
	if condition.Kind != ValueBool {
		return errorf(statement.Condition.Position(),
			"condition must be a bool, got %s", condition.Kind)
	}
	if condition.Bool {
		return e.evalStatements(statement.Then.Statements, scope)
	}
	if statement.ElseCondition != nil {
		return e.evalCondition(statement.ElseCondition, scope)
	}
	if statement.ElseBlock != nil {
		return e.evalStatements(statement.ElseBlock.Statements, scope)
	}
	return nil
}

func (e *Evaluator) evalCall(call *CallStatement, scope *Scope) error {
	switch call.Name {
	case "declare_args":
		return e.evalDeclareArgs(call, scope)
	case "import":
		return e.evalImport(call, scope)
	case "assert":
		return e.evalAssert(call, scope)
	}

	if call.Block != nil && e.options.TargetHandler != nil {
		return e.evalTargetCall(call, scope)
	}
	if call.Block != nil {
		return errorf(call.NamePos, "target definitions such as %q are not allowed in this file", call.Name)
	}
	return errorf(call.NamePos, "unknown call %q", call.Name)
}

func (e *Evaluator) evalDeclareArgs(call *CallStatement, scope *Scope) error {
	if len(call.Args) != 0 {
		return errorf(call.NamePos, "declare_args takes no arguments")
	}
	if call.Block == nil {
		return errorf(call.NamePos, "declare_args requires a { } block")
	}

	// Doc comments and declaration positions come from the block's
	// top-level assignments. Arguments first bound inside a nested
	// condition fall back to the declare_args position and no doc.
	docs := make(map[string]Comment)
	positions := make(map[string]Position)
	for _, statement := range call.Block.Statements {
		assignment, ok := statement.(*AssignStatement)
		if !ok {
			continue
		}
		positions[assignment.Name] = assignment.NamePos
		if doc := docCommentText(assignment); doc != "" {
			docs[assignment.Name] = Comment{Text: doc}
		}
	}

	blockScope := NewScope(scope)
	if err := e.evalStatements(call.Block.Statements, blockScope); err != nil {
		return err
	}

	for _, name := range blockScope.Names() {
		defaultValue, _ := blockScope.GetLocal(name)
		if existing, ok := e.declared[name]; ok {
			return errorf(call.NamePos, "build argument %q declared more than once (first at %s)",
				name, existing.Pos)
		}

		declaration := &ArgDeclaration{
			Name:    name,
			Default: defaultValue,
			Value:   defaultValue,
			Pos:     call.NamePos,
		}
		if pos, ok := positions[name]; ok {
			declaration.Pos = pos
		}
		if doc, ok := docs[name]; ok {
			declaration.DocComment = doc.Text
		}

		if override, ok := e.options.Overrides[name]; ok {
			if override.Kind != defaultValue.Kind {
				return errorf(declaration.Pos,
					"build argument %q defaults to %s (%s) but the override is %s (%s)",
					name, defaultValue.Format(), defaultValue.Kind, override.Format(), override.Kind)
			}
			declaration.Value = override
			declaration.Overridden = true
		}

		e.root.Set(name, declaration.Value)
		e.declarations = append(e.declarations, declaration)
		e.declared[name] = declaration
	}
	return nil
}

// docCommentText joins the comment block directly above a statement
// into one text, stripping the conventional single leading space per
// line. A blank line inside the leading comments breaks doc adjacency:
// only the run after the last blank is the doc.
func docCommentText(statement Statement) string {
	if statement.base().BlankAfterComments {
		return ""
	}
	comments := statement.base().LeadingComments
	start := 0
	for index, comment := range comments {
		if index > 0 && comment.BlankBefore {
			start = index
		}
	}
	var lines []string
	for _, comment := range comments[start:] {
		lines = append(lines, strings.TrimPrefix(comment.Text, " "))
	}
	return strings.Join(lines, "\n")
}

func (e *Evaluator) evalImport(call *CallStatement, scope *Scope) error {
	if call.Block != nil {
		return errorf(call.NamePos, "import does not take a block")
	}
	if len(call.Args) != 1 {
		return errorf(call.NamePos, "import takes exactly one path argument")
	}
	pathValue, err := e.evalExpression(call.Args[0], scope)
	if err != nil {
		return err
	}
	if pathValue.Kind != ValueString || pathValue.Str == "" {
		return errorf(call.Args[0].Position(), "import path must be a non-empty string")
	}
	if e.options.Loader == nil {
		return errorf(call.NamePos, "imports are not supported here (no loader configured)")
	}

	key := resolveImportPath(e.currentFile(), pathValue.Str)
	entry, seen := e.imports[key]
	if seen && entry.evaluating {
		chain := append(append([]string{}, e.importStack...), key)
		return errorf(call.NamePos, "import cycle: %s", strings.Join(chain, " -> "))
	}

	if !seen {
		source, err := e.options.Loader.Load(key)
		if err != nil {
			return errorf(call.NamePos, "import %q: %v", pathValue.Str, err)
		}
		imported, err := Parse(key, source)
		if err != nil {
			return fmt.Errorf("import %q: %w", pathValue.Str, err)
		}

		entry = &importEntry{evaluating: true}
		e.imports[key] = entry
		e.importStack = append(e.importStack, key)
		e.fileStack = append(e.fileStack, key)

		importedScope := NewScope(e.root)
		evalErr := e.evalStatements(imported.Statements, importedScope)

		e.fileStack = e.fileStack[:len(e.fileStack)-1]
		e.importStack = e.importStack[:len(e.importStack)-1]
		if evalErr != nil {
			delete(e.imports, key)
			return evalErr
		}
		entry.evaluating = false
		entry.scope = importedScope
	}

	// Merge the imported bindings. Underscore-prefixed names are
	// private to the imported file. A conflicting redefinition with a
	// different value is an authoring error; an identical value is
	// tolerated so diamond imports work.
	for _, name := range entry.scope.Names() {
		if strings.HasPrefix(name, "_") {
			continue
		}
		value, _ := entry.scope.GetLocal(name)
		if existing, ok := scope.GetLocal(name); ok && !existing.Equal(value) {
			return errorf(call.NamePos, "import %q redefines %q with a different value",
				pathValue.Str, name)
		}
		scope.Set(name, value)
	}
	return nil
}

// resolveImportPath normalizes an import target. Source-absolute
// paths pass through; relative paths resolve against the importing
// file's directory.
func resolveImportPath(fromFile, importPath string) string {
	if strings.HasPrefix(importPath, "//") {
		return importPath
	}
	directory := path.Dir(strings.TrimPrefix(fromFile, "//"))
	if strings.HasPrefix(fromFile, "//") {
		return "//" + path.Join(directory, importPath)
	}
	return path.Join(directory, importPath)
}

func (e *Evaluator) evalAssert(call *CallStatement, scope *Scope) error {
	if call.Block != nil {
		return errorf(call.NamePos, "assert does not take a block")
	}
	if len(call.Args) == 0 || len(call.Args) > 2 {
		return errorf(call.NamePos, "assert takes a condition and an optional message")
	}
	condition, err := e.evalExpression(call.Args[0], scope)
	if err != nil {
		return err
	}
	if condition.Kind != ValueBool {
		return errorf(call.Args[0].Position(), "assert condition must be a bool, got %s", condition.Kind)
	}
	if condition.Bool {
		return nil
	}

	message := "assertion failed"
	if len(call.Args) == 2 {
		messageValue, err := e.evalExpression(call.Args[1], scope)
		if err != nil {
			return err
		}
		if messageValue.Kind != ValueString {
			return errorf(call.Args[1].Position(), "assert message must be a string, got %s", messageValue.Kind)
		}
		message = "assertion failed: " + messageValue.Str
	}
	return &Error{Pos: call.NamePos, Message: message, Assertion: true}
}

func (e *Evaluator) evalTargetCall(call *CallStatement, scope *Scope) error {
	if len(call.Args) != 1 {
		return errorf(call.NamePos, "%s requires exactly one name argument", call.Name)
	}
	nameValue, err := e.evalExpression(call.Args[0], scope)
	if err != nil {
		return err
	}
	if nameValue.Kind != ValueString || nameValue.Str == "" {
		return errorf(call.Args[0].Position(), "%s name must be a non-empty string", call.Name)
	}

	properties := NewScope(scope)
	if err := e.evalStatements(call.Block.Statements, properties); err != nil {
		return err
	}
	return e.options.TargetHandler(call.Name, nameValue.Str, call, properties)
}

func (e *Evaluator) evalExpression(expr Expression, scope *Scope) (Value, error) {
	switch node := expr.(type) {
	case *BoolLiteral:
		return Value{Kind: ValueBool, Bool: node.Value, Pos: node.Pos}, nil

	case *IntegerLiteral:
		return Value{Kind: ValueInt, Int: node.Value, Pos: node.Pos}, nil

	case *StringLiteral:
		return e.expandString(node, scope)

	case *IdentifierExpr:
		value, ok := scope.Get(node.Name)
		if !ok {
			return Value{}, errorf(node.NamePos, "undefined identifier %q", node.Name)
		}
		return value, nil

	case *ListLiteral:
		elements := make([]Value, 0, len(node.Elements))
		for _, element := range node.Elements {
			value, err := e.evalExpression(element.Value, scope)
			if err != nil {
				return Value{}, err
			}
			elements = append(elements, value)
		}
		return Value{Kind: ValueList, List: elements, Pos: node.LeftBracketPos}, nil

	case *ParenExpr:
		return e.evalExpression(node.Inner, scope)

	case *ScopeLiteral:
		child := NewScope(scope)
		if err := e.evalStatements(node.Block.Statements, child); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueScope, Scope: child, Pos: node.Block.LeftBracePos}, nil

	case *UnaryExpr:
		return e.evalUnary(node, scope)

	case *BinaryExpr:
		return e.evalBinary(node, scope)

	case *MemberExpr:
		return e.evalMember(node, scope)

	case *CallExpr:
		return e.evalExpressionCall(node, scope)

	default:
		return Value{}, errorf(expr.Position(), "unsupported expression")
	}
}

func (e *Evaluator) evalUnary(node *UnaryExpr, scope *Scope) (Value, error) {
	operand, err := e.evalExpression(node.Operand, scope)
	if err != nil {
		return Value{}, err
	}
	switch node.Op {
	case TokenNot:
		if operand.Kind != ValueBool {
			return Value{}, errorf(node.OpPos, "operator ! requires a bool, got %s", operand.Kind)
		}
		return BoolValue(!operand.Bool), nil
	case TokenMinus:
		if operand.Kind != ValueInt {
			return Value{}, errorf(node.OpPos, "unary - requires an int, got %s", operand.Kind)
		}
		return IntValue(-operand.Int), nil
	default:
		return Value{}, errorf(node.OpPos, "unsupported unary operator %s", node.Op)
	}
}

func (e *Evaluator) evalBinary(node *BinaryExpr, scope *Scope) (Value, error) {
	// Short-circuit forms first.
	if node.Op == TokenAnd || node.Op == TokenOr {
		left, err := e.evalExpression(node.Left, scope)
		if err != nil {
			return Value{}, err
		}
		if left.Kind != ValueBool {
			return Value{}, errorf(node.Left.Position(), "operator %s requires bools, got %s", node.Op, left.Kind)
		}
		if (node.Op == TokenAnd && !left.Bool) || (node.Op == TokenOr && left.Bool) {
			return BoolValue(left.Bool), nil
		}
		right, err := e.evalExpression(node.Right, scope)
		if err != nil {
			return Value{}, err
		}
		if right.Kind != ValueBool {
			return Value{}, errorf(node.Right.Position(), "operator %s requires bools, got %s", node.Op, right.Kind)
		}
		return BoolValue(right.Bool), nil
	}

	left, err := e.evalExpression(node.Left, scope)
	if err != nil {
		return Value{}, err
	}
	right, err := e.evalExpression(node.Right, scope)
	if err != nil {
		return Value{}, err
	}

	switch node.Op {
	case TokenEqual, TokenNotEqual:
		if left.Kind != right.Kind {
			return Value{}, errorf(node.OpPos, "cannot compare %s with %s", left.Kind, right.Kind)
		}
		equal := left.Equal(right)
		if node.Op == TokenNotEqual {
			equal = !equal
		}
		return BoolValue(equal), nil

	case TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual:
		if left.Kind != ValueInt || right.Kind != ValueInt {
			return Value{}, errorf(node.OpPos, "operator %s requires ints, got %s and %s",
				node.Op, left.Kind, right.Kind)
		}
		var result bool
		switch node.Op {
		case TokenLess:
			result = left.Int < right.Int
		case TokenLessEqual:
			result = left.Int <= right.Int
		case TokenGreater:
			result = left.Int > right.Int
		case TokenGreaterEqual:
			result = left.Int >= right.Int
		}
		return BoolValue(result), nil

	case TokenPlus:
		return addValues(left, right, node.OpPos)
	case TokenMinus:
		return subtractValues(left, right, node.OpPos)

	default:
		return Value{}, errorf(node.OpPos, "unsupported operator %s", node.Op)
	}
}

func addValues(left, right Value, pos Position) (Value, error) {
	switch {
	case left.Kind == ValueInt && right.Kind == ValueInt:
		return IntValue(left.Int + right.Int), nil
	case left.Kind == ValueString && right.Kind == ValueString:
		return StringValue(left.Str + right.Str), nil
	case left.Kind == ValueList && right.Kind == ValueList:
		combined := make([]Value, 0, len(left.List)+len(right.List))
		combined = append(combined, left.List...)
		combined = append(combined, right.List...)
		return Value{Kind: ValueList, List: combined}, nil
	default:
		return Value{}, errorf(pos, "cannot add %s and %s", left.Kind, right.Kind)
	}
}

// subtractValues implements int subtraction and list removal: every
// element of the right list is removed from the left list wherever it
// occurs.
func subtractValues(left, right Value, pos Position) (Value, error) {
	switch {
	case left.Kind == ValueInt && right.Kind == ValueInt:
		return IntValue(left.Int - right.Int), nil
	case left.Kind == ValueList && right.Kind == ValueList:
		var remaining []Value
	elements:
		for _, element := range left.List {
			for _, removed := range right.List {
				if element.Equal(removed) {
					continue elements
				}
			}
			remaining = append(remaining, element)
		}
		return Value{Kind: ValueList, List: remaining}, nil
	default:
		return Value{}, errorf(pos, "cannot subtract %s from %s", right.Kind, left.Kind)
	}
}

func (e *Evaluator) evalMember(node *MemberExpr, scope *Scope) (Value, error) {
	container, err := e.evalExpression(node.Scope, scope)
	if err != nil {
		return Value{}, err
	}
	if container.Kind != ValueScope || container.Scope == nil {
		return Value{}, errorf(node.DotPos, "member access requires a scope, got %s", container.Kind)
	}
	value, ok := container.Scope.GetLocal(node.Member)
	if !ok {
		return Value{}, errorf(node.DotPos, "scope has no member %q", node.Member)
	}
	return value, nil
}

// evalExpressionCall handles calls in expression position. Only
// defined() exists; it inspects bindings without evaluating its
// argument, so asking about an unbound name is not an error.
func (e *Evaluator) evalExpressionCall(node *CallExpr, scope *Scope) (Value, error) {
	if node.Name != "defined" {
		return Value{}, errorf(node.NamePos, "unknown function %q in expression", node.Name)
	}
	if len(node.Args) != 1 {
		return Value{}, errorf(node.NamePos, "defined takes exactly one argument")
	}
	switch arg := node.Args[0].(type) {
	case *IdentifierExpr:
		_, ok := scope.Get(arg.Name)
		return BoolValue(ok), nil
	case *MemberExpr:
		container, err := e.evalExpression(arg.Scope, scope)
		if err != nil {
			return Value{}, err
		}
		if container.Kind != ValueScope || container.Scope == nil {
			return Value{}, errorf(arg.DotPos, "member access requires a scope, got %s", container.Kind)
		}
		_, ok := container.Scope.GetLocal(arg.Member)
		return BoolValue(ok), nil
	default:
		return Value{}, errorf(node.Args[0].Position(), "defined requires an identifier or member access")
	}
}

// expandString processes escapes and $variable expansion in a string
// literal. Supported escapes are \", \\, and \$; any other backslash
// sequence is kept verbatim. Expansion accepts $name and ${name} for
// bool, int, and string values.
func (e *Evaluator) expandString(literal *StringLiteral, scope *Scope) (Value, error) {
	raw := literal.Raw
	var builder strings.Builder
	builder.Grow(len(raw))

	for index := 0; index < len(raw); index++ {
		char := raw[index]
		switch char {
		case '\\':
			if index+1 < len(raw) {
				next := raw[index+1]
				if next == '"' || next == '\\' || next == '$' {
					builder.WriteByte(next)
					index++
					continue
				}
			}
			builder.WriteByte(char)

		case '$':
			name, consumed, err := scanExpansion(raw[index+1:])
			if err != nil {
				return Value{}, errorf(literal.Pos, "%v", err)
			}
			value, ok := scope.Get(name)
			if !ok {
				return Value{}, errorf(literal.Pos, "undefined identifier %q in string expansion", name)
			}
			expanded, err := stringifyValue(value)
			if err != nil {
				return Value{}, errorf(literal.Pos, "cannot expand %q: %v", name, err)
			}
			builder.WriteString(expanded)
			index += consumed

		default:
			builder.WriteByte(char)
		}
	}
	return Value{Kind: ValueString, Str: builder.String(), Pos: literal.Pos}, nil
}

// scanExpansion reads the identifier after a '$', in either bare or
// braced form, returning the name and how many bytes were consumed.
func scanExpansion(rest string) (string, int, error) {
	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return "", 0, fmt.Errorf("unterminated ${ in string")
		}
		name := rest[1:end]
		if !isIdentifierText(name) {
			return "", 0, fmt.Errorf("invalid identifier %q in ${ } expansion", name)
		}
		return name, end + 1, nil
	}

	end := 0
	for end < len(rest) && isIdentifierPart(rest[end]) {
		end++
	}
	if end == 0 || !isIdentifierStart(rest[0]) {
		return "", 0, fmt.Errorf(`"$" in string is not followed by an identifier; use \$ for a literal $`)
	}
	return rest[:end], end, nil
}

func isIdentifierText(text string) bool {
	if text == "" || !isIdentifierStart(text[0]) {
		return false
	}
	for index := 1; index < len(text); index++ {
		if !isIdentifierPart(text[index]) {
			return false
		}
	}
	return true
}

func stringifyValue(value Value) (string, error) {
	switch value.Kind {
	case ValueBool:
		if value.Bool {
			return "true", nil
		}
		return "false", nil
	case ValueInt:
		return fmt.Sprintf("%d", value.Int), nil
	case ValueString:
		return value.Str, nil
	default:
		return "", fmt.Errorf("%s values do not expand into strings", value.Kind)
	}
}
