// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package gn

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind int

const (
	ValueBool ValueKind = iota
	ValueInt
	ValueString
	ValueList
	ValueScope
)

func (k ValueKind) String() string {
	switch k {
	case ValueBool:
		return "bool"
	case ValueInt:
		return "int"
	case ValueString:
		return "string"
	case ValueList:
		return "list"
	case ValueScope:
		return "scope"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is an evaluated configuration value. Exactly the field
// matching Kind is meaningful; the zero Value is `false`.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Str   string
	List  []Value
	Scope *Scope

	// Pos is where the value was produced, for diagnostics that
	// outlive evaluation (such as build-argument override errors).
	Pos Position
}

// BoolValue, IntValue, StringValue, and ListValue build values of the
// corresponding kind.
func BoolValue(v bool) Value     { return Value{Kind: ValueBool, Bool: v} }
func IntValue(v int64) Value     { return Value{Kind: ValueInt, Int: v} }
func StringValue(v string) Value { return Value{Kind: ValueString, Str: v} }
func ListValue(elements ...Value) Value {
	return Value{Kind: ValueList, List: elements}
}

// Equal reports deep structural equality. Values of different kinds
// are never equal; the evaluator rejects cross-kind comparisons before
// calling this.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValueBool:
		return v.Bool == other.Bool
	case ValueInt:
		return v.Int == other.Int
	case ValueString:
		return v.Str == other.Str
	case ValueList:
		if len(v.List) != len(other.List) {
			return false
		}
		for index := range v.List {
			if !v.List[index].Equal(other.List[index]) {
				return false
			}
		}
		return true
	case ValueScope:
		if v.Scope == other.Scope {
			return true
		}
		if v.Scope == nil || other.Scope == nil {
			return false
		}
		left, right := v.Scope.Bindings(), other.Scope.Bindings()
		if len(left) != len(right) {
			return false
		}
		for name, leftValue := range left {
			rightValue, ok := right[name]
			if !ok || !leftValue.Equal(rightValue) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Format renders the value as source text: `true`, `7`, `"str"`,
// `[ "a", "b" ]`. Used in diagnostics and in JSON-free human output.
func (v Value) Format() string {
	switch v.Kind {
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueList:
		if len(v.List) == 0 {
			return "[]"
		}
		parts := make([]string, len(v.List))
		for index, element := range v.List {
			parts[index] = element.Format()
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case ValueScope:
		if v.Scope == nil {
			return "{}"
		}
		names := v.Scope.Names()
		parts := make([]string, len(names))
		for index, name := range names {
			value, _ := v.Scope.GetLocal(name)
			parts[index] = name + " = " + value.Format()
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return "<invalid>"
	}
}

// Interface converts the value to plain Go data (bool, int64, string,
// []any, map[string]any) for JSON output.
func (v Value) Interface() any {
	switch v.Kind {
	case ValueBool:
		return v.Bool
	case ValueInt:
		return v.Int
	case ValueString:
		return v.Str
	case ValueList:
		elements := make([]any, len(v.List))
		for index, element := range v.List {
			elements[index] = element.Interface()
		}
		return elements
	case ValueScope:
		result := make(map[string]any)
		if v.Scope != nil {
			for name, value := range v.Scope.Bindings() {
				result[name] = value.Interface()
			}
		}
		return result
	default:
		return nil
	}
}

// Scope is a set of named bindings with an optional parent. Reads walk
// the parent chain; writes are always local, shadowing any enclosing
// binding of the same name. Condition blocks share their enclosing
// scope, so conditional assignments behave as authors expect, while
// blocks attached to calls (declare_args, target definitions, scope
// literals) get a child scope whose writes stay inside the block.
//
// Insertion order is preserved so that target properties, declared
// arguments, and error listings come out in source order.
type Scope struct {
	parent *Scope
	values map[string]Value
	names  []string
}

// NewScope creates a scope with the given parent (nil for a root).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, values: make(map[string]Value)}
}

// Get resolves a name through the scope chain.
func (s *Scope) Get(name string) (Value, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if value, ok := scope.values[name]; ok {
			return value, true
		}
	}
	return Value{}, false
}

// GetLocal resolves a name in this scope only.
func (s *Scope) GetLocal(name string) (Value, bool) {
	value, ok := s.values[name]
	return value, ok
}

// Set binds a name in this scope, replacing an existing local binding
// or shadowing an enclosing one.
func (s *Scope) Set(name string, value Value) {
	if _, ok := s.values[name]; ok {
		s.values[name] = value
		return
	}
	s.values[name] = value
	s.names = append(s.names, name)
}

// Names returns locally bound names in insertion order.
func (s *Scope) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Bindings returns a copy of the local bindings.
func (s *Scope) Bindings() map[string]Value {
	bindings := make(map[string]Value, len(s.values))
	for name, value := range s.values {
		bindings[name] = value
	}
	return bindings
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}
