// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package gn

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type mapLoader map[string]string

func (l mapLoader) Load(path string) ([]byte, error) {
	source, ok := l[path]
	if !ok {
		return nil, fmt.Errorf("no such file")
	}
	return []byte(source), nil
}

func evalSource(t *testing.T, source string, options EvalOptions) (*Scope, []*ArgDeclaration) {
	t.Helper()
	file, err := Parse("test.gn", []byte(source))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	scope, declarations, err := Evaluate(file, options)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	return scope, declarations
}

func evalError(t *testing.T, source string, options EvalOptions) error {
	t.Helper()
	file, err := Parse("test.gn", []byte(source))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, _, err = Evaluate(file, options)
	if err == nil {
		t.Fatal("expected an evaluation error")
	}
	return err
}

func TestEvaluateExpressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   Value
	}{
		{"int arithmetic", "x = 1 + 2 - 4", IntValue(-1)},
		{"unary minus", "x = -7", IntValue(-7)},
		{"string concat", `x = "net" + "_core"`, StringValue("net_core")},
		{"comparison", "x = 3 <= 3", BoolValue(true)},
		{"equality over precedence", "x = 1 + 2 == 3", BoolValue(true)},
		{"inequality", `x = "a" != "b"`, BoolValue(true)},
		{"negation", "x = !false", BoolValue(true)},
		{"and short circuit", "x = false && nonexistent", BoolValue(false)},
		{"or short circuit", "x = true || nonexistent", BoolValue(true)},
		{"parens", "x = (1 + 2) == 3", BoolValue(true)},
		{"list concat", `x = [ 1 ] + [ 2, 3 ]`, ListValue(IntValue(1), IntValue(2), IntValue(3))},
		{"list subtract", `x = [ 1, 2, 1 ] - [ 1 ]`, ListValue(IntValue(2))},
		{"list equality", `x = [ 1, 2 ] == [ 1, 2 ]`, BoolValue(true)},
		{"empty list", "x = []", ListValue()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			scope, _ := evalSource(t, test.source, EvalOptions{})
			got, ok := scope.Get("x")
			if !ok {
				t.Fatal("x is not bound")
			}
			if !got.Equal(test.want) {
				t.Errorf("x = %s, want %s", got.Format(), test.want.Format())
			}
		})
	}
}

func TestEvaluateCompoundAssignment(t *testing.T) {
	t.Parallel()

	source := `deps = [ "//net:core" ]
deps += [ "//net:quic" ]
count = 1
count += 4
count -= 2
deps -= [ "//net:core" ]
`
	scope, _ := evalSource(t, source, EvalOptions{})

	deps, _ := scope.Get("deps")
	if !deps.Equal(ListValue(StringValue("//net:quic"))) {
		t.Errorf("deps = %s", deps.Format())
	}
	count, _ := scope.Get("count")
	if !count.Equal(IntValue(3)) {
		t.Errorf("count = %s", count.Format())
	}
}

func TestEvaluateConditionsShareScope(t *testing.T) {
	t.Parallel()

	source := `mode = "debug"
if (mode == "debug") {
  level = 2
} else if (mode == "release") {
  level = 1
} else {
  level = 0
}
result = level
`
	scope, _ := evalSource(t, source, EvalOptions{})
	result, ok := scope.Get("result")
	if !ok || !result.Equal(IntValue(2)) {
		t.Errorf("result = %s, want 2", result.Format())
	}
}

func TestEvaluateScopeLiteralAndMemberAccess(t *testing.T) {
	t.Parallel()

	source := `settings = {
  verbose = true
  level = 3
}
x = settings.verbose
y = defined(settings.level)
z = defined(settings.missing)
w = defined(unbound_name)
`
	scope, _ := evalSource(t, source, EvalOptions{})

	for name, want := range map[string]Value{
		"x": BoolValue(true),
		"y": BoolValue(true),
		"z": BoolValue(false),
		"w": BoolValue(false),
	} {
		got, ok := scope.Get(name)
		if !ok || !got.Equal(want) {
			t.Errorf("%s = %s, want %s", name, got.Format(), want.Format())
		}
	}
}

func TestEvaluateStringExpansion(t *testing.T) {
	t.Parallel()

	source := `name = "quic"
port = 443
secure = true
label = "//net/$name:$name"
braced = "${name}_tests"
mixed = "port=$port secure=$secure"
escaped = "literal \$name and \"quotes\""
`
	scope, _ := evalSource(t, source, EvalOptions{})

	for name, want := range map[string]string{
		"label":   "//net/quic:quic",
		"braced":  "quic_tests",
		"mixed":   "port=443 secure=true",
		"escaped": `literal $name and "quotes"`,
	} {
		got, _ := scope.Get(name)
		if got.Str != want {
			t.Errorf("%s = %q, want %q", name, got.Str, want)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		source    string
		wantError string
	}{
		{"undefined identifier", "x = nope", `undefined identifier "nope"`},
		{"compound on undefined", `missing += [ "a" ]`, `cannot use += on undefined variable "missing"`},
		{"add mismatch", `x = 1 + "a"`, "cannot add int and string"},
		{"subtract mismatch", `x = "a" - "b"`, "cannot subtract string from string"},
		{"compare mismatch", `x = 1 == "1"`, "cannot compare int with string"},
		{"order mismatch", `x = "a" < "b"`, "operator < requires ints"},
		{"condition not bool", "if (1) {\n}\n", "condition must be a bool, got int"},
		{"not on int", "x = !3", "operator ! requires a bool"},
		{"minus on string", `x = -"a"`, "unary - requires an int"},
		{"and on int", "x = 1 && true", "operator && requires bools"},
		{"unknown call", "frobnicate()\n", `unknown call "frobnicate"`},
		{"unknown expression function", "x = rebase_path()", `unknown function "rebase_path" in expression`},
		{"target without handler", `static_library("x") {
}
`, `target definitions such as "static_library" are not allowed`},
		{"expand undefined", `x = "$ghost"`, `undefined identifier "ghost" in string expansion`},
		{"expand bare dollar", `x = "100$"`, `"$" in string is not followed by an identifier`},
		{"expand unterminated brace", `x = "${name"`, "unterminated ${ in string"},
		{"expand list", `items = [ 1 ]
x = "$items"`, "list values do not expand into strings"},
		{"member on non scope", "x = 1\ny = x.field", "member access requires a scope, got int"},
		{"missing member", "s = {\n  a = 1\n}\nx = s.b", `scope has no member "b"`},
		{"import without loader", `import("//a.gni")`, "imports are not supported here"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := evalError(t, test.source, EvalOptions{})
			if !strings.Contains(err.Error(), test.wantError) {
				t.Errorf("error %q does not contain %q", err, test.wantError)
			}
		})
	}
}

func TestDeclareArgs(t *testing.T) {
	t.Parallel()

	source := `declare_args() {
  # Whether to build the embedded network stack.
  is_cronet_build = false

  # Parallelism for generated steps.
  max_jobs = 4
}
`

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		scope, declarations := evalSource(t, source, EvalOptions{})
		if len(declarations) != 2 {
			t.Fatalf("got %d declarations, want 2", len(declarations))
		}
		first := declarations[0]
		if first.Name != "is_cronet_build" || !first.Default.Equal(BoolValue(false)) {
			t.Errorf("unexpected first declaration: %+v", first)
		}
		if first.DocComment != "Whether to build the embedded network stack." {
			t.Errorf("doc comment: got %q", first.DocComment)
		}
		if first.Overridden {
			t.Error("default-valued argument should not be marked overridden")
		}
		value, _ := scope.Get("max_jobs")
		if !value.Equal(IntValue(4)) {
			t.Errorf("max_jobs = %s", value.Format())
		}
	})

	t.Run("override applies", func(t *testing.T) {
		t.Parallel()
		scope, declarations := evalSource(t, source, EvalOptions{
			Overrides: map[string]Value{"is_cronet_build": BoolValue(true)},
		})
		value, _ := scope.Get("is_cronet_build")
		if !value.Equal(BoolValue(true)) {
			t.Errorf("is_cronet_build = %s, want true", value.Format())
		}
		if !declarations[0].Overridden {
			t.Error("declaration should be marked overridden")
		}
		if !declarations[0].Default.Equal(BoolValue(false)) {
			t.Error("default must be preserved alongside the override")
		}
	})

	t.Run("override type mismatch", func(t *testing.T) {
		t.Parallel()
		err := evalError(t, source, EvalOptions{
			Overrides: map[string]Value{"max_jobs": StringValue("many")},
		})
		want := `build argument "max_jobs" defaults to 4 (int) but the override is "many" (string)`
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not contain %q", err, want)
		}
	})

	t.Run("duplicate declaration", func(t *testing.T) {
		t.Parallel()
		duplicated := source + `declare_args() {
  is_cronet_build = true
}
`
		err := evalError(t, duplicated, EvalOptions{})
		if !strings.Contains(err.Error(), `build argument "is_cronet_build" declared more than once`) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("declared arguments visible to later files", func(t *testing.T) {
		t.Parallel()
		evaluator := NewEvaluator(EvalOptions{})
		first, err := Parse("first.gn", []byte(source))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if _, err := evaluator.Run(first); err != nil {
			t.Fatalf("Run(first) failed: %v", err)
		}
		second, err := Parse("second.gn", []byte("derived = max_jobs + 1\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		scope, err := evaluator.Run(second)
		if err != nil {
			t.Fatalf("Run(second) failed: %v", err)
		}
		derived, _ := scope.Get("derived")
		if !derived.Equal(IntValue(5)) {
			t.Errorf("derived = %s, want 5", derived.Format())
		}
	})
}

func TestAssert(t *testing.T) {
	t.Parallel()

	t.Run("passing assert is silent", func(t *testing.T) {
		t.Parallel()
		evalSource(t, "assert(true, \"never shown\")\nassert(1 == 1)\n", EvalOptions{})
	})

	t.Run("failing assert carries the message", func(t *testing.T) {
		t.Parallel()
		err := evalError(t, `assert(false, "embedded builds require is_cronet_build")`, EvalOptions{})
		if !strings.Contains(err.Error(), "assertion failed: embedded builds require is_cronet_build") {
			t.Errorf("unexpected error: %v", err)
		}
		var evalErr *Error
		if !errors.As(err, &evalErr) {
			t.Fatalf("error should be a *gn.Error, got %T", err)
		}
		if !evalErr.Assertion {
			t.Error("assert failure should be marked as an assertion")
		}
	})

	t.Run("failing assert without message", func(t *testing.T) {
		t.Parallel()
		err := evalError(t, "assert(false)", EvalOptions{})
		if !strings.Contains(err.Error(), "assertion failed") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestImports(t *testing.T) {
	t.Parallel()

	loader := mapLoader{
		"//shared/base.gni": "shared_value = 1\n_private_helper = 2\n",
		"//shared/also.gni": "import(\"//shared/base.gni\")\nother_value = shared_value + 10\n",
		"//cycle/a.gni":     "import(\"//cycle/b.gni\")\n",
		"//cycle/b.gni":     "import(\"//cycle/a.gni\")\n",
		"args/helpers.gni":  "helper_value = 99\n",
	}

	t.Run("merges public bindings", func(t *testing.T) {
		t.Parallel()
		scope, _ := evalSource(t, "import(\"//shared/base.gni\")\nx = shared_value\n",
			EvalOptions{Loader: loader})
		x, _ := scope.Get("x")
		if !x.Equal(IntValue(1)) {
			t.Errorf("x = %s, want 1", x.Format())
		}
		if _, ok := scope.GetLocal("_private_helper"); ok {
			t.Error("underscore-prefixed names must not be merged")
		}
	})

	t.Run("diamond import tolerated", func(t *testing.T) {
		t.Parallel()
		source := "import(\"//shared/base.gni\")\nimport(\"//shared/also.gni\")\nx = other_value\n"
		scope, _ := evalSource(t, source, EvalOptions{Loader: loader})
		x, _ := scope.Get("x")
		if !x.Equal(IntValue(11)) {
			t.Errorf("x = %s, want 11", x.Format())
		}
	})

	t.Run("conflicting redefinition rejected", func(t *testing.T) {
		t.Parallel()
		source := "shared_value = 2\nimport(\"//shared/base.gni\")\n"
		err := evalError(t, source, EvalOptions{Loader: loader})
		if !strings.Contains(err.Error(), `redefines "shared_value" with a different value`) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("cycle detected", func(t *testing.T) {
		t.Parallel()
		err := evalError(t, "import(\"//cycle/a.gni\")\n", EvalOptions{Loader: loader})
		if !strings.Contains(err.Error(), "import cycle") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("relative import resolves against the importing file", func(t *testing.T) {
		t.Parallel()
		file, err := Parse("args/main.gni", []byte("import(\"helpers.gni\")\nx = helper_value\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		scope, _, err := Evaluate(file, EvalOptions{Loader: loader})
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		x, _ := scope.Get("x")
		if !x.Equal(IntValue(99)) {
			t.Errorf("x = %s, want 99", x.Format())
		}
	})

	t.Run("missing file reported with import path", func(t *testing.T) {
		t.Parallel()
		err := evalError(t, "import(\"//missing.gni\")\n", EvalOptions{Loader: loader})
		if !strings.Contains(err.Error(), `import "//missing.gni"`) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestTargetHandler(t *testing.T) {
	t.Parallel()

	type capturedTarget struct {
		kind string
		name string
		deps Value
	}

	var captured []capturedTarget
	options := EvalOptions{
		TargetHandler: func(kind, name string, call *CallStatement, properties *Scope) error {
			deps, _ := properties.GetLocal("deps")
			captured = append(captured, capturedTarget{kind: kind, name: name, deps: deps})
			if name == "rejected" {
				return errorf(call.NamePos, "duplicate target %q", name)
			}
			return nil
		},
	}

	source := `visibility_default = true
sources = [ "outer.cc" ]

component("net_core") {
  sources = [ "core.cc" ]
  deps = [ ":headers" ]
}

source_set("headers") {
  sources = [ "core.h" ]
}
`
	file, err := Parse("BUILD.gn", []byte(source))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	scope, _, err := Evaluate(file, options)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if len(captured) != 2 {
		t.Fatalf("handler saw %d targets, want 2", len(captured))
	}
	if captured[0].kind != "component" || captured[0].name != "net_core" {
		t.Errorf("first target: %+v", captured[0])
	}
	if !captured[0].deps.Equal(ListValue(StringValue(":headers"))) {
		t.Errorf("first target deps: %s", captured[0].deps.Format())
	}

	// Target property blocks must not leak into the file scope.
	outer, _ := scope.Get("sources")
	if !outer.Equal(ListValue(StringValue("outer.cc"))) {
		t.Errorf("file-scope sources clobbered by target block: %s", outer.Format())
	}

	// Handler errors must abort evaluation.
	_, _, err = Evaluate(mustParse(t, `component("rejected") {
}
`), options)
	if err == nil || !strings.Contains(err.Error(), `duplicate target "rejected"`) {
		t.Errorf("handler error not propagated: %v", err)
	}
}

func mustParse(t *testing.T, source string) *File {
	t.Helper()
	file, err := Parse("test.gn", []byte(source))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return file
}
