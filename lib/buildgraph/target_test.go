// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildgraph

import (
	"slices"
	"strings"
	"testing"

	"github.com/gantry-build/gantry/lib/gn"
)

func TestKinds(t *testing.T) {
	t.Parallel()

	want := []Kind{
		KindComponent,
		KindExecutable,
		KindBindgenGenerator,
		KindStaticLibrary,
		KindSourceSet,
	}
	if got := Kinds(); !slices.Equal(got, want) {
		t.Errorf("Kinds() = %v, want %v", got, want)
	}
}

func TestTargetFieldExtraction(t *testing.T) {
	t.Parallel()

	graph := loadOne(t, smokePath, smokeFragment, LoadOptions{})

	native, _ := graph.Target(smokeLabel("c_lib"))
	if native == nil || native.Kind != KindComponent {
		t.Fatalf("c_lib = %+v, want a component", native)
	}
	if !slices.Equal(native.Sources, []string{"c_lib.c"}) {
		t.Errorf("c_lib sources = %v", native.Sources)
	}
	if !slices.Equal(native.Defines, []string{"C_LIB_IMPLEMENTATION"}) {
		t.Errorf("c_lib defines = %v", native.Defines)
	}

	generator, _ := graph.Target(smokeLabel("c_lib_bindgen"))
	if generator == nil || generator.Kind != KindBindgenGenerator {
		t.Fatalf("c_lib_bindgen = %+v, want a generator", generator)
	}
	if generator.Header != "c_lib.h" {
		t.Errorf("header = %q, want %q", generator.Header, "c_lib.h")
	}
	if !generator.WrapStaticFns {
		t.Error("wrap_static_fns not set")
	}

	library, _ := graph.Target(smokeLabel("c_lib_rs"))
	if library.CrateRoot != "src/lib.rs" {
		t.Errorf("crate_root = %q", library.CrateRoot)
	}
	if !library.AllowUnsafe || !library.BuildNativeRustUnitTests {
		t.Errorf("bool toggles = %v/%v, want true/true",
			library.AllowUnsafe, library.BuildNativeRustUnitTests)
	}
	if library.Pos.Line == 0 {
		t.Error("declaration position not recorded")
	}

	binary, _ := graph.Target(smokeLabel("smoke_test"))
	if binary.Kind != KindExecutable || binary.CrateRoot != "src/main.rs" {
		t.Errorf("smoke_test = %+v", binary)
	}
}

func TestTargetErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			"unknown kind",
			"shared_library(\"x\") {\n  sources = [ \"x.c\" ]\n}\n",
			[]string{
				`unknown target kind "shared_library"`,
				"accepted kinds: component, executable, rust_bindgen_generator, rust_static_library, source_set",
			},
		},
		{
			"unknown field",
			"source_set(\"headers\") {\n  deps = [ \":x\" ]\n}\n",
			[]string{
				`target //lib:headers (source_set) does not accept field "deps"`,
				"accepted fields: sources",
			},
		},
		{
			"unknown field on generator",
			"rust_bindgen_generator(\"gen\") {\n  header = \"a.h\"\n  crate_root = \"lib.rs\"\n}\n",
			[]string{
				`does not accept field "crate_root"`,
				"accepted fields: deps, header, wrap_static_fns",
			},
		},
		{
			"string for list",
			"source_set(\"headers\") {\n  sources = \"a.h\"\n}\n",
			[]string{`field "sources" must be a list of strings, got string`},
		},
		{
			"int in list",
			"source_set(\"headers\") {\n  sources = [ \"a.h\", 7 ]\n}\n",
			[]string{`field "sources" element 1 must be a string, got int`},
		},
		{
			"list for string",
			"executable(\"app\") {\n  crate_root = [ \"main.rs\" ]\n}\n",
			[]string{`field "crate_root" must be a string, got list`},
		},
		{
			"string for bool",
			"rust_bindgen_generator(\"gen\") {\n  header = \"a.h\"\n  wrap_static_fns = \"yes\"\n}\n",
			[]string{`field "wrap_static_fns" must be a bool, got string`},
		},
		{
			"generator without header",
			"rust_bindgen_generator(\"gen\") {\n  wrap_static_fns = true\n}\n",
			[]string{"target //lib:gen must name exactly one header"},
		},
		{
			"bare dep label",
			"component(\"net\") {\n  sources = [ \"net.c\" ]\n  deps = [ \"c_lib\" ]\n}\n",
			[]string{`target //lib:net`, `field "deps"`, `bare label "c_lib"`},
		},
		{
			"empty target name",
			"component(\"\") {\n  sources = [ \"net.c\" ]\n}\n",
			[]string{"name must be a non-empty string"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := loadError(t, "lib/BUILD.gn", test.source, LoadOptions{})
			for _, want := range test.want {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not contain %q", err, want)
				}
			}
		})
	}
}

func TestTargetUnderscoreLocals(t *testing.T) {
	t.Parallel()

	source := `source_set("headers") {
  _all = [ "a.h", "b.h" ]
  sources = _all - [ "b.h" ]
}
`
	graph := loadOne(t, "lib/BUILD.gn", source, LoadOptions{})
	headers, _ := graph.Target(Label{Dir: "lib", Name: "headers"})
	if !slices.Equal(headers.Sources, []string{"a.h"}) {
		t.Errorf("sources = %v, want [a.h]", headers.Sources)
	}
}

func TestTargetConditionalFields(t *testing.T) {
	t.Parallel()

	source := `rust_static_library("net") {
  crate_root = "lib.rs"
  sources = [ "lib.rs" ]
  if (is_cronet_build) {
    sources += [ "cronet.rs" ]
  }
}
`
	for _, cronet := range []bool{true, false} {
		arguments := gn.NewScope(nil)
		arguments.Set("is_cronet_build", gn.BoolValue(cronet))

		graph := loadOne(t, "net/BUILD.gn", source, LoadOptions{Arguments: arguments})
		library, _ := graph.Target(Label{Dir: "net", Name: "net"})

		wantCronet := slices.Contains(library.Sources, "cronet.rs")
		if wantCronet != cronet {
			t.Errorf("is_cronet_build=%v: sources = %v", cronet, library.Sources)
		}
	}
}
