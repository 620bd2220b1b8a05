// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildgraph

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/gantry-build/gantry/lib/gn"
	"github.com/gantry-build/gantry/lib/testutil"
)

// smokeFragment wires the cross-language smoke test: a native library,
// its header set, a bindings generator over the header, a Rust static
// library consuming the generated bindings, and an executable linking
// it all.
const smokeFragment = `component("c_lib") {
  sources = [ "c_lib.c" ]
  defines = [ "C_LIB_IMPLEMENTATION" ]
}

source_set("c_lib_headers") {
  sources = [ "c_lib.h" ]
}

rust_bindgen_generator("c_lib_bindgen") {
  header = "c_lib.h"
  deps = [ ":c_lib_headers" ]
  wrap_static_fns = true
}

rust_static_library("c_lib_rs") {
  allow_unsafe = true
  build_native_rust_unit_tests = true
  crate_root = "src/lib.rs"
  sources = [ "src/lib.rs" ]
  deps = [
    ":c_lib",
    ":c_lib_bindgen",
  ]
}

executable("smoke_test") {
  crate_root = "src/main.rs"
  sources = [ "src/main.rs" ]
  deps = [ ":c_lib_rs" ]
}
`

const smokePath = "third_party/rust_smoke/BUILD.gn"

func smokeLabel(name string) Label {
	return Label{Dir: "third_party/rust_smoke", Name: name}
}

func loadOne(t *testing.T, path, source string, options LoadOptions) *Graph {
	t.Helper()
	graph, err := Load([]*Fragment{{Path: path, Source: []byte(source)}}, options)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return graph
}

func loadError(t *testing.T, path, source string, options LoadOptions) error {
	t.Helper()
	_, err := Load([]*Fragment{{Path: path, Source: []byte(source)}}, options)
	if err == nil {
		t.Fatal("expected a load error")
	}
	return err
}

func TestFragmentDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"BUILD.gn", ""},
		{"base/BUILD.gn", "base"},
		{"third_party/rust_smoke/rules.gn", "third_party/rust_smoke"},
	}
	for _, test := range tests {
		fragment := &Fragment{Path: test.path}
		if got := fragment.Dir(); got != test.want {
			t.Errorf("Fragment{Path: %q}.Dir() = %q, want %q", test.path, got, test.want)
		}
	}
}

func TestLoadSmokeFragment(t *testing.T) {
	t.Parallel()

	graph := loadOne(t, smokePath, smokeFragment, LoadOptions{})
	if len(graph.Targets) != 5 {
		t.Fatalf("loaded %d targets, want 5", len(graph.Targets))
	}

	// Declaration order is preserved.
	var order []string
	for _, target := range graph.Targets {
		order = append(order, target.Label.Name)
	}
	wantOrder := []string{"c_lib", "c_lib_headers", "c_lib_bindgen", "c_lib_rs", "smoke_test"}
	if !slices.Equal(order, wantOrder) {
		t.Errorf("declaration order = %v, want %v", order, wantOrder)
	}

	library, ok := graph.Target(smokeLabel("c_lib_rs"))
	if !ok {
		t.Fatal("target //third_party/rust_smoke:c_lib_rs not found")
	}
	if library.Kind != KindStaticLibrary {
		t.Errorf("kind = %q, want %q", library.Kind, KindStaticLibrary)
	}
	if library.Fragment != smokePath {
		t.Errorf("fragment = %q, want %q", library.Fragment, smokePath)
	}
	wantDeps := []Label{smokeLabel("c_lib"), smokeLabel("c_lib_bindgen")}
	if !slices.Equal(library.Deps, wantDeps) {
		t.Errorf("deps = %v, want %v", library.Deps, wantDeps)
	}
}

func TestLoadLabelsSorted(t *testing.T) {
	t.Parallel()

	graph := loadOne(t, smokePath, smokeFragment, LoadOptions{})
	labels := graph.Labels()
	if !slices.IsSortedFunc(labels, Label.Compare) {
		t.Errorf("Labels() not sorted: %v", labels)
	}
	if len(labels) != 5 {
		t.Errorf("Labels() returned %d labels, want 5", len(labels))
	}
}

func TestLoadCrossFragmentDeps(t *testing.T) {
	t.Parallel()

	fragments := []*Fragment{
		{
			Path: "third_party/c_lib/BUILD.gn",
			Source: []byte(`source_set("headers") {
  sources = [ "c_lib.h" ]
}
`),
		},
		{
			Path: "rust/bindings/BUILD.gn",
			Source: []byte(`rust_bindgen_generator("bindings_gen") {
  header = "wrapper.h"
  deps = [ "//third_party/c_lib:headers" ]
}
`),
		},
	}
	graph, err := Load(fragments, LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	generator, ok := graph.Target(Label{Dir: "rust/bindings", Name: "bindings_gen"})
	if !ok {
		t.Fatal("generator target not found")
	}
	want := Label{Dir: "third_party/c_lib", Name: "headers"}
	if !slices.Equal(generator.Deps, []Label{want}) {
		t.Errorf("deps = %v, want [%v]", generator.Deps, want)
	}
}

func TestLoadDuplicateTarget(t *testing.T) {
	t.Parallel()

	fragments := []*Fragment{
		{Path: "base/BUILD.gn", Source: []byte("source_set(\"io\") {\n  sources = [ \"io.h\" ]\n}\n")},
		{Path: "base/rules.gn", Source: []byte("source_set(\"io\") {\n  sources = [ \"io2.h\" ]\n}\n")},
	}
	_, err := Load(fragments, LoadOptions{})
	if err == nil {
		t.Fatal("Load succeeded with duplicate labels")
	}
	message := err.Error()
	for _, want := range []string{"duplicate target //base:io", "base/BUILD.gn:1:1", "base/rules.gn:1:1"} {
		if !strings.Contains(message, want) {
			t.Errorf("error %q does not contain %q", message, want)
		}
	}
}

func TestLoadUnresolvedDeps(t *testing.T) {
	t.Parallel()

	source := `component("net") {
  sources = [ "net.c" ]
  deps = [
    ":missing_one",
    "//elsewhere:missing_two",
  ]
}
`
	err := loadError(t, "net/BUILD.gn", source, LoadOptions{})
	message := err.Error()
	for _, want := range []string{
		"target //net:net depends on undefined target //net:missing_one",
		"target //net:net depends on undefined target //elsewhere:missing_two",
	} {
		if !strings.Contains(message, want) {
			t.Errorf("error %q does not contain %q", message, want)
		}
	}
}

func TestLoadParseErrorNamesFragment(t *testing.T) {
	t.Parallel()

	err := loadError(t, "broken/BUILD.gn", "component(\"x\" {\n}\n", LoadOptions{})
	if !strings.Contains(err.Error(), "broken/BUILD.gn") {
		t.Errorf("error %q does not name the fragment", err)
	}
}

func TestLoadEvalErrorNamesFragment(t *testing.T) {
	t.Parallel()

	source := `component("x") {
  sources = undefined_sources
}
`
	err := loadError(t, "sub/BUILD.gn", source, LoadOptions{})
	message := err.Error()
	if !strings.Contains(message, "sub/BUILD.gn") {
		t.Errorf("error %q does not name the fragment", message)
	}
	if !strings.Contains(message, "undefined_sources") {
		t.Errorf("error %q does not name the identifier", message)
	}
}

func TestLoadArgumentsControlTargets(t *testing.T) {
	t.Parallel()

	source := `component("base") {
  sources = [ "base.c" ]
}

if (enable_smoke) {
  executable("smoke") {
    crate_root = "main.rs"
    sources = [ "main.rs" ]
    deps = [ ":base" ]
  }
}
`
	for _, enabled := range []bool{true, false} {
		arguments := gn.NewScope(nil)
		arguments.Set("enable_smoke", gn.BoolValue(enabled))

		graph := loadOne(t, "app/BUILD.gn", source, LoadOptions{Arguments: arguments})
		_, found := graph.Target(Label{Dir: "app", Name: "smoke"})
		if found != enabled {
			t.Errorf("enable_smoke=%v: smoke target present=%v", enabled, found)
		}
	}
}

func TestLoadImports(t *testing.T) {
	t.Parallel()

	loader := mapLoader{
		"//build/defaults.gni": "default_defines = [ \"NDEBUG\" ]\n",
	}
	source := `import("//build/defaults.gni")

component("core") {
  sources = [ "core.c" ]
  defines = default_defines
}
`
	graph := loadOne(t, "core/BUILD.gn", source, LoadOptions{Loader: loader})
	core, ok := graph.Target(Label{Dir: "core", Name: "core"})
	if !ok {
		t.Fatal("core target not found")
	}
	if !slices.Equal(core.Defines, []string{"NDEBUG"}) {
		t.Errorf("defines = %v, want [NDEBUG]", core.Defines)
	}
}

func TestLoadParallelDeterminism(t *testing.T) {
	t.Parallel()

	var fragments []*Fragment
	for i := 0; i < 16; i++ {
		source := "component(\"lib\") {\n  sources = [ \"lib.c\" ]\n"
		if i > 0 {
			source += fmt.Sprintf("  deps = [ \"//mod%02d:lib\" ]\n", i-1)
		}
		source += "}\n"
		fragments = append(fragments, &Fragment{
			Path:   fmt.Sprintf("mod%02d/BUILD.gn", i),
			Source: []byte(source),
		})
	}

	plans := make([]*Plan, 2)
	for i, parallelism := range []int{1, 8} {
		graph, err := Load(fragments, LoadOptions{Parallelism: parallelism})
		if err != nil {
			t.Fatalf("Load(parallelism=%d) failed: %v", parallelism, err)
		}
		plan, err := graph.Plan()
		if err != nil {
			t.Fatalf("Plan(parallelism=%d) failed: %v", parallelism, err)
		}
		plans[i] = plan
	}

	if !slices.Equal(plans[0].Entries, plans[1].Entries) {
		t.Error("plan entries differ between serial and parallel loads")
	}
	if plans[0].Digest != plans[1].Digest {
		t.Errorf("plan digests differ: %s vs %s", plans[0].Digest.Short(), plans[1].Digest.Short())
	}
}

func TestVetFragmentClean(t *testing.T) {
	t.Parallel()

	fragment := &Fragment{Path: smokePath, Source: []byte(smokeFragment)}
	testutil.RequireNoIssues(t, VetFragment(fragment, LoadOptions{}))
}

func TestVetFragmentReportsSchemaIssue(t *testing.T) {
	t.Parallel()

	source := `source_set("headers") {
  sources = [ "a.h" ]
  linkage = "static"
}
`
	fragment := &Fragment{Path: "core/BUILD.gn", Source: []byte(source)}
	issues := VetFragment(fragment, LoadOptions{})
	if len(issues) != 1 {
		t.Fatalf("VetFragment = %v, want one issue", issues)
	}
	testutil.RequireIssue(t, issues, "headers")
	testutil.RequireIssue(t, issues, "linkage")
}

func TestVetFragmentIgnoresCrossFragmentDeps(t *testing.T) {
	t.Parallel()

	// A dep into another fragment is not resolvable in isolation and
	// must not be an issue here; Load owns that check.
	source := `component("net") {
  sources = [ "net.c" ]
  deps = [ "//elsewhere:lib" ]
}
`
	fragment := &Fragment{Path: "net/BUILD.gn", Source: []byte(source)}
	testutil.RequireNoIssues(t, VetFragment(fragment, LoadOptions{}))
}

func TestReverseDeps(t *testing.T) {
	t.Parallel()

	graph := loadOne(t, smokePath, smokeFragment, LoadOptions{})

	dependents := graph.ReverseDeps(smokeLabel("c_lib_bindgen"))
	if len(dependents) != 1 || dependents[0].Label != smokeLabel("c_lib_rs") {
		t.Errorf("ReverseDeps(c_lib_bindgen) = %v, want [c_lib_rs]", dependents)
	}

	if dependents := graph.ReverseDeps(smokeLabel("smoke_test")); dependents != nil {
		t.Errorf("ReverseDeps(smoke_test) = %v, want nil", dependents)
	}
}

// mapLoader serves imports from a map, keyed by import path.
type mapLoader map[string]string

func (l mapLoader) Load(path string) ([]byte, error) {
	source, ok := l[path]
	if !ok {
		return nil, fmt.Errorf("no such file")
	}
	return []byte(source), nil
}
