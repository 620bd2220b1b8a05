// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildargs

import (
	"strings"
	"testing"

	"github.com/gantry-build/gantry/lib/gn"
)

// cronetDeclarations mirrors the shipped declaration files: the two
// embedding flags plus the assert tying them together.
const cronetDeclarations = `declare_args() {
  # Whether the checkout builds the embedded network stack instead of
  # the full browser.
  is_cronet_build = false
}

declare_args() {
  # Whether the embedded network stack is being built inside the
  # Android platform tree rather than as a standalone library.
  is_cronet_for_aosp_build = false
}

assert(!is_cronet_for_aosp_build || is_cronet_build,
       "is_cronet_for_aosp_build requires is_cronet_build")
`

// cronetDeclarationsBare is the same without the assert, exercising
// the implication table backstop.
const cronetDeclarationsBare = `declare_args() {
  # Whether the checkout builds the embedded network stack instead of
  # the full browser.
  is_cronet_build = false

  # Whether the embedded network stack is being built inside the
  # Android platform tree rather than as a standalone library.
  is_cronet_for_aosp_build = false
}
`

func declarationFiles(source string) []NamedSource {
	return []NamedSource{{Name: "build/config/cronet/config.gni", Source: []byte(source)}}
}

func TestEvaluateDefaults(t *testing.T) {
	t.Parallel()

	set, err := Evaluate(declarationFiles(cronetDeclarations), Options{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if len(set.Declarations) != 2 {
		t.Fatalf("got %d declarations, want 2", len(set.Declarations))
	}

	value, ok := set.Value("is_cronet_build")
	if !ok || value.Kind != gn.ValueBool || value.Bool {
		t.Errorf("is_cronet_build = %v, want false", value)
	}

	declaration, ok := set.Declaration("is_cronet_build")
	if !ok {
		t.Fatal("is_cronet_build not declared")
	}
	if declaration.Overridden {
		t.Error("default-valued argument marked overridden")
	}
	if !strings.Contains(declaration.DocComment, "embedded network stack") {
		t.Errorf("doc comment not captured: %q", declaration.DocComment)
	}
}

func TestEvaluateLaterFilesSeeEarlierArguments(t *testing.T) {
	t.Parallel()

	files := []NamedSource{
		{Name: "build/config/base.gni", Source: []byte(
			"declare_args() {\n  # Parallelism for generated steps.\n  max_jobs = 4\n}\n")},
		{Name: "build/config/derived.gni", Source: []byte(
			"declare_args() {\n  # Twice the base parallelism.\n  max_workers = max_jobs + max_jobs\n}\n")},
	}

	set, err := Evaluate(files, Options{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	value, _ := set.Value("max_workers")
	if value.Int != 8 {
		t.Errorf("max_workers = %s, want 8", value.Format())
	}
}

func TestOverridesFileApplies(t *testing.T) {
	t.Parallel()

	set, err := Evaluate(declarationFiles(cronetDeclarations), Options{
		Overrides: []byte("is_cronet_build = true\n"),
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	value, _ := set.Value("is_cronet_build")
	if !value.Bool {
		t.Error("override did not apply")
	}

	declaration, _ := set.Declaration("is_cronet_build")
	if !declaration.Overridden {
		t.Error("declaration not marked overridden")
	}
	if declaration.Default.Bool {
		t.Error("default lost after override")
	}
}

func TestSetLiteralWinsOverOverridesFile(t *testing.T) {
	t.Parallel()

	files := []NamedSource{{Name: "args.gni", Source: []byte(
		"declare_args() {\n  # Parallelism for generated steps.\n  max_jobs = 4\n}\n")}}

	set, err := Evaluate(files, Options{
		Overrides: []byte("max_jobs = 8\n"),
		Sets:      []string{"max_jobs=16"},
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	value, _ := set.Value("max_jobs")
	if value.Int != 16 {
		t.Errorf("max_jobs = %s, want 16 (--set must win)", value.Format())
	}
}

func TestSetLiteralValues(t *testing.T) {
	t.Parallel()

	files := []NamedSource{{Name: "args.gni", Source: []byte(`declare_args() {
  # Where the goma client lives.
  goma_dir = ""

  # Extra configs applied to every target.
  extra_configs = []
}
`)}}

	set, err := Evaluate(files, Options{
		Sets: []string{
			`goma_dir="/opt/goma"`,
			`extra_configs=[ "//build:lto" ]`,
		},
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	dir, _ := set.Value("goma_dir")
	if dir.Str != "/opt/goma" {
		t.Errorf("goma_dir = %q", dir.Str)
	}
	configs, _ := set.Value("extra_configs")
	if !configs.Equal(gn.ListValue(gn.StringValue("//build:lto"))) {
		t.Errorf("extra_configs = %s", configs.Format())
	}
}

func TestSetLiteralErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		literal   string
		wantError string
	}{
		{"missing equals", "max_jobs", "--set requires name=value"},
		{"empty value", "max_jobs=", "--set requires name=value"},
		{"empty name", "=4", "--set requires name=value"},
		{"bad expression", "max_jobs==4", "expected expression"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := Evaluate(declarationFiles(cronetDeclarations), Options{
				Sets: []string{test.literal},
			})
			if err == nil || !strings.Contains(err.Error(), test.wantError) {
				t.Errorf("got %v, want %q", err, test.wantError)
			}
		})
	}
}

func TestUnknownOverrideRejected(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(declarationFiles(cronetDeclarations), Options{
		Overrides: []byte("is_cronet_biuld = true\n"),
	})
	if err == nil {
		t.Fatal("override of an undeclared argument must fail")
	}
	if !strings.Contains(err.Error(), `unknown build argument "is_cronet_biuld" in args.gn`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMultipleUnknownOverridesAllReported(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(declarationFiles(cronetDeclarations), Options{
		Overrides:     []byte("first_typo = 1\nsecond_typo = 2\n"),
		OverridesName: "out/debug/args.gn",
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	message := err.Error()
	for _, name := range []string{"first_typo", "second_typo", "out/debug/args.gn"} {
		if !strings.Contains(message, name) {
			t.Errorf("error does not mention %s: %v", name, err)
		}
	}
}

func TestOverrideTypeMismatchRejected(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(declarationFiles(cronetDeclarations), Options{
		Sets: []string{"is_cronet_build=1"},
	})
	if err == nil || !strings.Contains(err.Error(), "defaults to false (bool) but the override is 1 (int)") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCronetFlagPair(t *testing.T) {
	t.Parallel()

	// Every assignment of the two flags, against both the assert-based
	// declarations and the bare ones backstopped by the implication
	// table. The only failing combination is aosp without cronet.
	tests := []struct {
		cronet bool
		aosp   bool
		wantOK bool
	}{
		{cronet: false, aosp: false, wantOK: true},
		{cronet: true, aosp: false, wantOK: true},
		{cronet: true, aosp: true, wantOK: true},
		{cronet: false, aosp: true, wantOK: false},
	}

	sources := map[string]string{
		"assert":      cronetDeclarations,
		"implication": cronetDeclarationsBare,
	}

	for sourceName, source := range sources {
		for _, test := range tests {
			name := sourceName
			if test.cronet {
				name += "/cronet"
			} else {
				name += "/no_cronet"
			}
			if test.aosp {
				name += "_aosp"
			}

			t.Run(name, func(t *testing.T) {
				t.Parallel()
				var overrides []string
				if test.cronet {
					overrides = append(overrides, "is_cronet_build=true")
				}
				if test.aosp {
					overrides = append(overrides, "is_cronet_for_aosp_build=true")
				}

				_, err := Evaluate(declarationFiles(source), Options{Sets: overrides})
				if test.wantOK && err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if !test.wantOK {
					if err == nil {
						t.Fatal("aosp build without cronet build must fail")
					}
					message := err.Error()
					if !strings.Contains(message, "is_cronet_for_aosp_build") ||
						!strings.Contains(message, "is_cronet_build") {
						t.Errorf("failure does not name both flags: %v", err)
					}
				}
			})
		}
	}
}

func TestImplicationTableMessage(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(declarationFiles(cronetDeclarationsBare), Options{
		Sets: []string{"is_cronet_for_aosp_build=true"},
	})
	if err == nil {
		t.Fatal("expected a constraint violation")
	}
	want := "build argument constraint violated: is_cronet_for_aosp_build=true requires is_cronet_build=true"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err, want)
	}
}

func TestDocs(t *testing.T) {
	t.Parallel()

	set, err := Evaluate(declarationFiles(cronetDeclarations), Options{
		Sets: []string{"is_cronet_build=true"},
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	docs := set.Docs()
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}

	first := docs[0]
	if first.Name != "is_cronet_build" || first.Type != "bool" || first.Default != "false" {
		t.Errorf("unexpected first doc: %+v", first)
	}
	if !first.Overridden || first.Current != "true" {
		t.Errorf("override not reflected: %+v", first)
	}
	if first.File != "build/config/cronet/config.gni" || first.Line == 0 {
		t.Errorf("declaration position not recorded: %s:%d", first.File, first.Line)
	}

	markdown := RenderMarkdown(docs)
	for _, fragment := range []string{
		"# Build arguments",
		"## `is_cronet_build`",
		"**Default**: `false`",
		"Currently overridden to `true`.",
		"embedded network stack",
	} {
		if !strings.Contains(markdown, fragment) {
			t.Errorf("markdown missing %q:\n%s", fragment, markdown)
		}
	}
}
