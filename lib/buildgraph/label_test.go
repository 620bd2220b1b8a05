// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildgraph

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestParseLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		fromDir string
		want    Label
	}{
		{"absolute", "//third_party/c_lib:headers", "rust/bindings", Label{Dir: "third_party/c_lib", Name: "headers"}},
		{"absolute short form", "//third_party/c_lib", "", Label{Dir: "third_party/c_lib", Name: "c_lib"}},
		{"absolute single element", "//base", "", Label{Dir: "base", Name: "base"}},
		{"absolute root", "//:smoke_test", "rust", Label{Dir: "", Name: "smoke_test"}},
		{"relative", ":c_lib_bindgen", "rust/bindings", Label{Dir: "rust/bindings", Name: "c_lib_bindgen"}},
		{"relative in root", ":c_lib", "", Label{Dir: "", Name: "c_lib"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLabel(test.text, test.fromDir)
			if err != nil {
				t.Fatalf("ParseLabel(%q, %q) failed: %v", test.text, test.fromDir, err)
			}
			if got != test.want {
				t.Errorf("ParseLabel(%q, %q) = %v, want %v", test.text, test.fromDir, got, test.want)
			}
		})
	}
}

func TestParseLabelErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "empty label"},
		{"bare name", "c_lib", `bare label "c_lib"`},
		{"bare name suggests forms", "c_lib", `":c_lib"`},
		{"empty relative name", ":", "no target name"},
		{"empty absolute name", "//dir:", "no target name"},
		{"root without name", "//", "no target name"},
		{"slash in name", "//dir:a/b", "malformed target name"},
		{"toolchain qualifier", "//base:lib(//build/toolchain:host)", "toolchain-qualified labels are not supported"},
		{"second colon", "//dir:a:b", "malformed target name"},
		{"colon in relative name", ":a:b", "malformed target name"},
		{"trailing slash", "//dir/:name", "malformed directory"},
		{"doubled slash", "//a//b:name", "malformed directory"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseLabel(test.text, "some/dir")
			if err == nil {
				t.Fatalf("ParseLabel(%q) succeeded, want error", test.text)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("ParseLabel(%q) error = %q, want it to contain %q", test.text, err, test.want)
			}
		})
	}
}

func TestLabelString(t *testing.T) {
	t.Parallel()

	if got := (Label{Dir: "rust/bindings", Name: "gen"}).String(); got != "//rust/bindings:gen" {
		t.Errorf("String() = %q, want %q", got, "//rust/bindings:gen")
	}
	if got := (Label{Name: "smoke_test"}).String(); got != "//:smoke_test" {
		t.Errorf("root String() = %q, want %q", got, "//:smoke_test")
	}
}

func TestLabelCompare(t *testing.T) {
	t.Parallel()

	labels := []Label{
		{Dir: "rust", Name: "lib"},
		{Dir: "base", Name: "zz"},
		{Dir: "base", Name: "aa"},
		{Dir: "", Name: "root"},
	}
	slices.SortFunc(labels, Label.Compare)

	want := []Label{
		{Dir: "", Name: "root"},
		{Dir: "base", Name: "aa"},
		{Dir: "base", Name: "zz"},
		{Dir: "rust", Name: "lib"},
	}
	if !slices.Equal(labels, want) {
		t.Errorf("sorted labels = %v, want %v", labels, want)
	}
}

func TestLabelTextRoundTrip(t *testing.T) {
	t.Parallel()

	original := Label{Dir: "third_party/c_lib", Name: "headers"}
	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(encoded) != `"//third_party/c_lib:headers"` {
		t.Errorf("Marshal = %s, want quoted canonical form", encoded)
	}

	var decoded Label
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip = %v, want %v", decoded, original)
	}
}

func TestLabelUnmarshalRejectsRelative(t *testing.T) {
	t.Parallel()

	var label Label
	err := label.UnmarshalText([]byte(":name"))
	if err == nil {
		t.Fatal("UnmarshalText(\":name\") succeeded, want error")
	}
	if !strings.Contains(err.Error(), "not absolute") {
		t.Errorf("error = %q, want it to mention the label is not absolute", err)
	}
}
