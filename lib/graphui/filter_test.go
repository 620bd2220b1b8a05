// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package graphui

import (
	"testing"

	"github.com/gantry-build/gantry/lib/buildgraph"
)

/// testGraph loads a small cross-language fragment: a native library
// with headers, a bindings generator, a Rust static library, and an
// executable.
func testGraph(t *testing.T) *buildgraph.Graph {
	t.Helper()
	const fragment = `component("audio") {
  sources = [ "audio.c" ]
}

source_set("audio_headers") {
  sources = [ "audio.h" ]
}

rust_bindgen_generator("audio_bindgen") {
  header = "audio.h"
  deps = [ ":audio_headers" ]
}

rust_static_library("audio_rs") {
  crate_root = "src/lib.rs"
  sources = [ "src/lib.rs" ]
  deps = [
    ":audio",
    ":audio_bindgen",
  ]
}

executable("audio_player") {
  crate_root = "src/main.rs"
  sources = [ "src/main.rs" ]
  deps = [ ":audio_rs" ]
}
`
	graph, err := buildgraph.Load([]*buildgraph.Fragment{
		{Path: "media/audio/BUILD.gn", Source: []byte(fragment)},
	}, buildgraph.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return graph
}

func TestFilterApplyEmpty(t *testing.T) {
	graph := testGraph(t)

	filter := FilterModel{Input: ""}
	results := filter.Apply(graph.Targets)

	if len(results) != len(graph.Targets) {
		t.Errorf("empty filter should return all %d targets, got %d",
			len(graph.Targets), len(results))
	}
	for _, result := range results {
		if result.Score != 0 {
			t.Errorf("target %s should have zero score with empty filter, got %d",
				result.Target.Label, result.Score)
		}
		if len(result.LabelPositions) != 0 {
			t.Errorf("target %s should have no positions with empty filter",
				result.Target.Label)
		}
	}
}

func TestFilterApplyMatchesLabel(t *testing.T) {
	graph := testGraph(t)

	filter := FilterModel{Input: "bindgen"}
	results := filter.Apply(graph.Targets)

	found := false
	for _, result := range results {
		if result.Target.Label.Name == "audio_bindgen" {
			found = true
			if result.Score <= 0 {
				t.Error("expected positive score for matching target")
			}
			if len(result.LabelPositions) == 0 {
				t.Error("expected label positions for a label match")
			}
		}
	}
	if !found {
		t.Error("audio_bindgen should appear in results for 'bindgen'")
	}
}

func TestFilterApplyExcludesNonMatches(t *testing.T) {
	graph := testGraph(t)

	filter := FilterModel{Input: "player"}
	results := filter.Apply(graph.Targets)

	for _, result := range results {
		if result.Target.Label.Name == "audio_headers" {
			t.Error("audio_headers should not match 'player'")
		}
	}
	if len(results) == 0 {
		t.Fatal("audio_player should match 'player'")
	}
}

func TestFilterApplyMatchesKind(t *testing.T) {
	graph := testGraph(t)

	// "executable" matches no label in the test graph, but it is the
	// kind of audio_player.
	filter := FilterModel{Input: "executable"}
	results := filter.Apply(graph.Targets)

	found := false
	for _, result := range results {
		if result.Target.Label.Name == "audio_player" {
			found = true
			if len(result.LabelPositions) != 0 {
				t.Error("kind match should not carry label positions")
			}
		}
	}
	if !found {
		t.Error("audio_player should match via its kind 'executable'")
	}
}

func TestFilterApplySortedByScore(t *testing.T) {
	graph := testGraph(t)

	// "audio_rs" is an exact label suffix; scattered matches in longer
	// labels score below it.
	filter := FilterModel{Input: "audio_rs"}
	results := filter.Apply(graph.Targets)

	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].Target.Label.Name != "audio_rs" {
		t.Errorf("expected audio_rs first (best score), got %s", results[0].Target.Label)
	}
	for index := 1; index < len(results); index++ {
		if results[index].Score > results[index-1].Score {
			t.Errorf("results not sorted by descending score at %d", index)
		}
	}
}

func TestFilterHandleRuneAndBackspace(t *testing.T) {
	var filter FilterModel

	filter.HandleRune('a')
	filter.HandleRune('b')
	if filter.Input != "ab" {
		t.Errorf("expected input 'ab', got %q", filter.Input)
	}

	if !filter.HandleBackspace() {
		t.Error("backspace on non-empty input should report a change")
	}
	if filter.Input != "a" {
		t.Errorf("expected input 'a' after backspace, got %q", filter.Input)
	}

	filter.HandleBackspace()
	if filter.HandleBackspace() {
		t.Error("backspace on empty input should report no change")
	}
}

func TestFilterClear(t *testing.T) {
	filter := FilterModel{Input: "query", Active: true}
	filter.Clear()
	if filter.Input != "" || filter.Active {
		t.Errorf("Clear should reset input and active, got %+v", filter)
	}
}
