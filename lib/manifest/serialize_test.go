// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"reflect"
	"slices"
	"strings"
	"testing"
)

// untidySource spells defaults, orders keys freely, leans on comments
// and trailing commas, and declares children out of name order. Its
// canonical form is fixed by TestSerializeCanonical.
const untidySource = `{
	// Shard wiring; store must come up before the agent.
	"use": [
		{
			"rights": [ "r*", "traverse" ],
			"directory": "blob-cache",
			"path": "/cache",
			"from": "#store",
			"availability": "optional",
		},
		{ "protocol": "gantry.log.Sink", "from": "parent" },
		{ "storage": "tmp", "path": "/tmp", "availability": "required" },
	],
	"children": [
		{ "name": "store", "url": "gantry-pkg://core/store#meta/store.gantry" },
		{ "name": "agent", "url": "#agent" },
	],
	"program": {
		"runner": "elf_test_runner",
		"binary": "bin/shard",
	},
}`

const canonicalForm = `{
  "program": {
    "binary": "bin/shard",
    "runner": "elf_test_runner"
  },
  "children": [
    {
      "name": "agent",
      "url": "#agent"
    },
    {
      "name": "store",
      "url": "gantry-pkg://core/store#meta/store.gantry"
    }
  ],
  "use": [
    {
      "directory": "blob-cache",
      "path": "/cache",
      "rights": [
        "r*",
        "traverse"
      ],
      "from": "#store",
      "availability": "optional"
    },
    {
      "protocol": "gantry.log.Sink"
    },
    {
      "storage": "tmp",
      "path": "/tmp"
    }
  ]
}
`

func TestSerializeCanonical(t *testing.T) {
	t.Parallel()

	document := parseManifest(t, untidySource)
	serialized, err := document.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(serialized) != canonicalForm {
		t.Errorf("canonical form mismatch:\ngot:\n%s\nwant:\n%s", serialized, canonicalForm)
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	t.Parallel()

	document := parseManifest(t, untidySource)
	serialized, err := document.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// Reparsing canonical output loses nothing: omitted defaults
	// rematerialize, sorted children stay sorted.
	reparsed := parseManifest(t, string(serialized))
	document.Children = sortedChildren(document)
	if !reflect.DeepEqual(reparsed, document) {
		t.Errorf("round trip changed the document:\ngot  %#v\nwant %#v", reparsed, document)
	}
}

func TestSerializeIdempotent(t *testing.T) {
	t.Parallel()

	first, err := parseManifest(t, untidySource).Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	second, err := parseManifest(t, string(first)).Serialize()
	if err != nil {
		t.Fatalf("Serialize canonical form: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("serialization is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestSerializeProtocolNameList(t *testing.T) {
	t.Parallel()

	document := parseManifest(t, `{
		"use": [ { "protocol": [ "gantry.log.Sink", "gantry.metrics.Recorder" ] } ]
	}`)
	serialized, err := document.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := `{
  "use": [
    {
      "protocol": [
        "gantry.log.Sink",
        "gantry.metrics.Recorder"
      ]
    }
  ]
}
`
	if string(serialized) != want {
		t.Errorf("protocol list form mismatch:\ngot:\n%s\nwant:\n%s", serialized, want)
	}
}

func TestSerializeEmptyDocument(t *testing.T) {
	t.Parallel()

	serialized, err := (&Document{}).Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(serialized) != "{}\n" {
		t.Errorf("empty document serialized to %q, want %q", serialized, "{}\n")
	}
}

func sortedChildren(d *Document) []Child {
	clone := slices.Clone(d.Children)
	slices.SortFunc(clone, func(a, b Child) int {
		return strings.Compare(a.Name, b.Name)
	})
	return clone
}
