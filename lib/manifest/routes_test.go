// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"reflect"
	"testing"
)

func TestRoutes(t *testing.T) {
	t.Parallel()

	document := parseManifest(t, `{
		"children": [ { "name": "store", "url": "#store" } ],
		"use": [
			{ "protocol": [ "gantry.log.Sink", "gantry.metrics.Recorder" ] },
			{ "directory": "blob-cache", "path": "/cache", "rights": [ "r*" ], "from": "#store" },
			{ "protocol": "gantry.trace.Sink", "from": "#tracer", "availability": "optional" },
			{ "storage": "tmp", "path": "/tmp" }
		]
	}`)

	want := []Route{
		{Capability: "gantry.log.Sink", Kind: KindProtocol, Provider: "parent"},
		{Capability: "gantry.metrics.Recorder", Kind: KindProtocol, Provider: "parent"},
		{Capability: "blob-cache", Kind: KindDirectory, Path: "/cache", Provider: "#store"},
		{Capability: "gantry.trace.Sink", Kind: KindProtocol, Provider: "unresolved (optional)"},
		{Capability: "tmp", Kind: KindStorage, Path: "/tmp", Provider: "parent"},
	}
	if got := document.Routes(); !reflect.DeepEqual(got, want) {
		t.Errorf("routes mismatch:\ngot  %#v\nwant %#v", got, want)
	}
}

func TestRoutesUndeclaredRequiredProvider(t *testing.T) {
	t.Parallel()

	document := parseManifest(t, `{
		"use": [ { "protocol": "gantry.log.Sink", "from": "#ghost" } ]
	}`)
	routes := document.Routes()
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}
	if routes[0].Provider != "#ghost (undeclared)" {
		t.Errorf("provider = %q, want %q", routes[0].Provider, "#ghost (undeclared)")
	}
}

func TestRoutesEmpty(t *testing.T) {
	t.Parallel()

	if routes := (&Document{}).Routes(); routes != nil {
		t.Errorf("routes of empty document = %v, want nil", routes)
	}
}
