// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package launchplan computes deterministic launch plans for component
// tests. A plan is everything an external runner needs to execute one
// packaged test component: the component URL, the realm to run it in,
// the runner argv, artifact and coverage directory mappings, extra
// environment entries, and the resolved test filter set.
//
// [Compute] is pure: it takes a validated capability manifest plus
// [Options] and returns a [Plan] or an error. It performs no I/O and
// launches nothing, so plans can be generated on one machine, reviewed
// as JSON, and executed on another. The only I/O in the package is
// [LoadFilterFile], which commands use to fold filter files into
// Options before calling Compute.
//
// Capability gates: collecting artifacts requires the manifest to use
// the "custom_artifacts" storage at /custom_artifacts, and collecting
// coverage requires it to use the "debugdata.Publisher" protocol. A
// plan that asks for outputs the component cannot emit is refused
// here rather than failing silently on the target.
package launchplan
