// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential implements the "gantry credential" command group:
// age-sealed credential storage for toolchain workflows. Secrets are
// sealed to the workspace's configured recipients and decrypted only
// into locked memory, never onto the heap or into the checkout.
package credential
