// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"github.com/gantry-build/gantry/cmd/gantry/cli"
)

// Command returns the "credential" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "credential",
		Summary: "Sealed credential storage",
		Description: `Store workflow credentials — remote-cache keys, result-upload
tokens — sealed to age X25519 recipients.

Sealed files are safe to commit: only the holders of a matching
identity can open them. Recipients come from workspace configuration
(credential.recipients), identities from GANTRY_IDENTITY or a flag,
and plaintext only ever lives in locked memory.`,
		Subcommands: []*cli.Command{
			keygenCommand(),
			sealCommand(),
			showCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Generate an operator identity",
				Command:     "gantry credential keygen --out ~/.config/gantry/identity.txt",
			},
			{
				Description: "Seal a token from stdin",
				Command:     "gantry credential seal --name ci-upload-token",
			},
			{
				Description: "Print a sealed credential",
				Command:     "gantry credential show --name ci-upload-token --identity ~/.config/gantry/identity.txt",
			},
		},
	}
}
