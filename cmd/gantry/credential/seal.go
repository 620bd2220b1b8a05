// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/sealed"
	"github.com/gantry-build/gantry/lib/secret"
)

// sealParams holds the parameters for credential seal.
type sealParams struct {
	cli.WorkspaceConfig
	Name       string   `flag:"name,n" desc:"credential name, becomes <store>/<name>.age"`
	In         string   `flag:"in" desc:"plaintext file (default: stdin)"`
	Recipients []string `flag:"recipient,r" desc:"additional age recipient (repeatable)"`
}

func sealCommand() *cli.Command {
	var params sealParams

	return &cli.Command{
		Name:    "seal",
		Summary: "Seal a credential into the store",
		Description: `Encrypt a secret to the workspace recipients and write it into the
credential store.

Recipients are credential.recipients from the workspace configuration
plus any --recipient flags; sealing to nobody is refused. The
plaintext comes from stdin or --in, is trimmed of surrounding
whitespace, and passes through locked memory only.`,
		Usage: "gantry credential seal --name <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Seal a token from stdin",
				Command:     "gantry credential seal --name ci-upload-token",
			},
			{
				Description: "Seal a key file, adding an escrow recipient",
				Command:     "gantry credential seal --name cache-key --in key.txt --recipient age1escrow...",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if params.Name == "" {
				return fmt.Errorf("--name is required")
			}
			if strings.ContainsAny(params.Name, `/\`) {
				return fmt.Errorf("credential name %q must not contain path separators", params.Name)
			}
			cfg, err := params.WorkspaceConfig.Require()
			if err != nil {
				return err
			}

			recipients := append([]string{}, cfg.Credential.Recipients...)
			recipients = append(recipients, params.Recipients...)
			if len(recipients) == 0 {
				return fmt.Errorf("no recipients: set credential.recipients in gantry.yaml or pass --recipient")
			}
			for _, recipient := range recipients {
				if err := sealed.ParsePublicKey(recipient); err != nil {
					return fmt.Errorf("recipient %q: %w", recipient, err)
				}
			}

			source := params.In
			if source == "" {
				source = "-"
			}
			plaintext, err := secret.ReadFromPath(source)
			if err != nil {
				return err
			}
			defer plaintext.Close()

			ciphertext, err := sealed.Encrypt(plaintext.Bytes(), recipients)
			if err != nil {
				return err
			}

			store := cfg.Resolve(cfg.Credential.Store)
			if err := os.MkdirAll(store, 0o700); err != nil {
				return err
			}
			path := filepath.Join(store, params.Name+".age")
			if err := os.WriteFile(path, []byte(ciphertext+"\n"), 0o600); err != nil {
				return err
			}
			fmt.Printf("sealed %s to %d recipients\n", path, len(recipients))
			return nil
		},
	}
}
