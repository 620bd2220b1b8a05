// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/sealed"
	"github.com/gantry-build/gantry/lib/secret"
)

// showParams holds the parameters for credential show.
type showParams struct {
	cli.WorkspaceConfig
	Name     string `flag:"name,n" desc:"credential name in the workspace store"`
	Identity string `flag:"identity,i" desc:"age identity file (default: GANTRY_IDENTITY)"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Decrypt and print a credential",
		Description: `Decrypt a sealed credential and write the plaintext to stdout.

The credential comes from the workspace store (--name) or from an
explicit file path. The identity comes from --identity or the
GANTRY_IDENTITY environment variable; the decrypted secret passes
through locked memory only, so pipe the output rather than saving
it.`,
		Usage: "gantry credential show (--name <name> | <file>) [flags]",
		Examples: []cli.Example{
			{
				Description: "Feed a token to another tool",
				Command:     "gantry credential show --name ci-upload-token | upload-tool --token-stdin",
			},
			{
				Description: "Open a sealed file directly",
				Command:     "gantry credential show .gantry/credentials/cache-key.age --identity identity.txt",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			var path string
			switch {
			case params.Name != "" && len(args) > 0:
				return fmt.Errorf("pass --name or a file path, not both")
			case params.Name != "":
				cfg, err := params.WorkspaceConfig.Require()
				if err != nil {
					return err
				}
				path = filepath.Join(cfg.Resolve(cfg.Credential.Store), params.Name+".age")
			case len(args) == 1:
				path = args[0]
			default:
				return fmt.Errorf("a credential is required: --name <name> or a file path")
			}

			identityPath := params.Identity
			if identityPath == "" {
				identityPath = os.Getenv("GANTRY_IDENTITY")
			}
			if identityPath == "" {
				return fmt.Errorf("an identity is required: --identity or GANTRY_IDENTITY")
			}
			privateKey, err := readIdentity(identityPath)
			if err != nil {
				return err
			}
			defer privateKey.Close()

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			plaintext, err := sealed.Decrypt(strings.TrimSpace(string(data)), privateKey)
			if err != nil {
				return fmt.Errorf("decrypting %s: %w", path, err)
			}
			defer plaintext.Close()

			_, err = os.Stdout.Write(plaintext.Bytes())
			return err
		},
	}
}

// readIdentity extracts the private key from an age identity file:
// the first AGE-SECRET-KEY line, comments and blanks skipped. The key
// moves into locked memory and the raw file content is zeroed.
func readIdentity(path string) (*secret.Buffer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(raw)

	for _, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if !bytes.HasPrefix(line, []byte("AGE-SECRET-KEY-1")) {
			continue
		}
		privateKey, err := secret.NewFromBytes(line)
		if err != nil {
			return nil, err
		}
		if err := sealed.ParsePrivateKey(privateKey); err != nil {
			privateKey.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return privateKey, nil
	}
	return nil, fmt.Errorf("no AGE-SECRET-KEY line in %s", path)
}
