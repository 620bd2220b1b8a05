// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"fmt"
	"os"
	"time"

	"github.com/gantry-build/gantry/cmd/gantry/cli"
	"github.com/gantry-build/gantry/lib/sealed"
)

// keygenParams holds the parameters for credential keygen.
type keygenParams struct {
	Out string `flag:"out,o" desc:"identity file to write 0600 (default: print the identity to stdout)"`
}

func keygenCommand() *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age identity",
		Description: `Generate a fresh age X25519 keypair.

With --out the identity file is written with mode 0600 and only the
public key prints to stdout; without it the whole identity block
prints to stdout for redirection. Keep identity files outside the
checkout — the public key is what goes into credential.recipients.`,
		Usage: "gantry credential keygen [flags]",
		Examples: []cli.Example{
			{
				Description: "Write an identity file and capture the public key",
				Command:     "gantry credential keygen --out ~/.config/gantry/identity.txt",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return err
			}
			defer keypair.Close()

			identity := fmt.Sprintf("# created: %s\n# public key: %s\n%s\n",
				time.Now().UTC().Format(time.RFC3339), keypair.PublicKey, keypair.PrivateKey.String())

			if params.Out == "" {
				fmt.Print(identity)
				return nil
			}
			if err := os.WriteFile(params.Out, []byte(identity), 0o600); err != nil {
				return err
			}
			fmt.Println(keypair.PublicKey)
			fmt.Fprintf(os.Stderr, "identity written to %s; add the public key to credential.recipients in gantry.yaml\n", params.Out)
			return nil
		},
	}
}
