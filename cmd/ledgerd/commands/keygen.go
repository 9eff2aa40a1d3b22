package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mosaic-bft/ledgerd/crypto"
)

var keygenDataDir string

// NewKeygenCmd produces the keygen command, which creates and persists
// a fresh secp256k1 identity key under datadir/priv_key.pem.
func NewKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a new identity key pair",
		RunE:  keygen,
	}

	cmd.Flags().StringVar(&keygenDataDir, "datadir", config.DataDir, "Directory where the key will be written")

	return cmd
}

func keygen(cmd *cobra.Command, args []string) error {
	pemKey := crypto.NewPemKey(keygenDataDir)

	if existing, err := pemKey.ReadKey(); err == nil && existing != nil {
		return fmt.Errorf("a key already lives under: %s", keygenDataDir)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("generating key: %s", err)
	}

	if err := os.MkdirAll(keygenDataDir, 0700); err != nil {
		return fmt.Errorf("creating datadir: %s", err)
	}

	if err := pemKey.WriteKey(key); err != nil {
		return fmt.Errorf("writing private key: %s", err)
	}

	fmt.Printf("PublicKey: 0x%X\n", crypto.FromPublicKey(key.PubKey()))
	fmt.Printf("Private key saved to: %s\n", keygenDataDir)

	return nil
}
