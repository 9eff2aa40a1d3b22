package message

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec"
	"github.com/mosaic-bft/ledgerd/crypto"
)

// Signer is the injected collaborator that owns a node's private key
// material. The codec holds no key state of its own; it only calls
// through this contract.
type Signer interface {
	PublicKeyHex() string
	Sign(hash []byte) ([]byte, error)
}

// Codec bundles the canonical encoding operations of §4.1 with a Signer,
// producing and checking RecieverConfirmations.
type Codec struct {
	signer Signer
}

// NewCodec constructs a Codec bound to a node's key material.
func NewCodec(signer Signer) *Codec {
	return &Codec{signer: signer}
}

// Sign produces a RecieverConfirmation over hash using the codec's signer.
func (c *Codec) Sign(hash []byte) (RecieverConfirmation, error) {
	sig, err := c.signer.Sign(hash)
	if err != nil {
		return RecieverConfirmation{}, err
	}

	return RecieverConfirmation{
		Hash: hash,
		Signature: Signature{
			PublicKeyHex: c.signer.PublicKeyHex(),
			Bytes:        sig,
		},
	}, nil
}

// Verify reports whether confirm's signature verifies its embedded hash
// under its embedded public key. It is a free function, not a Codec
// method, because verifying a peer's confirmation never requires this
// node's own key material.
func Verify(confirm RecieverConfirmation) bool {
	pubBytes, err := hex.DecodeString(trimHexPrefix(confirm.Signature.PublicKeyHex))
	if err != nil {
		return false
	}

	pub, err := crypto.ToPublicKey(pubBytes)
	if err != nil {
		return false
	}

	return crypto.Verify(pub, confirm.Hash, confirm.Signature.Bytes)
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		return s[2:]
	}
	return s
}

// PublicKeyHex formats a public key the way PeerEntry/Signature fields
// store it: "0x" followed by the compressed-point hex encoding.
func PublicKeyHex(pub *btcec.PublicKey) string {
	return fmt.Sprintf("0x%X", crypto.FromPublicKey(pub))
}
