package message

import (
	"testing"

	"github.com/btcsuite/btcd/btcec"
	"github.com/mosaic-bft/ledgerd/crypto"
)

// fakeSigner adapts a raw secp256k1 key to the Signer contract for tests;
// the real implementation lives in the peers package, next to the Peer
// Directory that owns the node's key material.
type fakeSigner struct {
	priv *btcec.PrivateKey
}

func (s *fakeSigner) PublicKeyHex() string {
	return PublicKeyHex(s.priv.PubKey())
}

func (s *fakeSigner) Sign(hash []byte) ([]byte, error) {
	return crypto.Sign(s.priv, hash)
}

func TestSignAndVerify(t *testing.T) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	signer := &fakeSigner{priv: priv}
	codec := NewCodec(signer)

	hash := crypto.SHA256([]byte("proposal-123"))

	confirm, err := codec.Sign(hash)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if !Verify(confirm) {
		t.Fatalf("expected signed confirmation to verify")
	}

	tampered := confirm
	tampered.Hash = append([]byte{}, confirm.Hash...)
	tampered.Hash[0] ^= 0x01
	if Verify(tampered) {
		t.Fatalf("expected verification to fail after tampering with hash")
	}

	tamperedSig := confirm
	tamperedSig.Signature.Bytes = append([]byte{}, confirm.Signature.Bytes...)
	tamperedSig.Signature.Bytes[len(tamperedSig.Signature.Bytes)-1] ^= 0x01
	if Verify(tamperedSig) {
		t.Fatalf("expected verification to fail after tampering with signature")
	}
}
