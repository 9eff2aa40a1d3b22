/*
Copyright 2017 Mosaic Networks Ltd

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package crypto

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec"
)

// SHA256 returns the SHA-256 digest of hashBytes.
func SHA256(hashBytes []byte) []byte {
	hasher := sha256.New()
	hasher.Write(hashBytes)
	return hasher.Sum(nil)
}

// GenerateKey produces a new secp256k1 private key.
func GenerateKey() (*btcec.PrivateKey, error) {
	return btcec.NewPrivateKey(btcec.S256())
}

// FromPublicKey serializes a public key in compressed form.
func FromPublicKey(pub *btcec.PublicKey) []byte {
	if pub == nil {
		return nil
	}
	return pub.SerializeCompressed()
}

// ToPublicKey parses a compressed or uncompressed public key.
func ToPublicKey(b []byte) (*btcec.PublicKey, error) {
	return btcec.ParsePubKey(b, btcec.S256())
}

// Sign produces a DER-encoded signature over hash.
func Sign(priv *btcec.PrivateKey, hash []byte) ([]byte, error) {
	sig, err := priv.Sign(hash)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// Verify reports whether sigBytes is a valid signature over hash under pub.
func Verify(pub *btcec.PublicKey, hash []byte, sigBytes []byte) bool {
	sig, err := btcec.ParseSignature(sigBytes, btcec.S256())
	if err != nil {
		return false
	}
	return sig.Verify(hash, pub)
}
