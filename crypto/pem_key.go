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
	"encoding/pem"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/btcsuite/btcd/btcec"
)

const (
	pemKeyPath = "priv_key.pem"
	pemBlockType = "BTCEC PRIVATE KEY"
)

// PemKey persists a node's secp256k1 identity key to a PEM file on disk.
// btcec keys don't carry an ASN.1 OID that crypto/x509 recognizes, so the
// block wraps the raw 32-byte scalar rather than an x509 structure.
type PemKey struct {
	l    sync.Mutex
	path string
}

func NewPemKey(base string) *PemKey {
	path := filepath.Join(base, pemKeyPath)
	pemKey := &PemKey{
		path: path,
	}
	return pemKey
}

func (k *PemKey) ReadKey() (*btcec.PrivateKey, error) {
	k.l.Lock()
	defer k.l.Unlock()

	// Read the file
	buf, err := ioutil.ReadFile(k.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	// Check for no key
	if len(buf) == 0 {
		return nil, nil
	}

	// Decode the PEM key
	block, _ := pem.Decode(buf)
	if block == nil {
		return nil, fmt.Errorf("Error decoding PEM block from data")
	}

	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), block.Bytes)
	return priv, nil
}

func (k *PemKey) WriteKey(key *btcec.PrivateKey) error {
	k.l.Lock()
	defer k.l.Unlock()

	pemBlock := &pem.Block{Type: pemBlockType, Bytes: key.Serialize()}
	data := pem.EncodeToMemory(pemBlock)
	return ioutil.WriteFile(k.path, data, 0755)
}

type PemDump struct {
	PublicKey  string
	PrivateKey string
}

func GeneratePemKey() (*PemDump, error) {
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}

	pub := fmt.Sprintf("0x%X", FromPublicKey(key.PubKey()))

	pemBlock := &pem.Block{Type: pemBlockType, Bytes: key.Serialize()}
	data := pem.EncodeToMemory(pemBlock)

	pemDump := PemDump{
		PublicKey:  pub,
		PrivateKey: string(data),
	}

	return &pemDump, nil
}
