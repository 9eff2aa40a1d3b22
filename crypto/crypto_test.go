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
	"bytes"
	"io/ioutil"
	"os"
	"testing"
)

func TestPem(t *testing.T) {
	// Create a test dir
	dir, err := ioutil.TempDir("", "ledgerd")
	if err != nil {
		t.Fatalf("err: %v ", err)
	}
	defer os.RemoveAll(dir)

	// Create the PEM key
	pemKey := NewPemKey(dir)

	// Try a read, should get nothing
	key, err := pemKey.ReadKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if key != nil {
		t.Fatalf("key is not nil")
	}

	// Initialize a key
	key, _ = GenerateKey()
	if err := pemKey.WriteKey(key); err != nil {
		t.Fatalf("err: %v", err)
	}

	// Try a read, should get key
	nKey, err := pemKey.ReadKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !bytes.Equal(nKey.Serialize(), key.Serialize()) {
		t.Fatalf("Keys do not match")
	}
}

func TestSignVerify(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	hash := SHA256([]byte("hello world"))

	sig, err := Sign(key, hash)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if !Verify(key.PubKey(), hash, sig) {
		t.Fatalf("expected signature to verify")
	}

	// Flip a bit in the hash: verification must fail.
	tampered := make([]byte, len(hash))
	copy(tampered, hash)
	tampered[0] ^= 0x01
	if Verify(key.PubKey(), tampered, sig) {
		t.Fatalf("expected verification to fail on tampered hash")
	}

	// Flip a bit in the signature: verification must fail.
	tamperedSig := make([]byte, len(sig))
	copy(tamperedSig, sig)
	tamperedSig[len(tamperedSig)-1] ^= 0x01
	if Verify(key.PubKey(), hash, tamperedSig) {
		t.Fatalf("expected verification to fail on tampered signature")
	}
}
