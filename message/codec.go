package message

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

// The wire encoding must be DETERMINISTIC: two honest nodes encoding an
// equal message must produce equal bytes, so that hashes computed over
// the encoding agree. The builtin encoding/json package makes no such
// guarantee for map ordering, so canonical encoding is delegated to
// ugorji/go/codec with Canonical set.
func jsonHandle() *codec.JsonHandle {
	h := new(codec.JsonHandle)
	h.Canonical = true
	return h
}

// Encode produces the canonical byte encoding of a Transaction, Proposal,
// ConsensusEvent or RecieverConfirmation (or any other wire type in this
// package).
func Encode(v interface{}) ([]byte, error) {
	b := new(bytes.Buffer)
	enc := codec.NewEncoder(b, jsonHandle())
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decode is the inverse of Encode. v must be a pointer to a value of the
// same type that was passed to Encode.
func Decode(data []byte, v interface{}) error {
	b := bytes.NewBuffer(data)
	dec := codec.NewDecoder(b, jsonHandle())
	return dec.Decode(v)
}
