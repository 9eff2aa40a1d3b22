package message

import "github.com/mosaic-bft/ledgerd/crypto"

// Hash computes the content-addressed hash of a transaction over every
// field except its signature set, so that adding or removing signatures
// never changes a transaction's identity.
func (t Transaction) Hash() []byte {
	unsigned := t
	unsigned.Signatures = nil

	b, err := Encode(unsigned)
	if err != nil {
		// Encode only fails on unsupported Go types; Transaction's field
		// set is entirely composed of encodable primitives.
		panic(err)
	}

	return crypto.SHA256(b)
}

// TxHashes returns the ordered list of transaction hashes that make up a
// proposal's identity.
func (p Proposal) TxHashes() [][]byte {
	hashes := make([][]byte, len(p.Transactions))
	for i, tx := range p.Transactions {
		hashes[i] = tx.Hash()
	}
	return hashes
}

// Hash computes a proposal's identity hash over (height, created_time,
// ordered transaction hashes), per the immutability invariant in the data
// model: a proposal's identity never depends on anything but these three
// things.
func (p Proposal) Hash() []byte {
	type identity struct {
		Height       uint64
		CreatedAt    int64
		TxHashes     [][]byte
	}

	b, err := Encode(identity{
		Height:    p.Height,
		CreatedAt: p.CreatedAt,
		TxHashes:  p.TxHashes(),
	})
	if err != nil {
		panic(err)
	}

	return crypto.SHA256(b)
}
