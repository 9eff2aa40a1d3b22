// Package message defines the wire types shared by the ordering service,
// the stateful validator and the transport fabric, and the canonical
// encoding used to hash and sign them.
package message

// Signature pairs a public key with a signature produced under it.
type Signature struct {
	PublicKeyHex string `json:"public_key_hex"`
	Bytes        []byte `json:"bytes"`
}

// Transaction is an immutable, signed, content-addressed record. Once
// constructed it must not be mutated; callers that need a modified copy
// build a new Transaction.
type Transaction struct {
	CreatorAccountID string      `json:"creator_account_id"`
	CreatedAt        int64       `json:"created_at"`
	Commands         [][]byte    `json:"commands"`
	Signatures       []Signature `json:"signatures"`
}

// Proposal is an ordered, height-numbered batch of transactions.
type Proposal struct {
	Height       uint64        `json:"height"`
	CreatedAt    int64         `json:"created_at"`
	Transactions []Transaction `json:"transactions"`
}

// ConsensusEvent wraps one transaction together with the round-signatures
// accumulated during the external commit round. This package treats it as
// a transparent container; voting semantics live outside this core.
//
// Height and CreatedAt carry the originating proposal's metadata, so a
// receiver can reconstruct enough of that Proposal (height, created_at,
// and this one transaction) to run it through the Stateful Validator
// without the wire protocol needing a separate batch-delivery RPC.
type ConsensusEvent struct {
	Tx              Transaction `json:"tx"`
	EventSignatures []Signature `json:"event_signatures"`
	Height          uint64      `json:"height"`
	CreatedAt       int64       `json:"created_at"`
}

// RecieverConfirmation proves authenticated receipt of a hash. It is
// produced by a receiver at response time and never stored.
type RecieverConfirmation struct {
	Hash      []byte    `json:"hash"`
	Signature Signature `json:"signature"`
}

// Query is an opaque lookup request against the (out of scope)
// transaction or asset repositories.
type Query struct {
	CreatorAccountID string `json:"creator_account_id"`
	Payload          []byte `json:"payload"`
}

// TransactionResponse wraps the result of a TransactionRepository.find call.
type TransactionResponse struct {
	Message [][]byte `json:"message"`
}

// AssetResponse wraps the result of an AssetRepository.find call.
type AssetResponse struct {
	Message [][]byte `json:"message"`
}
