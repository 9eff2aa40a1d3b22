package net

import "github.com/mosaic-bft/ledgerd/message"

// EventHandler answers Sumeragi.Verify: a peer is delivering one
// transaction of an ordered proposal, stamped with that proposal's
// height and created_at, for this node to validate.
type EventHandler interface {
	HandleVerify(event message.ConsensusEvent) (StatusResponse, error)
}

// TransactionHandler answers Sumeragi.Torii: a client is submitting a
// transaction for ordering.
type TransactionHandler interface {
	HandleTorii(tx message.Transaction) (StatusResponse, error)
}

// FindHandler answers the TransactionRepository.find and
// AssetRepository.find lookups. A single implementation backs both
// RPC surfaces; which repository a Query addresses is opaque to this
// core.
type FindHandler interface {
	HandleFindTransaction(q message.Query) (message.TransactionResponse, error)
	HandleFindAsset(q message.Query) (message.AssetResponse, error)
}

// HandlerSet is wired once at startup and never mutated afterward — a
// node assembles exactly the handlers it implements, and a nil field
// means that RPC surface is simply unavailable, not routed through a
// runtime-registered callback list.
type HandlerSet struct {
	Event       EventHandler
	Transaction TransactionHandler
	Find        FindHandler
}
