package node

import (
	"github.com/mosaic-bft/ledgerd/message"
	netpkg "github.com/mosaic-bft/ledgerd/net"
)

// HandleTorii answers a Sumeragi.Torii call: the
// transaction is pushed onto the ingestion queue for the Ordering
// Service to pick up, and the reply carries a signed confirmation of
// the transaction's hash so the sender can detect tampering in transit.
func (n *Node) HandleTorii(tx message.Transaction) (netpkg.StatusResponse, error) {
	encoded, err := message.Encode(tx)
	if err != nil {
		return netpkg.StatusResponse{}, err
	}
	n.queue.Push(encoded)

	confirm, err := n.codec.Sign(tx.Hash())
	if err != nil {
		return netpkg.StatusResponse{}, err
	}

	return netpkg.StatusResponse{Value: "OK", Confirm: confirm}, nil
}

// HandleVerify answers a Sumeragi.verify call. The event carries enough
// of its originating proposal (height, created_at) to reconstruct a
// single-transaction Proposal, which is run through the Stateful
// Validator against this node's current view before the event is
// handed to the external commit pipeline — a peer never commits a
// transaction that fails quorum/signatory admissibility, regardless of
// who broadcast it. The confirmation signs receipt of the event
// unconditionally: it proves this node answered, not that the
// transaction was accepted.
func (n *Node) HandleVerify(event message.ConsensusEvent) (netpkg.StatusResponse, error) {
	proposal := message.Proposal{
		Height:       event.Height,
		CreatedAt:    event.CreatedAt,
		Transactions: []message.Transaction{event.Tx},
	}

	validated := n.ValidateProposal(proposal)
	if len(validated.Transactions) > 0 && n.commit != nil {
		n.commit.Commit(event)
	}

	confirm, err := n.codec.Sign(event.Tx.Hash())
	if err != nil {
		return netpkg.StatusResponse{}, err
	}

	return netpkg.StatusResponse{Value: "OK", Confirm: confirm}, nil
}

// HandleFindTransaction answers a TransactionRepository.find call.
// Querying historical transactions is explicitly out of scope for this
// core (spec.md's Non-goals name the query surface), so this always
// returns an empty result rather than consulting any store.
func (n *Node) HandleFindTransaction(q message.Query) (message.TransactionResponse, error) {
	return message.TransactionResponse{}, nil
}

// HandleFindAsset answers an AssetRepository.find call, out of scope
// for the same reason as HandleFindTransaction.
func (n *Node) HandleFindAsset(q message.Query) (message.AssetResponse, error) {
	return message.AssetResponse{}, nil
}

// dispatchFind distinguishes the two find() RPCs once dispatch's type
// switch has already ruled out Verify and Torii.
func (n *Node) dispatchFind(rpc netpkg.RPC) {
	switch cmd := rpc.Command.(type) {
	case netpkg.FindTransactionCommand:
		resp, err := n.HandleFindTransaction(cmd.Query)
		rpc.Respond(resp, err)
	case netpkg.FindAssetCommand:
		resp, err := n.HandleFindAsset(cmd.Query)
		rpc.Respond(resp, err)
	default:
		rpc.Respond(nil, nil)
	}
}
