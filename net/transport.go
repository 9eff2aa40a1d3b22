package net

import "github.com/mosaic-bft/ledgerd/message"

// Transport is the peer transport fabric's collaborator contract: the
// four RPCs spec.md's wire protocol names, plus the lifecycle methods
// a node needs to start, stop and consume inbound requests from it.
type Transport interface {
	// Listen starts accepting inbound connections. It blocks until the
	// transport is closed or its stream layer errors.
	Listen()

	// Consumer returns the channel inbound RPCs arrive on.
	Consumer() <-chan RPC

	// LocalAddr returns the address this transport is bound to.
	LocalAddr() string

	// AdvertiseAddr returns the address other peers should dial to
	// reach this node, which may differ from LocalAddr behind NAT.
	AdvertiseAddr() string

	// Verify sends a ConsensusEvent to target's Sumeragi.Verify method.
	Verify(target string, event message.ConsensusEvent) (StatusResponse, error)

	// Torii sends a Transaction to target's Sumeragi.Torii method.
	Torii(target string, tx message.Transaction) (StatusResponse, error)

	// FindTransaction sends q to target's TransactionRepository.find.
	FindTransaction(target string, q message.Query) (message.TransactionResponse, error)

	// FindAsset sends q to target's AssetRepository.find.
	FindAsset(target string, q message.Query) (message.AssetResponse, error)

	// Close permanently shuts the transport down, freeing its stream
	// layer and connection pool.
	Close() error
}
