package wsv

import "github.com/mosaic-bft/ledgerd/peers"

// PeerQuery is the injected get_ledger_peers() collaborator the
// Ordering Service uses to address a broadcast. It is deliberately a
// thin read-only view over a peers.Directory, not the directory
// itself, so the ordering service depends on the narrower contract
// spec.md's §6 names.
type PeerQuery interface {
	// GetLedgerPeers returns the current peer set, or nil if none are
	// known.
	GetLedgerPeers() []peers.PeerEntry
}

// DirectoryPeerQuery adapts any peers.Directory-like source of
// addresses into a PeerQuery. It needs only the subset of methods the
// ordering service actually calls.
type DirectoryPeerQuery struct {
	Entries func() []peers.PeerEntry
}

func (q DirectoryPeerQuery) GetLedgerPeers() []peers.PeerEntry {
	entries := q.Entries()
	if len(entries) == 0 {
		return nil
	}
	return entries
}
