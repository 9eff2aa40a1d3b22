package net

import (
	"github.com/sirupsen/logrus"

	"github.com/mosaic-bft/ledgerd/common"
	"github.com/mosaic-bft/ledgerd/message"
	"github.com/mosaic-bft/ledgerd/peers"
)

// Directory is the narrow slice of peers.Directory the fabric needs:
// just enough to decide whether an address is reachable, without
// pulling in key material this package has no business touching.
type Directory interface {
	IPList() []string
}

// Announcer publishes a lightweight broadcast-start event to an
// out-of-band channel before a Fabric fans a proposal out over the
// RPC transport itself. It is an enrichment, not part of the four RPC
// methods §6 names: a WAMP topic lets operators and dashboards observe
// round activity without polling every node's Torii/Verify surface.
type Announcer interface {
	Announce(topic string, height uint64)
}

// Fabric is the peer transport fabric (C3): it turns "send this to
// that peer" into the right RPC call, and turns "send this to
// everyone" into one call per known peer, enforcing the UnknownPeer
// rule before ever touching the wire.
type Fabric struct {
	transport Transport
	directory Directory
	announcer Announcer
	logger    *logrus.Entry
}

// New builds a Fabric. announcer may be nil, in which case broadcasts
// simply skip the enrichment announce step.
func New(transport Transport, directory Directory, announcer Announcer, logger *logrus.Entry) *Fabric {
	if logger == nil {
		log := logrus.New()
		logger = logrus.NewEntry(log)
	}
	return &Fabric{transport: transport, directory: directory, announcer: announcer, logger: logger}
}

func (f *Fabric) known(addr string) bool {
	for _, known := range f.directory.IPList() {
		if known == addr {
			return true
		}
	}
	return false
}

// SendTorii delivers tx to addr's Sumeragi.Torii method. If addr is
// not in the directory's IPList, it returns (zero value,
// ErrUnknownPeer) without opening a socket.
func (f *Fabric) SendTorii(addr string, tx message.Transaction) (StatusResponse, Outcome) {
	if !f.known(addr) {
		f.logger.WithError(common.New(common.UnknownPeer, addr)).Debug("refusing to send to unknown peer")
		return StatusResponse{}, ErrUnknownPeer
	}

	resp, err := f.transport.Torii(addr, tx)
	if err != nil {
		f.logger.WithError(common.New(common.ConnectionFailure, addr)).WithField("cause", err).Warn("torii rpc failed")
		return StatusResponse{}, ErrConn
	}
	if resp.Value != "OK" || !message.Verify(resp.Confirm) {
		return resp, InvalidSig
	}
	return resp, OK
}

// SendVerify delivers event to addr's Sumeragi.Verify method, under
// the same UnknownPeer and confirmation-verification rules as
// SendTorii.
func (f *Fabric) SendVerify(addr string, event message.ConsensusEvent) (StatusResponse, Outcome) {
	if !f.known(addr) {
		f.logger.WithError(common.New(common.UnknownPeer, addr)).Debug("refusing to send to unknown peer")
		return StatusResponse{}, ErrUnknownPeer
	}

	resp, err := f.transport.Verify(addr, event)
	if err != nil {
		f.logger.WithError(common.New(common.ConnectionFailure, addr)).WithField("cause", err).Warn("verify rpc failed")
		return StatusResponse{}, ErrConn
	}
	if resp.Value != "OK" || !message.Verify(resp.Confirm) {
		return resp, InvalidSig
	}
	return resp, OK
}

// BroadcastProposal delivers p to every peer named by peerAddrs as a
// peer-to-peer Verify call, per spec.md §4.3's broadcast(P, peers):
// "fire a Verify-style delivery of P (or of each constituent event)".
// Sumeragi.Verify carries a single ConsensusEvent rather than a whole
// Proposal, so each transaction in p becomes its own event, stamped
// with p's height and created_at so the receiving validator can
// reconstruct the proposal it belongs to. This is the peer-to-peer
// delivery path, distinct from Torii's client-submission surface.
func (f *Fabric) BroadcastProposal(p message.Proposal, peerAddrs []string) {
	if f.announcer != nil {
		f.announcer.Announce("proposal", p.Height)
	}

	for _, addr := range peerAddrs {
		for _, tx := range p.Transactions {
			event := message.ConsensusEvent{
				Tx:        tx,
				Height:    p.Height,
				CreatedAt: p.CreatedAt,
			}
			_, outcome := f.SendVerify(addr, event)
			if outcome != OK {
				f.logger.WithFields(logrus.Fields{
					"addr":    addr,
					"height":  p.Height,
					"outcome": outcome.String(),
				}).Debug("broadcast to peer did not complete cleanly")
			}
		}
	}
}

// PeerAddrs is a small convenience for callers that hold
// peers.PeerEntry values (from wsv.PeerQuery) rather than bare
// addresses.
func PeerAddrs(entries []peers.PeerEntry) []string {
	addrs := make([]string, 0, len(entries))
	for _, e := range entries {
		addrs = append(addrs, e.NetAddr)
	}
	return addrs
}
