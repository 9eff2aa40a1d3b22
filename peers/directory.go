package peers

import (
	"sync"

	"github.com/btcsuite/btcd/btcec"
	"github.com/mosaic-bft/ledgerd/crypto"
	"github.com/mosaic-bft/ledgerd/message"
)

// Directory is the injected PeerDirectory collaborator of §6: the
// authoritative runtime set of peer addresses and keys, plus this node's
// own identity. All reads are snapshot-consistent; concurrent updates are
// serialized by the directory, never by its callers.
type Directory interface {
	// IPList returns the current set of peer addresses, self excluded.
	IPList() []string

	// MyAddress returns this node's own advertised address.
	MyAddress() string

	// MyPublicKey returns this node's own public key, hex-encoded.
	MyPublicKey() string

	// MyPrivateKey returns this node's own private key.
	MyPrivateKey() *btcec.PrivateKey

	// GetGRPCPort returns the configured RPC port, or def if none was set.
	GetGRPCPort(def int) int
}

// StaticDirectory is an in-memory Directory, suitable for tests and for
// deployments where the peer set is provisioned once at startup.
type StaticDirectory struct {
	mu sync.RWMutex

	self PeerEntry
	key  *btcec.PrivateKey
	port int

	peers *Peers
}

func NewStaticDirectory(self PeerEntry, key *btcec.PrivateKey, grpcPort int, others []PeerEntry) *StaticDirectory {
	return &StaticDirectory{
		self:  self,
		key:   key,
		port:  grpcPort,
		peers: NewPeersFromSlice(others),
	}
}

func (d *StaticDirectory) IPList() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	addrs := d.peers.Addresses()
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a != d.self.NetAddr {
			out = append(out, a)
		}
	}
	return out
}

func (d *StaticDirectory) MyAddress() string {
	return d.self.NetAddr
}

func (d *StaticDirectory) MyPublicKey() string {
	return d.self.PubKeyHex
}

func (d *StaticDirectory) MyPrivateKey() *btcec.PrivateKey {
	return d.key
}

func (d *StaticDirectory) GetGRPCPort(def int) int {
	if d.port == 0 {
		return def
	}
	return d.port
}

// SetPeers replaces the known peer set. Concurrent readers see either the
// old or the new set entirely, never a mix.
func (d *StaticDirectory) SetPeers(entries []PeerEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.peers = NewPeersFromSlice(entries)
}

// Entries returns a snapshot of the known peer set as provisioned.
// Self is held apart and appears here only if it was also passed in as
// a peer; unlike IPList, Entries does not filter it out.
func (d *StaticDirectory) Entries() []PeerEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.peers.ToSlice()
}

// signer adapts a Directory's own key material to message.Signer, so the
// C1 codec can sign outgoing confirmations without holding key state of
// its own.
type signer struct {
	dir Directory
}

// NewSigner builds the message.Signer backing a Directory's own key.
func NewSigner(dir Directory) message.Signer {
	return &signer{dir: dir}
}

func (s *signer) PublicKeyHex() string {
	return s.dir.MyPublicKey()
}

func (s *signer) Sign(hash []byte) ([]byte, error) {
	return crypto.Sign(s.dir.MyPrivateKey(), hash)
}
