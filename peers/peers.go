// Package peers implements the authoritative, snapshot-consistent set of
// peer network addresses and public keys (C2), keyed by address per the
// data model.
package peers

import "sort"

// PeerEntry is a (address, public-key) pair.
type PeerEntry struct {
	NetAddr   string
	PubKeyHex string
}

// Peers is a set of PeerEntries keyed by address; iteration order is
// irrelevant for correctness but kept deterministic (sorted by address)
// for readable logs and stable tests.
type Peers struct {
	byAddress map[string]*PeerEntry
}

func NewPeers() *Peers {
	return &Peers{byAddress: make(map[string]*PeerEntry)}
}

func NewPeersFromSlice(entries []PeerEntry) *Peers {
	p := NewPeers()
	for i := range entries {
		p.AddPeer(entries[i])
	}
	return p
}

func (p *Peers) AddPeer(entry PeerEntry) {
	p.byAddress[entry.NetAddr] = &entry
}

func (p *Peers) RemovePeer(addr string) {
	delete(p.byAddress, addr)
}

func (p *Peers) Get(addr string) (PeerEntry, bool) {
	e, ok := p.byAddress[addr]
	if !ok {
		return PeerEntry{}, false
	}
	return *e, true
}

func (p *Peers) Len() int {
	return len(p.byAddress)
}

// ToSlice returns the peer set sorted by address.
func (p *Peers) ToSlice() []PeerEntry {
	res := make([]PeerEntry, 0, len(p.byAddress))
	for _, e := range p.byAddress {
		res = append(res, *e)
	}
	sort.Sort(ByAddress(res))
	return res
}

// Addresses returns the set of addresses, sorted.
func (p *Peers) Addresses() []string {
	res := make([]string, 0, len(p.byAddress))
	for addr := range p.byAddress {
		res = append(res, addr)
	}
	sort.Strings(res)
	return res
}

// ByAddress implements sort.Interface for []PeerEntry based on NetAddr.
type ByAddress []PeerEntry

func (a ByAddress) Len() int      { return len(a) }
func (a ByAddress) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a ByAddress) Less(i, j int) bool {
	return a[i].NetAddr < a[j].NetAddr
}
