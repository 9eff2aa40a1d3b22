package net

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/mosaic-bft/ledgerd/message"
)

// NewInmemAddr returns a randomly generated address suitable for use
// with InmemTransport, where no real socket is ever opened.
func NewInmemAddr() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %v", err))
	}
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%12x", buf[0:4], buf[4:6], buf[6:8], buf[8:10], buf[10:16])
}

// InmemTransport implements Transport by routing calls directly into
// another InmemTransport's consumer channel, so ordering/validation
// tests can exercise the full RPC surface without a real network.
type InmemTransport struct {
	sync.RWMutex
	consumerCh chan RPC
	localAddr  string
	peers      map[string]*InmemTransport
	timeout    time.Duration
}

// NewInmemTransport builds a transport bound to addr, or a fresh
// random address if addr is empty.
func NewInmemTransport(addr string) (string, *InmemTransport) {
	if addr == "" {
		addr = NewInmemAddr()
	}
	return addr, &InmemTransport{
		consumerCh: make(chan RPC, 16),
		localAddr:  addr,
		peers:      make(map[string]*InmemTransport),
		timeout:    50 * time.Millisecond,
	}
}

// Connect makes peer reachable by addr from this transport.
func (i *InmemTransport) Connect(addr string, peer *InmemTransport) {
	i.Lock()
	defer i.Unlock()
	i.peers[addr] = peer
}

// Disconnect removes addr from this transport's routing table.
func (i *InmemTransport) Disconnect(addr string) {
	i.Lock()
	defer i.Unlock()
	delete(i.peers, addr)
}

// Consumer implements Transport.
func (i *InmemTransport) Consumer() <-chan RPC {
	return i.consumerCh
}

// LocalAddr implements Transport.
func (i *InmemTransport) LocalAddr() string {
	return i.localAddr
}

// AdvertiseAddr implements Transport.
func (i *InmemTransport) AdvertiseAddr() string {
	return i.localAddr
}

// Listen is a no-op: there is no socket to accept on.
func (i *InmemTransport) Listen() {}

// Close drops every routed peer.
func (i *InmemTransport) Close() error {
	i.Lock()
	defer i.Unlock()
	i.peers = make(map[string]*InmemTransport)
	return nil
}

func (i *InmemTransport) makeRPC(target string, command interface{}) (RPCResponse, error) {
	i.RLock()
	peer, ok := i.peers[target]
	i.RUnlock()

	if !ok {
		return RPCResponse{}, fmt.Errorf("no route to peer %s", target)
	}

	respCh := make(chan RPCResponse, 1)
	peer.consumerCh <- RPC{Command: command, RespChan: respCh}

	select {
	case resp := <-respCh:
		return resp, resp.Error
	case <-time.After(i.timeout):
		return RPCResponse{}, fmt.Errorf("rpc to %s timed out", target)
	}
}

// Verify implements Transport.
func (i *InmemTransport) Verify(target string, event message.ConsensusEvent) (StatusResponse, error) {
	resp, err := i.makeRPC(target, &event)
	if err != nil {
		return StatusResponse{}, err
	}
	out, _ := resp.Response.(StatusResponse)
	return out, nil
}

// Torii implements Transport.
func (i *InmemTransport) Torii(target string, tx message.Transaction) (StatusResponse, error) {
	resp, err := i.makeRPC(target, &tx)
	if err != nil {
		return StatusResponse{}, err
	}
	out, _ := resp.Response.(StatusResponse)
	return out, nil
}

// FindTransaction implements Transport.
func (i *InmemTransport) FindTransaction(target string, q message.Query) (message.TransactionResponse, error) {
	resp, err := i.makeRPC(target, FindTransactionCommand{q})
	if err != nil {
		return message.TransactionResponse{}, err
	}
	out, _ := resp.Response.(message.TransactionResponse)
	return out, nil
}

// FindAsset implements Transport.
func (i *InmemTransport) FindAsset(target string, q message.Query) (message.AssetResponse, error) {
	resp, err := i.makeRPC(target, FindAssetCommand{q})
	if err != nil {
		return message.AssetResponse{}, err
	}
	out, _ := resp.Response.(message.AssetResponse)
	return out, nil
}
