package node

import (
	"testing"
	"time"

	"github.com/mosaic-bft/ledgerd/crypto"
	"github.com/mosaic-bft/ledgerd/message"
	netpkg "github.com/mosaic-bft/ledgerd/net"
	"github.com/mosaic-bft/ledgerd/peers"
	"github.com/mosaic-bft/ledgerd/wsv"
)

func newTestNode(t *testing.T, addr string) (*Node, *netpkg.InmemTransport) {
	t.Helper()

	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	self := peers.PeerEntry{NetAddr: addr, PubKeyHex: message.PublicKeyHex(priv.PubKey())}
	dir := peers.NewStaticDirectory(self, priv, 0, nil)

	_, transport := netpkg.NewInmemTransport(addr)

	conf := DefaultConfig()
	conf.BindAddr = addr

	n := New(conf, dir, transport, nil)
	return n, transport
}

func TestHandleToriiPushesQueueAndSignsConfirmation(t *testing.T) {
	n, _ := newTestNode(t, "node-a")

	tx := message.Transaction{
		CreatorAccountID: "alice@domain",
		Commands:         [][]byte{[]byte("transfer")},
	}

	resp, err := n.HandleTorii(tx)
	if err != nil {
		t.Fatalf("HandleTorii: %v", err)
	}
	if resp.Value != "OK" {
		t.Fatalf("expected OK, got %q", resp.Value)
	}
	if !message.Verify(resp.Confirm) {
		t.Fatalf("expected confirmation to verify")
	}

	if n.Queue().Size() != 1 {
		t.Fatalf("expected one queued transaction, got %d", n.Queue().Size())
	}
}

func TestHandleVerifyForwardsValidatedEventToCommitSink(t *testing.T) {
	n, _ := newTestNode(t, "node-a")
	n.SetAccounts(map[string]wsv.Account{
		"alice@domain": {ID: "alice@domain", Quorum: 0, Signatories: map[string]struct{}{}},
	})

	var committed []message.ConsensusEvent
	n.commit = commitFunc(func(e message.ConsensusEvent) {
		committed = append(committed, e)
	})

	event := message.ConsensusEvent{
		Tx:        message.Transaction{CreatorAccountID: "alice@domain"},
		Height:    2,
		CreatedAt: 1700000000000,
	}

	resp, err := n.HandleVerify(event)
	if err != nil {
		t.Fatalf("HandleVerify: %v", err)
	}
	if resp.Value != "OK" {
		t.Fatalf("expected OK, got %q", resp.Value)
	}
	if len(committed) != 1 {
		t.Fatalf("expected event to reach commit sink, got %d", len(committed))
	}
}

// An event for an account this node has never seen must fail
// validation (UnknownAccount) and never reach the commit sink, even
// though the RPC itself still answers OK — the confirmation proves
// receipt, not acceptance.
func TestHandleVerifyWithholdsCommitOnValidationFailure(t *testing.T) {
	n, _ := newTestNode(t, "node-a")

	var committed []message.ConsensusEvent
	n.commit = commitFunc(func(e message.ConsensusEvent) {
		committed = append(committed, e)
	})

	event := message.ConsensusEvent{
		Tx:        message.Transaction{CreatorAccountID: "alice@domain"},
		Height:    2,
		CreatedAt: 1700000000000,
	}

	resp, err := n.HandleVerify(event)
	if err != nil {
		t.Fatalf("HandleVerify: %v", err)
	}
	if resp.Value != "OK" {
		t.Fatalf("expected OK, got %q", resp.Value)
	}
	if len(committed) != 0 {
		t.Fatalf("expected no commit for an unvalidated account, got %d", len(committed))
	}
}

// commitFunc adapts a plain function to CommitSink for tests.
type commitFunc func(message.ConsensusEvent)

func (f commitFunc) Commit(e message.ConsensusEvent) { f(e) }

func TestToriiRoundTripOverTransport(t *testing.T) {
	server, serverTransport := newTestNode(t, "node-a")
	client, clientTransport := newTestNode(t, "node-b")

	clientTransport.Connect("node-a", serverTransport)

	server.Serve()
	defer server.Shutdown()

	tx := message.Transaction{
		CreatorAccountID: "alice@domain",
		Commands:         [][]byte{[]byte("transfer")},
	}

	resp, err := clientTransport.Torii("node-a", tx)
	if err != nil {
		t.Fatalf("torii rpc: %v", err)
	}
	if resp.Value != "OK" {
		t.Fatalf("expected OK, got %q", resp.Value)
	}
	if !message.Verify(resp.Confirm) {
		t.Fatalf("expected confirmation to verify")
	}

	time.Sleep(10 * time.Millisecond)
	if server.Queue().Size() != 1 {
		t.Fatalf("expected transaction to reach server queue, got %d", server.Queue().Size())
	}

	_ = client
}

func TestFindTransactionOverTransportReturnsEmptyResult(t *testing.T) {
	server, serverTransport := newTestNode(t, "node-a")
	_, clientTransport := newTestNode(t, "node-b")

	clientTransport.Connect("node-a", serverTransport)

	server.Serve()
	defer server.Shutdown()

	resp, err := clientTransport.FindTransaction("node-a", message.Query{CreatorAccountID: "alice@domain"})
	if err != nil {
		t.Fatalf("find rpc: %v", err)
	}
	if len(resp.Message) != 0 {
		t.Fatalf("expected empty result, got %+v", resp)
	}
}
