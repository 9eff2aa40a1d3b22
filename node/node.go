// Package node wires the seven components together into a single
// running process: a peer directory, a transport fabric, the ingestion
// queue and ordering service, the temporary world-state view, and the
// stateful validator, plus the compile-time wired RPC handlers that
// answer inbound Sumeragi/TransactionRepository/AssetRepository calls.
package node

import (
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mosaic-bft/ledgerd/message"
	netpkg "github.com/mosaic-bft/ledgerd/net"
	"github.com/mosaic-bft/ledgerd/ordering"
	"github.com/mosaic-bft/ledgerd/peers"
	"github.com/mosaic-bft/ledgerd/queue"
	"github.com/mosaic-bft/ledgerd/validation"
	"github.com/mosaic-bft/ledgerd/wsv"
)

// CommitSink is the external commit/store pipeline spec.md's
// Persisted state layout defers to: transactions accepted into a
// validated proposal, or consensus events this node is asked to
// verify, are handed off here rather than stored by this core.
type CommitSink interface {
	Commit(event message.ConsensusEvent)
}

// Node assembles C1-C7 into one process.
type Node struct {
	conf      *Config
	logger    *logrus.Entry
	directory peers.Directory
	transport netpkg.Transport
	fabric    *netpkg.Fabric
	codec     *message.Codec
	ordering  *ordering.Service
	queue     *queue.Queue
	validator *validation.Validator
	commit    CommitSink

	viewMu sync.Mutex
	view   *wsv.View

	start time.Time
}

// New builds a Node around a pre-opened directory and transport; the
// caller owns both lifecycles (e.g. to swap a StaticDirectory for a
// BadgerDirectory) and passes them in already constructed.
func New(conf *Config, directory peers.Directory, transport netpkg.Transport, commit CommitSink) *Node {
	entry := logrus.NewEntry(conf.Logger)

	signer := peers.NewSigner(directory)
	codec := message.NewCodec(signer)

	n := &Node{
		conf:      conf,
		logger:    entry,
		directory: directory,
		transport: transport,
		codec:     codec,
		validator: validation.New(entry),
		commit:    commit,
		view:      wsv.NewView(nil),
		start:     time.Now(),
	}

	n.fabric = netpkg.New(transport, directoryAdapter{directory}, conf.Announcer, entry)

	peerQuery := wsv.DirectoryPeerQuery{Entries: n.directoryEntries}
	svc, q := ordering.New(ordering.Config{
		MaxSize: conf.MaxProposalSize,
		Delay:   conf.ProposalDelay,
	}, peerQuery, n.fabric, entry)
	n.ordering = svc
	n.queue = q

	return n
}

type directoryAdapter struct {
	d peers.Directory
}

func (a directoryAdapter) IPList() []string { return a.d.IPList() }

func (n *Node) directoryEntries() []peers.PeerEntry {
	if bd, ok := n.directory.(*peers.BadgerDirectory); ok {
		return bd.Entries()
	}
	if sd, ok := n.directory.(*peers.StaticDirectory); ok {
		return sd.Entries()
	}
	return nil
}

// SetAccounts installs a fresh base snapshot for the temporary
// world-state view, replacing whatever the previous validation pass
// committed. Embedding callers own account provisioning; this core
// only validates against whatever snapshot it's given.
func (n *Node) SetAccounts(accounts map[string]wsv.Account) {
	n.viewMu.Lock()
	defer n.viewMu.Unlock()
	n.view = wsv.NewView(accounts)
}

// ValidateProposal runs the Stateful Validator against the node's
// current view, committing accepted transactions' effects before the
// next call.
func (n *Node) ValidateProposal(p message.Proposal) message.Proposal {
	n.viewMu.Lock()
	defer n.viewMu.Unlock()
	return n.validator.Validate(p, n.view)
}

// Serve starts the transport's accept loop, the RPC dispatch loop,
// and the ordering service's executor. It does not block.
func (n *Node) Serve() {
	go n.transport.Listen()
	go n.dispatch()
	go n.ordering.Run()
}

// Shutdown stops the ordering service and closes the transport.
func (n *Node) Shutdown() {
	n.ordering.Shutdown()
	n.transport.Close()
}

// Queue exposes the ingestion queue so an embedding process can push
// locally originated transactions without going through Torii.
func (n *Node) Queue() *queue.Queue {
	return n.queue
}

// dispatch is the compile-time wired RPC dispatcher: it owns the only
// reference to this node's handler methods, so there is no runtime
// handler registry to mutate.
func (n *Node) dispatch() {
	for rpc := range n.transport.Consumer() {
		switch cmd := rpc.Command.(type) {
		case *message.ConsensusEvent:
			resp, err := n.HandleVerify(*cmd)
			rpc.Respond(resp, err)
		case *message.Transaction:
			resp, err := n.HandleTorii(*cmd)
			rpc.Respond(resp, err)
		default:
			n.dispatchFind(rpc)
		}
	}
}

// GetStats mirrors the teacher's flat string-map stats surface.
func (n *Node) GetStats() map[string]string {
	return map[string]string{
		"queue_size":     strconv.Itoa(n.queue.Size()),
		"next_height":    strconv.FormatUint(n.ordering.Height(), 10),
		"num_peers":      strconv.Itoa(len(n.directory.IPList())),
		"uptime_seconds": strconv.Itoa(int(time.Since(n.start).Seconds())),
		"my_address":     n.directory.MyAddress(),
		"my_public_key":  n.directory.MyPublicKey(),
	}
}
