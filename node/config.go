package node

import (
	"time"

	"github.com/sirupsen/logrus"

	netpkg "github.com/mosaic-bft/ledgerd/net"
)

// Config carries every knob a running node needs, in the teacher's
// flat, single-struct style rather than a tree of per-component
// configs.
type Config struct {
	// BindAddr is the local TCP address the transport listens on.
	BindAddr string
	// AdvertiseAddr overrides the address peers should dial, if this
	// node is behind NAT or a reverse proxy. Empty means use BindAddr.
	AdvertiseAddr string

	// MaxPool bounds how many idle outbound connections the transport
	// keeps per peer.
	MaxPool int
	// TCPTimeout bounds dialing and each RPC round trip.
	TCPTimeout time.Duration

	// MaxProposalSize is the Ordering Service's size trigger.
	MaxProposalSize int
	// ProposalDelay is the Ordering Service's time trigger.
	ProposalDelay time.Duration

	// DBPath records the node's data directory. New does not read it:
	// the peer directory, badger-backed or in-memory, is built by the
	// caller and passed to New.
	DBPath string

	// Announcer, if non-nil, receives a best-effort broadcast-start
	// notification before each proposal fans out over the RPC
	// transport (spec.md §4.3's enrichment). Nil means skip it.
	Announcer netpkg.Announcer

	Logger *logrus.Logger
}

// DefaultConfig mirrors the teacher's DefaultConfig(): sane values for
// a single locally-run node, suitable for tests and local clusters.
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		BindAddr:        "127.0.0.1:50051",
		MaxPool:         2,
		TCPTimeout:      1 * time.Second,
		MaxProposalSize: 100,
		ProposalDelay:   200 * time.Millisecond,
		Logger:          logger,
	}
}
