// Package ordering implements the Ordering Service (C5): a single
// writer goroutine that drains the ingestion queue into height-numbered
// proposals, either when the queue crosses a size threshold or when a
// timer fires on a non-empty queue, and publishes each proposal to the
// peer set named by the injected PeerQuery.
package ordering

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mosaic-bft/ledgerd/common"
	"github.com/mosaic-bft/ledgerd/message"
	"github.com/mosaic-bft/ledgerd/net"
	"github.com/mosaic-bft/ledgerd/queue"
	"github.com/mosaic-bft/ledgerd/wsv"
)

// Publisher is the narrow surface the ordering service needs from the
// transport fabric: turn a finished proposal into RPCs against every
// named peer.
type Publisher interface {
	BroadcastProposal(p message.Proposal, peerAddrs []string)
}

// Config carries the two triggers §4.5 names.
type Config struct {
	MaxSize int
	Delay   time.Duration
}

// Service owns proposal_height and the queue-drain cursor exclusively;
// nothing outside Run's goroutine ever touches either.
type Service struct {
	conf      Config
	queue     *queue.Queue
	peerQuery wsv.PeerQuery
	publisher Publisher
	logger    *logrus.Entry

	height uint64

	sizeTriggerCh chan struct{}
	shutdownCh    chan struct{}
	doneCh        chan struct{}
}

// New builds a Service. The queue it returns must be used as the
// ingestion queue's sole consumer-side handle: the service wires its
// own size-trigger callback into a fresh queue.Queue it constructs and
// hands back, so producers push into the same queue the service reads.
func New(conf Config, peerQuery wsv.PeerQuery, publisher Publisher, logger *logrus.Entry) (*Service, *queue.Queue) {
	if logger == nil {
		log := logrus.New()
		logger = logrus.NewEntry(log)
	}

	s := &Service{
		conf:          conf,
		peerQuery:     peerQuery,
		publisher:     publisher,
		logger:        logger,
		height:        2,
		sizeTriggerCh: make(chan struct{}, 1),
		shutdownCh:    make(chan struct{}),
		doneCh:        make(chan struct{}),
	}

	q := queue.New(conf.MaxSize, s.signalSizeTrigger)
	s.queue = q
	return s, q
}

func (s *Service) signalSizeTrigger() {
	select {
	case s.sizeTriggerCh <- struct{}{}:
	default:
		// a trigger is already pending; Run re-signals after each
		// emission while the queue still holds MaxSize or more.
	}
}

// Run is the single-threaded executor: it owns proposal_height and the
// queue-drain cursor, driven by a select over the size trigger, the
// delay timer, and shutdown. Call it in its own goroutine.
func (s *Service) Run() {
	defer close(s.doneCh)

	timer := time.NewTimer(s.conf.Delay)
	defer timer.Stop()

	for {
		select {
		case <-s.sizeTriggerCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			s.emit()
			s.resignalIfFull()
			timer.Reset(s.conf.Delay)

		case <-timer.C:
			if !s.queue.Empty() {
				s.emit()
				s.resignalIfFull()
			}
			timer.Reset(s.conf.Delay)

		case <-s.shutdownCh:
			return
		}
	}
}

// resignalIfFull queues another size trigger when a drain of MaxSize
// left MaxSize or more transactions behind, since the triggers those
// pushes fired were coalesced into the one just handled.
func (s *Service) resignalIfFull() {
	if s.conf.MaxSize > 0 && s.queue.Size() >= s.conf.MaxSize {
		s.signalSizeTrigger()
	}
}

// emit drains up to MaxSize transactions and publishes them as one
// proposal. An empty drain (EmptyBatch) is skipped entirely — the
// timer is still rearmed by the caller.
func (s *Service) emit() {
	batch := s.queue.Drain(s.conf.MaxSize)
	if len(batch) == 0 {
		s.logger.WithError(common.New(common.EmptyBatch, "")).Debug("skipping emission")
		return
	}

	txs := make([]message.Transaction, 0, len(batch))
	for _, raw := range batch {
		var tx message.Transaction
		if err := message.Decode(raw, &tx); err != nil {
			s.logger.WithError(err).Error("dropping malformed queued transaction")
			continue
		}
		txs = append(txs, tx)
	}
	if len(txs) == 0 {
		return
	}

	height := s.height
	s.height++

	p := message.Proposal{
		Height:       height,
		CreatedAt:    time.Now().UnixMilli(),
		Transactions: txs,
	}

	peers := s.peerQuery.GetLedgerPeers()
	addrs := net.PeerAddrs(peers)

	s.logger.WithFields(logrus.Fields{
		"height": height,
		"txs":    len(txs),
		"peers":  len(addrs),
	}).Info("publishing proposal")

	s.publisher.BroadcastProposal(p, addrs)
}

// Shutdown cancels the timer subscription and waits for any in-flight
// emission to complete before returning.
func (s *Service) Shutdown() {
	close(s.shutdownCh)
	<-s.doneCh
}

// Height reports the next height Run will assign, for diagnostics.
func (s *Service) Height() uint64 {
	return s.height
}
