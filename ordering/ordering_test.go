package ordering

import (
	"sync"
	"testing"
	"time"

	"github.com/mosaic-bft/ledgerd/message"
	"github.com/mosaic-bft/ledgerd/peers"
)

type fakePeerQuery struct {
	entries []peers.PeerEntry
}

func (q fakePeerQuery) GetLedgerPeers() []peers.PeerEntry { return q.entries }

type recordingPublisher struct {
	mu        sync.Mutex
	proposals []message.Proposal
}

func (r *recordingPublisher) BroadcastProposal(p message.Proposal, peerAddrs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proposals = append(r.proposals, p)
}

func (r *recordingPublisher) snapshot() []message.Proposal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]message.Proposal{}, r.proposals...)
}

func pushTx(t *testing.T, q interface{ Push([]byte) }, creator string) {
	b, err := message.Encode(message.Transaction{CreatorAccountID: creator})
	if err != nil {
		t.Fatal(err)
	}
	q.Push(b)
}

// S1 — size trigger: max_size=3, a long delay. Pushing 3 transactions
// quickly should produce one proposal at height 2 almost immediately,
// and no second proposal shortly after.
func TestSizeTrigger(t *testing.T) {
	pub := &recordingPublisher{}
	svc, q := New(Config{MaxSize: 3, Delay: 10 * time.Second}, fakePeerQuery{}, pub, nil)
	go svc.Run()
	defer svc.Shutdown()

	pushTx(t, q, "t1")
	pushTx(t, q, "t2")
	pushTx(t, q, "t3")

	deadline := time.After(200 * time.Millisecond)
	for {
		if len(pub.snapshot()) >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("expected a proposal to be emitted on size trigger")
		case <-time.After(time.Millisecond):
		}
	}

	proposals := pub.snapshot()
	if len(proposals) != 1 {
		t.Fatalf("expected exactly 1 proposal, got %d", len(proposals))
	}
	if proposals[0].Height != 2 {
		t.Fatalf("expected first proposal height 2, got %d", proposals[0].Height)
	}
	if len(proposals[0].Transactions) != 3 {
		t.Fatalf("expected 3 transactions in the proposal, got %d", len(proposals[0].Transactions))
	}
}

// S2 — time trigger: max_size=100, delay=50ms. Pushing 2 transactions
// should produce a proposal around the delay, not immediately.
func TestTimeTrigger(t *testing.T) {
	pub := &recordingPublisher{}
	svc, q := New(Config{MaxSize: 100, Delay: 50 * time.Millisecond}, fakePeerQuery{}, pub, nil)
	go svc.Run()
	defer svc.Shutdown()

	pushTx(t, q, "t1")
	pushTx(t, q, "t2")

	if len(pub.snapshot()) != 0 {
		t.Fatal("did not expect a proposal before the timer fires")
	}

	time.Sleep(120 * time.Millisecond)

	proposals := pub.snapshot()
	if len(proposals) != 1 {
		t.Fatalf("expected exactly 1 proposal after the timer fired, got %d", len(proposals))
	}
	if len(proposals[0].Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(proposals[0].Transactions))
	}
}

// S3 — height monotonicity across 5 successive size-triggered
// proposals.
func TestHeightMonotonicity(t *testing.T) {
	pub := &recordingPublisher{}
	svc, q := New(Config{MaxSize: 1, Delay: 10 * time.Second}, fakePeerQuery{}, pub, nil)
	go svc.Run()
	defer svc.Shutdown()

	for i := 0; i < 5; i++ {
		pushTx(t, q, "t")
	}

	deadline := time.After(500 * time.Millisecond)
	for {
		if len(pub.snapshot()) >= 5 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected 5 proposals, got %d", len(pub.snapshot()))
		case <-time.After(time.Millisecond):
		}
	}

	proposals := pub.snapshot()
	want := []uint64{2, 3, 4, 5, 6}
	for i, w := range want {
		if proposals[i].Height != w {
			t.Fatalf("expected heights %v, got %v", want, heightsOf(proposals))
		}
	}
}

func heightsOf(proposals []message.Proposal) []uint64 {
	out := make([]uint64, len(proposals))
	for i, p := range proposals {
		out[i] = p.Height
	}
	return out
}

// An empty queue at timer-fire skips emission entirely (EmptyBatch).
func TestEmptyQueueSkipsEmission(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := New(Config{MaxSize: 100, Delay: 30 * time.Millisecond}, fakePeerQuery{}, pub, nil)
	go svc.Run()
	defer svc.Shutdown()

	time.Sleep(100 * time.Millisecond)

	if len(pub.snapshot()) != 0 {
		t.Fatalf("expected no proposals emitted for an empty queue, got %d", len(pub.snapshot()))
	}
}
