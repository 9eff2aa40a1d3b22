package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"
	webrtc "github.com/pion/webrtc/v2"
	"github.com/sirupsen/logrus"
)

// WampSignal implements Signal over a WAMP router reached by
// WebSocket: it registers one RPC procedure named after this node's
// own ID, and SDP offers addressed to that ID arrive as WAMP
// invocations rather than as a direct socket connection — exactly the
// rendezvous a pair of NAT'd nodes need before they can open a direct
// data channel.
type WampSignal struct {
	id       string
	client   *client.Client
	consumer chan OfferPromise
	timeout  time.Duration
	logger   *logrus.Entry
}

// NewWampSignal connects to the WAMP router at routerAddr (host:port,
// plain WebSocket) under realm, identifying this node as id.
func NewWampSignal(routerAddr, realm, id string, timeout time.Duration, logger *logrus.Entry) (*WampSignal, error) {
	cfg := client.Config{Realm: realm, ResponseTimeout: timeout}

	cli, err := client.ConnectNet(context.Background(), fmt.Sprintf("ws://%s", routerAddr), cfg)
	if err != nil {
		return nil, err
	}

	return &WampSignal{
		id:       id,
		client:   cli,
		consumer: make(chan OfferPromise),
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// ID implements Signal.
func (s *WampSignal) ID() string {
	return s.id
}

// Listen implements Signal: it registers this node's own ID as a WAMP
// procedure, so that Offer calls made by other nodes against that name
// reach callHandler.
func (s *WampSignal) Listen() error {
	if err := s.client.Register(s.id, s.callHandler, nil); err != nil {
		s.logger.WithError(err).Error("failed to register signaling procedure")
		return err
	}
	return nil
}

// Consumer implements Signal.
func (s *WampSignal) Consumer() <-chan OfferPromise {
	return s.consumer
}

// Offer implements Signal: it calls target's registered procedure
// with the marshaled offer and waits synchronously for the answer.
func (s *WampSignal) Offer(target string, offer webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	raw, err := json.Marshal(offer)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.client.Call(ctx, target, nil, wamp.List{s.id, string(raw)}, nil, nil)
	if err != nil {
		return nil, err
	}

	sdp, ok := wamp.AsString(result.Arguments[0])
	if !ok {
		return nil, fmt.Errorf("malformed answer from %s", target)
	}

	answer := new(webrtc.SessionDescription)
	if err := json.Unmarshal([]byte(sdp), answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// Close implements Signal.
func (s *WampSignal) Close() error {
	s.client.Unregister(s.id)
	return s.client.Close()
}

func (s *WampSignal) callHandler(ctx context.Context, inv *wamp.Invocation) client.InvokeResult {
	if len(inv.Arguments) != 2 {
		return errResult(fmt.Sprintf("expected 2 arguments, got %d", len(inv.Arguments)))
	}

	from, ok := wamp.AsString(inv.Arguments[0])
	if !ok {
		return errResult("malformed from argument")
	}
	sdp, ok := wamp.AsString(inv.Arguments[1])
	if !ok {
		return errResult("malformed offer argument")
	}

	var offer webrtc.SessionDescription
	if err := json.Unmarshal([]byte(sdp), &offer); err != nil {
		return errResult(fmt.Sprintf("error parsing offer: %v", err))
	}

	respCh := make(chan OfferPromiseResponse, 1)
	s.consumer <- OfferPromise{From: from, Offer: offer, RespChan: respCh}

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		return errResult("signaling callee timeout")
	case resp := <-respCh:
		if resp.Error != nil {
			return errResult(resp.Error.Error())
		}
		raw, err := json.Marshal(resp.Answer)
		if err != nil {
			return errResult(fmt.Sprintf("error marshaling answer: %v", err))
		}
		return client.InvokeResult{Args: wamp.List{string(raw)}}
	}
}

// errProcessingOffer is the WAMP error URI reported back to a caller
// whose offer this node could not process; the actual reason travels
// in the invocation's Args, not the URI itself.
const errProcessingOffer = wamp.URI("ledgerd.signal.processing_offer")

func errResult(msg string) client.InvokeResult {
	return client.InvokeResult{Err: errProcessingOffer, Args: wamp.List{msg}}
}

// Announce publishes height as a lightweight event to topic (the
// Fabric passes "proposal") on the same WAMP router, so the Fabric's broadcast-announce
// enrichment and the peer-to-peer signaling channel share a single
// connection rather than requiring a second one.
func (s *WampSignal) Announce(topic string, height uint64) {
	s.client.Publish(topic, nil, wamp.List{height}, nil)
}
