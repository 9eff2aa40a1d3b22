// Package signal defines the out-of-band exchange of WebRTC SDP
// offers and answers that two peers need before a direct data-channel
// connection can be established between them.
package signal

import webrtc "github.com/pion/webrtc/v2"

// OfferPromiseResponse carries the answer to an SDP offer, or the
// error that prevented one.
type OfferPromiseResponse struct {
	Answer *webrtc.SessionDescription
	Error  error
}

// OfferPromise wraps an inbound SDP offer with the means to respond to
// it asynchronously, once the receiving side has built its own
// PeerConnection and produced an answer.
type OfferPromise struct {
	From     string
	Offer    webrtc.SessionDescription
	RespChan chan<- OfferPromiseResponse
}

// Respond delivers answer (or err) back to whichever goroutine is
// waiting on this promise.
func (p *OfferPromise) Respond(answer *webrtc.SessionDescription, err error) {
	p.RespChan <- OfferPromiseResponse{Answer: answer, Error: err}
}

// Signal is the collaborator a WebRTCStreamLayer uses to exchange SDP
// offers and answers before a peer connection exists to carry them.
type Signal interface {
	// ID returns the identifier peers use to address an offer to this
	// node over the signaling channel.
	ID() string

	// Listen starts receiving inbound offers and forwarding them onto
	// Consumer.
	Listen() error

	// Consumer returns the channel inbound offers arrive on.
	Consumer() <-chan OfferPromise

	// Offer sends an SDP offer to target and blocks for its answer.
	Offer(target string, offer webrtc.SessionDescription) (*webrtc.SessionDescription, error)

	// Close releases the signaling channel.
	Close() error
}
