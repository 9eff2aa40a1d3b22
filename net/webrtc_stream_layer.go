package net

import (
	"fmt"
	"net"
	"time"

	"github.com/pion/datachannel"
	webrtc "github.com/pion/webrtc/v2"
	"github.com/sirupsen/logrus"

	"github.com/mosaic-bft/ledgerd/net/signal"
)

// WebRTCStreamLayer implements StreamLayer over WebRTC data channels,
// so two nodes behind NAT can still exchange framed RPCs once they've
// rendezvoused through a Signal. It exists alongside TCPStreamLayer,
// not in place of it: a node picks one StreamLayer to back its
// NetworkTransport at startup.
type WebRTCStreamLayer struct {
	signal          signal.Signal
	peerConnections map[string]*webrtc.PeerConnection
	dataChannels    map[uint16]datachannel.ReadWriteCloser
	incomingConns   chan net.Conn
	logger          *logrus.Entry
}

// NewWebRTCStreamLayer builds a stream layer on top of sig and starts
// its signaling loop in the background.
func NewWebRTCStreamLayer(sig signal.Signal, logger *logrus.Entry) *WebRTCStreamLayer {
	if logger == nil {
		log := logrus.New()
		logger = logrus.NewEntry(log)
	}

	w := &WebRTCStreamLayer{
		signal:          sig,
		peerConnections: make(map[string]*webrtc.PeerConnection),
		dataChannels:    make(map[uint16]datachannel.ReadWriteCloser),
		incomingConns:   make(chan net.Conn),
		logger:          logger,
	}

	go w.listen()

	return w
}

// listen drives the signaling side of the handshake: every inbound
// offer gets its own PeerConnection, answered immediately, with the
// resulting data channel fed into incomingConns for Accept to pick up.
func (w *WebRTCStreamLayer) listen() error {
	go w.signal.Listen()

	for offerPromise := range w.signal.Consumer() {
		pc, err := w.newPeerConnection(false)
		if err != nil {
			w.logger.WithError(err).Error("failed to build answering peer connection")
			offerPromise.Respond(nil, err)
			continue
		}

		if err := pc.SetRemoteDescription(offerPromise.Offer); err != nil {
			offerPromise.Respond(nil, err)
			continue
		}

		answer, err := pc.CreateAnswer(nil)
		if err != nil {
			offerPromise.Respond(nil, err)
			continue
		}
		if err := pc.SetLocalDescription(answer); err != nil {
			offerPromise.Respond(nil, err)
			continue
		}

		offerPromise.Respond(&answer, nil)
		w.peerConnections[offerPromise.From] = pc
	}
	return nil
}

// newPeerConnection builds a PeerConnection with detached data
// channels. When active is true, this side creates the data channel
// (it is making the offer); otherwise it waits for the remote side's
// OnDataChannel callback.
func (w *WebRTCStreamLayer) newPeerConnection(active bool) (*webrtc.PeerConnection, error) {
	settings := webrtc.SettingEngine{}
	settings.DetachDataChannels()
	api := webrtc.NewAPI(webrtc.WithSettingEngine(settings))

	config := webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}},
	}

	pc, err := api.NewPeerConnection(config)
	if err != nil {
		return nil, err
	}

	pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		w.logger.WithField("state", s.String()).Debug("ice connection state changed")
	})

	if active {
		dc, err := pc.CreateDataChannel("ledgerd", nil)
		if err != nil {
			return nil, err
		}
		w.pipeDataChannel(dc)
	} else {
		pc.OnDataChannel(w.pipeDataChannel)
	}

	return pc, nil
}

func (w *WebRTCStreamLayer) pipeDataChannel(dc *webrtc.DataChannel) {
	dc.OnOpen(func() {
		raw, err := dc.Detach()
		if err != nil {
			w.logger.WithError(err).Error("failed to detach data channel")
			return
		}
		w.dataChannels[*dc.ID()] = raw
		w.incomingConns <- newWebRTCConn(raw)
	})
}

// Dial implements StreamLayer: it offers target a new data channel
// over the signal, waits for the answer, and blocks until the channel
// finishes opening or timeout elapses.
func (w *WebRTCStreamLayer) Dial(target string, timeout time.Duration) (net.Conn, error) {
	pc, err := w.newPeerConnection(true)
	if err != nil {
		return nil, err
	}

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		return nil, err
	}
	if err := pc.SetLocalDescription(offer); err != nil {
		return nil, err
	}

	answer, err := w.signal.Offer(target, offer)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, fmt.Errorf("no answer from %s", target)
	}
	if err := pc.SetRemoteDescription(*answer); err != nil {
		return nil, err
	}

	w.peerConnections[target] = pc

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil, fmt.Errorf("dial to %s timed out waiting for data channel", target)
	case conn := <-w.incomingConns:
		return conn, nil
	}
}

// Accept implements net.Listener by draining the connections that
// opened data channels feed into incomingConns.
func (w *WebRTCStreamLayer) Accept() (net.Conn, error) {
	conn, ok := <-w.incomingConns
	if !ok {
		return nil, fmt.Errorf("webrtc stream layer closed")
	}
	return conn, nil
}

// Close implements net.Listener.
func (w *WebRTCStreamLayer) Close() error {
	w.signal.Close()
	for _, pc := range w.peerConnections {
		pc.Close()
	}
	for _, dc := range w.dataChannels {
		dc.Close()
	}
	return nil
}

// Addr implements net.Listener. A WebRTC stream layer has no bound
// socket address; callers identify it by its signal ID instead.
func (w *WebRTCStreamLayer) Addr() net.Addr {
	return nil
}

// AdvertiseAddr implements StreamLayer.
func (w *WebRTCStreamLayer) AdvertiseAddr() string {
	return w.signal.ID()
}
