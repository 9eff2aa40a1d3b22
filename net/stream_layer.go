package net

import (
	"net"
	"time"
)

// StreamLayer is the low-level stream abstraction NetworkTransport is
// built on, so that plain TCP and a WebRTC data channel can both back
// the same framed RPC protocol.
type StreamLayer interface {
	net.Listener

	// Dial opens a new outgoing connection to address.
	Dial(address string, timeout time.Duration) (net.Conn, error)

	// AdvertiseAddr returns the publicly reachable address of this
	// stream layer.
	AdvertiseAddr() string
}
