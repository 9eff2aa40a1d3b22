package net

import (
	"net"
	"time"

	"github.com/pion/datachannel"
)

// webRTCConn adapts a detached pion data channel to net.Conn, so the
// framed request/response protocol NetworkTransport speaks over
// TCPStreamLayer works unchanged over a NAT-traversing WebRTC link.
type webRTCConn struct {
	dataChannel datachannel.ReadWriteCloser
}

func newWebRTCConn(dc datachannel.ReadWriteCloser) *webRTCConn {
	return &webRTCConn{dataChannel: dc}
}

func (c *webRTCConn) Read(p []byte) (int, error)  { return c.dataChannel.Read(p) }
func (c *webRTCConn) Write(p []byte) (int, error) { return c.dataChannel.Write(p) }
func (c *webRTCConn) Close() error                { return c.dataChannel.Close() }

// LocalAddr and RemoteAddr have no meaning for a data channel; callers
// that need peer identity already have it from the signaling exchange
// that established this connection.
func (c *webRTCConn) LocalAddr() net.Addr  { return nil }
func (c *webRTCConn) RemoteAddr() net.Addr { return nil }

func (c *webRTCConn) SetDeadline(t time.Time) error      { return nil }
func (c *webRTCConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *webRTCConn) SetWriteDeadline(t time.Time) error { return nil }
