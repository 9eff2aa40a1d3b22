// Package net implements the peer transport fabric (C3): four RPC
// methods under three services, carried over framed TCP connections
// using the canonical message encoding, plus the capability-interface
// dispatch that routes an inbound RPC to whichever handler the node
// registered for it at startup.
package net

// RPCResponse captures a handler's response, or the error it failed
// with, never both meaningfully populated at once.
type RPCResponse struct {
	Response interface{}
	Error    error
}

// RPC encapsulates one decoded inbound request and the channel its
// response must be sent back on.
type RPC struct {
	Command  interface{}
	RespChan chan<- RPCResponse
}

// Respond delivers a handler's outcome back to the connection that is
// blocked waiting for it.
func (r *RPC) Respond(resp interface{}, err error) {
	r.RespChan <- RPCResponse{resp, err}
}
