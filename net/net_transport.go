package net

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mosaic-bft/ledgerd/message"
)

const (
	rpcVerify uint8 = iota
	rpcTorii
	rpcFindTransaction
	rpcFindAsset
)

// bufSize is generous enough to hold a full proposal-sized batch
// without forcing the bufio layer to grow, while still bounding how
// much an adversarial peer can make this node buffer per frame.
const bufSize = math.MaxUint16

// maxFrameLen bounds a single frame's declared length, so a peer that
// sends a bogus length prefix can't make this node allocate without
// bound.
const maxFrameLen = 64 * 1024 * 1024

// ErrTransportShutdown is returned by in-flight operations once Close
// has been called.
var ErrTransportShutdown = errors.New("transport shutdown")

// NetworkTransport implements Transport over a StreamLayer, framing
// every request and response as a one-byte RPC type tag followed by a
// four-byte big-endian length and that many bytes of canonically
// encoded payload. Outbound connections are pooled per target so a
// steady stream of RPCs to the same peer reuses one TCP connection.
type NetworkTransport struct {
	logger *logrus.Entry

	connPool     map[string][]*netConn
	connPoolLock sync.Mutex
	maxPool      int

	consumeCh chan RPC

	shutdown     bool
	shutdownCh   chan struct{}
	shutdownLock sync.Mutex

	stream StreamLayer

	timeout time.Duration
}

type netConn struct {
	target string
	conn   net.Conn
	r      *bufio.Reader
	w      *bufio.Writer
}

func (c *netConn) Release() error {
	return c.conn.Close()
}

// NewNetworkTransport builds a transport over stream. maxPool bounds
// how many idle outbound connections are kept per target; timeout
// applies to both dialing and each RPC round trip.
func NewNetworkTransport(stream StreamLayer, maxPool int, timeout time.Duration, logger *logrus.Entry) *NetworkTransport {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &NetworkTransport{
		connPool:   make(map[string][]*netConn),
		consumeCh:  make(chan RPC),
		logger:     logger,
		maxPool:    maxPool,
		shutdownCh: make(chan struct{}),
		stream:     stream,
		timeout:    timeout,
	}
}

// Close implements Transport.
func (n *NetworkTransport) Close() error {
	n.shutdownLock.Lock()
	defer n.shutdownLock.Unlock()

	if !n.shutdown {
		close(n.shutdownCh)
		n.stream.Close()
		n.shutdown = true
	}
	return nil
}

func (n *NetworkTransport) IsShutdown() bool {
	select {
	case <-n.shutdownCh:
		return true
	default:
		return false
	}
}

// Consumer implements Transport.
func (n *NetworkTransport) Consumer() <-chan RPC {
	return n.consumeCh
}

// LocalAddr implements Transport.
func (n *NetworkTransport) LocalAddr() string {
	if addr := n.stream.Addr(); addr != nil {
		return addr.String()
	}
	return ""
}

// AdvertiseAddr implements Transport.
func (n *NetworkTransport) AdvertiseAddr() string {
	return n.stream.AdvertiseAddr()
}

func (n *NetworkTransport) getPooledConn(target string) *netConn {
	n.connPoolLock.Lock()
	defer n.connPoolLock.Unlock()

	conns, ok := n.connPool[target]
	if !ok || len(conns) == 0 {
		return nil
	}

	num := len(conns)
	conn := conns[num-1]
	n.connPool[target] = conns[:num-1]
	return conn
}

func (n *NetworkTransport) getConn(target string) (*netConn, error) {
	if conn := n.getPooledConn(target); conn != nil {
		return conn, nil
	}

	conn, err := n.stream.Dial(target, n.timeout)
	if err != nil {
		return nil, err
	}

	return &netConn{
		target: target,
		conn:   conn,
		r:      bufio.NewReaderSize(conn, bufSize),
		w:      bufio.NewWriterSize(conn, bufSize),
	}, nil
}

func (n *NetworkTransport) returnConn(conn *netConn) {
	n.connPoolLock.Lock()
	defer n.connPoolLock.Unlock()

	conns := n.connPool[conn.target]
	if !n.IsShutdown() && len(conns) < n.maxPool {
		n.connPool[conn.target] = append(conns, conn)
	} else {
		conn.Release()
	}
}

func writeFrame(w *bufio.Writer, rpcType uint8, payload []byte) error {
	if err := w.WriteByte(rpcType); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return w.Flush()
}

func readFrame(r *bufio.Reader) (rpcType uint8, payload []byte, err error) {
	rpcType, err = r.ReadByte()
	if err != nil {
		return 0, nil, err
	}

	var lenBuf [4]byte
	if _, err = io.ReadFull(r, lenBuf[:]); err != nil {
		return 0, nil, err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length > maxFrameLen {
		return 0, nil, fmt.Errorf("frame length %d exceeds maximum %d", length, maxFrameLen)
	}

	payload = make([]byte, length)
	if _, err = io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return rpcType, payload, nil
}

// genericRPC sends args as rpcType, then decodes the error string and
// response frame that follow, returning the connection to the pool
// only when the wire exchange itself succeeded.
func (n *NetworkTransport) genericRPC(target string, rpcType uint8, args interface{}, resp interface{}) error {
	conn, err := n.getConn(target)
	if err != nil {
		return err
	}

	if n.timeout > 0 {
		conn.conn.SetDeadline(time.Now().Add(n.timeout))
	}

	payload, err := message.Encode(args)
	if err != nil {
		conn.Release()
		return err
	}

	if err := writeFrame(conn.w, rpcType, payload); err != nil {
		conn.Release()
		return err
	}

	_, errPayload, err := readFrame(conn.r)
	if err != nil {
		conn.Release()
		return err
	}
	var rpcErr string
	if err := message.Decode(errPayload, &rpcErr); err != nil {
		conn.Release()
		return err
	}

	_, respPayload, err := readFrame(conn.r)
	if err != nil {
		conn.Release()
		return err
	}
	if err := message.Decode(respPayload, resp); err != nil {
		conn.Release()
		return err
	}

	n.returnConn(conn)

	if rpcErr != "" {
		return errors.New(rpcErr)
	}
	return nil
}

// Verify implements Transport.
func (n *NetworkTransport) Verify(target string, event message.ConsensusEvent) (StatusResponse, error) {
	var resp StatusResponse
	err := n.genericRPC(target, rpcVerify, event, &resp)
	return resp, err
}

// Torii implements Transport.
func (n *NetworkTransport) Torii(target string, tx message.Transaction) (StatusResponse, error) {
	var resp StatusResponse
	err := n.genericRPC(target, rpcTorii, tx, &resp)
	return resp, err
}

// FindTransaction implements Transport.
func (n *NetworkTransport) FindTransaction(target string, q message.Query) (message.TransactionResponse, error) {
	var resp message.TransactionResponse
	err := n.genericRPC(target, rpcFindTransaction, q, &resp)
	return resp, err
}

// FindAsset implements Transport.
func (n *NetworkTransport) FindAsset(target string, q message.Query) (message.AssetResponse, error) {
	var resp message.AssetResponse
	err := n.genericRPC(target, rpcFindAsset, q, &resp)
	return resp, err
}

// Listen implements Transport.
func (n *NetworkTransport) Listen() {
	for {
		conn, err := n.stream.Accept()
		if err != nil {
			if n.IsShutdown() {
				return
			}
			n.logger.WithField("error", err).Error("failed to accept connection")
			continue
		}
		n.logger.WithFields(logrus.Fields{
			"local":  conn.LocalAddr(),
			"remote": conn.RemoteAddr(),
		}).Debug("accepted connection")

		go n.handleConn(conn)
	}
}

func (n *NetworkTransport) handleConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReaderSize(conn, bufSize)
	w := bufio.NewWriterSize(conn, bufSize)

	for {
		if err := n.handleCommand(r, w); err != nil {
			if err == ErrTransportShutdown {
				n.logger.WithField("error", err).Warn("closing connection on shutdown")
			} else if err != io.EOF {
				n.logger.WithField("error", err).Error("failed to handle command")
			}
			return
		}
	}
}

func (n *NetworkTransport) handleCommand(r *bufio.Reader, w *bufio.Writer) error {
	rpcType, payload, err := readFrame(r)
	if err != nil {
		return err
	}

	respCh := make(chan RPCResponse, 1)
	rpc := RPC{RespChan: respCh}

	switch rpcType {
	case rpcVerify:
		var event message.ConsensusEvent
		if err := message.Decode(payload, &event); err != nil {
			return err
		}
		rpc.Command = &event
	case rpcTorii:
		var tx message.Transaction
		if err := message.Decode(payload, &tx); err != nil {
			return err
		}
		rpc.Command = &tx
	case rpcFindTransaction:
		var q message.Query
		if err := message.Decode(payload, &q); err != nil {
			return err
		}
		rpc.Command = FindTransactionCommand{q}
	case rpcFindAsset:
		var q message.Query
		if err := message.Decode(payload, &q); err != nil {
			return err
		}
		rpc.Command = FindAssetCommand{q}
	default:
		return fmt.Errorf("unknown rpc type %d", rpcType)
	}

	select {
	case n.consumeCh <- rpc:
	case <-n.shutdownCh:
		return ErrTransportShutdown
	}

	select {
	case resp := <-respCh:
		respErr := ""
		if resp.Error != nil {
			respErr = resp.Error.Error()
		}
		errPayload, err := message.Encode(respErr)
		if err != nil {
			return err
		}
		if err := writeFrame(w, rpcType, errPayload); err != nil {
			return err
		}

		respPayload, err := message.Encode(resp.Response)
		if err != nil {
			return err
		}
		return writeFrame(w, rpcType, respPayload)
	case <-n.shutdownCh:
		return ErrTransportShutdown
	}
}

// FindTransactionCommand and FindAssetCommand disambiguate the two
// find() RPCs, which otherwise share an identical Query request type.
type FindTransactionCommand struct {
	Query message.Query
}

type FindAssetCommand struct {
	Query message.Query
}
