package signal

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/gammazero/nexus/v3/router"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/sirupsen/logrus"
)

// Server is the rendezvous point two WampSignal-backed nodes dial
// through: an embedded WAMP router reachable over WebSocket, so a
// pair of NAT'd nodes can exchange SDP offers/answers without either
// one needing a routable address of its own. Operators run one
// Server per signaling realm; nodes only need its address.
type Server struct {
	address    string
	router     router.Router
	httpServer *http.Server
	logger     *logrus.Entry
}

// NewServer builds a Server bound to address under realm. certFile
// and keyFile are optional; when both are empty the server speaks
// plain WebSocket, suitable for a signaling realm reached over a
// private network or an already-terminated TLS proxy.
func NewServer(address, realm, certFile, keyFile string, logger *logrus.Entry) (*Server, error) {
	if logger == nil {
		log := logrus.New()
		logger = logrus.NewEntry(log)
	}

	routerConfig := &router.Config{
		RealmConfigs: []*router.RealmConfig{
			{URI: wamp.URI(realm), AnonymousAuth: true},
		},
	}

	nxr, err := router.NewRouter(routerConfig, logger)
	if err != nil {
		return nil, err
	}

	wss := router.NewWebsocketServer(nxr)
	httpServer := &http.Server{Handler: wss, Addr: address}

	if certFile != "" && keyFile != "" {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			nxr.Close()
			return nil, err
		}
		httpServer.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	}

	return &Server{
		address:    address,
		router:     nxr,
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Run blocks serving signaling traffic until Shutdown is called.
func (s *Server) Run() error {
	var err error
	if s.httpServer.TLSConfig != nil {
		err = s.httpServer.ListenAndServeTLS("", "")
	} else {
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		s.logger.WithError(err).Error("signal server stopped")
	}
	return err
}

// Shutdown stops the websocket server and closes the WAMP router.
func (s *Server) Shutdown() {
	defer s.router.Close()
	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		s.logger.WithError(err).Error("shutting down signal server")
	}
}

// Addr returns the address this Server is bound to.
func (s *Server) Addr() string {
	return s.address
}
