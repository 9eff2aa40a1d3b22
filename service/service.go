// Package service exposes a node's stats over a small HTTP surface,
// following the teacher's own service package pattern: one handler,
// registered once, serving whatever GetStats reports at request time.
package service

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mosaic-bft/ledgerd/node"
)

// Service serves a single node's GetStats output as JSON.
type Service struct {
	bindAddress string
	node        *node.Node
	logger      *logrus.Logger
	mux         *http.ServeMux
}

// NewService builds a Service bound to bindAddress. It registers its
// handler on a fresh ServeMux rather than http.DefaultServeMux, so more
// than one Service can exist in the same process (useful for tests).
func NewService(bindAddress string, n *node.Node, logger *logrus.Logger) *Service {
	s := &Service{
		bindAddress: bindAddress,
		node:        n,
		logger:      logger,
		mux:         http.NewServeMux(),
	}

	s.mux.HandleFunc("/Stats", s.GetStats)

	return s
}

// Serve blocks, running the HTTP server until it fails.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("service serving")
	if err := http.ListenAndServe(s.bindAddress, s.mux); err != nil {
		s.logger.WithField("error", err).Error("service failed")
	}
}

// GetStats answers GET /Stats with the node's flat stats map.
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("stats request")
	stats := s.node.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
