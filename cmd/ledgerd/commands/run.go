package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mosaic-bft/ledgerd/common"
	"github.com/mosaic-bft/ledgerd/crypto"
	"github.com/mosaic-bft/ledgerd/message"
	netpkg "github.com/mosaic-bft/ledgerd/net"
	rtcsignal "github.com/mosaic-bft/ledgerd/net/signal"
	"github.com/mosaic-bft/ledgerd/node"
	"github.com/mosaic-bft/ledgerd/peers"
	"github.com/mosaic-bft/ledgerd/service"
)

// NewRunCmd produces the run command: load identity and peer set from
// datadir, wire a Node around a TCP transport, and serve both the
// ordering/validation RPC surface and the stats HTTP endpoint.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a node",
		RunE:  run,
	}

	cmd.Flags().StringVar(&config.DataDir, "datadir", config.DataDir, "Directory for the identity key and peer set")
	cmd.Flags().StringVar(&config.BindAddr, "listen", config.BindAddr, "IP:Port to bind the RPC transport")
	cmd.Flags().StringVar(&config.AdvertiseAddr, "advertise", config.AdvertiseAddr, "IP:Port peers should dial, if different from --listen")
	cmd.Flags().StringVar(&config.ServiceAddr, "service-listen", config.ServiceAddr, "IP:Port of the stats HTTP service")
	cmd.Flags().IntVar(&config.MaxPool, "max-pool", config.MaxPool, "Max number of pooled outbound connections per peer")
	cmd.Flags().DurationVar(&config.TCPTimeout, "timeout", config.TCPTimeout, "TCP dial/RPC timeout")
	cmd.Flags().IntVar(&config.MaxProposalSize, "proposal-size", config.MaxProposalSize, "Ordering service size trigger")
	cmd.Flags().DurationVar(&config.ProposalDelay, "proposal-delay", config.ProposalDelay, "Ordering service time trigger")
	cmd.Flags().BoolVar(&config.Store, "store", config.Store, "Persist the peer directory with badger instead of keeping it in memory")
	cmd.Flags().StringVar(&config.LogLevel, "log", config.LogLevel, "Log level (debug, info, warn, error, fatal, panic)")
	cmd.Flags().BoolVar(&config.WebRTC, "webrtc", config.WebRTC, "Use a WebRTC data channel instead of plain TCP, signaled over --signal-router")
	cmd.Flags().StringVar(&config.SignalRouter, "signal-router", config.SignalRouter, "host:port of the WAMP router used for WebRTC signaling (required with --webrtc)")
	cmd.Flags().StringVar(&config.SignalRealm, "signal-realm", config.SignalRealm, "WAMP realm used for WebRTC signaling and proposal-announce broadcast")

	viper.BindPFlags(cmd.Flags())

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	viper.SetConfigName("ledgerd")
	viper.AddConfigPath(config.DataDir)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %s", err)
		}
	}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("parsing config: %s", err)
	}

	logger := common.NewLogger(common.LogLevel(config.LogLevel), "")
	logger.WithFields(logrus.Fields{
		"datadir":        config.DataDir,
		"listen":         config.BindAddr,
		"service_listen": config.ServiceAddr,
		"store":          config.Store,
	}).Debug("run")

	pemKey := crypto.NewPemKey(config.DataDir)
	key, err := pemKey.ReadKey()
	if err != nil {
		return fmt.Errorf("reading identity key: %s", err)
	}
	if key == nil {
		return fmt.Errorf("no identity key under %s; run `ledgerd keygen` first", config.DataDir)
	}

	advertise := config.AdvertiseAddr
	if advertise == "" {
		advertise = config.BindAddr
	}
	self := peers.PeerEntry{NetAddr: advertise, PubKeyHex: message.PublicKeyHex(key.PubKey())}

	others, err := peers.ReadJSONPeers(config.DataDir)
	if err != nil {
		return fmt.Errorf("reading peers.json: %s", err)
	}

	var directory peers.Directory
	if config.Store {
		bd, err := peers.NewBadgerDirectory(self, key, 0, filepath.Join(config.DataDir, "peers.db"))
		if err != nil {
			return fmt.Errorf("opening peer store: %s", err)
		}
		if len(others) > 0 {
			if err := bd.SetPeers(others); err != nil {
				return fmt.Errorf("seeding peer store: %s", err)
			}
		}
		directory = bd
	} else {
		directory = peers.NewStaticDirectory(self, key, 0, others)
	}

	var sig rtcsignal.Signal
	if config.SignalRouter != "" {
		sig, err = rtcsignal.NewWampSignal(config.SignalRouter, config.SignalRealm, self.NetAddr, config.TCPTimeout, logrus.NewEntry(logger))
		if err != nil {
			return fmt.Errorf("connecting to signaling router: %s", err)
		}
	}

	var stream netpkg.StreamLayer
	if config.WebRTC {
		if sig == nil {
			return fmt.Errorf("--webrtc requires --signal-router")
		}
		stream = netpkg.NewWebRTCStreamLayer(sig, logrus.NewEntry(logger))
	} else {
		stream, err = netpkg.NewTCPStreamLayer(config.BindAddr, advertise)
		if err != nil {
			return fmt.Errorf("binding transport: %s", err)
		}
	}
	transport := netpkg.NewNetworkTransport(stream, config.MaxPool, config.TCPTimeout, logrus.NewEntry(logger))

	var announcer netpkg.Announcer
	if sig != nil {
		announcer = sig.(netpkg.Announcer)
	}

	nodeConf := &node.Config{
		BindAddr:        config.BindAddr,
		AdvertiseAddr:   advertise,
		MaxPool:         config.MaxPool,
		TCPTimeout:      config.TCPTimeout,
		MaxProposalSize: config.MaxProposalSize,
		ProposalDelay:   config.ProposalDelay,
		DBPath:          config.DataDir,
		Announcer:       announcer,
		Logger:          logger,
	}

	n := node.New(nodeConf, directory, transport, nil)
	n.Serve()

	svc := service.NewService(config.ServiceAddr, n, logger)
	go svc.Serve()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh

	logger.Debug("shutting down")
	n.Shutdown()

	return nil
}
