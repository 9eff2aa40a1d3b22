package commands

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mosaic-bft/ledgerd/common"
	rtcsignal "github.com/mosaic-bft/ledgerd/net/signal"
)

var (
	signalListenAddr string
	signalRealm      string
	signalCertFile   string
	signalKeyFile    string
)

// NewSignalServerCmd produces the signal-server command: run the
// rendezvous router that WebRTC-enabled nodes dial to exchange SDP
// offers/answers. A deployment behind NAT needs exactly one of these
// per signaling realm, reachable from every node.
func NewSignalServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signal-server",
		Short: "Run a WebRTC signaling router",
		RunE:  runSignalServer,
	}

	cmd.Flags().StringVar(&signalListenAddr, "listen", "0.0.0.0:8001", "IP:Port to bind the signaling WebSocket server")
	cmd.Flags().StringVar(&signalRealm, "realm", "ledgerd", "WAMP realm nodes connect under")
	cmd.Flags().StringVar(&signalCertFile, "tls-cert", "", "TLS certificate file (plain WebSocket if empty)")
	cmd.Flags().StringVar(&signalKeyFile, "tls-key", "", "TLS key file (plain WebSocket if empty)")

	return cmd
}

func runSignalServer(cmd *cobra.Command, args []string) error {
	logger := common.NewLogger(common.LogLevel(config.LogLevel), "")

	srv, err := rtcsignal.NewServer(signalListenAddr, signalRealm, signalCertFile, signalKeyFile, nil)
	if err != nil {
		return err
	}

	go func() {
		if err := srv.Run(); err != nil {
			logger.WithError(err).Error("signal server exited")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh

	srv.Shutdown()
	return nil
}
