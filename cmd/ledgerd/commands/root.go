package commands

import (
	"github.com/spf13/cobra"
)

var config = NewDefaultCLIConfig()

// RootCmd is the root command for ledgerd.
var RootCmd = &cobra.Command{
	Use:              "ledgerd",
	Short:            "permissioned ledger ordering/validation core",
	TraverseChildren: true,
}

func init() {
	RootCmd.AddCommand(NewKeygenCmd())
	RootCmd.AddCommand(NewRunCmd())
	RootCmd.AddCommand(NewSignalServerCmd())
	RootCmd.AddCommand(NewVersionCmd())
}
