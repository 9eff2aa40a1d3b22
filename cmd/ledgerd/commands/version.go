package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosaic-bft/ledgerd/version"
)

// NewVersionCmd produces the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.Version)
			return nil
		},
	}
}
