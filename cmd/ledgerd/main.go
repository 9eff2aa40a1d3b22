package main

import (
	"fmt"
	"os"

	"github.com/mosaic-bft/ledgerd/cmd/ledgerd/commands"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
