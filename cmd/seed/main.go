package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load starter data into the outdoormatch store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(communitiesCmd())
	return cmd
}
