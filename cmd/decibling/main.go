package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/decibling/smart-contracts/internal/logger"
)

func newRootCmd(a *app) *cobra.Command {
	var (
		configFile string
		envPath    string
	)

	rootCmd := &cobra.Command{
		Use:           "decibling",
		Short:         "Decibling contract toolkit",
		Long:          "Reads and drives the Decibling NFT, auction, staking and faucet contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(configFile, envPath)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", "config/", "Path to environment files")

	rootCmd.AddCommand(newAccountCmd(a))
	rootCmd.AddCommand(newSlotCmd(a))
	rootCmd.AddCommand(newMerkleCmd(a))
	rootCmd.AddCommand(newAuctionCmd(a))
	rootCmd.AddCommand(newStakingCmd(a))
	rootCmd.AddCommand(newFaucetCmd(a))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	a := newApp(os.Stdout)
	err := newRootCmd(a).ExecuteContext(ctx)

	a.close()
	logger.Flush(2 * time.Second)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
