package main

import (
	"math/big"

	"github.com/spf13/cobra"

	"github.com/decibling/smart-contracts/internal/auction"
)

type settleView struct {
	Tx         *txView             `json:"tx"`
	Winner     string              `json:"winner"`
	Settlement *auction.Settlement `json:"settlement"`
}

func newAuctionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auction",
		Short: "Mint items and run auctions",
		Long: "Mint items and run auctions. With --auction-version 1 the string-keyed DeciblingAuction is driven\n" +
			"and every <item> argument is the item's uri instead of its token id.",
	}
	var version int
	cmd.PersistentFlags().IntVar(&version, "auction-version", 0, "Auction interface version, overriding contracts.auction_version")

	// withOrchestrator connects and parses the leading item argument
	withOrchestrator := func(cmd *cobra.Command, args []string, signer bool) (*auction.Orchestrator, *big.Int, error) {
		if cmd.Flags().Changed("auction-version") {
			a.cfg.Contracts.AuctionVersion = version
		}
		if err := a.connect(cmd.Context(), signer); err != nil {
			return nil, nil, err
		}
		o, err := a.auctionOrchestrator()
		if err != nil {
			return nil, nil, err
		}
		if len(args) == 0 {
			return o, nil, nil
		}
		itemID, err := a.itemID(args[0])
		if err != nil {
			return nil, nil, err
		}
		return o, itemID, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status <item>",
		Short: "Show the phase, auction record and top bid of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, itemID, err := withOrchestrator(cmd, args, false)
			if err != nil {
				return err
			}
			snapshot, err := o.Snapshot(cmd.Context(), itemID)
			if err != nil {
				return err
			}
			return a.print(snapshot)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "mint <uri> <name>",
		Short: "Mint an item for the signer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, err := withOrchestrator(cmd, nil, true)
			if err != nil {
				return err
			}
			proof, err := a.proof()
			if err != nil {
				return err
			}
			itemID, err := o.CreateNFT(cmd.Context(), args[0], args[1], proof)
			if err != nil {
				return err
			}
			return a.print(map[string]interface{}{"itemId": itemID})
		},
	})

	var startPrice, increment, start, end string
	create := &cobra.Command{
		Use:   "create <item>",
		Short: "Open an auction for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, itemID, err := withOrchestrator(cmd, args, true)
			if err != nil {
				return err
			}

			req := auction.BiddingRequest{ItemID: itemID}
			if req.StartPrice, err = parseBig("start price", startPrice); err != nil {
				return err
			}
			if req.Increment, err = parseBig("increment", increment); err != nil {
				return err
			}

			now, err := a.client.BlockTime(ctx)
			if err != nil {
				return err
			}
			if req.StartTime, err = parseTime("start", start, now); err != nil {
				return err
			}
			if req.EndTime, err = parseTime("end", end, now); err != nil {
				return err
			}

			receipt, err := o.CreateBidding(ctx, req)
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	}
	create.Flags().StringVar(&startPrice, "start-price", "0", "Lowest accepted first bid in token base units")
	create.Flags().StringVar(&increment, "increment", "0", "Minimum raise over the top bid in token base units")
	create.Flags().StringVar(&start, "start", "+0s", "Start time: RFC3339, unix seconds or +duration from chain time")
	create.Flags().StringVar(&end, "end", "+24h", "End time: RFC3339, unix seconds or +duration from chain time")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "bid <item> <amount>",
		Short: "Bid on an open auction, approving the token spend when needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, itemID, err := withOrchestrator(cmd, args, true)
			if err != nil {
				return err
			}
			amount, err := parseBig("amount", args[1])
			if err != nil {
				return err
			}
			receipt, err := o.Bid(cmd.Context(), itemID, amount)
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "extend <item> <end>",
		Short: "Move the end time of an open auction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, itemID, err := withOrchestrator(cmd, args, true)
			if err != nil {
				return err
			}
			now, err := a.client.BlockTime(ctx)
			if err != nil {
				return err
			}
			endTime, err := parseTime("end", args[1], now)
			if err != nil {
				return err
			}
			receipt, err := o.UpdateBidEndtime(ctx, itemID, endTime)
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "settle <item>",
		Short: "Settle an ended auction and show the fee split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, itemID, err := withOrchestrator(cmd, args, true)
			if err != nil {
				return err
			}
			result, err := o.SettleBid(cmd.Context(), itemID)
			if err != nil {
				return err
			}
			return a.print(settleView{
				Tx:         newTxView(result.Receipt),
				Winner:     result.Winner.Hex(),
				Settlement: result.Settlement,
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <item>",
		Short: "Cancel an auction that has no bids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, itemID, err := withOrchestrator(cmd, args, true)
			if err != nil {
				return err
			}
			receipt, err := o.CancelBid(cmd.Context(), itemID)
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	})

	return cmd
}
