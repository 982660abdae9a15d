package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/slot"
)

func newSlotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Read raw contract storage",
	}

	var kind string
	read := &cobra.Command{
		Use:   "read <contract> <slot>",
		Short: "Read one storage slot of a contract address or configured contract name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx, false); err != nil {
				return err
			}
			target, err := a.resolveContract(args[0])
			if err != nil {
				return err
			}
			s, err := parseSlot(args[1])
			if err != nil {
				return err
			}

			resolver := slot.NewResolver(a.client)
			var value interface{}
			switch kind {
			case "word":
				w, err := resolver.Read(ctx, target, s)
				if err != nil {
					return err
				}
				value = w.Hex()
			case "string":
				if value, err = resolver.ReadString(ctx, target, s); err != nil {
					return err
				}
			default:
				k, ok := slotKinds[kind]
				if !ok {
					return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, kind)
				}
				fields, err := resolver.ReadStruct(ctx, target, s, []slot.FieldSpec{{Name: "value", Kind: k}})
				if err != nil {
					return err
				}
				value = fields["value"]
			}

			return a.print(map[string]interface{}{
				"contract": target,
				"slot":     s,
				"value":    value,
			})
		},
	}
	read.Flags().StringVar(&kind, "kind", "word", "Decode as word, uint, address, bool, bytes32 or string")
	cmd.AddCommand(read)

	cmd.AddCommand(&cobra.Command{
		Use:   "bidding <uri> <session>",
		Short: "Read a bidding session of the string-keyed auction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx, false); err != nil {
				return err
			}
			auctionAddr, err := a.deployment.Address(contract.Auction)
			if err != nil {
				return err
			}
			session, err := parseUint64("session", args[1])
			if err != nil {
				return err
			}

			bidding, err := slot.NewResolver(a.client).Bidding(ctx, auctionAddr, args[0], session)
			if err != nil {
				return err
			}
			return a.print(bidding)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "bid <uri> <session> <bid>",
		Short: "Read one bid of a bidding session of the string-keyed auction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx, false); err != nil {
				return err
			}
			auctionAddr, err := a.deployment.Address(contract.Auction)
			if err != nil {
				return err
			}
			session, err := parseUint64("session", args[1])
			if err != nil {
				return err
			}
			bidIndex, err := parseUint64("bid", args[2])
			if err != nil {
				return err
			}

			bid, err := slot.NewResolver(a.client).Bid(ctx, auctionAddr, args[0], session, bidIndex)
			if err != nil {
				return err
			}
			return a.print(bid)
		},
	})

	return cmd
}

var slotKinds = map[string]slot.Kind{
	"uint":    slot.KindUint,
	"address": slot.KindAddress,
	"bool":    slot.KindBool,
	"bytes32": slot.KindBytes32,
}

// resolveContract accepts a hex address or a configured contract name
func (a *app) resolveContract(s string) (common.Address, error) {
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	return a.deployment.Address(s)
}
