package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/decibling/smart-contracts/internal/staking"
)

type claimView struct {
	Tx    *txView `json:"tx"`
	Gross string  `json:"gross"`
	Fee   string  `json:"fee"`
	Net   string  `json:"net"`
}

func newClaimView(result *staking.ClaimResult) claimView {
	return claimView{
		Tx:    newTxView(result.Receipt),
		Gross: result.Gross.String(),
		Fee:   result.Fee.String(),
		Net:   result.Net.String(),
	}
}

func newStakingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staking",
		Short: "Manage staking pools and positions",
	}

	orchestrator := func(cmd *cobra.Command, signer bool) (*staking.Orchestrator, error) {
		if err := a.connect(cmd.Context(), signer); err != nil {
			return nil, err
		}
		return a.stakingOrchestrator()
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "pool <pool-id>",
		Short: "Show a pool and the reserve payout fee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx, false); err != nil {
				return err
			}
			pools, err := a.pools()
			if err != nil {
				return err
			}
			pool, err := pools.Pool(ctx, args[0])
			if err != nil {
				return err
			}
			fee, err := pools.PayoutFee(ctx)
			if err != nil {
				return err
			}
			return a.print(map[string]interface{}{
				"pool":             pool,
				"exists":           pool.Exists(),
				"payoutFeePercent": fee,
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "position <pool-id> <staker>",
		Short: "Show a staker's position in a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			staker, err := parseAddress("staker", args[1])
			if err != nil {
				return err
			}
			if err := a.connect(ctx, false); err != nil {
				return err
			}
			pools, err := a.pools()
			if err != nil {
				return err
			}
			stake, err := pools.Staker(ctx, args[0], staker)
			if err != nil {
				return err
			}
			return a.print(stake)
		},
	})

	var ownerShare bool
	payout := &cobra.Command{
		Use:   "payout <pool-id> <staker>",
		Short: "Show the unclaimed profit the contract computes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			staker, err := parseAddress("staker", args[1])
			if err != nil {
				return err
			}
			o, err := orchestrator(cmd, false)
			if err != nil {
				return err
			}
			amount, err := o.Payout(cmd.Context(), args[0], staker, ownerShare)
			if err != nil {
				return err
			}
			return a.print(map[string]interface{}{"payout": amount.String()})
		},
	}
	payout.Flags().BoolVar(&ownerShare, "owner-share", false, "Use the pool owner's rate")
	cmd.AddCommand(payout)

	var expectedOwnerShare bool
	expected := &cobra.Command{
		Use:   "expected <pool-id> <staker>",
		Short: "Compute the expected profit client-side at chain time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			staker, err := parseAddress("staker", args[1])
			if err != nil {
				return err
			}
			o, err := orchestrator(cmd, false)
			if err != nil {
				return err
			}
			amount, err := o.ExpectedPayout(cmd.Context(), args[0], staker, expectedOwnerShare)
			if err != nil {
				return err
			}
			return a.print(map[string]interface{}{"expected": amount.String()})
		},
	}
	expected.Flags().BoolVar(&expectedOwnerShare, "owner-share", false, "Use the pool owner's rate")
	cmd.AddCommand(expected)

	cmd.AddCommand(&cobra.Command{
		Use:   "stake <pool-id> <amount>",
		Short: "Stake into a pool, approving the token spend when needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseBig("amount", args[1])
			if err != nil {
				return err
			}
			o, err := orchestrator(cmd, true)
			if err != nil {
				return err
			}
			receipt, err := o.Stake(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unstake <pool-id> <amount>",
		Short: "Withdraw staked tokens",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseBig("amount", args[1])
			if err != nil {
				return err
			}
			o, err := orchestrator(cmd, true)
			if err != nil {
				return err
			}
			receipt, err := o.Unstake(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "claim <pool-id>",
		Short: "Claim the signer's profit net of the reserve fee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := orchestrator(cmd, true)
			if err != nil {
				return err
			}
			result, err := o.Claim(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(newClaimView(result))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "claim-profit <pool-id> <staker>...",
		Short: "Claim the pool owner's share of the given stakers' profit",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stakers := make([]common.Address, 0, len(args)-1)
			for _, s := range args[1:] {
				staker, err := parseAddress("staker", s)
				if err != nil {
					return err
				}
				stakers = append(stakers, staker)
			}
			o, err := orchestrator(cmd, true)
			if err != nil {
				return err
			}
			result, err := o.ClaimForPoolProfit(cmd.Context(), args[0], stakers)
			if err != nil {
				return err
			}
			return a.print(newClaimView(result))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "new-pool <pool-id>",
		Short: "Create a pool owned by the signer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := orchestrator(cmd, true)
			if err != nil {
				return err
			}
			proof, err := a.proof()
			if err != nil {
				return err
			}
			receipt, err := o.NewPool(cmd.Context(), proof, args[0])
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update-pool <pool-id> <r> <r-to-owner>",
		Short: "Change a pool's staker and owner rates",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseBig("r", args[1])
			if err != nil {
				return err
			}
			rToOwner, err := parseBig("r-to-owner", args[2])
			if err != nil {
				return err
			}
			o, err := orchestrator(cmd, true)
			if err != nil {
				return err
			}
			proof, err := a.proof()
			if err != nil {
				return err
			}
			receipt, err := o.UpdatePool(cmd.Context(), proof, args[0], r, rToOwner)
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-owner <pool-id> <owner>",
		Short: "Transfer a pool to a new owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseAddress("owner", args[1])
			if err != nil {
				return err
			}
			o, err := orchestrator(cmd, true)
			if err != nil {
				return err
			}
			proof, err := a.proof()
			if err != nil {
				return err
			}
			receipt, err := o.UpdatePoolOwner(cmd.Context(), proof, args[0], owner)
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-default-pool",
		Short: "Create the default pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := orchestrator(cmd, true)
			if err != nil {
				return err
			}
			receipt, err := o.SetDefaultPool(cmd.Context())
			if err != nil {
				return err
			}
			return a.printReceipt(receipt)
		},
	})

	return cmd
}
