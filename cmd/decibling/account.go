package main

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

type accountView struct {
	Address      common.Address `json:"address"`
	ChainID      *big.Int       `json:"chainId"`
	Balance      *big.Int       `json:"balance"`
	TokenBalance *big.Int       `json:"tokenBalance,omitempty"`
}

func newAccountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the signer account and its balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx, true); err != nil {
				return err
			}

			account, err := a.client.Connect(ctx)
			if err != nil {
				return err
			}
			view := accountView{Address: account.Address, ChainID: a.client.ChainID(), Balance: account.Balance}

			if a.cfg.Contracts.Token != "" {
				token, err := a.token()
				if err != nil {
					return err
				}
				if view.TokenBalance, err = token.BalanceOf(ctx, account.Address); err != nil {
					return err
				}
			}

			return a.print(view)
		},
	}
}
