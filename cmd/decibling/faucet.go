package main

import (
	"math/big"

	"github.com/spf13/cobra"

	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/faucet"
)

type grantView struct {
	Tx      *txView  `json:"tx"`
	Account string   `json:"account"`
	Amount  *big.Int `json:"amount,omitempty"`
}

func newFaucetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faucet",
		Short: "Request tokens from the on-chain faucet",
	}

	withFaucet := func(cmd *cobra.Command, signer bool) (*faucet.ContractFaucet, error) {
		if err := a.connect(cmd.Context(), signer); err != nil {
			return nil, err
		}
		c, err := a.deployment.Bind(contract.Faucet)
		if err != nil {
			return nil, err
		}
		return faucet.NewContractFaucet(c, a.client), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status [address]",
		Short: "Show when an account may request next, the signer by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := withFaucet(cmd, len(args) == 0)
			if err != nil {
				return err
			}
			account := a.client.Address()
			if len(args) == 1 {
				if account, err = parseAddress("address", args[0]); err != nil {
					return err
				}
			}
			e, err := f.Eligibility(cmd.Context(), account)
			if err != nil {
				return err
			}
			return a.print(e)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "request",
		Short: "Request the signer's grant once its wait time has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := withFaucet(cmd, true)
			if err != nil {
				return err
			}
			grant, err := f.Request(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(grantView{
				Tx:      newTxView(grant.Receipt),
				Account: grant.Account.Hex(),
				Amount:  grant.Amount,
			})
		},
	})

	return cmd
}
