package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/merkle"
)

func newMerkleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merkle",
		Short: "Allow-list merkle root and proofs",
	}

	tree := func() (*merkle.Tree, error) {
		addresses, err := a.allowList()
		if err != nil {
			return nil, err
		}
		if len(addresses) == 0 {
			return nil, fmt.Errorf("%w: allow_list is empty", domain.ErrInvalidInput)
		}
		return merkle.New(addresses)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "root",
		Short: "Print the root of the configured allow list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tree()
			if err != nil {
				return err
			}
			return a.print(map[string]interface{}{
				"root":   t.Root(),
				"leaves": t.Len(),
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "proof <address>",
		Short: "Print the proof of an allow-listed address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := parseAddress("address", args[0])
			if err != nil {
				return err
			}
			t, err := tree()
			if err != nil {
				return err
			}
			proof, err := t.Proof(address)
			if err != nil {
				return err
			}
			if proof == nil {
				proof = []common.Hash{}
			}
			leaf := merkle.AddressLeaf(address)
			return a.print(map[string]interface{}{
				"address":  address,
				"leaf":     leaf,
				"proof":    proof,
				"root":     t.Root(),
				"verified": merkle.Verify(t.Root(), leaf, proof),
			})
		},
	})

	return cmd
}
