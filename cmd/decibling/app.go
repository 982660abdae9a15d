package main

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/auction"
	"github.com/decibling/smart-contracts/internal/chain"
	"github.com/decibling/smart-contracts/internal/config"
	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/merkle"
	"github.com/decibling/smart-contracts/internal/slot"
	"github.com/decibling/smart-contracts/internal/staking"
	"github.com/decibling/smart-contracts/internal/wallet"
)

// app is the state shared by every subcommand. The chain connection is opened on
// first use so offline commands such as merkle never dial.
type app struct {
	cfg        *config.CLIConfig
	json       adapter.JSON
	out        io.Writer
	client     chain.Client
	deployment *contract.Deployment
	uriHouse   *auction.URIHouse
}

func newApp(out io.Writer) *app {
	return &app{json: adapter.NewJSON(), out: out}
}

func (a *app) load(configFile, envPath string) error {
	config.ChdirRepoRoot()
	cfg, err := config.LoadCLIConfig(configFile, envPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "decibling-cli",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	return nil
}

// connect dials the chain once. Commands that send transactions require a signer.
func (a *app) connect(ctx context.Context, requireSigner bool) error {
	if err := a.cfg.Chain.Validate(requireSigner); err != nil {
		return err
	}
	if a.client != nil {
		return nil
	}

	signer, err := wallet.FromConfig(a.cfg.Chain)
	if err != nil {
		return err
	}
	chainConfig, err := chain.NewConfig(a.cfg.Chain, false)
	if err != nil {
		return err
	}
	client, err := chain.Dial(ctx, chainConfig, adapter.NewEthClientDialer(), signer, adapter.NewClock(), nil)
	if err != nil {
		return err
	}

	deployment, err := contract.NewDeployment(adapter.NewFileSystem(), a.cfg.Contracts, client)
	if err != nil {
		client.Close()
		return err
	}

	a.client = client
	a.deployment = deployment
	logger.Debug("Connected to chain", zap.String("rpc_url", chainConfig.RPCURL), logger.Address("signer", client.Address()))
	return nil
}

func (a *app) close() {
	if a.client != nil {
		a.client.Close()
	}
}

// house binds the auction interface selected by contracts.auction_version
func (a *app) house() (auction.House, error) {
	if a.cfg.Contracts.AuctionVersion == 1 {
		auc, err := a.deployment.BindVersion(contract.Auction, 1)
		if err != nil {
			return nil, err
		}
		a.uriHouse = auction.NewURIHouse(auc, slot.NewResolver(a.client), a.deployment.Registry())
		return a.uriHouse, nil
	}

	nft, err := a.deployment.Bind(contract.NFT)
	if err != nil {
		return nil, err
	}
	auc, err := a.deployment.BindVersion(contract.Auction, a.cfg.Contracts.AuctionVersion)
	if err != nil {
		return nil, err
	}
	return auction.NewContractHouse(nft, auc), nil
}

// itemID parses an item argument: the uri on the string-keyed auction, the token id otherwise
func (a *app) itemID(arg string) (*big.Int, error) {
	if a.uriHouse != nil {
		return a.uriHouse.Key(arg), nil
	}
	return parseBig("item id", arg)
}

func (a *app) token() (*auction.ContractToken, error) {
	erc20, err := a.deployment.Bind(contract.ERC20)
	if err != nil {
		return nil, err
	}
	return auction.NewContractToken(erc20), nil
}

func (a *app) pools() (*staking.ContractPools, error) {
	stakingContract, err := a.deployment.Bind(contract.Staking)
	if err != nil {
		return nil, err
	}
	reserve, err := a.deployment.Bind(contract.Reserve)
	if err != nil {
		return nil, err
	}
	return staking.NewContractPools(stakingContract, reserve), nil
}

func (a *app) auctionOrchestrator() (*auction.Orchestrator, error) {
	house, err := a.house()
	if err != nil {
		return nil, err
	}
	token, err := a.token()
	if err != nil {
		return nil, err
	}
	return auction.NewOrchestrator(a.client, house, token), nil
}

func (a *app) stakingOrchestrator() (*staking.Orchestrator, error) {
	pools, err := a.pools()
	if err != nil {
		return nil, err
	}
	token, err := a.token()
	if err != nil {
		return nil, err
	}
	return staking.NewOrchestrator(a.client, pools, token), nil
}

// allowList parses the configured merkle allow list
func (a *app) allowList() ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(a.cfg.AllowList))
	for _, s := range a.cfg.AllowList {
		addr, err := parseAddress("allow_list", s)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

// proof returns the signer's allow-list proof. Without an allow list, or when the
// signer is not on it, the proof is empty and the contract decides.
func (a *app) proof() ([][32]byte, error) {
	addresses, err := a.allowList()
	if err != nil || len(addresses) == 0 {
		return nil, err
	}

	tree, err := merkle.New(addresses)
	if err != nil {
		return nil, err
	}

	caller := a.client.Address()
	if !tree.Contains(caller) {
		logger.Warn("Signer is not on the allow list, sending an empty proof", logger.Address("signer", caller))
		return nil, nil
	}
	return tree.ProofBytes(caller)
}

func (a *app) print(v interface{}) error {
	data, err := a.json.MarshalIndent(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

type txView struct {
	TxHash      common.Hash `json:"txHash"`
	BlockNumber uint64      `json:"blockNumber"`
	Status      uint64      `json:"status"`
	GasUsed     uint64      `json:"gasUsed"`
}

func newTxView(receipt *types.Receipt) *txView {
	if receipt == nil {
		return nil
	}
	v := &txView{TxHash: receipt.TxHash, Status: receipt.Status, GasUsed: receipt.GasUsed}
	if receipt.BlockNumber != nil {
		v.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return v
}

func (a *app) printReceipt(receipt *types.Receipt) error {
	return a.print(newTxView(receipt))
}
