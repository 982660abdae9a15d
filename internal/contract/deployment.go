package contract

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/config"
	"github.com/decibling/smart-contracts/internal/domain"
)

// deployed contract name -> config key, in the order binaries bind them
var deploymentKeys = []struct {
	name string
	key  string
}{
	{NFT, "nft"},
	{Auction, "auction"},
	{Staking, "staking"},
	{Reserve, "reserve"},
	{ERC20, "token"},
	{Faucet, "faucet"},
}

// Deployment binds the contracts of one deployment against a backend
type Deployment struct {
	registry *Registry
	backend  Backend
	cfg      config.ContractsConfig
}

// NewDeployment loads the built-in interfaces, overridden by any artifacts under cfg.ABIDir
func NewDeployment(fs adapter.FileSystem, cfg config.ContractsConfig, backend Backend) (*Deployment, error) {
	registry, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}

	if cfg.ABIDir != "" {
		if err := registry.LoadDir(fs, cfg.ABIDir); err != nil {
			return nil, err
		}
	}

	return &Deployment{registry: registry, backend: backend, cfg: cfg}, nil
}

func (d *Deployment) Registry() *Registry {
	return d.registry
}

// Configured lists the contract names that have an address set
func (d *Deployment) Configured() []string {
	var names []string
	for _, k := range deploymentKeys {
		if d.value(k.name) != "" {
			names = append(names, k.name)
		}
	}
	return names
}

// Bind binds the latest interface of name at its configured address
func (d *Deployment) Bind(name string) (*Contract, error) {
	return d.BindVersion(name, 0)
}

// BindVersion binds one interface version of name at its configured address; 0 is the latest
func (d *Deployment) BindVersion(name string, version int) (*Contract, error) {
	key := ""
	for _, k := range deploymentKeys {
		if k.name == name {
			key = k.key
		}
	}
	if key == "" {
		return nil, fmt.Errorf("%w: %s is not a deployed contract", domain.ErrInvalidInput, name)
	}

	address, err := d.cfg.Address(key, d.value(name))
	if err != nil {
		return nil, err
	}

	var iface *Interface
	if version == 0 {
		iface, err = d.registry.Latest(name)
	} else {
		iface, err = d.registry.Lookup(name, version)
	}
	if err != nil {
		return nil, err
	}
	return iface.Bind(address, d.backend), nil
}

// BindAll binds every configured contract
func (d *Deployment) BindAll() ([]*Contract, error) {
	var contracts []*Contract
	for _, name := range d.Configured() {
		c, err := d.Bind(name)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

// Address returns the configured address of name without binding it
func (d *Deployment) Address(name string) (common.Address, error) {
	c, err := d.Bind(name)
	if err != nil {
		return common.Address{}, err
	}
	return c.Address(), nil
}

func (d *Deployment) value(name string) string {
	switch name {
	case NFT:
		return d.cfg.NFT
	case Auction:
		return d.cfg.Auction
	case Staking:
		return d.cfg.Staking
	case Reserve:
		return d.cfg.Reserve
	case ERC20:
		return d.cfg.Token
	case Faucet:
		return d.cfg.Faucet
	default:
		return ""
	}
}
