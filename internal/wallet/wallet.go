package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/decibling/smart-contracts/internal/config"
	"github.com/decibling/smart-contracts/internal/domain"
)

// Signer signs transactions for a single account
//
//go:generate mockgen -source=wallet.go -destination=../mocks/wallet.go -package=mocks -mock_names=Signer=MockSigner
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

type keySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// FromPrivateKey builds a signer from a hex encoded secp256k1 key, with or without 0x
func FromPrivateKey(hexKey string) (Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key: %v", domain.ErrInvalidInput, err)
	}
	return newKeySigner(key), nil
}

// FromMnemonic derives a signer from a BIP-39 mnemonic along a BIP-32 path
func FromMnemonic(mnemonic string, path string) (Signer, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid mnemonic: %v", domain.ErrInvalidInput, err)
	}

	// chain params only affect the serialized xprv version bytes, not the derived keys
	root, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	if path == "" {
		path = domain.DEFAULT_DERIVATION_PATH
	}
	child, err := deriveKeyFromPath(root, path)
	if err != nil {
		return nil, err
	}

	priv, err := child.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract private key: %w", err)
	}

	key, err := crypto.ToECDSA(priv.Serialize())
	if err != nil {
		return nil, fmt.Errorf("failed to convert private key: %w", err)
	}
	return newKeySigner(key), nil
}

// FromConfig builds the signer configured for a chain, or nil when none is configured
func FromConfig(cfg config.ChainConfig) (Signer, error) {
	switch {
	case cfg.PrivateKey != "":
		return FromPrivateKey(cfg.PrivateKey)
	case cfg.Mnemonic != "":
		return FromMnemonic(cfg.Mnemonic, cfg.DerivationPath)
	default:
		return nil, nil
	}
}

func newKeySigner(key *ecdsa.PrivateKey) *keySigner {
	return &keySigner{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

func (s *keySigner) Address() common.Address {
	return s.address
}

func (s *keySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

// deriveKeyFromPath walks an "m/44'/60'/0'/0/0" style path
func deriveKeyFromPath(root *hdkeychain.ExtendedKey, path string) (*hdkeychain.ExtendedKey, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("%w: derivation path %q must start with m/", domain.ErrInvalidInput, path)
	}

	key := root
	for _, part := range parts[1:] {
		hardened := strings.HasSuffix(part, "'")
		index64, err := strconv.ParseUint(strings.TrimSuffix(part, "'"), 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid path component %q", domain.ErrInvalidInput, part)
		}

		index := uint32(index64)
		if hardened {
			index += hdkeychain.HardenedKeyStart
		}

		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key: %w", err)
		}
	}
	return key, nil
}
