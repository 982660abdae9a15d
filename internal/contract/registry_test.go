package contract_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/mocks"
)

const auctionV3Artifact = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "DeciblingAuctionV3",
  "abi": [
    {"inputs": [{"name": "itemId", "type": "uint256"}], "name": "settleBid", "outputs": [], "stateMutability": "nonpayable", "type": "function"}
  ]
}`

func TestDefaultRegistry(t *testing.T) {
	registry, err := contract.DefaultRegistry()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, registry.Versions(contract.Auction))

	latest, err := registry.Latest(contract.Auction)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Contains(t, latest.ABI.Methods, "settleBid")
	assert.Contains(t, latest.ABI.Methods, "topBids")

	v1, err := registry.Lookup(contract.Auction, 1)
	require.NoError(t, err)
	assert.Contains(t, v1.ABI.Methods, "settleBiddingSession")
	assert.Contains(t, v1.ABI.Methods, "createNFT")

	for _, name := range []string{contract.ERC20, contract.NFT, contract.Staking, contract.Reserve, contract.Faucet} {
		_, err := registry.Latest(name)
		assert.NoError(t, err, name)
	}

	staking, err := registry.Latest(contract.Staking)
	require.NoError(t, err)
	for _, method := range []string{"newPool", "updatePool", "updatePoolOwner", "stake", "unstake", "payout", "claim", "claimForPoolProfit"} {
		assert.Contains(t, staking.ABI.Methods, method)
	}

	_, err = registry.Lookup(contract.Auction, 9)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = registry.Latest("Unknown")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistryRegister(t *testing.T) {
	registry := contract.NewRegistry()

	abiJSON := `[{"inputs":[],"name":"ping","outputs":[],"stateMutability":"nonpayable","type":"function"}]`
	require.NoError(t, registry.Register("Ping", 1, abiJSON))

	err := registry.Register("Ping", 1, abiJSON)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = registry.Register("Ping", 2, "not json")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = registry.Register("Ping", 0, abiJSON)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistryMigrateAuction(t *testing.T) {
	registry, err := contract.DefaultRegistry()
	require.NoError(t, err)

	winner := common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	v1 := map[string]interface{}{
		"winner":     winner,
		"increment":  big.NewInt(1),
		"startPrice": big.NewInt(1000),
		"startTime":  big.NewInt(10),
		"endTime":    big.NewInt(20),
		"saleCount":  big.NewInt(1),
		"status":     uint8(domain.ItemStatusSold),
	}

	v2, err := registry.Migrate(contract.Auction, 1, 2, v1)
	require.NoError(t, err)

	assert.Equal(t, true, v2["resulted"])
	assert.Equal(t, winner, v2["topBidder"])
	assert.Equal(t, big.NewInt(1000), v2["startPrice"])
	assert.NotContains(t, v2, "status")
	assert.Contains(t, v1, "status", "input state must not be mutated")

	v1["status"] = big.NewInt(int64(domain.ItemStatusOnAuction))
	v2, err = registry.Migrate(contract.Auction, 1, 2, v1)
	require.NoError(t, err)
	assert.Equal(t, false, v2["resulted"])

	v1["status"] = "on_auction"
	_, err = registry.Migrate(contract.Auction, 1, 2, v1)
	assert.ErrorIs(t, err, domain.ErrDecode)

	_, err = registry.Migrate(contract.Auction, 2, 1, v1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = registry.Migrate(contract.Auction, 1, 3, v1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "a missing later step is reported before the first one runs")
	assert.NotErrorIs(t, err, domain.ErrDecode)

	same, err := registry.Migrate(contract.Auction, 2, 2, map[string]interface{}{"resulted": true})
	require.NoError(t, err)
	assert.Equal(t, true, same["resulted"])
}

func TestRegistryMigrationChain(t *testing.T) {
	registry := contract.NewRegistry()
	step := func(key string) contract.Migration {
		return func(state map[string]interface{}) (map[string]interface{}, error) {
			state[key] = true
			return state, nil
		}
	}
	require.NoError(t, registry.RegisterMigration("Thing", 1, step("two")))
	require.NoError(t, registry.RegisterMigration("Thing", 2, step("three")))
	assert.ErrorIs(t, registry.RegisterMigration("Thing", 2, step("again")), domain.ErrInvalidInput)
	require.NoError(t, registry.RegisterMigration("Thing", 3, func(map[string]interface{}) (map[string]interface{}, error) {
		return nil, errors.New("boom")
	}))

	state, err := registry.Migrate("Thing", 1, 3, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"two": true, "three": true}, state)

	_, err = registry.Migrate("Thing", 1, 4, map[string]interface{}{})
	assert.EqualError(t, err, "migrate Thing v3->v4: boom")

	ran := false
	require.NoError(t, registry.RegisterMigration("Gap", 1, func(state map[string]interface{}) (map[string]interface{}, error) {
		ran = true
		return state, nil
	}))
	_, err = registry.Migrate("Gap", 1, 3, map[string]interface{}{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, ran, "no step runs when the chain is incomplete")
}

func TestRegistryLoadDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := mocks.NewMockFileSystem(ctrl)
	fs.EXPECT().Glob("artifacts/*.json").Return([]string{"artifacts/DeciblingAuctionV3.json"}, nil)
	fs.EXPECT().ReadFile("artifacts/DeciblingAuctionV3.json").Return([]byte(auctionV3Artifact), nil)

	registry, err := contract.DefaultRegistry()
	require.NoError(t, err)
	require.NoError(t, registry.LoadDir(fs, "artifacts"))

	latest, err := registry.Latest(contract.Auction)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Version)
	assert.Equal(t, contract.Auction, latest.Name)
}

func TestLoadArtifactErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := mocks.NewMockFileSystem(ctrl)
	fs.EXPECT().ReadFile("missing.json").Return(nil, errors.New("no such file"))
	fs.EXPECT().ReadFile("empty.json").Return([]byte(`{"contractName": "X"}`), nil)
	fs.EXPECT().ReadFile("broken.json").Return([]byte(`{`), nil)

	_, err := contract.LoadArtifact(fs, "missing.json")
	assert.Error(t, err)

	_, err = contract.LoadArtifact(fs, "empty.json")
	assert.ErrorIs(t, err, domain.ErrDecode)

	_, err = contract.LoadArtifact(fs, "broken.json")
	assert.ErrorIs(t, err, domain.ErrDecode)
}
